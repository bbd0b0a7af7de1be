package detector

import (
	"strings"

	"golang.org/x/net/html"
)

const mentionMarker = "mention"

// MentionedUserIDs extracts the user ids carried by mention spans in rich
// content, e.g. <span data-type="mention" data-id="u1">@Ana</span>.
// Plain "@name" text is ignored. Ids are returned once, in document order.
func MentionedUserIDs(content string) []string {
	ids := make([]string, 0)
	if !strings.Contains(content, "data-id") {
		return ids
	}

	seen := make(map[string]struct{})
	z := html.NewTokenizer(strings.NewReader(content))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return ids
		case html.StartTagToken, html.SelfClosingTagToken:
			id, ok := mentionID(z.Token())
			if !ok {
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
}

func mentionID(tok html.Token) (string, bool) {
	var id, dataType, class string
	for _, attr := range tok.Attr {
		switch attr.Key {
		case "data-id":
			id = strings.TrimSpace(attr.Val)
		case "data-type":
			dataType = attr.Val
		case "class":
			class = attr.Val
		}
	}
	if id == "" {
		return "", false
	}
	if dataType == mentionMarker {
		return id, true
	}
	for _, c := range strings.Fields(class) {
		if c == mentionMarker {
			return id, true
		}
	}
	return "", false
}
