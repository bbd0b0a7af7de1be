package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"taskboard/internal/core/domain"
	"taskboard/internal/core/ports"
)

const defaultClientTimeout = 2 * time.Second

// Notifier is the serving path's handle on the relay: it POSTs each event to
// the control surface and never touches sockets itself.
type Notifier struct {
	url    string
	client *http.Client
}

var _ ports.Broadcaster = (*Notifier)(nil)

func NewNotifier(controlURL string, client *http.Client) *Notifier {
	if client == nil {
		client = &http.Client{Timeout: defaultClientTimeout}
	}
	return &Notifier{url: controlURL, client: client}
}

func (n *Notifier) Broadcast(ctx context.Context, event domain.BroadcastEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("post to relay: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("relay answered %d", resp.StatusCode)
	}
	return nil
}
