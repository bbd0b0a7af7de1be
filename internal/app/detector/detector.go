// Package detector derives notification-worthy events from committed task
// changes and new comments. It is pure: callers decide what to persist and
// what to push.
package detector

import (
	"taskboard/internal/core/domain"
)

// ForTaskChange returns the events produced by moving a task from before to
// after: one ASSIGNED_TASK per newly added assignee and one MENTIONED per
// user newly referenced in the description. The actor never hears about
// their own change.
func ForTaskChange(actorID string, before, after domain.Task) []domain.NotificationEvent {
	set := newEventSet(actorID)

	for _, userID := range AddedAssignees(before.AssigneeIDs(), after.AssigneeIDs()) {
		set.add(userID, domain.ActionAssignedTask, after.ID)
	}

	previous := make(map[string]struct{})
	for _, userID := range MentionedUserIDs(deref(before.Description)) {
		previous[userID] = struct{}{}
	}
	for _, userID := range MentionedUserIDs(deref(after.Description)) {
		if _, ok := previous[userID]; ok {
			continue
		}
		set.add(userID, domain.ActionMentioned, after.ID)
	}

	return set.events
}

// ForComment returns one MENTIONED event per distinct user referenced in a
// comment body on taskID.
func ForComment(actorID, taskID, content string) []domain.NotificationEvent {
	set := newEventSet(actorID)
	for _, userID := range MentionedUserIDs(content) {
		set.add(userID, domain.ActionMentioned, taskID)
	}
	return set.events
}

// AddedAssignees returns after − before, keeping the order of after.
func AddedAssignees(before, after []string) []string {
	old := make(map[string]struct{}, len(before))
	for _, id := range before {
		old[id] = struct{}{}
	}

	added := make([]string, 0)
	seen := make(map[string]struct{}, len(after))
	for _, id := range after {
		if _, ok := old[id]; ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		added = append(added, id)
	}
	return added
}

type eventKey struct {
	recipient string
	action    domain.ActionType
	entity    string
}

type eventSet struct {
	actorID string
	seen    map[eventKey]struct{}
	events  []domain.NotificationEvent
}

func newEventSet(actorID string) *eventSet {
	return &eventSet{
		actorID: actorID,
		seen:    make(map[eventKey]struct{}),
		events:  make([]domain.NotificationEvent, 0),
	}
}

func (s *eventSet) add(recipient string, action domain.ActionType, entityID string) {
	if recipient == "" || recipient == s.actorID {
		return
	}
	key := eventKey{recipient: recipient, action: action, entity: entityID}
	if _, ok := s.seen[key]; ok {
		return
	}
	s.seen[key] = struct{}{}
	s.events = append(s.events, domain.NotificationEvent{
		RecipientUserID: recipient,
		ActionType:      action,
		EntityID:        entityID,
	})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
