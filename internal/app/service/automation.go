package service

import (
	"context"

	"go.uber.org/zap"

	"taskboard/internal/core/domain"
	"taskboard/internal/core/ports"
)

// Automation evaluates the configured status rules after a custom field
// value changes, inside the same transaction as the change.
type Automation struct {
	rules []domain.AutomationRule
}

func NewAutomation(rules []domain.AutomationRule) *Automation {
	return &Automation{rules: rules}
}

// Apply runs every rule triggered by the before -> after transition and
// reports whether any of them changed the task.
func (a *Automation) Apply(ctx context.Context, repos ports.Repositories, before *domain.CustomFieldValue, after domain.CustomFieldValue) (bool, error) {
	applied := false
	for _, rule := range a.rules {
		if !rule.Triggered(before, after) {
			continue
		}

		switch rule.Action.Type {
		case domain.AutomationReplaceAssignees:
			if err := a.replaceAssignees(ctx, repos, after.TaskID, rule); err != nil {
				return applied, err
			}
			applied = true
		default:
			zap.L().Warn("skipping automation rule with unknown action",
				zap.String("rule", rule.Name),
				zap.String("action", string(rule.Action.Type)),
			)
		}
	}
	return applied, nil
}

func (a *Automation) replaceAssignees(ctx context.Context, repos ports.Repositories, taskID string, rule domain.AutomationRule) error {
	wanted := uniqueIDs(rule.Action.UserIDs)
	existing, err := repos.Users().ExistingUserIDs(ctx, wanted)
	if err != nil {
		return err
	}

	known := make(map[string]struct{}, len(existing))
	for _, id := range existing {
		known[id] = struct{}{}
	}
	userIDs := make([]string, 0, len(wanted))
	for _, id := range wanted {
		if _, ok := known[id]; !ok {
			zap.L().Warn("automation rule references unknown user", zap.String("rule", rule.Name), zap.String("user_id", id))
			continue
		}
		userIDs = append(userIDs, id)
	}

	zap.L().Info("automation rule triggered",
		zap.String("rule", rule.Name),
		zap.String("task_id", taskID),
		zap.Strings("assignees", userIDs),
	)
	return repos.Assignees().ReplaceAssignees(ctx, taskID, userIDs)
}
