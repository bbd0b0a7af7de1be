package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"taskboard/internal/core/domain"
)

type automationFile struct {
	Rules []domain.AutomationRule `yaml:"rules"`
}

// LoadAutomationRules parses the rule table at path. An empty path means no
// automation.
func LoadAutomationRules(path string) ([]domain.AutomationRule, error) {
	if path == "" {
		return nil, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read automation rules: %w", err)
	}

	return ParseAutomationRules(content)
}

func ParseAutomationRules(content []byte) ([]domain.AutomationRule, error) {
	var file automationFile
	if err := yaml.Unmarshal(content, &file); err != nil {
		return nil, fmt.Errorf("parse automation rules: %w", err)
	}

	for i, rule := range file.Rules {
		if rule.FieldID == "" || rule.OptionID == "" {
			return nil, fmt.Errorf("automation rule %d (%s): field_id and option_id are required", i, rule.Name)
		}
		switch rule.Action.Type {
		case domain.AutomationReplaceAssignees:
			if len(rule.Action.UserIDs) == 0 {
				return nil, fmt.Errorf("automation rule %d (%s): replace_assignees needs user_ids", i, rule.Name)
			}
		default:
			return nil, fmt.Errorf("automation rule %d (%s): unknown action %q", i, rule.Name, rule.Action.Type)
		}
	}

	return file.Rules, nil
}
