// Package core provides parsing helpers shared by the command line tools.
package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jmylchreest/ncenter/internal/model"
)

// ParseDuration parses a duration string with extended formats.
// Supports: 48h, 7d, 1w, 0 (all time)
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)

	// Special case: 0 means no filter (all time)
	if s == "0" || s == "" {
		return 0, nil
	}

	if daysStr, found := strings.CutSuffix(s, "d"); found {
		days, err := strconv.Atoi(daysStr)
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %s", s)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}

	if weeksStr, found := strings.CutSuffix(s, "w"); found {
		weeks, err := strconv.Atoi(weeksStr)
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %s", s)
		}
		return time.Duration(weeks) * 7 * 24 * time.Hour, nil
	}

	return time.ParseDuration(s)
}

// ParseUrgency parses an urgency string to its integer value.
// Accepts: low, normal, critical, 0, 1, 2
func ParseUrgency(s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	switch s {
	case "low", "0":
		return model.UrgencyLow, nil
	case "normal", "1":
		return model.UrgencyNormal, nil
	case "critical", "2":
		return model.UrgencyCritical, nil
	default:
		return 0, fmt.Errorf("invalid urgency: %s (use low, normal, or critical)", s)
	}
}

// ParseAction parses a "key:label" action. A missing label repeats the key.
func ParseAction(s string) (model.Action, error) {
	key, label, found := strings.Cut(s, ":")
	key = strings.TrimSpace(key)
	if key == "" {
		return model.Action{}, fmt.Errorf("invalid action %q: empty key", s)
	}
	label = strings.TrimSpace(label)
	if !found || label == "" {
		label = key
	}
	return model.Action{Key: key, Label: label}, nil
}

// ParseActions parses every entry with ParseAction.
func ParseActions(specs []string) ([]model.Action, error) {
	actions := make([]model.Action, 0, len(specs))
	for _, s := range specs {
		a, err := ParseAction(s)
		if err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}
	return actions, nil
}
