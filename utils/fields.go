package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// FieldKind says how a body value is coerced before it reaches the database.
type FieldKind int

const (
	TextField FieldKind = iota
	NumberField
)

// Field maps a request key onto a column. A Required field is never blanked:
// empty or null values for it are treated as absent.
type Field struct {
	Column   string
	Kind     FieldKind
	Required bool
}

// PickUpdates keeps only the allowed keys present in body, coerced to their
// kind and keyed by column. Absent keys are never included, so an update
// built from the result leaves those columns untouched.
func PickUpdates(body map[string]interface{}, allowed map[string]Field) (map[string]interface{}, error) {
	updates := make(map[string]interface{})
	for key, value := range body {
		f, ok := allowed[key]
		if !ok {
			continue
		}
		switch f.Kind {
		case NumberField:
			n, err := ToFloat(value)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			updates[f.Column] = n
		default:
			var s string
			if value != nil {
				text, ok := value.(string)
				if !ok {
					return nil, fmt.Errorf("%s: expected text", key)
				}
				s = strings.TrimSpace(text)
			}
			if s == "" && f.Required {
				continue
			}
			updates[f.Column] = s
		}
	}
	return updates, nil
}

// ToFloat accepts JSON numbers and numeric strings.
func ToFloat(value interface{}) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case string:
		if strings.TrimSpace(v) == "" {
			return 0, nil
		}
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("expected a number, got %q", v)
		}
		return n, nil
	case nil:
		return 0, nil
	default:
		return 0, fmt.Errorf("expected a number, got %T", value)
	}
}
