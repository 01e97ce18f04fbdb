package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// JSONStrings is a list of strings stored as a JSON array column.
type JSONStrings []string

// Value implements the driver.Valuer interface
func (s JSONStrings) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	data, err := json.Marshal([]string(s))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements the sql.Scanner interface
func (s *JSONStrings) Scan(value interface{}) error {
	if value == nil {
		*s = JSONStrings{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("failed to unmarshal JSONStrings: unsupported type %T", value)
	}
	if len(data) == 0 {
		*s = JSONStrings{}
		return nil
	}

	var out []string
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*s = out
	return nil
}

// UnmarshalJSON accepts either an array or a single string, and treats
// null as empty.
func (s *JSONStrings) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		if list == nil {
			list = []string{}
		}
		*s = list
		return nil
	}
	var one string
	if err := json.Unmarshal(data, &one); err != nil {
		return fmt.Errorf("photos must be a list of urls: %w", err)
	}
	if one == "" {
		*s = JSONStrings{}
	} else {
		*s = JSONStrings{one}
	}
	return nil
}

// FlexFloat decodes numbers sent either as JSON numbers or as strings, as
// form inputs tend to do.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexFloat(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("expected a number: %w", err)
	}
	parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("expected a number, got %q", s)
	}
	*f = FlexFloat(parsed)
	return nil
}
