package schema

import (
	"fmt"
	"time"
)

// Rule validates one updatable field. Check returns an empty string when the
// value is acceptable, otherwise the reason. Normalize, when set, rewrites
// the accepted value into its stored shape.
type Rule struct {
	Check     func(v interface{}) string
	Normalize func(v interface{}) interface{}
}

func String() Rule {
	return Rule{Check: func(v interface{}) string {
		if _, ok := v.(string); !ok {
			return "expected a string"
		}
		return ""
	}}
}

func NonEmptyString() Rule {
	return Rule{Check: func(v interface{}) string {
		s, ok := v.(string)
		if !ok {
			return "expected a string"
		}
		if s == "" {
			return "must not be empty"
		}
		return ""
	}}
}

func Bool() Rule {
	return Rule{Check: func(v interface{}) string {
		if _, ok := v.(bool); !ok {
			return "expected a boolean"
		}
		return ""
	}}
}

// StringArray accepts []string as well as the []interface{} shape JSON
// decoding produces, normalizing to []string.
func StringArray() Rule {
	return Rule{
		Check: func(v interface{}) string {
			if _, err := toStringSlice(v); err != nil {
				return err.Error()
			}
			return ""
		},
		Normalize: func(v interface{}) interface{} {
			out, _ := toStringSlice(v)
			return out
		},
	}
}

var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// Date accepts an RFC3339 or YYYY-MM-DD string (or a time.Time passed
// through internally) and normalizes to time.Time in UTC.
func Date() Rule {
	return Rule{
		Check: func(v interface{}) string {
			if _, ok := v.(time.Time); ok {
				return ""
			}
			s, ok := v.(string)
			if !ok {
				return "expected a date string"
			}
			for _, layout := range dateLayouts {
				if _, err := time.Parse(layout, s); err == nil {
					return ""
				}
			}
			return "not a parseable date"
		},
		Normalize: func(v interface{}) interface{} {
			if t, ok := v.(time.Time); ok {
				return t.UTC()
			}
			s := v.(string)
			for _, layout := range dateLayouts {
				if t, err := time.Parse(layout, s); err == nil {
					return t.UTC()
				}
			}
			return v
		},
	}
}

// DateString accepts a YYYY-MM-DD string and keeps it as a string (birth
// dates are stored the way they arrive).
func DateString() Rule {
	return Rule{Check: func(v interface{}) string {
		s, ok := v.(string)
		if !ok {
			return "expected a date string"
		}
		if _, err := time.Parse("2006-01-02", s); err != nil {
			return "not a YYYY-MM-DD date"
		}
		return ""
	}}
}

func Enum(values ...string) Rule {
	allowed := make(map[string]bool, len(values))
	for _, v := range values {
		allowed[v] = true
	}
	return Rule{Check: func(v interface{}) string {
		s, ok := v.(string)
		if !ok {
			return "expected a string"
		}
		if !allowed[s] {
			return fmt.Sprintf("must be one of %v", values)
		}
		return ""
	}}
}

var scheduleDays = map[string]bool{
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true,
}

// Schedule validates a doctor's recurring working-hours entries: known day,
// HH:MM bounds, start strictly before end.
func Schedule() Rule {
	return Rule{Check: func(v interface{}) string {
		entries, ok := v.([]interface{})
		if !ok {
			return "expected an array of schedule entries"
		}
		for _, e := range entries {
			slot, ok := e.(map[string]interface{})
			if !ok {
				return "schedule entry must be an object"
			}
			day, _ := slot["day"].(string)
			if !scheduleDays[day] {
				return fmt.Sprintf("unknown day %q", day)
			}
			start, sok := slot["start"].(string)
			end, eok := slot["end"].(string)
			if !sok || !eok {
				return "start and end are required"
			}
			st, err := time.Parse("15:04", start)
			if err != nil {
				return fmt.Sprintf("bad start %q", start)
			}
			et, err := time.Parse("15:04", end)
			if err != nil {
				return fmt.Sprintf("bad end %q", end)
			}
			if !st.Before(et) {
				return "start must be before end"
			}
		}
		return ""
	}}
}

func toStringSlice(v interface{}) ([]string, error) {
	switch vv := v.(type) {
	case []string:
		return vv, nil
	case []interface{}:
		out := make([]string, 0, len(vv))
		for _, item := range vv {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected an array of strings")
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected an array of strings")
	}
}
