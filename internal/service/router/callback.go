package router

import "strings"

// Callback actions carried in button payloads.
const (
	ActionGrades  = "grades"
	ActionGeneral = "general"
	ActionBack    = "back"
	ActionByName  = "al"
)

// Callback is the decoded form of a button payload. Two encodings exist:
// "action|id" (grades|<id>, general|<id>, back) and "prefix__value"
// (al__<name>, grades__<name>). ByName reports the second one.
type Callback struct {
	Action string
	Value  string
	ByName bool
}

func ParseCallback(data string) (Callback, bool) {
	data = strings.TrimSpace(data)
	if data == ActionBack {
		return Callback{Action: ActionBack}, true
	}

	if action, value, ok := strings.Cut(data, "|"); ok {
		switch action {
		case ActionGrades, ActionGeneral:
			if value = strings.TrimSpace(value); value != "" {
				return Callback{Action: action, Value: value}, true
			}
		}
		return Callback{}, false
	}

	if prefix, value, ok := strings.Cut(data, "__"); ok {
		switch prefix {
		case ActionByName, ActionGrades:
			if value = strings.TrimSpace(value); value != "" {
				return Callback{Action: prefix, Value: value, ByName: true}, true
			}
		}
	}
	return Callback{}, false
}

func (c Callback) String() string {
	switch {
	case c.Action == ActionBack:
		return ActionBack
	case c.ByName:
		return c.Action + "__" + c.Value
	default:
		return c.Action + "|" + c.Value
	}
}

func gradesByID(id string) string  { return Callback{Action: ActionGrades, Value: id}.String() }
func generalByID(id string) string { return Callback{Action: ActionGeneral, Value: id}.String() }
func profileByName(name string) string {
	return Callback{Action: ActionByName, Value: name, ByName: true}.String()
}
