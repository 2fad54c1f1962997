package coach

import "encoding/json"

// Context is the free-form coaching context sent alongside the chat
// messages. Known fields are validated and sanitized before reaching any
// prompt; everything else lands in Extra and is passed through unexamined,
// never into a prompt.
type Context struct {
	GoalType          string   `json:"goalType,omitempty"`
	TrainingFrequency int      `json:"trainingFrequency,omitempty"`
	ExperienceLevel   string   `json:"experienceLevel,omitempty"`
	Equipment         []string `json:"equipment,omitempty"`
	SessionType       string   `json:"sessionType,omitempty"`
	Limitations       string   `json:"limitations,omitempty"`

	Extra map[string]any `json:"-"`
}

var knownContextKeys = map[string]struct{}{
	"goalType":          {},
	"trainingFrequency": {},
	"experienceLevel":   {},
	"equipment":         {},
	"sessionType":       {},
	"limitations":       {},
}

// UnmarshalJSON splits the incoming object into known, typed fields and the
// opaque Extra bag.
func (c *Context) UnmarshalJSON(data []byte) error {
	type alias Context
	var known alias
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}

	var all map[string]any
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for key := range knownContextKeys {
		delete(all, key)
	}
	if len(all) == 0 {
		all = nil
	}

	*c = Context(known)
	c.Extra = all
	return nil
}

// MarshalJSON re-merges known fields and the Extra bag.
func (c Context) MarshalJSON() ([]byte, error) {
	type alias Context
	raw, err := json.Marshal(alias(c))
	if err != nil {
		return nil, err
	}
	if len(c.Extra) == 0 {
		return raw, nil
	}

	var merged map[string]any
	if err := json.Unmarshal(raw, &merged); err != nil {
		return nil, err
	}
	for key, value := range c.Extra {
		if _, known := knownContextKeys[key]; !known {
			merged[key] = value
		}
	}
	return json.Marshal(merged)
}
