package tools

import (
	"encoding/json"
	"fmt"

	genschema "github.com/invopop/jsonschema"
	"github.com/santhosh-tekuri/jsonschema/v5"
	openai "github.com/sashabaranov/go-openai"
)

// Tool catalogue. Names are part of the model-facing contract and must not
// change without updating the grounded system prompt.
const (
	NameWeightHistory    = "get_weight_history"
	NameRecentSessions   = "get_recent_sessions"
	NameCheckinStats     = "get_checkin_stats"
	NameNextSession      = "get_next_session"
	NameSessionByIndex   = "get_session_by_index"
	NameWeekSessions     = "get_week_sessions"
	NameNutritionTargets = "get_nutrition_targets"
	NameTrainingPrefs    = "get_training_preferences"
	NameNutritionLog     = "get_nutrition_log"
	NameUserProfile      = "get_user_profile"
	NameWeeklyProgress   = "get_weekly_progress"
	NameExerciseHistory  = "get_exercise_history"
)

// Spec describes one catalogue entry as advertised to the model.
type Spec struct {
	Name        string
	Description string
	Parameters  json.RawMessage
}

type toolDef struct {
	spec   Spec
	schema *jsonschema.Schema
}

// Registry is the fixed catalogue of data-lookup tools. It is built once at
// process start and is immutable afterwards: each entry's parameter schema
// is reflected from its typed argument struct and compiled for validation.
type Registry struct {
	order []string
	defs  map[string]*toolDef
}

var emptyObjectSchema = json.RawMessage(`{"type":"object","properties":{}}`)

// NewRegistry builds the full tool catalogue. It fails only on a schema
// reflection/compilation bug, which is a programming error caught at startup.
func NewRegistry() (*Registry, error) {
	r := &Registry{defs: make(map[string]*toolDef)}

	entries := []struct {
		name        string
		description string
		args        any
	}{
		{NameWeightHistory, "Get the user's bodyweight history for the last N weeks.", weightHistoryArgs{}},
		{NameRecentSessions, "Get the user's most recent training sessions, completed or not.", recentSessionsArgs{}},
		{NameCheckinStats, "Get aggregate wellbeing check-in statistics (energy, sleep, mood) for the last N weeks.", checkinStatsArgs{}},
		{NameNextSession, "Get the user's next scheduled, not yet completed training session.", nil},
		{NameSessionByIndex, "Get the Nth training session of the current week (1 = first session of the week, chronological order).", sessionByIndexArgs{}},
		{NameWeekSessions, "Get every training session scheduled in the current week (Monday through Sunday).", nil},
		{NameNutritionTargets, "Get the user's computed daily nutrition targets: BMR, TDEE, calorie target and macro split.", nil},
		{NameTrainingPrefs, "Get the user's training preferences: split, weekly frequency, preferred zones, equipment, limitations.", nil},
		{NameNutritionLog, "Get the user's logged nutrition (calories and macros per day) for the last N days.", nutritionLogArgs{}},
		{NameUserProfile, "Get the user's profile: sex, age, height, weight, activity level, goal, allergies.", nil},
		{NameWeeklyProgress, "Get this week's training adherence compared to the previous week.", nil},
		{NameExerciseHistory, "Get sessions containing a given exercise over the last N weeks, optionally filtered by exercise name.", exerciseHistoryArgs{}},
	}

	for _, e := range entries {
		if err := r.add(e.name, e.description, e.args); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) add(name, description string, args any) error {
	def := &toolDef{spec: Spec{Name: name, Description: description, Parameters: emptyObjectSchema}}

	if args != nil {
		reflector := genschema.Reflector{
			Anonymous:                 true,
			ExpandedStruct:            true,
			DoNotReference:            true,
			AllowAdditionalProperties: true,
		}
		raw, err := json.Marshal(reflector.Reflect(args))
		if err != nil {
			return fmt.Errorf("reflect schema for %s: %w", name, err)
		}
		def.spec.Parameters = raw

		compiled, err := jsonschema.CompileString(name+".json", string(raw))
		if err != nil {
			return fmt.Errorf("compile schema for %s: %w", name, err)
		}
		def.schema = compiled
	}

	if _, exists := r.defs[name]; exists {
		return fmt.Errorf("duplicate tool %s", name)
	}
	r.defs[name] = def
	r.order = append(r.order, name)
	return nil
}

// Specs returns the catalogue in registration order.
func (r *Registry) Specs() []Spec {
	out := make([]Spec, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.defs[name].spec)
	}
	return out
}

// Has reports whether the catalogue contains the named tool.
func (r *Registry) Has(name string) bool {
	_, ok := r.defs[name]
	return ok
}

// OpenAITools renders the catalogue in the gateway wire format.
func (r *Registry) OpenAITools() []openai.Tool {
	out := make([]openai.Tool, 0, len(r.order))
	for _, name := range r.order {
		def := r.defs[name]
		out = append(out, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        def.spec.Name,
				Description: def.spec.Description,
				Parameters:  def.spec.Parameters,
			},
		})
	}
	return out
}

// validate checks raw arguments against the named tool's compiled schema.
// Tools without parameters accept anything.
func (r *Registry) validate(name string, raw json.RawMessage) error {
	def, ok := r.defs[name]
	if !ok {
		return fmt.Errorf("unknown tool %s", name)
	}
	if def.schema == nil {
		return nil
	}
	if len(raw) == 0 {
		raw = json.RawMessage(`{}`)
	}
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return fmt.Errorf("arguments are not valid JSON: %w", err)
	}
	return def.schema.Validate(value)
}
