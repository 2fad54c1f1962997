package chatrequests

import (
	"fmt"
	"unicode/utf8"

	openai "github.com/sashabaranov/go-openai"

	"fitcoach/services/coach-api/internal/domain/coach"
	"fitcoach/services/coach-api/internal/interfaces/httpserver/responses"
)

const (
	maxMessages       = 50
	maxContentLength  = 10000
	maxShortField     = 100
	maxLongField      = 200
	maxEquipmentItems = 20
)

// ChatRequest is the inbound coach chat payload: the conversation so far,
// optional coaching context and the personal-data consent flag. A nil
// DataConsent means consent was never given.
type ChatRequest struct {
	Messages    []openai.ChatCompletionMessage `json:"messages"`
	Context     *coach.Context                 `json:"context,omitempty"`
	DataConsent *bool                          `json:"dataConsent,omitempty"`
}

var allowedRoles = map[string]struct{}{
	openai.ChatMessageRoleUser:      {},
	openai.ChatMessageRoleAssistant: {},
	openai.ChatMessageRoleSystem:    {},
}

// Validate checks the request against its size and shape limits and reports
// every violation at once. It is a pure function: the same input always
// produces the same list, in field order.
func (r *ChatRequest) Validate() []responses.FieldError {
	var fields []responses.FieldError

	switch {
	case len(r.Messages) == 0:
		fields = append(fields, responses.FieldError{
			Field: "messages", Reason: "at least one message is required",
		})
	case len(r.Messages) > maxMessages:
		fields = append(fields, responses.FieldError{
			Field: "messages", Reason: fmt.Sprintf("at most %d messages are allowed", maxMessages),
		})
	}

	for i, msg := range r.Messages {
		if _, ok := allowedRoles[msg.Role]; !ok {
			fields = append(fields, responses.FieldError{
				Field:  fmt.Sprintf("messages[%d].role", i),
				Reason: "role must be one of user, assistant, system",
			})
		}
		if utf8.RuneCountInString(msg.Content) > maxContentLength {
			fields = append(fields, responses.FieldError{
				Field:  fmt.Sprintf("messages[%d].content", i),
				Reason: fmt.Sprintf("content must not exceed %d characters", maxContentLength),
			})
		}
	}

	if r.Context != nil {
		fields = append(fields, validateContext(r.Context)...)
	}

	return fields
}

// validateContext bounds the known context fields. Extra passthrough fields
// are deliberately not examined.
func validateContext(c *coach.Context) []responses.FieldError {
	var fields []responses.FieldError

	if c.TrainingFrequency != 0 && (c.TrainingFrequency < 1 || c.TrainingFrequency > 7) {
		fields = append(fields, responses.FieldError{
			Field: "context.trainingFrequency", Reason: "must be between 1 and 7",
		})
	}
	shortFields := []struct {
		name  string
		value string
	}{
		{"context.goalType", c.GoalType},
		{"context.experienceLevel", c.ExperienceLevel},
		{"context.sessionType", c.SessionType},
	}
	for _, field := range shortFields {
		if utf8.RuneCountInString(field.value) > maxShortField {
			fields = append(fields, responses.FieldError{
				Field: field.name, Reason: fmt.Sprintf("must not exceed %d characters", maxShortField),
			})
		}
	}
	if utf8.RuneCountInString(c.Limitations) > maxLongField {
		fields = append(fields, responses.FieldError{
			Field: "context.limitations", Reason: fmt.Sprintf("must not exceed %d characters", maxLongField),
		})
	}
	if len(c.Equipment) > maxEquipmentItems {
		fields = append(fields, responses.FieldError{
			Field: "context.equipment", Reason: fmt.Sprintf("at most %d items are allowed", maxEquipmentItems),
		})
	}
	for i, item := range c.Equipment {
		if utf8.RuneCountInString(item) > maxShortField {
			fields = append(fields, responses.FieldError{
				Field:  fmt.Sprintf("context.equipment[%d]", i),
				Reason: fmt.Sprintf("must not exceed %d characters", maxShortField),
			})
		}
	}

	return fields
}
