package tools

// Result is the uniform envelope every tool returns. Summary is a short
// human-readable line that is always safe to log and to surface as
// data-source provenance; it is non-empty even when Data is empty.
type Result struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Summary string `json:"summary"`
}

// Call is one tool invocation requested by the model.
type Call struct {
	ID        string
	Name      string
	Arguments string
}

func failure(errMsg, summary string) Result {
	return Result{Success: false, Error: errMsg, Summary: summary}
}

func success(data any, summary string) Result {
	return Result{Success: true, Data: data, Summary: summary}
}
