package llm

import "fmt"

// ClientError is the error family for completion-endpoint failures.
// Callers distinguish infrastructure problems from model-output problems
// by error subtype (errors.As), never by inspecting messages.
type ClientError struct {
	Provider   string
	StatusCode int // 0 for transport-level failures
	Message    string
	Cause      error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s client error: %s: %v", e.Provider, e.Message, e.Cause)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s client error: HTTP %d: %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s client error: %s", e.Provider, e.Message)
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Transient reports whether retrying could plausibly succeed: transport
// and timeout failures are transient, HTTP statuses are not.
func (e *ClientError) Transient() bool {
	return e.StatusCode == 0 && e.Cause != nil
}

// ModelNotFoundError is returned for 404-class responses. Retrying cannot
// fix a missing model, so it never consumes retry budget.
type ModelNotFoundError struct {
	Model string
}

func (e *ModelNotFoundError) Error() string {
	return fmt.Sprintf("model %q not found", e.Model)
}
