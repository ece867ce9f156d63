package generation

import (
	"fmt"

	"github.com/kdjkdj1234567890-bit/content-engine/internal/types"
)

// ProviderError represents a failed or empty response from the LLM provider
type ProviderError struct {
	ContentType types.ContentType
	Message     string
	Cause       error
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("provider error (%s): %s: %v", e.ContentType, e.Message, e.Cause)
	}
	return fmt.Sprintf("provider error (%s): %s", e.ContentType, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// PromptError represents a missing or unresolvable prompt template
type PromptError struct {
	Key   string
	Cause error
}

func (e *PromptError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("prompt error: %s: %v", e.Key, e.Cause)
	}
	return fmt.Sprintf("prompt error: %s", e.Key)
}

func (e *PromptError) Unwrap() error {
	return e.Cause
}
