package ports

import "context"

// TextGenerator produces a narrative completion for a prompt. Optional;
// the trend predictor degrades to an empty prediction when it is absent or
// failing. Implementations are expected to bound the call with a timeout.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
