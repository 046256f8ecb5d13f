package service

import "context"

// TextGenerator produces natural-language commentary from a prompt.
// It is best-effort enrichment only: callers must tolerate failure and
// substitute a placeholder rather than abort.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
