// Package oracle models the external text-generation services the
// pipeline depends on. Every service is a single-call capability so
// the core stays testable with deterministic fakes.
package oracle

import "context"

// Oracle is an opaque request/response text service.
type Oracle interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Func adapts a plain function into an Oracle. Used by tests.
type Func func(ctx context.Context, prompt string) (string, error)

func (f Func) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Text calls o and degrades every failure to the empty response. The
// pipeline treats empty as a meaningful "no usable output" signal, so
// transport errors and timeouts feed the same paths as silence.
func Text(ctx context.Context, o Oracle, prompt string) string {
	if o == nil {
		return ""
	}
	text, err := o.Generate(ctx, prompt)
	if err != nil {
		return ""
	}
	return text
}
