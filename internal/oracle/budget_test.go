package oracle

import (
	"context"
	"testing"
)

func TestBudget_LimitStopsAtMax(t *testing.T) {
	calls := 0
	inner := Func(func(ctx context.Context, prompt string) (string, error) {
		calls++
		return "answer", nil
	})

	b := NewBudget(2)
	limited := b.Limit(inner, "test")

	for i := 0; i < 2; i++ {
		got, err := limited.Generate(context.Background(), "p")
		if err != nil || got != "answer" {
			t.Fatalf("call %d: got %q, %v", i+1, got, err)
		}
	}

	got, err := limited.Generate(context.Background(), "p")
	if err != nil {
		t.Fatalf("exhausted budget must not error: %v", err)
	}
	if got != "" {
		t.Errorf("exhausted budget must answer empty, got %q", got)
	}
	if calls != 2 {
		t.Errorf("inner oracle called %d times, want 2", calls)
	}
	if b.Used() != 2 {
		t.Errorf("Used() = %d, want 2", b.Used())
	}
}

func TestBudget_ZeroMeansUnlimited(t *testing.T) {
	inner := Func(func(ctx context.Context, prompt string) (string, error) {
		return "ok", nil
	})

	b := NewBudget(0)
	limited := b.Limit(inner, "test")
	for i := 0; i < 50; i++ {
		if got, _ := limited.Generate(context.Background(), "p"); got != "ok" {
			t.Fatalf("call %d unexpectedly limited", i+1)
		}
	}
	if b.Used() != 50 {
		t.Errorf("Used() = %d, want 50", b.Used())
	}
}

func TestBudget_SharedAcrossWrappedOracles(t *testing.T) {
	inner := Func(func(ctx context.Context, prompt string) (string, error) {
		return "ok", nil
	})

	b := NewBudget(3)
	first := b.Limit(inner, "ranker")
	second := b.Limit(inner, "drafter")

	first.Generate(context.Background(), "p")
	second.Generate(context.Background(), "p")
	first.Generate(context.Background(), "p")

	if got, _ := second.Generate(context.Background(), "p"); got != "" {
		t.Errorf("budget must be shared across wrapped oracles, got %q", got)
	}
}

func TestText_DegradesFailuresToEmpty(t *testing.T) {
	if got := Text(context.Background(), nil, "p"); got != "" {
		t.Errorf("nil oracle should yield empty response, got %q", got)
	}

	failing := Func(func(ctx context.Context, prompt string) (string, error) {
		return "partial", context.DeadlineExceeded
	})
	if got := Text(context.Background(), failing, "p"); got != "" {
		t.Errorf("failed call should yield empty response, got %q", got)
	}
}
