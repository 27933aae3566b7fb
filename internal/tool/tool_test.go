package tool

import (
	"context"
	"testing"
	"time"
)

func TestRegistryRegisterAndGet(t *testing.T) {
	registry := NewRegistry()
	registry.Register(Calculator{})
	registry.Register(Clock{})

	if registry.Count() != 2 {
		t.Fatalf("expected 2 tools, got %d", registry.Count())
	}

	tl, ok := registry.Get("calculator")
	if !ok {
		t.Fatal("expected calculator to be registered")
	}
	if tl.Name() != "calculator" {
		t.Errorf("expected name 'calculator', got %q", tl.Name())
	}

	if _, ok := registry.Get("missing"); ok {
		t.Error("expected lookup of unknown tool to fail")
	}
}

func TestRegistryNamesSorted(t *testing.T) {
	registry := NewRegistry()
	registry.Register(Clock{})
	registry.Register(Calculator{})

	names := registry.Names()
	if len(names) != 2 || names[0] != "calculator" || names[1] != "clock" {
		t.Errorf("expected sorted names [calculator clock], got %v", names)
	}
}

func TestCalculator(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2 + 3", "5"},
		{"2 * (3 + 4)", "14"},
		{"10 / 4", "2.5"},
		{"-3 + 5", "2"},
		{"1 + 2 * 3", "7"},
	}

	calc := Calculator{}
	for _, tt := range tests {
		result, err := calc.Run(context.Background(), tt.input)
		if err != nil {
			t.Errorf("%q: unexpected error: %v", tt.input, err)
			continue
		}
		if result.Content != tt.want {
			t.Errorf("%q: expected %q, got %q", tt.input, tt.want, result.Content)
		}
	}
}

func TestCalculatorErrors(t *testing.T) {
	calc := Calculator{}
	for _, input := range []string{"", "2 +", "(3 + 4", "1 / 0", "abc"} {
		if _, err := calc.Run(context.Background(), input); err == nil {
			t.Errorf("%q: expected error", input)
		}
	}
}

func TestClock(t *testing.T) {
	fixed := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)
	clock := Clock{Now: func() time.Time { return fixed }}

	result, err := clock.Run(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Content != "2026-01-02T15:04:05Z" {
		t.Errorf("expected fixed timestamp, got %q", result.Content)
	}
}
