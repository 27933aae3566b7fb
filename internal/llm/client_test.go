package llm

import (
	"os"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
)

func TestNewClientRequiresAPIKey(t *testing.T) {
	old := os.Getenv("ANTHROPIC_API_KEY")
	os.Unsetenv("ANTHROPIC_API_KEY")
	defer os.Setenv("ANTHROPIC_API_KEY", old)

	_, err := NewClient(ClientConfig{})
	if err == nil {
		t.Fatal("expected error when no API key is configured")
	}
}

func TestNewClientDefaultModel(t *testing.T) {
	client, err := NewClient(ClientConfig{APIKey: "test-key"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if client.Model() != anthropic.ModelClaudeSonnet4_20250514 {
		t.Errorf("expected default model, got %q", client.Model())
	}
}

func TestTranslateModelForBedrock(t *testing.T) {
	got := translateModelForBedrock(anthropic.ModelClaudeSonnet4_20250514)
	want := anthropic.Model("us.anthropic.claude-sonnet-4-20250514-v1:0")
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	// Unknown models pass through unchanged.
	custom := anthropic.Model("custom-model")
	if translateModelForBedrock(custom) != custom {
		t.Error("expected custom model to pass through unchanged")
	}
}

func TestTokenTracker(t *testing.T) {
	tracker := NewTokenTracker()

	tracker.Add(100, 50)
	tracker.Add(200, 100)

	in, out := tracker.Total()
	if in != 300 || out != 150 {
		t.Errorf("expected totals 300/150, got %d/%d", in, out)
	}
	if tracker.Calls() != 2 {
		t.Errorf("expected 2 calls, got %d", tracker.Calls())
	}
	if tracker.Cost() <= 0 {
		t.Error("expected positive cost estimate")
	}

	tracker.Reset()
	in, out = tracker.Total()
	if in != 0 || out != 0 || tracker.Calls() != 0 {
		t.Error("expected tracker to be empty after reset")
	}
}
