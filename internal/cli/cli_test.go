package cli

import (
	"testing"
)

func TestRootCommandFlags(t *testing.T) {
	cmd := NewRootCmd()

	for _, name := range []string{
		"dry-run", "list", "publish", "no-push", "check-auth",
		"resync", "announce", "verbose", "cleanup",
	} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("flag --%s not registered", name)
		}
	}

	if cmd.Flags().ShorthandLookup("v") == nil {
		t.Error("verbose shorthand -v not registered")
	}
}

func TestCleanupFlagWithoutValueMeansAll(t *testing.T) {
	cmd := NewRootCmd()

	if err := cmd.Flags().Parse([]string{"--cleanup"}); err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if flagCleanup != cleanupAll {
		t.Errorf("bare --cleanup should select all events, got %q", flagCleanup)
	}
	flagCleanup = ""
}

func TestCleanupFlagWithCompany(t *testing.T) {
	cmd := NewRootCmd()

	if err := cmd.Flags().Parse([]string{"--cleanup=테스트기업"}); err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if flagCleanup != "테스트기업" {
		t.Errorf("unexpected cleanup target: %q", flagCleanup)
	}
	flagCleanup = ""
}

// A space-separated company name is not bound to the flag by pflag; it
// arrives as a positional argument and must still scope the cleanup.
func TestCleanupFlagWithSpaceSeparatedCompany(t *testing.T) {
	cmd := NewRootCmd()

	if err := cmd.Flags().Parse([]string{"--cleanup", "테스트기업"}); err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if got := cleanupCompany(flagCleanup, cmd.Flags().Args()); got != "테스트기업" {
		t.Errorf("expected cleanup scoped to the named company, got %q", got)
	}
	flagCleanup = ""
}

func TestCleanupCompany(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		args     []string
		expected string
	}{
		{"inline value", "테스트기업", nil, "테스트기업"},
		{"bare flag with positional", cleanupAll, []string{"테스트기업"}, "테스트기업"},
		{"bare flag alone means all", cleanupAll, nil, ""},
		{"inline value ignores positionals", "테스트기업", []string{"다른기업"}, "테스트기업"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanupCompany(tt.value, tt.args); got != tt.expected {
				t.Errorf("cleanupCompany(%q, %v) = %q, expected %q", tt.value, tt.args, got, tt.expected)
			}
		})
	}
}
