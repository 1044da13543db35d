package util

import (
	"strings"
	"testing"
)

func isValidHex(s string) bool {
	for _, c := range s {
		if !strings.ContainsRune("0123456789abcdef", c) {
			return false
		}
	}
	return true
}

func TestGenerateRandomID(t *testing.T) {
	tests := []struct {
		name       string
		prefix     string
		hexLength  int
		wantPrefix string
		wantLength int // expected total length: prefix + hexLength
	}{
		{
			name:       "process ID format",
			prefix:     "proc_",
			hexLength:  32,
			wantPrefix: "proc_",
			wantLength: 37, // 5 + 32
		},
		{
			name:       "stage ID format",
			prefix:     "stg_",
			hexLength:  32,
			wantPrefix: "stg_",
			wantLength: 36, // 4 + 32
		},
		{
			name:       "custom prefix",
			prefix:     "test_",
			hexLength:  16,
			wantPrefix: "test_",
			wantLength: 21, // 5 + 16
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateRandomID(tt.prefix, tt.hexLength)

			if !strings.HasPrefix(got, tt.wantPrefix) {
				t.Errorf("GenerateRandomID() = %v, want prefix %v", got, tt.wantPrefix)
			}

			if len(got) != tt.wantLength {
				t.Errorf("GenerateRandomID() length = %v, want %v", len(got), tt.wantLength)
			}

			hexPart := got[len(tt.wantPrefix):]
			if !isValidHex(hexPart) {
				t.Errorf("GenerateRandomID() hex part = %v is not valid hex", hexPart)
			}
		})
	}
}

func TestGenerateRandomHex(t *testing.T) {
	if got := GenerateRandomHex(0); got != "" {
		t.Errorf("expected empty string for zero length, got %q", got)
	}
	if got := GenerateRandomHex(-3); got != "" {
		t.Errorf("expected empty string for negative length, got %q", got)
	}

	got := GenerateRandomHex(64)
	if len(got) != 64 {
		t.Errorf("expected 64 chars, got %d", len(got))
	}
	if !isValidHex(got) {
		t.Errorf("expected valid hex, got %q", got)
	}
}

func TestGeneratedIDPrefixes(t *testing.T) {
	if !strings.HasPrefix(GenerateProcessID(), "proc_") {
		t.Error("process id missing proc_ prefix")
	}
	if !strings.HasPrefix(GenerateStageID(), "stg_") {
		t.Error("stage id missing stg_ prefix")
	}
	if !strings.HasPrefix(GenerateInterviewID(), "int_") {
		t.Error("interview id missing int_ prefix")
	}
	if !strings.HasPrefix(GenerateQuestionID(), "q_") {
		t.Error("question id missing q_ prefix")
	}
	if len(GenerateEntityID()) != 32 {
		t.Errorf("expected 32 char entity id, got %d", len(GenerateEntityID()))
	}
}

func TestGenerateRandomIDUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := GenerateProcessID()
		if seen[id] {
			t.Fatalf("duplicate id generated: %s", id)
		}
		seen[id] = true
	}
}
