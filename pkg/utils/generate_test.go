package utils

import (
	"strings"
	"testing"
	"time"
)

func TestGenerateBookingCodeFormat(t *testing.T) {
	code := GenerateBookingCode("BTX")

	parts := strings.Split(code, "-")
	if len(parts) != 3 {
		t.Fatalf("expected 3 parts in %q, got %d", code, len(parts))
	}
	if parts[0] != "BTX" {
		t.Errorf("expected prefix BTX, got %q", parts[0])
	}
	if parts[1] != time.Now().Format("20060102") {
		t.Errorf("unexpected date part %q", parts[1])
	}
	if len(parts[2]) != codeSuffixLength {
		t.Errorf("expected %d-char suffix, got %q", codeSuffixLength, parts[2])
	}
	for _, c := range parts[2] {
		if !strings.ContainsRune(codeAlphabet, c) {
			t.Errorf("suffix char %q not in alphabet", c)
		}
	}
}

func TestGenerateBookingCodeDefaultPrefix(t *testing.T) {
	code := GenerateBookingCode("")
	if !strings.HasPrefix(code, "BTX-") {
		t.Errorf("expected default BTX prefix, got %q", code)
	}
}

func TestRandomCodeSuffixAlwaysFullLength(t *testing.T) {
	// Rejected bytes must be replaced, not skipped: the suffix may never
	// come out short even when many raw bytes fall outside the usable
	// range.
	for i := 0; i < 500; i++ {
		suffix, err := randomCodeSuffix()
		if err != nil {
			t.Fatalf("randomCodeSuffix returned error: %v", err)
		}
		if len(suffix) != codeSuffixLength {
			t.Fatalf("expected %d-char suffix, got %q", codeSuffixLength, suffix)
		}
		for _, c := range suffix {
			if !strings.ContainsRune(codeAlphabet, c) {
				t.Fatalf("suffix char %q not in alphabet", c)
			}
		}
	}
}

func TestGenerateBookingCodeUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		code := GenerateBookingCode("BTX")
		if seen[code] {
			t.Fatalf("duplicate code generated: %s", code)
		}
		seen[code] = true
	}
}
