package common

import (
	"encoding/hex"
	"errors"
	"fmt"
	"testing"
)

// ---------- MakeRandHexString ----------

func TestMakeRandHexString_LengthAndHex(t *testing.T) {
	const n = 16
	s, err := MakeRandHexString(n)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s) != n*2 {
		t.Fatalf("expected hex length %d, got %d", n*2, len(s))
	}
	if _, err := hex.DecodeString(s); err != nil {
		t.Fatalf("string is not valid hex: %v", err)
	}
}

func TestMakeRandHexString_ZeroSize(t *testing.T) {
	s, err := MakeRandHexString(0)
	if err != nil {
		t.Fatalf("unexpected error for size=0: %v", err)
	}
	if s != "" {
		t.Fatalf("expected empty string for size=0, got %q", s)
	}
}

func TestMakeRandHexString_Distinct(t *testing.T) {
	a, _ := MakeRandHexString(32)
	b, _ := MakeRandHexString(32)
	if a == b {
		t.Logf("warning: two MakeRandHexString(32) results are identical; extremely unlikely")
	}
}

// ---------- sentinel errors ----------

func TestSentinelErrors_MatchThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("%w: amount must be positive", ErrorValidation)
	if !errors.Is(wrapped, ErrorValidation) {
		t.Fatalf("wrapped validation error must match ErrorValidation")
	}
	if errors.Is(wrapped, ErrorNotFound) {
		t.Fatalf("validation error must not match ErrorNotFound")
	}
	if ErrAIKeyNotConfigured.Error() != "OpenAI API key not configured" {
		t.Fatalf("unexpected message %q", ErrAIKeyNotConfigured.Error())
	}
}
