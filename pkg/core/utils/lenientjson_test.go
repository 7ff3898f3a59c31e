package utils

import "testing"

func TestDecodeLenient_Strict(t *testing.T) {
	var m map[string]any
	if err := DecodeLenient([]byte(`{"Beta": "1.2"}`), &m); err != nil {
		t.Fatal(err)
	}
	if m["Beta"] != "1.2" {
		t.Errorf("Beta = %v", m["Beta"])
	}
}

func TestDecodeLenient_Repairs(t *testing.T) {
	// Trailing comma and unclosed object, as seen from flaky providers.
	var m map[string]any
	if err := DecodeLenient([]byte(`{"Beta": "1.2", "PEGRatio": "2.5",`), &m); err != nil {
		t.Fatalf("repairable payload should decode: %v", err)
	}
	if m["PEGRatio"] != "2.5" {
		t.Errorf("PEGRatio = %v", m["PEGRatio"])
	}
}

func TestDecodeLenient_WrongShape(t *testing.T) {
	// An object can never decode into a slice, repaired or not.
	var s []any
	if err := DecodeLenient([]byte(`{"Beta": "1.2"}`), &s); err == nil {
		t.Error("expected error for mismatched payload shape")
	}
}
