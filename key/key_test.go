package key

import (
	"errors"
	"testing"
)

func TestParseNames(t *testing.T) {
	tests := []struct {
		name string
		want Key
	}{
		{"A", A},
		{"a", A},
		{"z", Z},
		{"5", Num5},
		{"F12", F12},
		{"print", PrintScreen},
		{"PrtSc", PrintScreen},
		{"Back", Backspace},
		{"rightshift", RightShift},
		{"RShift", RightShift},
		{"ctrl", Control},
		{"Control", Control},
		{"win", Meta},
		{"esc", Escape},
		{" space ", Space},
	}

	for _, tt := range tests {
		got, err := Parse(tt.name)
		if err != nil {
			t.Errorf("Parse(%q) error = %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	if _, err := Parse(""); !errors.Is(err, ErrEmptyName) {
		t.Errorf("Parse(\"\") error = %v, want ErrEmptyName", err)
	}
	if _, err := Parse("hyper"); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("Parse(hyper) error = %v, want ErrUnknownKey", err)
	}
}

func TestParseCombo(t *testing.T) {
	keys, err := ParseCombo("ctrl + shift + A")
	if err != nil {
		t.Fatal(err)
	}
	want := []Key{Control, Shift, A}
	if len(keys) != len(want) {
		t.Fatalf("got %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("keys[%d] = %v, want %v", i, keys[i], want[i])
		}
	}

	if _, err := ParseCombo("ctrl + nope"); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("expected ErrUnknownKey, got %v", err)
	}
	if _, err := ParseCombo("ctrl +"); !errors.Is(err, ErrEmptyName) {
		t.Errorf("expected ErrEmptyName for trailing plus, got %v", err)
	}
}

func TestNormalize(t *testing.T) {
	in := []Key{A, Shift, A, Control}
	got := Normalize(in)
	want := []Key{Shift, Control, A}
	if len(got) != len(want) {
		t.Fatalf("Normalize(%v) = %v, want %v", in, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if in[0] != A || in[1] != Shift {
		t.Error("Normalize modified its input")
	}
}

func TestSatisfies(t *testing.T) {
	tests := []struct {
		pressed, required Key
		want              bool
	}{
		{LeftShift, Shift, true},
		{RightShift, Shift, true},
		{Shift, Shift, true},
		{LeftShift, RightShift, false},
		{RightShift, LeftShift, false},
		{LeftControl, Control, true},
		{LeftMeta, Meta, true},
		{A, A, true},
		{A, Shift, false},
	}
	for _, tt := range tests {
		if got := tt.pressed.Satisfies(tt.required); got != tt.want {
			t.Errorf("%v.Satisfies(%v) = %v, want %v", tt.pressed, tt.required, got, tt.want)
		}
	}
}

func TestStringRoundTrip(t *testing.T) {
	for k := None + 1; k < maxKey; k++ {
		got, err := Parse(k.String())
		if err != nil {
			t.Errorf("Parse(%q) error = %v", k.String(), err)
			continue
		}
		if got != k {
			t.Errorf("Parse(%q) = %v, want %v", k.String(), got, k)
		}
	}
}

func TestFormatCombo(t *testing.T) {
	got := FormatCombo([]Key{Control, Shift, A})
	if got != "Ctrl + Shift + A" {
		t.Errorf("FormatCombo = %q", got)
	}
}
