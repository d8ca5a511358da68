package store

import (
	"errors"
	"strings"
	"testing"
)

func TestParseIDRoundTrip(t *testing.T) {
	id := NewID()
	parsed, err := ParseID(id.Hex())
	if err != nil {
		t.Fatalf("ParseID(%q): %v", id.Hex(), err)
	}
	if parsed != id {
		t.Fatalf("round trip changed identity: got %s, want %s", parsed.Hex(), id.Hex())
	}
}

func TestParseIDCanonicalizesCase(t *testing.T) {
	id := NewID()
	upper := strings.ToUpper(id.Hex())

	parsed, err := ParseID(upper)
	if err != nil {
		t.Fatalf("ParseID(%q): %v", upper, err)
	}
	if parsed != id {
		t.Fatalf("uppercase hex parsed to a different identity")
	}
	if parsed.Hex() != id.Hex() {
		t.Fatalf("Hex() not canonical: got %q, want %q", parsed.Hex(), id.Hex())
	}
}

func TestParseIDRejectsMalformed(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"too short", "abc123"},
		{"too long", "0123456789abcdef012345678900"},
		{"non-hex", "zzzzzzzzzzzzzzzzzzzzzzzz"},
		{"whitespace", " 0123456789abcdef01234567"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseID(tc.in); !errors.Is(err, ErrInvalidIdentity) {
				t.Fatalf("ParseID(%q) = %v, want ErrInvalidIdentity", tc.in, err)
			}
		})
	}
}

func TestNewIDUnique(t *testing.T) {
	seen := make(map[ID]bool, 1000)
	for i := 0; i < 1000; i++ {
		id := NewID()
		if id.IsZero() {
			t.Fatal("NewID returned the zero identity")
		}
		if seen[id] {
			t.Fatalf("NewID returned duplicate %s", id.Hex())
		}
		seen[id] = true
	}
}

func TestNilIDIsZero(t *testing.T) {
	if !NilID.IsZero() {
		t.Fatal("NilID.IsZero() = false")
	}
	if NewID().IsZero() {
		t.Fatal("fresh identity reported zero")
	}
}
