package model

import "testing"

func TestCanonicalEmail(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"User@Example.COM", "user@example.com"},
		{"  padded@example.com  ", "padded@example.com"},
		{"already@example.com", "already@example.com"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := CanonicalEmail(tc.in); got != tc.want {
			t.Errorf("CanonicalEmail(%q) = %q, want %q", tc.in, got, tc.want)
		}
		// Canonicalizing twice must not change the result.
		if got := CanonicalEmail(CanonicalEmail(tc.in)); got != tc.want {
			t.Errorf("CanonicalEmail not idempotent for %q", tc.in)
		}
	}
}

func TestNormalizeEmailHook(t *testing.T) {
	u := &User{Email: "  Admin@Example.com "}
	if err := NormalizeEmail(u); err != nil {
		t.Fatalf("NormalizeEmail: %v", err)
	}
	if u.Email != "admin@example.com" {
		t.Fatalf("email = %q, want %q", u.Email, "admin@example.com")
	}

	empty := &User{Email: "   "}
	if err := NormalizeEmail(empty); err == nil {
		t.Fatal("NormalizeEmail accepted a blank email")
	}
}

func TestTrimTitleHook(t *testing.T) {
	it := &Item{Title: "  Groceries  "}
	if err := TrimTitle(it); err != nil {
		t.Fatalf("TrimTitle: %v", err)
	}
	if it.Title != "Groceries" {
		t.Fatalf("title = %q, want %q", it.Title, "Groceries")
	}

	blank := &Item{Title: " \t "}
	if err := TrimTitle(blank); err == nil {
		t.Fatal("TrimTitle accepted a blank title")
	}
}

func TestSchemas(t *testing.T) {
	if Users.Collection() != "users" {
		t.Errorf("Users.Collection() = %q", Users.Collection())
	}
	if Items.Collection() != "items" {
		t.Errorf("Items.Collection() = %q", Items.Collection())
	}
	if len(UserSchema.Indexes) == 0 || !UserSchema.Indexes[0].Unique {
		t.Error("users email index must be unique")
	}
	if !UserSchema.Durability.Majority || !UserSchema.Durability.Journaled {
		t.Error("users writes must be majority-acknowledged and journaled")
	}
}
