package utils

import "testing"

func TestValidateUsername(t *testing.T) {
	cases := []struct {
		username string
		ok       bool
	}{
		{"alice", true},
		{"a_b_c_123", true},
		{"ab", false},
		{"Alice", false},
		{"has space", false},
		{"", false},
	}
	for _, tc := range cases {
		err := ValidateUsername(tc.username)
		if tc.ok && err != nil {
			t.Fatalf("ValidateUsername(%q): unexpected error %v", tc.username, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("ValidateUsername(%q): expected error", tc.username)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	if err := ValidateEmail("alice@example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, bad := range []string{"", "not-an-email", "a@b", "a b@c.com"} {
		if err := ValidateEmail(bad); err == nil {
			t.Fatalf("ValidateEmail(%q): expected error", bad)
		}
	}
}

func TestPasswordRoundTrip(t *testing.T) {
	hashed, err := HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if err := CheckPassword(hashed, "correct horse battery"); err != nil {
		t.Fatalf("CheckPassword: %v", err)
	}
	if err := CheckPassword(hashed, "wrong"); err == nil {
		t.Fatal("expected mismatch error")
	}
}
