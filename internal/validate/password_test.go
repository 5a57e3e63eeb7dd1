package validate

import (
	"strings"
	"testing"
)

func TestPasswordTooShortNeverValid(t *testing.T) {
	shorts := []string{"", "a", "Ab1!", "Abcdef1!", "Abcdefghi1!"} // all < 12
	for _, pw := range shorts {
		res := Password(pw)
		if res.Valid {
			t.Errorf("Password(%q): expected invalid for length < 12", pw)
		}
		if !containsMissing(res.Missing, "at least 12 characters") {
			t.Errorf("Password(%q): expected length requirement in missing list, got %v", pw, res.Missing)
		}
	}
}

func TestPasswordStrongAccepted(t *testing.T) {
	strong := []string{
		"Tr1cky-Ledger#2025",
		"Quiet!Horse7Stapler",
		"N0t-A-C0mmon-0ne!",
	}
	for _, pw := range strong {
		res := Password(pw)
		if !res.Valid {
			t.Errorf("Password(%q): expected valid, missing=%v score=%d", pw, res.Missing, res.Score)
		}
		if res.Score != 5 {
			t.Errorf("Password(%q): expected score 5, got %d", pw, res.Score)
		}
	}
}

func TestPasswordOneMissingClassStillScoresFour(t *testing.T) {
	// Score 4 with length >= 12 is accepted; the missing class is still
	// reported so the UI can nudge the user.
	cases := []struct {
		pw      string
		missing string
	}{
		{"alllowercase!234", "an uppercase letter"},
		{"ALLUPPERCASE!234", "a lowercase letter"},
		{"NoDigitsAtAll!!!", "a digit"},
		{"NoSpecials123456", "a special character"},
	}
	for _, tc := range cases {
		res := Password(tc.pw)
		if res.Score != 4 {
			t.Errorf("Password(%q): expected score 4, got %d", tc.pw, res.Score)
		}
		if !res.Valid {
			t.Errorf("Password(%q): expected valid at score 4", tc.pw)
		}
		if !containsMissing(res.Missing, tc.missing) {
			t.Errorf("Password(%q): expected %q in missing list, got %v", tc.pw, tc.missing, res.Missing)
		}
	}
}

func TestPasswordTwoMissingClassesInvalid(t *testing.T) {
	res := Password("nouppernospecial1234")
	if res.Valid {
		t.Fatalf("expected invalid at score 3")
	}
	if res.Score != 3 {
		t.Fatalf("expected score 3, got %d", res.Score)
	}
}

func TestPasswordScoreFourButShortIsInvalid(t *testing.T) {
	// All four classes present but too short: score 4, still invalid.
	res := Password("Ab1!Ab1!Ab1")
	if res.Valid {
		t.Fatalf("expected invalid for 11-char password")
	}
	if res.Score != 4 {
		t.Fatalf("expected score 4, got %d", res.Score)
	}
}

func TestPasswordCommonRejected(t *testing.T) {
	res := Password("Welcome@12345")
	if res.Valid {
		t.Fatalf("expected common password to be rejected")
	}
	if !containsMissing(res.Missing, "commonly used") {
		t.Fatalf("expected common-password message, got %v", res.Missing)
	}
}

func TestPasswordRepeatedRunRejected(t *testing.T) {
	res := Password("Gooood-Morning7!")
	if res.Valid {
		t.Fatalf("expected long repeated run to be rejected")
	}
	if !containsMissing(res.Missing, "repeated") {
		t.Fatalf("expected repeated-run message, got %v", res.Missing)
	}

	// A run of exactly 3 is allowed.
	if res := Password("Good-Morning777!"); !res.Valid {
		t.Fatalf("run of 3 should pass, missing=%v", res.Missing)
	}
}

func containsMissing(missing []string, substr string) bool {
	for _, m := range missing {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}
