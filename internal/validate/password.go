// Package validate contains pure input-validation functions. Nothing in
// this package performs I/O; every function is deterministic.
package validate

import (
	"strings"
	"unicode"
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 12

// PasswordResult reports the outcome of a password strength check.
type PasswordResult struct {
	Valid   bool
	Score   int // 0-5
	Missing []string
}

// commonPasswords are rejected outright regardless of character classes.
var commonPasswords = map[string]struct{}{
	"password1234":     {},
	"password12345":    {},
	"password123!":     {},
	"p@ssw0rd1234":     {},
	"p@ssword12345":    {},
	"letmein12345":     {},
	"welcome12345":     {},
	"welcome@12345":    {},
	"qwerty123456":     {},
	"qwertyuiop123":    {},
	"123456789012":     {},
	"1234567890ab":     {},
	"iloveyou1234":     {},
	"admin1234567":     {},
	"changeme1234":     {},
	"administrator":    {},
	"authentication":   {},
	"correcthorse":     {},
	"defaultpassword":  {},
	"securepassword":   {},
	"mypassword123":    {},
	"companypassword":  {},
	"clientportal123":  {},
	"accountant123":    {},
	"accounting123":    {},
	"bookkeeping12":    {},
	"taxseason2024":    {},
	"taxseason2025":    {},
	"abcdefgh1234":     {},
	"zaq12wsxcde3":     {},
	"1qaz2wsx3edc":     {},
	"zxcvbnm12345":     {},
	"asdfghjkl123":     {},
	"summer2024!!":     {},
	"summer2025!!":     {},
	"winter2024!!":     {},
	"winter2025!!":     {},
	"temporarypass":    {},
	"pleasechangeme":   {},
	"forgotpassword":   {},
	"chartofaccounts":  {},
	"generalledger1":   {},
	"trustno112345":    {},
}

// maxRepeatRun is the longest run of one repeated character allowed.
const maxRepeatRun = 3

// Password checks strength per the registration rules: length >= 12, all
// four character classes present, not a common password, no long run of a
// repeated character. Score is 0-5; valid iff score >= 4 and length >= 12.
func Password(pw string) PasswordResult {
	res := PasswordResult{}

	var hasLower, hasUpper, hasDigit, hasSpecial bool
	for _, r := range pw {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSpecial = true
		}
	}

	lengthOK := len(pw) >= MinPasswordLength
	checks := []struct {
		ok      bool
		missing string
	}{
		{lengthOK, "at least 12 characters"},
		{hasLower, "a lowercase letter"},
		{hasUpper, "an uppercase letter"},
		{hasDigit, "a digit"},
		{hasSpecial, "a special character"},
	}
	for _, c := range checks {
		if c.ok {
			res.Score++
		} else {
			res.Missing = append(res.Missing, c.missing)
		}
	}

	if _, common := commonPasswords[strings.ToLower(pw)]; common {
		res.Missing = append(res.Missing, "not a commonly used password")
		return res
	}
	if hasLongRun(pw) {
		res.Missing = append(res.Missing, "no character repeated more than 3 times in a row")
		return res
	}

	res.Valid = res.Score >= 4 && lengthOK
	return res
}

func hasLongRun(s string) bool {
	var prev rune
	run := 0
	for _, r := range s {
		if r == prev {
			run++
			if run > maxRepeatRun {
				return true
			}
		} else {
			prev = r
			run = 1
		}
	}
	return false
}
