package validate

import "testing"

func TestEmailValid(t *testing.T) {
	good := []string{
		"client@example.com",
		"first.last@firm.co.uk",
		"a+tag@sub.domain.org",
	}
	for _, addr := range good {
		if !Email(addr) {
			t.Errorf("Email(%q): expected valid", addr)
		}
	}
}

func TestEmailInvalid(t *testing.T) {
	bad := []string{
		"",
		"   ",
		"no-at-sign",
		"@nodomain.com",
		"noperson@",
		"no@dots",
		"two@@example.com",
		"with space@example.com",
	}
	for _, addr := range bad {
		if Email(addr) {
			t.Errorf("Email(%q): expected invalid", addr)
		}
	}
}

func TestEmailRejectsDangerousContent(t *testing.T) {
	bad := []string{
		"javascript:alert(1)@example.com",
		"x<script>@example.com",
		"onerror=x@example.com",
		"JAVASCRIPT:x@example.com",
	}
	for _, addr := range bad {
		if Email(addr) {
			t.Errorf("Email(%q): expected rejection of dangerous content", addr)
		}
	}
}

func TestProfileFields(t *testing.T) {
	s := func(v string) *string { return &v }

	if errs := ProfileFields(s("Ada"), s("Lovelace"), s("Analytical Engines Ltd"), s("+44 20 7946 0958")); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}

	if errs := ProfileFields(s(""), nil, nil, nil); len(errs) != 1 || errs[0].Field != "firstName" {
		t.Fatalf("expected firstName required, got %v", errs)
	}

	if errs := ProfileFields(nil, nil, nil, s("call-me-maybe")); len(errs) != 1 || errs[0].Field != "phone" {
		t.Fatalf("expected phone rejection, got %v", errs)
	}

	if errs := ProfileFields(nil, s("bad\x01name"), nil, nil); len(errs) != 1 || errs[0].Field != "lastName" {
		t.Fatalf("expected control-character rejection, got %v", errs)
	}

	// Absent fields validate as absent.
	if errs := ProfileFields(nil, nil, nil, nil); errs != nil {
		t.Fatalf("expected nil for all-absent fields, got %v", errs)
	}
}
