package validate

import (
	"net/mail"
	"strings"
)

// dangerousSubstrings are rejected anywhere in an email address. Addresses
// are rendered back into pages, so markup-like content is refused outright
// rather than sanitized.
var dangerousSubstrings = []string{
	"javascript:",
	"vbscript:",
	"<script",
	"onerror=",
	"onload=",
	"onclick=",
}

// Email reports whether the address is well formed and free of dangerous
// content.
func Email(addr string) bool {
	addr = strings.TrimSpace(addr)
	if addr == "" || len(addr) > 254 {
		return false
	}
	lower := strings.ToLower(addr)
	for _, bad := range dangerousSubstrings {
		if strings.Contains(lower, bad) {
			return false
		}
	}
	parsed, err := mail.ParseAddress(addr)
	if err != nil || parsed.Address != addr {
		return false
	}
	at := strings.LastIndex(addr, "@")
	if at <= 0 || !strings.Contains(addr[at+1:], ".") {
		return false
	}
	return true
}
