package domain

import "strings"

// AllowedCompanyDomains lists the email domains accepted for user
// accounts and team-lead identities.
var AllowedCompanyDomains = []string{
	"constantinolawoffice.com",
	"constantinolawoffice.net",
}

const CompanyEmailError = "Email must use @constantinolawoffice.com or @constantinolawoffice.net"

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsAllowedCompanyEmail reports whether the address belongs to an
// allow-listed company domain.
func IsAllowedCompanyEmail(email string) bool {
	normalized := NormalizeEmail(email)
	at := strings.LastIndex(normalized, "@")
	if at <= 0 {
		return false
	}
	d := normalized[at+1:]
	for _, allowed := range AllowedCompanyDomains {
		if d == allowed {
			return true
		}
	}
	return false
}

// EmailLocalPart returns the part of the address before '@'. Used to
// derive display names for team leads.
func EmailLocalPart(email string) string {
	if i := strings.Index(email, "@"); i >= 0 {
		return email[:i]
	}
	return email
}
