package referral

import "strings"

// ParsedName splits a free-text name for the registration payload.
type ParsedName struct {
	FirstName string
	LastName  string
	Nickname  string
}

// ParseName splits name on whitespace: the first token becomes FirstName, the
// remaining tokens joined by single spaces become LastName (possibly empty),
// and the full trimmed string becomes Nickname.
func ParseName(name string) ParsedName {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ParsedName{}
	}

	parts := strings.Fields(trimmed)

	return ParsedName{
		FirstName: parts[0],
		LastName:  strings.Join(parts[1:], " "),
		Nickname:  trimmed,
	}
}

// displayName resolves the lookup result's name by fixed precedence:
// referrerName, then first+last, then whichever single part is present.
func displayName(referrerName, firstName, lastName string) string {
	switch {
	case referrerName != "":
		return referrerName
	case firstName != "" && lastName != "":
		return firstName + " " + lastName
	case firstName != "":
		return firstName
	default:
		return lastName
	}
}
