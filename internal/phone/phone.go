// Package phone formats US phone numbers for display and strips them for transmission.
package phone

import "strings"

// Digits strips every non-digit rune. This is the only form ever sent over the
// wire; formatting exists purely for on-screen display.
func Digits(s string) string {
	var b strings.Builder

	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	return b.String()
}

// Format renders up to ten digits as (XXX) XXX-XXXX, growing progressively as
// the user types. Input beyond ten digits is ignored.
func Format(s string) string {
	d := Digits(s)

	switch {
	case d == "":
		return ""
	case len(d) <= 3:
		return "(" + d
	case len(d) <= 6:
		return "(" + d[:3] + ") " + d[3:]
	default:
		if len(d) > 10 {
			d = d[:10]
		}

		return "(" + d[:3] + ") " + d[3:6] + "-" + d[6:]
	}
}
