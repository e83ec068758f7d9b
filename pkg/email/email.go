// Package email holds helpers for addresses typed in by admins.
package email

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DisplayName guesses a name from the local part of an address, so
// "ada.lovelace@example.com" becomes "Ada Lovelace". Plus-tags are dropped.
func DisplayName(address string) string {
	local, _, _ := strings.Cut(address, "@")
	local, _, _ = strings.Cut(local, "+")

	parts := strings.FieldsFunc(local, func(r rune) bool {
		return r == '.' || r == '_' || r == '-'
	})
	if len(parts) == 0 {
		return "Admin"
	}
	return cases.Title(language.English).String(strings.Join(parts, " "))
}
