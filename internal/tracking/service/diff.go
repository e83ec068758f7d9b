package service

import (
	"strings"

	"ubersystem/internal/tracking/models"
)

// FormatCreated renders every field as name=value.
func FormatCreated(fields []models.Field) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f.Name+"="+models.FormatValue(f.Value))
	}
	return strings.Join(parts, ", ")
}

// Diff renders the fields whose formatted value changed between prior and
// current as "name: old -> new". It returns "" when nothing changed. Fields
// present on only one side are reported with None on the other.
func Diff(prior, current []models.Field) string {
	before := make(map[string]string, len(prior))
	for _, f := range prior {
		before[f.Name] = models.FormatValue(f.Value)
	}

	var parts []string
	seen := make(map[string]bool, len(current))
	for _, f := range current {
		seen[f.Name] = true
		now := models.FormatValue(f.Value)
		old, ok := before[f.Name]
		if !ok {
			old = "None"
		}
		if old != now {
			parts = append(parts, f.Name+": "+old+" -> "+now)
		}
	}
	for _, f := range prior {
		if !seen[f.Name] && before[f.Name] != "None" {
			parts = append(parts, f.Name+": "+before[f.Name]+" -> None")
		}
	}
	return strings.Join(parts, ", ")
}
