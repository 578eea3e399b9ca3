package foods

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var accentFolder = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Fold normalizes a food name for table lookup: lowercase, accents stripped,
// whitespace collapsed to single spaces.
func Fold(name string) string {
	folded, _, err := transform.String(accentFolder, name)
	if err != nil {
		folded = name
	}
	folded = strings.ToLower(folded)
	return strings.Join(strings.Fields(folded), " ")
}

// KeyForm converts a folded name into the snake_case canonical key form.
func KeyForm(folded string) string {
	return strings.ReplaceAll(folded, " ", "_")
}
