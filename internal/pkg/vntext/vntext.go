// Package vntext holds the small amount of Vietnamese-specific text
// handling the search pipeline needs: detecting that extracted text is
// actually Vietnamese, and stripping diacritics so queries typed without
// tone marks can still match.
package vntext

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const vietnameseMarked = "àáạảãâầấậẩẫăằắặẳẵèéẹẻẽêềếệểễìíịỉĩòóọỏõôồốộổỗơờớợởỡùúụủũưừứựửữỳýỵỷỹđ"

var markedSet = func() map[rune]struct{} {
	set := make(map[rune]struct{})
	for _, r := range vietnameseMarked {
		set[r] = struct{}{}
	}
	return set
}()

var stripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// HasVietnamese reports whether the text contains at least one marked
// Vietnamese letter. Plain ASCII output from a scanner that failed to
// recognize the glyphs will not pass this check.
func HasVietnamese(text string) bool {
	for _, r := range strings.ToLower(text) {
		if _, ok := markedSet[r]; ok {
			return true
		}
	}
	return false
}

// StripDiacritics removes tone and vowel marks ("điều" -> "dieu").
func StripDiacritics(s string) string {
	out, _, err := transform.String(stripper, s)
	if err != nil {
		out = s
	}
	out = strings.ReplaceAll(out, "đ", "d")
	out = strings.ReplaceAll(out, "Đ", "D")
	return out
}
