// Package segment turns raw extracted document text into ordered chapters
// and clauses. Splitting is purely lexical: a boundary is a line that
// starts with the chapter/clause marker, nothing is validated semantically.
package segment

import (
	"errors"
	"regexp"
	"strings"

	appErr "github.com/legalchat/legalchat/internal/pkg/errors"
	"github.com/legalchat/legalchat/internal/pkg/vntext"
)

// ErrNoSegments means the text passed validation but contained no clause
// markers at all. Callers should treat this as a failed extraction rather
// than a document with zero clauses.
var ErrNoSegments = errors.New("no segments found")

// ClauseNumberUnknown marks a clause whose number could not be parsed from
// its title. It is deliberately not "0": a document may legitimately
// contain a clause numbered zero.
const ClauseNumberUnknown = "unknown"

const minExtractedRunes = 20

type Segment struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

var (
	chapterMarker = regexp.MustCompile(`(?mi)^\s*Chương\s+[IVXLCDM0-9]+\s*[.:]`)
	clauseMarker  = regexp.MustCompile(`(?m)^\s*Điều\s+\d+\s*[.:]`)
	clauseNumber  = regexp.MustCompile(`(?i)điều\s+(\d+)`)
)

// ValidateExtracted rejects text that is too short or carries no Vietnamese
// diacritics, both signs that the upstream PDF extraction failed.
func ValidateExtracted(text string) error {
	if len([]rune(strings.TrimSpace(text))) < minExtractedRunes {
		return appErr.ErrBadExtraction
	}
	if !vntext.HasVietnamese(text) {
		return appErr.ErrBadExtraction
	}
	return nil
}

// SplitChapters splits at chapter markers. Text before the first marker is
// kept as a leading segment so a document preamble still shows up in the
// structural summary.
func SplitChapters(text string) []Segment {
	return buildSegments(splitAt(text, chapterMarker, true))
}

// SplitClauses splits at clause markers, discarding anything before the
// first marker. Returns ErrNoSegments when no marker matched at all.
func SplitClauses(text string) ([]Segment, error) {
	segments := buildSegments(splitAt(text, clauseMarker, false))
	if len(segments) == 0 {
		return nil, ErrNoSegments
	}
	return segments, nil
}

// ExtractClauseNumber pulls the numeral out of a clause title line, e.g.
// "Điều 7. Phạm vi" -> "7". Returns ClauseNumberUnknown when absent.
func ExtractClauseNumber(title string) string {
	match := clauseNumber.FindStringSubmatch(title)
	if match == nil {
		return ClauseNumberUnknown
	}
	return match[1]
}

func splitAt(text string, marker *regexp.Regexp, keepLeading bool) []string {
	locs := marker.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		if keepLeading {
			return []string{text}
		}
		return nil
	}
	var parts []string
	if keepLeading && locs[0][0] > 0 {
		parts = append(parts, text[:locs[0][0]])
	}
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		parts = append(parts, text[loc[0]:end])
	}
	return parts
}

func buildSegments(parts []string) []Segment {
	segments := make([]Segment, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lines := nonEmptyLines(part)
		if len(lines) == 0 {
			continue
		}
		segments = append(segments, Segment{
			Title:   lines[0],
			Content: strings.TrimSpace(strings.Join(lines[1:], "\n")),
		})
	}
	return segments
}

func nonEmptyLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
