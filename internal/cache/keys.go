package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// Key builders. Terms are sorted into a copy before joining so two queries
// that produce the same term set in a different order share one entry, and
// a non-printing separator keeps "a b"+"c" distinct from "a"+"b c".

const keySep = "\x1f"

func RetrievalKey(strategy string, terms []string) string {
	sorted := make([]string, len(terms))
	copy(sorted, terms)
	sort.Strings(sorted)
	return "clauses:" + strategy + keySep + strings.Join(sorted, keySep)
}

func PromptKey(prompt string) string {
	digest := sha256.Sum256([]byte(prompt))
	return "explain:" + hex.EncodeToString(digest[:])
}

func DocNamesKey(ids []string) string {
	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.Strings(sorted)
	return "docs:" + strings.Join(sorted, keySep)
}
