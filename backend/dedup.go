package backend

import (
	"fmt"
	"strings"
	"unicode"

	"questionbank"
)

// QuestionDedup drops generated candidates that repeat a question already
// in the bank or an earlier candidate of the same batch. Titles are
// compared after case folding and collapsing punctuation and whitespace.
type QuestionDedup struct {
	cache map[string]int // normalised title -> id (0 for candidates)
}

// NewQuestionDedup creates a deduplicator seeded with the existing bank
func NewQuestionDedup(existing []questionbank.Question) *QuestionDedup {
	qd := &QuestionDedup{cache: make(map[string]int, len(existing))}
	for _, q := range existing {
		qd.cache[normaliseTitle(q.Title)] = q.ID
	}
	return qd
}

// DedupResult is the verdict on one candidate
type DedupResult struct {
	IsDuplicate bool
	Reason      string
	DuplicateID int
}

// CheckDuplicate reports whether q repeats a known question. Accepted
// candidates are remembered so later ones in the batch are checked
// against them.
func (qd *QuestionDedup) CheckDuplicate(q questionbank.Question) DedupResult {
	key := normaliseTitle(q.Title)
	if id, found := qd.cache[key]; found {
		if id != 0 {
			return DedupResult{IsDuplicate: true, Reason: fmt.Sprintf("same as question %d", id), DuplicateID: id}
		}
		return DedupResult{IsDuplicate: true, Reason: "repeated within the batch"}
	}
	qd.cache[key] = 0
	return DedupResult{Reason: "new question"}
}

// Filter keeps the candidates that are not duplicates, in order
func (qd *QuestionDedup) Filter(candidates []questionbank.Question) []questionbank.Question {
	kept := make([]questionbank.Question, 0, len(candidates))
	for i, q := range candidates {
		result := qd.CheckDuplicate(q)
		if result.IsDuplicate {
			questionbank.VerboseLog("Dropping candidate %d %q: %s", i, q.Title, result.Reason)
			continue
		}
		kept = append(kept, q)
	}
	return kept
}

func normaliseTitle(title string) string {
	var sb strings.Builder
	space := false
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if space && sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteRune(r)
			space = false
			continue
		}
		space = true
	}
	return sb.String()
}
