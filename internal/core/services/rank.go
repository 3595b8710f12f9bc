package services

import (
	"sort"
	"strings"

	"github.com/custodia-labs/pidash/internal/core/domain"
)

// Tokenise splits s on whitespace after lower-casing and returns the token set.
func Tokenise(s string) map[string]struct{} {
	fields := strings.Fields(strings.ToLower(s))
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

// OverlapScore counts the distinct query tokens that appear in text.
func OverlapScore(query map[string]struct{}, text string) int {
	score := 0
	for tok := range Tokenise(text) {
		if _, ok := query[tok]; ok {
			score++
		}
	}
	return score
}

// RankDocuments returns up to k documents ordered by descending token
// overlap with query. Ties keep corpus order. Documents with no overlap are
// never returned, except when nothing overlaps: then the first max(1, k/3)
// documents in corpus order are returned so the caller always has context.
func RankDocuments(query string, docs []domain.CorpusDocument, k int) []domain.CorpusDocument {
	if len(docs) == 0 {
		return nil
	}
	if k <= 0 {
		k = domain.DefaultTopK
	}

	q := Tokenise(query)
	type scored struct {
		score int
		doc   domain.CorpusDocument
	}
	ranked := make([]scored, len(docs))
	for i, d := range docs {
		ranked[i] = scored{score: OverlapScore(q, d.Text), doc: d}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	var top []domain.CorpusDocument
	for _, r := range head(ranked, k) {
		if r.score > 0 {
			top = append(top, r.doc)
		}
	}
	if len(top) > 0 {
		return top
	}

	// With every score at zero the stable sort left corpus order intact.
	n := max(1, k/3)
	fallback := make([]domain.CorpusDocument, 0, n)
	for _, r := range head(ranked, n) {
		fallback = append(fallback, r.doc)
	}
	return fallback
}
