package search

import (
	"sort"
	"strings"
)

// MaxResults caps the number of ranked documents returned by Rank.
const MaxResults = 12

// Kind tags what a document was built from.
type Kind string

const (
	KindNote Kind = "note"
	KindTask Kind = "task"
)

// Document is one searchable item of a ranking pass.
type Document struct {
	ID   string `json:"id"`
	Kind Kind   `json:"kind"`
	Text string `json:"text"`
}

// ScoredDocument is a Document with its similarity to the query.
type ScoredDocument struct {
	Document
	Score float64 `json:"score"`
}

// Rank scores every document against query and returns the matches with a
// positive score, best first, at most MaxResults of them. Equal scores keep
// the documents' input order.
func Rank(query string, documents []Document) []ScoredDocument {
	if strings.TrimSpace(query) == "" {
		return []ScoredDocument{}
	}
	qt := Tokenize(query)

	docTokens := make([][]string, len(documents))
	for i, d := range documents {
		docTokens[i] = Tokenize(d.Text)
	}
	vocab := BuildVocabulary(docTokens, qt)
	qv := Vectorize(qt, vocab)

	scored := make([]ScoredDocument, 0, len(documents))
	for i, d := range documents {
		s := Cosine(qv, Vectorize(docTokens[i], vocab))
		if s <= 0 {
			continue
		}
		scored = append(scored, ScoredDocument{Document: d, Score: s})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > MaxResults {
		scored = scored[:MaxResults]
	}
	return scored
}
