package search

import "math"

// Vocabulary is the ordered set of terms shared by one ranking pass.
type Vocabulary struct {
	terms []string
	index map[string]int
}

// BuildVocabulary returns the union of the terms in every document token
// sequence and in the query. Terms keep first-seen order, documents first.
func BuildVocabulary(documents [][]string, query []string) *Vocabulary {
	v := &Vocabulary{index: make(map[string]int)}
	for _, doc := range documents {
		v.add(doc)
	}
	v.add(query)
	return v
}

func (v *Vocabulary) add(tokens []string) {
	for _, t := range tokens {
		if _, ok := v.index[t]; ok {
			continue
		}
		v.index[t] = len(v.terms)
		v.terms = append(v.terms, t)
	}
}

// Len returns the number of distinct terms.
func (v *Vocabulary) Len() int { return len(v.terms) }

// Terms returns the terms in index order.
func (v *Vocabulary) Terms() []string {
	out := make([]string, len(v.terms))
	copy(out, v.terms)
	return out
}

// Contains reports whether term is part of the vocabulary.
func (v *Vocabulary) Contains(term string) bool {
	_, ok := v.index[term]
	return ok
}

// Vectorize counts how often each vocabulary term occurs in tokens.
// Tokens outside the vocabulary are ignored.
func Vectorize(tokens []string, vocab *Vocabulary) []int {
	vec := make([]int, vocab.Len())
	for _, t := range tokens {
		if i, ok := vocab.index[t]; ok {
			vec[i]++
		}
	}
	return vec
}

// Cosine returns dot(a,b) / (|a|*|b|). A zero-norm vector scores 0.
func Cosine(a, b []int) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
	}
	for _, x := range a {
		normA += float64(x) * float64(x)
	}
	for _, x := range b {
		normB += float64(x) * float64(x)
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
