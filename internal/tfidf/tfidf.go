// Package tfidf builds an immutable term-frequency/inverse-document-frequency
// index over a fixed set of documents and projects queries into the same space.
//
// Weighting follows the common smoothed scheme: idf(t) = ln((1+n)/(1+df(t))) + 1,
// a document weight is the raw term count times idf, and every vector is
// L2-normalized so that cosine similarity reduces to a dot product.
package tfidf

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// Tokens are runs of two or more letters, digits or underscores.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Tokenize lowercases text and splits it into index terms.
func Tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

// Vector is a sparse, L2-normalized term-weight vector sorted by term id.
type Vector []Weight

type Weight struct {
	Term  int
	Value float64
}

// IsZero reports whether the vector has no non-zero weight.
func (v Vector) IsZero() bool {
	return len(v) == 0
}

// Index holds the vocabulary, idf weights and document vectors. It is read-only after Fit.
type Index struct {
	vocabulary map[string]int
	terms      []string
	idf        []float64
	docs       []Vector
}

// Fit builds an index over docs. Document i of the index corresponds to docs[i].
func Fit(docs []string) *Index {
	idx := &Index{vocabulary: make(map[string]int)}

	tokenized := make([][]string, len(docs))
	df := make([]int, 0)

	for i, doc := range docs {
		tokens := Tokenize(doc)
		tokenized[i] = tokens

		seen := make(map[int]struct{}, len(tokens))
		for _, token := range tokens {
			id, ok := idx.vocabulary[token]
			if !ok {
				id = len(idx.terms)
				idx.vocabulary[token] = id
				idx.terms = append(idx.terms, token)
				df = append(df, 0)
			}
			if _, counted := seen[id]; !counted {
				seen[id] = struct{}{}
				df[id]++
			}
		}
	}

	n := float64(len(docs))
	idx.idf = make([]float64, len(df))
	for id, count := range df {
		idx.idf[id] = math.Log((1+n)/(1+float64(count))) + 1
	}

	idx.docs = make([]Vector, len(docs))
	for i, tokens := range tokenized {
		idx.docs[i] = idx.vectorize(tokens)
	}

	return idx
}

// Transform projects text into the index space. Terms unknown to the index are dropped.
func (idx *Index) Transform(text string) Vector {
	return idx.vectorize(Tokenize(text))
}

// Len returns the number of indexed documents.
func (idx *Index) Len() int {
	return len(idx.docs)
}

// VocabularySize returns the number of distinct indexed terms.
func (idx *Index) VocabularySize() int {
	return len(idx.terms)
}

// Similarities returns the cosine similarity of query against every document, in document order.
func (idx *Index) Similarities(query Vector) []float64 {
	scores := make([]float64, len(idx.docs))
	for i, doc := range idx.docs {
		scores[i] = Cosine(query, doc)
	}
	return scores
}

func (idx *Index) vectorize(tokens []string) Vector {
	counts := make(map[int]int, len(tokens))
	for _, token := range tokens {
		if id, ok := idx.vocabulary[token]; ok {
			counts[id]++
		}
	}

	if len(counts) == 0 {
		return Vector{}
	}

	vec := make(Vector, 0, len(counts))
	for id, count := range counts {
		vec = append(vec, Weight{Term: id, Value: float64(count) * idx.idf[id]})
	}
	sort.Slice(vec, func(i, j int) bool { return vec[i].Term < vec[j].Term })

	var norm float64
	for _, w := range vec {
		norm += w.Value * w.Value
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i].Value /= norm
	}

	return vec
}

// Cosine returns the cosine similarity of two normalized vectors in [0,1].
// A zero vector has similarity 0 with anything.
func Cosine(a, b Vector) float64 {
	if a.IsZero() || b.IsZero() {
		return 0
	}

	var dot float64
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].Term == b[j].Term:
			dot += a[i].Value * b[j].Value
			i++
			j++
		case a[i].Term < b[j].Term:
			i++
		default:
			j++
		}
	}

	return math.Max(0, math.Min(1, dot))
}
