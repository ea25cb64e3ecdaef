package tfidf

import (
	"math"
	"reflect"
	"testing"
)

const epsilon = 1e-9

func TestTokenize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		expect []string
	}{
		{
			name:   "lowercases and splits on punctuation",
			input:  "Python;SQL Technical",
			expect: []string{"python", "sql", "technical"},
		},
		{
			name:   "drops single characters",
			input:  "Test A for C and Go",
			expect: []string{"test", "for", "and", "go"},
		},
		{
			name:   "keeps digits and underscores",
			input:  "Level_2 test 45min",
			expect: []string{"level_2", "test", "45min"},
		},
		{
			name:   "empty",
			input:  "  ",
			expect: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Tokenize(tt.input); !reflect.DeepEqual(got, tt.expect) {
				t.Fatalf("expected %v, got %v", tt.expect, got)
			}
		})
	}
}

func idfOf(idx *Index, term string) (float64, bool) {
	id, ok := idx.vocabulary[term]
	if !ok {
		return 0, false
	}
	return idx.idf[id], true
}

func TestFitIDF(t *testing.T) {
	idx := Fit([]string{
		"python sql technical",
		"leadership personality",
		"python aptitude",
	})

	if idx.Len() != 3 {
		t.Fatalf("expected 3 documents, got %d", idx.Len())
	}
	if idx.VocabularySize() != 6 {
		t.Fatalf("expected 6 terms, got %d", idx.VocabularySize())
	}

	python, ok := idfOf(idx, "python")
	if !ok {
		t.Fatalf("expected python to be indexed")
	}
	if want := math.Log(4.0/3.0) + 1; math.Abs(python-want) > epsilon {
		t.Fatalf("expected idf %v, got %v", want, python)
	}

	leadership, _ := idfOf(idx, "leadership")
	if want := math.Log(4.0/2.0) + 1; math.Abs(leadership-want) > epsilon {
		t.Fatalf("expected idf %v, got %v", want, leadership)
	}

	if leadership <= python {
		t.Fatalf("rare terms must weigh more than common ones: %v <= %v", leadership, python)
	}

	if _, ok := idfOf(idx, "java"); ok {
		t.Fatalf("did not expect java in vocabulary")
	}
}

func TestDocumentVectorsAreNormalized(t *testing.T) {
	idx := Fit([]string{"python python sql", "java"})

	for i := 0; i < idx.Len(); i++ {
		var norm float64
		for _, w := range idx.docs[i] {
			norm += w.Value * w.Value
		}
		if math.Abs(norm-1) > epsilon {
			t.Fatalf("document %d: expected unit norm, got %v", i, norm)
		}
	}
}

func TestTransformDropsUnknownTerms(t *testing.T) {
	idx := Fit([]string{"python sql", "java"})

	vec := idx.Transform("Manager Python Senior")
	if len(vec) != 1 {
		t.Fatalf("expected a single known term, got %v", vec)
	}
	if math.Abs(vec[0].Value-1) > epsilon {
		t.Fatalf("expected single term weight 1, got %v", vec[0].Value)
	}

	if unknown := idx.Transform("Manager Senior"); !unknown.IsZero() {
		t.Fatalf("expected zero vector, got %v", unknown)
	}

	if idx.VocabularySize() != 3 {
		t.Fatalf("transform must not grow the vocabulary, got %d terms", idx.VocabularySize())
	}
}

func TestCosine(t *testing.T) {
	idx := Fit([]string{"python sql technical", "leadership personality", "python sql technical"})

	scores := idx.Similarities(idx.Transform("python sql technical"))
	if math.Abs(scores[0]-1) > epsilon || math.Abs(scores[2]-1) > epsilon {
		t.Fatalf("expected identical documents to score 1, got %v", scores)
	}
	if scores[1] != 0 {
		t.Fatalf("expected disjoint document to score 0, got %v", scores[1])
	}
	if scores[0] != scores[2] {
		t.Fatalf("identical documents must score exactly the same: %v vs %v", scores[0], scores[2])
	}

	zero := idx.Transform("nothing known")
	for i, score := range idx.Similarities(zero) {
		if score != 0 {
			t.Fatalf("document %d: expected 0 for zero query, got %v", i, score)
		}
	}

	if got := Cosine(Vector{}, Vector{}); got != 0 {
		t.Fatalf("expected 0 for two zero vectors, got %v", got)
	}
}

func TestRepeatedQueryTermIncreasesSimilarity(t *testing.T) {
	idx := Fit([]string{"coding python technical", "queries sql technical"})

	low := idx.Similarities(idx.Transform("python sql sql sql"))[0]
	high := idx.Similarities(idx.Transform("python python python python python sql sql sql"))[0]

	if high <= low {
		t.Fatalf("expected repeated term to raise similarity: low=%v high=%v", low, high)
	}
}
