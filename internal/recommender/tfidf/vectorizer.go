// Package tfidf implements a term-frequency / inverse-document-frequency
// vectorizer with L2-normalized sparse output.
package tfidf

import (
	"errors"
	"math"
	"sort"
	"strings"
	"unicode"
)

var ErrEmptyVocabulary = errors.New("empty vocabulary: documents contain only stop words or no terms")

// Vector is a sparse row. Indices are strictly increasing.
type Vector struct {
	Indices []int
	Values  []float64
}

// IsZero reports whether the vector has no non-zero component.
func (v Vector) IsZero() bool {
	return len(v.Indices) == 0
}

// Norm returns the Euclidean length.
func (v Vector) Norm() float64 {
	var sum float64
	for _, x := range v.Values {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Vectorizer holds the vocabulary and IDF weights learned by Fit. It is
// immutable after Fit returns.
type Vectorizer struct {
	vocabulary map[string]int
	terms      []string
	idf        []float64
}

// Tokenize lower-cases text and returns runs of letters, digits and
// underscores that are at least two runes long.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_')
	})
	tokens := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) >= 2 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

func analyze(text string) []string {
	tokens := Tokenize(text)
	out := tokens[:0]
	for _, t := range tokens {
		if !IsStopWord(t) {
			out = append(out, t)
		}
	}
	return out
}

// Fit learns the vocabulary and smoothed IDF from docs and returns the
// vectorizer with one row per document, in input order.
func Fit(docs []string) (*Vectorizer, []Vector, error) {
	analyzed := make([][]string, len(docs))
	df := make(map[string]int)
	for i, doc := range docs {
		analyzed[i] = analyze(doc)
		seen := make(map[string]struct{}, len(analyzed[i]))
		for _, t := range analyzed[i] {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			df[t]++
		}
	}
	if len(df) == 0 {
		return nil, nil, ErrEmptyVocabulary
	}

	terms := make([]string, 0, len(df))
	for t := range df {
		terms = append(terms, t)
	}
	sort.Strings(terms)

	v := &Vectorizer{
		vocabulary: make(map[string]int, len(terms)),
		terms:      terms,
		idf:        make([]float64, len(terms)),
	}
	n := float64(len(docs))
	for i, t := range terms {
		v.vocabulary[t] = i
		v.idf[i] = math.Log((1+n)/(1+float64(df[t]))) + 1
	}

	rows := make([]Vector, len(docs))
	for i, tokens := range analyzed {
		rows[i] = v.vectorize(tokens)
	}
	return v, rows, nil
}

// Transform projects text into the fitted space. Terms unknown at fit time
// are ignored; text with no known terms yields the zero vector.
func (v *Vectorizer) Transform(text string) Vector {
	return v.vectorize(analyze(text))
}

// VocabularySize is the number of fitted terms.
func (v *Vectorizer) VocabularySize() int {
	return len(v.terms)
}

// Terms returns the fitted vocabulary in index order.
func (v *Vectorizer) Terms() []string {
	out := make([]string, len(v.terms))
	copy(out, v.terms)
	return out
}

func (v *Vectorizer) vectorize(tokens []string) Vector {
	counts := make(map[int]float64)
	for _, t := range tokens {
		if idx, ok := v.vocabulary[t]; ok {
			counts[idx]++
		}
	}
	if len(counts) == 0 {
		return Vector{}
	}

	indices := make([]int, 0, len(counts))
	for idx := range counts {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	values := make([]float64, len(indices))
	var sum float64
	for i, idx := range indices {
		values[i] = counts[idx] * v.idf[idx]
		sum += values[i] * values[i]
	}
	norm := math.Sqrt(sum)
	for i := range values {
		values[i] /= norm
	}
	return Vector{Indices: indices, Values: values}
}

// Cosine returns the cosine similarity of a and b, 0 when either is the zero
// vector. With non-negative weights the result lies in [0, 1].
func Cosine(a, b Vector) float64 {
	if a.IsZero() || b.IsZero() {
		return 0
	}
	var dot float64
	i, j := 0, 0
	for i < len(a.Indices) && j < len(b.Indices) {
		switch {
		case a.Indices[i] == b.Indices[j]:
			dot += a.Values[i] * b.Values[j]
			i++
			j++
		case a.Indices[i] < b.Indices[j]:
			i++
		default:
			j++
		}
	}
	sim := dot / (a.Norm() * b.Norm())
	return math.Max(0, math.Min(1, sim))
}
