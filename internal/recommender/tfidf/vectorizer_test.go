package tfidf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"lowercases and splits on punctuation", "Python, SQL & Excel", []string{"python", "sql", "excel"}},
		{"drops single characters", "C R Go", []string{"go"}},
		{"keeps digits and underscores", "ms_office 365", []string{"ms_office", "365"}},
		{"empty", "   ", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.text)
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFit_VocabularyExcludesStopWords(t *testing.T) {
	v, rows, err := Fit([]string{"the data analyst in Delhi", "marketing intern for the brand"})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, []string{"analyst", "brand", "data", "delhi", "intern", "marketing"}, v.Terms())
	assert.Equal(t, 6, v.VocabularySize())
}

func TestFit_EmptyVocabulary(t *testing.T) {
	_, _, err := Fit([]string{"the and of", ""})
	assert.ErrorIs(t, err, ErrEmptyVocabulary)

	_, _, err = Fit(nil)
	assert.ErrorIs(t, err, ErrEmptyVocabulary)
}

func TestFit_RowsAreL2Normalized(t *testing.T) {
	_, rows, err := Fit([]string{"python sql python", "excel", "python excel"})
	require.NoError(t, err)

	for i, row := range rows {
		assert.InDelta(t, 1.0, row.Norm(), 1e-9, "row %d", i)
	}
}

func TestFit_SmoothedIDF(t *testing.T) {
	v, rows, err := Fit([]string{"python sql", "python"})
	require.NoError(t, err)

	// python appears in both documents, sql in one.
	idfPython := math.Log(3.0/3.0) + 1
	idfSQL := math.Log(3.0/2.0) + 1
	norm := math.Sqrt(idfPython*idfPython + idfSQL*idfSQL)

	assert.Equal(t, []string{"python", "sql"}, v.Terms())
	assert.InDeltaSlice(t, []float64{idfPython / norm, idfSQL / norm}, rows[0].Values, 1e-12)
	assert.InDeltaSlice(t, []float64{1.0}, rows[1].Values, 1e-12)
}

func TestTransform_UsesFittedVocabularyOnly(t *testing.T) {
	v, _, err := Fit([]string{"python sql", "excel"})
	require.NoError(t, err)

	q := v.Transform("Rust and Haskell")
	assert.True(t, q.IsZero())

	q = v.Transform("rust python")
	require.Len(t, q.Indices, 1)
	assert.Equal(t, 3, v.VocabularySize())
	assert.InDelta(t, 1.0, q.Norm(), 1e-12)
}

func TestCosine(t *testing.T) {
	v, rows, err := Fit([]string{"python sql", "excel word", "python excel"})
	require.NoError(t, err)

	assert.InDelta(t, 1.0, Cosine(rows[0], rows[0]), 1e-12)
	assert.Equal(t, 0.0, Cosine(rows[0], rows[1]))
	assert.Equal(t, 0.0, Cosine(Vector{}, rows[0]))
	assert.Equal(t, 0.0, Cosine(rows[0], v.Transform("")))

	sim := Cosine(v.Transform("python"), rows[2])
	assert.Greater(t, sim, 0.0)
	assert.LessOrEqual(t, sim, 1.0)
}

func TestFit_Deterministic(t *testing.T) {
	docs := []string{"software intern bangalore python", "finance analyst mumbai excel", "python data mumbai"}
	_, first, err := Fit(docs)
	require.NoError(t, err)
	_, second, err := Fit(docs)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
