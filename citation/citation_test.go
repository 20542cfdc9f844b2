package citation

import (
	"math/rand"
	"testing"

	"chatdoc/schema"

	"github.com/stretchr/testify/assert"
)

func TestDedupCollapsesSamePage(t *testing.T) {
	passages := []schema.Passage{
		{Text: "x", Source: "/tmp/s1/Report_2023-01-05.pdf", Page: 0},
		{Text: "x", Source: "/tmp/s1/Report_2023-01-05.pdf", Page: 0},
		{Text: "y", Source: "/tmp/s1/Report_2023-01-05.pdf", Page: 0},
	}

	t.Run("WithProof", func(t *testing.T) {
		citations, err := Dedup(passages, true)
		assert.NoError(t, err)
		assert.Len(t, citations, 2, "distinct proof text must stay distinct")
		assert.Equal(t, "Report.pdf", citations[0].Source)
		assert.Equal(t, 1, citations[0].Page)
	})

	t.Run("WithoutProof", func(t *testing.T) {
		citations, err := Dedup(passages, false)
		assert.NoError(t, err)
		assert.Len(t, citations, 1, "same source and page must collapse")
		assert.Empty(t, citations[0].Proof)
	})
}

func TestDedupOrderIndependence(t *testing.T) {
	passages := []schema.Passage{
		{Text: "a", Source: "alpha.pdf", Page: 3},
		{Text: "b", Source: "beta.pdf", Page: 0},
		{Text: "c", Source: "alpha.pdf", Page: 1},
		{Text: "d", Source: "gamma.pdf", Page: 7},
	}

	want, err := Dedup(passages, true)
	assert.NoError(t, err)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		shuffled := append([]schema.Passage(nil), passages...)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		got, err := Dedup(shuffled, true)
		assert.NoError(t, err)
		assert.Equal(t, want, got, "permutation %d must yield the same citation list", i)
	}
}

func TestDedupFailsFastOnMalformedPassage(t *testing.T) {
	t.Run("MissingSource", func(t *testing.T) {
		_, err := Dedup([]schema.Passage{
			{Text: "ok", Source: "a.pdf", Page: 0},
			{Text: "bad", Source: "", Page: 2},
		}, false)
		assert.ErrorIs(t, err, ErrMalformedPassage)
	})

	t.Run("MissingPage", func(t *testing.T) {
		_, err := Dedup([]schema.Passage{
			{Text: "bad", Source: "a.pdf", Page: -1},
		}, false)
		assert.ErrorIs(t, err, ErrMalformedPassage)
	})
}

func TestDedupPageIsOneBased(t *testing.T) {
	citations, err := Dedup([]schema.Passage{{Text: "t", Source: "doc.pdf", Page: 4}}, false)
	assert.NoError(t, err)
	assert.Equal(t, 5, citations[0].Page)
}

func TestFormatText(t *testing.T) {
	plain := Citation{Source: "Report.pdf", Page: 2}
	assert.Equal(t, " - Report.pdf on page 2", plain.FormatText())

	proved := Citation{Source: "Report.pdf", Page: 2, Proof: "the exact words"}
	assert.Equal(t, " - Report.pdf on page 2; PROOF: the exact words", proved.FormatText())
}
