// Package citation reduces raw retrieved passages to a canonical set of
// citations. Identity is structural: two passages pointing at the same
// source and page collapse to one citation, regardless of the order in
// which retrieval produced them.
package citation

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"chatdoc/docname"
	"chatdoc/schema"

	"github.com/SaiNageswarS/go-collection-boot/ds"
)

// ErrMalformedPassage marks retrieval output that is missing source or page
// metadata. This is a retrieval-layer bug, so the whole reduction is aborted
// rather than emitting a citation with placeholder fields.
var ErrMalformedPassage = errors.New("citation: passage missing source or page metadata")

// Citation points at the place in a source document a statement came from.
// Page is 1-based for display; Proof optionally carries the verbatim passage
// text. The zero Proof participates in equality, so proof-mode citations from
// the same page with different text stay distinct.
type Citation struct {
	Source string `json:"source"`
	Page   int    `json:"page"`
	Proof  string `json:"proof,omitempty"`
}

// FormatText renders the citation the way it is shown beneath an answer.
func (c Citation) FormatText() string {
	if c.Proof != "" {
		return fmt.Sprintf(" - %s on page %d; PROOF: %s", c.Source, c.Page, c.Proof)
	}
	return fmt.Sprintf(" - %s on page %d", c.Source, c.Page)
}

// Dedup builds the citation set for one answer from the passages every tool
// invocation returned. The result is sorted by (source, page, proof) so the
// exported order is stable for a given input set regardless of how the set
// iterates.
func Dedup(passages []schema.Passage, withProof bool) ([]Citation, error) {
	seen := ds.NewSet[Citation]()

	for _, passage := range passages {
		if passage.Source == "" || passage.Page < 0 {
			return nil, fmt.Errorf("%w: %+v", ErrMalformedPassage, passage)
		}

		c := Citation{
			Source: docname.StripDate(filepath.Base(passage.Source)),
			Page:   passage.Page + 1,
		}
		if withProof {
			c.Proof = passage.Text
		}

		seen.Add(c)
	}

	citations := seen.ToSlice()
	sort.Slice(citations, func(i, j int) bool {
		if citations[i].Source != citations[j].Source {
			return citations[i].Source < citations[j].Source
		}
		if citations[i].Page != citations[j].Page {
			return citations[i].Page < citations[j].Page
		}
		return citations[i].Proof < citations[j].Proof
	})

	return citations, nil
}
