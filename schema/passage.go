package schema

// Passage is a single retrieved chunk of document text together with the
// metadata needed to cite it. It is produced by retrieval and consumed
// immediately by citation deduplication; it is never persisted.
type Passage struct {
	Text   string `json:"text"`
	Source string `json:"source"` // source path of the originating document; empty means missing
	Page   int    `json:"page"`   // zero-based page index; negative means missing
}

// NewPassage builds a passage from retrieval output.
func NewPassage(text, source string, page int) Passage {
	return Passage{Text: text, Source: source, Page: page}
}

// ToolOutput is the structured result of one document-tool invocation:
// the answer produced for the sub-question and the passages it was
// grounded on. An empty SourceDocuments slice is a valid result.
type ToolOutput struct {
	Answer          string    `json:"answer"`
	SourceDocuments []Passage `json:"source_documents"`
}
