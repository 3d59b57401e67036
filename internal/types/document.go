package types

// Metadata keys set by the store and consumed by retrieval.
const (
	MetaSourceFile = "source_file"
	MetaTitle      = "title"
	MetaDate       = "date"
	MetaCategories = "categories"
	MetaTags       = "tags"
	MetaChunkIndex = "chunk_index"
)

// Document is a retrieved chunk with its metadata and similarity score.
// FinalScore is filled in by re-ranking; downstream consumers treat the
// content and metadata as read-only.
type Document struct {
	Content    string            `json:"content"`
	Metadata   map[string]string `json:"metadata"`
	Similarity float64           `json:"similarity"`
	FinalScore float64           `json:"final_score"`
}

// Source returns the best available source label for context headers:
// the title when present, otherwise the source file, otherwise "Unknown".
func (d *Document) Source() string {
	if d.Metadata != nil {
		if title := d.Metadata[MetaTitle]; title != "" {
			return title
		}
		if src := d.Metadata[MetaSourceFile]; src != "" {
			return src
		}
	}
	return "Unknown"
}

// ResearchBrief is the structured result of knowledge-base research.
// Empty slices mean the model response did not parse; callers treat that
// the same as "nothing found".
type ResearchBrief struct {
	KeyThemes        []string   `json:"key_themes"`
	RelevantFacts    []string   `json:"relevant_facts"`
	RelatedTopics    []string   `json:"related_topics"`
	GapsIdentified   []string   `json:"gaps_identified"`
	RecommendedFocus []string   `json:"recommended_focus"`
	Documents        []Document `json:"-"`
}

// SynthesisResult is the retriever agent's output: a synthesized summary
// of the retrieved context plus the most relevant excerpts.
type SynthesisResult struct {
	Summary     string   `json:"summary"`
	Excerpts    []string `json:"excerpts"`
	SourceCount int      `json:"source_count"`
}
