package models

import "fmt"

// SourceKind tags where a document comes from.
type SourceKind string

const (
	RemoteURL   SourceKind = "url"
	LocalFile   SourceKind = "local_file"
	ObjectStore SourceKind = "s3"
)

// Source is a classified user input. It is never mutated after classification.
type Source struct {
	Raw      string     `json:"raw"`
	Kind     SourceKind `json:"kind"`
	Location string     `json:"location"` // normalized fetch target (path, URL or s3 URL)
}

// Document holds the raw PDF bytes for a single request.
type Document struct {
	Bytes     []byte
	PageCount int
	Origin    string // final URL or path the bytes came from
}

// TextChunk is one bounded span of the flattened document text.
//
// Index:     zero-based position, defines ordering.
// Content:   chunk text; chunks after the first start with the overlap tail of their predecessor.
// CharCount: rune count of Content.
type TextChunk struct {
	Index     int    `json:"index"`
	Content   string `json:"content"`
	CharCount int    `json:"char_count"`
}

type SummaryStatus string

const (
	SummaryOk     SummaryStatus = "ok"
	SummaryFailed SummaryStatus = "failed"
)

// PartialSummary is the model output for one chunk.
type PartialSummary struct {
	ChunkIndex int           `json:"chunk_index"`
	Text       string        `json:"text"`
	Status     SummaryStatus `json:"status"`
	Attempts   int           `json:"attempts"`
	Err        error         `json:"-"`
}

func (p PartialSummary) Failed() bool {
	return p.Status == SummaryFailed
}

// ChunkPlaceholder is the visible marker used for a chunk that could not be summarized.
func ChunkPlaceholder(index int) string {
	return fmt.Sprintf("[chunk %d could not be summarized]", index+1)
}

// FinalSummary is the terminal artifact of one summarization request.
type FinalSummary struct {
	RequestID    string `json:"request_id"`
	Source       Source `json:"source"`
	Text         string `json:"text"`
	Pages        int    `json:"pages"`
	Chunks       int    `json:"chunks"`
	FailedChunks int    `json:"failed_chunks"`
	MetaRounds   int    `json:"meta_rounds"`
	Language     string `json:"language,omitempty"`
	Degraded     bool   `json:"degraded"` // final pass failed, Text is the merged partial summaries
}

// SummarizeRequest is the unified inbound payload.
type SummarizeRequest struct {
	Source     string `json:"source"`
	SourceType string `json:"source_type"`
	URL        string `json:"url,omitempty"`
	FilePath   string `json:"file_path,omitempty"`
}

// SummarizeResponse is returned on success by every summarize endpoint.
type SummarizeResponse struct {
	RequestID    string     `json:"request_id"`
	Source       string     `json:"source"`
	SourceType   SourceKind `json:"source_type"`
	FinalSummary string     `json:"final_summary"`
	Pages        int        `json:"pages"`
	Chunks       int        `json:"chunks"`
	FailedChunks int        `json:"failed_chunks"`
	MetaRounds   int        `json:"meta_rounds"`
	Language     string     `json:"language,omitempty"`
	Degraded     bool       `json:"degraded"`
}

// ErrorResponse is the structured error body.
type ErrorResponse struct {
	Error     string `json:"error"`
	Detail    string `json:"detail,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}
