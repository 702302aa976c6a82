package ingestion_engine

import "time"

// IngestConfig tunes source resolution and chunking.
//
// MaxChars:         upper bound of runes per chunk (e.g., 40000 ≈ 10k tokens).
// OverlapChars:     runes repeated from the end of the previous chunk at the start of the next.
// FetchTimeout:     bound on a single remote download.
// MaxDocumentBytes: documents above this size are rejected.
type IngestConfig struct {
	MaxChars         int
	OverlapChars     int
	FetchTimeout     time.Duration
	MaxDocumentBytes int64
}

const (
	defaultFetchTimeout     = 60 * time.Second
	defaultMaxDocumentBytes = 100 << 20
)

func (c IngestConfig) fetchTimeout() time.Duration {
	if c.FetchTimeout <= 0 {
		return defaultFetchTimeout
	}
	return c.FetchTimeout
}

func (c IngestConfig) maxDocumentBytes() int64 {
	if c.MaxDocumentBytes <= 0 {
		return defaultMaxDocumentBytes
	}
	return c.MaxDocumentBytes
}
