package ingestion_engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLanguageDetector(t *testing.T) {
	d := NewLanguageDetector()

	en := strings.Repeat("The scheduler assigns each request to the replica with the lowest queue depth, which keeps tail latency stable under load. ", 5)
	assert.Equal(t, "en", d.Detect(en))

	de := strings.Repeat("Der Planer weist jede Anfrage der Replik mit der kürzesten Warteschlange zu, wodurch die Latenz unter Last stabil bleibt. ", 5)
	assert.Equal(t, "de", d.Detect(de))

	assert.Equal(t, "", d.Detect("   "))

	var nilDetector *LanguageDetector
	assert.Equal(t, "", nilDetector.Detect(en))
}
