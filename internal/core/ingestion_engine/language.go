package ingestion_engine

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

// languageSample bounds how much text the detector looks at.
const languageSample = 4000

// LanguageDetector guesses the dominant language of extracted text.
type LanguageDetector struct {
	detector lingua.LanguageDetector
}

func NewLanguageDetector() *LanguageDetector {
	d := lingua.NewLanguageDetectorBuilder().
		FromLanguages(
			lingua.English,
			lingua.Spanish,
			lingua.German,
			lingua.French,
			lingua.Portuguese,
			lingua.Italian,
			lingua.Chinese,
			lingua.Japanese,
		).
		WithLowAccuracyMode().
		Build()
	return &LanguageDetector{detector: d}
}

// Detect returns a lowercase ISO 639-1 code, or "" when the text is too short or ambiguous.
func (l *LanguageDetector) Detect(text string) string {
	if l == nil {
		return ""
	}
	runes := []rune(strings.TrimSpace(text))
	if len(runes) == 0 {
		return ""
	}
	if len(runes) > languageSample {
		runes = runes[:languageSample]
	}
	lang, ok := l.detector.DetectLanguageOf(string(runes))
	if !ok {
		return ""
	}
	return strings.ToLower(lang.IsoCode639_1().String())
}
