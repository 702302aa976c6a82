package summary_engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markdave123-py/paperdigest/internal/core"
	"github.com/markdave123-py/paperdigest/internal/models"
)

func ok(i int, text string) models.PartialSummary {
	return models.PartialSummary{ChunkIndex: i, Text: text, Status: models.SummaryOk, Attempts: 1}
}

func failed(i int) models.PartialSummary {
	return models.PartialSummary{ChunkIndex: i, Text: models.ChunkPlaceholder(i), Status: models.SummaryFailed, Err: errors.New("boom")}
}

func isMeta(system string) bool {
	return strings.Contains(system, "Condense")
}

func newTestAggregator(cfg AggregateConfig, fn func(ctx context.Context, system, user string) (string, error)) (*Aggregator, *stubLLM) {
	w, stub := newTestWorker(fn)
	return NewAggregator(NewDispatcher(w, 2), w, cfg, zerolog.Nop()), stub
}

func TestCombineSections(t *testing.T) {
	got := CombineSections([]models.PartialSummary{ok(2, "C"), failed(1), ok(0, "A")})
	assert.Equal(t, "## Section 1\nA\n\n## Section 2\n[chunk 2 could not be summarized]\n\n## Section 3\nC", got)
}

func TestAggregate_AllChunksFailed(t *testing.T) {
	agg, stub := newTestAggregator(AggregateConfig{FinalPass: true}, func(context.Context, string, string) (string, error) {
		return "unused", nil
	})

	_, err := agg.Aggregate(context.Background(), []models.PartialSummary{failed(0), failed(1)}, "")

	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrAllChunksFailed)
	assert.Equal(t, 502, core.KindOf(err).HTTPStatus())
	assert.Equal(t, 0, stub.Calls())
}

func TestAggregate_PartialFailureKeepsPlaceholder(t *testing.T) {
	agg, _ := newTestAggregator(AggregateConfig{FinalPass: false}, nil)

	res, err := agg.Aggregate(context.Background(), []models.PartialSummary{ok(0, "A"), failed(1), ok(2, "C")}, "")

	require.NoError(t, err)
	assert.Equal(t, 1, res.FailedChunks)
	assert.Contains(t, res.Text, "[chunk 2 could not be summarized]")
	assert.Less(t, strings.Index(res.Text, "A"), strings.Index(res.Text, "C"))
	assert.False(t, res.Degraded)
}

func TestAggregate_FinalPass(t *testing.T) {
	var finalPrompt string
	agg, stub := newTestAggregator(AggregateConfig{FinalPass: true}, func(_ context.Context, system, user string) (string, error) {
		if isFinal(system) {
			finalPrompt = user
			return "# Report", nil
		}
		return "", errors.New("unexpected call")
	})

	res, err := agg.Aggregate(context.Background(), []models.PartialSummary{ok(0, "A"), failed(1)}, "fr")

	require.NoError(t, err)
	assert.Equal(t, "# Report", res.Text)
	assert.Equal(t, 1, stub.Calls())
	assert.Contains(t, finalPrompt, "## Section 1\nA")
	assert.Contains(t, finalPrompt, `"fr"`)
}

func TestAggregate_FinalPassFailureDegrades(t *testing.T) {
	agg, _ := newTestAggregator(AggregateConfig{FinalPass: true}, func(context.Context, string, string) (string, error) {
		return "", &core.HTTPStatusError{StatusCode: 400}
	})

	in := []models.PartialSummary{ok(0, "A"), ok(1, "B")}
	res, err := agg.Aggregate(context.Background(), in, "")

	require.NoError(t, err)
	assert.True(t, res.Degraded)
	assert.Equal(t, CombineSections(in), res.Text)
}

func longSummaries(n, size int) []models.PartialSummary {
	out := make([]models.PartialSummary, n)
	for i := range out {
		out[i] = ok(i, strings.Repeat("w ", size/2))
	}
	return out
}

func TestAggregate_MetaRoundShrinksText(t *testing.T) {
	cfg := AggregateConfig{MaxChars: 100, OverlapChars: 0, MetaThreshold: 50, MetaMaxDepth: 2}
	agg, stub := newTestAggregator(cfg, func(_ context.Context, system, _ string) (string, error) {
		if isMeta(system) {
			return "m", nil
		}
		return "", errors.New("unexpected call")
	})

	res, err := agg.Aggregate(context.Background(), longSummaries(3, 40), "")

	require.NoError(t, err)
	assert.Equal(t, 1, res.MetaRounds)
	assert.LessOrEqual(t, len(res.Text), 50)
	assert.Contains(t, res.Text, "## Section 1\nm")
	assert.Greater(t, stub.Calls(), 1)
}

func TestAggregate_MetaDepthCap(t *testing.T) {
	cfg := AggregateConfig{MaxChars: 100, OverlapChars: 0, MetaThreshold: 50, MetaMaxDepth: 2}
	agg, _ := newTestAggregator(cfg, func(context.Context, string, string) (string, error) {
		return strings.Repeat("still long ", 10), nil
	})

	res, err := agg.Aggregate(context.Background(), longSummaries(3, 40), "")

	require.NoError(t, err)
	assert.Equal(t, 2, res.MetaRounds)
	assert.Greater(t, len(res.Text), 50)
}

func TestAggregate_MetaDisabledAtDepthZero(t *testing.T) {
	cfg := AggregateConfig{MaxChars: 100, MetaThreshold: 50, MetaMaxDepth: 0}
	agg, stub := newTestAggregator(cfg, func(context.Context, string, string) (string, error) {
		return "m", nil
	})

	in := longSummaries(3, 40)
	res, err := agg.Aggregate(context.Background(), in, "")

	require.NoError(t, err)
	assert.Equal(t, 0, res.MetaRounds)
	assert.Equal(t, CombineSections(in), res.Text)
	assert.Equal(t, 0, stub.Calls())
}

func TestAggregate_FailedMetaRoundKeepsText(t *testing.T) {
	cfg := AggregateConfig{MaxChars: 100, MetaThreshold: 50, MetaMaxDepth: 2}
	agg, _ := newTestAggregator(cfg, func(context.Context, string, string) (string, error) {
		return "", &core.MalformedResponseError{Reason: "nope"}
	})

	in := longSummaries(3, 40)
	res, err := agg.Aggregate(context.Background(), in, "")

	require.NoError(t, err)
	assert.Equal(t, 0, res.MetaRounds)
	assert.Equal(t, CombineSections(in), res.Text)
}

func TestAggregate_ExpiredContextWithNoSummaries(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	agg, _ := newTestAggregator(AggregateConfig{}, nil)
	_, err := agg.Aggregate(ctx, []models.PartialSummary{failed(0)}, "")

	assert.ErrorIs(t, err, context.Canceled)
}
