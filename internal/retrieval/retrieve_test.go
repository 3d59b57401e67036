package retrieval

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/blog-agent/internal/llm"
	"github.com/jonathan/blog-agent/internal/types"
)

type fakeClient struct {
	response string
	err      error
	calls    int
}

func (f *fakeClient) Chat(_ context.Context, _ []llm.Message, _ float64) (string, error) {
	f.calls++
	return f.response, f.err
}

func (f *fakeClient) Close() error { return nil }

type fakeIndex struct {
	results map[string][]types.Document
	err     error
	queries []string
}

func (f *fakeIndex) Search(_ context.Context, query string, _ int) ([]types.Document, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	return f.results[query], nil
}

func doc(content string, similarity float64) types.Document {
	return types.Document{Content: content, Similarity: similarity, Metadata: map[string]string{}}
}

func TestExpandQuery_CapsAtFourVariants(t *testing.T) {
	client := &fakeClient{response: "alt one\nalt two\n\nalt three\nalt four"}

	queries := ExpandQuery(context.Background(), client, "go concurrency")
	require.Len(t, queries, 4)
	assert.Equal(t, "go concurrency", queries[0])
	assert.Equal(t, []string{"alt one", "alt two", "alt three"}, queries[1:])
}

func TestExpandQuery_FailureDegradesToOriginal(t *testing.T) {
	client := &fakeClient{err: errors.New("model offline")}

	queries := ExpandQuery(context.Background(), client, "go concurrency")
	assert.Equal(t, []string{"go concurrency"}, queries)
}

func TestDeduplicate_FirstOccurrenceWins(t *testing.T) {
	long := strings.Repeat("x", 250)
	docs := []types.Document{
		doc("unique one", 0.9),
		doc("unique one", 0.5),
		doc(long+" tail A", 0.8),
		doc(long+" tail B", 0.7), // same 200-char prefix
		doc("unique two", 0.6),
	}

	unique := Deduplicate(docs)
	require.Len(t, unique, 3)
	assert.Equal(t, 0.9, unique[0].Similarity)
	assert.Equal(t, 0.8, unique[1].Similarity)
	assert.Equal(t, "unique two", unique[2].Content)
}

func TestDeduplicate_Idempotent(t *testing.T) {
	docs := []types.Document{doc("a", 1), doc("b", 1), doc("a", 1)}
	once := Deduplicate(docs)
	twice := Deduplicate(once)
	assert.Equal(t, once, twice)
}

func TestRerank_RecencyTiers(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	recent := doc("recent", 0.5)
	recent.Metadata[types.MetaDate] = "2025-05-20"
	thisYear := doc("this year", 0.5)
	thisYear.Metadata[types.MetaDate] = "2024-09-01"
	old := doc("old", 0.5)
	old.Metadata[types.MetaDate] = "2020-01-01"

	ranked := Rerank([]types.Document{old, thisYear, recent}, "none", now)

	assert.Equal(t, "recent", ranked[0].Content)
	assert.Equal(t, "this year", ranked[1].Content)
	assert.Equal(t, "old", ranked[2].Content)
	assert.InDelta(t, 0.55, ranked[0].FinalScore, 1e-9)
	assert.InDelta(t, 0.52, ranked[1].FinalScore, 1e-9)
	assert.InDelta(t, 0.50, ranked[2].FinalScore, 1e-9)
}

func TestRerank_KeywordBoostIsCapped(t *testing.T) {
	content := "alpha beta gamma delta epsilon zeta eta theta"
	d := doc(content, 0.5)

	ranked := Rerank([]types.Document{d}, "alpha beta gamma delta epsilon zeta eta theta", time.Now())
	// 8 matches x 0.02 would be 0.16 but the boost caps at 0.1.
	assert.InDelta(t, 0.6, ranked[0].FinalScore, 1e-9)
}

func TestRerank_LengthBoost(t *testing.T) {
	short := doc("tiny", 0.5)
	substantial := doc(strings.Repeat("word ", 550), 0.5)

	ranked := Rerank([]types.Document{short, substantial}, "none", time.Now())
	assert.InDelta(t, 0.55, ranked[0].FinalScore, 1e-9)
	assert.InDelta(t, 0.50, ranked[1].FinalScore, 1e-9)
}

func TestRerank_StableForEqualScores(t *testing.T) {
	docs := []types.Document{doc("first", 0.5), doc("second", 0.5), doc("third", 0.5)}
	ranked := Rerank(docs, "none", time.Now())
	assert.Equal(t, "first", ranked[0].Content)
	assert.Equal(t, "second", ranked[1].Content)
	assert.Equal(t, "third", ranked[2].Content)
}

func TestRetrieve_MergesVariantsAndTruncates(t *testing.T) {
	index := &fakeIndex{results: map[string][]types.Document{
		"original": {doc("shared result", 0.9), doc("only original", 0.8)},
		"variant":  {doc("shared result", 0.9), doc("only variant", 0.7)},
	}}
	client := &fakeClient{response: "variant"}

	r := NewRetriever(index, client)
	got := r.Retrieve(context.Background(), "original", 2, true)

	require.Len(t, got, 2)
	assert.Equal(t, "shared result", got[0].Content)
	assert.Equal(t, []string{"original", "variant"}, index.queries)
}

func TestRetrieve_SearchFailureYieldsEmpty(t *testing.T) {
	index := &fakeIndex{err: errors.New("store down")}
	r := NewRetriever(index, &fakeClient{response: "variant"})

	got := r.Retrieve(context.Background(), "query", 5, false)
	assert.Empty(t, got)
}

func TestRetrieve_NoExpansionSkipsModel(t *testing.T) {
	index := &fakeIndex{results: map[string][]types.Document{"query": {doc("hit", 0.9)}}}
	client := &fakeClient{response: "variant"}

	r := NewRetriever(index, client)
	got := r.Retrieve(context.Background(), "query", 5, false)

	require.Len(t, got, 1)
	assert.Zero(t, client.calls)
}
