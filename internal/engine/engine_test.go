package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stavsoft/boqflow/internal/common"
	"github.com/stavsoft/boqflow/internal/model"
	"github.com/stavsoft/boqflow/internal/service"
)

type stubOverrides struct {
	entries map[string]*model.OverrideEntry
	err     error
}

func (s *stubOverrides) GetOverride(_ context.Context, code string) (*model.OverrideEntry, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.entries[code], nil
}

func (s *stubOverrides) SaveOverride(_ context.Context, entry *model.OverrideEntry) error {
	if s.entries == nil {
		s.entries = make(map[string]*model.OverrideEntry)
	}
	s.entries[entry.Code] = entry
	return nil
}

type stubFallback struct {
	suggestion *service.FallbackSuggestion
	err        error
	calls      int
}

func (s *stubFallback) SuggestCategory(_ context.Context, _ model.Item, _ []string) (*service.FallbackSuggestion, error) {
	s.calls++
	return s.suggestion, s.err
}

func fl(v float64) *float64 { return &v }

// boqFixture builds a small but structurally complete sheet: a section
// header, two coded main rows with subordinate notes between them.
func boqFixture() []model.Item {
	return []model.Item{
		{ID: "sec", Sheet: "SO 201", RowPosition: 1, Code: "2", Description: "Zakládání"},
		{ID: "beton", Sheet: "SO 201", RowPosition: 2, Code: "231112", Description: "Betonáž základů", Unit: "m3", Quantity: fl(12.5)},
		{ID: "note", Sheet: "SO 201", RowPosition: 3, Description: "poznámka k výpočtu"},
		{ID: "zdivo", Sheet: "SO 201", RowPosition: 4, Code: "311238", Description: "Zdivo nosné z cihel pálených", Unit: "m2", Quantity: fl(10)},
		{ID: "zdivoNote", Sheet: "SO 201", RowPosition: 5, Description: "včetně malty"},
	}
}

func byID(items []model.Item) map[string]model.Item {
	m := make(map[string]model.Item, len(items))
	for _, it := range items {
		m[it.ID] = it
	}
	return m
}

func TestClassifyBatchEndToEnd(t *testing.T) {
	eng, err := New(DefaultRules(), nil, nil)
	require.NoError(t, err)

	items := boqFixture()
	summary, err := eng.ClassifyBatch(context.Background(), items, model.ModeEmptyOnly)
	require.NoError(t, err)

	got := byID(items)

	assert.Equal(t, model.RoleSection, got["sec"].Role)
	assert.Equal(t, model.RoleMain, got["beton"].Role)
	assert.Equal(t, model.RoleSubordinate, got["note"].Role)

	beton := got["beton"]
	assert.Equal(t, "beton_monolit", beton.Category)
	assert.Equal(t, model.SourceRules, beton.CategorySource)
	assert.InDelta(t, 75.0, beton.Confidence, 0.0001)

	// The codeless note inherits the preceding main row's category.
	note := got["note"]
	assert.Equal(t, "beton_monolit", note.Category)
	assert.Equal(t, model.SourceCascade, note.CategorySource)
	assert.InDelta(t, beton.Confidence, note.Confidence, 0.0001)

	// The cascade stops at the next main row.
	zdivoNote := got["zdivoNote"]
	assert.Equal(t, "zdivo", zdivoNote.Category)
	assert.Equal(t, model.SourceCascade, zdivoNote.CategorySource)

	assert.Equal(t, 5, summary.Total)
	assert.Equal(t, 3, summary.ByRules)
	assert.Equal(t, 2, summary.ByCascade)
	assert.Equal(t, 0, summary.Unclassified)
}

func TestClassifyBatchAnchoringBeatsReinforcement(t *testing.T) {
	eng, err := New(DefaultRules(), nil, nil)
	require.NoError(t, err)

	items := []model.Item{
		{ID: "kotva", Sheet: "SO 201", RowPosition: 1, Code: "285123", Description: "Kotvy trvalé tyčové s výztuží", Unit: "ks", Quantity: fl(8)},
	}

	_, err = eng.ClassifyBatch(context.Background(), items, model.ModeEmptyOnly)
	require.NoError(t, err)

	assert.Equal(t, "kotveni", items[0].Category)
	assert.Equal(t, model.SourceRules, items[0].CategorySource)

	// The same text scored directly yields the anchoring evidence.
	scores := ScoreAll("kotvy trvale tycove s vyztuzi", "ks", DefaultRules())
	winner, ok := Resolve(scores, DefaultRules())
	require.True(t, ok)
	assert.Equal(t, "kotveni", winner.Category)
	assert.ElementsMatch(t, []string{"kotvy", "trvale", "tycove"}, winner.Evidence)
}

func TestClassifyBatchOverridePrecedesRules(t *testing.T) {
	overrides := &stubOverrides{entries: map[string]*model.OverrideEntry{
		"231112": {Code: "231112", Category: "prefabrikaty"},
	}}
	eng, err := New(DefaultRules(), overrides, nil)
	require.NoError(t, err)

	items := boqFixture()
	summary, err := eng.ClassifyBatch(context.Background(), items, model.ModeEmptyOnly)
	require.NoError(t, err)

	got := byID(items)
	beton := got["beton"]
	assert.Equal(t, "prefabrikaty", beton.Category)
	assert.Equal(t, model.SourceOverride, beton.CategorySource)
	assert.InDelta(t, 100.0, beton.Confidence, 0.0001)

	// The cascade carries the override's category too.
	assert.Equal(t, "prefabrikaty", got["note"].Category)

	assert.Equal(t, 1, summary.ByOverride)
	assert.Equal(t, 2, summary.ByRules)
}

func TestClassifyBatchSubordinateCodeOverride(t *testing.T) {
	overrides := &stubOverrides{entries: map[string]*model.OverrideEntry{
		"42": {Code: "42", Category: "izolace"},
	}}
	eng, err := New(DefaultRules(), overrides, nil)
	require.NoError(t, err)

	items := []model.Item{
		{ID: "main", Sheet: "S", RowPosition: 1, Code: "231112", Description: "Betonáž základů", Unit: "m3", Quantity: fl(1)},
		{ID: "sub", Sheet: "S", RowPosition: 2, Code: "42", Description: "detail izolace", UnitPrice: fl(150)},
	}

	summary, err := eng.ClassifyBatch(context.Background(), items, model.ModeEmptyOnly)
	require.NoError(t, err)

	got := byID(items)
	sub := got["sub"]
	assert.Equal(t, model.RoleSubordinate, sub.Role)
	assert.Equal(t, "izolace", sub.Category)
	assert.Equal(t, model.SourceOverride, sub.CategorySource)

	// The override displaced this run's cascade assignment, so the
	// counters must not double count the row.
	assert.Equal(t, 1, summary.ByOverride)
	assert.Equal(t, 0, summary.ByCascade)
}

func TestClassifyBatchEmptyOnlyIsIdempotent(t *testing.T) {
	eng, err := New(DefaultRules(), nil, nil)
	require.NoError(t, err)

	items := boqFixture()
	_, err = eng.ClassifyBatch(context.Background(), items, model.ModeEmptyOnly)
	require.NoError(t, err)

	first := byID(items)

	second, err := eng.ClassifyBatch(context.Background(), items, model.ModeEmptyOnly)
	require.NoError(t, err)

	assert.Equal(t, first, byID(items), "second run must not change anything")
	assert.Equal(t, 0, second.ByRules)
	assert.Equal(t, 0, second.ByCascade)
	assert.Equal(t, 3, second.Skipped)
}

func TestClassifyBatchEmptyOnlyKeepsManualWork(t *testing.T) {
	eng, err := New(DefaultRules(), nil, nil)
	require.NoError(t, err)

	items := boqFixture()
	items[1].Category = "presun_hmot"
	items[1].CategorySource = model.SourceManual
	items[1].Confidence = 100

	_, err = eng.ClassifyBatch(context.Background(), items, model.ModeEmptyOnly)
	require.NoError(t, err)

	got := byID(items)
	assert.Equal(t, "presun_hmot", got["beton"].Category)
	assert.Equal(t, model.SourceManual, got["beton"].CategorySource)

	// Empty subordinates still inherit from the skipped main.
	assert.Equal(t, "presun_hmot", got["note"].Category)
	assert.Equal(t, model.SourceCascade, got["note"].CategorySource)
}

func TestClassifyBatchReclassifyAllOverwrites(t *testing.T) {
	eng, err := New(DefaultRules(), nil, nil)
	require.NoError(t, err)

	items := boqFixture()
	items[1].Category = "presun_hmot"
	items[1].CategorySource = model.SourceManual

	_, err = eng.ClassifyBatch(context.Background(), items, model.ModeReclassifyAll)
	require.NoError(t, err)

	got := byID(items)
	assert.Equal(t, "beton_monolit", got["beton"].Category)
	assert.Equal(t, model.SourceRules, got["beton"].CategorySource)
}

func TestClassifyBatchDeterministicAcrossInputOrder(t *testing.T) {
	eng, err := New(DefaultRules(), nil, nil)
	require.NoError(t, err)

	ordered := boqFixture()
	_, err = eng.ClassifyBatch(context.Background(), ordered, model.ModeEmptyOnly)
	require.NoError(t, err)

	shuffled := boqFixture()
	shuffled[0], shuffled[4] = shuffled[4], shuffled[0]
	shuffled[1], shuffled[3] = shuffled[3], shuffled[1]
	_, err = eng.ClassifyBatch(context.Background(), shuffled, model.ModeEmptyOnly)
	require.NoError(t, err)

	assert.Equal(t, byID(ordered), byID(shuffled))

	// The caller's slice order itself is preserved.
	assert.Equal(t, "zdivoNote", shuffled[0].ID)
}

func TestClassifyBatchDuplicateRowPositions(t *testing.T) {
	eng, err := New(DefaultRules(), nil, nil)
	require.NoError(t, err)

	items := []model.Item{
		{ID: "a", Sheet: "S", RowPosition: 1, Description: "x"},
		{ID: "b", Sheet: "S", RowPosition: 1, Description: "y"},
	}

	_, err = eng.ClassifyBatch(context.Background(), items, model.ModeEmptyOnly)
	assert.ErrorIs(t, err, common.ErrDuplicateRow)
}

func TestClassifyBatchFallback(t *testing.T) {
	fallback := &stubFallback{suggestion: &service.FallbackSuggestion{
		Category:   "izolace",
		Confidence: 62,
	}}
	eng, err := New(DefaultRules(), nil, fallback)
	require.NoError(t, err)

	items := []model.Item{
		{ID: "odd", Sheet: "S", RowPosition: 1, Code: "998001", Description: "Zvláštní práce neznámé povahy", Quantity: fl(1)},
	}

	summary, err := eng.ClassifyBatch(context.Background(), items, model.ModeEmptyOnly)
	require.NoError(t, err)

	assert.Equal(t, "izolace", items[0].Category)
	assert.Equal(t, model.SourceFallback, items[0].CategorySource)
	assert.InDelta(t, 62.0, items[0].Confidence, 0.0001)
	assert.Equal(t, 1, summary.ByFallback)
	assert.Equal(t, 1, fallback.calls)
}

func TestClassifyBatchFallbackUnknownCategoryIgnored(t *testing.T) {
	fallback := &stubFallback{suggestion: &service.FallbackSuggestion{Category: "not_a_category"}}
	eng, err := New(DefaultRules(), nil, fallback)
	require.NoError(t, err)

	items := []model.Item{
		{ID: "odd", Sheet: "S", RowPosition: 1, Code: "998001", Description: "Zvláštní práce", Quantity: fl(1)},
	}

	summary, err := eng.ClassifyBatch(context.Background(), items, model.ModeEmptyOnly)
	require.NoError(t, err)

	assert.Empty(t, items[0].Category)
	assert.Equal(t, 1, summary.Unclassified)
}

func TestClassifyBatchFallbackErrorDegrades(t *testing.T) {
	fallback := &stubFallback{err: errors.New("api down")}
	eng, err := New(DefaultRules(), nil, fallback)
	require.NoError(t, err)

	items := []model.Item{
		{ID: "odd", Sheet: "S", RowPosition: 1, Code: "998001", Description: "Zvláštní práce", Quantity: fl(1)},
	}

	_, err = eng.ClassifyBatch(context.Background(), items, model.ModeEmptyOnly)
	require.NoError(t, err, "fallback failure must not fail the batch")
	assert.Empty(t, items[0].Category)
}

func TestClassifyBatchOverrideLookupErrorDegrades(t *testing.T) {
	overrides := &stubOverrides{err: errors.New("db locked")}
	eng, err := New(DefaultRules(), overrides, nil)
	require.NoError(t, err)

	items := boqFixture()
	_, err = eng.ClassifyBatch(context.Background(), items, model.ModeEmptyOnly)
	require.NoError(t, err)

	assert.Equal(t, "beton_monolit", byID(items)["beton"].Category, "rules still run when the store fails")
}

func TestClassifyBatchCanceledContext(t *testing.T) {
	eng, err := New(DefaultRules(), nil, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = eng.ClassifyBatch(ctx, boqFixture(), model.ModeEmptyOnly)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClassifyBatchEmptyInput(t *testing.T) {
	eng, err := New(DefaultRules(), nil, nil)
	require.NoError(t, err)

	summary, err := eng.ClassifyBatch(context.Background(), nil, model.ModeEmptyOnly)
	require.NoError(t, err)
	assert.Equal(t, model.Summary{}, summary)
}
