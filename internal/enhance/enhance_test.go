package enhance

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steplab/ocrprep/internal/engine"
	"github.com/steplab/ocrprep/internal/plan"
	"github.com/steplab/ocrprep/internal/planner"
	"github.com/steplab/ocrprep/internal/storage"
	"github.com/steplab/ocrprep/internal/testutil"
)

// fakePlanner returns a canned plan.
type fakePlanner struct {
	plan plan.EnhancementPlan
	err  error
}

func (f *fakePlanner) GeneratePlan(_ context.Context, _ string) (plan.EnhancementPlan, error) {
	return f.plan, f.err
}

func (f *fakePlanner) ResolveOptions(_ context.Context, _ string) (plan.RunOptions, error) {
	return plan.RunOptions{}, errors.New("not used")
}

func newTestOrchestrator(t *testing.T, p planner.Planner) (*Orchestrator, *storage.LocalStore) {
	t.Helper()
	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewOrchestrator(store, p, engine.NewExecutor(), log), store
}

func storeTestImage(t *testing.T, store *storage.LocalStore) string {
	t.Helper()
	data := testutil.EncodePNG(t, testutil.GradientImage(32, 24))
	ref, err := store.Save(data, ".png", "base.png")
	require.NoError(t, err)
	return ref
}

func TestEnhance_VariantNaming(t *testing.T) {
	fp := &fakePlanner{plan: plan.EnhancementPlan{Variants: []plan.PlanVariant{
		{Name: "High Contrast!", Steps: []plan.PlanStep{
			{Op: "autocontrast", Params: map[string]any{"cutoff": 0.02}},
		}},
		{Name: "", Steps: []plan.PlanStep{
			{Op: "gamma", Params: map[string]any{"value": 1.4}},
		}},
	}}}
	o, store := newTestOrchestrator(t, fp)
	base := storeTestImage(t, store)

	refs, err := o.Enhance(context.Background(), base, "clean it up")
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, "base_001_HighContrast.png", refs[0])
	assert.Equal(t, "base_002_variant.png", refs[1])
	for _, ref := range refs {
		assert.True(t, store.Exists(ref))
	}
}

func TestEnhance_MissingBase(t *testing.T) {
	o, _ := newTestOrchestrator(t, &fakePlanner{})

	_, err := o.Enhance(context.Background(), "nope.png", "clean it up")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestEnhance_PlanFailure(t *testing.T) {
	fp := &fakePlanner{err: errors.New("backend down")}
	o, store := newTestOrchestrator(t, fp)
	base := storeTestImage(t, store)

	_, err := o.Enhance(context.Background(), base, "clean it up")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "plan enhancement")
}

func TestEnhance_EmptyPlan(t *testing.T) {
	fp := &fakePlanner{plan: plan.EnhancementPlan{Variants: []plan.PlanVariant{}}}
	o, store := newTestOrchestrator(t, fp)
	base := storeTestImage(t, store)

	_, err := o.Enhance(context.Background(), base, "clean it up")
	assert.ErrorIs(t, err, planner.ErrEmptyPlan)
}

func TestEnhance_UnsupportedOpAborts(t *testing.T) {
	fp := &fakePlanner{plan: plan.EnhancementPlan{Variants: []plan.PlanVariant{
		{Name: "ok", Steps: []plan.PlanStep{{Op: "gamma", Params: map[string]any{"value": 1.2}}}},
		{Name: "broken", Steps: []plan.PlanStep{{Op: "hologram"}}},
	}}}
	o, store := newTestOrchestrator(t, fp)
	base := storeTestImage(t, store)

	refs, err := o.Enhance(context.Background(), base, "clean it up")
	require.Error(t, err)
	assert.Nil(t, refs)

	var unsupported *engine.UnsupportedOpError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "hologram", unsupported.Op)

	// The first variant was written before the failure and stays behind.
	assert.True(t, store.Exists("base_001_ok.png"))
}

func TestEnhance_Cancellation(t *testing.T) {
	fp := &fakePlanner{plan: plan.EnhancementPlan{Variants: []plan.PlanVariant{
		{Name: "v", Steps: []plan.PlanStep{{Op: "deskew"}}},
	}}}
	o, store := newTestOrchestrator(t, fp)
	base := storeTestImage(t, store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := o.Enhance(ctx, base, "clean it up")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSanitizeVariantName(t *testing.T) {
	assert.Equal(t, "high-contrast", SanitizeVariantName("high-contrast"))
	assert.Equal(t, "HighContrast2", SanitizeVariantName("High Contrast 2!"))
	assert.Equal(t, "variant", SanitizeVariantName("***"))
	assert.Equal(t, "variant", SanitizeVariantName(""))
}
