package simplelessons_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-lessons/pkg/simplelessons"
	"github.com/tendant/simple-lessons/pkg/simplelessons/session"
	"github.com/tendant/simple-lessons/pkg/simplelessons/store/memory"
)

func addLesson(t *testing.T, svc simplelessons.Service, moduleID string, req simplelessons.CreateLessonRequest) *simplelessons.Lesson {
	t.Helper()
	if req.Description == "" {
		req.Description = "d"
	}
	lesson, err := svc.AddLessonToModule(context.Background(), moduleID, req)
	require.NoError(t, err)
	return lesson
}

func TestSuggestSequence(t *testing.T) {
	svc, _, _ := setupTestService(t)
	ctx := context.Background()

	t.Run("difficulty before stored order", func(t *testing.T) {
		module, err := svc.CreateModule(ctx, simplelessons.CreateModuleRequest{
			Title: "Go Course", Description: "d",
		})
		require.NoError(t, err)

		// Stored order puts the advanced lesson first; the suggestion must
		// still lead with the beginner one.
		advanced := addLesson(t, svc, module.ID, simplelessons.CreateLessonRequest{
			Title: "Generics", DifficultyLevel: simplelessons.DifficultyAdvanced,
		})
		beginner := addLesson(t, svc, module.ID, simplelessons.CreateLessonRequest{
			Title: "Hello World", DifficultyLevel: simplelessons.DifficultyBeginner,
		})

		sequence, err := svc.SuggestSequence(ctx, module.ID)
		require.NoError(t, err)
		require.Len(t, sequence, 2)
		assert.Equal(t, beginner.ID, sequence[0].ID)
		assert.Equal(t, advanced.ID, sequence[1].ID)
	})

	t.Run("order hint breaks difficulty ties", func(t *testing.T) {
		module, err := svc.CreateModule(ctx, simplelessons.CreateModuleRequest{
			Title: "Ordered", Description: "d",
		})
		require.NoError(t, err)

		two, one := 2, 1
		second := addLesson(t, svc, module.ID, simplelessons.CreateLessonRequest{
			Title: "Aardvark", DifficultyLevel: simplelessons.DifficultyBeginner, Order: &two,
		})
		first := addLesson(t, svc, module.ID, simplelessons.CreateLessonRequest{
			Title: "Zebra", DifficultyLevel: simplelessons.DifficultyBeginner, Order: &one,
		})

		sequence, err := svc.SuggestSequence(ctx, module.ID)
		require.NoError(t, err)
		require.Len(t, sequence, 2)
		// Order hint outranks title.
		assert.Equal(t, first.ID, sequence[0].ID)
		assert.Equal(t, second.ID, sequence[1].ID)
	})

	t.Run("title breaks ties when only one lesson has an order", func(t *testing.T) {
		module, err := svc.CreateModule(ctx, simplelessons.CreateModuleRequest{
			Title: "Half ordered", Description: "d",
		})
		require.NoError(t, err)

		one := 1
		b := addLesson(t, svc, module.ID, simplelessons.CreateLessonRequest{
			Title: "Bravo", DifficultyLevel: simplelessons.DifficultyBeginner,
		})
		a := addLesson(t, svc, module.ID, simplelessons.CreateLessonRequest{
			Title: "Alpha", DifficultyLevel: simplelessons.DifficultyBeginner, Order: &one,
		})

		sequence, err := svc.SuggestSequence(ctx, module.ID)
		require.NoError(t, err)
		require.Len(t, sequence, 2)
		assert.Equal(t, a.ID, sequence[0].ID)
		assert.Equal(t, b.ID, sequence[1].ID)
	})

	t.Run("repeated calls agree", func(t *testing.T) {
		module, err := svc.CreateModule(ctx, simplelessons.CreateModuleRequest{
			Title: "Stable", Description: "d",
		})
		require.NoError(t, err)

		for _, title := range []string{"C", "A", "B"} {
			addLesson(t, svc, module.ID, simplelessons.CreateLessonRequest{Title: title})
		}

		first, err := svc.SuggestSequence(ctx, module.ID)
		require.NoError(t, err)
		second, err := svc.SuggestSequence(ctx, module.ID)
		require.NoError(t, err)

		require.Equal(t, len(first), len(second))
		for i := range first {
			assert.Equal(t, first[i].ID, second[i].ID)
		}
	})

	t.Run("dangling ids are skipped", func(t *testing.T) {
		module, err := svc.CreateModule(ctx, simplelessons.CreateModuleRequest{
			Title: "Dangling", Description: "d",
		})
		require.NoError(t, err)

		kept := addLesson(t, svc, module.ID, simplelessons.CreateLessonRequest{Title: "Kept"})

		_, err = svc.UpdateModule(ctx, module.ID, simplelessons.UpdateModuleRequest{
			Lessons: []string{"gone", kept.ID},
		})
		require.NoError(t, err)

		sequence, err := svc.SuggestSequence(ctx, module.ID)
		require.NoError(t, err)
		require.Len(t, sequence, 1)
		assert.Equal(t, kept.ID, sequence[0].ID)
	})
}

func TestReorderLessonsPersists(t *testing.T) {
	svc, _, _ := setupTestService(t)
	ctx := context.Background()

	module, err := svc.CreateModule(ctx, simplelessons.CreateModuleRequest{
		Title: "Persisted", Description: "d",
	})
	require.NoError(t, err)

	advanced := addLesson(t, svc, module.ID, simplelessons.CreateLessonRequest{
		Title: "Advanced", DifficultyLevel: simplelessons.DifficultyAdvanced,
	})
	beginner := addLesson(t, svc, module.ID, simplelessons.CreateLessonRequest{
		Title: "Beginner", DifficultyLevel: simplelessons.DifficultyBeginner,
	})

	// Persist the suggestion as the canonical order.
	sequence, err := svc.SuggestSequence(ctx, module.ID)
	require.NoError(t, err)
	order := make([]string, len(sequence))
	for i, l := range sequence {
		order[i] = l.ID
	}
	require.NoError(t, svc.ReorderLessons(ctx, module.ID, order))

	got, err := svc.GetModule(ctx, module.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{beginner.ID, advanced.ID}, got.Lessons)
	assert.Equal(t, 2, got.LessonCount)

	// Each lesson's order hint now reflects its index.
	first, err := svc.GetLesson(ctx, beginner.ID)
	require.NoError(t, err)
	require.NotNil(t, first.Order)
	assert.Equal(t, 0, *first.Order)

	second, err := svc.GetLesson(ctx, advanced.ID)
	require.NoError(t, err)
	require.NotNil(t, second.Order)
	assert.Equal(t, 1, *second.Order)
}

func TestReorderer(t *testing.T) {
	svc, _, _ := setupTestService(t)
	ctx := context.Background()

	setup := func(t *testing.T) (string, []string) {
		module, err := svc.CreateModule(ctx, simplelessons.CreateModuleRequest{
			Title: "Interactive", Description: "d",
		})
		require.NoError(t, err)

		ids := make([]string, 3)
		for i, title := range []string{"One", "Two", "Three"} {
			ids[i] = addLesson(t, svc, module.ID, simplelessons.CreateLessonRequest{Title: title}).ID
		}
		return module.ID, ids
	}

	t.Run("move commits", func(t *testing.T) {
		moduleID, ids := setup(t)

		r, err := svc.NewReorderer(ctx, moduleID)
		require.NoError(t, err)
		assert.Equal(t, simplelessons.ReorderIdle, r.State())
		assert.Equal(t, ids, r.Order())

		require.NoError(t, r.Move(ctx, 0, 2))
		assert.Equal(t, simplelessons.ReorderCommitted, r.State())
		assert.Equal(t, []string{ids[1], ids[2], ids[0]}, r.Order())

		module, err := svc.GetModule(ctx, moduleID)
		require.NoError(t, err)
		assert.Equal(t, r.Order(), module.Lessons)
		assert.Equal(t, 3, module.LessonCount)

		// Inverse move restores the original order.
		require.NoError(t, r.Move(ctx, 2, 0))
		assert.Equal(t, ids, r.Order())
	})

	t.Run("out of range", func(t *testing.T) {
		moduleID, ids := setup(t)

		r, err := svc.NewReorderer(ctx, moduleID)
		require.NoError(t, err)

		assert.ErrorIs(t, r.Move(ctx, -1, 0), simplelessons.ErrValidation)
		assert.ErrorIs(t, r.Move(ctx, 0, len(ids)), simplelessons.ErrValidation)
		assert.Equal(t, ids, r.Order())
	})
}

// flakyStore delegates to a real store but can be told to fail writes, to
// exercise the rollback path.
type flakyStore struct {
	simplelessons.RecordStore
	failPatch bool
}

func (s *flakyStore) Patch(ctx context.Context, collection, key string, patch simplelessons.Document) error {
	if s.failPatch {
		return errors.New("store offline")
	}
	return s.RecordStore.Patch(ctx, collection, key, patch)
}

func TestReordererRollsBackOnPersistenceFailure(t *testing.T) {
	store := &flakyStore{RecordStore: memory.New()}
	sessions := session.NewStatic("owner-1")
	svc, err := simplelessons.New(
		simplelessons.WithRecordStore(store),
		simplelessons.WithSessionProvider(sessions),
	)
	require.NoError(t, err)
	ctx := context.Background()

	module, err := svc.CreateModule(ctx, simplelessons.CreateModuleRequest{
		Title: "Fragile", Description: "d",
	})
	require.NoError(t, err)

	ids := make([]string, 3)
	for i, title := range []string{"One", "Two", "Three"} {
		ids[i] = addLesson(t, svc, module.ID, simplelessons.CreateLessonRequest{Title: title}).ID
	}

	r, err := svc.NewReorderer(ctx, module.ID)
	require.NoError(t, err)

	store.failPatch = true
	err = r.Move(ctx, 0, 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, simplelessons.ErrPersistence)

	// Caller-visible order is the pre-move snapshot, not the failed one.
	assert.Equal(t, simplelessons.ReorderRolledBack, r.State())
	assert.Equal(t, ids, r.Order())

	// The stored order is untouched as well.
	store.failPatch = false
	got, err := svc.GetModule(ctx, module.ID)
	require.NoError(t, err)
	assert.Equal(t, ids, got.Lessons)
}
