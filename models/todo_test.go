package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool    { return &b }
func int64Ptr(n int64) *int64 { return &n }
func strPtr(s string) *string { return &s }

func TestTodoPatchApplyCompletedStampsNow(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	todo := Todo{ID: "t1", Text: "walk the dog"}

	TodoPatch{Completed: boolPtr(true)}.Apply(&todo, now)

	assert.True(t, todo.Completed)
	require.NotNil(t, todo.CompletedAt)
	assert.Equal(t, now.UnixMilli(), *todo.CompletedAt)
}

func TestTodoPatchApplyHonorsSuppliedTimestamp(t *testing.T) {
	t.Parallel()

	todo := Todo{ID: "t1", Text: "walk the dog"}

	TodoPatch{Completed: boolPtr(true), CompletedAt: int64Ptr(12345)}.Apply(&todo, time.Now())

	require.NotNil(t, todo.CompletedAt)
	assert.Equal(t, int64(12345), *todo.CompletedAt)
}

func TestTodoPatchApplyNotCompletedClearsTimestamp(t *testing.T) {
	t.Parallel()

	todo := Todo{ID: "t1", Text: "walk the dog", Completed: true, CompletedAt: int64Ptr(999)}

	// completedAt in the patch loses against completed:false.
	TodoPatch{Completed: boolPtr(false), CompletedAt: int64Ptr(12345)}.Apply(&todo, time.Now())

	assert.False(t, todo.Completed)
	assert.Nil(t, todo.CompletedAt)
}

func TestTodoPatchApplyTextOnly(t *testing.T) {
	t.Parallel()

	todo := Todo{ID: "t1", Text: "old", Completed: true, CompletedAt: int64Ptr(999)}

	TodoPatch{Text: strPtr("new")}.Apply(&todo, time.Now())

	assert.Equal(t, "new", todo.Text)
	assert.False(t, todo.Completed, "absent completed behaves as completed:false")
	assert.Nil(t, todo.CompletedAt)
}
