package docstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phonemart/pkg/errors"
)

func TestMemoryInsertAndGet(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	id, err := store.Insert(ctx, "things", map[string]interface{}{"name": "a"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	doc, err := store.GetByID(ctx, "things", id)
	require.NoError(t, err)
	assert.Equal(t, "a", doc.Data["name"])

	_, err = store.GetByID(ctx, "things", "missing")
	assert.True(t, errors.Is(err, errors.CodeNotFound))
}

func TestMemoryQueryFilters(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	require.NoError(t, store.InsertAt(ctx, "favorites", "f1", map[string]interface{}{"userId": "u1", "productId": "p1"}))
	require.NoError(t, store.InsertAt(ctx, "favorites", "f2", map[string]interface{}{"userId": "u1", "productId": "p2"}))
	require.NoError(t, store.InsertAt(ctx, "favorites", "f3", map[string]interface{}{"userId": "u2", "productId": "p1"}))

	docs, err := store.Query(ctx, "favorites", Query{
		Filters: []Filter{{Field: "userId", Value: "u1"}},
	})
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	docs, err = store.Query(ctx, "favorites", Query{
		Filters: []Filter{
			{Field: "userId", Value: "u1"},
			{Field: "productId", Value: "p2"},
		},
		Limit: 1,
	})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "f2", docs[0].ID)
}

func TestMemoryQueryOrdering(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.InsertAt(ctx, "reviews", "old", map[string]interface{}{"createdAt": base}))
	require.NoError(t, store.InsertAt(ctx, "reviews", "new", map[string]interface{}{"createdAt": base.Add(time.Hour)}))
	require.NoError(t, store.InsertAt(ctx, "reviews", "untimed", map[string]interface{}{"comment": "no timestamp"}))

	docs, err := store.Query(ctx, "reviews", Query{
		Order: &OrderBy{Field: "createdAt", Desc: true},
	})
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "new", docs[0].ID)
	assert.Equal(t, "old", docs[1].ID)
	// Documents missing the order field sort last.
	assert.Equal(t, "untimed", docs[2].ID)
}

func TestMemoryRejectOrderedQueries(t *testing.T) {
	store := NewMemory()
	store.RejectOrderedQueries(true)
	ctx := context.Background()

	_, err := store.Query(ctx, "reviews", Query{Order: &OrderBy{Field: "createdAt", Desc: true}})
	assert.True(t, errors.Is(err, errors.CodePreconditionFailed))

	// Unordered queries still work.
	_, err = store.Query(ctx, "reviews", Query{})
	assert.NoError(t, err)
}

func TestMemoryUpdateMergesFields(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	require.NoError(t, store.InsertAt(ctx, "orders", "o1", map[string]interface{}{"status": "delivered", "hasReview": false}))

	err := store.Update(ctx, "orders", "o1", map[string]interface{}{"hasReview": true, "reviewId": "r1"})
	require.NoError(t, err)

	doc, err := store.GetByID(ctx, "orders", "o1")
	require.NoError(t, err)
	assert.Equal(t, "delivered", doc.Data["status"])
	assert.Equal(t, true, doc.Data["hasReview"])
	assert.Equal(t, "r1", doc.Data["reviewId"])

	err = store.Update(ctx, "orders", "missing", map[string]interface{}{"hasReview": true})
	assert.True(t, errors.Is(err, errors.CodeNotFound))
}

func TestMemoryHookInjectsFailures(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	store.Hook = func(op, collection string) error {
		if op == "insert" && collection == "reviews" {
			return errors.Unreachable("store down", nil)
		}
		return nil
	}

	err := store.InsertAt(ctx, "reviews", "r1", map[string]interface{}{"rating": 5.0})
	assert.True(t, errors.Is(err, errors.CodeUnreachable))

	// Other collections are unaffected.
	require.NoError(t, store.InsertAt(ctx, "orders", "o1", map[string]interface{}{}))
}
