package docstore

import (
	"context"
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"phonemart/pkg/errors"
)

// Memory is an in-process docstore backend. It serves the development
// environment (STORE_BACKEND=memory) and the test suite, where it can also
// simulate a missing composite index by rejecting ordered queries and
// inject failures through Hook.
type Memory struct {
	mu          sync.RWMutex
	collections map[string]map[string]map[string]interface{}

	// Hook, when set, runs before every operation; a non-nil result is
	// returned to the caller instead of performing the operation.
	Hook func(op, collection string) error

	rejectOrdered bool
}

func NewMemory() *Memory {
	return &Memory{
		collections: make(map[string]map[string]map[string]interface{}),
	}
}

// RejectOrderedQueries makes every ordered query fail with
// PRECONDITION_FAILED, the way a store without the needed composite index
// would.
func (m *Memory) RejectOrderedQueries(reject bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejectOrdered = reject
}

func (m *Memory) hook(op, collection string) error {
	if m.Hook != nil {
		return m.Hook(op, collection)
	}
	return nil
}

func (m *Memory) GetByID(ctx context.Context, collection, id string) (Document, error) {
	if err := m.hook("get", collection); err != nil {
		return Document{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.collections[collection][id]
	if !ok {
		return Document{}, errors.NotFound("Document", nil)
	}

	return Document{ID: id, Data: cloneDoc(data)}, nil
}

func (m *Memory) Query(ctx context.Context, collection string, q Query) ([]Document, error) {
	if err := m.hook("query", collection); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if q.Order != nil && m.rejectOrdered {
		return nil, errors.PreconditionFailed("Store rejected ordered query", nil)
	}

	var docs []Document
	for id, data := range m.collections[collection] {
		if matches(data, q.Filters) {
			docs = append(docs, Document{ID: id, Data: cloneDoc(data)})
		}
	}

	if q.Order != nil {
		sortDocs(docs, *q.Order)
	} else {
		// Deterministic order for unordered queries.
		sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	}

	if q.Limit > 0 && len(docs) > q.Limit {
		docs = docs[:q.Limit]
	}

	return docs, nil
}

func (m *Memory) Insert(ctx context.Context, collection string, data map[string]interface{}) (string, error) {
	if err := m.hook("insert", collection); err != nil {
		return "", err
	}

	id := uuid.New().String()
	return id, m.put(collection, id, data)
}

func (m *Memory) InsertAt(ctx context.Context, collection, id string, data map[string]interface{}) error {
	if err := m.hook("insert", collection); err != nil {
		return err
	}

	return m.put(collection, id, data)
}

func (m *Memory) Update(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	if err := m.hook("update", collection); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.collections[collection][id]
	if !ok {
		return errors.NotFound("Document", nil)
	}

	for key, value := range fields {
		doc[key] = value
	}

	return nil
}

func (m *Memory) Delete(ctx context.Context, collection, id string) error {
	if err := m.hook("delete", collection); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.collections[collection], id)
	return nil
}

// Len reports the number of documents in a collection.
func (m *Memory) Len(collection string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.collections[collection])
}

func (m *Memory) put(collection, id string, data map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.collections[collection] == nil {
		m.collections[collection] = make(map[string]map[string]interface{})
	}
	m.collections[collection][id] = cloneDoc(data)

	return nil
}

func matches(data map[string]interface{}, filters []Filter) bool {
	for _, f := range filters {
		value, ok := data[f.Field]
		if !ok || !reflect.DeepEqual(value, f.Value) {
			return false
		}
	}
	return true
}

// sortDocs orders documents by the given field; documents missing the
// field sort last regardless of direction.
func sortDocs(docs []Document, order OrderBy) {
	sort.SliceStable(docs, func(i, j int) bool {
		a, aok := docs[i].Data[order.Field]
		b, bok := docs[j].Data[order.Field]
		if !aok || !bok {
			return aok
		}

		cmp := compareValues(a, b)
		if order.Desc {
			return cmp > 0
		}
		return cmp < 0
	})
}

func compareValues(a, b interface{}) int {
	switch av := a.(type) {
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			switch {
			case av.Before(bv):
				return -1
			case av.After(bv):
				return 1
			}
			return 0
		}
	case string:
		if bv, ok := b.(string); ok {
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			}
			return 0
		}
	default:
		af, aok := toFloat(a)
		bf, bok := toFloat(b)
		if aok && bok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			}
			return 0
		}
	}
	return 0
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func cloneDoc(data map[string]interface{}) map[string]interface{} {
	clone := make(map[string]interface{}, len(data))
	for key, value := range data {
		clone[key] = value
	}
	return clone
}
