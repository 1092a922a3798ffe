package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phonemart/internal/domain/entity"
	"phonemart/internal/domain/service"
	"phonemart/pkg/errors"
)

type staticIdentity struct {
	uid string
}

func (s staticIdentity) CurrentUserID(ctx context.Context) (string, bool) {
	return s.uid, s.uid != ""
}

// memFavoriteRepo is an in-memory FavoriteRepository that records how
// many check-then-act sections ran concurrently for the same
// (user, product) pair.
type memFavoriteRepo struct {
	mu      sync.Mutex
	items   map[string]*entity.FavoriteItem
	nextID  int
	creates int
	deletes int
	listErr error

	findDelay   time.Duration
	inFlight    map[string]int
	maxInFlight int
}

func newMemFavoriteRepo() *memFavoriteRepo {
	return &memFavoriteRepo{
		items:    make(map[string]*entity.FavoriteItem),
		inFlight: make(map[string]int),
	}
}

func (r *memFavoriteRepo) ListByUser(ctx context.Context, userID string) ([]*entity.FavoriteItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.listErr != nil {
		return nil, r.listErr
	}

	items := make([]*entity.FavoriteItem, 0)
	for _, item := range r.items {
		if item.UserID == userID {
			clone := *item
			items = append(items, &clone)
		}
	}
	return items, nil
}

func (r *memFavoriteRepo) Find(ctx context.Context, userID, productID string) (*entity.FavoriteItem, error) {
	key := userID + "/" + productID

	r.mu.Lock()
	r.inFlight[key]++
	if r.inFlight[key] > r.maxInFlight {
		r.maxInFlight = r.inFlight[key]
	}
	r.mu.Unlock()

	// Widen the window between check and act so an unserialized caller
	// pair would overlap here.
	if r.findDelay > 0 {
		time.Sleep(r.findDelay)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.inFlight[key]--

	for _, item := range r.items {
		if item.UserID == userID && item.ProductID == productID {
			clone := *item
			return &clone, nil
		}
	}
	return nil, errors.NotFound("Favorite", nil)
}

func (r *memFavoriteRepo) Create(ctx context.Context, item *entity.FavoriteItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	item.ID = fmt.Sprintf("fav-%d", r.nextID)
	clone := *item
	r.items[item.ID] = &clone
	r.creates++
	return nil
}

func (r *memFavoriteRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return errors.NotFound("Favorite", nil)
	}
	delete(r.items, id)
	r.deletes++
	return nil
}

type recordingListener struct {
	mu      sync.Mutex
	updates [][]*entity.FavoriteItem
	counts  []int
	errs    []string
}

func (l *recordingListener) OnFavoritesUpdated(items []*entity.FavoriteItem) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.updates = append(l.updates, items)
}

func (l *recordingListener) OnFavoriteCountChanged(count int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.counts = append(l.counts, count)
}

func (l *recordingListener) OnFavoriteError(message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errs = append(l.errs, message)
}

func (l *recordingListener) lastCount() (int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.counts) == 0 {
		return 0, false
	}
	return l.counts[len(l.counts)-1], true
}

func (l *recordingListener) updateCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.updates)
}

func testProduct(id string) *entity.Product {
	return &entity.Product{ID: id, Name: "Phone " + id, Price: "100,000 ₫"}
}

func TestToggleAddsRemovesAndReAdds(t *testing.T) {
	repo := newMemFavoriteRepo()
	u := NewFavoritesUseCase(repo, staticIdentity{uid: "u1"})
	ctx := context.Background()

	added, err := u.Toggle(ctx, testProduct("p1"))
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, 1, u.Count(ctx))

	added, err = u.Toggle(ctx, testProduct("p1"))
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, 0, u.Count(ctx))

	added, err = u.Toggle(ctx, testProduct("p1"))
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, 1, u.Count(ctx))
}

func TestConcurrentTogglesSerializePerPair(t *testing.T) {
	repo := newMemFavoriteRepo()
	repo.findDelay = 20 * time.Millisecond
	u := NewFavoritesUseCase(repo, staticIdentity{uid: "u1"})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := u.Toggle(ctx, testProduct("p1"))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// One toggle must see absent and insert, the other must see the
	// insert and delete, never both inserting.
	assert.Equal(t, 1, repo.maxInFlight, "check-then-act for the same pair overlapped")
	assert.Equal(t, 1, repo.creates)
	assert.Equal(t, 1, repo.deletes)
	assert.Equal(t, 0, u.Count(ctx))
}

func TestAddRejectsDuplicate(t *testing.T) {
	repo := newMemFavoriteRepo()
	u := NewFavoritesUseCase(repo, staticIdentity{uid: "u1"})
	ctx := context.Background()

	require.NoError(t, u.Add(ctx, testProduct("p1")))

	err := u.Add(ctx, testProduct("p1"))
	assert.True(t, errors.Is(err, errors.CodeAlreadyFavorited))
	assert.Equal(t, 1, repo.creates)
}

func TestAddRequiresSignIn(t *testing.T) {
	u := NewFavoritesUseCase(newMemFavoriteRepo(), staticIdentity{})

	err := u.Add(context.Background(), testProduct("p1"))
	assert.True(t, errors.Is(err, errors.CodeUnauthorized))
}

func TestRefreshSortsNewestFirstWithMissingLast(t *testing.T) {
	repo := newMemFavoriteRepo()
	u := NewFavoritesUseCase(repo, staticIdentity{uid: "u1"})
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, &entity.FavoriteItem{UserID: "u1", ProductID: "old", AddedAt: base}))
	require.NoError(t, repo.Create(ctx, &entity.FavoriteItem{UserID: "u1", ProductID: "new", AddedAt: base.Add(time.Hour)}))
	require.NoError(t, repo.Create(ctx, &entity.FavoriteItem{UserID: "u1", ProductID: "untimed"}))

	require.NoError(t, u.Refresh(ctx))

	items := u.Items(ctx)
	require.Len(t, items, 3)
	assert.Equal(t, "new", items[0].ProductID)
	assert.Equal(t, "old", items[1].ProductID)
	assert.Equal(t, "untimed", items[2].ProductID)
}

func TestRefreshAnonymousClearsAndNotifiesEmpty(t *testing.T) {
	repo := newMemFavoriteRepo()
	u := NewFavoritesUseCase(repo, staticIdentity{})
	listener := &recordingListener{}
	u.Subscribe("", listener)

	require.NoError(t, u.Refresh(context.Background()))

	assert.Equal(t, 0, u.Count(context.Background()))
	count, ok := listener.lastCount()
	require.True(t, ok)
	assert.Equal(t, 0, count)
	assert.Empty(t, listener.errs)
}

// Each user's view, count and notifications are keyed by that user; one
// user's refresh must never reach another user's subscribers or change
// what another user reads back.
func TestViewsAndNotificationsAreScopedPerUser(t *testing.T) {
	repo := newMemFavoriteRepo()
	u := NewFavoritesUseCase(repo, service.ContextIdentity{})

	ctxA := service.WithUserID(context.Background(), "alice")
	ctxB := service.WithUserID(context.Background(), "bob")

	listenerB := &recordingListener{}
	u.Subscribe("bob", listenerB)

	require.NoError(t, u.Add(ctxA, testProduct("p1")))
	require.NoError(t, u.Add(ctxA, testProduct("p2")))
	require.NoError(t, u.Add(ctxB, testProduct("p3")))

	// Alice's adds refreshed her own view only; Bob's listener saw just
	// his own add.
	assert.Equal(t, 2, u.Count(ctxA))
	assert.Equal(t, 1, u.Count(ctxB))
	assert.Equal(t, 1, listenerB.updateCount())
	count, ok := listenerB.lastCount()
	require.True(t, ok)
	assert.Equal(t, 1, count)

	for _, item := range u.Items(ctxB) {
		assert.Equal(t, "bob", item.UserID)
	}

	// Another refresh by Alice must not reach Bob at all.
	require.NoError(t, u.Refresh(ctxA))
	assert.Equal(t, 1, listenerB.updateCount())
	assert.False(t, u.IsFavoriteLocal(ctxB, "p1"))
	assert.True(t, u.IsFavoriteLocal(ctxB, "p3"))
}

// An anonymous refresh confirms the anonymous view empty; it must not
// wipe any signed-in user's view or broadcast to their subscribers.
func TestAnonymousRefreshDoesNotTouchSignedInViews(t *testing.T) {
	repo := newMemFavoriteRepo()
	u := NewFavoritesUseCase(repo, service.ContextIdentity{})

	ctxA := service.WithUserID(context.Background(), "alice")
	listenerA := &recordingListener{}
	u.Subscribe("alice", listenerA)

	require.NoError(t, u.Add(ctxA, testProduct("p1")))
	updatesBefore := listenerA.updateCount()

	anonListener := &recordingListener{}
	u.Subscribe("", anonListener)
	require.NoError(t, u.Refresh(context.Background()))

	assert.Equal(t, 1, u.Count(ctxA))
	assert.Equal(t, updatesBefore, listenerA.updateCount())
	assert.Equal(t, 0, u.Count(context.Background()))
	count, ok := anonListener.lastCount()
	require.True(t, ok)
	assert.Equal(t, 0, count)
}

func TestRefreshErrorKeepsLocalViewAndNotifies(t *testing.T) {
	repo := newMemFavoriteRepo()
	u := NewFavoritesUseCase(repo, staticIdentity{uid: "u1"})
	ctx := context.Background()

	require.NoError(t, u.Add(ctx, testProduct("p1")))
	require.Equal(t, 1, u.Count(ctx))

	listener := &recordingListener{}
	u.Subscribe("u1", listener)

	repo.mu.Lock()
	repo.listErr = errors.Unreachable("favorites", nil)
	repo.mu.Unlock()

	err := u.Refresh(ctx)
	assert.True(t, errors.Is(err, errors.CodeUnreachable))

	// The failed refresh must not wipe what subscribers already see.
	assert.Equal(t, 1, u.Count(ctx))
	listener.mu.Lock()
	defer listener.mu.Unlock()
	assert.Len(t, listener.errs, 1)
}

// scriptedListRepo hands each ListByUser call its own response and
// blocks it until the test releases it, so refresh completion order can
// be forced.
type scriptedListRepo struct {
	*memFavoriteRepo

	mu        sync.Mutex
	call      int
	responses [][]*entity.FavoriteItem
	started   []chan struct{}
	release   []chan struct{}
}

func (r *scriptedListRepo) ListByUser(ctx context.Context, userID string) ([]*entity.FavoriteItem, error) {
	r.mu.Lock()
	i := r.call
	r.call++
	r.mu.Unlock()

	close(r.started[i])
	<-r.release[i]
	return r.responses[i], nil
}

func TestStaleRefreshResultIsDropped(t *testing.T) {
	stale := []*entity.FavoriteItem{{ID: "f1", UserID: "u1", ProductID: "p1"}}
	fresh := []*entity.FavoriteItem{
		{ID: "f1", UserID: "u1", ProductID: "p1"},
		{ID: "f2", UserID: "u1", ProductID: "p2"},
	}

	repo := &scriptedListRepo{
		memFavoriteRepo: newMemFavoriteRepo(),
		responses:       [][]*entity.FavoriteItem{stale, fresh},
		started:         []chan struct{}{make(chan struct{}), make(chan struct{})},
		release:         []chan struct{}{make(chan struct{}), make(chan struct{})},
	}
	u := NewFavoritesUseCase(repo, staticIdentity{uid: "u1"})
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		assert.NoError(t, u.Refresh(ctx))
	}()
	<-repo.started[0]
	go func() {
		defer wg.Done()
		assert.NoError(t, u.Refresh(ctx))
	}()
	<-repo.started[1]

	// The later refresh finishes first; the earlier one comes back stale
	// and must not overwrite it.
	close(repo.release[1])
	close(repo.release[0])
	wg.Wait()

	items := u.Items(ctx)
	require.Len(t, items, 2)
	assert.Equal(t, 2, u.Count(ctx))
}

type unsubscribingListener struct {
	recordingListener
	u   *FavoritesUseCase
	uid string
}

func (l *unsubscribingListener) OnFavoritesUpdated(items []*entity.FavoriteItem) {
	l.u.Unsubscribe(l.uid, l)
	l.recordingListener.OnFavoritesUpdated(items)
}

func TestUnsubscribeDuringNotificationDoesNotDeadlock(t *testing.T) {
	repo := newMemFavoriteRepo()
	u := NewFavoritesUseCase(repo, staticIdentity{uid: "u1"})
	listener := &unsubscribingListener{u: u, uid: "u1"}
	u.Subscribe("u1", listener)

	done := make(chan struct{})
	go func() {
		defer close(done)
		assert.NoError(t, u.Refresh(context.Background()))
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("refresh deadlocked on unsubscribe from callback")
	}

	// Listener is gone; the next refresh must not reach it.
	require.NoError(t, u.Refresh(context.Background()))
	assert.Equal(t, 1, listener.updateCount())
}

func TestSubscribeTwiceIsNoOp(t *testing.T) {
	repo := newMemFavoriteRepo()
	u := NewFavoritesUseCase(repo, staticIdentity{uid: "u1"})
	listener := &recordingListener{}
	u.Subscribe("u1", listener)
	u.Subscribe("u1", listener)

	require.NoError(t, u.Refresh(context.Background()))

	assert.Equal(t, 1, listener.updateCount())
}

func TestRemoveByProductMissingIsNotFound(t *testing.T) {
	repo := newMemFavoriteRepo()
	u := NewFavoritesUseCase(repo, staticIdentity{uid: "u1"})

	err := u.RemoveByProduct(context.Background(), "p404")
	assert.True(t, errors.Is(err, errors.CodeNotFound))
}

func TestIsFavorite(t *testing.T) {
	repo := newMemFavoriteRepo()
	u := NewFavoritesUseCase(repo, staticIdentity{uid: "u1"})
	ctx := context.Background()

	require.NoError(t, u.Add(ctx, testProduct("p1")))

	favorited, favoriteID, err := u.IsFavorite(ctx, "u1", "p1")
	require.NoError(t, err)
	assert.True(t, favorited)
	assert.NotEmpty(t, favoriteID)

	favorited, favoriteID, err = u.IsFavorite(ctx, "u1", "p2")
	require.NoError(t, err)
	assert.False(t, favorited)
	assert.Empty(t, favoriteID)
}
