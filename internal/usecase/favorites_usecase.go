package usecase

import (
	"context"
	stderrors "errors"
	"sort"
	"sync"

	"phonemart/internal/domain/entity"
	"phonemart/internal/domain/repository"
	"phonemart/internal/domain/service"
	"phonemart/pkg/errors"
	"phonemart/pkg/logger"
)

// FavoritesListener receives push notifications about one user's
// favorites. Implementations must be comparable so they can be
// unsubscribed again.
type FavoritesListener interface {
	OnFavoritesUpdated(items []*entity.FavoriteItem)
	OnFavoriteCountChanged(count int)
	OnFavoriteError(message string)
}

// userView is the in-memory favorites state of a single user: the cached
// item list, the refresh sequence pair, and the listeners subscribed to
// that user. The anonymous session is the view keyed by the empty uid
// and is always empty.
type userView struct {
	items       []*entity.FavoriteItem
	refreshSeq  uint64
	appliedSeq  uint64
	subscribers map[FavoritesListener]struct{}
}

// FavoritesUseCase is the authoritative in-memory view of each user's
// favorites. One instance is created by the composition root and shared;
// all state inside it is keyed by user id, so one user's refresh never
// touches, or is broadcast to, another user's view.
//
// Every toggle/add/remove re-checks the store rather than the local
// cache, because the cache can be stale relative to another device.
// Mutations on the same (user, product) pair are serialized through a
// keyed mutex so two concurrent toggles cannot both observe "absent" and
// both insert.
type FavoritesUseCase struct {
	favoriteRepo repository.FavoriteRepository
	identity     service.IdentityProvider

	mu    sync.Mutex
	views map[string]*userView

	keys keyedMutex
}

func NewFavoritesUseCase(favoriteRepo repository.FavoriteRepository, identity service.IdentityProvider) *FavoritesUseCase {
	return &FavoritesUseCase{
		favoriteRepo: favoriteRepo,
		identity:     identity,
		views:        make(map[string]*userView),
	}
}

// view returns the state for a user, creating it on first touch. Callers
// must hold u.mu.
func (u *FavoritesUseCase) view(userID string) *userView {
	v := u.views[userID]
	if v == nil {
		v = &userView{subscribers: make(map[FavoritesListener]struct{})}
		u.views[userID] = v
	}
	return v
}

// Subscribe registers a listener for one user's notifications;
// subscribing one twice is a no-op. The empty uid subscribes to the
// anonymous view.
func (u *FavoritesUseCase) Subscribe(userID string, listener FavoritesListener) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.view(userID).subscribers[listener] = struct{}{}
}

func (u *FavoritesUseCase) Unsubscribe(userID string, listener FavoritesListener) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if v := u.views[userID]; v != nil {
		delete(v.subscribers, listener)
	}
}

// Refresh re-reads the caller's favorites from the store, replaces that
// user's view and notifies that user's subscribers. For an anonymous
// session the anonymous view is confirmed empty and its subscribers see
// an empty list; that is a valid state, not an error, and it leaves
// every signed-in user's view untouched. A refresh result older than one
// already applied for the same user is dropped, so a slow refresh can
// never overwrite a newer one.
func (u *FavoritesUseCase) Refresh(ctx context.Context) error {
	userID, signedIn := u.identity.CurrentUserID(ctx)
	if !signedIn {
		userID = ""
	}
	seq := u.nextRefreshSeq(userID)

	if !signedIn {
		u.applyRefresh(userID, seq, []*entity.FavoriteItem{})
		return nil
	}

	items, err := u.favoriteRepo.ListByUser(ctx, userID)
	if err != nil {
		u.notifyError(userID, err)
		return err
	}

	sortFavoritesNewestFirst(items)
	u.applyRefresh(userID, seq, items)
	return nil
}

func (u *FavoritesUseCase) nextRefreshSeq(userID string) uint64 {
	u.mu.Lock()
	defer u.mu.Unlock()
	v := u.view(userID)
	v.refreshSeq++
	return v.refreshSeq
}

func (u *FavoritesUseCase) applyRefresh(userID string, seq uint64, items []*entity.FavoriteItem) {
	u.mu.Lock()
	v := u.view(userID)
	if seq <= v.appliedSeq {
		u.mu.Unlock()
		logger.Debug("Dropping stale favorites refresh (user %s, seq %d)", userID, seq)
		return
	}
	v.appliedSeq = seq
	v.items = items
	subscribers := subscribersLocked(v)
	u.mu.Unlock()

	// Callbacks run outside the lock so a listener may unsubscribe while
	// a notification is in flight.
	for _, listener := range subscribers {
		listener.OnFavoritesUpdated(items)
		listener.OnFavoriteCountChanged(len(items))
	}
}

func (u *FavoritesUseCase) notifyError(userID string, err error) {
	message := err.Error()
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		message = appErr.Message
	}

	u.mu.Lock()
	var subscribers []FavoritesListener
	if v := u.views[userID]; v != nil {
		subscribers = subscribersLocked(v)
	}
	u.mu.Unlock()

	for _, listener := range subscribers {
		listener.OnFavoriteError(message)
	}
}

func subscribersLocked(v *userView) []FavoritesListener {
	subscribers := make([]FavoritesListener, 0, len(v.subscribers))
	for listener := range v.subscribers {
		subscribers = append(subscribers, listener)
	}
	return subscribers
}

// Add inserts a favorite snapshot of the product after a store-level
// existence check, then resynchronizes.
func (u *FavoritesUseCase) Add(ctx context.Context, product *entity.Product) error {
	userID, signedIn := u.identity.CurrentUserID(ctx)
	if !signedIn {
		return errors.Unauthorized("Sign in to manage favorites", nil)
	}

	unlock := u.keys.lock(userID + "/" + product.ID)
	err := u.addLocked(ctx, userID, product)
	unlock()
	if err != nil {
		return err
	}

	return u.Refresh(ctx)
}

func (u *FavoritesUseCase) addLocked(ctx context.Context, userID string, product *entity.Product) error {
	_, err := u.favoriteRepo.Find(ctx, userID, product.ID)
	if err == nil {
		return errors.AlreadyFavorited(product.ID)
	}
	if !errors.Is(err, errors.CodeNotFound) {
		return err
	}

	return u.favoriteRepo.Create(ctx, entity.NewFavoriteItem(userID, product))
}

// Remove deletes a favorite by its store id, then resynchronizes.
func (u *FavoritesUseCase) Remove(ctx context.Context, favoriteID string) error {
	if err := u.favoriteRepo.Delete(ctx, favoriteID); err != nil {
		return err
	}

	return u.Refresh(ctx)
}

// RemoveByProduct resolves the favorite for (current user, product) and
// deletes it; absent favorites fail with NOT_FOUND.
func (u *FavoritesUseCase) RemoveByProduct(ctx context.Context, productID string) error {
	userID, signedIn := u.identity.CurrentUserID(ctx)
	if !signedIn {
		return errors.Unauthorized("Sign in to manage favorites", nil)
	}

	unlock := u.keys.lock(userID + "/" + productID)
	item, err := u.favoriteRepo.Find(ctx, userID, productID)
	if err == nil {
		err = u.favoriteRepo.Delete(ctx, item.ID)
	}
	unlock()
	if err != nil {
		return err
	}

	return u.Refresh(ctx)
}

// Toggle adds the product when absent and removes it when present. The
// decision re-checks the store, not the local cache; the keyed lock makes
// the check-then-act pair atomic per (user, product). Returns true when
// the product ended up favorited.
func (u *FavoritesUseCase) Toggle(ctx context.Context, product *entity.Product) (bool, error) {
	userID, signedIn := u.identity.CurrentUserID(ctx)
	if !signedIn {
		return false, errors.Unauthorized("Sign in to manage favorites", nil)
	}

	added := false
	unlock := u.keys.lock(userID + "/" + product.ID)
	existing, err := u.favoriteRepo.Find(ctx, userID, product.ID)
	switch {
	case err == nil:
		err = u.favoriteRepo.Delete(ctx, existing.ID)
	case errors.Is(err, errors.CodeNotFound):
		added = true
		err = u.favoriteRepo.Create(ctx, entity.NewFavoriteItem(userID, product))
	}
	unlock()
	if err != nil {
		return false, err
	}

	return added, u.Refresh(ctx)
}

// IsFavorite checks the store for a (user, product) favorite and returns
// the matching id when present.
func (u *FavoritesUseCase) IsFavorite(ctx context.Context, userID, productID string) (bool, string, error) {
	item, err := u.favoriteRepo.Find(ctx, userID, productID)
	if err != nil {
		if errors.Is(err, errors.CodeNotFound) {
			return false, "", nil
		}
		return false, "", err
	}

	return true, item.ID, nil
}

// Items returns the caller's current local view. It can be stale
// relative to the store-level checks Toggle performs.
func (u *FavoritesUseCase) Items(ctx context.Context) []*entity.FavoriteItem {
	v := u.currentView(ctx)

	u.mu.Lock()
	defer u.mu.Unlock()

	items := make([]*entity.FavoriteItem, len(v.items))
	copy(items, v.items)
	return items
}

func (u *FavoritesUseCase) Count(ctx context.Context) int {
	v := u.currentView(ctx)

	u.mu.Lock()
	defer u.mu.Unlock()
	return len(v.items)
}

// IsFavoriteLocal answers from the caller's in-memory view only; fast
// but possibly stale.
func (u *FavoritesUseCase) IsFavoriteLocal(ctx context.Context, productID string) bool {
	return u.GetLocal(ctx, productID) != nil
}

// GetLocal returns the caller's locally cached favorite for a product,
// or nil.
func (u *FavoritesUseCase) GetLocal(ctx context.Context, productID string) *entity.FavoriteItem {
	v := u.currentView(ctx)

	u.mu.Lock()
	defer u.mu.Unlock()

	for _, item := range v.items {
		if item.ProductID == productID {
			return item
		}
	}
	return nil
}

func (u *FavoritesUseCase) currentView(ctx context.Context) *userView {
	userID, signedIn := u.identity.CurrentUserID(ctx)
	if !signedIn {
		userID = ""
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	return u.view(userID)
}

// sortFavoritesNewestFirst orders by addedAt descending; items with no
// addedAt sort last.
func sortFavoritesNewestFirst(items []*entity.FavoriteItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].AddedAt, items[j].AddedAt
		if a.IsZero() || b.IsZero() {
			return !a.IsZero()
		}
		return a.After(b)
	})
}
