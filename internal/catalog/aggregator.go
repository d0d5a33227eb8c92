// Package catalog merges the four product families into one unified
// store view, enriched with per-user purchase state.
package catalog

import (
	"context"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"

	"campusmart/internal/domain"
	"campusmart/internal/repository"
	"campusmart/internal/service"
)

// Snapshot is one consistent view of the unified catalog for a user.
// NoData is true only when every product table is empty, which is a
// different condition from a filtered view that happens to have no
// rows.
type Snapshot struct {
	Items  []domain.CatalogItem
	NoData bool
}

// sourceTables are the tables whose changes invalidate a snapshot.
var sourceTables = []string{
	service.TopicBooks,
	service.TopicAudioBooks,
	service.TopicCourses,
	service.TopicGearItems,
	service.TopicPurchases,
}

// Compute builds a unified catalog snapshot for the given user. The
// four product listings run concurrently; the result concatenates
// them in the fixed order books, audiobooks, courses, gear. Each item
// carries the order confirmation of the user's purchase when one
// exists.
func Compute(ctx context.Context, repo repository.Repository, userID string) (Snapshot, error) {
	var (
		books      []domain.Book
		audioBooks []domain.AudioBook
		courses    []domain.Course
		gear       []domain.GearItem
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		books, err = repo.ListBooks(gctx)
		return err
	})
	g.Go(func() (err error) {
		audioBooks, err = repo.ListAudioBooks(gctx)
		return err
	})
	g.Go(func() (err error) {
		courses, err = repo.ListCourses(gctx)
		return err
	})
	g.Go(func() (err error) {
		gear, err = repo.ListGearItems(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}

	if len(books) == 0 && len(audioBooks) == 0 && len(courses) == 0 && len(gear) == 0 {
		return Snapshot{NoData: true}, nil
	}

	confirmations, err := confirmationsByProduct(ctx, repo, userID)
	if err != nil {
		return Snapshot{}, err
	}

	items := make([]domain.CatalogItem, 0, len(books)+len(audioBooks)+len(courses)+len(gear))
	for _, b := range books {
		items = append(items, enrich(b.AsCatalogItem(), confirmations))
	}
	for _, a := range audioBooks {
		items = append(items, enrich(a.AsCatalogItem(), confirmations))
	}
	for _, c := range courses {
		items = append(items, enrich(c.AsCatalogItem(), confirmations))
	}
	for _, gi := range gear {
		items = append(items, enrich(gi.AsCatalogItem(), confirmations))
	}
	return Snapshot{Items: items}, nil
}

// Lookup finds a single catalog item by product id. It builds the full
// merged view and filters it, so the returned item carries the same
// purchase enrichment the listing shows. A miss returns (nil, nil).
func Lookup(ctx context.Context, repo repository.Repository, userID, productID string) (*domain.CatalogItem, error) {
	snap, err := Compute(ctx, repo, userID)
	if err != nil {
		return nil, err
	}
	for i := range snap.Items {
		if snap.Items[i].ID == productID {
			return &snap.Items[i], nil
		}
	}
	return nil, nil
}

func confirmationsByProduct(ctx context.Context, repo repository.Repository, userID string) (map[string]string, error) {
	if userID == "" {
		return nil, nil
	}
	records, err := repo.ListPurchases(ctx, userID)
	if err != nil {
		return nil, err
	}
	confirmations := make(map[string]string, len(records))
	for _, r := range records {
		// ListPurchases is newest-first, so the first record per
		// product wins.
		if _, ok := confirmations[r.ProductID]; !ok {
			confirmations[r.ProductID] = r.OrderConfirmation
		}
	}
	return confirmations, nil
}

func enrich(item domain.CatalogItem, confirmations map[string]string) domain.CatalogItem {
	if oc, ok := confirmations[item.ID]; ok {
		item.OrderConfirmation = oc
	}
	return item
}

// Aggregator keeps a live unified catalog snapshot for one user,
// recomputing whenever a source table changes.
type Aggregator struct {
	repo   repository.Repository
	userID string
	events chan service.Event

	mu      sync.RWMutex
	current Snapshot
	subs    []chan Snapshot
}

// NewAggregator wires an aggregator to the bus. Call Run to start it.
func NewAggregator(repo repository.Repository, bus *service.EventBus, userID string) *Aggregator {
	a := &Aggregator{
		repo:    repo,
		userID:  userID,
		events:  make(chan service.Event, 64),
		current: Snapshot{NoData: true},
	}
	bus.Subscribe(a.events)
	return a
}

// Run computes the initial snapshot, then recomputes on every relevant
// change until ctx is done.
func (a *Aggregator) Run(ctx context.Context) {
	a.refresh(ctx)
	for {
		select {
		case ev := <-a.events:
			if ev.Touches(sourceTables...) {
				a.refresh(ctx)
			}
		case <-ctx.Done():
			return
		}
	}
}

// Current returns the latest known-good snapshot.
func (a *Aggregator) Current() Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.current
}

// Subscribe returns a channel receiving each fresh snapshot. A slow
// subscriber drops intermediate snapshots rather than blocking the
// refresh loop.
func (a *Aggregator) Subscribe() <-chan Snapshot {
	ch := make(chan Snapshot, 16)
	a.mu.Lock()
	a.subs = append(a.subs, ch)
	a.mu.Unlock()
	return ch
}

func (a *Aggregator) refresh(ctx context.Context) {
	snap, err := Compute(ctx, a.repo, a.userID)
	if err != nil {
		// Keep the previous snapshot visible.
		log.Printf("catalog refresh failed, keeping prior snapshot: %v", err)
		return
	}
	a.mu.Lock()
	a.current = snap
	subs := a.subs
	a.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- snap:
		default:
		}
	}
}
