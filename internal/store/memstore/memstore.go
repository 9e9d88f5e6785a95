// Package memstore: in-memory Store для запуска без БД и для тестов.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"promoadmin/internal/promotion"
	"promoadmin/internal/store"
)

type row struct {
	id         int64
	offerID    int64
	customerID int64
}

type Store struct {
	mu   sync.RWMutex
	rows map[int64]row
	seq  int64
	opts store.Options
}

var _ store.Store = (*Store)(nil)

func New(opts store.Options) *Store {
	return &Store{rows: make(map[int64]row), opts: opts}
}

// пара уже занята другой записью? вызывать под mu.
// Пустая ссылка (0) пару не образует: как NULL в уникальном индексе Postgres.
func (s *Store) pairTakenLocked(offerID, customerID, exceptID int64) bool {
	if !s.opts.UniquePairs || offerID == 0 || customerID == 0 {
		return false
	}
	for id, r := range s.rows {
		if id != exceptID && r.offerID == offerID && r.customerID == customerID {
			return true
		}
	}
	return false
}

func (s *Store) Save(_ context.Context, oc *promotion.OfferCustomer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	offerID, customerID := oc.OfferID(), oc.CustomerID()
	id, ok := oc.ID()
	if !ok {
		if s.pairTakenLocked(offerID, customerID, 0) {
			return fmt.Errorf("%w: offer=%d customer=%d", store.ErrDuplicateLink, offerID, customerID)
		}
		s.seq++
		s.rows[s.seq] = row{id: s.seq, offerID: offerID, customerID: customerID}
		oc.SetID(s.seq)
		return nil
	}

	if _, exists := s.rows[id]; !exists {
		return fmt.Errorf("%w: id=%d", store.ErrNotFound, id)
	}
	if s.pairTakenLocked(offerID, customerID, id) {
		return fmt.Errorf("%w: offer=%d customer=%d", store.ErrDuplicateLink, offerID, customerID)
	}
	s.rows[id] = row{id: id, offerID: offerID, customerID: customerID}
	return nil
}

func (s *Store) Get(_ context.Context, id int64) (*promotion.OfferCustomer, error) {
	s.mu.RLock()
	r, ok := s.rows[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: id=%d", store.ErrNotFound, id)
	}
	return store.Hydrate(r.id, r.offerID, r.customerID), nil
}

func (s *Store) List(_ context.Context, f store.Filter) ([]*promotion.OfferCustomer, int, error) {
	f = store.NormalizePage(f)

	s.mu.RLock()
	matched := make([]row, 0, len(s.rows))
	for _, r := range s.rows {
		if f.OfferID != 0 && r.offerID != f.OfferID {
			continue
		}
		if f.CustomerID != 0 && r.customerID != f.CustomerID {
			continue
		}
		matched = append(matched, r)
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].id < matched[j].id })

	total := len(matched)
	start := f.Offset
	if start > total {
		start = total
	}
	end := start + f.Limit
	if end > total {
		end = total
	}
	out := make([]*promotion.OfferCustomer, 0, end-start)
	for _, r := range matched[start:end] {
		out = append(out, store.Hydrate(r.id, r.offerID, r.customerID))
	}
	return out, total, nil
}

func (s *Store) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return fmt.Errorf("%w: id=%d", store.ErrNotFound, id)
	}
	delete(s.rows, id)
	return nil
}

func (s *Store) DeleteByOffer(_ context.Context, offerID int64) (int, error) {
	return s.deleteWhere(func(r row) bool { return r.offerID == offerID }), nil
}

func (s *Store) DeleteByCustomer(_ context.Context, customerID int64) (int, error) {
	return s.deleteWhere(func(r row) bool { return r.customerID == customerID }), nil
}

func (s *Store) deleteWhere(match func(row) bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, r := range s.rows {
		if match(r) {
			delete(s.rows, id)
			n++
		}
	}
	return n
}

func (s *Store) Close() error { return nil }
