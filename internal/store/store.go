// Package store описывает хранение связей offer–customer.
package store

import (
	"context"
	"errors"

	"promoadmin/internal/promotion"
)

var (
	ErrNotFound      = errors.New("offer customer link not found")
	ErrDuplicateLink = errors.New("offer customer link already exists")
)

// Filter для List. Нулевые значения не фильтруют.
type Filter struct {
	OfferID    int64
	CustomerID int64
	Limit      int
	Offset     int
}

// Store хранит строки OfferCustomer. Сохраняются только ID offer и customer,
// у прочитанных связей в ссылках заполнен только ID.
type Store interface {
	// Save вставляет связь без ID (и назначает его) или обновляет существующую.
	Save(ctx context.Context, oc *promotion.OfferCustomer) error
	Get(ctx context.Context, id int64) (*promotion.OfferCustomer, error)
	// List: страница по возрастанию ID + общее число совпадений.
	List(ctx context.Context, f Filter) ([]*promotion.OfferCustomer, int, error)
	Delete(ctx context.Context, id int64) error
	DeleteByOffer(ctx context.Context, offerID int64) (int, error)
	DeleteByCustomer(ctx context.Context, customerID int64) (int, error)
	Close() error
}

// Options общие для реализаций.
type Options struct {
	// UniquePairs запрещает вторую связь для той же пары (offer, customer).
	UniquePairs bool
}

// Hydrate собирает связь из сохранённых ID; 0 означает «нет ссылки».
func Hydrate(id, offerID, customerID int64) *promotion.OfferCustomer {
	oc := &promotion.OfferCustomer{}
	oc.SetID(id)
	if offerID != 0 {
		oc.SetOffer(&promotion.Offer{ID: offerID})
	}
	if customerID != 0 {
		oc.SetCustomer(&promotion.Customer{ID: customerID})
	}
	return oc
}

const (
	DefaultLimit = 50
	MaxLimit     = 1000
)

// NormalizePage одинаково для всех реализаций ограничивает limit/offset.
func NormalizePage(f Filter) Filter {
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}
