// Package promotion содержит связь предложения (offer) с покупателем.
package promotion

// Offer: промо-предложение. Здесь нужна только ссылка: сохраняется лишь ID.
type Offer struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
	Code string `json:"code,omitempty"`
}

// Customer: покупатель. Сохраняется лишь ID.
type Customer struct {
	ID       int64  `json:"id"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}

// OfferCustomer: строка join-таблицы OFFER_CUSTOMER.
//
// Никакой валидации: дубликаты пар и висячие ссылки не проверяются,
// это забота вызывающего кода и ограничений БД.
type OfferCustomer struct {
	id       *int64
	offer    *Offer
	customer *Customer
}

// NewOfferCustomer создаёт несохранённую связь (без ID).
func NewOfferCustomer(offer *Offer, customer *Customer) *OfferCustomer {
	return &OfferCustomer{offer: offer, customer: customer}
}

// ID возвращает идентификатор; ok=false, пока запись не сохранена.
func (oc *OfferCustomer) ID() (id int64, ok bool) {
	if oc.id == nil {
		return 0, false
	}
	return *oc.id, true
}

func (oc *OfferCustomer) SetID(id int64) { oc.id = &id }

// ClearID сбрасывает ID (запись снова считается новой).
func (oc *OfferCustomer) ClearID() { oc.id = nil }

// Ссылки хранятся как есть. В хранилище ID 0 означает «нет ссылки»,
// поэтому Offer{ID: 0} после Save/Get читается как nil.
func (oc *OfferCustomer) Offer() *Offer           { return oc.offer }
func (oc *OfferCustomer) SetOffer(o *Offer)       { oc.offer = o }
func (oc *OfferCustomer) Customer() *Customer     { return oc.customer }
func (oc *OfferCustomer) SetCustomer(c *Customer) { oc.customer = c }

// OfferID и CustomerID: внешние ключи; 0, если ссылка не задана.
func (oc *OfferCustomer) OfferID() int64 {
	if oc.offer == nil {
		return 0
	}
	return oc.offer.ID
}

func (oc *OfferCustomer) CustomerID() int64 {
	if oc.customer == nil {
		return 0
	}
	return oc.customer.ID
}
