package promotion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOfferCustomerAccessors(t *testing.T) {
	oc := &OfferCustomer{}
	_, ok := oc.ID()
	assert.False(t, ok, "new link has no id")
	assert.Nil(t, oc.Offer())
	assert.Nil(t, oc.Customer())
	assert.Zero(t, oc.OfferID())
	assert.Zero(t, oc.CustomerID())

	o1 := &Offer{ID: 11, Name: "Spring", Code: "SPRING10"}
	c1 := &Customer{ID: 22, Username: "jdoe"}
	oc.SetID(7)
	oc.SetOffer(o1)
	oc.SetCustomer(c1)

	id, ok := oc.ID()
	assert.True(t, ok)
	assert.Equal(t, int64(7), id)
	assert.Same(t, o1, oc.Offer())
	assert.Same(t, c1, oc.Customer())
	assert.Equal(t, int64(11), oc.OfferID())
	assert.Equal(t, int64(22), oc.CustomerID())

	oc.ClearID()
	_, ok = oc.ID()
	assert.False(t, ok)
}

func TestOfferCustomerIDBoundaries(t *testing.T) {
	for _, id := range []int64{0, -1, 1 << 62} {
		oc := NewOfferCustomer(nil, nil)
		oc.SetID(id)
		got, ok := oc.ID()
		assert.True(t, ok)
		assert.Equal(t, id, got)
	}
}

func TestOfferCustomerMappingNames(t *testing.T) {
	m := OfferCustomerMapping
	assert.Equal(t, "OFFER_CUSTOMER", m.Table)
	assert.Equal(t, "OFFER_CUSTOMER_ID", m.IDColumn)

	col, ok := m.Column("offer")
	assert.True(t, ok)
	assert.Equal(t, "OFFER_CODE_ID", col)

	col, ok = m.Column("customer")
	assert.True(t, ok)
	assert.Equal(t, "CUSTOMER_ID", col)

	col, ok = m.Column("id")
	assert.True(t, ok)
	assert.Equal(t, "OFFER_CUSTOMER_ID", col)

	_, ok = m.Column("missing")
	assert.False(t, ok)
}
