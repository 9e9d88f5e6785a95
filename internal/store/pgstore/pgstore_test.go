package pgstore

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promoadmin/internal/promotion"
	"promoadmin/internal/store"
)

var linkColumns = []string{"offer_customer_id", "offer_code_id", "customer_id"}

// newMockStore создаёт Store поверх sqlmock и проверяет ожидания в конце теста.
func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return New(db), mock
}

func link(offerID, customerID int64) *promotion.OfferCustomer {
	return promotion.NewOfferCustomer(&promotion.Offer{ID: offerID}, &promotion.Customer{ID: customerID})
}

func TestQueriesUseMappedNames(t *testing.T) {
	assert.Equal(t,
		"INSERT INTO OFFER_CUSTOMER (OFFER_CODE_ID, CUSTOMER_ID) VALUES ($1, $2) RETURNING OFFER_CUSTOMER_ID",
		insertSQL)
	assert.Equal(t,
		"SELECT OFFER_CUSTOMER_ID, OFFER_CODE_ID, CUSTOMER_ID FROM OFFER_CUSTOMER WHERE OFFER_CUSTOMER_ID = $1",
		getSQL)

	count, page, args := listSQL(store.Filter{OfferID: 3, CustomerID: 4})
	assert.Equal(t, "SELECT COUNT(*) FROM OFFER_CUSTOMER WHERE OFFER_CODE_ID = $1 AND CUSTOMER_ID = $2", count)
	assert.Equal(t,
		"SELECT OFFER_CUSTOMER_ID, OFFER_CODE_ID, CUSTOMER_ID FROM OFFER_CUSTOMER WHERE OFFER_CODE_ID = $1 AND CUSTOMER_ID = $2 ORDER BY OFFER_CUSTOMER_ID LIMIT $3 OFFSET $4",
		page)
	assert.Equal(t, []any{int64(3), int64(4)}, args)
}

func TestSaveInsertAssignsID(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(insertSQL).WithArgs(int64(7), int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"offer_customer_id"}).AddRow(int64(42)))

	oc := link(7, 9)
	require.NoError(t, s.Save(context.Background(), oc))
	id, ok := oc.ID()
	require.True(t, ok)
	assert.Equal(t, int64(42), id)
}

func TestSaveInsertNullReferences(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(insertSQL).WithArgs(nil, int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"offer_customer_id"}).AddRow(int64(1)))

	oc := promotion.NewOfferCustomer(nil, &promotion.Customer{ID: 9})
	require.NoError(t, s.Save(context.Background(), oc))
}

func TestSaveInsertDuplicate(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(insertSQL).WithArgs(int64(7), int64(9)).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := s.Save(context.Background(), link(7, 9))
	assert.ErrorIs(t, err, store.ErrDuplicateLink)
}

func TestSaveUpdate(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec(updateSQL).WithArgs(int64(7), int64(10), int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	oc := link(7, 10)
	oc.SetID(42)
	require.NoError(t, s.Save(context.Background(), oc))
}

func TestSaveUpdateMissing(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec(updateSQL).WithArgs(int64(7), int64(10), int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	oc := link(7, 10)
	oc.SetID(42)
	assert.ErrorIs(t, s.Save(context.Background(), oc), store.ErrNotFound)
}

func TestGet(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(getSQL).WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows(linkColumns).AddRow(int64(42), int64(7), nil))

	oc, err := s.Get(context.Background(), 42)
	require.NoError(t, err)
	id, _ := oc.ID()
	assert.Equal(t, int64(42), id)
	assert.Equal(t, int64(7), oc.Offer().ID)
	assert.Nil(t, oc.Customer())
}

func TestGetNotFound(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(getSQL).WithArgs(int64(1)).WillReturnRows(sqlmock.NewRows(linkColumns))

	_, err := s.Get(context.Background(), 1)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGetDriverError(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(getSQL).WithArgs(int64(1)).WillReturnError(sql.ErrConnDone)

	_, err := s.Get(context.Background(), 1)
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.False(t, errors.Is(err, store.ErrNotFound))
}

func TestList(t *testing.T) {
	s, mock := newMockStore(t)
	f := store.Filter{OfferID: 7, Limit: 2, Offset: 2}
	countSQL, pageSQL, _ := listSQL(f)

	mock.ExpectQuery(countSQL).WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))
	mock.ExpectQuery(pageSQL).WithArgs(int64(7), 2, 2).
		WillReturnRows(sqlmock.NewRows(linkColumns).
			AddRow(int64(3), int64(7), int64(30)).
			AddRow(int64(4), int64(7), int64(40)))

	list, total, err := s.List(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, list, 2)
	assert.Equal(t, int64(30), list[0].CustomerID())
	assert.Equal(t, int64(40), list[1].CustomerID())
}

func TestListDefaultsPage(t *testing.T) {
	s, mock := newMockStore(t)
	countSQL, pageSQL, _ := listSQL(store.Filter{})

	mock.ExpectQuery(countSQL).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(pageSQL).WithArgs(store.DefaultLimit, 0).WillReturnRows(sqlmock.NewRows(linkColumns))

	list, total, err := s.List(context.Background(), store.Filter{Limit: -1, Offset: -4})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, list)
}

func TestDelete(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec(deleteSQL).WithArgs(int64(42)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(deleteSQL).WithArgs(int64(43)).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.Delete(context.Background(), 42))
	assert.ErrorIs(t, s.Delete(context.Background(), 43), store.ErrNotFound)
}

func TestDeleteByOfferAndCustomer(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec(deleteByOfferSQL).WithArgs(int64(7)).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(deleteByCustomerSQL).WithArgs(int64(9)).WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := s.DeleteByOffer(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = s.DeleteByCustomer(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
