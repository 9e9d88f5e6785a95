// Package pgstore implements store.Store on PostgreSQL (pgx stdlib driver).
package pgstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"

	"promoadmin/internal/pg"
	"promoadmin/internal/promotion"
	"promoadmin/internal/store"
)

const uniqueViolation = "23505"

type Store struct {
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

// New оборачивает готовое соединение. Схему не трогает.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open открывает пул и, если migrate=true, применяет DDL из маппинга.
// Уникальность пары обеспечивает индекс, поэтому opts влияет только на DDL.
func Open(ctx context.Context, url string, pool pg.PoolConfig, opts store.Options, migrate bool, log logrus.FieldLogger) (*Store, error) {
	db, err := pg.Open(ctx, url, pool)
	if err != nil {
		return nil, err
	}
	if migrate {
		ddl, err := pg.GenerateDDL([]promotion.Mapping{promotion.OfferCustomerMapping}, pg.DDLOptions{
			UniquePairs: opts.UniquePairs,
		})
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		if err := pg.ApplyDDL(ctx, db, ddl, log); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return New(db), nil
}

func (s *Store) Close() error { return s.db.Close() }

func mapWriteErr(err error, oc *promotion.OfferCustomer) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: offer=%d customer=%d", store.ErrDuplicateLink, oc.OfferID(), oc.CustomerID())
	}
	return err
}

func (s *Store) Save(ctx context.Context, oc *promotion.OfferCustomer) error {
	id, ok := oc.ID()
	if !ok {
		var newID int64
		err := s.db.QueryRowContext(ctx, insertSQL, nullable(oc.OfferID()), nullable(oc.CustomerID())).Scan(&newID)
		if err != nil {
			return fmt.Errorf("insert offer customer: %w", mapWriteErr(err, oc))
		}
		oc.SetID(newID)
		return nil
	}

	res, err := s.db.ExecContext(ctx, updateSQL, nullable(oc.OfferID()), nullable(oc.CustomerID()), id)
	if err != nil {
		return fmt.Errorf("update offer customer %d: %w", id, mapWriteErr(err, oc))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update offer customer %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: id=%d", store.ErrNotFound, id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLink(sc scanner) (*promotion.OfferCustomer, error) {
	var (
		id                  int64
		offerID, customerID sql.NullInt64
	)
	if err := sc.Scan(&id, &offerID, &customerID); err != nil {
		return nil, err
	}
	return store.Hydrate(id, offerID.Int64, customerID.Int64), nil
}

func (s *Store) Get(ctx context.Context, id int64) (*promotion.OfferCustomer, error) {
	oc, err := scanLink(s.db.QueryRowContext(ctx, getSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id=%d", store.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get offer customer %d: %w", id, err)
	}
	return oc, nil
}

func (s *Store) List(ctx context.Context, f store.Filter) ([]*promotion.OfferCustomer, int, error) {
	f = store.NormalizePage(f)
	countSQL, pageSQL, args := listSQL(f)

	var total int
	if err := s.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count offer customers: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, pageSQL, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list offer customers: %w", err)
	}
	defer rows.Close()

	out := make([]*promotion.OfferCustomer, 0, f.Limit)
	for rows.Next() {
		oc, err := scanLink(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan offer customer: %w", err)
		}
		out = append(out, oc)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list offer customers: %w", err)
	}
	return out, total, nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	n, err := s.exec(ctx, deleteSQL, id)
	if err != nil {
		return fmt.Errorf("delete offer customer %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: id=%d", store.ErrNotFound, id)
	}
	return nil
}

func (s *Store) DeleteByOffer(ctx context.Context, offerID int64) (int, error) {
	n, err := s.exec(ctx, deleteByOfferSQL, offerID)
	if err != nil {
		return 0, fmt.Errorf("delete links of offer %d: %w", offerID, err)
	}
	return int(n), nil
}

func (s *Store) DeleteByCustomer(ctx context.Context, customerID int64) (int, error) {
	n, err := s.exec(ctx, deleteByCustomerSQL, customerID)
	if err != nil {
		return 0, fmt.Errorf("delete links of customer %d: %w", customerID, err)
	}
	return int(n), nil
}

func (s *Store) exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
