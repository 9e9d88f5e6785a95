package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
)

// Execer: то, что нужно ApplyDDL от *sql.DB.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// ApplyDDL выполняет фазы DDL в порядке ключей. Ожидается idempotent DDL
// (create ... if not exists); duplicate_object (42710) пропускается.
func ApplyDDL(ctx context.Context, db Execer, ddl map[string]string, log logrus.FieldLogger) error {
	keys := make([]string, 0, len(ddl))
	for k := range ddl {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	for _, k := range keys {
		sqlText := strings.TrimSpace(ddl[k])
		if sqlText == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, sqlText); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "42710" {
				log.WithFields(logrus.Fields{"phase": k, "constraint": pgErr.ConstraintName}).
					Info("DDL skipped (already exists)")
				continue
			}
			return fmt.Errorf("DDL apply failed (%s): %w", k, err)
		}
		log.WithField("phase", k).Debug("DDL applied")
	}
	return nil
}
