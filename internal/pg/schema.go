package pg

import (
	"fmt"
	"strings"

	"promoadmin/internal/promotion"
)

type OnDeletePolicy string

const (
	OnDeleteRestrict OnDeletePolicy = "RESTRICT"
	OnDeleteSetNull  OnDeletePolicy = "SET NULL"
	OnDeleteCascade  OnDeletePolicy = "CASCADE"
)

// ParseOnDelete: restrict|set_null|cascade, иначе restrict.
func ParseOnDelete(s string) OnDeletePolicy {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "set_null":
		return OnDeleteSetNull
	case "cascade":
		return OnDeleteCascade
	default:
		return OnDeleteRestrict
	}
}

type DDLOptions struct {
	// UniquePairs добавляет уникальный индекс по всем join-колонкам.
	UniquePairs bool
	// ForeignKeys включает FK на внешние таблицы; они должны уже существовать.
	ForeignKeys bool
	OnDelete    OnDeletePolicy
}

// Идентификаторы пишем без кавычек: Postgres приводит их к нижнему регистру,
// так же как и исходная схема.
func indexName(table string, parts ...string) string {
	return strings.ToLower(table + "_" + strings.Join(parts, "_"))
}

// GenerateDDL возвращает карту фаза -> SQL (таблицы и индексы, затем FK).
func GenerateDDL(mappings []promotion.Mapping, opts DDLOptions) (map[string]string, error) {
	out := make(map[string]string, 1+2*len(mappings))
	if opts.OnDelete == "" {
		opts.OnDelete = OnDeleteRestrict
	}

	// --- Phase A: tables + indexes ---
	var phaseA strings.Builder
	seen := map[string]struct{}{}

	for _, m := range mappings {
		if strings.TrimSpace(m.Table) == "" || strings.TrimSpace(m.IDColumn) == "" {
			return nil, fmt.Errorf("%s: table and id column are required", m.Entity)
		}
		tkey := strings.ToLower(m.Table)
		if _, dup := seen[tkey]; dup {
			return nil, fmt.Errorf("%s: table %s mapped twice", m.Entity, m.Table)
		}
		seen[tkey] = struct{}{}

		cols := []string{fmt.Sprintf("%s bigserial primary key", m.IDColumn)}
		colSeen := map[string]struct{}{strings.ToLower(m.IDColumn): {}}
		joinCols := make([]string, 0, len(m.Joins))
		for _, j := range m.Joins {
			if _, dup := colSeen[strings.ToLower(j.Column)]; dup {
				return nil, fmt.Errorf("%s.%s: column %s duplicates another column", m.Entity, j.Field, j.Column)
			}
			colSeen[strings.ToLower(j.Column)] = struct{}{}
			cols = append(cols, fmt.Sprintf("%s bigint null", j.Column))
			joinCols = append(joinCols, j.Column)
		}

		fmt.Fprintf(&phaseA, "create table if not exists %s (\n  %s\n);\n", m.Table, strings.Join(cols, ",\n  "))
		for _, j := range m.Joins {
			fmt.Fprintf(&phaseA, "create index if not exists %s on %s(%s);\n",
				indexName(m.Table, j.Column, "idx"), m.Table, j.Column)
		}
		if opts.UniquePairs && len(joinCols) > 1 {
			fmt.Fprintf(&phaseA, "create unique index if not exists %s on %s(%s);\n",
				indexName(m.Table, "pair", "uq"), m.Table, strings.Join(joinCols, ", "))
		}

		// --- Phase B: FK (после всех таблиц), по одному на ключ,
		// чтобы 42710 на одном не отменял остальные ---
		if opts.ForeignKeys {
			for _, j := range m.Joins {
				if j.RefTable == "" || j.RefColumn == "" {
					continue
				}
				name := indexName(m.Table, j.Column, "fk")
				out["200_"+name] = fmt.Sprintf(
					"alter table %s add constraint %s foreign key (%s) references %s(%s) on delete %s;",
					m.Table, name, j.Column, j.RefTable, j.RefColumn, opts.OnDelete)
			}
		}
	}

	out["000_tables"] = phaseA.String()
	return out, nil
}
