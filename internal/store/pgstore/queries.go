package pgstore

import (
	"fmt"
	"strings"

	"promoadmin/internal/promotion"
	"promoadmin/internal/store"
)

var (
	mapping = promotion.OfferCustomerMapping

	columns = strings.Join([]string{
		promotion.OfferCustomerIDColumn, promotion.OfferCodeIDColumn, promotion.CustomerIDColumn,
	}, ", ")

	insertSQL = fmt.Sprintf("INSERT INTO %s (%s, %s) VALUES ($1, $2) RETURNING %s",
		mapping.Table, promotion.OfferCodeIDColumn, promotion.CustomerIDColumn, mapping.IDColumn)

	updateSQL = fmt.Sprintf("UPDATE %s SET %s = $1, %s = $2 WHERE %s = $3",
		mapping.Table, promotion.OfferCodeIDColumn, promotion.CustomerIDColumn, mapping.IDColumn)

	getSQL = fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1", columns, mapping.Table, mapping.IDColumn)

	deleteSQL = fmt.Sprintf("DELETE FROM %s WHERE %s = $1", mapping.Table, mapping.IDColumn)

	deleteByOfferSQL = fmt.Sprintf("DELETE FROM %s WHERE %s = $1", mapping.Table, promotion.OfferCodeIDColumn)

	deleteByCustomerSQL = fmt.Sprintf("DELETE FROM %s WHERE %s = $1", mapping.Table, promotion.CustomerIDColumn)
)

// whereClause строит WHERE по фильтру; аргументы нумеруются с $1.
func whereClause(f store.Filter) (string, []any) {
	var conds []string
	var args []any
	if f.OfferID != 0 {
		args = append(args, f.OfferID)
		conds = append(conds, fmt.Sprintf("%s = $%d", promotion.OfferCodeIDColumn, len(args)))
	}
	if f.CustomerID != 0 {
		args = append(args, f.CustomerID)
		conds = append(conds, fmt.Sprintf("%s = $%d", promotion.CustomerIDColumn, len(args)))
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func listSQL(f store.Filter) (count string, page string, args []any) {
	where, args := whereClause(f)
	count = fmt.Sprintf("SELECT COUNT(*) FROM %s%s", mapping.Table, where)
	page = fmt.Sprintf("SELECT %s FROM %s%s ORDER BY %s LIMIT $%d OFFSET $%d",
		columns, mapping.Table, where, mapping.IDColumn, len(args)+1, len(args)+2)
	return count, page, args
}

// nullable: 0 -> NULL
func nullable(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}
