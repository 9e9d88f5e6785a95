package promotion

// Mapping: явная схема хранения сущности: таблица, ключ и join-колонки.
// Имена совпадают с существующей схемой БД, менять их нельзя.
type Mapping struct {
	Entity   string
	Table    string
	IDColumn string
	Joins    []JoinColumn
}

// JoinColumn: many-to-one ссылка на другую таблицу.
type JoinColumn struct {
	Field     string // имя поля в Go
	Column    string
	RefTable  string
	RefColumn string
}

const (
	OfferCustomerTable    = "OFFER_CUSTOMER"
	OfferCustomerIDColumn = "OFFER_CUSTOMER_ID"
	OfferCodeIDColumn     = "OFFER_CODE_ID"
	CustomerIDColumn      = "CUSTOMER_ID"
)

// OfferCustomerMapping описывает OFFER_CUSTOMER. Ссылочные таблицы
// принадлежат внешней схеме (OFFER_CODE, CUSTOMER).
var OfferCustomerMapping = Mapping{
	Entity:   "OfferCustomer",
	Table:    OfferCustomerTable,
	IDColumn: OfferCustomerIDColumn,
	Joins: []JoinColumn{
		{Field: "offer", Column: OfferCodeIDColumn, RefTable: "OFFER_CODE", RefColumn: "OFFER_CODE_ID"},
		{Field: "customer", Column: CustomerIDColumn, RefTable: "CUSTOMER", RefColumn: "CUSTOMER_ID"},
	},
}

// Column возвращает колонку поля ("id", "offer", "customer").
func (m Mapping) Column(field string) (string, bool) {
	if field == "id" {
		return m.IDColumn, true
	}
	for _, j := range m.Joins {
		if j.Field == field {
			return j.Column, true
		}
	}
	return "", false
}
