package presentation

import (
	"fmt"
	"strings"
)

type SchemaIssue struct {
	Entity  string `json:"entity"`
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Lint ищет подозрительные, но допустимые сочетания атрибутов. Не блокирует загрузку.
func (r *Registry) Lint() []SchemaIssue {
	var issues []SchemaIssue
	for _, d := range r.All() {
		m := d.Metadata
		add := func(code, msg string) {
			issues = append(issues, SchemaIssue{Entity: d.Entity, Field: d.Field, Code: code, Message: msg})
		}

		if m.Excluded && strings.TrimSpace(m.SecurityLevel) != "" {
			add("security_on_excluded", "securityLevel has no effect on an excluded collection")
		}
		for i, c := range m.CustomCriteria {
			if strings.TrimSpace(c) == "" {
				add("criteria_blank", fmt.Sprintf("customCriteria[%d] is blank", i))
			}
		}
		if m.AddType == AddPersist && strings.TrimSpace(m.ManyToField) == "" {
			add("many_to_field_missing", "persist collections need manyToField to link new items to the parent")
		}
		if !m.Mutable && (m.OperationTypes.Add != OpBasic || m.OperationTypes.Remove != OpBasic) {
			add("ops_on_readonly", "add/remove operation types are ignored on an immutable collection")
		}
	}
	return issues
}
