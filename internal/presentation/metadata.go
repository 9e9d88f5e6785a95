package presentation

import (
	"errors"
	"fmt"
	"strings"
)

// AddMethodType: как в коллекцию попадают новые элементы.
type AddMethodType string

const (
	AddLookup  AddMethodType = "lookup"  // выбор существующего через поиск
	AddPersist AddMethodType = "persist" // создание нового элемента
)

// OperationType: способ выполнения CRUD-операции над коллекцией.
type OperationType string

const (
	OpBasic                OperationType = "basic"
	OpNonDestructiveRemove OperationType = "nondestructiveremove"
	OpEntity               OperationType = "entity"
	OpForeignKey           OperationType = "foreignkey"
	OpJoinStructure        OperationType = "joinstructure"
	OpMapStructure         OperationType = "mapstructure"
)

const (
	DefaultOrder         = 99999
	DataSourceSuffix     = "AdvancedCollectionDS"
	defaultExcluded      = false
	defaultMutable       = true
	defaultOperationType = OpBasic
)

var (
	ErrAddTypeRequired      = errors.New("addType is required")
	ErrUnknownAddType       = errors.New("unknown addType")
	ErrUnknownOperationType = errors.New("unknown operation type")
)

func (t AddMethodType) valid() bool {
	switch t {
	case AddLookup, AddPersist:
		return true
	}
	return false
}

func (t OperationType) valid() bool {
	switch t {
	case OpBasic, OpNonDestructiveRemove, OpEntity, OpForeignKey, OpJoinStructure, OpMapStructure:
		return true
	}
	return false
}

// OperationTypes задаёт тип операции для add/fetch/inspect/remove/update.
// Пустое значение означает basic.
type OperationTypes struct {
	Add     OperationType `yaml:"add,omitempty" json:"add"`
	Fetch   OperationType `yaml:"fetch,omitempty" json:"fetch"`
	Inspect OperationType `yaml:"inspect,omitempty" json:"inspect"`
	Remove  OperationType `yaml:"remove,omitempty" json:"remove"`
	Update  OperationType `yaml:"update,omitempty" json:"update"`
}

func (o OperationTypes) resolve() OperationTypes {
	pick := func(t OperationType) OperationType {
		if t == "" {
			return defaultOperationType
		}
		return OperationType(strings.ToLower(string(t)))
	}
	return OperationTypes{
		Add:     pick(o.Add),
		Fetch:   pick(o.Fetch),
		Inspect: pick(o.Inspect),
		Remove:  pick(o.Remove),
		Update:  pick(o.Update),
	}
}

// CollectionMetadata описывает, как админка показывает и защищает поле-коллекцию
// (one-to-many / many-to-many) родительской сущности.
//
// Все атрибуты, кроме AddType, необязательны. Указатели отличают «не задано»
// от нулевого значения, чтобы значения по умолчанию подставлялись точно.
type CollectionMetadata struct {
	ConfigurationKey  string         `yaml:"configurationKey,omitempty"`
	FriendlyName      string         `yaml:"friendlyName,omitempty"`
	SecurityLevel     string         `yaml:"securityLevel,omitempty"`
	Excluded          *bool          `yaml:"excluded,omitempty"`
	Mutable           *bool          `yaml:"mutable,omitempty"`
	AddType           AddMethodType  `yaml:"addType"`
	ManyToField       string         `yaml:"manyToField,omitempty"`
	Order             *int           `yaml:"order,omitempty"`
	TargetUIElementID string         `yaml:"targetUIElementId,omitempty"`
	DataSourceName    string         `yaml:"dataSourceName,omitempty"`
	CustomCriteria    []string       `yaml:"customCriteria,omitempty"`
	OperationTypes    OperationTypes `yaml:"operationTypes,omitempty"`
}

// ResolvedMetadata: CollectionMetadata с подставленными значениями по умолчанию.
type ResolvedMetadata struct {
	ConfigurationKey  string         `json:"configurationKey"`
	FriendlyName      string         `json:"friendlyName"`
	SecurityLevel     string         `json:"securityLevel"`
	Excluded          bool           `json:"excluded"`
	Mutable           bool           `json:"mutable"`
	AddType           AddMethodType  `json:"addType"`
	ManyToField       string         `json:"manyToField"`
	Order             int            `json:"order"`
	TargetUIElementID string         `json:"targetUIElementId"`
	DataSourceName    string         `json:"dataSourceName"`
	CustomCriteria    []string       `json:"customCriteria"`
	OperationTypes    OperationTypes `json:"operationTypes"`
}

// Validate проверяет обязательный AddType и значения типов операций.
func (m CollectionMetadata) Validate() error {
	if strings.TrimSpace(string(m.AddType)) == "" {
		return ErrAddTypeRequired
	}
	if !AddMethodType(strings.ToLower(string(m.AddType))).valid() {
		return fmt.Errorf("%w: %q", ErrUnknownAddType, m.AddType)
	}
	ops := m.OperationTypes.resolve()
	for _, p := range []struct {
		name string
		t    OperationType
	}{
		{"add", ops.Add}, {"fetch", ops.Fetch}, {"inspect", ops.Inspect},
		{"remove", ops.Remove}, {"update", ops.Update},
	} {
		if !p.t.valid() {
			return fmt.Errorf("%w: %s=%q", ErrUnknownOperationType, p.name, p.t)
		}
	}
	return nil
}

// Resolve подставляет значения по умолчанию. Строки не трогает:
// пустые FriendlyName/DataSourceName остаются пустыми, подстановку по имени поля
// делает дескриптор.
func (m CollectionMetadata) Resolve() ResolvedMetadata {
	r := ResolvedMetadata{
		ConfigurationKey:  m.ConfigurationKey,
		FriendlyName:      m.FriendlyName,
		SecurityLevel:     m.SecurityLevel,
		Excluded:          defaultExcluded,
		Mutable:           defaultMutable,
		AddType:           AddMethodType(strings.ToLower(string(m.AddType))),
		ManyToField:       m.ManyToField,
		Order:             DefaultOrder,
		TargetUIElementID: m.TargetUIElementID,
		DataSourceName:    m.DataSourceName,
		CustomCriteria:    append([]string{}, m.CustomCriteria...),
		OperationTypes:    m.OperationTypes.resolve(),
	}
	if m.Excluded != nil {
		r.Excluded = *m.Excluded
	}
	if m.Mutable != nil {
		r.Mutable = *m.Mutable
	}
	if m.Order != nil {
		r.Order = *m.Order
	}
	return r
}

// Bool и Int: хелперы для литералов с указателями.
func Bool(v bool) *bool { return &v }
func Int(v int) *int    { return &v }
