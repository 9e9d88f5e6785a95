package presentation

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	ErrInvalidDeclaration  = errors.New("invalid collection declaration")
	ErrDuplicateCollection = errors.New("collection already registered")
	ErrDuplicateDataSource = errors.New("data source name already in use")
)

// Declaration привязывает метаданные к полю-коллекции сущности.
type Declaration struct {
	Entity       string             `yaml:"entity"`
	Field        string             `yaml:"field"`
	TargetEntity string             `yaml:"target,omitempty"`
	Metadata     CollectionMetadata `yaml:"metadata"`
}

// CollectionDescriptor: то, что получает слой отрисовки вместо рефлексии.
type CollectionDescriptor struct {
	Entity       string           `json:"entity"`
	Field        string           `json:"field"`
	TargetEntity string           `json:"target,omitempty"`
	FriendlyName string           `json:"friendlyName"`
	DataSource   string           `json:"dataSource"`
	Metadata     ResolvedMetadata `json:"metadata"`
}

// Key: "Entity.field".
func (d CollectionDescriptor) Key() string { return collectionKey(d.Entity, d.Field) }

// Allows сообщает, разрешён ли доступ при данном наборе прав.
// Коллекция без securityLevel доступна всем.
func (d CollectionDescriptor) Allows(perms []string) bool {
	lvl := strings.TrimSpace(d.Metadata.SecurityLevel)
	if lvl == "" {
		return true
	}
	for _, p := range perms {
		if strings.EqualFold(strings.TrimSpace(p), lvl) {
			return true
		}
	}
	return false
}

func collectionKey(entity, field string) string {
	return strings.ToLower(entity) + "." + field
}

// имена data source уникальны в пределах сущности
func dataSourceKey(entity, dataSource string) string {
	return strings.ToLower(entity) + "|" + dataSource
}

// Describe строит дескриптор без регистрации.
func Describe(d Declaration) (CollectionDescriptor, error) {
	entity := strings.TrimSpace(d.Entity)
	field := strings.TrimSpace(d.Field)
	if entity == "" || field == "" {
		return CollectionDescriptor{}, fmt.Errorf("%w: entity and field are required", ErrInvalidDeclaration)
	}
	if err := d.Metadata.Validate(); err != nil {
		return CollectionDescriptor{}, fmt.Errorf("%s.%s: %w", entity, field, err)
	}
	meta := d.Metadata.Resolve()

	friendly := meta.FriendlyName
	if friendly == "" {
		friendly = field
	}
	ds := meta.DataSourceName
	if ds == "" {
		ds = field + DataSourceSuffix
	}
	return CollectionDescriptor{
		Entity:       entity,
		Field:        field,
		TargetEntity: strings.TrimSpace(d.TargetEntity),
		FriendlyName: friendly,
		DataSource:   ds,
		Metadata:     meta,
	}, nil
}

// Registry хранит дескрипторы коллекций. Безопасен для конкурентного чтения.
type Registry struct {
	mu          sync.RWMutex
	byKey       map[string]CollectionDescriptor
	dataSources map[string]string // entity + data source -> key
	overrides   Overrides
}

func NewRegistry(overrides Overrides) *Registry {
	return &Registry{
		byKey:       make(map[string]CollectionDescriptor),
		dataSources: make(map[string]string),
		overrides:   overrides,
	}
}

// Register применяет override по configurationKey, валидирует объявление
// и возвращает готовый дескриптор.
func (r *Registry) Register(d Declaration) (CollectionDescriptor, error) {
	if key := strings.TrimSpace(d.Metadata.ConfigurationKey); key != "" {
		d.Metadata = r.overrides.Apply(key, strings.TrimSpace(d.Field), d.Metadata)
	}
	desc, err := Describe(d)
	if err != nil {
		return CollectionDescriptor{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := desc.Key()
	if _, exists := r.byKey[key]; exists {
		return CollectionDescriptor{}, fmt.Errorf("%w: %s.%s", ErrDuplicateCollection, desc.Entity, desc.Field)
	}
	dsKey := dataSourceKey(desc.Entity, desc.DataSource)
	if owner, taken := r.dataSources[dsKey]; taken {
		return CollectionDescriptor{}, fmt.Errorf("%w: %q (used by %s)", ErrDuplicateDataSource, desc.DataSource, owner)
	}
	r.byKey[key] = desc
	r.dataSources[dsKey] = key
	return desc, nil
}

// RegisterAll регистрирует объявления по порядку и останавливается на первой ошибке.
func (r *Registry) RegisterAll(decls []Declaration) error {
	for _, d := range decls {
		if _, err := r.Register(d); err != nil {
			return err
		}
	}
	return nil
}

// Lookup ищет коллекцию; имя сущности регистронезависимо, имя поля точное.
func (r *Registry) Lookup(entity, field string) (CollectionDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byKey[collectionKey(strings.TrimSpace(entity), strings.TrimSpace(field))]
	return d, ok
}

// ForEntity возвращает видимые (не excluded) коллекции сущности в порядке отображения.
func (r *Registry) ForEntity(entity string) []CollectionDescriptor {
	r.mu.RLock()
	out := make([]CollectionDescriptor, 0)
	for _, d := range r.byKey {
		if strings.EqualFold(d.Entity, entity) && !d.Metadata.Excluded {
			out = append(out, d)
		}
	}
	r.mu.RUnlock()
	sortDescriptors(out)
	return out
}

// All возвращает все дескрипторы, включая excluded.
func (r *Registry) All() []CollectionDescriptor {
	r.mu.RLock()
	out := make([]CollectionDescriptor, 0, len(r.byKey))
	for _, d := range r.byKey {
		out = append(out, d)
	}
	r.mu.RUnlock()
	sortDescriptors(out)
	return out
}

// ByCriteria: коллекции, которые передают серверу данный custom criterion.
func (r *Registry) ByCriteria(criterion string) []CollectionDescriptor {
	var out []CollectionDescriptor
	for _, d := range r.All() {
		for _, c := range d.Metadata.CustomCriteria {
			if c == criterion {
				out = append(out, d)
				break
			}
		}
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byKey)
}

// стабильно: сущность, order, имя поля
func sortDescriptors(ds []CollectionDescriptor) {
	sort.SliceStable(ds, func(i, j int) bool {
		a, b := ds[i], ds[j]
		if ea, eb := strings.ToLower(a.Entity), strings.ToLower(b.Entity); ea != eb {
			return ea < eb
		}
		if a.Metadata.Order != b.Metadata.Order {
			return a.Metadata.Order < b.Metadata.Order
		}
		return a.Field < b.Field
	})
}
