package presentation

// Override: частичная замена метаданных коллекции по configurationKey.
// Применяются только заданные атрибуты.
type Override struct {
	FriendlyName      *string         `yaml:"friendlyName,omitempty"`
	SecurityLevel     *string         `yaml:"securityLevel,omitempty"`
	Excluded          *bool           `yaml:"excluded,omitempty"`
	Mutable           *bool           `yaml:"mutable,omitempty"`
	AddType           *AddMethodType  `yaml:"addType,omitempty"`
	ManyToField       *string         `yaml:"manyToField,omitempty"`
	Order             *int            `yaml:"order,omitempty"`
	TargetUIElementID *string         `yaml:"targetUIElementId,omitempty"`
	DataSourceName    *string         `yaml:"dataSourceName,omitempty"`
	CustomCriteria    []string        `yaml:"customCriteria,omitempty"`
	OperationTypes    *OperationTypes `yaml:"operationTypes,omitempty"`
}

// Overrides: configurationKey -> field name -> override.
// Ключ поля "*" применяется ко всем коллекциям с этим configurationKey.
type Overrides map[string]map[string]Override

// Apply накладывает overrides для ключа: сначала "*", затем запись поля.
func (o Overrides) Apply(key, field string, m CollectionMetadata) CollectionMetadata {
	byField, ok := o[key]
	if !ok {
		return m
	}
	if ov, ok := byField["*"]; ok {
		m = ov.apply(m)
	}
	if ov, ok := byField[field]; ok {
		m = ov.apply(m)
	}
	return m
}

func (ov Override) apply(m CollectionMetadata) CollectionMetadata {
	if ov.FriendlyName != nil {
		m.FriendlyName = *ov.FriendlyName
	}
	if ov.SecurityLevel != nil {
		m.SecurityLevel = *ov.SecurityLevel
	}
	if ov.Excluded != nil {
		m.Excluded = Bool(*ov.Excluded)
	}
	if ov.Mutable != nil {
		m.Mutable = Bool(*ov.Mutable)
	}
	if ov.AddType != nil {
		m.AddType = *ov.AddType
	}
	if ov.ManyToField != nil {
		m.ManyToField = *ov.ManyToField
	}
	if ov.Order != nil {
		m.Order = Int(*ov.Order)
	}
	if ov.TargetUIElementID != nil {
		m.TargetUIElementID = *ov.TargetUIElementID
	}
	if ov.DataSourceName != nil {
		m.DataSourceName = *ov.DataSourceName
	}
	if ov.CustomCriteria != nil {
		m.CustomCriteria = append([]string{}, ov.CustomCriteria...)
	}
	if ov.OperationTypes != nil {
		m.OperationTypes = ov.OperationTypes.mergeInto(m.OperationTypes)
	}
	return m
}

// mergeInto заменяет только заданные (непустые) операции.
func (o OperationTypes) mergeInto(base OperationTypes) OperationTypes {
	pick := func(ov, cur OperationType) OperationType {
		if ov != "" {
			return ov
		}
		return cur
	}
	base.Add = pick(o.Add, base.Add)
	base.Fetch = pick(o.Fetch, base.Fetch)
	base.Inspect = pick(o.Inspect, base.Inspect)
	base.Remove = pick(o.Remove, base.Remove)
	base.Update = pick(o.Update, base.Update)
	return base
}
