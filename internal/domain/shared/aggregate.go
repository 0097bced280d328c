package shared

// BaseAggregateRoot extends BaseEntity with a version counter used for
// optimistic-lock conditional updates in the repositories.
type BaseAggregateRoot struct {
	BaseEntity
	Version int `gorm:"not null;default:1"`
}

// IncrementVersion bumps the version; repositories compare the previous
// value in their UPDATE ... WHERE version = ? clause.
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}

// NewBaseAggregateRoot creates a new base aggregate root
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity: NewBaseEntity(),
		Version:    1,
	}
}
