package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/smmpanel/backend/internal/domain/ordering"
)

// OrderModel is the persistence model for the Order aggregate.
// Cost is stored as bigint minor units.
type OrderModel struct {
	AggregateModel
	UserID            uuid.UUID            `gorm:"type:uuid;not null;index:idx_orders_user"`
	ServiceID         uuid.UUID            `gorm:"type:uuid;not null;index"`
	ProviderServiceID int                  `gorm:"not null"`
	ProviderOrderID   string               `gorm:"type:varchar(50);not null;index:idx_orders_provider_order_id"`
	Link              string               `gorm:"type:text;not null"`
	Quantity          int                  `gorm:"not null"`
	Cost              int64                `gorm:"type:bigint;not null"`
	Status            ordering.OrderStatus `gorm:"type:varchar(20);not null;default:'Pending';index:idx_orders_status"`
	Charge            string               `gorm:"type:varchar(50)"`
	StartCount        int                  `gorm:"not null;default:0"`
	Remains           int                  `gorm:"not null;default:0"`
	LastSyncedAt      *time.Time           `gorm:"type:timestamptz"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order aggregate.
func (m *OrderModel) ToDomain() *ordering.Order {
	return &ordering.Order{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		UserID:            m.UserID,
		ServiceID:         m.ServiceID,
		ProviderServiceID: m.ProviderServiceID,
		ProviderOrderID:   m.ProviderOrderID,
		Link:              m.Link,
		Quantity:          m.Quantity,
		Cost:              m.Cost,
		Status:            m.Status,
		Charge:            m.Charge,
		StartCount:        m.StartCount,
		Remains:           m.Remains,
		LastSyncedAt:      m.LastSyncedAt,
	}
}

// FromDomain populates the persistence model from a domain Order aggregate.
func (m *OrderModel) FromDomain(o *ordering.Order) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.UserID = o.UserID
	m.ServiceID = o.ServiceID
	m.ProviderServiceID = o.ProviderServiceID
	m.ProviderOrderID = o.ProviderOrderID
	m.Link = o.Link
	m.Quantity = o.Quantity
	m.Cost = o.Cost
	m.Status = o.Status
	m.Charge = o.Charge
	m.StartCount = o.StartCount
	m.Remains = o.Remains
	m.LastSyncedAt = o.LastSyncedAt
}

// OrderModelFromDomain creates a new persistence model from a domain Order aggregate.
func OrderModelFromDomain(o *ordering.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}
