package models

import "time"

const (
	ItemStatusPending    = "pending"
	ItemStatusAccepted   = "accepted"
	ItemStatusProcessing = "processing"
	ItemStatusCompleted  = "completed"
	ItemStatusRejected   = "rejected"
)

// OrderItem is its own row so concurrent updates to different items of one
// order touch different rows instead of one array-valued column.
type OrderItem struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	OrderID    uint      `gorm:"not null;index" json:"order_id"`
	MenuItemID uint      `gorm:"not null" json:"menu_item_id"`
	Name       string    `gorm:"type:varchar(255);not null" json:"name"`
	Price      float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	Quantity   int       `gorm:"not null" json:"quantity"`
	Status     string    `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

func ValidItemStatus(s string) bool {
	switch s {
	case ItemStatusPending, ItemStatusAccepted, ItemStatusProcessing,
		ItemStatusCompleted, ItemStatusRejected:
		return true
	}
	return false
}

// Billable reports whether the item counts toward a bill.
func (oi OrderItem) Billable() bool {
	switch oi.Status {
	case ItemStatusAccepted, ItemStatusProcessing, ItemStatusCompleted:
		return true
	}
	return false
}
