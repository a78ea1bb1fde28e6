package models

import "time"

const (
	OrderStatusActive    = "active"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// Order is append-mostly: created once on placement, after that only item
// statuses or OrderStatus change. Never deleted.
type Order struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	AdminUID    string      `gorm:"type:varchar(64);not null;index" json:"admin_uid"`
	TableNumber int         `gorm:"not null;index" json:"table_number"`
	SessionID   string      `gorm:"type:varchar(100);not null;index" json:"session_id"`
	OrderStatus string      `gorm:"type:varchar(20);not null;default:'active'" json:"order_status"`
	Items       []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt   time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time   `gorm:"not null" json:"updated_at"`
}

func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusActive, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}
