package models

import "time"

// SalesHistory is written exactly once per finalized bill and never mutated.
// The unique index on BillID backstops double finalization.
type SalesHistory struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	AdminUID    string      `gorm:"type:varchar(64);not null;index" json:"admin_uid"`
	BillID      uint        `gorm:"not null;uniqueIndex" json:"bill_id"`
	BillNumber  string      `gorm:"type:varchar(32);not null" json:"bill_number"`
	TotalAmount float64     `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	Items       []SalesItem `gorm:"foreignKey:SalesHistoryID" json:"items"`
	CreatedAt   time.Time   `gorm:"not null" json:"created_at"`
}

type SalesItem struct {
	ID             uint    `gorm:"primaryKey" json:"id"`
	SalesHistoryID uint    `gorm:"not null;index" json:"sales_history_id"`
	Name           string  `gorm:"type:varchar(255);not null" json:"name"`
	Price          float64 `gorm:"type:decimal(10,2);not null" json:"price"`
	Quantity       int     `gorm:"not null" json:"quantity"`
}
