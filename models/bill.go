package models

import "time"

// Bill is created as a draft (IsFinal=false) and mutated exactly once, to
// IsFinal=true. Drafts for the same session may be superseded by newer drafts;
// bills are never deleted.
type Bill struct {
	ID                  uint       `gorm:"primaryKey" json:"id"`
	AdminUID            string     `gorm:"type:varchar(64);not null;index" json:"admin_uid"`
	TableNumber         int        `gorm:"not null" json:"table_number"`
	SessionID           string     `gorm:"type:varchar(100);not null;index" json:"session_id"`
	BillNumber          string     `gorm:"type:varchar(32);uniqueIndex;not null" json:"bill_number"`
	Items               []BillItem `gorm:"foreignKey:BillID" json:"items"`
	Subtotal            float64    `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	DiscountPct         float64    `gorm:"type:decimal(5,2);not null;default:0" json:"discount_pct"`
	DiscountAmount      float64    `gorm:"type:decimal(12,2);not null;default:0" json:"discount_amount"`
	ServiceChargePct    float64    `gorm:"type:decimal(5,2);not null;default:0" json:"service_charge_pct"`
	ServiceChargeAmount float64    `gorm:"type:decimal(12,2);not null;default:0" json:"service_charge_amount"`
	Total               float64    `gorm:"type:decimal(12,2);not null" json:"total"`
	PaymentMode         string     `gorm:"type:varchar(50)" json:"payment_mode"`
	IsFinal             bool       `gorm:"not null;default:false" json:"is_final"`
	CreatedAt           time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt           time.Time  `gorm:"not null" json:"updated_at"`
}

// BillItem snapshots a billable line at generation time; no per-item status.
type BillItem struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	BillID     uint    `gorm:"not null;index" json:"bill_id"`
	MenuItemID uint    `gorm:"not null" json:"menu_item_id"`
	Name       string  `gorm:"type:varchar(255);not null" json:"name"`
	Price      float64 `gorm:"type:decimal(10,2);not null" json:"price"`
	Quantity   int     `gorm:"not null" json:"quantity"`
}
