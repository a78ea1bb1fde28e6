package models

// BillSequence is the per-tenant monotonic counter behind bill numbers.
// It is incremented atomically in place so concurrent bill generation
// cannot mint duplicates.
type BillSequence struct {
	AdminUID string `gorm:"primaryKey;type:varchar(64)" json:"admin_uid"`
	Seq      int64  `gorm:"not null;default:0" json:"seq"`
}
