package models

import "time"

// 订单状态
const (
	OrderStatusPending  int8 = 10 // 待支付
	OrderStatusPaid     int8 = 20 // 已支付
	OrderStatusCanceled int8 = 30 // 已取消
)

type Package struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name       string    `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Slug       string    `gorm:"column:slug;type:varchar(255);not null;uniqueIndex:idx_package_slug" json:"slug"`
	PriceTotal uint64    `gorm:"column:price_total;not null" json:"price_total"` // 单位：分
	IsActive   bool      `gorm:"column:is_active;not null" json:"is_active"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Package) TableName() string {
	return "packages"
}

// Order 订单主表。支付渠道对接在外部服务，这里只落订单记录
type Order struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderSn     string     `gorm:"column:order_sn;type:varchar(32);not null;uniqueIndex:idx_order_sn" json:"order_sn"`
	UserID      int64      `gorm:"column:user_id;not null;index:idx_order_user" json:"user_id"`
	PackageID   int64      `gorm:"column:package_id;not null" json:"package_id"`
	TotalAmount uint64     `gorm:"column:total_amount;not null" json:"total_amount"` // 单位：分
	Status      int8       `gorm:"column:status;not null;default:10" json:"status"`
	PaidAt      *time.Time `gorm:"column:paid_at" json:"paid_at"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}
