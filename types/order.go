package types

import "time"

type CreateOrderRequest struct {
	PackageID int64 `json:"package_id,string" binding:"required"`
}

type OrderResponse struct {
	ID          int64      `json:"id"`
	OrderSn     string     `json:"order_sn"`
	PackageID   int64      `json:"package_id"`
	TotalAmount uint64     `json:"total_amount"`
	Status      int8       `json:"status"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type PackageListItem struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Slug       string `json:"slug"`
	PriceTotal uint64 `json:"price_total"`
}
