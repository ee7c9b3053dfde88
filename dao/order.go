package dao

import (
	"context"

	"Campus/models"

	"gorm.io/gorm"
)

type OrderDAO struct {
	db *gorm.DB
}

func NewOrderDAO(db *gorm.DB) *OrderDAO {
	return &OrderDAO{db: db}
}

func (d *OrderDAO) ListActivePackages(ctx context.Context) ([]models.Package, error) {
	var pkgs []models.Package
	err := d.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("price_total ASC").
		Find(&pkgs).Error
	return pkgs, err
}

func (d *OrderDAO) GetPackage(ctx context.Context, packageID int64) (*models.Package, error) {
	var pkg models.Package
	err := d.db.WithContext(ctx).Where("id = ?", packageID).First(&pkg).Error
	if err != nil {
		return nil, err
	}
	return &pkg, nil
}

func (d *OrderDAO) Create(ctx context.Context, order *models.Order) error {
	return d.db.WithContext(ctx).Create(order).Error
}

func (d *OrderDAO) GetBySn(ctx context.Context, orderSn string) (*models.Order, error) {
	var order models.Order
	err := d.db.WithContext(ctx).Where("order_sn = ?", orderSn).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// HasPaidOrder 用户是否已经买过该套餐（待支付或已支付都算占位）
func (d *OrderDAO) HasPaidOrder(ctx context.Context, userID, packageID int64) (bool, error) {
	var count int64
	err := d.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("user_id = ? AND package_id = ? AND status IN ?", userID, packageID,
			[]int8{models.OrderStatusPending, models.OrderStatusPaid}).
		Count(&count).Error
	return count > 0, err
}

func (d *OrderDAO) ListForUser(ctx context.Context, userID int64) ([]models.Order, error) {
	var orders []models.Order
	err := d.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}
