package service

import (
	"context"
	"errors"
	"strings"

	"Campus/dao"
	"Campus/models"
	"Campus/pkg/response"
	"Campus/types"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type IOrderService interface {
	ListPackages(ctx context.Context) ([]types.PackageListItem, error)
	Create(ctx context.Context, userID int64, req *types.CreateOrderRequest) (*types.OrderResponse, error)
	ListMine(ctx context.Context, userID int64) ([]types.OrderResponse, error)
}

type OrderService struct {
	OrderDAO *dao.OrderDAO
}

var _ IOrderService = (*OrderService)(nil)

func (s *OrderService) ListPackages(ctx context.Context) ([]types.PackageListItem, error) {
	pkgs, err := s.OrderDAO.ListActivePackages(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]types.PackageListItem, 0, len(pkgs))
	for _, p := range pkgs {
		items = append(items, types.PackageListItem{
			ID:         p.ID,
			Name:       p.Name,
			Slug:       p.Slug,
			PriceTotal: p.PriceTotal,
		})
	}
	return items, nil
}

// Create 下单。同一套餐已有未取消订单时拒绝重复购买
func (s *OrderService) Create(ctx context.Context, userID int64, req *types.CreateOrderRequest) (*types.OrderResponse, error) {
	pkg, err := s.OrderDAO.GetPackage(ctx, req.PackageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NotFound("套餐不存在")
		}
		return nil, err
	}
	if !pkg.IsActive {
		return nil, response.NotFound("套餐不存在")
	}

	exists, err := s.OrderDAO.HasPaidOrder(ctx, userID, req.PackageID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, response.Conflict("该套餐已购买")
	}

	order := &models.Order{
		OrderSn:     strings.ReplaceAll(uuid.NewString(), "-", ""),
		UserID:      userID,
		PackageID:   req.PackageID,
		TotalAmount: pkg.PriceTotal,
		Status:      models.OrderStatusPending,
	}
	if err := s.OrderDAO.Create(ctx, order); err != nil {
		return nil, err
	}
	return orderResponse(order), nil
}

func (s *OrderService) ListMine(ctx context.Context, userID int64) ([]types.OrderResponse, error) {
	orders, err := s.OrderDAO.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	items := make([]types.OrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, *orderResponse(&orders[i]))
	}
	return items, nil
}

func orderResponse(o *models.Order) *types.OrderResponse {
	return &types.OrderResponse{
		ID:          o.ID,
		OrderSn:     o.OrderSn,
		PackageID:   o.PackageID,
		TotalAmount: o.TotalAmount,
		Status:      o.Status,
		CreatedAt:   o.CreatedAt,
	}
}
