package service

import (
	"context"
	"testing"

	"Campus/dao"
	"Campus/models"
	"Campus/pkg/response"
	"Campus/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrderRejectsDuplicate(t *testing.T) {
	db := newTestDB(t)
	svc := &OrderService{OrderDAO: dao.NewOrderDAO(db)}
	ctx := context.Background()

	u := mustCreateUser(t, db, "买家", "buy@example.com", models.RolePaid)
	pkg := &models.Package{Name: "全栈套餐", Slug: "fullstack", PriceTotal: 99900, IsActive: true}
	require.NoError(t, db.Create(pkg).Error)

	order, err := svc.Create(ctx, u.ID, &types.CreateOrderRequest{PackageID: pkg.ID})
	require.NoError(t, err)
	assert.Len(t, order.OrderSn, 32)
	assert.EqualValues(t, 99900, order.TotalAmount)
	assert.Equal(t, models.OrderStatusPending, order.Status)

	_, err = svc.Create(ctx, u.ID, &types.CreateOrderRequest{PackageID: pkg.ID})
	var be *response.BizError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, 409, be.Code)
}

func TestCreateOrderInactivePackage(t *testing.T) {
	db := newTestDB(t)
	svc := &OrderService{OrderDAO: dao.NewOrderDAO(db)}
	ctx := context.Background()

	u := mustCreateUser(t, db, "买家", "buy@example.com", models.RolePaid)
	pkg := &models.Package{Name: "下架套餐", Slug: "retired", PriceTotal: 100, IsActive: false}
	require.NoError(t, db.Create(pkg).Error)

	_, err := svc.Create(ctx, u.ID, &types.CreateOrderRequest{PackageID: pkg.ID})
	var be *response.BizError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, 404, be.Code)
}

func TestListPackagesOnlyActive(t *testing.T) {
	db := newTestDB(t)
	svc := &OrderService{OrderDAO: dao.NewOrderDAO(db)}

	require.NoError(t, db.Create(&models.Package{Name: "在售", Slug: "live", PriceTotal: 200, IsActive: true}).Error)
	require.NoError(t, db.Create(&models.Package{Name: "下架", Slug: "dead", PriceTotal: 100, IsActive: false}).Error)

	items, err := svc.ListPackages(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "在售", items[0].Name)
}
