package service

import (
	"context"
	"testing"

	"Campus/dao"
	"Campus/models"
	"Campus/pkg/queue"
	"Campus/pkg/response"
	"Campus/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTicketService(db *gorm.DB, disp *fakeDispatcher) *TicketService {
	return &TicketService{
		TicketDAO:  dao.NewTicketDAO(db),
		UserDAO:    dao.NewUserDAO(db),
		Dispatcher: disp,
	}
}

func TestCreateTicketSeedsFirstMessage(t *testing.T) {
	db := newTestDB(t)
	svc := newTicketService(db, &fakeDispatcher{})
	ctx := context.Background()

	user := mustCreateUser(t, db, "用户", "u@example.com", models.RolePaid)

	detail, err := svc.Create(ctx, user.ID, &types.CreateTicketRequest{
		Subject:     "无法访问课程",
		Description: "打开就 403",
		Category:    models.TicketCategoryAccess,
	})
	require.NoError(t, err)
	assert.Equal(t, models.TicketStatusOpen, detail.Status)
	assert.Equal(t, models.TicketPriorityMedium, detail.Priority)
	require.Len(t, detail.Messages, 1)
	assert.Equal(t, "打开就 403", detail.Messages[0].Content)
	assert.False(t, detail.Messages[0].IsAdminReply)
}

func TestAdminReplyMovesTicketToInProgress(t *testing.T) {
	db := newTestDB(t)
	disp := &fakeDispatcher{}
	svc := newTicketService(db, disp)
	ctx := context.Background()

	user := mustCreateUser(t, db, "用户", "u@example.com", models.RolePaid)
	admin := mustCreateUser(t, db, "客服", "admin@example.com", models.RoleAdmin)

	detail, err := svc.Create(ctx, user.ID, &types.CreateTicketRequest{
		Subject:     "支付失败",
		Description: "扣款了没到账",
		Category:    models.TicketCategoryPayment,
	})
	require.NoError(t, err)

	msg, err := svc.AddMessage(ctx, admin.ID, true, detail.ID, &types.AddTicketMessageRequest{Content: "正在核实"})
	require.NoError(t, err)
	assert.True(t, msg.IsAdminReply)

	var got models.SupportTicket
	require.NoError(t, db.First(&got, detail.ID).Error)
	assert.Equal(t, models.TicketStatusInProgress, got.Status)

	// 提单人收到通知
	notifies := disp.byKind(queue.KindTicketReply)
	require.Len(t, notifies, 1)
	payload := notifies[0].Payload.(types.TicketReplyPayload)
	assert.Equal(t, user.ID, payload.RecipientID)
	assert.Equal(t, "支付失败", payload.Subject)

	// 用户自己追加不再变更状态、不发通知
	_, err = svc.AddMessage(ctx, user.ID, false, detail.ID, &types.AddTicketMessageRequest{Content: "好的"})
	require.NoError(t, err)
	require.NoError(t, db.First(&got, detail.ID).Error)
	assert.Equal(t, models.TicketStatusInProgress, got.Status)
	assert.Len(t, disp.byKind(queue.KindTicketReply), 1)
}

func TestTicketClosedRejectsMessages(t *testing.T) {
	db := newTestDB(t)
	svc := newTicketService(db, &fakeDispatcher{})
	ctx := context.Background()

	user := mustCreateUser(t, db, "用户", "u@example.com", models.RolePaid)
	detail, err := svc.Create(ctx, user.ID, &types.CreateTicketRequest{
		Subject:     "s",
		Description: "d",
		Category:    models.TicketCategoryOther,
	})
	require.NoError(t, err)

	require.NoError(t, svc.AdminUpdateStatus(ctx, detail.ID, models.TicketStatusClosed))

	_, err = svc.AddMessage(ctx, user.ID, false, detail.ID, &types.AddTicketMessageRequest{Content: "还在吗"})
	var be *response.BizError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, 409, be.Code)
}

func TestTicketCloseByOwner(t *testing.T) {
	db := newTestDB(t)
	svc := newTicketService(db, &fakeDispatcher{})
	ctx := context.Background()

	owner := mustCreateUser(t, db, "甲", "a@example.com", models.RolePaid)
	other := mustCreateUser(t, db, "乙", "b@example.com", models.RolePaid)

	detail, err := svc.Create(ctx, owner.ID, &types.CreateTicketRequest{
		Subject: "s", Description: "d", Category: models.TicketCategoryOther,
	})
	require.NoError(t, err)

	// 非提单人不能关
	err = svc.Close(ctx, other.ID, false, detail.ID)
	var be *response.BizError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, 403, be.Code)

	require.NoError(t, svc.Close(ctx, owner.ID, false, detail.ID))
	after, err := svc.GetDetail(ctx, owner.ID, false, detail.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TicketStatusClosed, after.Status)

	// 重复关闭报冲突
	err = svc.Close(ctx, owner.ID, false, detail.ID)
	require.ErrorAs(t, err, &be)
	assert.Equal(t, 409, be.Code)
}

func TestTicketDetailForbiddenForOtherUser(t *testing.T) {
	db := newTestDB(t)
	svc := newTicketService(db, &fakeDispatcher{})
	ctx := context.Background()

	owner := mustCreateUser(t, db, "甲", "a@example.com", models.RolePaid)
	other := mustCreateUser(t, db, "乙", "b@example.com", models.RolePaid)

	detail, err := svc.Create(ctx, owner.ID, &types.CreateTicketRequest{
		Subject: "s", Description: "d", Category: models.TicketCategoryOther,
	})
	require.NoError(t, err)

	_, err = svc.GetDetail(ctx, other.ID, false, detail.ID)
	var be *response.BizError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, 403, be.Code)

	// 管理员可见
	_, err = svc.GetDetail(ctx, other.ID, true, detail.ID)
	require.NoError(t, err)
}

func TestAdminTicketListAndStats(t *testing.T) {
	db := newTestDB(t)
	svc := newTicketService(db, &fakeDispatcher{})
	ctx := context.Background()

	user := mustCreateUser(t, db, "用户", "u@example.com", models.RolePaid)
	_, err := svc.Create(ctx, user.ID, &types.CreateTicketRequest{
		Subject: "支付问题", Description: "d1", Category: models.TicketCategoryPayment, Priority: models.TicketPriorityHigh,
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, user.ID, &types.CreateTicketRequest{
		Subject: "课程打不开", Description: "d2", Category: models.TicketCategoryAccess,
	})
	require.NoError(t, err)

	resp, err := svc.AdminList(ctx, dao.TicketListFilter{Category: models.TicketCategoryPayment})
	require.NoError(t, err)
	require.EqualValues(t, 1, resp.Total)
	assert.Equal(t, "支付问题", resp.Tickets[0].Subject)
	require.NotNil(t, resp.Tickets[0].LastMessage)
	assert.Equal(t, "d1", *resp.Tickets[0].LastMessage)

	resp, err = svc.AdminList(ctx, dao.TicketListFilter{Search: "课程"})
	require.NoError(t, err)
	require.EqualValues(t, 1, resp.Total)

	stats, err := svc.AdminStats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.Total)
	assert.EqualValues(t, 2, stats.StatusCounts[models.TicketStatusOpen])
	assert.EqualValues(t, 1, stats.CategoryCounts[models.TicketCategoryPayment])
}

func TestMyTicketsFilterByStatus(t *testing.T) {
	db := newTestDB(t)
	svc := newTicketService(db, &fakeDispatcher{})
	ctx := context.Background()

	user := mustCreateUser(t, db, "用户", "u@example.com", models.RolePaid)
	first, err := svc.Create(ctx, user.ID, &types.CreateTicketRequest{
		Subject: "一", Description: "d", Category: models.TicketCategoryOther,
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, user.ID, &types.CreateTicketRequest{
		Subject: "二", Description: "d", Category: models.TicketCategoryOther,
	})
	require.NoError(t, err)

	require.NoError(t, svc.AdminUpdateStatus(ctx, first.ID, models.TicketStatusResolved))

	resp, err := svc.ListMine(ctx, user.ID, models.TicketStatusResolved)
	require.NoError(t, err)
	require.EqualValues(t, 1, resp.Total)
	assert.Equal(t, "一", resp.Tickets[0].Subject)
}
