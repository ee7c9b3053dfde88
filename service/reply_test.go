package service

import (
	"context"
	"testing"

	"Campus/models"
	"Campus/pkg/queue"
	"Campus/pkg/response"
	"Campus/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddReplyRecountsAndNotifies(t *testing.T) {
	db := newTestDB(t)
	disp := &fakeDispatcher{}
	svc := newReplyService(db, disp)
	ctx := context.Background()

	author := mustCreateUser(t, db, "张三", "zhang@example.com", models.RolePaid)
	replier := mustCreateUser(t, db, "李四", "li@example.com", models.RolePaid)

	thread := &models.Thread{AuthorID: author.ID, Title: "求助", Content: "内容", Status: models.ThreadStatusOpen, Category: models.ThreadCategoryGeneral}
	require.NoError(t, db.Create(thread).Error)

	reply, err := svc.AddReply(ctx, replier.ID, thread.ID, &types.AddReplyRequest{Content: "回复一"})
	require.NoError(t, err)
	assert.Equal(t, thread.ID, reply.ThreadID)
	assert.Equal(t, replier.ID, reply.Author.ID)

	var got models.Thread
	require.NoError(t, db.First(&got, thread.ID).Error)
	assert.Equal(t, 1, got.ReplyCount)

	// 别人回帖通知作者，自己回帖不通知
	_, err = svc.AddReply(ctx, author.ID, thread.ID, &types.AddReplyRequest{Content: "自己补充"})
	require.NoError(t, err)

	notifies := disp.byKind(queue.KindThreadReply)
	require.Len(t, notifies, 1)
	payload := notifies[0].Payload.(types.ThreadReplyPayload)
	assert.Equal(t, author.ID, payload.RecipientID)
	assert.Equal(t, "李四", payload.AuthorName)

	require.NoError(t, db.First(&got, thread.ID).Error)
	assert.Equal(t, 2, got.ReplyCount)
}

func TestAddReplyClosedThreadConflict(t *testing.T) {
	db := newTestDB(t)
	svc := newReplyService(db, &fakeDispatcher{})
	ctx := context.Background()

	author := mustCreateUser(t, db, "张三", "zhang@example.com", models.RolePaid)
	thread := &models.Thread{AuthorID: author.ID, Title: "已关", Content: "x", Status: models.ThreadStatusClosed, Category: models.ThreadCategoryGeneral}
	require.NoError(t, db.Create(thread).Error)

	_, err := svc.AddReply(ctx, author.ID, thread.ID, &types.AddReplyRequest{Content: "还能回吗"})
	var be *response.BizError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, 409, be.Code)
}

func TestMarkSolutionSingleWinner(t *testing.T) {
	db := newTestDB(t)
	svc := newReplyService(db, &fakeDispatcher{})
	ctx := context.Background()

	author := mustCreateUser(t, db, "楼主", "lz@example.com", models.RolePaid)
	replier := mustCreateUser(t, db, "答主", "dz@example.com", models.RolePaid)

	thread := &models.Thread{AuthorID: author.ID, Title: "问题", Content: "x", Status: models.ThreadStatusOpen, Category: models.ThreadCategoryCourses}
	require.NoError(t, db.Create(thread).Error)

	r1 := &models.Reply{ThreadID: thread.ID, AuthorID: replier.ID, Content: "答案一"}
	r2 := &models.Reply{ThreadID: thread.ID, AuthorID: replier.ID, Content: "答案二"}
	require.NoError(t, db.Create(r1).Error)
	require.NoError(t, db.Create(r2).Error)

	// 采纳第一条
	require.NoError(t, svc.MarkSolution(ctx, author.ID, false, thread.ID, r1.ID))

	var got models.Thread
	require.NoError(t, db.First(&got, thread.ID).Error)
	assert.Equal(t, models.ThreadStatusResolved, got.Status)
	require.NotNil(t, got.ResolvedByID)
	assert.Equal(t, author.ID, *got.ResolvedByID)
	assert.NotNil(t, got.ResolvedAt)

	// 改采纳第二条后，第一条标记必须被清掉
	require.NoError(t, svc.MarkSolution(ctx, author.ID, false, thread.ID, r2.ID))

	var solutions []models.Reply
	require.NoError(t, db.Where("thread_id = ? AND is_solution = ?", thread.ID, true).Find(&solutions).Error)
	require.Len(t, solutions, 1)
	assert.Equal(t, r2.ID, solutions[0].ID)
}

func TestMarkSolutionForbiddenForStranger(t *testing.T) {
	db := newTestDB(t)
	svc := newReplyService(db, &fakeDispatcher{})
	ctx := context.Background()

	author := mustCreateUser(t, db, "楼主", "lz@example.com", models.RolePaid)
	stranger := mustCreateUser(t, db, "路人", "lr@example.com", models.RolePaid)

	thread := &models.Thread{AuthorID: author.ID, Title: "问题", Content: "x", Status: models.ThreadStatusOpen, Category: models.ThreadCategoryGeneral}
	require.NoError(t, db.Create(thread).Error)
	reply := &models.Reply{ThreadID: thread.ID, AuthorID: author.ID, Content: "a"}
	require.NoError(t, db.Create(reply).Error)

	err := svc.MarkSolution(ctx, stranger.ID, false, thread.ID, reply.ID)
	var be *response.BizError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, 403, be.Code)

	// 管理员可以
	require.NoError(t, svc.MarkSolution(ctx, stranger.ID, true, thread.ID, reply.ID))
}

func TestUnmarkSolutionReopens(t *testing.T) {
	db := newTestDB(t)
	svc := newReplyService(db, &fakeDispatcher{})
	ctx := context.Background()

	author := mustCreateUser(t, db, "楼主", "lz@example.com", models.RolePaid)
	thread := &models.Thread{AuthorID: author.ID, Title: "问题", Content: "x", Status: models.ThreadStatusOpen, Category: models.ThreadCategoryGeneral}
	require.NoError(t, db.Create(thread).Error)
	reply := &models.Reply{ThreadID: thread.ID, AuthorID: author.ID, Content: "a"}
	require.NoError(t, db.Create(reply).Error)

	require.NoError(t, svc.MarkSolution(ctx, author.ID, false, thread.ID, reply.ID))
	require.NoError(t, svc.UnmarkSolution(ctx, author.ID, false, thread.ID, reply.ID))

	var got models.Thread
	require.NoError(t, db.First(&got, thread.ID).Error)
	assert.Equal(t, models.ThreadStatusOpen, got.Status)
	assert.Nil(t, got.ResolvedByID)
	assert.Nil(t, got.ResolvedAt)

	// 重复撤销报冲突
	err := svc.UnmarkSolution(ctx, author.ID, false, thread.ID, reply.ID)
	var be *response.BizError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, 409, be.Code)
}

func TestUnmarkSolutionKeepsClosedThreadClosed(t *testing.T) {
	db := newTestDB(t)
	svc := newReplyService(db, &fakeDispatcher{})
	ctx := context.Background()

	author := mustCreateUser(t, db, "楼主", "lz@example.com", models.RolePaid)
	thread := &models.Thread{AuthorID: author.ID, Title: "问题", Content: "x", Status: models.ThreadStatusOpen, Category: models.ThreadCategoryGeneral}
	require.NoError(t, db.Create(thread).Error)
	reply := &models.Reply{ThreadID: thread.ID, AuthorID: author.ID, Content: "a"}
	require.NoError(t, db.Create(reply).Error)

	require.NoError(t, svc.MarkSolution(ctx, author.ID, false, thread.ID, reply.ID))

	// 管理员关闭后，楼主撤销采纳不能把帖子重开
	require.NoError(t, db.Model(&models.Thread{}).Where("id = ?", thread.ID).
		Update("status", models.ThreadStatusClosed).Error)

	require.NoError(t, svc.UnmarkSolution(ctx, author.ID, false, thread.ID, reply.ID))

	var got models.Thread
	require.NoError(t, db.First(&got, thread.ID).Error)
	assert.Equal(t, models.ThreadStatusClosed, got.Status)

	var sol models.Reply
	require.NoError(t, db.First(&sol, reply.ID).Error)
	assert.False(t, sol.IsSolution)
}

func TestDeleteSolutionReplyKeepsClosedThreadClosed(t *testing.T) {
	db := newTestDB(t)
	svc := newReplyService(db, &fakeDispatcher{})
	ctx := context.Background()

	author := mustCreateUser(t, db, "楼主", "lz@example.com", models.RolePaid)
	replier := mustCreateUser(t, db, "答主", "dz@example.com", models.RolePaid)

	thread := &models.Thread{AuthorID: author.ID, Title: "问题", Content: "x", Status: models.ThreadStatusOpen, Category: models.ThreadCategoryGeneral}
	require.NoError(t, db.Create(thread).Error)

	resp, err := svc.AddReply(ctx, replier.ID, thread.ID, &types.AddReplyRequest{Content: "答案"})
	require.NoError(t, err)
	require.NoError(t, svc.MarkSolution(ctx, author.ID, false, thread.ID, resp.ID))
	require.NoError(t, db.Model(&models.Thread{}).Where("id = ?", thread.ID).
		Update("status", models.ThreadStatusClosed).Error)

	require.NoError(t, svc.DeleteReply(ctx, replier.ID, false, thread.ID, resp.ID))

	var got models.Thread
	require.NoError(t, db.First(&got, thread.ID).Error)
	assert.Equal(t, models.ThreadStatusClosed, got.Status)
	assert.Equal(t, 0, got.ReplyCount)
}

func TestDeleteSolutionReplyReopensAndRecounts(t *testing.T) {
	db := newTestDB(t)
	svc := newReplyService(db, &fakeDispatcher{})
	ctx := context.Background()

	author := mustCreateUser(t, db, "楼主", "lz@example.com", models.RolePaid)
	replier := mustCreateUser(t, db, "答主", "dz@example.com", models.RolePaid)

	thread := &models.Thread{AuthorID: author.ID, Title: "问题", Content: "x", Status: models.ThreadStatusOpen, Category: models.ThreadCategoryGeneral}
	require.NoError(t, db.Create(thread).Error)

	resp, err := svc.AddReply(ctx, replier.ID, thread.ID, &types.AddReplyRequest{Content: "答案"})
	require.NoError(t, err)
	require.NoError(t, svc.MarkSolution(ctx, author.ID, false, thread.ID, resp.ID))

	require.NoError(t, svc.DeleteReply(ctx, replier.ID, false, thread.ID, resp.ID))

	var got models.Thread
	require.NoError(t, db.First(&got, thread.ID).Error)
	assert.Equal(t, models.ThreadStatusOpen, got.Status)
	assert.Equal(t, 0, got.ReplyCount)
	assert.Nil(t, got.ResolvedByID)
}
