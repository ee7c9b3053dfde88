package service

import (
	"context"
	"testing"
	"time"

	"Campus/dao"
	"Campus/models"
	"Campus/pkg/response"
	"Campus/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThreadListPinnedFirst(t *testing.T) {
	db := newTestDB(t)
	svc := newThreadService(db)
	ctx := context.Background()

	author := mustCreateUser(t, db, "作者", "a@example.com", models.RolePaid)

	old := &models.Thread{AuthorID: author.ID, Title: "旧置顶", Content: "x", Status: models.ThreadStatusOpen, Category: models.ThreadCategoryGeneral, IsPinned: true}
	require.NoError(t, db.Create(old).Error)
	// 置顶帖时间压旧，验证置顶优先于时间
	require.NoError(t, db.Model(old).UpdateColumn("updated_at", time.Now().Add(-48*time.Hour)).Error)

	fresh := &models.Thread{AuthorID: author.ID, Title: "新普通", Content: "x", Status: models.ThreadStatusOpen, Category: models.ThreadCategoryGeneral}
	require.NoError(t, db.Create(fresh).Error)

	resp, err := svc.List(ctx, dao.ThreadListFilter{Page: 1, PageSize: 20})
	require.NoError(t, err)
	require.Len(t, resp.Threads, 2)
	assert.Equal(t, "旧置顶", resp.Threads[0].Title)
	assert.Equal(t, "新普通", resp.Threads[1].Title)
	assert.Equal(t, author.ID, resp.Threads[0].Author.ID)
}

func TestThreadListLastActivityFromReplies(t *testing.T) {
	db := newTestDB(t)
	svc := newThreadService(db)
	ctx := context.Background()

	author := mustCreateUser(t, db, "作者", "a@example.com", models.RolePaid)
	thread := &models.Thread{AuthorID: author.ID, Title: "帖", Content: "x", Status: models.ThreadStatusOpen, Category: models.ThreadCategoryGeneral}
	require.NoError(t, db.Create(thread).Error)

	replyAt := time.Now().Add(2 * time.Hour).Truncate(time.Second)
	reply := &models.Reply{ThreadID: thread.ID, AuthorID: author.ID, Content: "r"}
	require.NoError(t, db.Create(reply).Error)
	require.NoError(t, db.Model(reply).UpdateColumn("created_at", replyAt).Error)

	resp, err := svc.List(ctx, dao.ThreadListFilter{Page: 1, PageSize: 20})
	require.NoError(t, err)
	require.Len(t, resp.Threads, 1)
	assert.WithinDuration(t, replyAt, resp.Threads[0].LastActivity, time.Second)
}

func TestThreadListFilters(t *testing.T) {
	db := newTestDB(t)
	svc := newThreadService(db)
	ctx := context.Background()

	author := mustCreateUser(t, db, "作者", "a@example.com", models.RolePaid)
	require.NoError(t, db.Create(&models.Thread{AuthorID: author.ID, Title: "Go 并发问题", Content: "x", Status: models.ThreadStatusOpen, Category: models.ThreadCategoryCourses}).Error)
	require.NoError(t, db.Create(&models.Thread{AuthorID: author.ID, Title: "闲聊", Content: "x", Status: models.ThreadStatusClosed, Category: models.ThreadCategoryGeneral}).Error)

	resp, err := svc.List(ctx, dao.ThreadListFilter{Category: models.ThreadCategoryCourses, Page: 1, PageSize: 20})
	require.NoError(t, err)
	require.EqualValues(t, 1, resp.Total)
	assert.Equal(t, "Go 并发问题", resp.Threads[0].Title)

	resp, err = svc.List(ctx, dao.ThreadListFilter{Search: "并发", Page: 1, PageSize: 20})
	require.NoError(t, err)
	require.EqualValues(t, 1, resp.Total)

	resp, err = svc.List(ctx, dao.ThreadListFilter{Status: models.ThreadStatusClosed, Page: 1, PageSize: 20})
	require.NoError(t, err)
	require.EqualValues(t, 1, resp.Total)
	assert.Equal(t, "闲聊", resp.Threads[0].Title)
}

func TestThreadDetailBumpsViewCount(t *testing.T) {
	db := newTestDB(t)
	svc := newThreadService(db)
	ctx := context.Background()

	author := mustCreateUser(t, db, "作者", "a@example.com", models.RolePaid)
	thread := &models.Thread{AuthorID: author.ID, Title: "帖", Content: "x", Status: models.ThreadStatusOpen, Category: models.ThreadCategoryGeneral}
	require.NoError(t, db.Create(thread).Error)

	detail, err := svc.GetDetail(ctx, thread.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, detail.ViewCount)

	detail, err = svc.GetDetail(ctx, thread.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, detail.ViewCount)
}

func TestThreadDetailNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newThreadService(db)

	_, err := svc.GetDetail(context.Background(), 404)
	var be *response.BizError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, 404, be.Code)
}

func TestThreadUpdateClearsCourseContext(t *testing.T) {
	db := newTestDB(t)
	svc := newThreadService(db)
	ctx := context.Background()

	author := mustCreateUser(t, db, "作者", "a@example.com", models.RolePaid)
	courseID := int64(7)
	thread := &models.Thread{AuthorID: author.ID, Title: "帖", Content: "x", Status: models.ThreadStatusOpen, Category: models.ThreadCategoryCourses, CourseID: &courseID}
	require.NoError(t, db.Create(thread).Error)

	err := svc.Update(ctx, author.ID, false, thread.ID, &types.UpdateThreadRequest{
		Title:              "改标题",
		Content:            "改内容",
		ClearCourseContext: true,
	})
	require.NoError(t, err)

	var got models.Thread
	require.NoError(t, db.First(&got, thread.ID).Error)
	assert.Equal(t, "改标题", got.Title)
	assert.Nil(t, got.CourseID)
}

func TestThreadUpdateForbiddenForStranger(t *testing.T) {
	db := newTestDB(t)
	svc := newThreadService(db)
	ctx := context.Background()

	author := mustCreateUser(t, db, "作者", "a@example.com", models.RolePaid)
	stranger := mustCreateUser(t, db, "路人", "s@example.com", models.RolePaid)
	thread := &models.Thread{AuthorID: author.ID, Title: "帖", Content: "x", Status: models.ThreadStatusOpen, Category: models.ThreadCategoryGeneral}
	require.NoError(t, db.Create(thread).Error)

	err := svc.Update(ctx, stranger.ID, false, thread.ID, &types.UpdateThreadRequest{Title: "t", Content: "c"})
	var be *response.BizError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, 403, be.Code)

	// 管理员放行
	require.NoError(t, svc.Update(ctx, stranger.ID, true, thread.ID, &types.UpdateThreadRequest{Title: "t", Content: "c"}))
}
