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
	"gorm.io/gorm"
)

func newAdminThreadService(db *gorm.DB) *AdminThreadService {
	return &AdminThreadService{
		ThreadDAO: dao.NewThreadDAO(db),
		ReplyDAO:  dao.NewReplyDAO(db),
		UserDAO:   dao.NewUserDAO(db),
	}
}

func TestBulkActionSkipsMissingIDs(t *testing.T) {
	db := newTestDB(t)
	svc := newAdminThreadService(db)
	ctx := context.Background()

	author := mustCreateUser(t, db, "作者", "a@example.com", models.RolePaid)
	t1 := &models.Thread{AuthorID: author.ID, Title: "一", Content: "x", Status: models.ThreadStatusOpen, Category: models.ThreadCategoryGeneral}
	t2 := &models.Thread{AuthorID: author.ID, Title: "二", Content: "x", Status: models.ThreadStatusOpen, Category: models.ThreadCategoryGeneral}
	require.NoError(t, db.Create(t1).Error)
	require.NoError(t, db.Create(t2).Error)

	// 夹一个不存在的 id，只生效两条
	resp, err := svc.BulkAction(ctx, &types.BulkActionRequest{
		ThreadIDs: []int64{t1.ID, 99999, t2.ID},
		Action:    "close",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Affected)

	// First 会把已填充的主键并进查询条件，目标结构体每次用新的
	var g1, g2 models.Thread
	require.NoError(t, db.First(&g1, t1.ID).Error)
	assert.Equal(t, models.ThreadStatusClosed, g1.Status)
	require.NoError(t, db.First(&g2, t2.ID).Error)
	assert.Equal(t, models.ThreadStatusClosed, g2.Status)
}

func TestBulkActionUnknownAction(t *testing.T) {
	db := newTestDB(t)
	svc := newAdminThreadService(db)

	_, err := svc.BulkAction(context.Background(), &types.BulkActionRequest{
		ThreadIDs: []int64{1},
		Action:    "explode",
	})
	var be *response.BizError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, 400, be.Code)
}

func TestBulkDeleteRemovesReplies(t *testing.T) {
	db := newTestDB(t)
	svc := newAdminThreadService(db)
	ctx := context.Background()

	author := mustCreateUser(t, db, "作者", "a@example.com", models.RolePaid)
	thread := &models.Thread{AuthorID: author.ID, Title: "删我", Content: "x", Status: models.ThreadStatusOpen, Category: models.ThreadCategoryGeneral}
	require.NoError(t, db.Create(thread).Error)
	require.NoError(t, db.Create(&models.Reply{ThreadID: thread.ID, AuthorID: author.ID, Content: "r"}).Error)

	resp, err := svc.BulkAction(ctx, &types.BulkActionRequest{
		ThreadIDs: []int64{thread.ID},
		Action:    "delete",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Affected)

	var threads, replies int64
	require.NoError(t, db.Model(&models.Thread{}).Count(&threads).Error)
	require.NoError(t, db.Model(&models.Reply{}).Count(&replies).Error)
	assert.EqualValues(t, 0, threads)
	assert.EqualValues(t, 0, replies)
}

func TestAdminStats(t *testing.T) {
	db := newTestDB(t)
	svc := newAdminThreadService(db)
	ctx := context.Background()

	author := mustCreateUser(t, db, "作者", "a@example.com", models.RolePaid)
	require.NoError(t, db.Create(&models.Thread{AuthorID: author.ID, Title: "一", Content: "x", Status: models.ThreadStatusOpen, Category: models.ThreadCategoryGeneral}).Error)
	require.NoError(t, db.Create(&models.Thread{AuthorID: author.ID, Title: "二", Content: "x", Status: models.ThreadStatusResolved, Category: models.ThreadCategoryCourses}).Error)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalThreads)
	assert.EqualValues(t, 1, stats.OpenThreads)
	assert.EqualValues(t, 1, stats.ResolvedThreads)
	assert.EqualValues(t, 2, stats.ThreadsToday)
	assert.EqualValues(t, 1, stats.CategoryCounts[models.ThreadCategoryGeneral])
	require.Len(t, stats.TopAuthors, 1)
	assert.Equal(t, "作者", stats.TopAuthors[0].Name)
	assert.EqualValues(t, 2, stats.TopAuthors[0].ThreadCount)
}

func TestUserActivityMergesBothSides(t *testing.T) {
	db := newTestDB(t)
	svc := newAdminThreadService(db)
	ctx := context.Background()

	poster := mustCreateUser(t, db, "发帖人", "p@example.com", models.RolePaid)
	replier := mustCreateUser(t, db, "回帖人", "r@example.com", models.RolePaid)

	thread := &models.Thread{AuthorID: poster.ID, Title: "一", Content: "x", Status: models.ThreadStatusOpen, Category: models.ThreadCategoryGeneral}
	require.NoError(t, db.Create(thread).Error)
	require.NoError(t, db.Create(&models.Reply{ThreadID: thread.ID, AuthorID: replier.ID, Content: "r", IsSolution: true}).Error)

	resp, err := svc.UserActivity(ctx, 1, 20)
	require.NoError(t, err)
	require.EqualValues(t, 2, resp.Total)

	byID := map[int64]types.UserActivityItem{}
	for _, u := range resp.Users {
		byID[u.UserID] = u
	}
	assert.EqualValues(t, 1, byID[poster.ID].ThreadCount)
	assert.EqualValues(t, 0, byID[poster.ID].ReplyCount)
	assert.EqualValues(t, 1, byID[replier.ID].ReplyCount)
	assert.EqualValues(t, 1, byID[replier.ID].SolutionCount)
	assert.Equal(t, "回帖人", byID[replier.ID].UserName)
}
