package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"Campus/dao"
	"Campus/models"
	"Campus/pkg/log"
	"Campus/pkg/response"
	"Campus/types"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type IAdminThreadService interface {
	Update(ctx context.Context, threadID int64, req *types.AdminThreadUpdateRequest) error
	BulkAction(ctx context.Context, req *types.BulkActionRequest) (*types.BulkActionResponse, error)
	Stats(ctx context.Context) (*types.AdminThreadStatsResponse, error)
	UserActivity(ctx context.Context, page, pageSize int) (*types.UserActivityResponse, error)
}

type AdminThreadService struct {
	ThreadDAO *dao.ThreadDAO
	ReplyDAO  *dao.ReplyDAO
	UserDAO   *dao.UserDAO
}

var _ IAdminThreadService = (*AdminThreadService)(nil)

func (s *AdminThreadService) Update(ctx context.Context, threadID int64, req *types.AdminThreadUpdateRequest) error {
	if _, err := s.ThreadDAO.GetByID(ctx, threadID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound("帖子不存在")
		}
		return err
	}

	fields := map[string]interface{}{}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Content != nil {
		fields["content"] = *req.Content
	}
	if req.Category != nil {
		switch *req.Category {
		case models.ThreadCategoryCourses, models.ThreadCategoryPackages,
			models.ThreadCategoryGeneral, models.ThreadCategoryShowcase:
		default:
			return response.BadRequest("未知分类")
		}
		fields["category"] = *req.Category
	}
	if req.IsPinned != nil {
		fields["is_pinned"] = *req.IsPinned
	}
	if len(fields) == 0 {
		return nil
	}
	return s.ThreadDAO.UpdateFields(ctx, threadID, fields)
}

// BulkAction 逐条提交：不存在的 id 跳过不报错，单条失败只记日志，
// 不回滚已处理的条目。返回实际生效条数
func (s *AdminThreadService) BulkAction(ctx context.Context, req *types.BulkActionRequest) (*types.BulkActionResponse, error) {
	switch req.Action {
	case "close", "reopen", "delete", "pin", "unpin":
	default:
		return nil, response.BadRequest("不支持的批量操作: " + req.Action)
	}

	threads, err := s.ThreadDAO.ListByIDs(ctx, req.ThreadIDs)
	if err != nil {
		return nil, err
	}

	affected := 0
	for _, thread := range threads {
		var aerr error
		switch req.Action {
		case "close":
			aerr = s.ThreadDAO.UpdateFields(ctx, thread.ID, map[string]interface{}{
				"status": models.ThreadStatusClosed,
			})
		case "reopen":
			aerr = s.ThreadDAO.UpdateFields(ctx, thread.ID, map[string]interface{}{
				"status":         models.ThreadStatusOpen,
				"resolved_by_id": nil,
				"resolved_at":    nil,
			})
		case "delete":
			aerr = s.ThreadDAO.Delete(ctx, thread.ID)
		case "pin":
			aerr = s.ThreadDAO.UpdateFields(ctx, thread.ID, map[string]interface{}{
				"is_pinned": true,
			})
		case "unpin":
			aerr = s.ThreadDAO.UpdateFields(ctx, thread.ID, map[string]interface{}{
				"is_pinned": false,
			})
		}
		if aerr != nil {
			log.L.Warn("批量操作单条失败",
				zap.Int64("thread_id", thread.ID),
				zap.String("action", req.Action),
				zap.Error(aerr))
			continue
		}
		affected++
	}

	return &types.BulkActionResponse{Affected: affected, Action: req.Action}, nil
}

func (s *AdminThreadService) Stats(ctx context.Context) (*types.AdminThreadStatsResponse, error) {
	stats := &types.AdminThreadStatsResponse{}

	var err error
	if stats.TotalThreads, err = s.ThreadDAO.Count(ctx); err != nil {
		return nil, err
	}
	if stats.OpenThreads, err = s.ThreadDAO.CountByStatus(ctx, models.ThreadStatusOpen); err != nil {
		return nil, err
	}
	if stats.ResolvedThreads, err = s.ThreadDAO.CountByStatus(ctx, models.ThreadStatusResolved); err != nil {
		return nil, err
	}
	if stats.ClosedThreads, err = s.ThreadDAO.CountByStatus(ctx, models.ThreadStatusClosed); err != nil {
		return nil, err
	}
	if stats.TotalReplies, err = s.ReplyDAO.Count(ctx); err != nil {
		return nil, err
	}

	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if stats.ThreadsToday, err = s.ThreadDAO.CountSince(ctx, todayStart); err != nil {
		return nil, err
	}
	if stats.RepliesToday, err = s.ReplyDAO.CountSince(ctx, todayStart); err != nil {
		return nil, err
	}
	if stats.CategoryCounts, err = s.ThreadDAO.CategoryCounts(ctx); err != nil {
		return nil, err
	}

	topRows, err := s.ThreadDAO.TopAuthors(ctx, 5)
	if err != nil {
		return nil, err
	}
	stats.TopAuthors = make([]types.TopAuthorItem, 0, len(topRows))
	for _, r := range topRows {
		stats.TopAuthors = append(stats.TopAuthors, types.TopAuthorItem{
			ID:          r.ID,
			Name:        r.Name,
			ThreadCount: r.ThreadCount,
		})
	}

	return stats, nil
}

// UserActivity 用户活跃度：发帖、回复两侧各一条聚合 SQL，
// 内存合并后按最近活跃时间倒序分页
func (s *AdminThreadService) UserActivity(ctx context.Context, page, pageSize int) (*types.UserActivityResponse, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	threadAgg, err := s.ThreadDAO.AggByAuthor(ctx)
	if err != nil {
		return nil, err
	}
	replyAgg, err := s.ReplyDAO.AggByAuthor(ctx)
	if err != nil {
		return nil, err
	}

	merged := make(map[int64]*types.UserActivityItem)
	for _, r := range threadAgg {
		merged[r.AuthorID] = &types.UserActivityItem{
			UserID:       r.AuthorID,
			ThreadCount:  r.Cnt,
			LastActivity: r.Last,
		}
	}
	for _, r := range replyAgg {
		item, ok := merged[r.AuthorID]
		if !ok {
			item = &types.UserActivityItem{UserID: r.AuthorID}
			merged[r.AuthorID] = item
		}
		item.ReplyCount = r.Cnt
		item.SolutionCount = r.Solutions
		if r.Last != nil && (item.LastActivity == nil || r.Last.After(*item.LastActivity)) {
			item.LastActivity = r.Last
		}
	}

	userIDs := make([]int64, 0, len(merged))
	for id := range merged {
		userIDs = append(userIDs, id)
	}
	users, err := s.UserDAO.BatchGetByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	items := make([]types.UserActivityItem, 0, len(merged))
	for id, item := range merged {
		if u, ok := users[id]; ok {
			item.UserName = u.Name
		}
		items = append(items, *item)
	}
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i].LastActivity, items[j].LastActivity
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		if !a.Equal(*b) {
			return a.After(*b)
		}
		return items[i].UserID < items[j].UserID
	})

	total := int64(len(items))
	start := (page - 1) * pageSize
	if start > len(items) {
		start = len(items)
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}

	return &types.UserActivityResponse{Users: items[start:end], Total: total}, nil
}
