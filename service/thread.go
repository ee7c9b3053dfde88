package service

import (
	"context"
	"errors"
	"time"

	"Campus/dao"
	"Campus/models"
	"Campus/pkg/response"
	"Campus/types"

	"gorm.io/gorm"
)

type IThreadService interface {
	List(ctx context.Context, f dao.ThreadListFilter) (*types.ThreadListResponse, error)
	GetDetail(ctx context.Context, threadID int64) (*types.ThreadDetailResponse, error)
	Create(ctx context.Context, userID int64, req *types.CreateThreadRequest) (*types.ThreadDetailResponse, error)
	Update(ctx context.Context, userID int64, isAdmin bool, threadID int64, req *types.UpdateThreadRequest) error
	Delete(ctx context.Context, userID int64, isAdmin bool, threadID int64) error
	CategoryCounts(ctx context.Context) (map[string]int64, error)
}

type ThreadService struct {
	ThreadDAO *dao.ThreadDAO
	UserDAO   *dao.UserDAO
	CourseDAO *dao.CourseDAO
}

var _ IThreadService = (*ThreadService)(nil)

func (s *ThreadService) List(ctx context.Context, f dao.ThreadListFilter) (*types.ThreadListResponse, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PageSize <= 0 || f.PageSize > 100 {
		f.PageSize = 20
	}

	rows, total, err := s.ThreadDAO.List(ctx, f)
	if err != nil {
		return nil, err
	}

	// 一页的作者和课程上下文各用一条批量查询带出
	authorIDs := make([]int64, 0, len(rows))
	var courseIDs, moduleIDs, lessonIDs []int64
	for _, r := range rows {
		authorIDs = append(authorIDs, r.AuthorID)
		if r.CourseID != nil {
			courseIDs = append(courseIDs, *r.CourseID)
		}
		if r.ModuleID != nil {
			moduleIDs = append(moduleIDs, *r.ModuleID)
		}
		if r.LessonID != nil {
			lessonIDs = append(lessonIDs, *r.LessonID)
		}
	}

	authors, err := s.UserDAO.BatchGetByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	courseTitles, err := s.CourseDAO.CourseTitles(ctx, courseIDs)
	if err != nil {
		return nil, err
	}
	moduleTitles, err := s.CourseDAO.ModuleTitles(ctx, moduleIDs)
	if err != nil {
		return nil, err
	}
	lessonTitles, err := s.CourseDAO.LessonTitles(ctx, lessonIDs)
	if err != nil {
		return nil, err
	}

	items := make([]types.ThreadListItem, 0, len(rows))
	for _, r := range rows {
		item := types.ThreadListItem{
			ID:           r.ID,
			Title:        r.Title,
			Status:       r.Status,
			Category:     r.Category,
			IsPinned:     r.IsPinned,
			ReplyCount:   r.ReplyCount,
			ViewCount:    r.ViewCount,
			CreatedAt:    r.CreatedAt,
			UpdatedAt:    r.UpdatedAt,
			LastActivity: r.CreatedAt,
		}
		if r.LastReplyAt != nil && r.LastReplyAt.After(item.LastActivity) {
			item.LastActivity = *r.LastReplyAt
		}
		if u, ok := authors[r.AuthorID]; ok {
			item.Author = authorInfo(&u)
		}
		item.CourseTitle = lookupTitle(courseTitles, r.CourseID)
		item.ModuleTitle = lookupTitle(moduleTitles, r.ModuleID)
		item.LessonTitle = lookupTitle(lessonTitles, r.LessonID)
		items = append(items, item)
	}

	return &types.ThreadListResponse{Threads: items, Total: total}, nil
}

func (s *ThreadService) GetDetail(ctx context.Context, threadID int64) (*types.ThreadDetailResponse, error) {
	thread, err := s.ThreadDAO.GetDetail(ctx, threadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NotFound("帖子不存在")
		}
		return nil, err
	}

	// 浏览数异步语义：自增失败不影响详情返回
	_ = s.ThreadDAO.IncrViewCount(ctx, threadID)
	thread.ViewCount++

	return s.buildDetail(ctx, thread)
}

func (s *ThreadService) Create(ctx context.Context, userID int64, req *types.CreateThreadRequest) (*types.ThreadDetailResponse, error) {
	thread := &models.Thread{
		AuthorID: userID,
		Title:    req.Title,
		Content:  req.Content,
		Status:   models.ThreadStatusOpen,
		Category: req.Category,
		CourseID: req.CourseID,
		ModuleID: req.ModuleID,
		LessonID: req.LessonID,
	}
	if err := s.ThreadDAO.Create(ctx, thread); err != nil {
		return nil, err
	}

	created, err := s.ThreadDAO.GetDetail(ctx, thread.ID)
	if err != nil {
		return nil, err
	}
	return s.buildDetail(ctx, created)
}

func (s *ThreadService) Update(ctx context.Context, userID int64, isAdmin bool, threadID int64, req *types.UpdateThreadRequest) error {
	thread, err := s.ThreadDAO.GetByID(ctx, threadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound("帖子不存在")
		}
		return err
	}
	if err := ensureOwnerOrAdmin(thread.AuthorID, userID, isAdmin); err != nil {
		return err
	}

	fields := map[string]interface{}{
		"title":      req.Title,
		"content":    req.Content,
		"updated_at": time.Now(),
	}
	if req.ClearCourseContext {
		fields["course_id"] = nil
		fields["module_id"] = nil
		fields["lesson_id"] = nil
	} else {
		if req.CourseID != nil {
			fields["course_id"] = *req.CourseID
		}
		if req.ModuleID != nil {
			fields["module_id"] = *req.ModuleID
		}
		if req.LessonID != nil {
			fields["lesson_id"] = *req.LessonID
		}
	}
	return s.ThreadDAO.UpdateFields(ctx, threadID, fields)
}

func (s *ThreadService) Delete(ctx context.Context, userID int64, isAdmin bool, threadID int64) error {
	thread, err := s.ThreadDAO.GetByID(ctx, threadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound("帖子不存在")
		}
		return err
	}
	if err := ensureOwnerOrAdmin(thread.AuthorID, userID, isAdmin); err != nil {
		return err
	}
	return s.ThreadDAO.Delete(ctx, threadID)
}

func (s *ThreadService) CategoryCounts(ctx context.Context) (map[string]int64, error) {
	return s.ThreadDAO.CategoryCounts(ctx)
}

func (s *ThreadService) buildDetail(ctx context.Context, thread *models.Thread) (*types.ThreadDetailResponse, error) {
	detail := &types.ThreadDetailResponse{
		ID:         thread.ID,
		Title:      thread.Title,
		Content:    thread.Content,
		Status:     thread.Status,
		Category:   thread.Category,
		IsPinned:   thread.IsPinned,
		ReplyCount: thread.ReplyCount,
		ViewCount:  thread.ViewCount,
		CreatedAt:  thread.CreatedAt,
		UpdatedAt:  thread.UpdatedAt,
		ResolvedAt: thread.ResolvedAt,
		CourseID:   thread.CourseID,
		ModuleID:   thread.ModuleID,
		LessonID:   thread.LessonID,
	}
	if thread.Author != nil {
		detail.Author = authorInfo(thread.Author)
	}
	if thread.ResolvedBy != nil {
		info := authorInfo(thread.ResolvedBy)
		detail.ResolvedBy = &info
	}

	detail.Replies = make([]types.ReplyResponse, 0, len(thread.Replies))
	for _, r := range thread.Replies {
		rr := types.ReplyResponse{
			ID:         r.ID,
			ThreadID:   r.ThreadID,
			Content:    r.Content,
			IsSolution: r.IsSolution,
			CreatedAt:  r.CreatedAt,
			UpdatedAt:  r.UpdatedAt,
		}
		if r.Author != nil {
			rr.Author = authorInfo(r.Author)
		}
		detail.Replies = append(detail.Replies, rr)
	}

	if thread.CourseID != nil {
		titles, err := s.CourseDAO.CourseTitles(ctx, []int64{*thread.CourseID})
		if err != nil {
			return nil, err
		}
		detail.CourseTitle = lookupTitle(titles, thread.CourseID)
	}
	if thread.ModuleID != nil {
		titles, err := s.CourseDAO.ModuleTitles(ctx, []int64{*thread.ModuleID})
		if err != nil {
			return nil, err
		}
		detail.ModuleTitle = lookupTitle(titles, thread.ModuleID)
	}
	if thread.LessonID != nil {
		titles, err := s.CourseDAO.LessonTitles(ctx, []int64{*thread.LessonID})
		if err != nil {
			return nil, err
		}
		detail.LessonTitle = lookupTitle(titles, thread.LessonID)
	}

	return detail, nil
}

func authorInfo(u *models.User) types.AuthorInfo {
	return types.AuthorInfo{
		ID:        u.ID,
		Name:      u.Name,
		AvatarURL: u.AvatarURL,
	}
}

func lookupTitle(titles map[int64]string, id *int64) *string {
	if id == nil {
		return nil
	}
	if title, ok := titles[*id]; ok {
		return &title
	}
	return nil
}
