package service

import (
	"context"
	"errors"
	"time"

	"Campus/dao"
	"Campus/models"
	"Campus/pkg/log"
	"Campus/pkg/queue"
	"Campus/pkg/response"
	"Campus/types"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type IReplyService interface {
	AddReply(ctx context.Context, userID, threadID int64, req *types.AddReplyRequest) (*types.ReplyResponse, error)
	EditReply(ctx context.Context, userID int64, isAdmin bool, threadID, replyID int64, req *types.EditReplyRequest) error
	DeleteReply(ctx context.Context, userID int64, isAdmin bool, threadID, replyID int64) error
	MarkSolution(ctx context.Context, userID int64, isAdmin bool, threadID, replyID int64) error
	UnmarkSolution(ctx context.Context, userID int64, isAdmin bool, threadID, replyID int64) error
}

type ReplyService struct {
	DB         *gorm.DB
	ThreadDAO  *dao.ThreadDAO
	ReplyDAO   *dao.ReplyDAO
	UserDAO    *dao.UserDAO
	Dispatcher queue.Dispatcher
}

var _ IReplyService = (*ReplyService)(nil)

// AddReply 关闭的帖子拒绝回复。回复数落库后按 COUNT(*) 重算
func (s *ReplyService) AddReply(ctx context.Context, userID, threadID int64, req *types.AddReplyRequest) (*types.ReplyResponse, error) {
	thread, err := s.ThreadDAO.GetByID(ctx, threadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NotFound("帖子不存在")
		}
		return nil, err
	}
	if thread.Status == models.ThreadStatusClosed {
		return nil, response.Conflict("帖子已关闭，无法回复")
	}

	reply := &models.Reply{
		ThreadID: threadID,
		AuthorID: userID,
		Content:  req.Content,
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.ReplyDAO.WithTx(tx).Create(ctx, reply); err != nil {
			return err
		}
		return s.recountReplies(ctx, tx, threadID)
	})
	if err != nil {
		return nil, err
	}

	// 通知帖子作者，自己回自己的帖不发
	if thread.AuthorID != userID {
		author, aerr := s.UserDAO.GetByID(ctx, userID)
		authorName := ""
		if aerr == nil {
			authorName = author.Name
		}
		payload := types.ThreadReplyPayload{
			RecipientID: thread.AuthorID,
			ThreadID:    threadID,
			ThreadTitle: thread.Title,
			AuthorName:  authorName,
			Preview:     truncatePreview(req.Content, previewLimit),
		}
		if err := s.Dispatcher.Enqueue(ctx, queue.KindThreadReply, payload); err != nil {
			log.L.Warn("回复通知入队失败", zap.Int64("thread_id", threadID), zap.Error(err))
		}
	}

	resp := &types.ReplyResponse{
		ID:        reply.ID,
		ThreadID:  reply.ThreadID,
		Content:   reply.Content,
		CreatedAt: reply.CreatedAt,
	}
	if u, uerr := s.UserDAO.GetByID(ctx, userID); uerr == nil {
		resp.Author = authorInfo(u)
	}
	return resp, nil
}

func (s *ReplyService) EditReply(ctx context.Context, userID int64, isAdmin bool, threadID, replyID int64, req *types.EditReplyRequest) error {
	reply, err := s.ReplyDAO.GetByThreadAndID(ctx, threadID, replyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound("回复不存在")
		}
		return err
	}
	if err := ensureOwnerOrAdmin(reply.AuthorID, userID, isAdmin); err != nil {
		return err
	}

	return s.ReplyDAO.Update(ctx, replyID, map[string]interface{}{
		"content":    req.Content,
		"updated_at": time.Now(),
	})
}

func (s *ReplyService) DeleteReply(ctx context.Context, userID int64, isAdmin bool, threadID, replyID int64) error {
	reply, err := s.ReplyDAO.GetByThreadAndID(ctx, threadID, replyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound("回复不存在")
		}
		return err
	}
	if err := ensureOwnerOrAdmin(reply.AuthorID, userID, isAdmin); err != nil {
		return err
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		replyTx := s.ReplyDAO.WithTx(tx)
		if reply.IsSolution {
			thread, terr := s.ThreadDAO.WithTx(tx).GetByID(ctx, threadID)
			if terr != nil {
				return terr
			}
			// 被采纳的回复删掉后 resolved 的帖子退回 open；
			// closed 是终态，只有管理员能重开，状态不动
			if thread.Status == models.ThreadStatusResolved {
				if err := s.ThreadDAO.WithTx(tx).UpdateFields(ctx, threadID, map[string]interface{}{
					"status":         models.ThreadStatusOpen,
					"resolved_by_id": nil,
					"resolved_at":    nil,
				}); err != nil {
					return err
				}
			}
		}
		if err := replyTx.Delete(ctx, replyID); err != nil {
			return err
		}
		return s.recountReplies(ctx, tx, threadID)
	})
}

// MarkSolution 采纳回复：同一事务里先清掉旧标记再打新标记，
// 帖子转 resolved 并记录处理人与时间。只有帖子作者或管理员可操作
func (s *ReplyService) MarkSolution(ctx context.Context, userID int64, isAdmin bool, threadID, replyID int64) error {
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
	if thread.Status == models.ThreadStatusClosed {
		return response.Conflict("帖子已关闭")
	}
	if _, err := s.ReplyDAO.GetByThreadAndID(ctx, threadID, replyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound("回复不存在")
		}
		return err
	}

	now := time.Now()
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		replyTx := s.ReplyDAO.WithTx(tx)
		if err := replyTx.ClearSolutions(ctx, threadID); err != nil {
			return err
		}
		if err := replyTx.SetSolution(ctx, replyID, true); err != nil {
			return err
		}
		return s.ThreadDAO.WithTx(tx).UpdateFields(ctx, threadID, map[string]interface{}{
			"status":         models.ThreadStatusResolved,
			"resolved_by_id": userID,
			"resolved_at":    now,
		})
	})
}

// UnmarkSolution 撤销采纳：resolved 的帖子退回 open，清掉处理人与时间。
// closed 的帖子只清采纳标记，状态不动
func (s *ReplyService) UnmarkSolution(ctx context.Context, userID int64, isAdmin bool, threadID, replyID int64) error {
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

	reply, err := s.ReplyDAO.GetByThreadAndID(ctx, threadID, replyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound("回复不存在")
		}
		return err
	}
	if !reply.IsSolution {
		return response.Conflict("该回复未被采纳")
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.ReplyDAO.WithTx(tx).SetSolution(ctx, replyID, false); err != nil {
			return err
		}
		if thread.Status != models.ThreadStatusResolved {
			return nil
		}
		return s.ThreadDAO.WithTx(tx).UpdateFields(ctx, threadID, map[string]interface{}{
			"status":         models.ThreadStatusOpen,
			"resolved_by_id": nil,
			"resolved_at":    nil,
		})
	})
}

func (s *ReplyService) recountReplies(ctx context.Context, tx *gorm.DB, threadID int64) error {
	count, err := s.ReplyDAO.WithTx(tx).CountByThread(ctx, threadID)
	if err != nil {
		return err
	}
	return s.ThreadDAO.WithTx(tx).UpdateFields(ctx, threadID, map[string]interface{}{
		"reply_count": count,
	})
}
