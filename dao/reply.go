package dao

import (
	"context"
	"database/sql"
	"time"

	"Campus/models"

	"gorm.io/gorm"
)

type ReplyDAO struct {
	db *gorm.DB
}

func NewReplyDAO(db *gorm.DB) *ReplyDAO {
	return &ReplyDAO{db: db}
}

func (d *ReplyDAO) WithTx(tx *gorm.DB) *ReplyDAO {
	nd := *d
	nd.db = tx
	return &nd
}

func (d *ReplyDAO) Create(ctx context.Context, reply *models.Reply) error {
	return d.db.WithContext(ctx).Create(reply).Error
}

func (d *ReplyDAO) GetByID(ctx context.Context, replyID int64) (*models.Reply, error) {
	var reply models.Reply
	err := d.db.WithContext(ctx).Where("id = ?", replyID).First(&reply).Error
	if err != nil {
		return nil, err
	}
	return &reply, nil
}

func (d *ReplyDAO) GetByThreadAndID(ctx context.Context, threadID, replyID int64) (*models.Reply, error) {
	var reply models.Reply
	err := d.db.WithContext(ctx).
		Where("id = ? AND thread_id = ?", replyID, threadID).
		First(&reply).Error
	if err != nil {
		return nil, err
	}
	return &reply, nil
}

// CountByThread 活回复数。reply_count 每次变更后都用它重算
func (d *ReplyDAO) CountByThread(ctx context.Context, threadID int64) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).
		Model(&models.Reply{}).
		Where("thread_id = ?", threadID).
		Count(&count).Error
	return count, err
}

// ClearSolutions 清掉帖内已有的采纳标记，和 SetSolution 同一事务内使用
func (d *ReplyDAO) ClearSolutions(ctx context.Context, threadID int64) error {
	return d.db.WithContext(ctx).
		Model(&models.Reply{}).
		Where("thread_id = ? AND is_solution = ?", threadID, true).
		Update("is_solution", false).Error
}

func (d *ReplyDAO) SetSolution(ctx context.Context, replyID int64, solution bool) error {
	return d.db.WithContext(ctx).
		Model(&models.Reply{}).
		Where("id = ?", replyID).
		Update("is_solution", solution).Error
}

func (d *ReplyDAO) Update(ctx context.Context, replyID int64, fields map[string]interface{}) error {
	return d.db.WithContext(ctx).
		Model(&models.Reply{}).
		Where("id = ?", replyID).
		Updates(fields).Error
}

func (d *ReplyDAO) Delete(ctx context.Context, replyID int64) error {
	return d.db.WithContext(ctx).Where("id = ?", replyID).Delete(&models.Reply{}).Error
}

func (d *ReplyDAO) Count(ctx context.Context) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&models.Reply{}).Count(&count).Error
	return count, err
}

func (d *ReplyDAO) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).
		Model(&models.Reply{}).
		Where("created_at >= ?", since).
		Count(&count).Error
	return count, err
}

// ReplyAggRow 用户活跃度聚合（回复侧）
type ReplyAggRow struct {
	AuthorID  int64
	Cnt       int64
	Solutions int64
	Last      *time.Time     `gorm:"-"`
	LastRaw   sql.NullString `gorm:"column:last"`
}

func (d *ReplyDAO) AggByAuthor(ctx context.Context) ([]ReplyAggRow, error) {
	var rows []ReplyAggRow
	err := d.db.WithContext(ctx).
		Model(&models.Reply{}).
		Select("author_id, COUNT(*) AS cnt, SUM(CASE WHEN is_solution THEN 1 ELSE 0 END) AS solutions, MAX(created_at) AS last").
		Group("author_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Last = parseAggTime(rows[i].LastRaw)
	}
	return rows, nil
}
