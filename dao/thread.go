package dao

import (
	"context"
	"database/sql"
	"time"

	"Campus/models"

	"gorm.io/gorm"
)

type ThreadDAO struct {
	db *gorm.DB
}

func NewThreadDAO(db *gorm.DB) *ThreadDAO {
	return &ThreadDAO{db: db}
}

func (d *ThreadDAO) WithTx(tx *gorm.DB) *ThreadDAO {
	nd := *d
	nd.db = tx
	return &nd
}

// ThreadListFilter 列表过滤条件，零值字段不参与过滤
type ThreadListFilter struct {
	Category string
	Status   string
	Search   string
	Page     int
	PageSize int
}

// ThreadActivityRow 列表行：帖子 + 最新回复时间（没有回复时为 NULL）
type ThreadActivityRow struct {
	models.Thread `gorm:"embedded"`
	LastReplyAt   *time.Time     `gorm:"-"`
	LastReplyRaw  sql.NullString `gorm:"column:last_reply_at"`
}

// List 帖子列表。最新回复时间用一个按 thread_id 分组的子查询
// 左连出来，避免每行一次相关子查询
func (d *ThreadDAO) List(ctx context.Context, f ThreadListFilter) ([]ThreadActivityRow, int64, error) {
	lastReplySub := d.db.Model(&models.Reply{}).
		Select("thread_id, MAX(created_at) AS last_reply_at").
		Group("thread_id")

	base := d.db.WithContext(ctx).Model(&models.Thread{})
	if f.Category != "" {
		base = base.Where("community_threads.category = ?", f.Category)
	}
	if f.Status != "" {
		base = base.Where("community_threads.status = ?", f.Status)
	}
	if f.Search != "" {
		base = base.Where("community_threads.title LIKE ?", "%"+EscapeLike(f.Search)+"%")
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []ThreadActivityRow
	err := base.
		Select("community_threads.*, lr.last_reply_at").
		Joins("LEFT JOIN (?) AS lr ON lr.thread_id = community_threads.id", lastReplySub).
		Order("community_threads.is_pinned DESC, community_threads.updated_at DESC").
		Offset((f.Page - 1) * f.PageSize).
		Limit(f.PageSize).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	for i := range rows {
		rows[i].LastReplyAt = parseAggTime(rows[i].LastReplyRaw)
	}

	return rows, total, nil
}

func (d *ThreadDAO) GetByID(ctx context.Context, threadID int64) (*models.Thread, error) {
	var thread models.Thread
	err := d.db.WithContext(ctx).Where("id = ?", threadID).First(&thread).Error
	if err != nil {
		return nil, err
	}
	return &thread, nil
}

// GetDetail 详情页：作者、处理人、按时间正序的回复及回复作者一次带出
func (d *ThreadDAO) GetDetail(ctx context.Context, threadID int64) (*models.Thread, error) {
	var thread models.Thread
	err := d.db.WithContext(ctx).
		Preload("Author").
		Preload("ResolvedBy").
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("thread_replies.created_at ASC")
		}).
		Preload("Replies.Author").
		Where("id = ?", threadID).
		First(&thread).Error
	if err != nil {
		return nil, err
	}
	return &thread, nil
}

func (d *ThreadDAO) Create(ctx context.Context, thread *models.Thread) error {
	return d.db.WithContext(ctx).Create(thread).Error
}

// IncrViewCount 浏览数只管自增，不读当前值
func (d *ThreadDAO) IncrViewCount(ctx context.Context, threadID int64) error {
	return d.db.WithContext(ctx).
		Model(&models.Thread{}).
		Where("id = ?", threadID).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1)).Error
}

func (d *ThreadDAO) UpdateFields(ctx context.Context, threadID int64, fields map[string]interface{}) error {
	return d.db.WithContext(ctx).
		Model(&models.Thread{}).
		Where("id = ?", threadID).
		Updates(fields).Error
}

func (d *ThreadDAO) Save(ctx context.Context, thread *models.Thread) error {
	return d.db.WithContext(ctx).Save(thread).Error
}

// Delete 先删回复再删帖子，级联放在应用层保证
func (d *ThreadDAO) Delete(ctx context.Context, threadID int64) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("thread_id = ?", threadID).Delete(&models.Reply{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", threadID).Delete(&models.Thread{}).Error
	})
}

func (d *ThreadDAO) ListByIDs(ctx context.Context, threadIDs []int64) ([]models.Thread, error) {
	var threads []models.Thread
	if len(threadIDs) == 0 {
		return threads, nil
	}
	err := d.db.WithContext(ctx).Where("id IN ?", threadIDs).Find(&threads).Error
	return threads, err
}

func (d *ThreadDAO) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).
		Model(&models.Thread{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

func (d *ThreadDAO) Count(ctx context.Context) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&models.Thread{}).Count(&count).Error
	return count, err
}

func (d *ThreadDAO) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).
		Model(&models.Thread{}).
		Where("created_at >= ?", since).
		Count(&count).Error
	return count, err
}

func (d *ThreadDAO) CategoryCounts(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Category string
		Cnt      int64
	}
	var rows []row
	err := d.db.WithContext(ctx).
		Model(&models.Thread{}).
		Select("category, COUNT(*) AS cnt").
		Group("category").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[string]int64, len(rows))
	for _, r := range rows {
		result[r.Category] = r.Cnt
	}
	return result, nil
}

// TopAuthorRow 发帖榜
type TopAuthorRow struct {
	ID          int64
	Name        string
	ThreadCount int64
}

func (d *ThreadDAO) TopAuthors(ctx context.Context, limit int) ([]TopAuthorRow, error) {
	var rows []TopAuthorRow
	err := d.db.WithContext(ctx).
		Model(&models.Thread{}).
		Select("users.id AS id, users.name AS name, COUNT(community_threads.id) AS thread_count").
		Joins("JOIN users ON users.id = community_threads.author_id").
		Group("users.id, users.name").
		Order("thread_count DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// AuthorAggRow 用户活跃度聚合（发帖侧）
type AuthorAggRow struct {
	AuthorID int64
	Cnt      int64
	Last     *time.Time     `gorm:"-"`
	LastRaw  sql.NullString `gorm:"column:last"`
}

func (d *ThreadDAO) AggByAuthor(ctx context.Context) ([]AuthorAggRow, error) {
	var rows []AuthorAggRow
	err := d.db.WithContext(ctx).
		Model(&models.Thread{}).
		Select("author_id, COUNT(*) AS cnt, MAX(created_at) AS last").
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
