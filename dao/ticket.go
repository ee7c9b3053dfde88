package dao

import (
	"context"

	"Campus/models"

	"gorm.io/gorm"
)

type TicketDAO struct {
	db *gorm.DB
}

func NewTicketDAO(db *gorm.DB) *TicketDAO {
	return &TicketDAO{db: db}
}

func (d *TicketDAO) WithTx(tx *gorm.DB) *TicketDAO {
	nd := *d
	nd.db = tx
	return &nd
}

func (d *TicketDAO) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return d.db.WithContext(ctx).Transaction(fn)
}

func (d *TicketDAO) Create(ctx context.Context, ticket *models.SupportTicket) error {
	return d.db.WithContext(ctx).Create(ticket).Error
}

func (d *TicketDAO) GetByID(ctx context.Context, ticketID int64) (*models.SupportTicket, error) {
	var ticket models.SupportTicket
	err := d.db.WithContext(ctx).Where("id = ?", ticketID).First(&ticket).Error
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// GetDetail 工单详情：提单人 + 按时间正序的消息及作者
func (d *TicketDAO) GetDetail(ctx context.Context, ticketID int64) (*models.SupportTicket, error) {
	var ticket models.SupportTicket
	err := d.db.WithContext(ctx).
		Preload("User").
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("ticket_messages.created_at ASC")
		}).
		Preload("Messages.Author").
		Where("id = ?", ticketID).
		First(&ticket).Error
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// TicketListFilter 管理端列表过滤，零值字段不参与
type TicketListFilter struct {
	Status   string
	Priority string
	Category string
	Search   string
	Page     int
	PageSize int
}

func (d *TicketDAO) ListAll(ctx context.Context, f TicketListFilter) ([]models.SupportTicket, int64, error) {
	query := d.db.WithContext(ctx).Model(&models.SupportTicket{})

	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.Priority != "" {
		query = query.Where("priority = ?", f.Priority)
	}
	if f.Category != "" {
		query = query.Where("category = ?", f.Category)
	}
	if f.Search != "" {
		query = query.Where("subject LIKE ?", "%"+EscapeLike(f.Search)+"%")
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tickets []models.SupportTicket
	err := query.
		Order("updated_at DESC").
		Offset((f.Page - 1) * f.PageSize).
		Limit(f.PageSize).
		Find(&tickets).Error
	if err != nil {
		return nil, 0, err
	}
	return tickets, total, nil
}

func (d *TicketDAO) ListForUser(ctx context.Context, userID int64, status string) ([]models.SupportTicket, error) {
	query := d.db.WithContext(ctx).Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var tickets []models.SupportTicket
	err := query.Order("updated_at DESC").Find(&tickets).Error
	return tickets, err
}

func (d *TicketDAO) UpdateFields(ctx context.Context, ticketID int64, fields map[string]interface{}) error {
	return d.db.WithContext(ctx).
		Model(&models.SupportTicket{}).
		Where("id = ?", ticketID).
		Updates(fields).Error
}

func (d *TicketDAO) AddMessage(ctx context.Context, msg *models.TicketMessage) error {
	return d.db.WithContext(ctx).Create(msg).Error
}

// LatestMessageContents 批量取每张工单最新一条消息的正文，
// 列表组装用，一条 SQL 搞定
func (d *TicketDAO) LatestMessageContents(ctx context.Context, ticketIDs []int64) (map[int64]string, error) {
	result := make(map[int64]string)
	if len(ticketIDs) == 0 {
		return result, nil
	}

	type row struct {
		TicketID int64
		Content  string
	}
	var rows []row
	err := d.db.WithContext(ctx).Raw(`
		SELECT ticket_id, content
		FROM (
			SELECT tm.ticket_id, tm.content, ROW_NUMBER() OVER (
				PARTITION BY tm.ticket_id
				ORDER BY tm.created_at DESC, tm.id DESC
			) AS rn
			FROM ticket_messages tm
			WHERE tm.ticket_id IN ?
		) ranked
		WHERE ranked.rn = 1`, ticketIDs).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, r := range rows {
		result[r.TicketID] = r.Content
	}
	return result, nil
}

func (d *TicketDAO) StatusCounts(ctx context.Context) (map[string]int64, error) {
	return d.groupCounts(ctx, "status")
}

func (d *TicketDAO) CategoryCounts(ctx context.Context) (map[string]int64, error) {
	return d.groupCounts(ctx, "category")
}

func (d *TicketDAO) groupCounts(ctx context.Context, column string) (map[string]int64, error) {
	type row struct {
		K   string
		Cnt int64
	}
	var rows []row
	err := d.db.WithContext(ctx).
		Model(&models.SupportTicket{}).
		Select(column + " AS k, COUNT(*) AS cnt").
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[string]int64, len(rows))
	for _, r := range rows {
		result[r.K] = r.Cnt
	}
	return result, nil
}

func (d *TicketDAO) Count(ctx context.Context) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&models.SupportTicket{}).Count(&count).Error
	return count, err
}
