package dao

import (
	"context"
	"time"

	"Campus/models"

	"gorm.io/gorm"
)

type ConversationDAO struct {
	db *gorm.DB
}

func NewConversationDAO(db *gorm.DB) *ConversationDAO {
	return &ConversationDAO{db: db}
}

func (d *ConversationDAO) WithTx(tx *gorm.DB) *ConversationDAO {
	nd := *d
	nd.db = tx
	return &nd
}

func (d *ConversationDAO) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return d.db.WithContext(ctx).Transaction(fn)
}

// FindByParticipants 按参与者对查会话：两边各取参与的会话 id 集合求交。
// 没有数据库层唯一约束，去重靠这里的查找-再建
func (d *ConversationDAO) FindByParticipants(ctx context.Context, userA, userB int64) (*models.Conversation, error) {
	subA := d.db.Model(&models.ConversationParticipant{}).
		Select("conversation_id").
		Where("user_id = ?", userA)
	subB := d.db.Model(&models.ConversationParticipant{}).
		Select("conversation_id").
		Where("user_id = ?", userB)

	var conv models.Conversation
	err := d.db.WithContext(ctx).
		Where("id IN (?)", subA).
		Where("id IN (?)", subB).
		First(&conv).Error
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

func (d *ConversationDAO) Create(ctx context.Context, conv *models.Conversation) error {
	return d.db.WithContext(ctx).Create(conv).Error
}

func (d *ConversationDAO) GetByID(ctx context.Context, convID int64) (*models.Conversation, error) {
	var conv models.Conversation
	err := d.db.WithContext(ctx).Where("id = ?", convID).First(&conv).Error
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// Touch 新消息到达时 bump updated_at，列表靠它排序
func (d *ConversationDAO) Touch(ctx context.Context, convID int64, now time.Time) error {
	return d.db.WithContext(ctx).
		Model(&models.Conversation{}).
		Where("id = ?", convID).
		UpdateColumn("updated_at", now).Error
}

// ListForUser 某用户的会话分页。search 过滤对端参与者的名字
func (d *ConversationDAO) ListForUser(ctx context.Context, userID int64, archived bool, search string, page, pageSize int) ([]models.Conversation, int64, error) {
	mineSub := d.db.Model(&models.ConversationParticipant{}).
		Select("conversation_id").
		Where("user_id = ? AND is_archived = ?", userID, archived)

	query := d.db.WithContext(ctx).
		Model(&models.Conversation{}).
		Where("id IN (?)", mineSub)

	if search != "" {
		otherSub := d.db.Model(&models.ConversationParticipant{}).
			Select("conversation_participants.conversation_id").
			Joins("JOIN users ON users.id = conversation_participants.user_id").
			Where("conversation_participants.user_id <> ?", userID).
			Where("users.name LIKE ?", "%"+EscapeLike(search)+"%")
		query = query.Where("id IN (?)", otherSub)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var convs []models.Conversation
	err := query.
		Order("updated_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&convs).Error
	if err != nil {
		return nil, 0, err
	}
	return convs, total, nil
}

// ListAll 管理端全量会话列表
func (d *ConversationDAO) ListAll(ctx context.Context, search string, page, pageSize int) ([]models.Conversation, int64, error) {
	query := d.db.WithContext(ctx).Model(&models.Conversation{})

	if search != "" {
		sub := d.db.Model(&models.ConversationParticipant{}).
			Select("conversation_participants.conversation_id").
			Joins("JOIN users ON users.id = conversation_participants.user_id").
			Where("users.name LIKE ?", "%"+EscapeLike(search)+"%")
		query = query.Where("id IN (?)", sub)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var convs []models.Conversation
	err := query.
		Order("updated_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&convs).Error
	if err != nil {
		return nil, 0, err
	}
	return convs, total, nil
}

func (d *ConversationDAO) CreateParticipant(ctx context.Context, p *models.ConversationParticipant) error {
	return d.db.WithContext(ctx).Create(p).Error
}

func (d *ConversationDAO) GetParticipant(ctx context.Context, convID, userID int64) (*models.ConversationParticipant, error) {
	var p models.ConversationParticipant
	err := d.db.WithContext(ctx).
		Where("conversation_id = ? AND user_id = ?", convID, userID).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// BatchGetParticipants 一次取一页会话的全部参与者（带用户），
// 列表组装不允许每会话一查
func (d *ConversationDAO) BatchGetParticipants(ctx context.Context, convIDs []int64) ([]models.ConversationParticipant, error) {
	var ps []models.ConversationParticipant
	if len(convIDs) == 0 {
		return ps, nil
	}
	err := d.db.WithContext(ctx).
		Preload("User").
		Where("conversation_id IN ?", convIDs).
		Find(&ps).Error
	return ps, err
}

func (d *ConversationDAO) OtherParticipants(ctx context.Context, convID, excludeUserID int64) ([]models.ConversationParticipant, error) {
	var ps []models.ConversationParticipant
	err := d.db.WithContext(ctx).
		Where("conversation_id = ? AND user_id <> ?", convID, excludeUserID).
		Find(&ps).Error
	return ps, err
}

// AdvanceReadWatermark 已读水位只前移
func (d *ConversationDAO) AdvanceReadWatermark(ctx context.Context, participantID int64, now time.Time) error {
	return d.db.WithContext(ctx).
		Model(&models.ConversationParticipant{}).
		Where("id = ? AND (last_read_at IS NULL OR last_read_at < ?)", participantID, now).
		Update("last_read_at", now).Error
}

func (d *ConversationDAO) SetArchived(ctx context.Context, participantID int64, archived bool) error {
	return d.db.WithContext(ctx).
		Model(&models.ConversationParticipant{}).
		Where("id = ?", participantID).
		Update("is_archived", archived).Error
}
