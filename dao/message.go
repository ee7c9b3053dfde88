package dao

import (
	"context"

	"Campus/models"

	"gorm.io/gorm"
)

type MessageDAO struct {
	db *gorm.DB
}

func NewMessageDAO(db *gorm.DB) *MessageDAO {
	return &MessageDAO{db: db}
}

func (d *MessageDAO) WithTx(tx *gorm.DB) *MessageDAO {
	nd := *d
	nd.db = tx
	return &nd
}

func (d *MessageDAO) Create(ctx context.Context, msg *models.Message) error {
	return d.db.WithContext(ctx).Create(msg).Error
}

func (d *MessageDAO) GetByID(ctx context.Context, msgID int64) (*models.Message, error) {
	var msg models.Message
	err := d.db.WithContext(ctx).Where("id = ?", msgID).First(&msg).Error
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (d *MessageDAO) Delete(ctx context.Context, msgID int64) error {
	return d.db.WithContext(ctx).Where("id = ?", msgID).Delete(&models.Message{}).Error
}

func (d *MessageDAO) CountByConversation(ctx context.Context, convID int64) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("conversation_id = ?", convID).
		Count(&count).Error
	return count, err
}

// ListByConversation 会话消息，时间正序分页，带发送者
func (d *MessageDAO) ListByConversation(ctx context.Context, convID int64, page, pageSize int) ([]models.Message, error) {
	var msgs []models.Message
	query := d.db.WithContext(ctx).
		Preload("Sender").
		Where("conversation_id = ?", convID).
		Order("created_at ASC, id ASC")
	if pageSize > 0 {
		query = query.Offset((page - 1) * pageSize).Limit(pageSize)
	}
	err := query.Find(&msgs).Error
	return msgs, err
}

// LatestByConversations 每个会话各取最新一条：按会话分区、
// 按时间倒序编号，取 rn=1。一页会话一条 SQL，不做每行子查询
func (d *MessageDAO) LatestByConversations(ctx context.Context, convIDs []int64) (map[int64]models.Message, error) {
	result := make(map[int64]models.Message)
	if len(convIDs) == 0 {
		return result, nil
	}

	var msgs []models.Message
	err := d.db.WithContext(ctx).Raw(`
		SELECT id, conversation_id, sender_id, content, is_system, created_at, edited_at
		FROM (
			SELECT m.*, ROW_NUMBER() OVER (
				PARTITION BY m.conversation_id
				ORDER BY m.created_at DESC, m.id DESC
			) AS rn
			FROM messages m
			WHERE m.conversation_id IN ?
		) ranked
		WHERE ranked.rn = 1`, convIDs).
		Scan(&msgs).Error
	if err != nil {
		return nil, err
	}

	for _, m := range msgs {
		result[m.ConversationID] = m
	}
	return result, nil
}

// UnreadCountsForUser 批量未读数：对端发的、晚于本人已读水位的消息，
// 按会话分组计数。水位为空算全部未读
func (d *MessageDAO) UnreadCountsForUser(ctx context.Context, userID int64, convIDs []int64) (map[int64]int64, error) {
	result := make(map[int64]int64)
	if len(convIDs) == 0 {
		return result, nil
	}

	type row struct {
		ConversationID int64
		Cnt            int64
	}
	var rows []row
	err := d.db.WithContext(ctx).Raw(`
		SELECT m.conversation_id AS conversation_id, COUNT(*) AS cnt
		FROM messages m
		JOIN conversation_participants p
			ON p.conversation_id = m.conversation_id AND p.user_id = ?
		WHERE m.conversation_id IN ?
			AND m.sender_id <> ?
			AND (p.last_read_at IS NULL OR m.created_at > p.last_read_at)
		GROUP BY m.conversation_id`, userID, convIDs, userID).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, r := range rows {
		result[r.ConversationID] = r.Cnt
	}
	return result, nil
}

// UnreadConversationCount 有未读消息的会话数（不是消息数），归档的不算
func (d *MessageDAO) UnreadConversationCount(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).Raw(`
		SELECT COUNT(DISTINCT m.conversation_id)
		FROM messages m
		JOIN conversation_participants p
			ON p.conversation_id = m.conversation_id
			AND p.user_id = ?
			AND p.is_archived = ?
		WHERE m.sender_id <> ?
			AND (p.last_read_at IS NULL OR m.created_at > p.last_read_at)`,
		userID, false, userID).
		Scan(&count).Error
	return count, err
}
