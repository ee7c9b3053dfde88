package dao

import (
	"context"
	"testing"
	"time"

	"Campus/dao/daotest"
	"Campus/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedConversation(t *testing.T, db *gorm.DB, userA, userB int64) int64 {
	t.Helper()
	conv := &models.Conversation{UpdatedAt: time.Now()}
	require.NoError(t, db.Create(conv).Error)
	require.NoError(t, db.Create(&models.ConversationParticipant{ConversationID: conv.ID, UserID: userA}).Error)
	require.NoError(t, db.Create(&models.ConversationParticipant{ConversationID: conv.ID, UserID: userB}).Error)
	return conv.ID
}

func seedMessage(t *testing.T, db *gorm.DB, id, convID, senderID int64, content string, at time.Time) {
	t.Helper()
	require.NoError(t, db.Create(&models.Message{
		ID:             id,
		ConversationID: convID,
		SenderID:       senderID,
		Content:        content,
	}).Error)
	require.NoError(t, db.Model(&models.Message{}).Where("id = ?", id).UpdateColumn("created_at", at).Error)
}

func TestLatestByConversationsPicksNewestPerConversation(t *testing.T) {
	db := daotest.NewDB(t)
	d := NewMessageDAO(db)
	ctx := context.Background()

	base := time.Now().Truncate(time.Second)
	c1 := seedConversation(t, db, 1, 2)
	c2 := seedConversation(t, db, 1, 3)

	seedMessage(t, db, 101, c1, 1, "c1 旧", base.Add(-2*time.Hour))
	seedMessage(t, db, 102, c1, 2, "c1 新", base.Add(-1*time.Hour))
	seedMessage(t, db, 201, c2, 3, "c2 唯一", base)

	latest, err := d.LatestByConversations(ctx, []int64{c1, c2})
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, "c1 新", latest[c1].Content)
	assert.Equal(t, "c2 唯一", latest[c2].Content)

	// 同秒消息用 id 兜底，取 id 大的
	seedMessage(t, db, 202, c2, 1, "c2 同秒", base)
	latest, err = d.LatestByConversations(ctx, []int64{c2})
	require.NoError(t, err)
	assert.Equal(t, "c2 同秒", latest[c2].Content)
}

func TestUnreadCountsForUserHonorsWatermark(t *testing.T) {
	db := daotest.NewDB(t)
	d := NewMessageDAO(db)
	convDAO := NewConversationDAO(db)
	ctx := context.Background()

	base := time.Now().Truncate(time.Second)
	c1 := seedConversation(t, db, 1, 2)

	seedMessage(t, db, 301, c1, 2, "早", base.Add(-3*time.Hour))
	seedMessage(t, db, 302, c1, 2, "晚", base.Add(-1*time.Hour))
	seedMessage(t, db, 303, c1, 1, "自己发的", base)

	// 水位为空：对端两条都算未读，自己发的不算
	counts, err := d.UnreadCountsForUser(ctx, 1, []int64{c1})
	require.NoError(t, err)
	assert.EqualValues(t, 2, counts[c1])

	// 水位推到两条之间：只剩一条未读
	p, err := convDAO.GetParticipant(ctx, c1, 1)
	require.NoError(t, err)
	require.NoError(t, convDAO.AdvanceReadWatermark(ctx, p.ID, base.Add(-2*time.Hour)))

	counts, err = d.UnreadCountsForUser(ctx, 1, []int64{c1})
	require.NoError(t, err)
	assert.EqualValues(t, 1, counts[c1])

	// 水位只前移：往回拨不生效
	require.NoError(t, convDAO.AdvanceReadWatermark(ctx, p.ID, base.Add(-5*time.Hour)))
	counts, err = d.UnreadCountsForUser(ctx, 1, []int64{c1})
	require.NoError(t, err)
	assert.EqualValues(t, 1, counts[c1])
}

func TestUnreadConversationCountSkipsArchived(t *testing.T) {
	db := daotest.NewDB(t)
	d := NewMessageDAO(db)
	convDAO := NewConversationDAO(db)
	ctx := context.Background()

	base := time.Now().Truncate(time.Second)
	c1 := seedConversation(t, db, 1, 2)
	c2 := seedConversation(t, db, 1, 3)

	seedMessage(t, db, 401, c1, 2, "a", base)
	seedMessage(t, db, 402, c2, 3, "b", base)

	count, err := d.UnreadConversationCount(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	p, err := convDAO.GetParticipant(ctx, c2, 1)
	require.NoError(t, err)
	require.NoError(t, convDAO.SetArchived(ctx, p.ID, true))

	count, err = d.UnreadConversationCount(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}
