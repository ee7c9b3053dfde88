package service

import (
	"context"
	"testing"

	"Campus/dao"
	"Campus/models"
	"Campus/pkg/queue"
	"Campus/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newNotificationService(db *gorm.DB, disp *fakeDispatcher) *NotificationService {
	return &NotificationService{
		UserDAO:         dao.NewUserDAO(db),
		NotificationDAO: dao.NewNotificationDAO(db),
		Dispatcher:      disp,
	}
}

func TestPrefsDefaultAndPartialUpdate(t *testing.T) {
	db := newTestDB(t)
	svc := newNotificationService(db, &fakeDispatcher{})
	ctx := context.Background()

	u := mustCreateUser(t, db, "甲", "a@example.com", models.RolePaid)

	// 空列回退到全开
	prefs, err := svc.GetPrefs(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, prefs.CourseUpdates)
	assert.True(t, prefs.DirectMessages)
	assert.True(t, prefs.Announcements)

	// 只关私信，其余键不动
	off := false
	prefs, err = svc.UpdatePrefs(ctx, u.ID, &types.UpdatePrefsRequest{DirectMessages: &off})
	require.NoError(t, err)
	assert.False(t, prefs.DirectMessages)
	assert.True(t, prefs.Announcements)

	prefs, err = svc.GetPrefs(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, prefs.DirectMessages)
	assert.True(t, prefs.CourseUpdates)
}

func TestAnnounceLogsAndEnqueues(t *testing.T) {
	db := newTestDB(t)
	disp := &fakeDispatcher{}
	svc := newNotificationService(db, disp)
	ctx := context.Background()

	admin := mustCreateUser(t, db, "管理员", "admin@example.com", models.RoleAdmin)
	mustCreateUser(t, db, "甲", "a@example.com", models.RolePaid)
	optOut := mustCreateUser(t, db, "乙", "b@example.com", models.RolePaid)

	off := false
	_, err := svc.UpdatePrefs(ctx, optOut.ID, &types.UpdatePrefsRequest{Announcements: &off})
	require.NoError(t, err)

	recipients, err := svc.Announce(ctx, admin.ID, &types.AnnouncementRequest{
		Subject: "维护通知",
		Body:    "今晚停机",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, recipients) // 管理员 + 甲，乙已退订

	var logs []models.AnnouncementLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, admin.ID, logs[0].AdminID)
	assert.Equal(t, 2, logs[0].Recipients)

	entries := disp.byKind(queue.KindAnnouncement)
	require.Len(t, entries, 1)
	payload := entries[0].Payload.(types.AnnouncementPayload)
	assert.Equal(t, "维护通知", payload.Subject)
}

func TestDeliveryRespectsPrefsAndRecords(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	u := mustCreateUser(t, db, "甲", "a@example.com", models.RolePaid)
	delivery := &DeliveryService{
		UserDAO:         dao.NewUserDAO(db),
		NotificationDAO: dao.NewNotificationDAO(db),
		Sender:          LogSender{},
	}

	require.NoError(t, delivery.HandleDirectMessage(ctx, &types.DirectMessagePayload{
		RecipientID: u.ID, SenderName: "乙", Preview: "hi", ConversationID: 1,
	}))

	var rows []models.Notification
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, models.NotificationTypeDirectMessage, rows[0].Type)
	assert.Equal(t, models.NotificationStatusSent, rows[0].Status)
	assert.NotNil(t, rows[0].SentAt)

	// 关掉私信通知后不再落记录
	nsvc := &NotificationService{
		UserDAO:         dao.NewUserDAO(db),
		NotificationDAO: dao.NewNotificationDAO(db),
		Dispatcher:      queue.Nop{},
	}
	off := false
	_, err := nsvc.UpdatePrefs(ctx, u.ID, &types.UpdatePrefsRequest{DirectMessages: &off})
	require.NoError(t, err)

	require.NoError(t, delivery.HandleDirectMessage(ctx, &types.DirectMessagePayload{
		RecipientID: u.ID, SenderName: "乙", Preview: "again", ConversationID: 1,
	}))
	require.NoError(t, db.Find(&rows).Error)
	assert.Len(t, rows, 1)
}
