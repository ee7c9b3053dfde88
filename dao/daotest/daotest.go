// Package daotest 提供测试用的内存数据库
package daotest

import (
	"testing"

	"Campus/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB 每个测试独立的内存库，已迁移全部表
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("打开内存数据库失败: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.CourseModule{},
		&models.Lesson{},
		&models.Enrollment{},
		&models.Package{},
		&models.Order{},
		&models.Thread{},
		&models.Reply{},
		&models.Conversation{},
		&models.ConversationParticipant{},
		&models.Message{},
		&models.SupportTicket{},
		&models.TicketMessage{},
		&models.Notification{},
		&models.AnnouncementLog{},
	)
	if err != nil {
		t.Fatalf("迁移表结构失败: %v", err)
	}
	return db
}
