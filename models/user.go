package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	RolePaid  = "paid"
	RoleAdmin = "admin"
)

type User struct {
	ID           int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string  `gorm:"column:name;type:varchar(100);not null" json:"name"`
	Email        string  `gorm:"column:email;type:varchar(255);not null;uniqueIndex:idx_email" json:"email"`
	PasswordHash string  `gorm:"column:password_hash;type:varchar(100);not null" json:"-"`
	AvatarURL    *string `gorm:"column:avatar_url;type:varchar(255)" json:"avatar_url,omitempty"`
	Role         string  `gorm:"column:role;type:varchar(20);not null;default:paid" json:"role"` // paid / admin
	IsActive     bool    `gorm:"column:is_active;not null;default:true" json:"is_active"`

	// 通知偏好，JSON 列。识别的键见 types.NotificationPrefs，缺省全开
	NotificationPrefs datatypes.JSON `gorm:"column:notification_prefs" json:"notification_prefs,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
