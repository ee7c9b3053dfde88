package models

import "time"

type Course struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string    `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Slug      string    `gorm:"column:slug;type:varchar(255);not null;uniqueIndex:idx_course_slug" json:"slug"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Course) TableName() string {
	return "courses"
}

type CourseModule struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	CourseID int64  `gorm:"column:course_id;not null;index:idx_module_course" json:"course_id"`
	Title    string `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Position int    `gorm:"column:position;not null;default:0" json:"position"`
}

func (CourseModule) TableName() string {
	return "course_modules"
}

type Lesson struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	ModuleID int64  `gorm:"column:module_id;not null;index:idx_lesson_module" json:"module_id"`
	Title    string `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Position int    `gorm:"column:position;not null;default:0" json:"position"`
}

func (Lesson) TableName() string {
	return "lessons"
}

// Enrollment 报名记录，课程更新通知按这个表圈人
type Enrollment struct {
	ID       int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID   int64     `gorm:"column:user_id;not null;uniqueIndex:uq_enroll_user_course" json:"user_id"`
	CourseID int64     `gorm:"column:course_id;not null;uniqueIndex:uq_enroll_user_course" json:"course_id"`
	JoinedAt time.Time `gorm:"column:joined_at;autoCreateTime" json:"joined_at"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
