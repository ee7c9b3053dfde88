package models

import "time"

// 讨论帖状态机：open -> resolved -> open（重开），open|resolved -> closed
const (
	ThreadStatusOpen     = "open"
	ThreadStatusResolved = "resolved"
	ThreadStatusClosed   = "closed"
)

// 帖子分类
const (
	ThreadCategoryCourses  = "courses"
	ThreadCategoryPackages = "packages"
	ThreadCategoryGeneral  = "general"
	ThreadCategoryShowcase = "showcase"
)

type Thread struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	AuthorID int64  `gorm:"column:author_id;not null;index:idx_thread_author" json:"author_id"`
	Title    string `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Content  string `gorm:"column:content;type:text;not null" json:"content"`
	Status   string `gorm:"column:status;type:varchar(20);not null;default:open;index:idx_thread_status" json:"status"`
	Category string `gorm:"column:category;type:varchar(20);not null;default:general;index:idx_thread_category" json:"category"`
	IsPinned bool   `gorm:"column:is_pinned;not null;default:false" json:"is_pinned"`

	// 冗余计数，每次回复增删后按 COUNT(*) 重算，不做增量信任
	ReplyCount int `gorm:"column:reply_count;not null;default:0" json:"reply_count"`
	ViewCount  int `gorm:"column:view_count;not null;default:0" json:"view_count"`

	ResolvedByID *int64     `gorm:"column:resolved_by_id" json:"resolved_by_id,omitempty"`
	ResolvedAt   *time.Time `gorm:"column:resolved_at" json:"resolved_at,omitempty"`

	// 可选的课程上下文
	CourseID *int64 `gorm:"column:course_id" json:"course_id,omitempty"`
	ModuleID *int64 `gorm:"column:module_id" json:"module_id,omitempty"`
	LessonID *int64 `gorm:"column:lesson_id" json:"lesson_id,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Author     *User   `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	ResolvedBy *User   `gorm:"foreignKey:ResolvedByID" json:"resolved_by,omitempty"`
	Replies    []Reply `gorm:"foreignKey:ThreadID;constraint:OnDelete:CASCADE" json:"replies,omitempty"`
}

func (Thread) TableName() string {
	return "community_threads"
}

type Reply struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	ThreadID int64  `gorm:"column:thread_id;not null;index:idx_reply_thread" json:"thread_id"`
	AuthorID int64  `gorm:"column:author_id;not null;index:idx_reply_author" json:"author_id"`
	Content  string `gorm:"column:content;type:text;not null" json:"content"`

	// 每帖至多一条 is_solution=true，见 ReplyService.MarkSolution
	IsSolution bool `gorm:"column:is_solution;not null;default:false" json:"is_solution"`

	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt *time.Time `gorm:"column:updated_at" json:"updated_at,omitempty"`

	Author *User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

func (Reply) TableName() string {
	return "thread_replies"
}
