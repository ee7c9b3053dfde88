package types

import "time"

// 创建帖子请求
type CreateThreadRequest struct {
	Title    string `json:"title" binding:"required,min=1,max=255"`
	Content  string `json:"content" binding:"required,min=1"`
	Category string `json:"category" binding:"required,oneof=courses packages general showcase"`
	CourseID *int64 `json:"course_id,string,omitempty"`
	ModuleID *int64 `json:"module_id,string,omitempty"`
	LessonID *int64 `json:"lesson_id,string,omitempty"`
}

// 作者编辑帖子请求
type UpdateThreadRequest struct {
	Title   string `json:"title" binding:"required,min=1,max=255"`
	Content string `json:"content" binding:"required,min=1"`

	CourseID *int64 `json:"course_id,string,omitempty"`
	ModuleID *int64 `json:"module_id,string,omitempty"`
	LessonID *int64 `json:"lesson_id,string,omitempty"`
	// 置 true 时清空全部课程上下文
	ClearCourseContext bool `json:"clear_course_context"`
}

// 管理员编辑帖子请求，全部字段可选
type AdminThreadUpdateRequest struct {
	Title    *string `json:"title,omitempty"`
	Content  *string `json:"content,omitempty"`
	Category *string `json:"category,omitempty"`
	IsPinned *bool   `json:"is_pinned,omitempty"`
}

// 批量操作请求
type BulkActionRequest struct {
	ThreadIDs []int64 `json:"thread_ids" binding:"required,min=1"`
	Action    string  `json:"action" binding:"required"` // close/reopen/delete/pin/unpin
}

type BulkActionResponse struct {
	Affected int    `json:"affected"`
	Action   string `json:"action"`
}

type AddReplyRequest struct {
	Content string `json:"content" binding:"required,min=1"`
}

type EditReplyRequest struct {
	Content string `json:"content" binding:"required,min=1"`
}

type AuthorInfo struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// 帖子列表项（读模型）
type ThreadListItem struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Status     string    `json:"status"`
	Category   string    `json:"category"`
	IsPinned   bool      `json:"is_pinned"`
	ReplyCount int       `json:"reply_count"`
	ViewCount  int       `json:"view_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Author AuthorInfo `json:"author"`
	// max(帖子创建时间, 最新回复时间)
	LastActivity time.Time `json:"last_activity"`

	CourseTitle *string `json:"course_title,omitempty"`
	ModuleTitle *string `json:"module_title,omitempty"`
	LessonTitle *string `json:"lesson_title,omitempty"`
}

type ThreadListResponse struct {
	Threads []ThreadListItem `json:"threads"`
	Total   int64            `json:"total"`
}

type ReplyResponse struct {
	ID         int64      `json:"id"`
	ThreadID   int64      `json:"thread_id"`
	Author     AuthorInfo `json:"author"`
	Content    string     `json:"content"`
	IsSolution bool       `json:"is_solution"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
}

type ThreadDetailResponse struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Status     string    `json:"status"`
	Category   string    `json:"category"`
	IsPinned   bool      `json:"is_pinned"`
	ReplyCount int       `json:"reply_count"`
	ViewCount  int       `json:"view_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Author     AuthorInfo  `json:"author"`
	ResolvedBy *AuthorInfo `json:"resolved_by,omitempty"`
	ResolvedAt *time.Time  `json:"resolved_at,omitempty"`

	Replies []ReplyResponse `json:"replies"`

	CourseID    *int64  `json:"course_id,omitempty"`
	ModuleID    *int64  `json:"module_id,omitempty"`
	LessonID    *int64  `json:"lesson_id,omitempty"`
	CourseTitle *string `json:"course_title,omitempty"`
	ModuleTitle *string `json:"module_title,omitempty"`
	LessonTitle *string `json:"lesson_title,omitempty"`
}

type TopAuthorItem struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	ThreadCount int64  `json:"thread_count"`
}

type AdminThreadStatsResponse struct {
	TotalThreads    int64            `json:"total_threads"`
	OpenThreads     int64            `json:"open_threads"`
	ResolvedThreads int64            `json:"resolved_threads"`
	ClosedThreads   int64            `json:"closed_threads"`
	TotalReplies    int64            `json:"total_replies"`
	ThreadsToday    int64            `json:"threads_today"`
	RepliesToday    int64            `json:"replies_today"`
	CategoryCounts  map[string]int64 `json:"category_counts"`
	TopAuthors      []TopAuthorItem  `json:"top_authors"`
}

type UserActivityItem struct {
	UserID        int64      `json:"user_id"`
	UserName      string     `json:"user_name"`
	ThreadCount   int64      `json:"thread_count"`
	ReplyCount    int64      `json:"reply_count"`
	SolutionCount int64      `json:"solution_count"`
	LastActivity  *time.Time `json:"last_activity,omitempty"`
}

type UserActivityResponse struct {
	Users []UserActivityItem `json:"users"`
	Total int64              `json:"total"`
}
