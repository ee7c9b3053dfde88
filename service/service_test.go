package service

import (
	"context"
	"sync"
	"testing"

	"Campus/dao"
	"Campus/dao/daotest"
	"Campus/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeDispatcher 记录入队的通知，断言用
type fakeDispatcher struct {
	mu      sync.Mutex
	entries []fakeEnqueue
}

type fakeEnqueue struct {
	Kind    string
	Payload interface{}
}

func (f *fakeDispatcher) Enqueue(ctx context.Context, kind string, payload interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, fakeEnqueue{Kind: kind, Payload: payload})
	return nil
}

func (f *fakeDispatcher) byKind(kind string) []fakeEnqueue {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []fakeEnqueue
	for _, e := range f.entries {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// fakeUnread 内存版未读缓存
type fakeUnread struct {
	mu   sync.Mutex
	data map[int64]int64
}

func newFakeUnread() *fakeUnread {
	return &fakeUnread{data: map[int64]int64{}}
}

func (f *fakeUnread) Get(ctx context.Context, userID int64) (int64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[userID]
	return v, ok
}

func (f *fakeUnread) Set(ctx context.Context, userID int64, count int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[userID] = count
	return nil
}

func (f *fakeUnread) Del(ctx context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, userID)
	return nil
}

func mustCreateUser(t *testing.T, db *gorm.DB, name, email, role string) *models.User {
	t.Helper()
	u := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: "x",
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func newThreadService(db *gorm.DB) *ThreadService {
	return &ThreadService{
		ThreadDAO: dao.NewThreadDAO(db),
		UserDAO:   dao.NewUserDAO(db),
		CourseDAO: dao.NewCourseDAO(db),
	}
}

func newReplyService(db *gorm.DB, disp *fakeDispatcher) *ReplyService {
	return &ReplyService{
		DB:         db,
		ThreadDAO:  dao.NewThreadDAO(db),
		ReplyDAO:   dao.NewReplyDAO(db),
		UserDAO:    dao.NewUserDAO(db),
		Dispatcher: disp,
	}
}

func newMessageService(db *gorm.DB, unread *fakeUnread, disp *fakeDispatcher) *MessageService {
	return &MessageService{
		DB:         db,
		ConvDAO:    dao.NewConversationDAO(db),
		MsgDAO:     dao.NewMessageDAO(db),
		UserDAO:    dao.NewUserDAO(db),
		Unread:     unread,
		Dispatcher: disp,
	}
}

func newTestDB(t *testing.T) *gorm.DB {
	return daotest.NewDB(t)
}
