package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
)

var ProviderSet = wire.NewSet(NewUnreadStorage)

const unreadTTL = 30 * time.Second

// UnreadStorage 未读会话数缓存。短 TTL，写路径只做失效，
// 读路径 miss 时由上层回源重算
type UnreadStorage struct {
	redis *redis.Client
}

func NewUnreadStorage(rds *redis.Client) *UnreadStorage {
	return &UnreadStorage{redis: rds}
}

func (u *UnreadStorage) key(userID int64) string {
	return fmt.Sprintf("dm:unread:%d", userID)
}

// Get 缓存里的未读会话数。redis 出错按 miss 处理，不影响主流程
func (u *UnreadStorage) Get(ctx context.Context, userID int64) (int64, bool) {
	val, err := u.redis.Get(ctx, u.key(userID)).Result()
	if err != nil {
		return 0, false
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (u *UnreadStorage) Set(ctx context.Context, userID int64, count int64) error {
	return u.redis.Set(ctx, u.key(userID), count, unreadTTL).Err()
}

// Del 发消息、读会话后失效，下次读取回源
func (u *UnreadStorage) Del(ctx context.Context, userID int64) error {
	return u.redis.Del(ctx, u.key(userID)).Err()
}
