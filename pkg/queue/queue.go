package queue

import "context"

// 通知类型，入队时写进消息体，worker 按 kind 路由
const (
	KindDirectMessage = "direct_message"
	KindThreadReply   = "thread_reply"
	KindTicketReply   = "ticket_reply"
	KindAnnouncement  = "announcement"
)

// Dispatcher 出站通知队列。调用方视角是 fire-and-forget：
// 入队失败由调用方记日志吞掉，绝不影响触发它的那次写操作
type Dispatcher interface {
	Enqueue(ctx context.Context, kind string, payload interface{}) error
}

// Nop 没有 broker 的环境（本地开发、测试）用的空实现
type Nop struct{}

func (Nop) Enqueue(ctx context.Context, kind string, payload interface{}) error {
	return nil
}
