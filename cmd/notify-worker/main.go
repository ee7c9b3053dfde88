package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"Campus/config"
	"Campus/dao"
	"Campus/pkg/database"
	"Campus/pkg/log"
	"Campus/pkg/queue"
	"Campus/service"
	"Campus/types"

	"github.com/apache/rocketmq-client-go/v2/consumer"
	"github.com/apache/rocketmq-client-go/v2/primitive"
	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	path := fmt.Sprintf("configs/config.%s.yaml", env)
	cfg := config.New(path)

	cliApp := &cli.App{
		Name: "notify-worker",
		Action: func(ctx *cli.Context) error {
			return run(cfg)
		},
	}
	if err := cliApp.Run(os.Args); err != nil {
		log.L.Fatal("failed to start worker", zap.Error(err))
	}
}

func run(cfg *config.Config) error {
	db := database.NewDB(cfg)
	delivery := &service.DeliveryService{
		UserDAO:         dao.NewUserDAO(db),
		NotificationDAO: dao.NewNotificationDAO(db),
		Sender:          service.LogSender{},
	}

	c := queue.InitConsumer(cfg.RocketMQ)
	err := c.Subscribe(cfg.RocketMQ.Topic, consumer.MessageSelector{},
		func(ctx context.Context, msgs ...*primitive.MessageExt) (consumer.ConsumeResult, error) {
			for _, msg := range msgs {
				if err := dispatch(ctx, delivery, msg.Body); err != nil {
					// 投递失败让 broker 重投，不阻塞同批其他消息
					log.L.Error("通知处理失败", zap.String("msg_id", msg.MsgId), zap.Error(err))
					return consumer.ConsumeRetryLater, nil
				}
			}
			return consumer.ConsumeSuccess, nil
		})
	if err != nil {
		return err
	}
	if err := c.Start(); err != nil {
		return err
	}
	log.L.Info("notify-worker 已启动", zap.String("topic", cfg.RocketMQ.Topic))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	return c.Shutdown()
}

// dispatch 按消息体内的 kind 字段路由到对应的投递逻辑
func dispatch(ctx context.Context, delivery *service.DeliveryService, body []byte) error {
	kind := gjson.GetBytes(body, "kind").String()
	payload := []byte(gjson.GetBytes(body, "payload").Raw)

	switch kind {
	case queue.KindDirectMessage:
		var p types.DirectMessagePayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return err
		}
		return delivery.HandleDirectMessage(ctx, &p)
	case queue.KindThreadReply:
		var p types.ThreadReplyPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return err
		}
		return delivery.HandleThreadReply(ctx, &p)
	case queue.KindTicketReply:
		var p types.TicketReplyPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return err
		}
		return delivery.HandleTicketReply(ctx, &p)
	case queue.KindAnnouncement:
		var p types.AnnouncementPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return err
		}
		return delivery.HandleAnnouncement(ctx, &p)
	default:
		// 未知类型直接丢弃，避免坏消息无限重投
		log.L.Warn("未知通知类型，已丢弃", zap.String("kind", kind))
		return nil
	}
}
