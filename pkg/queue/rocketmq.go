package queue

import (
	"context"
	"encoding/json"

	"Campus/config"
	"Campus/pkg/log"

	"github.com/apache/rocketmq-client-go/v2"
	"github.com/apache/rocketmq-client-go/v2/consumer"
	"github.com/apache/rocketmq-client-go/v2/primitive"
	"github.com/apache/rocketmq-client-go/v2/producer"
	"github.com/apache/rocketmq-client-go/v2/rlog"
	"go.uber.org/zap"
)

func init() {
	rlog.SetLogLevel("error")
}

// 消息体信封，kind 放在体内，worker 端 gjson 取出来路由
type envelope struct {
	Kind    string      `json:"kind"`
	Payload interface{} `json:"payload"`
}

type RocketDispatcher struct {
	producer rocketmq.Producer
	topic    string
}

var _ Dispatcher = (*RocketDispatcher)(nil)

func NewRocketDispatcher(cfg *config.RocketMQConfig) *RocketDispatcher {
	p, err := rocketmq.NewProducer(
		producer.WithNameServer(cfg.NameServer),
		producer.WithGroupName(cfg.Producer.Group),
		producer.WithRetry(2),
	)
	if err != nil {
		log.L.Fatal("init producer error", zap.Error(err))
	}
	if err := p.Start(); err != nil {
		log.L.Fatal("start producer error", zap.Error(err))
	}
	log.L.Info("init producer success")

	return &RocketDispatcher{producer: p, topic: cfg.Topic}
}

func (d *RocketDispatcher) Enqueue(ctx context.Context, kind string, payload interface{}) error {
	body, err := json.Marshal(envelope{Kind: kind, Payload: payload})
	if err != nil {
		return err
	}

	msg := primitive.NewMessage(d.topic, body)
	msg.WithTag(kind)

	_, err = d.producer.SendSync(ctx, msg)
	return err
}

func InitConsumer(cfg *config.RocketMQConfig) rocketmq.PushConsumer {
	c, err := rocketmq.NewPushConsumer(
		consumer.WithNameServer(cfg.NameServer),
		consumer.WithGroupName(cfg.Consumer.Group),
	)
	if err != nil {
		log.L.Fatal("init consumer error", zap.Error(err))
	}

	return c
}
