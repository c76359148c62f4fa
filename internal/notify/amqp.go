package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"skill-alert/internal/config"
)

const (
	RoutingKeyMatch  = "notification.match"
	RoutingKeyDigest = "notification.digest"
)

var ErrNotConnected = errors.New("amqp notifier not connected")

// Publisher is the part of *amqp.Channel the notifier uses.
type Publisher interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type dialFunc func() (Publisher, func() error, error)

// AMQPNotifier publishes notifications as persistent JSON messages on a
// topic exchange. A mailer consumes them from the bound queue. When built
// by DialAMQP a lost connection is re-established on the next publish.
type AMQPNotifier struct {
	exchange string
	mu       sync.Mutex
	pub      Publisher
	closer   func() error
	redial   dialFunc
	logger   *zap.Logger
}

func NewAMQPNotifier(pub Publisher, exchange string, logger *zap.Logger) *AMQPNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AMQPNotifier{exchange: exchange, pub: pub, logger: logger}
}

// DialAMQP connects to the broker and declares the exchange, the queue and
// the binding for every notification routing key.
func DialAMQP(cfg config.AMQPConfig, logger *zap.Logger) (*AMQPNotifier, error) {
	n := NewAMQPNotifier(nil, cfg.Exchange, logger)
	n.redial = func() (Publisher, func() error, error) { return n.connect(cfg) }

	pub, closer, err := n.redial()
	if err != nil {
		return nil, err
	}
	n.pub, n.closer = pub, closer
	return n, nil
}

func (n *AMQPNotifier) connect(cfg config.AMQPConfig) (Publisher, func() error, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("dial amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("open amqp channel: %w", err)
	}
	fail := func(err error) (Publisher, func() error, error) {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, err
	}

	if err := ch.ExchangeDeclare(
		cfg.Exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return fail(fmt.Errorf("declare exchange %s: %w", cfg.Exchange, err))
	}
	if cfg.Queue != "" {
		if _, err := ch.QueueDeclare(cfg.Queue, true, false, false, false, nil); err != nil {
			return fail(fmt.Errorf("declare queue %s: %w", cfg.Queue, err))
		}
		if err := ch.QueueBind(cfg.Queue, "notification.#", cfg.Exchange, false, nil); err != nil {
			return fail(fmt.Errorf("bind queue %s: %w", cfg.Queue, err))
		}
	}

	go n.watch(ch, conn.NotifyClose(make(chan *amqp.Error, 1)))

	return ch, func() error {
		_ = ch.Close()
		return conn.Close()
	}, nil
}

// watch drops pub once its connection closes so the next publish redials.
func (n *AMQPNotifier) watch(pub Publisher, closed <-chan *amqp.Error) {
	reason, ok := <-closed

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.pub != pub {
		return
	}
	n.pub, n.closer = nil, nil
	if ok && reason != nil {
		n.logger.Warn("amqp connection lost", zap.Int("code", reason.Code), zap.String("reason", reason.Reason))
	}
}

func (n *AMQPNotifier) NotifyMatch(ctx context.Context, msg MatchMessage) error {
	if err := msg.validate(); err != nil {
		return err
	}
	msg.Type = TypeMatch
	return n.publish(ctx, RoutingKeyMatch, msg.MatchID.String(), msg)
}

func (n *AMQPNotifier) NotifyDigest(ctx context.Context, msg DigestMessage) error {
	if err := msg.validate(); err != nil {
		return err
	}
	msg.Type = TypeDigest
	return n.publish(ctx, RoutingKeyDigest, msg.Recipient.UserID.String(), msg)
}

func (n *AMQPNotifier) publish(ctx context.Context, key, messageID string, body any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.pub == nil {
		if n.redial == nil {
			return fmt.Errorf("publish %s: %w", key, ErrNotConnected)
		}
		pub, closer, err := n.redial()
		if err != nil {
			return fmt.Errorf("publish %s: reconnect: %w", key, err)
		}
		n.pub, n.closer = pub, closer
		n.logger.Info("amqp reconnected")
	}

	err = n.pub.Publish(n.exchange, key, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    messageID,
		Body:         b,
	})
	if err != nil {
		n.dropLocked()
		return fmt.Errorf("publish %s: %w", key, err)
	}
	n.logger.Debug("notification published", zap.String("routing_key", key), zap.String("message_id", messageID))
	return nil
}

// dropLocked discards a failed connection when it can be redialed.
func (n *AMQPNotifier) dropLocked() {
	if n.redial == nil {
		return
	}
	if n.closer != nil {
		_ = n.closer()
	}
	n.pub, n.closer = nil, nil
}

func (n *AMQPNotifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.redial = nil
	var err error
	if n.closer != nil {
		err = n.closer()
	}
	n.pub, n.closer = nil, nil
	return err
}
