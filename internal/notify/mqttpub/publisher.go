// Package mqttpub publishes the daily recommendation as a retained MQTT
// message so dashboards and home automation can pick it up.
package mqttpub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/plipplupp/forecast-to-clothing/internal/config"
	"github.com/plipplupp/forecast-to-clothing/internal/notify"
	"github.com/plipplupp/forecast-to-clothing/internal/recommendation/types"
)

const (
	connectTimeout = 10 * time.Second
	publishTimeout = 5 * time.Second
)

var errStopped = errors.New("publisher stopped")

// Message is the JSON payload published on the recommendation topic.
type Message struct {
	Date    string `json:"date"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

type Publisher struct {
	client mqtt.Client
	topic  string
	logger *slog.Logger
	now    func() time.Time

	connectTimeout time.Duration

	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewPublisher(cfg config.Config, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "mqttpub")

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.MQTTBroker, cfg.MQTTPort))
	opts.SetClientID(cfg.MQTTClientID)
	opts.SetCleanSession(true)

	// One connect attempt per run: a refused broker surfaces as an error.
	opts.SetConnectRetry(false)
	opts.SetConnectTimeout(connectTimeout)
	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(60 * time.Second)

	opts.SetKeepAlive(30 * time.Second)
	opts.SetPingTimeout(10 * time.Second)

	opts.SetOnConnectHandler(func(_ mqtt.Client) {
		logger.Info("mqtt connected", "broker", cfg.MQTTBroker, "port", cfg.MQTTPort)
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logger.Warn("mqtt connection lost", "error", err)
	})

	return newPublisher(mqtt.NewClient(opts), cfg.MQTTTopic, logger)
}

func newPublisher(client mqtt.Client, topic string, logger *slog.Logger) *Publisher {
	return &Publisher{
		client: client,
		topic:  topic,
		logger: logger,
		now:    time.Now,
		stopCh: make(chan struct{}),

		connectTimeout: connectTimeout,
	}
}

// Connect waits for the broker connection, honouring ctx and Disconnect.
// It gives up after the connect timeout even when ctx has no deadline.
func (p *Publisher) Connect(ctx context.Context) error {
	select {
	case <-p.stopCh:
		return errStopped
	default:
	}
	if p.client.IsConnected() {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, p.connectTimeout)
	defer cancel()

	token := p.client.Connect()
	const poll = 200 * time.Millisecond
	for {
		if token.WaitTimeout(poll) {
			if err := token.Error(); err != nil {
				return fmt.Errorf("mqtt connect: %w", err)
			}
			return nil
		}
		select {
		case <-ctx.Done():
			p.client.Disconnect(0)
			return fmt.Errorf("mqtt connect: %w", ctx.Err())
		case <-p.stopCh:
			p.client.Disconnect(0)
			return errStopped
		default:
		}
	}
}

// Notify publishes the recommendation retained at QoS 1, connecting first
// if needed. The payload date comes from notify.WithDate when set.
func (p *Publisher) Notify(ctx context.Context, title, message string) error {
	if err := p.Connect(ctx); err != nil {
		return err
	}

	date, ok := notify.DateFromContext(ctx)
	if !ok {
		date = types.DateOf(p.now())
	}
	data, err := json.Marshal(Message{
		Date:    date,
		Title:   title,
		Message: message,
	})
	if err != nil {
		return fmt.Errorf("marshal recommendation: %w", err)
	}

	token := p.client.Publish(p.topic, 1, true, data)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish timeout for topic %s", p.topic)
	}
	if err := token.Error(); err != nil {
		p.logger.Error("failed to publish recommendation", "topic", p.topic, "error", err)
		return fmt.Errorf("publish recommendation: %w", err)
	}

	p.logger.Info("published recommendation", "topic", p.topic, "size", len(data))
	return nil
}

// Disconnect closes the connection. Safe to call more than once.
func (p *Publisher) Disconnect() {
	p.stopOnce.Do(func() { close(p.stopCh) })
	if p.client != nil {
		p.client.Disconnect(250)
	}
	p.logger.Info("mqtt disconnected")
}
