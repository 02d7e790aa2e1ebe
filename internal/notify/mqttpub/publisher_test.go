package mqttpub

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/require"

	"github.com/plipplupp/forecast-to-clothing/internal/config"
	"github.com/plipplupp/forecast-to-clothing/internal/notify"
)

type fakeToken struct {
	done bool
	err  error
}

func (t *fakeToken) Wait() bool                     { return t.done }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return t.done }
func (t *fakeToken) Error() error                   { return t.err }
func (t *fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	if t.done {
		close(ch)
	}
	return ch
}

type published struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

// fakeClient implements the parts of mqtt.Client the publisher uses.
type fakeClient struct {
	mqtt.Client
	connected    bool
	connectToken *fakeToken
	publishToken *fakeToken
	published    []published
	disconnects  int
}

func (c *fakeClient) IsConnected() bool { return c.connected }

func (c *fakeClient) Connect() mqtt.Token {
	if c.connectToken.done && c.connectToken.err == nil {
		c.connected = true
	}
	return c.connectToken
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.published = append(c.published, published{topic, qos, retained, payload.([]byte)})
	return c.publishToken
}

func (c *fakeClient) Disconnect(uint) {
	c.disconnects++
	c.connected = false
}

func newTestPublisher(c *fakeClient) *Publisher {
	p := newPublisher(c, "clothing/recommendation", slog.New(slog.NewTextHandler(io.Discard, nil)))
	p.now = func() time.Time { return time.Date(2024, 5, 1, 6, 0, 0, 0, time.UTC) }
	return p
}

func TestNotify_PublishesRetainedJSON(t *testing.T) {
	c := &fakeClient{connectToken: &fakeToken{done: true}, publishToken: &fakeToken{done: true}}
	p := newTestPublisher(c)

	require.NoError(t, p.Notify(context.Background(), "Dagens Klädprognos", "Det blir varmt."))
	require.Len(t, c.published, 1)

	msg := c.published[0]
	require.Equal(t, "clothing/recommendation", msg.topic)
	require.Equal(t, byte(1), msg.qos)
	require.True(t, msg.retained)

	var got Message
	require.NoError(t, json.Unmarshal(msg.payload, &got))
	require.Equal(t, Message{Date: "2024-05-01", Title: "Dagens Klädprognos", Message: "Det blir varmt."}, got)
}

func TestNotify_ConnectError(t *testing.T) {
	boom := errors.New("connection refused")
	c := &fakeClient{connectToken: &fakeToken{done: true, err: boom}, publishToken: &fakeToken{done: true}}
	p := newTestPublisher(c)

	err := p.Notify(context.Background(), "t", "m")
	require.ErrorIs(t, err, boom)
	require.Empty(t, c.published)
}

func TestNotify_PublishTimeout(t *testing.T) {
	c := &fakeClient{connected: true, connectToken: &fakeToken{done: true}, publishToken: &fakeToken{done: false}}
	p := newTestPublisher(c)

	err := p.Notify(context.Background(), "t", "m")
	require.Error(t, err)
	require.Contains(t, err.Error(), "publish timeout")
}

func TestNotify_PublishError(t *testing.T) {
	boom := errors.New("not authorized")
	c := &fakeClient{connected: true, connectToken: &fakeToken{done: true}, publishToken: &fakeToken{done: true, err: boom}}
	p := newTestPublisher(c)

	require.ErrorIs(t, p.Notify(context.Background(), "t", "m"), boom)
}

func TestConnect_ContextCancelled(t *testing.T) {
	c := &fakeClient{connectToken: &fakeToken{done: false}, publishToken: &fakeToken{done: true}}
	p := newTestPublisher(c)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, p.Connect(ctx), context.Canceled)
	require.Equal(t, 1, c.disconnects)
}

func TestDisconnect_StopsFurtherConnects(t *testing.T) {
	c := &fakeClient{connectToken: &fakeToken{done: true}, publishToken: &fakeToken{done: true}}
	p := newTestPublisher(c)

	p.Disconnect()
	p.Disconnect()
	require.ErrorIs(t, p.Connect(context.Background()), errStopped)
	require.Equal(t, 2, c.disconnects)
}

func TestNotify_UsesRunDateFromContext(t *testing.T) {
	c := &fakeClient{connectToken: &fakeToken{done: true}, publishToken: &fakeToken{done: true}}
	p := newTestPublisher(c)
	p.now = func() time.Time { return time.Date(2024, 5, 2, 0, 0, 1, 0, time.UTC) }

	ctx := notify.WithDate(context.Background(), "2024-05-01")
	require.NoError(t, p.Notify(ctx, "t", "m"))
	require.Len(t, c.published, 1)

	var got Message
	require.NoError(t, json.Unmarshal(c.published[0].payload, &got))
	require.Equal(t, "2024-05-01", got.Date)
}

func TestConnect_GivesUpAfterTimeout(t *testing.T) {
	c := &fakeClient{connectToken: &fakeToken{done: false}, publishToken: &fakeToken{done: true}}
	p := newTestPublisher(c)
	p.connectTimeout = 50 * time.Millisecond

	err := p.Notify(context.Background(), "t", "m")
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Empty(t, c.published)
	require.Equal(t, 1, c.disconnects)
}

func TestNotify_UnreachableBrokerFailsFast(t *testing.T) {
	cfg := config.Config{
		MQTTBroker:   "127.0.0.1",
		MQTTPort:     1,
		MQTTClientID: "forecast-to-clothing-test",
		MQTTTopic:    "clothing/recommendation",
	}
	p := NewPublisher(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(p.Disconnect)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	start := time.Now()
	err := p.Notify(ctx, "t", "m")
	require.Error(t, err)
	require.NotErrorIs(t, err, context.DeadlineExceeded)
	require.Less(t, time.Since(start), connectTimeout)
}
