package client

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type publishedMessage struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakeChannel struct {
	published []publishedMessage
	err       error
	closed    bool
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, publishedMessage{exchange: exchange, key: key, msg: msg})
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestAMQPPublisher_SendNotification(t *testing.T) {
	ch := &fakeChannel{}
	p := newAMQPPublisherWithChannel(nil, ch, "workflow.notifications", zap.NewNop(), newTestMetrics())

	id := uuid.New()
	err := p.SendNotification(context.Background(), NotificationEvent{
		ID:        id,
		Type:      "aprovacao",
		Recipient: "admin@ideiabh.com",
		Subject:   "Aprovação pendente",
	})
	require.NoError(t, err)

	require.Len(t, ch.published, 1)
	got := ch.published[0]
	assert.Equal(t, "workflow.notifications", got.exchange)
	assert.Equal(t, "notification.aprovacao", got.key)
	assert.Equal(t, "application/json", got.msg.ContentType)
	assert.Equal(t, amqp.Persistent, got.msg.DeliveryMode)
	assert.Equal(t, id.String(), got.msg.MessageId)

	var body NotificationEvent
	require.NoError(t, json.Unmarshal(got.msg.Body, &body))
	assert.Equal(t, "admin@ideiabh.com", body.Recipient)
	assert.NotEmpty(t, body.OccurredAt)
}

func TestAMQPPublisher_BulkReportsFirstError(t *testing.T) {
	ch := &fakeChannel{err: errors.New("channel closed")}
	p := newAMQPPublisherWithChannel(nil, ch, "x", zap.NewNop(), nil)

	err := p.SendBulkNotifications(context.Background(), []NotificationEvent{{Type: "a"}, {Type: "b"}})
	assert.ErrorContains(t, err, "channel closed")
}

func TestAMQPPublisher_Close(t *testing.T) {
	ch := &fakeChannel{}
	p := newAMQPPublisherWithChannel(nil, ch, "x", zap.NewNop(), nil)

	assert.NoError(t, p.Close())
	assert.True(t, ch.closed)
}
