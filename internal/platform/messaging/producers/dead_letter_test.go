package producers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewDLQMessage(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.FixedZone("WIB", 7*3600))

	t.Run("sale event with labelled reason", func(t *testing.T) {
		value := []byte(`{"sale":{"invoice_number":"INV-9"},"correlation_id":"corr-9"}`)
		msg := newDLQMessage("INV-9", value, "UNKNOWN_ACCOUNT: account 4999 not found", now)

		assert.Equal(t, "INV-9", msg.Key)
		assert.Equal(t, "UNKNOWN_ACCOUNT", msg.Reason)
		assert.Equal(t, "account 4999 not found", msg.Detail)
		assert.JSONEq(t, string(value), string(msg.Payload))
		assert.Empty(t, msg.RawPayload)
		assert.Equal(t, time.UTC, msg.FailedAt.Location())
	})

	t.Run("undecodable payload", func(t *testing.T) {
		msg := newDLQMessage("k", []byte("{not json"), "MALFORMED_PAYLOAD", now)

		assert.Equal(t, "MALFORMED_PAYLOAD", msg.Reason)
		assert.Empty(t, msg.Detail)
		assert.Nil(t, msg.Payload)
		assert.Equal(t, "{not json", msg.RawPayload)
	})
}

func TestDLQProducer_PublishToDLQ(t *testing.T) {
	logger := newTestLogger()
	ctx := context.Background()

	t.Run("writes envelope and headers", func(t *testing.T) {
		mockWriter := new(MockKafkaWriter)
		producer := &DLQProducer{logger: logger, writer: mockWriter, dlqTopic: "sale_transactions_dlq"}
		value := []byte(`{"sale":{"invoice_number":"INV-9"}}`)

		mockWriter.On("WriteMessages", ctx, mock.MatchedBy(func(msgs []kafka.Message) bool {
			if len(msgs) != 1 || string(msgs[0].Key) != "INV-9" {
				return false
			}
			var envelope DLQMessage
			if err := json.Unmarshal(msgs[0].Value, &envelope); err != nil {
				return false
			}
			headers := map[string]string{}
			for _, h := range msgs[0].Headers {
				headers[h.Key] = string(h.Value)
			}
			return envelope.Reason == "INVALID_SALE" &&
				envelope.Detail == "total does not match item sum" &&
				string(envelope.Payload) == string(value) &&
				headers["dlq-reason"] == "INVALID_SALE" &&
				headers["dlq-failed-at"] != ""
		})).Return(nil).Once()

		err := producer.PublishToDLQ(ctx, "INV-9", value, "INVALID_SALE: total does not match item sum")
		require.NoError(t, err)
		mockWriter.AssertExpectations(t)
	})

	t.Run("writer error", func(t *testing.T) {
		mockWriter := new(MockKafkaWriter)
		producer := &DLQProducer{logger: logger, writer: mockWriter, dlqTopic: "sale_transactions_dlq"}
		writerErr := errors.New("not enough replicas")
		mockWriter.On("WriteMessages", ctx, mock.Anything).Return(writerErr).Once()

		err := producer.PublishToDLQ(ctx, "INV-1", []byte(`{}`), "MALFORMED_PAYLOAD")
		assert.ErrorIs(t, err, writerErr)
		assert.ErrorContains(t, err, "sale_transactions_dlq")
	})

	t.Run("disabled producer", func(t *testing.T) {
		withoutWriter := &DLQProducer{logger: logger}
		assert.ErrorIs(t, withoutWriter.PublishToDLQ(ctx, "k", nil, "r"), ErrDLQDisabled)

		var nilProducer *DLQProducer
		assert.ErrorIs(t, nilProducer.PublishToDLQ(ctx, "k", nil, "r"), ErrDLQDisabled)
		assert.NoError(t, nilProducer.Close())
	})
}

func TestDLQProducer_Close(t *testing.T) {
	logger := newTestLogger()

	t.Run("closes writer", func(t *testing.T) {
		mockWriter := new(MockKafkaWriter)
		mockWriter.On("Close").Return(nil).Once()

		producer := &DLQProducer{logger: logger, writer: mockWriter, dlqTopic: "sale_transactions_dlq"}
		assert.NoError(t, producer.Close())
		mockWriter.AssertExpectations(t)
	})

	t.Run("close error", func(t *testing.T) {
		mockWriter := new(MockKafkaWriter)
		closeErr := errors.New("broker gone")
		mockWriter.On("Close").Return(closeErr).Once()

		producer := &DLQProducer{logger: logger, writer: mockWriter, dlqTopic: "sale_transactions_dlq"}
		assert.ErrorIs(t, producer.Close(), closeErr)
	})

	t.Run("no writer", func(t *testing.T) {
		assert.NoError(t, (&DLQProducer{logger: logger}).Close())
	})
}
