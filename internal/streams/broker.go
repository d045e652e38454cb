package streams

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/testcontainers/talks-explorer/internal/browse"
)

const BrowseTopic = "talk-browse"

// Stream publishes the browse events of the talks pages to the broker.
type Stream struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// NewStream creates a new stream. It will receive a context, the comma separated seed
// brokers and the topic; an empty topic means BrowseTopic.
func NewStream(ctx context.Context, connStr string, topic string, logger *slog.Logger) (*Stream, error) {
	if topic == "" {
		topic = BrowseTopic
	}
	if logger == nil {
		logger = slog.Default()
	}

	cli, err := kgo.NewClient(
		kgo.SeedBrokers(strings.Split(connStr, ",")...),
		kgo.DefaultProduceTopic(topic),
		kgo.AllowAutoTopicCreation(),
	)
	if err != nil {
		return nil, err
	}

	if err := cli.Ping(ctx); err != nil {
		cli.Close()
		return nil, err
	}

	return &Stream{client: cli, topic: topic, logger: logger}, nil
}

// Topic returns the topic the events are produced to.
func (s *Stream) Topic() string {
	return s.topic
}

// SendEvent sends a browse event to the broker in an asynchronous way, executing a callback
// when the record is produced. It will notify the caller if the operation errored or
// if the context was cancelled.
func (s *Stream) SendEvent(ctx context.Context, event browse.Event, produceCallback func() error) error {
	record, err := s.record(event)
	if err != nil {
		return err
	}

	errChan := make(chan error, 1)

	s.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			errChan <- err
			return
		}

		errChan <- produceCallback()
	})

	// we are actively waiting for an error to be returned or for the context to be cancelled,
	// because we want to notify the caller in those cases
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-errChan:
		return err
	}
}

// Record publishes the event without waiting for the broker. Failures are logged.
func (s *Stream) Record(ctx context.Context, event browse.Event) {
	record, err := s.record(event)
	if err != nil {
		s.logger.Warn("error encoding browse event", "error", err)
		return
	}

	s.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			s.logger.Warn("error producing browse event", "topic", s.topic, "page", event.Page, "error", err)
		}
	})
}

// Flush waits until every produced record is acknowledged.
func (s *Stream) Flush(ctx context.Context) error {
	return s.client.Flush(ctx)
}

// Close flushes the pending records and closes the client.
func (s *Stream) Close(ctx context.Context) {
	if err := s.Flush(ctx); err != nil {
		s.logger.Warn("error flushing browse events", "error", err)
	}
	s.client.Close()
}

func (s *Stream) record(event browse.Event) (*kgo.Record, error) {
	value, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}

	return &kgo.Record{
		Topic: s.topic,
		Key:   []byte(event.Page),
		Value: value,
	}, nil
}
