package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/eq-test-api/internal/dto"
	"github.com/noah-isme/eq-test-api/internal/observability"
)

const (
	resultBufferSize = 16
	// ResultCompletedEvent names events emitted after a result is stored.
	ResultCompletedEvent = "assessment.completed"
)

// ResultPublisher announces stored results.
type ResultPublisher interface {
	Publish(ctx context.Context, result dto.TestResultResponse) error
}

// ResultBroadcaster fans stored results out to local subscribers and, when
// configured, to other nodes through Redis pub/sub and NATS.
type ResultBroadcaster interface {
	ResultPublisher
	Subscribe() (<-chan dto.TestResultResponse, func())
	Start(ctx context.Context)
}

type resultEvent struct {
	Type   string                 `json:"type"`
	Source string                 `json:"source"`
	Result dto.TestResultResponse `json:"result"`
	SentAt time.Time              `json:"sent_at"`
}

type resultBroadcaster struct {
	redis        *redis.Client
	redisChannel string
	nats         *nats.Conn
	natsSubject  string
	logger       zerolog.Logger
	nodeID       string

	mu          sync.RWMutex
	subscribers map[chan dto.TestResultResponse]struct{}
}

// NewResultBroadcaster constructs the broadcaster. redisClient and natsConn are optional.
func NewResultBroadcaster(redisClient *redis.Client, channelBase string, natsConn *nats.Conn, logger zerolog.Logger) ResultBroadcaster {
	channel := ""
	subject := ""
	if channelBase != "" {
		channel = channelBase + ":results"
		subject = strings.ReplaceAll(channelBase, ":", ".") + ".results"
	}

	return &resultBroadcaster{
		redis:        redisClient,
		redisChannel: channel,
		nats:         natsConn,
		natsSubject:  subject,
		logger:       logger.With().Str("component", "result_broadcaster").Logger(),
		nodeID:       uuid.NewString(),
		subscribers:  make(map[chan dto.TestResultResponse]struct{}),
	}
}

func (b *resultBroadcaster) Start(ctx context.Context) {
	if b.redis != nil && b.redisChannel != "" {
		go b.consumeRedis(ctx)
	}
	if b.nats != nil && b.natsSubject != "" {
		go b.consumeNATS(ctx)
	}
}

func (b *resultBroadcaster) Publish(ctx context.Context, result dto.TestResultResponse) error {
	b.broadcast(result)

	if (b.redis == nil || b.redisChannel == "") && (b.nats == nil || b.natsSubject == "") {
		return nil
	}

	payload, err := json.Marshal(resultEvent{
		Type:   ResultCompletedEvent,
		Source: b.nodeID,
		Result: result,
		SentAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	var errs []error
	if b.redis != nil && b.redisChannel != "" {
		if err := b.redis.Publish(ctx, b.redisChannel, payload).Err(); err != nil {
			errs = append(errs, err)
		}
	}
	if b.nats != nil && b.natsSubject != "" {
		if err := b.nats.Publish(b.natsSubject, payload); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (b *resultBroadcaster) Subscribe() (<-chan dto.TestResultResponse, func()) {
	channel := make(chan dto.TestResultResponse, resultBufferSize)

	b.mu.Lock()
	b.subscribers[channel] = struct{}{}
	b.mu.Unlock()
	observability.ResultStreamClients().Inc()

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subscribers, channel)
			close(channel)
			b.mu.Unlock()
			observability.ResultStreamClients().Dec()
		})
	}

	return channel, cleanup
}

func (b *resultBroadcaster) broadcast(result dto.TestResultResponse) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subscribers {
		select {
		case ch <- result:
		default:
		}
	}
}

func (b *resultBroadcaster) consumeRedis(ctx context.Context) {
	pubsub := b.redis.Subscribe(ctx, b.redisChannel)
	defer func() { _ = pubsub.Close() }()

	for {
		msg, err := pubsub.ReceiveMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, redis.ErrClosed) {
				return
			}
			b.logger.Error().Err(err).Msg("result redis subscription closed")
			return
		}
		b.handleEvent([]byte(msg.Payload))
	}
}

func (b *resultBroadcaster) consumeNATS(ctx context.Context) {
	sub, err := b.nats.Subscribe(b.natsSubject, func(msg *nats.Msg) {
		b.handleEvent(msg.Data)
	})
	if err != nil {
		b.logger.Error().Err(err).Msg("failed to subscribe to nats results subject")
		return
	}

	go func() {
		<-ctx.Done()
		if err := sub.Drain(); err != nil {
			b.logger.Warn().Err(err).Msg("failed to drain result nats subscription")
		}
	}()
}

func (b *resultBroadcaster) handleEvent(payload []byte) {
	var event resultEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		b.logger.Warn().Err(err).Msg("invalid result event payload")
		return
	}

	if event.Source == b.nodeID || event.Type != ResultCompletedEvent {
		return
	}

	b.broadcast(event.Result)
}
