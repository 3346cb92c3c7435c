package transport

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/assignment-service/internal/config"
)

// Consumer reads a stream through a consumer group and feeds each entry to a
// Handler. Delivery is at-least-once: an entry is acknowledged only after the
// handler ran, and an entry the handler rejects is copied to the dead-letter
// stream before being acknowledged, so nothing is silently lost.
type Consumer struct {
	client  *redis.Client
	cfg     config.TransportConfig
	logger  *zap.Logger
	handler Handler
}

// NewConsumer creates a consumer for the ticket-created stream.
func NewConsumer(client *redis.Client, cfg config.TransportConfig, logger *zap.Logger, handler Handler) *Consumer {
	return &Consumer{client: client, cfg: cfg, logger: logger, handler: handler}
}

// Run blocks until ctx is cancelled. It ensures the consumer group exists and
// then reads with the configured number of workers. Entries across workers
// may be handled out of order; the intake handler does not depend on order.
func (c *Consumer) Run(ctx context.Context) error {
	if err := c.ensureGroup(ctx); err != nil {
		return err
	}

	workers := c.cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		name := fmt.Sprintf("%s-%d", c.cfg.ConsumerName, i)
		go func() {
			defer wg.Done()
			c.readLoop(ctx, name)
		}()
	}
	wg.Wait()
	return nil
}

func (c *Consumer) ensureGroup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.cfg.TicketCreatedStream, c.cfg.ConsumerGroup, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("create consumer group: %w", err)
	}
	return nil
}

func (c *Consumer) readLoop(ctx context.Context, consumerName string) {
	for {
		if ctx.Err() != nil {
			return
		}
		streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.cfg.ConsumerGroup,
			Consumer: consumerName,
			Streams:  []string{c.cfg.TicketCreatedStream, ">"},
			Count:    1,
			Block:    c.cfg.BlockTimeout(),
		}).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Error("read from stream", zap.String("stream", c.cfg.TicketCreatedStream), zap.Error(err))
			time.Sleep(time.Second)
			continue
		}

		for _, stream := range streams {
			for _, message := range stream.Messages {
				c.handleMessage(ctx, message)
			}
		}
	}
}

func (c *Consumer) handleMessage(ctx context.Context, message redis.XMessage) {
	body, ok := message.Values[payloadField].(string)
	if !ok {
		c.logger.Warn("stream entry missing payload field", zap.String("entry_id", message.ID))
		c.deadLetter(ctx, message.ID, "", "missing payload field")
		c.ack(ctx, message.ID)
		return
	}

	if err := c.handler(ctx, []byte(body)); err != nil {
		c.logger.Warn("event rejected",
			zap.String("entry_id", message.ID),
			zap.Error(err))
		c.deadLetter(ctx, message.ID, body, err.Error())
	}
	c.ack(ctx, message.ID)
}

func (c *Consumer) ack(ctx context.Context, entryID string) {
	if err := c.client.XAck(ctx, c.cfg.TicketCreatedStream, c.cfg.ConsumerGroup, entryID).Err(); err != nil {
		c.logger.Error("ack stream entry", zap.String("entry_id", entryID), zap.Error(err))
	}
}

func (c *Consumer) deadLetter(ctx context.Context, entryID, body, reason string) {
	if c.cfg.DeadLetterStream == "" {
		return
	}
	err := c.client.XAdd(ctx, &redis.XAddArgs{
		Stream: c.cfg.DeadLetterStream,
		Values: map[string]any{
			payloadField: body,
			"source":     c.cfg.TicketCreatedStream,
			"entry_id":   entryID,
			"reason":     reason,
		},
	}).Err()
	if err != nil {
		c.logger.Error("dead-letter stream entry", zap.String("entry_id", entryID), zap.Error(err))
	}
}
