package messaging

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Handler processes one record's payload. Returning an error marks the
// record as unprocessable; the consumer logs it and moves on. Handlers must
// be idempotent because delivery is at-least-once.
type Handler func(ctx context.Context, payload string) error

// Consumer runs one single-threaded pull loop over one stream, as part of a
// consumer group: read one record, handle it, ack it, repeat. The loop only
// exits when ctx is cancelled; handler failures and connection failures
// never terminate it.
type Consumer struct {
	client  *redis.Client
	stream  string
	group   string
	name    string
	handler Handler

	// BlockTimeout bounds each XREADGROUP call so the loop can observe
	// cancellation between records.
	BlockTimeout time.Duration
	// RetryBackoff is slept after a connection-level failure before
	// resubscribing.
	RetryBackoff time.Duration
}

func NewConsumer(client *redis.Client, stream, group, name string, handler Handler) *Consumer {
	return &Consumer{
		client:       client,
		stream:       stream,
		group:        group,
		name:         name,
		handler:      handler,
		BlockTimeout: 5 * time.Second,
		RetryBackoff: 2 * time.Second,
	}
}

// Run blocks until ctx is cancelled. Call it on its own goroutine, one per
// topic per process; the consumer owns its execution context exclusively
// and must not be invoked reentrantly.
func (c *Consumer) Run(ctx context.Context) {
	if err := c.ensureGroup(ctx); err != nil {
		log.Printf("consumer %s: create group failed: %v", c.stream, err)
	}

	log.Printf("consumer %s: started (group=%s)", c.stream, c.group)

	for {
		if ctx.Err() != nil {
			log.Printf("consumer %s: stopped", c.stream)
			return
		}

		res, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.group,
			Consumer: c.name,
			Streams:  []string{c.stream, ">"},
			Count:    1,
			Block:    c.BlockTimeout,
		}).Result()

		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue // block timeout, nothing new
			}
			if ctx.Err() != nil {
				log.Printf("consumer %s: stopped", c.stream)
				return
			}
			// Connection-level failure: back off and resubscribe instead of
			// terminating the process.
			log.Printf("consumer %s: read failed: %v", c.stream, err)
			if err := c.ensureGroup(ctx); err != nil && ctx.Err() == nil {
				log.Printf("consumer %s: create group failed: %v", c.stream, err)
			}
			select {
			case <-ctx.Done():
			case <-time.After(c.RetryBackoff):
			}
			continue
		}

		for _, stream := range res {
			for _, msg := range stream.Messages {
				c.process(ctx, msg)
			}
		}
	}
}

// process handles one record and acks it. A record is only left unacked
// when cancellation interrupted the handler, so it is redelivered after a
// restart rather than silently lost.
func (c *Consumer) process(ctx context.Context, msg redis.XMessage) {
	payload, ok := msg.Values[payloadField].(string)
	if !ok {
		log.Printf("consumer %s: record %s has no %s field, discarding", c.stream, msg.ID, payloadField)
		c.ack(ctx, msg.ID)
		return
	}

	if err := c.handler(ctx, payload); err != nil {
		if ctx.Err() != nil {
			// Do not commit a record the handler did not finish.
			return
		}
		// Poison records and unresolvable references are logged and
		// discarded; there is no dead-letter stream in the current design.
		log.Printf("consumer %s: record %s discarded: %v", c.stream, msg.ID, err)
	}

	c.ack(ctx, msg.ID)
}

func (c *Consumer) ack(ctx context.Context, id string) {
	if err := c.client.XAck(ctx, c.stream, c.group, id).Err(); err != nil && ctx.Err() == nil {
		log.Printf("consumer %s: ack %s failed: %v", c.stream, id, err)
	}
}

func (c *Consumer) ensureGroup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.stream, c.group, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return err
	}
	return nil
}
