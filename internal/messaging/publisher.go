package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// payloadField is the single stream field every record is carried in.
const payloadField = "payload"

// Publisher appends records to Redis streams. It holds one long-lived
// client and is safe for concurrent use from multiple request contexts.
//
// Publish failures are returned to the caller, never swallowed: the use
// case that triggered the publish must be reported as failed when the fact
// could not be put on the wire.
type Publisher struct {
	client *redis.Client
}

func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// PublishJSON serializes v and appends it to the stream.
func (p *Publisher) PublishJSON(ctx context.Context, stream string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal event for %s: %w", stream, err)
	}
	return p.publish(ctx, stream, string(data))
}

// PublishRaw appends a bare string payload to the stream, with no envelope.
func (p *Publisher) PublishRaw(ctx context.Context, stream, payload string) error {
	return p.publish(ctx, stream, payload)
}

func (p *Publisher) publish(ctx context.Context, stream, payload string) error {
	err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]any{payloadField: payload},
	}).Err()
	if err != nil {
		return fmt.Errorf("publish to %s: %w", stream, err)
	}
	return nil
}
