// Package transport binds the service to its event log. The log is a Redis
// Streams deployment: ordered per stream, at-least-once via consumer groups.
package transport

import "context"

// Stream entry field carrying the JSON-encoded message body.
const payloadField = "payload"

// Publisher appends a message to a stream and returns the assigned entry ID,
// which callers log as the message offset.
type Publisher interface {
	Publish(ctx context.Context, stream string, payload any) (string, error)
}

// Handler processes one raw message body. A nil return acknowledges the
// message as consumed; an error routes it to the dead-letter stream before
// acknowledgement. Handlers are never retried by the consumer.
type Handler func(ctx context.Context, body []byte) error
