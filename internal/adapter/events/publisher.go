package events

import "context"

// Publisher emits domain events after the corresponding transaction has
// committed. Publishing is best effort: a failed publish is logged by the
// caller and never rolls back the ledger.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
	Close() error
}

type NoOpPublisher struct{}

func NewNoOpPublisher() *NoOpPublisher {
	return &NoOpPublisher{}
}

func (*NoOpPublisher) Publish(context.Context, string, any) error { return nil }

func (*NoOpPublisher) Close() error { return nil }
