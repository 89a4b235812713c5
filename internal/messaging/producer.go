package messaging

import (
	"context"

	"github.com/worklane/worklane-backend/config"
)

// AccountProducer publishes account-linked facts from the identity service.
// Topic names are resolved from configuration once, at construction.
type AccountProducer struct {
	pub             *Publisher
	employerTopic   string
	freelancerTopic string
}

func NewAccountProducer(pub *Publisher, topics config.TopicsConfig) *AccountProducer {
	return &AccountProducer{
		pub:             pub,
		employerTopic:   topics.EmployerAccountLinked,
		freelancerTopic: topics.FreelancerAccountLinked,
	}
}

func (p *AccountProducer) PublishEmployerAccountLinked(ctx context.Context, ev EmployerAccountLinked) error {
	return p.pub.PublishJSON(ctx, p.employerTopic, ev)
}

func (p *AccountProducer) PublishFreelancerAccountLinked(ctx context.Context, ev FreelancerAccountLinked) error {
	return p.pub.PublishJSON(ctx, p.freelancerTopic, ev)
}

// PaymentProducer publishes payment facts: intent links from the payments
// service and cancellation requests from the marketplace service.
type PaymentProducer struct {
	pub               *Publisher
	intentTopic       string
	cancellationTopic string
}

func NewPaymentProducer(pub *Publisher, topics config.TopicsConfig) *PaymentProducer {
	return &PaymentProducer{
		pub:               pub,
		intentTopic:       topics.PaymentIntentLinked,
		cancellationTopic: topics.PaymentCancellation,
	}
}

func (p *PaymentProducer) PublishPaymentIntentLinked(ctx context.Context, ev PaymentIntentLinked) error {
	return p.pub.PublishJSON(ctx, p.intentTopic, ev)
}

// PublishCancellation puts the bare payment-intent id on the cancellation
// topic. No envelope; see events.go.
func (p *PaymentProducer) PublishCancellation(ctx context.Context, paymentIntentID string) error {
	return p.pub.PublishRaw(ctx, p.cancellationTopic, paymentIntentID)
}
