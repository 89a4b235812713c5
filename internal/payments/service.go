package payments

import (
	"context"
	"fmt"
	"log"

	"github.com/worklane/worklane-backend/internal/messaging"
)

// AccountService provisions provider accounts and announces the link on the
// account-linked streams. Publishing is a synchronous step of the use case:
// when the fact cannot be put on the wire the whole operation fails, even
// though the provider account may already exist upstream. Re-running the
// use case re-publishes and converges.
type AccountService struct {
	provider Provider
	producer *messaging.AccountProducer
}

func NewAccountService(provider Provider, producer *messaging.AccountProducer) *AccountService {
	return &AccountService{
		provider: provider,
		producer: producer,
	}
}

// CreateEmployerAccount provisions an employer account for the user.
func (s *AccountService) CreateEmployerAccount(ctx context.Context, userID string) (string, error) {
	accountID, err := s.provider.CreateAccount(ctx, userID, RoleEmployer)
	if err != nil {
		return "", fmt.Errorf("create employer account: %w", err)
	}

	err = s.producer.PublishEmployerAccountLinked(ctx, messaging.EmployerAccountLinked{
		UserID:            userID,
		EmployerAccountID: accountID,
	})
	if err != nil {
		return "", fmt.Errorf("announce employer account: %w", err)
	}

	return accountID, nil
}

// CreateFreelancerAccount provisions a freelancer account for the user.
func (s *AccountService) CreateFreelancerAccount(ctx context.Context, userID string) (string, error) {
	accountID, err := s.provider.CreateAccount(ctx, userID, RoleFreelancer)
	if err != nil {
		return "", fmt.Errorf("create freelancer account: %w", err)
	}

	err = s.producer.PublishFreelancerAccountLinked(ctx, messaging.FreelancerAccountLinked{
		UserID:              userID,
		FreelancerAccountID: accountID,
	})
	if err != nil {
		return "", fmt.Errorf("announce freelancer account: %w", err)
	}

	return accountID, nil
}

// IntentService creates escrow intents at the provider, records them
// locally and announces the link so the marketplace service can store the
// intent id on its project copy.
type IntentService struct {
	provider Provider
	intents  *IntentRepository
	producer *messaging.PaymentProducer
}

func NewIntentService(provider Provider, intents *IntentRepository, producer *messaging.PaymentProducer) *IntentService {
	return &IntentService{
		provider: provider,
		intents:  intents,
		producer: producer,
	}
}

// CreateIntent places an escrow hold for the project.
func (s *IntentService) CreateIntent(ctx context.Context, projectID string, amount float64) (*PaymentIntent, error) {
	intentID, err := s.provider.CreateIntent(ctx, projectID, amount)
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}

	intent := &PaymentIntent{
		ID:        intentID,
		ProjectID: projectID,
		Amount:    amount,
	}
	if err := s.intents.Create(ctx, intent); err != nil {
		return nil, err
	}

	err = s.producer.PublishPaymentIntentLinked(ctx, messaging.PaymentIntentLinked{
		ProjectID:       projectID,
		PaymentIntentID: intentID,
	})
	if err != nil {
		return nil, fmt.Errorf("announce payment intent: %w", err)
	}

	log.Printf("payment intent %s created for project %s", intentID, projectID)
	return intent, nil
}
