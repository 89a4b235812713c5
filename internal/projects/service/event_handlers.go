package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/worklane/worklane-backend/internal/messaging"
	"github.com/worklane/worklane-backend/internal/projects/domain"
	"github.com/worklane/worklane-backend/internal/projects/repository"
)

// PaymentIntentLinkedHandler consumes payment-intent-linked facts from the
// payments service and stores the intent id on the local project copy.
// Replaying the same fact overwrites with the same value, so duplicate
// deliveries are invisible beyond a log line.
func PaymentIntentLinkedHandler(projects *repository.ProjectRepository) messaging.Handler {
	return func(ctx context.Context, payload string) error {
		var ev messaging.PaymentIntentLinked
		if err := json.Unmarshal([]byte(payload), &ev); err != nil {
			return fmt.Errorf("malformed payment-intent-linked payload: %w", err)
		}
		if ev.ProjectID == "" || ev.PaymentIntentID == "" {
			return fmt.Errorf("payment-intent-linked payload missing fields: %q", payload)
		}

		err := projects.SetPaymentIntent(ctx, ev.ProjectID, ev.PaymentIntentID)
		if errors.Is(err, domain.ErrProjectNotFound) {
			// The project may not have propagated to this service yet.
			log.Printf("payment-intent-linked: project %s not known locally, skipping", ev.ProjectID)
			return nil
		}
		if err != nil {
			return err
		}

		log.Printf("payment-intent-linked: project %s now has intent %s", ev.ProjectID, ev.PaymentIntentID)
		return nil
	}
}
