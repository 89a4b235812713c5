package payments

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/worklane/worklane-backend/internal/messaging"
)

// CancellationHandler consumes the payment-cancellation stream and voids
// the intent at the provider. The payload is the bare intent id, no JSON
// envelope (the one asymmetric topic in the contract).
//
// An intent the provider already settled is a terminal success, and the
// local status update is an overwrite, so redelivery converges.
func CancellationHandler(provider Provider, intents *IntentRepository) messaging.Handler {
	return func(ctx context.Context, payload string) error {
		intentID := strings.TrimSpace(payload)
		if intentID == "" {
			return fmt.Errorf("empty cancellation payload")
		}

		err := provider.CancelIntent(ctx, intentID)
		switch {
		case errors.Is(err, ErrIntentFinalized):
			log.Printf("payment-cancellation: intent %s already finalized at provider", intentID)
		case err != nil:
			return fmt.Errorf("void intent %s: %w", intentID, err)
		}

		err = intents.MarkCancelled(ctx, intentID)
		if errors.Is(err, ErrIntentNotFound) {
			log.Printf("payment-cancellation: intent %s not known locally, skipping", intentID)
			return nil
		}
		if err != nil {
			return err
		}

		log.Printf("payment-cancellation: intent %s cancelled", intentID)
		return nil
	}
}
