package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/worklane/worklane-backend/internal/messaging"
)

// EmployerAccountLinkedHandler consumes employer-account-linked facts and
// stores the provider account id on the local profile. The write is an
// idempotent overwrite; a profile that has not propagated here yet is
// logged and skipped, never an error that would stall the stream.
func EmployerAccountLinkedHandler(profiles *ProfileRepository) messaging.Handler {
	return func(ctx context.Context, payload string) error {
		var ev messaging.EmployerAccountLinked
		if err := json.Unmarshal([]byte(payload), &ev); err != nil {
			return fmt.Errorf("malformed employer-account-linked payload: %w", err)
		}
		if ev.UserID == "" || ev.EmployerAccountID == "" {
			return fmt.Errorf("employer-account-linked payload missing fields: %q", payload)
		}

		err := profiles.SetEmployerAccountID(ctx, ev.UserID, ev.EmployerAccountID)
		if errors.Is(err, ErrProfileNotFound) {
			log.Printf("employer-account-linked: profile %s not known locally, skipping", ev.UserID)
			return nil
		}
		if err != nil {
			return err
		}

		log.Printf("employer-account-linked: profile %s linked to %s", ev.UserID, ev.EmployerAccountID)
		return nil
	}
}

// FreelancerAccountLinkedHandler is the freelancer-side twin of
// EmployerAccountLinkedHandler.
func FreelancerAccountLinkedHandler(profiles *ProfileRepository) messaging.Handler {
	return func(ctx context.Context, payload string) error {
		var ev messaging.FreelancerAccountLinked
		if err := json.Unmarshal([]byte(payload), &ev); err != nil {
			return fmt.Errorf("malformed freelancer-account-linked payload: %w", err)
		}
		if ev.UserID == "" || ev.FreelancerAccountID == "" {
			return fmt.Errorf("freelancer-account-linked payload missing fields: %q", payload)
		}

		err := profiles.SetFreelancerAccountID(ctx, ev.UserID, ev.FreelancerAccountID)
		if errors.Is(err, ErrProfileNotFound) {
			log.Printf("freelancer-account-linked: profile %s not known locally, skipping", ev.UserID)
			return nil
		}
		if err != nil {
			return err
		}

		log.Printf("freelancer-account-linked: profile %s linked to %s", ev.UserID, ev.FreelancerAccountID)
		return nil
	}
}
