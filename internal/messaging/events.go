package messaging

// Cross-service facts carried on the streams. These are wire DTOs only and
// are never persisted as entities; each consuming service keeps its own
// local copy of whatever it needs.

// EmployerAccountLinked announces that the payments service provisioned a
// provider account for an employer.
type EmployerAccountLinked struct {
	UserID            string `json:"user_id"`
	EmployerAccountID string `json:"employer_account_id"`
}

// FreelancerAccountLinked announces that the payments service provisioned a
// provider account for a freelancer.
type FreelancerAccountLinked struct {
	UserID              string `json:"user_id"`
	FreelancerAccountID string `json:"freelancer_account_id"`
}

// PaymentIntentLinked announces that the payments service created a payment
// intent for a project.
type PaymentIntentLinked struct {
	ProjectID       string `json:"project_id"`
	PaymentIntentID string `json:"payment_intent_id"`
}

// The payment-cancellation topic carries the bare payment-intent id with no
// JSON envelope. The asymmetry with the other topics is part of the existing
// contract and is kept on purpose; consumers parse accordingly.
