// Package payments wraps the payment processor: creating hosted checkout
// sessions and verifying the signed webhook events the processor pushes back.
//
// The processor is reached through two small interfaces so the service layer
// takes explicitly constructed clients (swappable with fakes in tests) rather
// than a process-wide SDK singleton.
package payments

import (
	"context"
	"errors"
	"math"
)

var (
	// ErrInvalidSignature is returned when a webhook payload fails
	// signature verification against the shared secret.
	ErrInvalidSignature = errors.New("invalid webhook signature")
)

// Metadata keys embedded on every checkout session. The confirmation event
// echoes them back, which is the only link between a deposit request and its
// asynchronous settlement.
const (
	MetadataUserID  = "user_id"
	MetadataGroupID = "group_id"
)

// CheckoutRequest describes one checkout session to create.
type CheckoutRequest struct {
	// AmountCents is the charge amount in minor units.
	AmountCents int64
	// Currency is the ISO currency code (e.g., "usd").
	Currency string
	// UserID and GroupID are embedded as opaque session metadata.
	UserID  string
	GroupID string
}

// CheckoutSession is the processor's handle for a created session.
type CheckoutSession struct {
	// ID is the processor-assigned session identifier.
	ID string
	// URL is the processor-hosted payment page to redirect the user to.
	URL string
}

// CheckoutClient creates hosted checkout sessions.
type CheckoutClient interface {
	// CreateSession creates exactly one checkout session. A timed-out call
	// must not be retried by the caller: the session may have been created
	// and retrying could charge twice.
	CreateSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
}

// CompletedCheckout is the settled payment extracted from a completed-session
// event.
type CompletedCheckout struct {
	SessionID   string
	UserID      string
	GroupID     string
	AmountCents int64
}

// Event is a verified webhook delivery.
type Event struct {
	// ID is the processor's event identifier.
	ID string
	// Type is the processor's event kind (e.g., "checkout.session.completed").
	Type string
	// Checkout is set only for completed-checkout events; nil for every
	// other event kind, which callers acknowledge without side effects.
	Checkout *CompletedCheckout
}

// EventVerifier authenticates and parses raw webhook deliveries. This is the
// trust boundary: the caller is the processor, not an application user, so
// the signature over the exact raw bytes is the only authenticity check.
type EventVerifier interface {
	// VerifyEvent returns ErrInvalidSignature if the payload does not
	// verify against the shared secret.
	VerifyEvent(payload []byte, signatureHeader string) (*Event, error)
}

// Cents converts a decimal dollar amount to minor units, rounding half away
// from zero.
func Cents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
