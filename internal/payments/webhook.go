package payments

import (
	"encoding/json"
	"fmt"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

// Ensure StripeVerifier implements EventVerifier
var _ EventVerifier = (*StripeVerifier)(nil)

// StripeVerifier implements EventVerifier using Stripe's webhook signature
// scheme (HMAC over the raw payload, carried in the Stripe-Signature header).
type StripeVerifier struct {
	secret string
}

// NewStripeVerifier creates a verifier bound to the shared webhook secret.
func NewStripeVerifier(secret string) *StripeVerifier {
	return &StripeVerifier{secret: secret}
}

// VerifyEvent validates the signature over the raw payload and, for
// completed-checkout events, extracts the settled payment. Events of any
// other kind verify successfully but carry a nil Checkout, so unrecognized
// kinds from the processor's catalog pass through without error.
func (v *StripeVerifier) VerifyEvent(payload []byte, signatureHeader string) (*Event, error) {
	// The API version on the event tracks the Stripe account, not this SDK
	// pin, so a mismatch is not treated as a verification failure.
	stripeEvent, err := webhook.ConstructEventWithOptions(
		payload, signatureHeader, v.secret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	event := &Event{
		ID:   stripeEvent.ID,
		Type: string(stripeEvent.Type),
	}

	if stripeEvent.Type != stripe.EventTypeCheckoutSessionCompleted {
		return event, nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(stripeEvent.Data.Raw, &sess); err != nil {
		return nil, fmt.Errorf("failed to parse checkout session from event %s: %w", stripeEvent.ID, err)
	}

	event.Checkout = &CompletedCheckout{
		SessionID:   sess.ID,
		UserID:      sess.Metadata[MetadataUserID],
		GroupID:     sess.Metadata[MetadataGroupID],
		AmountCents: sess.AmountTotal,
	}

	return event, nil
}
