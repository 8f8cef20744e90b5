package payments

import (
	"context"
	"fmt"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

// Ensure StripeClient implements CheckoutClient
var _ CheckoutClient = (*StripeClient)(nil)

// StripeClient implements CheckoutClient against the Stripe API.
type StripeClient struct {
	api        *client.API
	successURL string
	cancelURL  string
}

// NewStripeClient creates a Stripe-backed checkout client. successURL and
// cancelURL are where Stripe sends the user after the hosted checkout page.
func NewStripeClient(apiKey, successURL, cancelURL string) *StripeClient {
	return &StripeClient{
		api:        client.New(apiKey, nil),
		successURL: successURL,
		cancelURL:  cancelURL,
	}
}

// CreateSession creates one hosted checkout session with the user and group
// IDs attached as opaque metadata.
func (c *StripeClient) CreateSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(req.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String("Group Contribution"),
					},
					UnitAmount: stripe.Int64(req.AmountCents),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(c.successURL),
		CancelURL:  stripe.String(c.cancelURL),
	}
	params.Context = ctx
	params.AddMetadata(MetadataUserID, req.UserID)
	params.AddMetadata(MetadataGroupID, req.GroupID)

	sess, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	return &CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}
