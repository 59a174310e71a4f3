package webhook

import (
	"github.com/stripe/stripe-go/v82"
	stripewebhook "github.com/stripe/stripe-go/v82/webhook"
)

// SignatureVerifier validates payloads with the endpoint's signing secret.
type SignatureVerifier struct {
	secret string
}

func NewSignatureVerifier(secret string) *SignatureVerifier {
	return &SignatureVerifier{secret: secret}
}

func (v *SignatureVerifier) Verify(payload []byte, sigHeader string) (stripe.Event, error) {
	return stripewebhook.ConstructEvent(payload, sigHeader, v.secret)
}
