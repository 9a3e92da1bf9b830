package service

import (
	"fmt"
	"os"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/paymentintent"
	"go.uber.org/zap"

	"optivolt/internal/db"
)

// PaymentService simulates the online payment leg. With a Stripe test key
// configured it creates a PaymentIntent so the flow exercises a real gateway
// round-trip; without one it fabricates a local reference. Either way the
// charge is treated as settled immediately; there is no webhook
// reconciliation or refund path.
type PaymentService struct {
	log *zap.Logger
}

func NewPaymentService(log *zap.Logger) *PaymentService {
	return &PaymentService{log: log}
}

func (s *PaymentService) ProcessOnline(b *db.Booking, customerEmail string) (string, error) {
	key := os.Getenv("STRIPE_SECRET_KEY")
	if key == "" {
		ref := fmt.Sprintf("SIM-%d", b.ID)
		s.log.Info("simulated online payment", zap.Int("booking_id", b.ID), zap.String("ref", ref))
		return ref, nil
	}

	stripe.Key = key
	params := &stripe.PaymentIntentParams{
		Amount:       stripe.Int64(int64(b.TotalPrice * 100)),
		Currency:     stripe.String("mad"),
		ReceiptEmail: stripe.String(customerEmail),
		Description:  stripe.String(fmt.Sprintf("OptiVolt booking #%d", b.ID)),
	}
	intent, err := paymentintent.New(params)
	if err != nil {
		return "", fmt.Errorf("create payment intent for booking %d: %w", b.ID, err)
	}
	s.log.Info("payment intent created", zap.Int("booking_id", b.ID), zap.String("intent_id", intent.ID))
	return intent.ID, nil
}
