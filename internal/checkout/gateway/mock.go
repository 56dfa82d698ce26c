package gateway

import (
	"context"

	"go.uber.org/zap"

	"parkbooking/internal/domain"
)

const (
	approvedMessage = "Payment processed successfully."
	declinedMessage = "Payment declined by issuer."
)

// Mock approves a charge when the card number ends in an even digit.
type Mock struct {
	logger *zap.Logger
}

func NewMock(logger *zap.Logger) *Mock {
	return &Mock{logger: logger}
}

func (g *Mock) Process(ctx context.Context, req domain.PaymentRequest) (domain.PaymentResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.PaymentResult{}, err
	}

	digits := domain.DigitsOnly(req.CardNumber)
	approved := digits != "" && (digits[len(digits)-1]-'0')%2 == 0

	g.logger.Info("mock gateway charge",
		zap.String("cartId", req.CartID.String()),
		zap.String("amount", req.Amount.String()),
		zap.Bool("approved", approved),
	)

	if approved {
		return domain.PaymentResult{Success: true, Message: approvedMessage}, nil
	}
	return domain.PaymentResult{Success: false, Message: declinedMessage}, nil
}
