package gateway

import (
	"context"

	"github.com/google/uuid"
)

type ChargeRequest struct {
	BookingReference string
	CustomerID       string
	Amount           float64
	Method           string
	CardLastFour     string
}

type ChargeResult struct {
	TransactionID string
	Succeeded     bool
	ErrorMessage  string
}

// Gateway authorizes charges with the payment provider.
type Gateway interface {
	Name() string
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}

// DeclineCardLastFour is the test card that the simulated gateway always
// declines, so the failure path can be exercised end to end.
const DeclineCardLastFour = "0000"

// SimulatedGateway approves every well-formed charge except the decline test
// card. It stands in for a real provider in development and test
// environments.
type SimulatedGateway struct{}

func NewSimulatedGateway() *SimulatedGateway {
	return &SimulatedGateway{}
}

func (g *SimulatedGateway) Name() string {
	return "simulator"
}

func (g *SimulatedGateway) Charge(_ context.Context, req ChargeRequest) (*ChargeResult, error) {
	if req.Amount <= 0 {
		return &ChargeResult{
			Succeeded:    false,
			ErrorMessage: "charge amount must be positive",
		}, nil
	}

	if req.CardLastFour == DeclineCardLastFour {
		return &ChargeResult{
			Succeeded:    false,
			ErrorMessage: "card declined",
		}, nil
	}

	return &ChargeResult{
		TransactionID: uuid.New().String(),
		Succeeded:     true,
	}, nil
}
