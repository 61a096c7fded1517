package payment

import (
	"math/rand"

	"zeropay/internal/models"
)

// SettlementPolicy decides the terminal status of a pending payment. The
// service guarantees the policy runs at most once per transaction.
type SettlementPolicy interface {
	Settle(tx *models.Transaction) string
}

// RandomPolicy settles to success with a fixed probability, simulating an
// upstream payment network.
type RandomPolicy struct {
	SuccessRate float64
}

// DefaultPolicy mirrors the gateway's historical 80% success simulation.
func DefaultPolicy() RandomPolicy {
	return RandomPolicy{SuccessRate: 0.8}
}

func (p RandomPolicy) Settle(*models.Transaction) string {
	if rand.Float64() < p.SuccessRate {
		return models.StatusSuccess
	}
	return models.StatusFailed
}

// FixedPolicy always settles to the given status. Used in tests and sandbox
// tooling.
type FixedPolicy struct {
	Status string
}

func (p FixedPolicy) Settle(*models.Transaction) string {
	return p.Status
}
