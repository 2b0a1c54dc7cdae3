package model

import "time"

// CalculationRecord is a successful calculation kept in the local journal.
type CalculationRecord struct {
	CreatedAt   time.Time
	Result      CalculationResult
	ID          string
	DisplayName string
	Request     CalculationRequest
}
