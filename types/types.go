package types

import (
	"math/big"
)

// Direction identifies which venue takes the buy leg of a round trip.
type Direction int

const (
	// PathA buys on venue 1 and sells on venue 2.
	PathA Direction = iota
	// PathB buys on venue 2 and sells on venue 1.
	PathB
)

// PathOutcome is the result of evaluating one round-trip path in a cycle.
// Amounts are in base units: Start, Back, Gross and Net at the base asset's
// scale, Intermediate at the intermediate asset's scale. Gross and Net are
// signed.
type PathOutcome struct {
	Direction    Direction
	Label        string
	BuyVenue     string
	SellVenue    string
	Start        *big.Int
	Intermediate *big.Int
	Back         *big.Int
	Gross        *big.Int
	Net          *big.Int
}

// CycleDecision is the best outcome of a polling cycle. Outcome is nil when
// both paths failed to quote; Opportunity is true only when the selected net
// strictly exceeds the configured threshold.
type CycleDecision struct {
	Outcome     *PathOutcome
	Opportunity bool
}
