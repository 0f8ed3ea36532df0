package prep

// Split is the authoritative division of a line's received units between
// local stock and Amazon forwarding.
type Split struct {
	ToStock   int
	ToForward int
}

// SplitReceivedQuantity clamps the confirmed quantity into [0, expectedQty],
// the forwarding quantity into [0, confirmed], and returns the resulting
// split. Downstream components (ledger adjust, aggregation, views) must call
// this instead of re-deriving the arithmetic.
//
// For any inputs, including negative or out-of-range ones:
// ToStock >= 0, ToForward >= 0, ToStock+ToForward == clamp(confirmedQty, 0, expectedQty).
func SplitReceivedQuantity(confirmedQty, expectedQty, forwardIntentQty int) Split {
	confirmed := clampInt(confirmedQty, 0, expectedQty)
	forward := clampInt(forwardIntentQty, 0, confirmed)
	return Split{
		ToStock:   confirmed - forward,
		ToForward: forward,
	}
}

// clampInt limits v to [lo, hi]; when hi < lo the range collapses to lo.
func clampInt(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
