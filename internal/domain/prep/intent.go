package prep

import (
	"strconv"
	"strings"
)

// Legacy encoded forms of the per-line forwarding decision. Rows written
// before the explicit boolean/quantity pair existed only carry this string.
const (
	ActionHoldForPrep    = "hold_for_prep"
	ActionDirectToAmazon = "direct_to_amazon"
)

// Intent is the decoded forwarding decision of a receiving line.
type Intent struct {
	Forward  bool
	Quantity int  // units earmarked for Amazon, always >= 0
	Hint     *int // quantity hint recovered from the legacy string, if any
}

// ResolveForwardingIntent decodes a line's forwarding intent from the
// explicit pair and the legacy string. The explicit boolean, when present,
// is authoritative for "is forwarding"; the legacy string only hints the
// quantity when the explicit quantity is absent or zero.
//
// This is the single decode point: list views, aggregation and confirmation
// all go through here so the two representations can never diverge in
// interpretation.
func ResolveForwardingIntent(forwardToAmazon *bool, forwardQty int, remainingAction string) Intent {
	legacyForward, hint := parseRemainingAction(remainingAction)

	out := Intent{Hint: hint}
	if forwardToAmazon != nil {
		out.Forward = *forwardToAmazon
	} else {
		out.Forward = legacyForward
	}

	if forwardQty > 0 {
		out.Quantity = forwardQty
	}
	if out.Forward && out.Quantity == 0 && hint != nil {
		out.Quantity = *hint
	}
	return out
}

// EncodeForwardingIntent produces the legacy string form. Exact inverse of
// the decode rule for every value it can produce.
func EncodeForwardingIntent(isForwarding bool, quantity int) string {
	if !isForwarding {
		return ActionHoldForPrep
	}
	if quantity > 0 {
		return ActionDirectToAmazon + ":" + strconv.Itoa(quantity)
	}
	return ActionDirectToAmazon
}

// parseRemainingAction decodes the legacy string. "hold_for_prep" and any
// unrecognized value mean not-forwarding; "direct_to_amazon" optionally
// suffixed with ":<positive integer>" means forwarding with that hint.
func parseRemainingAction(s string) (forward bool, hint *int) {
	if s == ActionDirectToAmazon {
		return true, nil
	}
	if rest, ok := strings.CutPrefix(s, ActionDirectToAmazon+":"); ok {
		n, err := strconv.Atoi(rest)
		if err != nil || n <= 0 {
			return false, nil
		}
		return true, &n
	}
	return false, nil
}
