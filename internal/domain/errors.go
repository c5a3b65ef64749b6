package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for configuration-level failures. These surface
// during setup, before the tick loop starts.
var (
	ErrUnknownTradeMode       = errors.New("unknown_trade_mode")
	ErrUnknownInsiderStrategy = errors.New("unknown_insider_strategy")
)

// ValidationError reports a malformed Order or OrderRequest. Matching
// never produces one at runtime: an agent emitting an invalid request
// is a programming defect and aborts the run.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
