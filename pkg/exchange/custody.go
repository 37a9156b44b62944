package exchange

// Custody is the boundary to the external asset-movement collaborator.
// Calls are bounded and synchronous: they either settle or fail, they never
// hang. Failures are surfaced to the caller wrapped in ErrExternalTransfer,
// never retried.
type Custody interface {
	// PullIn moves amount units of ticker from the trader's external account
	// into exchange custody.
	PullIn(trader string, ticker Ticker, amount int64) error

	// PushOut moves amount units of ticker from exchange custody back to the
	// trader's external account.
	PushOut(trader string, ticker Ticker, amount int64) error
}
