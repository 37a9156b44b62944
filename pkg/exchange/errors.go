package exchange

import "errors"

// Engine errors, surfaced synchronously to the caller. Every failure names
// the precondition that failed; callers forward these to end users as-is.
var (
	ErrUnknownAsset             = errors.New("unknown asset")
	ErrQuoteAssetNotTradable    = errors.New("quote asset is not tradable")
	ErrInsufficientQuoteBalance = errors.New("insufficient quote balance")
	ErrInsufficientAssetBalance = errors.New("insufficient asset balance")
	ErrInsufficientBalance      = errors.New("insufficient balance")
	ErrExternalTransfer         = errors.New("external transfer failed")
	ErrInvalidAmount            = errors.New("invalid amount")
	ErrInvalidPrice             = errors.New("invalid price")
	ErrDuplicateAsset           = errors.New("asset already registered")
	ErrDuplicateQuoteAsset      = errors.New("quote asset already registered")
)
