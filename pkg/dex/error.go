package dex

import "errors"

var (
	errDuplicateOrder    = errors.New("duplicate order")
	errOrderIDNotFound   = errors.New("orderID not found")
	errNonIntegralAmount = errors.New("quantity and price must be integral custody units")
)
