package utils

import "errors"

// ----------------- drivers ------------------
var (
	ErrUnknownSourceDriver = errors.New("unknown seed source driver")
	ErrUnknownCacheDriver  = errors.New("unknown cache driver")
)
