package calc

import "github.com/pkg/errors"

var (
	ErrInvalidLeverage             = errors.New("invalid leverage")
	ErrBelowMinimumStake           = errors.New("below minimum stake")
	ErrShortLiquidationUnsupported = errors.New("short-side liquidation price is not estimated")
	ErrInvalidInput                = errors.New("invalid input")
)
