package region

import "github.com/pkg/errors"

// Errors returned by the channel table and selection operations.
var (
	ErrInvalidChannelID            = errors.New("invalid channel id")
	ErrInvalidFrequency            = errors.New("invalid frequency")
	ErrInvalidDatarate             = errors.New("invalid data-rate")
	ErrInvalidFrequencyAndDatarate = errors.New("invalid frequency and data-rate")
	ErrUnsupported                 = errors.New("not supported by region")
	ErrDatarateNotSupported        = errors.New("data-rate not supported by any enabled channel")
	ErrNoFreeChannel               = errors.New("no free channel found")
	ErrRadioBusy                   = errors.New("radio is not idle")
	ErrUnknownProfile              = errors.New("unknown region profile")
)
