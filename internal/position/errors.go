package position

import "errors"

// Errors returned by the simulated feed
var (
	ErrSimulatorNotRunning     = errors.New("simulator is not running")
	ErrSimulatorAlreadyRunning = errors.New("simulator is already running")
	ErrInvalidUpdateInterval   = errors.New("update interval must be positive")
	ErrInvalidSatelliteCount   = errors.New("number of satellites must be between 0 and 24")
	ErrInvalidJitter           = errors.New("jitter must be non-negative")
	ErrInvalidSpeed            = errors.New("speed must be non-negative")
)
