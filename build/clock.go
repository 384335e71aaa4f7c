package build

import "github.com/raulk/clock"

// Clock is the global clock for the system. In standard builds,
// we use a real-time clock, which maps to the `time` package.
//
// Components take a clock.Clock and default to this one; tests that need
// control of time pass clock.NewMock() instead of mutating this variable.
// Always use real time for socket/stream deadlines.
var Clock = clock.New()
