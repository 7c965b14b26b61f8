// Package timezone pins the reference timezone used for message timestamps
// and retention checks.
package timezone

import (
	"sync/atomic"
	"time"
	_ "time/tzdata" // containers often ship without zoneinfo

	"go.uber.org/zap"
)

const DefaultName = "Asia/Baku"

var location atomic.Pointer[time.Location]

// Init loads the named location. An unknown name falls back to a fixed
// UTC+4 zone, which is what Asia/Baku has observed since 2016.
func Init(name string) {
	if name == "" {
		name = DefaultName
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		zap.L().Warn("unknown timezone, using fixed +04:00", zap.String("timezone", name), zap.Error(err))
		loc = time.FixedZone("+04", 4*60*60)
	}
	location.Store(loc)
}

// Location returns the reference location.
func Location() *time.Location {
	if loc := location.Load(); loc != nil {
		return loc
	}
	Init(DefaultName)
	return location.Load()
}

// Now returns the current time in the reference location.
func Now() time.Time {
	return time.Now().In(Location())
}
