package model

// Tick is a price coordinate in the pool, stored as signed magnitude
// to match the wire encoding. A tick of zero has Negative=false.
type Tick struct {
	Mag      uint64 `json:"mag"`
	Negative bool   `json:"negative"`
}

// TickFromSigned converts a native signed tick into signed-magnitude form.
func TickFromSigned(value int64) Tick {
	if value < 0 {
		return Tick{Mag: uint64(-value), Negative: true}
	}
	return Tick{Mag: uint64(value)}
}

// Signed returns the tick as a native signed integer.
func (t Tick) Signed() int64 {
	if t.Negative {
		return -int64(t.Mag)
	}
	return int64(t.Mag)
}

// Bounds is the tick range of a position. Lower must not exceed Upper.
type Bounds struct {
	Lower Tick `json:"lower"`
	Upper Tick `json:"upper"`
}
