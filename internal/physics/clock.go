package physics

import "math"

// Clock turns variable frame times into a whole number of fixed steps.
// The zero Clock is disabled and the caller should step once per frame with
// the frame delta.
type Clock struct {
	Step     float64 // fixed step in seconds; 0 disables the clock
	MaxSteps int     // upper bound per Advance; 0 means unbounded

	acc float64
}

// Enabled reports whether the clock uses a fixed step.
func (c *Clock) Enabled() bool {
	return c.Step > 0
}

// Advance adds frameDelta to the accumulator and returns how many fixed steps
// to run now. When the backlog exceeds MaxSteps the excess is dropped.
func (c *Clock) Advance(frameDelta float64) int {
	if !c.Enabled() || frameDelta <= 0 {
		return 0
	}
	c.acc += frameDelta

	// Tolerate a few ulps of accumulated error so 0.1+0.1+0.1 yields three 0.1 steps.
	n := int(math.Floor(c.acc/c.Step + 1e-9))
	if c.MaxSteps > 0 && n > c.MaxSteps {
		c.acc = 0
		return c.MaxSteps
	}
	c.acc = max(c.acc-float64(n)*c.Step, 0)
	return n
}

// Pending returns the time carried over to the next Advance.
func (c *Clock) Pending() float64 {
	return c.acc
}

// Reset drops any accumulated time.
func (c *Clock) Reset() {
	c.acc = 0
}
