// Package physics resolves axis-aligned dynamic bodies against static
// obstacles, one axis at a time.
//
// A frame moves a body along X, asks every static collider how far the body
// penetrated, backs it out, then repeats for Y. Corrections are signed
// distances to subtract from the body position on that axis.
package physics

import (
	"fmt"
	"math"
	"strings"

	"github.com/vovakirdan/tilebox/internal/core"
)

// ContactSkin is the penetration depth below which two rects are treated as
// merely touching near the world origin. Positions reached by subtracting a
// correction can carry float residue of a few ulps.
const ContactSkin = 1e-9

// skinUlps is the residue, in float steps, a correction may leave behind.
const skinUlps = 16

// SkinAt returns the contact tolerance for coordinates of magnitude m:
// ContactSkin, or skinUlps float steps at m when that is larger.
func SkinAt(m float64) float64 {
	m = math.Abs(m)
	ulp := math.Nextafter(m, math.Inf(1)) - m
	return max(ContactSkin, skinUlps*ulp)
}

// skinFor returns the contact tolerance for the largest coordinate of rs.
func skinFor(rs ...core.Rect) float64 {
	var m float64
	for _, r := range rs {
		m = max(m, math.Abs(r.X), math.Abs(r.Y), math.Abs(r.X+r.W), math.Abs(r.Y+r.H))
	}
	return SkinAt(m)
}

// CollisionFix returns the correction for a body that moved from start to end
// along axis, against a single static obstacle. Zero means no intervention.
//
// The body is corrected when end overlaps the obstacle, or when it passed
// through it: the perpendicular extents overlap and the body's center crossed
// the obstacle's center on axis. A body moving away from the side it
// approached from is never corrected.
func CollisionFix(start, end, obstacle core.Rect, axis core.Axis) float64 {
	move := end.Lo(axis) - start.Lo(axis)
	if move == 0 {
		return 0
	}

	skin := skinFor(start, end, obstacle)
	if !overlaps(end, obstacle, skin) {
		other := axis.Other()
		dist := math.Abs(end.Mid(other) - obstacle.Mid(other))
		halfSum := (end.Extent(other) + obstacle.Extent(other)) / 2
		if dist >= halfSum-skin {
			return 0
		}
		crossed := (start.Mid(axis) < obstacle.Mid(axis)) != (end.Mid(axis) < obstacle.Mid(axis))
		if !crossed {
			return 0
		}
	}

	if start.Mid(axis) < obstacle.Mid(axis) {
		// Came from the negative side.
		if move < 0 {
			return 0
		}
		return positiveOrZero(end.Hi(axis)-obstacle.Lo(axis), skin)
	}
	if move > 0 {
		return 0
	}
	return negativeOrZero(end.Lo(axis)-obstacle.Hi(axis), skin)
}

// overlaps is IsColliding with penetrations up to skin ignored.
func overlaps(a, b core.Rect, skin float64) bool {
	return a.X < b.X+b.W-skin && a.X+a.W > b.X+skin &&
		a.Y < b.Y+b.H-skin && a.Y+a.H > b.Y+skin
}

func positiveOrZero(v, skin float64) float64 {
	if v < skin {
		return 0
	}
	return v
}

func negativeOrZero(v, skin float64) float64 {
	if v > -skin {
		return 0
	}
	return v
}

// TieBreak selects one correction when several obstacles report one for the
// same axis.
type TieBreak int

const (
	// LargestFix keeps the deepest penetration. Default.
	LargestFix TieBreak = iota
	// SmallestFix keeps the shallowest penetration.
	SmallestFix
)

// String returns the config name of the policy.
func (tb TieBreak) String() string {
	switch tb {
	case LargestFix:
		return "largest"
	case SmallestFix:
		return "smallest"
	default:
		return fmt.Sprintf("TieBreak(%d)", int(tb))
	}
}

// ParseTieBreak accepts "largest" or "smallest" (case-insensitive). Empty
// means LargestFix.
func ParseTieBreak(s string) (TieBreak, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "largest":
		return LargestFix, nil
	case "smallest":
		return SmallestFix, nil
	default:
		return LargestFix, fmt.Errorf("physics: unknown tie-break %q", s)
	}
}

// Pick aggregates two candidate corrections. Zero is "no candidate" and never
// wins over a non-zero value.
func (tb TieBreak) Pick(current, candidate float64) float64 {
	if candidate == 0 {
		return current
	}
	if current == 0 {
		return candidate
	}
	if tb == SmallestFix {
		if math.Abs(candidate) < math.Abs(current) {
			return candidate
		}
		return current
	}
	if math.Abs(candidate) > math.Abs(current) {
		return candidate
	}
	return current
}
