// Package motion moves a sprite horizontally across a fixed viewport,
// one step per frame.
package motion

import (
	"fmt"
	"image"
	"strings"
)

// Policy selects what happens when the sprite reaches an edge.
type Policy uint8

const (
	// Bounce clamps the sprite to the edge and reverses its direction.
	Bounce Policy = iota + 1
	// Wrap moves the sprite back off-screen to the left once it leaves on the right.
	Wrap
)

func (p Policy) String() string {
	switch p {
	case Bounce:
		return "bounce"
	case Wrap:
		return "wrap"
	}
	return fmt.Sprintf("policy(%d)", uint8(p))
}

// ParsePolicy accepts "bounce" or "wrap" (case-insensitive).
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bounce":
		return Bounce, nil
	case "wrap", "slide":
		return Wrap, nil
	}
	return 0, fmt.Errorf("motion: unknown policy %q", s)
}

// Advance computes the next horizontal position and velocity.
//
// Bounce clamps to [0, bound-size] and forces the velocity sign toward the
// interior. Wrap resets x to -size once it passes bound and never changes
// the velocity.
func Advance(x, velocity, size, bound int, p Policy) (int, int) {
	x += velocity
	switch p {
	case Wrap:
		if x > bound {
			x = -size
		}
	default:
		if x <= 0 {
			return 0, absInt(velocity)
		}
		if limit := bound - size; x >= limit {
			return limit, -absInt(velocity)
		}
	}
	return x, velocity
}

// CenterY returns the fixed vertical offset that centers size within bound.
func CenterY(size, bound int) int {
	return (bound - size) / 2
}

// State is the per-animation sprite state threaded through each frame.
type State struct {
	Pos      image.Point
	Velocity int
	Size     image.Point
	Bounds   image.Point
	Policy   Policy
}

// New places the sprite at the left edge, vertically centered, moving right.
func New(size, bounds image.Point, speed int, p Policy) State {
	return State{
		Pos:      image.Pt(0, CenterY(size.Y, bounds.Y)),
		Velocity: absInt(speed),
		Size:     size,
		Bounds:   bounds,
		Policy:   p,
	}
}

// Advance returns the state after one frame.
func (s State) Advance() State {
	s.Pos.X, s.Velocity = Advance(s.Pos.X, s.Velocity, s.Size.X, s.Bounds.X, s.Policy)
	return s
}

// Rect is the area the sprite covers at its current position.
func (s State) Rect() image.Rectangle {
	return image.Rectangle{Min: s.Pos, Max: s.Pos.Add(s.Size)}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
