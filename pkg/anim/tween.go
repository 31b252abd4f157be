package anim

import (
	"time"

	"github.com/taigrr/bookshelf/pkg/math3d"
)

// progress returns the eased fraction of d covered after elapsed.
// A non-positive duration is complete immediately.
func progress(elapsed, d time.Duration, ease Easing) float64 {
	if d <= 0 || elapsed >= d {
		return 1
	}
	if elapsed <= 0 {
		return 0
	}
	if ease == nil {
		ease = Linear
	}
	return ease(float64(elapsed) / float64(d))
}

// Vec3Tween interpolates a vector from From to To over Duration.
// A nil Ease is linear.
type Vec3Tween struct {
	From     math3d.Vec3
	To       math3d.Vec3
	Duration time.Duration
	Ease     Easing
}

// At returns the value after elapsed. It is From before the start and To
// after the end.
func (tw Vec3Tween) At(elapsed time.Duration) math3d.Vec3 {
	p := progress(elapsed, tw.Duration, tw.Ease)
	if p == 1 {
		return tw.To
	}
	return tw.From.Lerp(tw.To, p)
}

// Done reports whether the tween has reached To.
func (tw Vec3Tween) Done(elapsed time.Duration) bool {
	return elapsed >= tw.Duration
}

// ScalarTween interpolates a float from From to To over Duration.
type ScalarTween struct {
	From     float64
	To       float64
	Duration time.Duration
	Ease     Easing
}

// At returns the value after elapsed.
func (tw ScalarTween) At(elapsed time.Duration) float64 {
	p := progress(elapsed, tw.Duration, tw.Ease)
	if p == 1 {
		return tw.To
	}
	return tw.From + (tw.To-tw.From)*p
}

// Done reports whether the tween has reached To.
func (tw ScalarTween) Done(elapsed time.Duration) bool {
	return elapsed >= tw.Duration
}

// Track plays Vec3 tweens back to back.
type Track struct {
	Segments []Vec3Tween
}

// NewTrack creates a track from segments in playing order.
func NewTrack(segments ...Vec3Tween) Track {
	return Track{Segments: segments}
}

// Duration returns the total length of the track.
func (tr Track) Duration() time.Duration {
	var d time.Duration
	for _, s := range tr.Segments {
		d += max(s.Duration, 0)
	}
	return d
}

// At samples the segment active after elapsed. An empty track returns the
// zero vector.
func (tr Track) At(elapsed time.Duration) math3d.Vec3 {
	if len(tr.Segments) == 0 {
		return math3d.Vec3{}
	}
	for _, s := range tr.Segments {
		d := max(s.Duration, 0)
		if elapsed < d {
			return s.At(elapsed)
		}
		elapsed -= d
	}
	return tr.Segments[len(tr.Segments)-1].To
}

// Done reports whether every segment has finished.
func (tr Track) Done(elapsed time.Duration) bool {
	return elapsed >= tr.Duration()
}

// Clock measures elapsed time for the animation currently playing.
type Clock struct {
	elapsed time.Duration
}

// Reset rewinds the clock to zero.
func (c *Clock) Reset() {
	c.elapsed = 0
}

// Advance moves the clock forward by dt and returns the new elapsed time.
// Negative steps are ignored.
func (c *Clock) Advance(dt time.Duration) time.Duration {
	if dt > 0 {
		c.elapsed += dt
	}
	return c.elapsed
}

// Elapsed returns the time since the last Reset.
func (c *Clock) Elapsed() time.Duration {
	return c.elapsed
}
