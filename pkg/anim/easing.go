// Package anim interpolates book poses over time.
//
// Tweens are plain values: they hold their endpoints and duration and are
// sampled with an elapsed time. Nothing is mutated behind the caller's back,
// so cancelling an animation is just dropping the value.
package anim

// Easing maps linear progress in [0, 1] to eased progress.
type Easing func(x float64) float64

// Linear is the identity easing.
func Linear(x float64) float64 {
	return clamp01(x)
}

// EaseInOutQuad accelerates until halfway, then decelerates.
func EaseInOutQuad(x float64) float64 {
	x = clamp01(x)
	if x < 0.5 {
		return 2 * x * x
	}
	return 1 - 2*(1-x)*(1-x)
}

// CubicBezier returns a CSS-style easing curve. The curve starts at (0,0)
// heading toward (x0,y0) and arrives at (1,1) coming from (x1,y1).
func CubicBezier(x0, y0, x1, y1 float64) Easing {
	return func(x float64) float64 {
		x = clamp01(x)

		// Solve B_x(t) = x with Newton's method, starting from t = x.
		t := x
		for range 5 {
			t2 := t * t
			t3 := t2 * t
			d := 1 - t
			d2 := d * d

			nx := 3*d2*t*x0 + 3*d*t2*x1 + t3
			dxdt := 3*d2*x0 + 6*d*t*(x1-x0) + 3*t2*(1-x1)
			if dxdt == 0 {
				break
			}

			t -= (nx - x) / dxdt
			if t <= 0 || t >= 1 {
				break
			}
		}
		t = clamp01(t)

		t2 := t * t
		t3 := t2 * t
		d := 1 - t
		return 3*d*d*t*y0 + 3*d*t2*y1 + t3
	}
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
