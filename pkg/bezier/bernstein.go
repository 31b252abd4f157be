package bezier

// Degree is the polynomial degree of the patch in each parameter.
const Degree = 3

// Order is the number of control points along each parametric direction.
const Order = Degree + 1

// Basis returns the four cubic Bernstein weights B3(0..3, u):
//
//	B3(0,u) = (1-u)^3
//	B3(1,u) = 3u(1-u)^2
//	B3(2,u) = 3u^2(1-u)
//	B3(3,u) = u^3
//
// The weights sum to 1 for every u and are exactly 0 or 1 at u=0 and u=1.
func Basis(u float64) [Order]float64 {
	v := 1 - u
	return [Order]float64{
		v * v * v,
		3 * u * v * v,
		3 * u * u * v,
		u * u * u,
	}
}
