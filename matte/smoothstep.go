package matte

// Smoothstep is the cubic Hermite ramp between edge0 and edge1. x at or
// below edge0 gives 0, so a zero-width ramp is a step that is transparent
// at the threshold itself.
func Smoothstep(edge0, edge1, x float32) float32 {
	if x <= edge0 {
		return 0
	}
	if x >= edge1 {
		return 1
	}
	t := (x - edge0) / (edge1 - edge0)
	return t * t * (3 - 2*t)
}
