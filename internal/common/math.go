package common

// Abs returns the absolute value of an integer
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Clamp bounds v to [lo, hi]
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// StepToward returns the delta that moves current toward target by a
// fraction 1/divisor of the gap, at least 1 and never past target.
func StepToward(current, target, divisor int) int {
	diff := target - current
	if diff == 0 {
		return 0
	}
	if divisor < 1 {
		divisor = 1
	}
	step := max(1, Abs(diff)/divisor)
	step = min(step, Abs(diff))
	if diff < 0 {
		return -step
	}
	return step
}
