package statgate

import "fmt"

// Window is the inclusive range a reported metric must fall in.
type Window struct {
	Lower int64
	Upper int64
}

// ToleranceWindow computes the allowed range for an expected value and a
// percentage tolerance.
//
// The offset is expected*tolerance/100 with integer division truncating
// toward zero, and the raw bounds are expected-offset and expected+offset
// computed literally. For a negative expected value the literal arithmetic
// inverts the raw ordering (E=-50, T=20 gives -40 and -60), so the bounds
// are normalized to Lower <= Upper before any containment check. -45 is
// inside the window for E=-50, T=20.
func ToleranceWindow(expected, tolerance int64) Window {
	offset := expected * tolerance / 100
	lower := expected - offset
	upper := expected + offset
	if lower > upper {
		lower, upper = upper, lower
	}
	return Window{Lower: lower, Upper: upper}
}

// Contains reports whether actual lies within the window, both ends
// inclusive.
func (w Window) Contains(actual int64) bool {
	return actual >= w.Lower && actual <= w.Upper
}

func (w Window) String() string {
	return fmt.Sprintf("[%d, %d]", w.Lower, w.Upper)
}
