package domain

// TimeWindow is an inclusive range of hour ticks.
type TimeWindow struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Normalized returns the window with Start <= End.
func (w TimeWindow) Normalized() TimeWindow {
	if w.Start <= w.End {
		return w
	}
	return TimeWindow{Start: w.End, End: w.Start}
}

// Contains reports whether t falls within the window.
func (w TimeWindow) Contains(t int) bool {
	n := w.Normalized()
	return n.Start <= t && t <= n.End
}

// Overlaps reports whether the two windows share at least one tick.
func (w TimeWindow) Overlaps(other TimeWindow) bool {
	_, ok := w.Intersect(other)
	return ok
}

// Intersect returns the shared range of both windows.
func (w TimeWindow) Intersect(other TimeWindow) (TimeWindow, bool) {
	a, b := w.Normalized(), other.Normalized()
	out := TimeWindow{Start: max(a.Start, b.Start), End: min(a.End, b.End)}
	if out.Start > out.End {
		return TimeWindow{}, false
	}
	return out, true
}

// Spread is the width of the window in ticks.
func (w TimeWindow) Spread() int {
	n := w.Normalized()
	return n.End - n.Start
}

// IntersectAll folds Intersect over windows. It reports false for an empty
// input or when any pair fails to overlap.
func IntersectAll(windows []TimeWindow) (TimeWindow, bool) {
	if len(windows) == 0 {
		return TimeWindow{}, false
	}
	acc := windows[0].Normalized()
	for _, w := range windows[1:] {
		next, ok := acc.Intersect(w)
		if !ok {
			return TimeWindow{}, false
		}
		acc = next
	}
	return acc, true
}
