package schedule

import (
	"fmt"
	"time"
)

// labelLayout is the clock format used by grid labels, e.g. "1:00 PM".
const labelLayout = "3:04 PM"

// DefaultGrid is the daily catalog of bookable start times, 1:00 PM through 4:00 AM.
var DefaultGrid = MustGrid(
	"1:00 PM", "2:00 PM", "3:00 PM", "4:00 PM", "5:00 PM", "6:00 PM",
	"7:00 PM", "8:00 PM", "9:00 PM", "10:00 PM", "11:00 PM", "12:00 AM",
	"1:00 AM", "2:00 AM", "3:00 AM", "4:00 AM",
)

// Grid is an ordered, immutable list of hourly slot labels.
type Grid struct {
	labels []string
	index  map[string]int
}

// Span is an inclusive range of slot indices.
type Span struct {
	Start int
	End   int
}

// Overlaps reports whether two inclusive ranges share at least one slot.
func (s Span) Overlaps(o Span) bool {
	return s.Start <= o.End && s.End >= o.Start
}

func (s Span) Len() int {
	return s.End - s.Start + 1
}

func NewGrid(labels ...string) (*Grid, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("%w: grid needs at least one slot", ErrInvalidTimeRange)
	}
	g := &Grid{
		labels: make([]string, len(labels)),
		index:  make(map[string]int, len(labels)),
	}
	for i, l := range labels {
		if _, err := time.Parse(labelLayout, l); err != nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSlot, l)
		}
		if _, dup := g.index[l]; dup {
			return nil, fmt.Errorf("%w: duplicate slot %q", ErrInvalidTimeRange, l)
		}
		g.labels[i] = l
		g.index[l] = i
	}
	return g, nil
}

func MustGrid(labels ...string) *Grid {
	g, err := NewGrid(labels...)
	if err != nil {
		panic(err)
	}
	return g
}

func (g *Grid) Len() int {
	return len(g.labels)
}

// Last is the index of the final slot of the day.
func (g *Grid) Last() int {
	return len(g.labels) - 1
}

func (g *Grid) Labels() []string {
	out := make([]string, len(g.labels))
	copy(out, g.labels)
	return out
}

func (g *Grid) IndexOf(label string) (int, bool) {
	i, ok := g.index[label]
	return i, ok
}

func (g *Grid) Label(i int) (string, bool) {
	if i < 0 || i >= len(g.labels) {
		return "", false
	}
	return g.labels[i], true
}

// Span resolves a start label and a duration into slot indices. The range
// must fit inside the grid.
func (g *Grid) Span(start string, duration int) (Span, error) {
	i, ok := g.IndexOf(start)
	if !ok {
		return Span{}, fmt.Errorf("%w: %q", ErrUnknownSlot, start)
	}
	if duration < 1 {
		return Span{}, fmt.Errorf("%w: duration must be at least one slot", ErrInvalidTimeRange)
	}
	sp := Span{Start: i, End: i + duration - 1}
	if sp.End > g.Last() {
		return Span{}, fmt.Errorf("%w: %d slot(s) from %s runs past %s", ErrInvalidTimeRange, duration, start, g.labels[g.Last()])
	}
	return sp, nil
}

// EndTime is the clock time at which a span finishes: the label after its
// last slot, or one hour past the final slot of the day.
func (g *Grid) EndTime(sp Span) string {
	if l, ok := g.Label(sp.End + 1); ok {
		return l
	}
	last, ok := g.Label(sp.End)
	if !ok {
		return ""
	}
	t, err := time.Parse(labelLayout, last)
	if err != nil {
		return ""
	}
	return t.Add(time.Hour).Format(labelLayout)
}

// RangeLabel renders a span as "<start> - <end>" using the labels of its
// first and last slots.
func (g *Grid) RangeLabel(sp Span) string {
	start, _ := g.Label(sp.Start)
	end, ok := g.Label(sp.End)
	if !ok {
		end = start
	}
	return start + " - " + end
}
