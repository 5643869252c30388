package availability

import (
	"errors"
	"sort"
	"time"

	"lessonbook/internal/coach"
	"lessonbook/internal/reservation"
)

const DateLayout = "2006-01-02"

var ErrInvalidHours = errors.New("operating hours must close after they open")

// Range is a half-open interval [Start, End).
type Range struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (r Range) empty() bool {
	return !r.End.After(r.Start)
}

type Result struct {
	Date            string  `json:"date"`
	SlotStepMinutes int     `json:"slotStepMinutes"`
	AvailableRanges []Range `json:"availableRanges"`
}

// Engine turns a coach's weekly rules, time-offs and reservations into the
// open ranges of one day. It holds no mutable state.
type Engine struct {
	loc   *time.Location
	open  coach.TimeOfDay
	close coach.TimeOfDay
}

func NewEngine(loc *time.Location, opens, closes coach.TimeOfDay) (*Engine, error) {
	if !opens.Before(closes) {
		return nil, ErrInvalidHours
	}
	return &Engine{loc: loc, open: opens, close: closes}, nil
}

func (e *Engine) Location() *time.Location {
	return e.loc
}

// Day returns the bounds of the calendar day containing date in the
// reference timezone.
func (e *Engine) Day(date time.Time) (start, end time.Time) {
	y, m, d := date.In(e.loc).Date()
	start = time.Date(y, m, d, 0, 0, 0, 0, e.loc)
	return start, start.AddDate(0, 0, 1)
}

func (e *Engine) Calculate(date time.Time, rules []coach.AvailRule, timeOffs []coach.TimeOff, reservations []reservation.Reservation) Result {
	day, _ := e.Day(date)
	result := Result{
		Date:            day.Format(DateLayout),
		SlotStepMinutes: int(reservation.SlotStep / time.Minute),
		AvailableRanges: []Range{},
	}

	openAt := e.open.On(day, e.loc)
	closeAt := e.close.On(day, e.loc)
	weekday := int(day.Weekday())

	var working []Range
	for _, rule := range rules {
		if rule.Weekday != weekday {
			continue
		}
		r := Range{Start: latest(rule.StartTime.On(day, e.loc), openAt), End: earliest(rule.EndTime.On(day, e.loc), closeAt)}
		if !r.empty() {
			working = append(working, r)
		}
	}
	if len(working) == 0 {
		return result
	}
	working = union(working)

	for _, off := range timeOffs {
		working = subtract(working, Range{Start: off.StartAt, End: off.EndAt})
	}
	for _, res := range reservations {
		if !res.Status.HoldsSlot() {
			continue
		}
		working = subtract(working, Range{Start: res.StartAt, End: res.EndAt})
	}

	for _, r := range working {
		result.AvailableRanges = append(result.AvailableRanges, Range{Start: r.Start.In(e.loc), End: r.End.In(e.loc)})
	}
	return result
}

// union merges overlapping or touching ranges and orders them by start.
func union(ranges []Range) []Range {
	sort.Slice(ranges, func(i, j int) bool { return ranges[i].Start.Before(ranges[j].Start) })

	merged := []Range{ranges[0]}
	for _, r := range ranges[1:] {
		last := &merged[len(merged)-1]
		if r.Start.After(last.End) {
			merged = append(merged, r)
			continue
		}
		last.End = latest(last.End, r.End)
	}
	return merged
}

// subtract removes cut from every range. Empty cuts leave the set unchanged.
func subtract(ranges []Range, cut Range) []Range {
	if cut.empty() {
		return ranges
	}

	out := make([]Range, 0, len(ranges)+1)
	for _, r := range ranges {
		if !r.End.After(cut.Start) || !r.Start.Before(cut.End) {
			out = append(out, r)
			continue
		}
		if r.Start.Before(cut.Start) {
			out = append(out, Range{Start: r.Start, End: cut.Start})
		}
		if r.End.After(cut.End) {
			out = append(out, Range{Start: cut.End, End: r.End})
		}
	}
	return out
}

func latest(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earliest(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
