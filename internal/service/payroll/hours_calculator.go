package payroll

import (
	"sort"
	"time"

	"github.com/knk-palvelut/workforce-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// RegularHoursPerDay is the weekday threshold after which hours count as overtime.
const RegularHoursPerDay = 8.0

const dayKeyLayout = "2006-01-02"

// Window is a half-open interval [From, To).
type Window struct {
	From time.Time
	To   time.Time
}

// Shift is the engine's view of a clock log. End is nil while the shift is open.
type Shift struct {
	ID    string
	Start time.Time
	End   *time.Time
}

// Segment is the part of a shift that falls on one local calendar day.
type Segment struct {
	ShiftID string
	DayKey  string
	Start   time.Time
	End     time.Time
	Hours   float64
}

// Day is the derived per-day aggregate.
type Day struct {
	Date          string
	Hours         float64
	RegularHours  float64
	OvertimeHours float64
	IsSunday      bool
}

// ShiftHours is the share of the day-level classification attributed back to one shift.
type ShiftHours struct {
	ShiftID              string
	TotalHours           float64
	RegularHours         float64
	OvertimeHours        float64
	SundayHours          float64
	WeekdayOvertimeHours float64
}

type Allocation struct {
	Days   []Day
	Shifts map[string]ShiftHours
}

// Breakdown is the priced result of an aggregation. Values are not rounded.
type Breakdown struct {
	TotalHours           float64
	TotalRegularHours    float64
	TotalOvertimeHours   float64
	WeekdayOvertimeHours float64
	SundayHours          float64
	RegularPay           decimal.Decimal
	OvertimePay          decimal.Decimal
	TotalPay             decimal.Decimal
	Days                 []Day
}

// HoursCalculator turns shifts into day-bucketed regular, overtime and
// Sunday hours. Every day boundary is a local midnight in loc.
type HoursCalculator struct {
	loc *time.Location
}

func NewHoursCalculator(loc *time.Location) *HoursCalculator {
	if loc == nil {
		loc = time.UTC
	}
	return &HoursCalculator{loc: loc}
}

func (c *HoursCalculator) Location() *time.Location {
	return c.loc
}

// DayKey returns the local calendar date of t as YYYY-MM-DD.
func (c *HoursCalculator) DayKey(t time.Time) string {
	return t.In(c.loc).Format(dayKeyLayout)
}

// StartOfDay returns local midnight at the start of t's day.
func (c *HoursCalculator) StartOfDay(t time.Time) time.Time {
	l := t.In(c.loc)
	return time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, c.loc)
}

// NextMidnight returns the local midnight that ends t's day. time.Date
// normalises day overflow and resolves DST gaps, so a 23h or 25h day is
// handled without special cases.
func (c *HoursCalculator) NextMidnight(t time.Time) time.Time {
	l := t.In(c.loc)
	return time.Date(l.Year(), l.Month(), l.Day()+1, 0, 0, 0, 0, c.loc)
}

// WeekStart returns Monday 00:00 local of the week containing t.
func (c *HoursCalculator) WeekStart(t time.Time) time.Time {
	day := c.StartOfDay(t)
	offset := (int(day.Weekday()) + 6) % 7
	return time.Date(day.Year(), day.Month(), day.Day()-offset, 0, 0, 0, 0, c.loc)
}

// DayWindow returns [from 00:00, to+1 00:00) for two local dates, making the
// end date inclusive.
func (c *HoursCalculator) DayWindow(from, to time.Time) Window {
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, c.loc)
	end := time.Date(to.Year(), to.Month(), to.Day()+1, 0, 0, 0, 0, c.loc)
	return Window{From: start, To: end}
}

// ParseDate parses a YYYY-MM-DD string as a local date.
func (c *HoursCalculator) ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dayKeyLayout, s, c.loc)
}

func (c *HoursCalculator) isSunday(t time.Time) bool {
	return t.In(c.loc).Weekday() == time.Sunday
}

// Segment splits [start, end) at every local midnight. With a window the
// interval is clipped first. Empty or inverted intervals yield nothing.
func (c *HoursCalculator) Segment(shiftID string, start, end time.Time, window *Window) []Segment {
	if window != nil {
		if start.Before(window.From) {
			start = window.From
		}
		if end.After(window.To) {
			end = window.To
		}
	}
	if !end.After(start) {
		return nil
	}

	var segments []Segment
	cursor := start
	for cursor.Before(end) {
		boundary := c.NextMidnight(cursor)
		segEnd := end
		if boundary.Before(end) {
			segEnd = boundary
		}
		segments = append(segments, Segment{
			ShiftID: shiftID,
			DayKey:  c.DayKey(cursor),
			Start:   cursor,
			End:     segEnd,
			Hours:   segEnd.Sub(cursor).Hours(),
		})
		cursor = segEnd
	}
	return segments
}

// Classify applies the daily rule to a day total. Sunday hours are all
// overtime; on other days the first RegularHoursPerDay hours are regular.
func Classify(hours float64, isSunday bool) (regular, overtime float64) {
	if hours <= 0 {
		return 0, 0
	}
	if isSunday {
		return 0, hours
	}
	if hours <= RegularHoursPerDay {
		return hours, 0
	}
	return RegularHoursPerDay, hours - RegularHoursPerDay
}

// AllocateDay classifies the segments of one day and attributes the result
// back to shifts. The regular budget is consumed by earlier segments first.
// segments must share a DayKey.
func (c *HoursCalculator) AllocateDay(segments []Segment) (Day, []ShiftHours) {
	if len(segments) == 0 {
		return Day{}, nil
	}

	ordered := make([]Segment, len(segments))
	copy(ordered, segments)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Start.Before(ordered[j].Start)
	})

	day := Day{
		Date:     ordered[0].DayKey,
		IsSunday: c.isSunday(ordered[0].Start),
	}

	shares := make([]ShiftHours, 0, len(ordered))
	budget := RegularHoursPerDay
	for _, seg := range ordered {
		day.Hours += seg.Hours
		share := ShiftHours{ShiftID: seg.ShiftID, TotalHours: seg.Hours}
		if day.IsSunday {
			share.OvertimeHours = seg.Hours
			share.SundayHours = seg.Hours
		} else {
			regular := seg.Hours
			if regular > budget {
				regular = budget
			}
			budget -= regular
			share.RegularHours = regular
			share.OvertimeHours = seg.Hours - regular
			share.WeekdayOvertimeHours = share.OvertimeHours
		}
		shares = append(shares, share)
	}

	day.RegularHours, day.OvertimeHours = Classify(day.Hours, day.IsSunday)
	return day, shares
}

// Allocate segments every closed shift, buckets segments by local day and
// classifies each day. Open and inverted shifts contribute nothing. Days are
// returned in ascending date order.
func (c *HoursCalculator) Allocate(shifts []Shift, window *Window) Allocation {
	byDay := make(map[string][]Segment)
	for _, s := range shifts {
		if s.End == nil {
			continue
		}
		for _, seg := range c.Segment(s.ID, s.Start, *s.End, window) {
			byDay[seg.DayKey] = append(byDay[seg.DayKey], seg)
		}
	}

	keys := make([]string, 0, len(byDay))
	for k := range byDay {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	alloc := Allocation{
		Days:   make([]Day, 0, len(keys)),
		Shifts: make(map[string]ShiftHours),
	}
	for _, k := range keys {
		day, shares := c.AllocateDay(byDay[k])
		alloc.Days = append(alloc.Days, day)
		for _, share := range shares {
			acc := alloc.Shifts[share.ShiftID]
			acc.ShiftID = share.ShiftID
			acc.TotalHours += share.TotalHours
			acc.RegularHours += share.RegularHours
			acc.OvertimeHours += share.OvertimeHours
			acc.SundayHours += share.SundayHours
			acc.WeekdayOvertimeHours += share.WeekdayOvertimeHours
			alloc.Shifts[share.ShiftID] = acc
		}
	}
	return alloc
}

// Aggregate prices the allocation of shifts with rates.
func (c *HoursCalculator) Aggregate(shifts []Shift, window *Window, rates payroll.Rates) Breakdown {
	return c.Price(c.Allocate(shifts, window).Days, rates)
}

// Price turns classified days into pay. Weekday overtime uses the overtime
// rate, Sunday hours the Sunday rate.
func (c *HoursCalculator) Price(days []Day, rates payroll.Rates) Breakdown {
	b := Breakdown{
		RegularPay:  decimal.Zero,
		OvertimePay: decimal.Zero,
		TotalPay:    decimal.Zero,
		Days:        days,
	}
	if b.Days == nil {
		b.Days = []Day{}
	}

	for _, d := range days {
		b.TotalHours += d.Hours
		b.TotalRegularHours += d.RegularHours
		b.TotalOvertimeHours += d.OvertimeHours
		if d.IsSunday {
			b.SundayHours += d.OvertimeHours
		} else {
			b.WeekdayOvertimeHours += d.OvertimeHours
		}
	}

	b.RegularPay = decimal.NewFromFloat(b.TotalRegularHours).Mul(rates.Regular)
	b.OvertimePay = decimal.NewFromFloat(b.WeekdayOvertimeHours).Mul(rates.Overtime).
		Add(decimal.NewFromFloat(b.SundayHours).Mul(rates.Sunday))
	b.TotalPay = b.RegularPay.Add(b.OvertimePay)
	return b
}
