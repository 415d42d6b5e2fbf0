package org

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Plan tells whether a timestamp is a SCHEDULED date, a DEADLINE or neither.
type Plan int

const (
	PlanPlain Plan = iota
	PlanScheduled
	PlanDeadline
)

func (p Plan) String() string {
	switch p {
	case PlanScheduled:
		return "SCHEDULED"
	case PlanDeadline:
		return "DEADLINE"
	default:
		return ""
	}
}

// DateTime is a single org timestamp, e.g.
//
//	SCHEDULED: <2003-09-16 Tue>
//	DEADLINE: [2003-09-16 Tue 12:00-12:30 +1w]
type DateTime struct {
	Plan Plan
	// Active is true for <...> and false for [...].
	Active bool
	Start  time.Time
	// End is set for HH:MM-HH:MM ranges and always shares Start's date.
	End *time.Time
	// Interval is the repeater and/or warning cookie (+1w, .+2d/4d, -3d),
	// kept verbatim. Empty if absent.
	Interval string
}

// ParseError reports a timestamp or property line that does not follow the
// grammar.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("org: %s: %q", e.Reason, e.Input)
}

var timestampRegex = regexp.MustCompile(
	`^\s*(?:((?i:DEADLINE|SCHEDULED)):\s*)?` +
		`([<\[])` +
		`(\d{4})-(\d{2})-(\d{2})` +
		`(?:\s+([A-Za-z]{3}))?` +
		`(?:\s+(\d{2}):(\d{2})(?:-(\d{2}):(\d{2}))?)?` +
		`(?:\s+([.+-]{1,2}\d+[hdwmy](?:/\d+[hdwmy])?(?:\s+-{1,2}\d+[hdwmy])?))?` +
		`\s*([>\]])`,
)

// ParseTimestamp parses a SCHEDULED/DEADLINE line or a bare timestamp.
// Anything after the closing bracket is ignored.
func ParseTimestamp(line string) (DateTime, error) {
	m := timestampRegex.FindStringSubmatch(line)
	if m == nil {
		return DateTime{}, &ParseError{Input: line, Reason: "malformed timestamp"}
	}

	opener, closer := m[2], m[12]
	if (opener == "<") != (closer == ">") {
		return DateTime{}, &ParseError{Input: line, Reason: "mismatched timestamp brackets"}
	}

	dt := DateTime{Active: opener == "<", Interval: m[11]}
	switch strings.ToUpper(m[1]) {
	case "DEADLINE":
		dt.Plan = PlanDeadline
	case "SCHEDULED":
		dt.Plan = PlanScheduled
	default:
		dt.Plan = PlanPlain
	}

	year, _ := strconv.Atoi(m[3])
	month, _ := strconv.Atoi(m[4])
	day, _ := strconv.Atoi(m[5])

	hour, minute := 0, 0
	if m[7] != "" {
		var err error
		if hour, minute, err = clock(m[7], m[8]); err != nil {
			return DateTime{}, &ParseError{Input: line, Reason: err.Error()}
		}
	}

	start, err := civil(year, month, day, hour, minute)
	if err != nil {
		return DateTime{}, &ParseError{Input: line, Reason: err.Error()}
	}
	dt.Start = start

	if m[9] != "" {
		endHour, endMinute, err := clock(m[9], m[10])
		if err != nil {
			return DateTime{}, &ParseError{Input: line, Reason: err.Error()}
		}
		end := time.Date(year, time.Month(month), day, endHour, endMinute, 0, 0, time.UTC)
		dt.End = &end
	}

	return dt, nil
}

func clock(h, m string) (int, int, error) {
	hour, _ := strconv.Atoi(h)
	minute, _ := strconv.Atoi(m)
	if hour > 23 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid time %s:%s", h, m)
	}
	return hour, minute, nil
}

func civil(year, month, day, hour, minute int) (time.Time, error) {
	t := time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, fmt.Errorf("invalid date %04d-%02d-%02d", year, month, day)
	}
	return t, nil
}

// String renders the timestamp back into org syntax. Parsing the result
// yields the same value.
func (dt DateTime) String() string {
	var b strings.Builder
	if dt.Plan != PlanPlain {
		b.WriteString(dt.Plan.String())
		b.WriteString(": ")
	}

	opener, closer := "[", "]"
	if dt.Active {
		opener, closer = "<", ">"
	}

	b.WriteString(opener)
	b.WriteString(dt.Start.Format("2006-01-02 Mon"))
	if dt.End != nil || dt.Start.Hour() != 0 || dt.Start.Minute() != 0 {
		b.WriteString(dt.Start.Format(" 15:04"))
		if dt.End != nil {
			b.WriteString(dt.End.Format("-15:04"))
		}
	}
	if dt.Interval != "" {
		b.WriteString(" ")
		b.WriteString(dt.Interval)
	}
	b.WriteString(closer)
	return b.String()
}

// TimeComparator compares two instants.
type TimeComparator func(a, b time.Time) bool

// Compare reports whether a and b agree under the given comparators. The
// plans must be equal. When b carries no time of day only the calendar dates
// are compared with dateOnly; otherwise the full timestamps go to exact.
// Only b's time of day is inspected.
func Compare(a, b DateTime, exact, dateOnly TimeComparator) bool {
	if a.Plan != b.Plan {
		return false
	}
	if b.Start.Hour() == 0 && b.Start.Minute() == 0 && b.Start.Second() == 0 {
		return dateOnly(truncateDay(a.Start), truncateDay(b.Start))
	}
	return exact(a.Start, b.Start)
}

// Equal is Compare with equality on both branches.
func Equal(a, b DateTime) bool {
	return Compare(a, b, sameInstant, sameInstant)
}

func sameInstant(a, b time.Time) bool {
	return a.Equal(b)
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
