package reports

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const dueDateLayout = "2006-01-02"

// serialEpoch is day zero of the 1900 date system, shifted by the phantom
// 29 Feb 1900 so that serial 60 onward lines up.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// maxSerial is 9999-12-31.
const maxSerial = 2958465

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 Jan 2006",
	"Mon Jan 2 2006",
	time.RFC1123,
}

// ParseDate turns a spreadsheet cell into a UTC calendar date. Numbers are
// spreadsheet serials; numeric strings split on "/", "-" or "." are read
// day-first unless they lead with a four-digit year.
func ParseDate(v any) (time.Time, error) {
	switch x := v.(type) {
	case time.Time:
		return truncateDay(x), nil
	case *time.Time:
		if x == nil {
			break
		}
		return truncateDay(*x), nil
	case float64:
		return fromSerial(x)
	case float32:
		return fromSerial(float64(x))
	case int:
		return fromSerial(float64(x))
	case int64:
		return fromSerial(float64(x))
	case string:
		return parseDateString(x)
	}
	return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidDate, v)
}

func parseDateString(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrInvalidDate)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return fromSerial(f)
	}
	if t, ok := parseNumericDate(s); ok {
		return t, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return truncateDay(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
}

// numericDateRe is three digit groups split by "/", "-" or ".", with an
// optional trailing time of day that is ignored.
var numericDateRe = regexp.MustCompile(`^(\d{1,4})[/.-](\d{1,2})[/.-](\d{1,4})(?:\s+\d{1,2}:\d{2}(?::\d{2})?)?$`)

func parseNumericDate(s string) (time.Time, bool) {
	m := numericDateRe.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	parts := m[1:]
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return time.Time{}, false
		}
		nums[i] = n
	}

	var day, month, year int
	if len(parts[0]) == 4 {
		year, month, day = nums[0], nums[1], nums[2]
	} else {
		day, month, year = nums[0], nums[1], nums[2]
		if len(parts[2]) <= 2 {
			year += 2000
		}
	}
	if month < 1 || month > 12 || day < 1 || year < 1 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date rolls 31/02 over into March
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, false
	}
	return t, true
}

func fromSerial(f float64) (time.Time, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 1 {
		return time.Time{}, fmt.Errorf("%w: serial %v", ErrInvalidDate, f)
	}
	days := math.Floor(f)
	if days > maxSerial {
		return time.Time{}, fmt.Errorf("%w: serial %v", ErrInvalidDate, f)
	}
	return serialEpoch.AddDate(0, 0, int(days)), nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDate is the canonical export form of a due date.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dueDateLayout)
}
