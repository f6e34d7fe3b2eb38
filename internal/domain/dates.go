package domain

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

const DateLayout = "2006-01-02"

// CalendarDay keeps the year, month and day of t as a UTC midnight.
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func DateOf(t time.Time) datatypes.Date { return datatypes.Date(CalendarDay(t)) }

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, err
	}
	return CalendarDay(t), nil
}

// DaysUntil counts whole calendar days from today to day; negative when day is in the past.
func DaysUntil(today, day time.Time) int {
	return int(CalendarDay(day).Sub(CalendarDay(today)).Hours() / 24)
}

func FormatDate(d datatypes.Date) string { return time.Time(d).Format(DateLayout) }
