package internal

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/rickar/cal/v2"
)

// HolidayCalendar is the set of dates which never count as working days, on
// top of a Monday to Friday business week. It is built once at startup and
// only read afterwards, so it is safe to share between concurrent requests.
type HolidayCalendar struct {
	// Cacheable stays off: the holiday cache is not safe for concurrent use.
	business *cal.BusinessCalendar
	holidays map[civil.Date]struct{}
}

func NewHolidayCalendar(dates []civil.Date) *HolidayCalendar {
	business := cal.NewBusinessCalendar()
	holidays := make(map[civil.Date]struct{}, len(dates))

	for _, date := range dates {
		if _, ok := holidays[date]; ok {
			continue
		}

		holidays[date] = struct{}{}

		// Each holiday only applies to the year it was listed for.
		business.AddHoliday(&cal.Holiday{
			Name:      date.String(),
			Type:      cal.ObservanceOther,
			StartYear: date.Year,
			EndYear:   date.Year,
			Month:     date.Month,
			Day:       date.Day,
			Func:      cal.CalcDayOfMonth,
		})
	}

	return &HolidayCalendar{business: business, holidays: holidays}
}

// Contains reports whether the date is a holiday.
func (c *HolidayCalendar) Contains(date civil.Date) bool {
	_, ok := c.holidays[date]
	return ok
}

// Len returns the number of distinct holidays.
func (c *HolidayCalendar) Len() int {
	return len(c.holidays)
}

// IsWorkingDay reports whether the date falls on Monday to Friday and is not
// a holiday.
func (c *HolidayCalendar) IsWorkingDay(date civil.Date) bool {
	return c.business.IsWorkday(date.In(time.UTC))
}

// NthWorkingDay returns the date of the nth working day of the month, counting
// from the 1st. The second return value is false if the month has fewer than n
// working days.
func (c *HolidayCalendar) NthWorkingDay(year int, month time.Month, n int) (civil.Date, bool) {
	if n < 1 {
		return civil.Date{}, false
	}

	day := c.business.WorkdayN(year, month, n)
	if day == 0 {
		return civil.Date{}, false
	}

	return civil.Date{Year: year, Month: month, Day: day}, true
}

// WorkingDaysMTD returns the number of working days between the 1st of the
// date's month and the date itself, both inclusive.
func (c *HolidayCalendar) WorkingDaysMTD(date civil.Date) int {
	first := civil.Date{Year: date.Year, Month: date.Month, Day: 1}

	return c.business.WorkdaysInRange(first.In(time.UTC), date.In(time.UTC))
}
