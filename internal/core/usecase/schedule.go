package usecase

import (
	"fmt"
	"time"

	"github.com/vinbridge/order-intake/internal/core/domain"
	"github.com/vinbridge/order-intake/internal/core/ports"
)

// DeliveryScheduler computes the next valid delivery date from an instant,
// evaluated in Asia/Seoul civil time. Orders placed at or after the 16:31
// cutoff slip one extra day, and a Friday after cutoff jumps past the
// weekend. Sundays and holidays are never delivery days; Saturday is.
type DeliveryScheduler struct {
	calendar ports.HolidayCalendar
	location *time.Location
}

const (
	cutoffHour   = 16
	cutoffMinute = 31
)

var weekdayKorean = [...]string{"일", "월", "화", "수", "목", "금", "토"}

func NewDeliveryScheduler(calendar ports.HolidayCalendar) *DeliveryScheduler {
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		loc = time.FixedZone("KST", 9*60*60)
	}
	return &DeliveryScheduler{calendar: calendar, location: loc}
}

func (s *DeliveryScheduler) Schedule(now time.Time) domain.DeliveryDate {
	kst := now.In(s.location)

	lead := 1
	afterCutoff := kst.Hour() > cutoffHour ||
		(kst.Hour() == cutoffHour && kst.Minute() >= cutoffMinute)
	if afterCutoff {
		lead = 2
		if kst.Weekday() == time.Friday {
			lead = 4
		}
	}

	date := time.Date(kst.Year(), kst.Month(), kst.Day(), 0, 0, 0, 0, s.location)
	date = date.AddDate(0, 0, lead)

	// Re-check after every shift: a shifted date can land on a new holiday.
	for date.Weekday() == time.Sunday || s.isHoliday(date) {
		date = date.AddDate(0, 0, 1)
	}

	return domain.DeliveryDate{Date: date, Label: Label(date)}
}

func (s *DeliveryScheduler) isHoliday(date time.Time) bool {
	if s.calendar == nil {
		return false
	}
	return s.calendar.IsHoliday(date)
}

// Label renders a date as "M/D(요일)" with the Korean weekday abbreviation.
func Label(date time.Time) string {
	return fmt.Sprintf("%d/%d(%s)", int(date.Month()), date.Day(), weekdayKorean[date.Weekday()])
}
