package usecase

import (
	"testing"
	"time"
)

type calendarFake struct {
	holidays map[string]bool
}

func (f *calendarFake) IsHoliday(date time.Time) bool {
	return f.holidays[date.Format("2006-01-02")]
}

func kstTime(t *testing.T, value string) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		loc = time.FixedZone("KST", 9*60*60)
	}
	ts, err := time.ParseInLocation("2006-01-02 15:04", value, loc)
	if err != nil {
		t.Fatalf("parse time %q: %v", value, err)
	}
	return ts
}

func TestScheduleTable(t *testing.T) {
	calendar := &calendarFake{holidays: map[string]bool{
		"2025-07-22": true, // one-off closure used by the holiday-chain case
		"2025-07-23": true,
	}}
	scheduler := NewDeliveryScheduler(calendar)

	cases := []struct {
		name  string
		now   string
		want  string
		label string
	}{
		{
			name:  "weekday before cutoff is next day",
			now:   "2025-07-16 10:00", // Wednesday
			want:  "2025-07-17",
			label: "7/17(목)",
		},
		{
			name:  "weekday at cutoff adds a day",
			now:   "2025-07-16 16:31",
			want:  "2025-07-18",
			label: "7/18(금)",
		},
		{
			name:  "thursday after cutoff lands on saturday",
			now:   "2025-07-10 17:00",
			want:  "2025-07-12", // Saturday is an acceptable delivery day
			label: "7/12(토)",
		},
		{
			name:  "saturday before cutoff skips sunday",
			now:   "2025-07-12 10:00",
			want:  "2025-07-14",
			label: "7/14(월)",
		},
		{
			name:  "friday after cutoff jumps to tuesday then over holidays",
			now:   "2025-07-18 17:00", // Friday; +4 lands on the 22nd which is closed
			want:  "2025-07-24",
			label: "7/24(목)",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := scheduler.Schedule(kstTime(t, tc.now))
			if got.Date.Format("2006-01-02") != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got.Date.Format("2006-01-02"))
			}
			if got.Label != tc.label {
				t.Fatalf("expected label %q, got %q", tc.label, got.Label)
			}
		})
	}
}

func TestScheduleFridayCutoffIsFollowingTuesday(t *testing.T) {
	scheduler := NewDeliveryScheduler(&calendarFake{holidays: map[string]bool{}})
	got := scheduler.Schedule(kstTime(t, "2025-07-18 17:00"))
	if got.Date.Weekday() != time.Tuesday {
		t.Fatalf("expected Tuesday, got %s", got.Date.Weekday())
	}
	if got.Label != "7/22(화)" {
		t.Fatalf("expected 7/22(화), got %q", got.Label)
	}
}

func TestScheduleNeverSundayOrHoliday(t *testing.T) {
	calendar := &calendarFake{holidays: map[string]bool{
		"2025-10-03": true,
		"2025-10-06": true,
		"2025-10-07": true,
		"2025-10-08": true,
	}}
	scheduler := NewDeliveryScheduler(calendar)

	start := kstTime(t, "2025-09-28 00:00")
	for i := 0; i < 14*24; i++ {
		now := start.Add(time.Duration(i) * time.Hour)
		got := scheduler.Schedule(now)
		if got.Date.Weekday() == time.Sunday {
			t.Fatalf("delivery on Sunday for now=%s", now)
		}
		if calendar.IsHoliday(got.Date) {
			t.Fatalf("delivery on holiday %s for now=%s", got.Date.Format("2006-01-02"), now)
		}
	}
}
