package domain

import (
	"fmt"
	"strings"
	"time"
)

// Kind distinguishes the two booking flows of the site.
type Kind string

const (
	KindWebsite Kind = "website"
	KindCall    Kind = "call"
)

// ParseKind accepts the kind names used in query strings.
func ParseKind(value string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(value))) {
	case KindWebsite:
		return KindWebsite, nil
	case KindCall:
		return KindCall, nil
	}
	return "", fmt.Errorf("tipo di prenotazione non valido: %s", value)
}

var (
	// WebsiteSlots are the hourly slots of the "website in 1 day" calendar.
	WebsiteSlots = []string{"09:00", "10:00", "11:00", "12:00", "14:00", "15:00", "16:00", "17:00", "18:00"}

	// CallSlots are the half-hour slots of the book-a-call calendar.
	CallSlots = []string{
		"09:00", "09:30", "10:00", "10:30", "11:00", "11:30",
		"12:00", "12:30", "14:00", "14:30", "15:00", "15:30",
		"16:00", "16:30", "17:00", "17:30", "18:00",
	}
)

// Slots returns the slot list of kind.
func Slots(kind Kind) []string {
	if kind == KindCall {
		return CallSlots
	}
	return WebsiteSlots
}

// DateLayouts are the accepted appointment date formats, in order.
var DateLayouts = []string{"02/01/2006", "2006-01-02"}

// ParseDate reads an appointment date in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range DateLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("data non valida: %q", value)
}

// IsBookable reports whether day can be picked in the calendar of kind.
// Only days after today are bookable; calls are also closed on weekends.
func IsBookable(kind Kind, day, now time.Time) bool {
	day = startOfDay(day.In(now.Location()))
	if !day.After(startOfDay(now)) {
		return false
	}
	if kind == KindCall {
		switch day.Weekday() {
		case time.Saturday, time.Sunday:
			return false
		}
	}
	return true
}

// NextBookableDay returns the first day after now that kind accepts.
func NextBookableDay(kind Kind, now time.Time) time.Time {
	day := startOfDay(now).AddDate(0, 0, 1)
	for !IsBookable(kind, day, now) {
		day = day.AddDate(0, 0, 1)
	}
	return day
}

// AvailableSlots returns the slots open on day, or an empty list when day
// cannot be booked.
func AvailableSlots(kind Kind, day, now time.Time) []string {
	if !IsBookable(kind, day, now) {
		return []string{}
	}
	return append([]string{}, Slots(kind)...)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func containsSlot(slots []string, slot string) bool {
	for _, s := range slots {
		if s == slot {
			return true
		}
	}
	return false
}
