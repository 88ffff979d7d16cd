package main

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auditdomain "github.com/resyne/site-api/internal/audit/domain"
	bookingdomain "github.com/resyne/site-api/internal/booking/domain"
)

var now = time.Date(2026, time.October, 19, 9, 0, 0, 0, time.UTC)

func TestGenerateAuditsAreValid(t *testing.T) {
	audits := generateAudits(rand.New(rand.NewSource(1)), 20, now)
	require.Len(t, audits, 20)

	for _, audit := range audits {
		req := audit.Request
		assert.NoError(t, req.Validate(), audit.Reference)
		assert.True(t, strings.HasPrefix(audit.Reference, "AUD-"))
		assert.Len(t, auditdomain.SplitSections(audit.Report), 6)
		assert.False(t, audit.CreatedAt.After(now))
	}
}

func TestGenerateBookingsUseCalendarSlots(t *testing.T) {
	bookings := generateBookings(rand.New(rand.NewSource(2)), 30, now)
	require.Len(t, bookings, 30)

	for _, b := range bookings {
		switch b.Kind {
		case bookingdomain.KindWebsite:
			assert.Contains(t, bookingdomain.WebsiteSlots, b.Time)
			day, err := time.Parse("02/01/2006", b.Date)
			require.NoError(t, err)
			assert.True(t, day.After(now))
		case bookingdomain.KindCall:
			assert.Contains(t, bookingdomain.CallSlots, b.Time)
			day, err := time.Parse("2006-01-02", b.Date)
			require.NoError(t, err)
			assert.NotEqual(t, time.Saturday, day.Weekday())
			assert.NotEqual(t, time.Sunday, day.Weekday())
		default:
			t.Fatalf("unexpected kind %q", b.Kind)
		}
	}
}

func TestGenerateFailedNotifications(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	bookings := generateBookings(rng, 5, now)

	failures := generateFailedNotifications(rng, bookings, 2)
	require.Len(t, failures, 2)
	for _, f := range failures {
		assert.Equal(t, "pending", f.Status)
		assert.Equal(t, 3, f.Attempts)
		assert.Contains(t, []string{"website_team_notice", "call_team_notice"}, f.Target)
	}

	assert.Empty(t, generateFailedNotifications(rng, nil, 2))
}
