package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/resyne/site-api/internal/booking/domain"
	"github.com/resyne/site-api/internal/metrics"
	"github.com/resyne/site-api/internal/provider"
)

// Mailer sends the booking emails and returns the provider message id.
type Mailer interface {
	SendWebsiteConfirmation(ctx context.Context, booking domain.WebsiteBooking) (string, error)
	SendWebsiteTeamNotice(ctx context.Context, booking domain.WebsiteBooking) (string, error)
	SendCallConfirmation(ctx context.Context, booking domain.CallBooking) (string, error)
	SendCallTeamNotice(ctx context.Context, booking domain.CallBooking) (string, error)
}

// BookingRepository stores confirmed bookings.
type BookingRepository interface {
	Create(ctx context.Context, submission *domain.Submission) error
	List(ctx context.Context, filter Filter, paging Paging) ([]domain.Submission, error)
}

// FailureStore keeps team notifications that could not be delivered.
type FailureStore interface {
	Record(ctx context.Context, failure *FailedNotification) error
	List(ctx context.Context, status string, paging Paging) ([]FailedNotification, error)
	Resolve(ctx context.Context, id string) error
}

// Filter narrows the booking list.
type Filter struct {
	Kind domain.Kind
}

// Paging controls pagination.
type Paging struct {
	Page  int
	Limit int
}

// Failure statuses.
const (
	FailureStatusPending  = "pending"
	FailureStatusResolved = "resolved"
)

// FailedNotification is a team email that exhausted its retries.
type FailedNotification struct {
	ID          string
	Target      string
	Payload     map[string]any
	Error       string
	Attempts    int
	Status      string
	CreatedAt   time.Time
	LastTriedAt time.Time
}

// ErrNotFound is returned by stores for unknown ids.
var ErrNotFound = errors.New("not found")

// Result describes a confirmed booking. TeamNoticePending is set when the
// team email failed and was stored for follow-up.
type Result struct {
	Reference         string
	CustomerEmailID   string
	TeamEmailID       string
	TeamNoticePending bool
}

// DefaultWriteTimeout bounds each best-effort store write.
const DefaultWriteTimeout = 3 * time.Second

// Config wires the service dependencies.
type Config struct {
	Mailer        Mailer
	Repository    BookingRepository
	Failures      FailureStore
	Metrics       *metrics.Metrics
	Logger        *log.Logger
	Location      *time.Location
	RetryAttempts int
	RetryDelay    time.Duration
	WriteTimeout  time.Duration
	Now           func() time.Time
}

// Service runs the booking use cases.
type Service struct {
	mailer     Mailer
	repo       BookingRepository
	failures   FailureStore
	metrics    *metrics.Metrics
	logger     *log.Logger
	location   *time.Location
	attempts   int
	retryDelay time.Duration
	writeLimit time.Duration
	now        func() time.Time
}

func NewService(cfg Config) *Service {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	attempts := cfg.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}
	writeLimit := cfg.WriteTimeout
	if writeLimit <= 0 {
		writeLimit = DefaultWriteTimeout
	}
	return &Service{
		mailer:     cfg.Mailer,
		repo:       cfg.Repository,
		failures:   cfg.Failures,
		metrics:    cfg.Metrics,
		logger:     cfg.Logger,
		location:   loc,
		attempts:   attempts,
		retryDelay: cfg.RetryDelay,
		writeLimit: writeLimit,
		now:        now,
	}
}

// Now returns the current time in the booking time zone.
func (s *Service) Now() time.Time {
	return s.now().In(s.location)
}

// Location is the time zone used for the calendar.
func (s *Service) Location() *time.Location {
	return s.location
}

// AvailableSlots lists the free slots of a day.
func (s *Service) AvailableSlots(kind domain.Kind, day time.Time) []string {
	return domain.AvailableSlots(kind, day, s.Now())
}

// ConfirmWebsiteBooking validates a website-in-1-day booking and sends the
// customer confirmation and the team notice.
func (s *Service) ConfirmWebsiteBooking(ctx context.Context, booking domain.WebsiteBooking) (*Result, error) {
	if err := booking.Normalize(s.Now()); err != nil {
		return nil, err
	}
	result := &Result{Reference: newReference("WEB")}
	payload := map[string]any{
		"reference": result.Reference,
		"kind":      string(domain.KindWebsite),
		"name":      booking.FullName(),
		"email":     booking.Email,
		"phone":     booking.Phone,
		"date":      booking.AppointmentDate,
		"time":      booking.AppointmentTime,
	}

	err := s.dispatch(ctx, result, "website_team_notice", payload,
		func(ctx context.Context) (string, error) {
			id, err := s.mailer.SendWebsiteConfirmation(ctx, booking)
			s.metrics.IncEmail("website_confirmation", err)
			return id, err
		},
		func(ctx context.Context) (string, error) {
			id, err := s.mailer.SendWebsiteTeamNotice(ctx, booking)
			s.metrics.IncEmail("website_team_notice", err)
			return id, err
		},
	)
	if err != nil {
		return nil, err
	}

	submission := domain.WebsiteSubmission(booking)
	s.record(ctx, result, &submission)
	return result, nil
}

// NotifyCallBooking validates a discovery call booking and sends the customer
// confirmation and the team notice.
func (s *Service) NotifyCallBooking(ctx context.Context, booking domain.CallBooking) (*Result, error) {
	if err := booking.Normalize(s.Now()); err != nil {
		return nil, err
	}
	result := &Result{Reference: newReference("CALL")}
	payload := map[string]any{
		"reference": result.Reference,
		"kind":      string(domain.KindCall),
		"name":      booking.FullName(),
		"email":     booking.Email,
		"phone":     booking.Phone,
		"date":      booking.Date,
		"time":      booking.Time,
		"platform":  booking.Platform,
	}

	err := s.dispatch(ctx, result, "call_team_notice", payload,
		func(ctx context.Context) (string, error) {
			id, err := s.mailer.SendCallConfirmation(ctx, booking)
			s.metrics.IncEmail("call_confirmation", err)
			return id, err
		},
		func(ctx context.Context) (string, error) {
			id, err := s.mailer.SendCallTeamNotice(ctx, booking)
			s.metrics.IncEmail("call_team_notice", err)
			return id, err
		},
	)
	if err != nil {
		return nil, err
	}

	submission := domain.CallSubmission(booking)
	s.record(ctx, result, &submission)
	return result, nil
}

func (s *Service) List(ctx context.Context, filter Filter, paging Paging) ([]domain.Submission, error) {
	if s.repo == nil {
		return []domain.Submission{}, nil
	}
	return s.repo.List(ctx, filter, paging)
}

func (s *Service) FailedNotifications(ctx context.Context, status string, paging Paging) ([]FailedNotification, error) {
	if s.failures == nil {
		return []FailedNotification{}, nil
	}
	return s.failures.List(ctx, status, paging)
}

func (s *Service) ResolveFailedNotification(ctx context.Context, id string) error {
	if s.failures == nil {
		return ErrNotFound
	}
	return s.failures.Resolve(ctx, id)
}

type sendFunc func(ctx context.Context) (string, error)

// dispatch sends the customer email once and then the team email with
// retry. A customer failure stops the booking before the team is notified.
// A team failure is stored for follow-up and the booking still succeeds; it
// fails only when the failure cannot be stored.
func (s *Service) dispatch(ctx context.Context, result *Result, target string, payload map[string]any, customer, team sendFunc) error {
	id, err := customer(ctx)
	if err != nil {
		s.logf("booking %s: customer email failed: %v", result.Reference, err)
		return fmt.Errorf("send customer email: %w", err)
	}
	result.CustomerEmailID = id

	id, attempts, err := s.sendWithRetry(ctx, team)
	if err == nil {
		result.TeamEmailID = id
		return nil
	}
	s.logf("booking %s: team email failed after %d attempts: %v", result.Reference, attempts, err)
	if storeErr := s.persistFailure(ctx, target, payload, err, attempts); storeErr != nil {
		return fmt.Errorf("send team email: %w", err)
	}
	result.TeamNoticePending = true
	return nil
}

func (s *Service) sendWithRetry(ctx context.Context, send sendFunc) (string, int, error) {
	var lastErr error
	for i := 1; i <= s.attempts; i++ {
		id, err := send(ctx)
		if err == nil {
			return id, i, nil
		}
		lastErr = err
		if errors.Is(err, provider.ErrNotConfigured) || i == s.attempts {
			return "", i, lastErr
		}
		if s.retryDelay > 0 {
			select {
			case <-ctx.Done():
				return "", i, ctx.Err()
			case <-time.After(s.retryDelay):
			}
		}
	}
	return "", s.attempts, lastErr
}

func (s *Service) persistFailure(ctx context.Context, target string, payload map[string]any, sendErr error, attempts int) error {
	if s.failures == nil {
		return errors.New("no failure store configured")
	}
	now := s.now().UTC()
	failure := &FailedNotification{
		Target:      target,
		Payload:     payload,
		Error:       sendErr.Error(),
		Attempts:    attempts,
		Status:      FailureStatusPending,
		CreatedAt:   now,
		LastTriedAt: now,
	}
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.writeLimit)
	defer cancel()
	if err := s.failures.Record(writeCtx, failure); err != nil {
		s.logf("failed to store failed notification %s: %v", target, err)
		return err
	}
	return nil
}

func (s *Service) record(ctx context.Context, result *Result, submission *domain.Submission) {
	s.metrics.IncBooking(string(submission.Kind))
	if s.repo == nil {
		return
	}
	submission.Reference = result.Reference
	submission.CreatedAt = s.now().UTC()
	writeCtx, cancel := context.WithTimeout(ctx, s.writeLimit)
	defer cancel()
	if err := s.repo.Create(writeCtx, submission); err != nil {
		s.logf("booking %s: failed to store submission: %v", result.Reference, err)
	}
}

func (s *Service) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}

func newReference(prefix string) string {
	return prefix + "-" + strings.ToUpper(uuid.NewString()[:8])
}
