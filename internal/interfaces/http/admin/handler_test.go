package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auditapp "github.com/resyne/site-api/internal/audit/application"
	auditdomain "github.com/resyne/site-api/internal/audit/domain"
	bookingapp "github.com/resyne/site-api/internal/booking/application"
	bookingdomain "github.com/resyne/site-api/internal/booking/domain"
	"github.com/resyne/site-api/internal/interfaces/http/common"
)

var createdAt = time.Date(2026, time.October, 19, 9, 0, 0, 0, time.UTC)

type auditStore struct {
	items  []auditdomain.AuditSubmission
	paging auditapp.Paging
}

func (s *auditStore) Create(_ context.Context, sub *auditdomain.AuditSubmission) error {
	s.items = append(s.items, *sub)
	return nil
}

func (s *auditStore) List(_ context.Context, paging auditapp.Paging) ([]auditdomain.AuditSubmission, error) {
	s.paging = paging
	return s.items, nil
}

func (s *auditStore) FindByID(_ context.Context, id string) (*auditdomain.AuditSubmission, error) {
	for i := range s.items {
		if s.items[i].ID == id {
			return &s.items[i], nil
		}
	}
	return nil, auditapp.ErrNotFound
}

type bookingStore struct {
	items  []bookingdomain.Submission
	filter bookingapp.Filter
}

func (s *bookingStore) Create(_ context.Context, sub *bookingdomain.Submission) error {
	s.items = append(s.items, *sub)
	return nil
}

func (s *bookingStore) List(_ context.Context, filter bookingapp.Filter, _ bookingapp.Paging) ([]bookingdomain.Submission, error) {
	s.filter = filter
	var out []bookingdomain.Submission
	for _, item := range s.items {
		if filter.Kind == "" || item.Kind == filter.Kind {
			out = append(out, item)
		}
	}
	return out, nil
}

type failureStore struct {
	items  []bookingapp.FailedNotification
	status string
}

func (s *failureStore) Record(_ context.Context, f *bookingapp.FailedNotification) error {
	s.items = append(s.items, *f)
	return nil
}

func (s *failureStore) List(_ context.Context, status string, _ bookingapp.Paging) ([]bookingapp.FailedNotification, error) {
	s.status = status
	return s.items, nil
}

func (s *failureStore) Resolve(_ context.Context, id string) error {
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Status = bookingapp.FailureStatusResolved
			return nil
		}
	}
	return bookingapp.ErrNotFound
}

type fixture struct {
	router   http.Handler
	audits   *auditStore
	bookings *bookingStore
	failures *failureStore
}

func newFixture() *fixture {
	f := &fixture{
		audits: &auditStore{items: []auditdomain.AuditSubmission{{
			ID:        "a1",
			Reference: "AUD-1234ABCD",
			Request:   auditdomain.ReportRequest{Sector: "Manifatturiero"},
			Report:    "**1. Analisi**\nTesto",
			EmailSent: true,
			CreatedAt: createdAt,
		}}},
		bookings: &bookingStore{items: []bookingdomain.Submission{
			{ID: "b1", Reference: "WEB-1", Kind: bookingdomain.KindWebsite, FirstName: "Giulia", CreatedAt: createdAt},
			{ID: "b2", Reference: "CALL-1", Kind: bookingdomain.KindCall, FirstName: "Luca", CreatedAt: createdAt},
		}},
		failures: &failureStore{items: []bookingapp.FailedNotification{{
			ID:       "f1",
			Target:   "call_team_notice",
			Payload:  map[string]any{"email": "luca@example.com"},
			Error:    "Resend API error (500)",
			Attempts: 3,
			Status:   bookingapp.FailureStatusPending,
		}}},
	}

	reports := auditapp.NewReportService(auditapp.Config{Repository: f.audits})
	bookings := bookingapp.NewService(bookingapp.Config{Repository: f.bookings, Failures: f.failures})

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := common.ContextWithAdmin(req.Context(), common.AuthenticatedAdmin{Subject: "ops", Name: "Ops"})
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	NewHandler(Config{Reports: reports, Bookings: bookings}).Register(r)
	f.router = r
	return f
}

func (f *fixture) get(t *testing.T, method, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return rec, body
}

func TestAuditList(t *testing.T) {
	f := newFixture()
	rec, body := f.get(t, http.MethodGet, "/audits?page=2&limit=5")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, auditapp.Paging{Page: 2, Limit: 5}, f.audits.paging)
	items := body["items"].([]any)
	require.Len(t, items, 1)
	item := items[0].(map[string]any)
	assert.Equal(t, "AUD-1234ABCD", item["reference"])
	assert.NotContains(t, item, "report")
}

func TestAuditDetail(t *testing.T) {
	f := newFixture()

	rec, body := f.get(t, http.MethodGet, "/audits/a1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "**1. Analisi**\nTesto", body["report"])
	assert.Equal(t, "Manifatturiero", body["request"].(map[string]any)["sector"])

	rec, body = f.get(t, http.MethodGet, "/audits/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, body["success"])
}

func TestBookingListFiltersByKind(t *testing.T) {
	f := newFixture()

	rec, body := f.get(t, http.MethodGet, "/bookings?kind=call")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, bookingdomain.KindCall, f.bookings.filter.Kind)
	items := body["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "CALL-1", items[0].(map[string]any)["reference"])

	rec, _ = f.get(t, http.MethodGet, "/bookings?kind=fax")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFailedNotifications(t *testing.T) {
	f := newFixture()

	rec, body := f.get(t, http.MethodGet, "/notifications/failed")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, bookingapp.FailureStatusPending, f.failures.status)
	items := body["items"].([]any)
	require.Len(t, items, 1)
	assert.EqualValues(t, 3, items[0].(map[string]any)["attempts"])

	_, _ = f.get(t, http.MethodGet, "/notifications/failed?status=all")
	assert.Equal(t, "", f.failures.status)

	rec, _ = f.get(t, http.MethodGet, "/notifications/failed?status=lost")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResolveFailedNotification(t *testing.T) {
	f := newFixture()

	rec, body := f.get(t, http.MethodPost, "/notifications/failed/f1/resolve")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, bookingapp.FailureStatusResolved, f.failures.items[0].Status)

	rec, _ = f.get(t, http.MethodPost, "/notifications/failed/nope/resolve")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestVerify(t *testing.T) {
	f := newFixture()
	rec, body := f.get(t, http.MethodGet, "/auth/verify")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ops", body["subject"])
}
