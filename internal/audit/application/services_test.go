package application

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resyne/site-api/internal/audit/domain"
	"github.com/resyne/site-api/internal/metrics"
	"github.com/resyne/site-api/internal/validation"
)

type fakeGenerator struct {
	report string
	err    error
	system string
	prompt string
}

func (f *fakeGenerator) Generate(_ context.Context, system, prompt string) (string, error) {
	f.system = system
	f.prompt = prompt
	return f.report, f.err
}

type fakeRenderer struct {
	err  error
	docs []domain.ReportDocument
}

func (f *fakeRenderer) Render(doc domain.ReportDocument) ([]byte, error) {
	f.docs = append(f.docs, doc)
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.3 fake"), nil
}

type fakeMailer struct {
	err  error
	sent []AuditReportEmail
}

func (f *fakeMailer) SendAuditReport(_ context.Context, email AuditReportEmail) error {
	f.sent = append(f.sent, email)
	return f.err
}

type memoryRepo struct {
	mu    sync.Mutex
	items []domain.AuditSubmission
	err   error
}

func (m *memoryRepo) Create(_ context.Context, s *domain.AuditSubmission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	s.ID = "id-1"
	m.items = append(m.items, *s)
	return nil
}

func (m *memoryRepo) List(context.Context, Paging) ([]domain.AuditSubmission, error) {
	return m.items, nil
}

func (m *memoryRepo) FindByID(_ context.Context, id string) (*domain.AuditSubmission, error) {
	for i := range m.items {
		if m.items[i].ID == id {
			return &m.items[i], nil
		}
	}
	return nil, ErrNotFound
}

var fixedNow = time.Date(2026, time.October, 19, 9, 0, 0, 0, time.UTC)

func validRequest() domain.ReportRequest {
	return domain.ReportRequest{
		Sector:             "Manifatturiero",
		Description:        "Produciamo componenti in alluminio",
		YearsInMarket:      "10-20 anni",
		Revenue:            "1-5 milioni",
		MainProcesses:      "Produzione, Logistica",
		CurrentTools:       "ERP. Excel/manuali usati per: No",
		MultipleLocations:  "No",
		CustomerManagement: "CRM",
		RepetitiveTasks:    "Sì",
		ManualReports:      "No",
		ForecastAreas:      "Vendite",
		AIAreas:            "Customer care",
	}
}

func newService(gen *fakeGenerator, r *fakeRenderer, m *fakeMailer, repo *memoryRepo, met *metrics.Metrics) *ReportService {
	cfg := Config{
		Generator: gen,
		Metrics:   met,
		Now:       func() time.Time { return fixedNow },
	}
	if r != nil {
		cfg.Renderer = r
	}
	if m != nil {
		cfg.Mailer = m
	}
	if repo != nil {
		cfg.Repository = repo
	}
	return NewReportService(cfg)
}

func TestGenerateReturnsReportWithoutContact(t *testing.T) {
	gen := &fakeGenerator{report: "**1. Analisi**\nTesto"}
	mailer := &fakeMailer{}
	repo := &memoryRepo{}
	svc := newService(gen, &fakeRenderer{}, mailer, repo, nil)

	res, err := svc.Generate(context.Background(), GenerateReportCommand{Request: validRequest()})
	require.NoError(t, err)

	assert.Equal(t, "**1. Analisi**\nTesto", res.Report)
	assert.Nil(t, res.EmailSent)
	assert.True(t, strings.HasPrefix(res.Reference, "AUD-"))
	assert.Equal(t, domain.SystemPrompt, gen.system)
	assert.Contains(t, gen.prompt, "Manifatturiero")
	assert.Empty(t, mailer.sent)
	require.Len(t, repo.items, 1)
	assert.Equal(t, res.Reference, repo.items[0].Reference)
}

func TestGenerateEmailsReportToContact(t *testing.T) {
	gen := &fakeGenerator{report: "**1. Analisi**\nTesto"}
	renderer := &fakeRenderer{}
	mailer := &fakeMailer{}
	svc := newService(gen, renderer, mailer, &memoryRepo{}, nil)

	req := validRequest()
	req.ContactInfo = &domain.ContactInfo{
		FirstName: "Anna",
		LastName:  "De Luca",
		Email:     "anna@example.com",
		Phone:     "333",
		Company:   "Alu Srl",
	}
	res, err := svc.Generate(context.Background(), GenerateReportCommand{Request: req})
	require.NoError(t, err)

	require.NotNil(t, res.EmailSent)
	assert.True(t, *res.EmailSent)
	require.Len(t, mailer.sent, 1)
	email := mailer.sent[0]
	assert.Equal(t, "anna@example.com", email.Contact.Email)
	assert.Equal(t, "audit-report-de-luca-"+formatMillis(fixedNow)+".pdf", email.Filename)
	assert.NotEmpty(t, email.Attachment)
	require.Len(t, email.Sections, 1)
	assert.Equal(t, "1. Analisi", email.Sections[0].Title)
}

func TestGenerateEmailFailureDoesNotFailRequest(t *testing.T) {
	gen := &fakeGenerator{report: "report"}
	mailer := &fakeMailer{err: errors.New("resend down")}
	repo := &memoryRepo{}
	reg := prometheus.NewRegistry()
	met := metrics.New(reg)
	svc := newService(gen, &fakeRenderer{err: errors.New("no font")}, mailer, repo, met)

	req := validRequest()
	req.ContactInfo = &domain.ContactInfo{FirstName: "A", LastName: "B", Email: "a@b.it", Phone: "1", Company: "C"}
	res, err := svc.Generate(context.Background(), GenerateReportCommand{Request: req})
	require.NoError(t, err)

	require.NotNil(t, res.EmailSent)
	assert.False(t, *res.EmailSent)
	require.Len(t, mailer.sent, 1)
	assert.Empty(t, mailer.sent[0].Attachment, "a failed render still sends the text report")
	assert.False(t, repo.items[0].EmailSent)
	assert.Equal(t, 1.0, testutil.ToFloat64(met.Emails.WithLabelValues("audit_report", "failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(met.AuditReports.WithLabelValues("success")))
}

func TestGenerateValidationError(t *testing.T) {
	gen := &fakeGenerator{report: "unused"}
	svc := newService(gen, nil, nil, nil, nil)

	req := validRequest()
	req.Sector = "  "
	_, err := svc.Generate(context.Background(), GenerateReportCommand{Request: req})

	verr, ok := validation.As(err)
	require.True(t, ok)
	assert.Contains(t, verr.Map(), "sector")
	assert.Empty(t, gen.prompt, "the provider is not called for invalid input")
}

func TestGenerateProviderErrors(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("OPENAI_API_KEY is not set")}
	svc := newService(gen, nil, nil, nil, nil)
	_, err := svc.Generate(context.Background(), GenerateReportCommand{Request: validRequest()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")

	gen = &fakeGenerator{report: "  \n"}
	svc = newService(gen, nil, nil, nil, nil)
	_, err = svc.Generate(context.Background(), GenerateReportCommand{Request: validRequest()})
	assert.ErrorIs(t, err, ErrEmptyReport)
}

func TestGenerateIgnoresRepositoryFailure(t *testing.T) {
	svc := newService(&fakeGenerator{report: "ok"}, nil, nil, &memoryRepo{err: errors.New("mongo down")}, nil)
	res, err := svc.Generate(context.Background(), GenerateReportCommand{Request: validRequest()})
	require.NoError(t, err)
	assert.Equal(t, "ok", res.Report)
}

type blockingRepo struct{ memoryRepo }

func (b *blockingRepo) Create(ctx context.Context, _ *domain.AuditSubmission) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestGenerateBoundsRepositoryWrite(t *testing.T) {
	svc := NewReportService(Config{
		Generator:    &fakeGenerator{report: "**1. Analisi**\nOk"},
		Repository:   &blockingRepo{},
		WriteTimeout: 20 * time.Millisecond,
	})

	start := time.Now()
	res, err := svc.Generate(context.Background(), GenerateReportCommand{Request: validRequest()})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Reference)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestRenderPDF(t *testing.T) {
	renderer := &fakeRenderer{}
	svc := newService(&fakeGenerator{}, renderer, nil, nil, nil)

	pdf, name, err := svc.RenderPDF(context.Background(), "report", domain.ContactInfo{LastName: "Rossi"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(pdf), "%PDF"))
	assert.Equal(t, "audit-report-rossi-"+formatMillis(fixedNow)+".pdf", name)

	_, _, err = svc.RenderPDF(context.Background(), " ", domain.ContactInfo{})
	assert.ErrorIs(t, err, ErrEmptyReport)
}

func TestListAndDetail(t *testing.T) {
	repo := &memoryRepo{}
	svc := newService(&fakeGenerator{report: "ok"}, nil, nil, repo, nil)
	_, err := svc.Generate(context.Background(), GenerateReportCommand{Request: validRequest()})
	require.NoError(t, err)

	items, err := svc.List(context.Background(), Paging{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, items, 1)

	item, err := svc.Detail(context.Background(), "id-1")
	require.NoError(t, err)
	assert.Equal(t, "ok", item.Report)

	_, err = svc.Detail(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func formatMillis(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}
