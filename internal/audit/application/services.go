package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/resyne/site-api/internal/audit/domain"
	"github.com/resyne/site-api/internal/metrics"
)

// ReportGenerator produces the advisory text for a prompt.
type ReportGenerator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// ReportRenderer turns a report into a downloadable PDF.
type ReportRenderer interface {
	Render(doc domain.ReportDocument) ([]byte, error)
}

// ReportMailer delivers the report to the contact who requested it.
type ReportMailer interface {
	SendAuditReport(ctx context.Context, email AuditReportEmail) error
}

// AuditRepository persists generated reports.
type AuditRepository interface {
	Create(ctx context.Context, submission *domain.AuditSubmission) error
	List(ctx context.Context, paging Paging) ([]domain.AuditSubmission, error)
	FindByID(ctx context.Context, id string) (*domain.AuditSubmission, error)
}

// Paging controls pagination.
type Paging struct {
	Page  int
	Limit int
}

// AuditReportEmail is the message sent to a contact once the report is ready.
type AuditReportEmail struct {
	Reference  string
	Contact    domain.ContactInfo
	Report     string
	Sections   []domain.Section
	Filename   string
	Attachment []byte
}

var (
	// ErrEmptyReport is returned when the provider answers without content.
	ErrEmptyReport = errors.New("empty report from provider")
	// ErrNotFound is returned by repositories for unknown ids.
	ErrNotFound = errors.New("audit not found")
)

// DefaultWriteTimeout bounds the best-effort store write.
const DefaultWriteTimeout = 3 * time.Second

// GenerateReportCommand carries the generate-audit-report payload.
type GenerateReportCommand struct {
	Request domain.ReportRequest
}

// GenerateReportResult is returned to the client. EmailSent is nil when no
// contact was provided.
type GenerateReportResult struct {
	Reference string
	Report    string
	Request   domain.ReportRequest
	EmailSent *bool
}

// Config wires the service dependencies. Renderer, Mailer and Repository are
// optional.
type Config struct {
	Generator    ReportGenerator
	Renderer     ReportRenderer
	Mailer       ReportMailer
	Repository   AuditRepository
	Metrics      *metrics.Metrics
	Logger       *log.Logger
	WriteTimeout time.Duration
	Now          func() time.Time
}

// ReportService runs the audit report use cases.
type ReportService struct {
	generator  ReportGenerator
	renderer   ReportRenderer
	mailer     ReportMailer
	repo       AuditRepository
	metrics    *metrics.Metrics
	logger     *log.Logger
	writeLimit time.Duration
	now        func() time.Time
}

func NewReportService(cfg Config) *ReportService {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	writeLimit := cfg.WriteTimeout
	if writeLimit <= 0 {
		writeLimit = DefaultWriteTimeout
	}
	return &ReportService{
		generator:  cfg.Generator,
		renderer:   cfg.Renderer,
		mailer:     cfg.Mailer,
		repo:       cfg.Repository,
		metrics:    cfg.Metrics,
		logger:     cfg.Logger,
		writeLimit: writeLimit,
		now:        now,
	}
}

// Generate validates the answers, asks the generator for the report and,
// when a contact is present, emails it as a PDF. A failed email is reported
// through EmailSent and never fails the call.
func (s *ReportService) Generate(ctx context.Context, cmd GenerateReportCommand) (*GenerateReportResult, error) {
	req := cmd.Request
	if err := req.Validate(); err != nil {
		s.metrics.IncAuditReport("invalid")
		return nil, err
	}

	start := s.now()
	report, err := s.generator.Generate(ctx, domain.SystemPrompt, domain.BuildPrompt(req))
	s.metrics.ObserveLLMRequest(start)
	if err != nil {
		s.metrics.IncAuditReport("failed")
		return nil, fmt.Errorf("generate report: %w", err)
	}
	if strings.TrimSpace(report) == "" {
		s.metrics.IncAuditReport("failed")
		return nil, ErrEmptyReport
	}

	result := &GenerateReportResult{
		Reference: newReference(),
		Report:    report,
		Request:   req,
	}

	if req.ContactInfo != nil {
		sent := s.emailReport(ctx, result.Reference, *req.ContactInfo, report)
		result.EmailSent = &sent
	}

	s.record(ctx, result)
	s.metrics.IncAuditReport("success")
	return result, nil
}

// RenderPDF renders a report for download.
func (s *ReportService) RenderPDF(ctx context.Context, report string, contact domain.ContactInfo) ([]byte, string, error) {
	if s.renderer == nil {
		return nil, "", errors.New("pdf renderer is not configured")
	}
	if strings.TrimSpace(report) == "" {
		return nil, "", ErrEmptyReport
	}
	doc := domain.ReportDocument{Contact: contact, Report: report, GeneratedAt: s.now()}
	pdf, err := s.renderer.Render(doc)
	if err != nil {
		return nil, "", fmt.Errorf("render pdf: %w", err)
	}
	return pdf, doc.Filename(), nil
}

func (s *ReportService) List(ctx context.Context, paging Paging) ([]domain.AuditSubmission, error) {
	if s.repo == nil {
		return []domain.AuditSubmission{}, nil
	}
	return s.repo.List(ctx, paging)
}

func (s *ReportService) Detail(ctx context.Context, id string) (*domain.AuditSubmission, error) {
	if s.repo == nil {
		return nil, ErrNotFound
	}
	return s.repo.FindByID(ctx, id)
}

func (s *ReportService) emailReport(ctx context.Context, reference string, contact domain.ContactInfo, report string) bool {
	if s.mailer == nil {
		return false
	}
	email := AuditReportEmail{
		Reference: reference,
		Contact:   contact,
		Report:    report,
		Sections:  domain.SplitSections(report),
	}
	if s.renderer != nil {
		doc := domain.ReportDocument{Contact: contact, Report: report, GeneratedAt: s.now()}
		if pdf, err := s.renderer.Render(doc); err != nil {
			s.logf("audit %s: PDF rendering failed, sending without attachment: %v", reference, err)
		} else {
			email.Attachment = pdf
			email.Filename = doc.Filename()
		}
	}
	err := s.mailer.SendAuditReport(ctx, email)
	s.metrics.IncEmail("audit_report", err)
	if err != nil {
		s.logf("audit %s: report email failed: %v", reference, err)
		return false
	}
	return true
}

func (s *ReportService) record(ctx context.Context, result *GenerateReportResult) {
	if s.repo == nil {
		return
	}
	submission := &domain.AuditSubmission{
		Reference: result.Reference,
		Request:   result.Request,
		Report:    result.Report,
		EmailSent: result.EmailSent != nil && *result.EmailSent,
		CreatedAt: s.now().UTC(),
	}
	writeCtx, cancel := context.WithTimeout(ctx, s.writeLimit)
	defer cancel()
	if err := s.repo.Create(writeCtx, submission); err != nil {
		s.logf("audit %s: failed to store submission: %v", result.Reference, err)
	}
}

func (s *ReportService) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}

func newReference() string {
	return "AUD-" + strings.ToUpper(uuid.NewString()[:8])
}
