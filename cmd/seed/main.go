package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	auditdomain "github.com/resyne/site-api/internal/audit/domain"
	bookingapp "github.com/resyne/site-api/internal/booking/application"
	bookingdomain "github.com/resyne/site-api/internal/booking/domain"
	mongodoc "github.com/resyne/site-api/internal/infrastructure/mongo"
)

type seedOptions struct {
	envName         string
	auditCount      int
	bookingCount    int
	failureCount    int
	dropCollections bool
	randomSeed      int64
}

var (
	firstNames = []string{"Giulia", "Marco", "Anna", "Luca", "Francesca", "Matteo", "Sara", "Davide"}
	lastNames  = []string{"Rossi", "Bianchi", "Verdi", "Conti", "Ferrari", "Romano", "Greco", "Neri"}
	cities     = []string{"Milano", "Torino", "Bologna", "Firenze", "Roma", "Napoli", "Bari", "Verona"}
	companies  = []string{"Alu Srl", "Verdi & Figli", "Tecnoservizi", "Studio Conti", "Forno Greco", "Logistica Nord"}
	tools      = []string{"Excel e email", "Gestionale + Excel", "ERP e CRM", "Carta e WhatsApp"}
	messages   = []string{"", "Vorrei capire i costi", "Abbiamo già un sito da rifare", "Interessati all'automazione dei preventivi"}
)

func main() {
	opts := parseFlags()

	if err := loadEnvFiles(opts.envName); err != nil {
		log.Fatalf("failed to load env files: %v", err)
	}

	cols := mongodoc.Collections{
		Audits:              envOrDefault("AUDIT_COLLECTION", "audits"),
		Bookings:            envOrDefault("BOOKING_COLLECTION", "bookings"),
		FailedNotifications: envOrDefault("FAILED_NOTIFICATION_COLLECTION", "failed_notifications"),
	}
	mongoURI := envOrDefault("MONGO_URI", "mongodb://localhost:27017")
	dbName := envOrDefault("MONGO_DB", "resyne")

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("failed to connect to MongoDB: %v", err)
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	db := client.Database(dbName)

	if opts.dropCollections {
		if err := mongodoc.DropCollections(ctx, db, cols); err != nil {
			log.Printf("WARN: %v", err)
		} else {
			log.Printf("dropped existing collections")
		}
	}

	if err := mongodoc.EnsureIndexes(ctx, db, cols); err != nil {
		log.Fatalf("failed to create indexes: %v", err)
	}

	rng := rand.New(rand.NewSource(opts.randomSeed))
	now := time.Now().UTC()

	audits := generateAudits(rng, opts.auditCount, now)
	bookings := generateBookings(rng, opts.bookingCount, now)
	failures := generateFailedNotifications(rng, bookings, opts.failureCount)

	auditRepo := mongodoc.NewAuditRepository(db, cols.Audits)
	bookingRepo := mongodoc.NewBookingRepository(db, cols.Bookings)
	failureRepo := mongodoc.NewFailedNotificationRepository(db, cols.FailedNotifications)

	// Each collection is filled by its own goroutine.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for i := range audits {
			if err := auditRepo.Create(gctx, &audits[i]); err != nil {
				return fmt.Errorf("insert audit %s: %w", audits[i].Reference, err)
			}
		}
		return nil
	})
	g.Go(func() error {
		for i := range bookings {
			if err := bookingRepo.Create(gctx, &bookings[i]); err != nil {
				return fmt.Errorf("insert booking %s: %w", bookings[i].Reference, err)
			}
		}
		return nil
	})
	g.Go(func() error {
		for i := range failures {
			if err := failureRepo.Record(gctx, &failures[i]); err != nil {
				return fmt.Errorf("insert failed notification: %w", err)
			}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Fatalf("failed to seed: %v", err)
	}

	log.Printf("seed done: audits=%d bookings=%d failedNotifications=%d",
		opts.auditCount, len(bookings), len(failures))
	log.Printf("Mongo: %s / %s (env=%s, seed=%d)", mongoURI, dbName, opts.envName, opts.randomSeed)
}

func parseFlags() seedOptions {
	var opts seedOptions
	flag.StringVar(&opts.envName, "env", "local", "env file name under ../env (e.g. local, staging)")
	flag.IntVar(&opts.auditCount, "audits", 10, "number of audit reports to generate")
	flag.IntVar(&opts.bookingCount, "bookings", 20, "number of bookings to generate")
	flag.IntVar(&opts.failureCount, "failures", 2, "number of failed team notifications to generate")
	flag.BoolVar(&opts.dropCollections, "drop", true, "drop the collections before seeding")
	flag.Int64Var(&opts.randomSeed, "seed", time.Now().UnixNano(), "random seed, for reproducible data")
	flag.Parse()

	if opts.auditCount < 0 {
		opts.auditCount = 0
	}
	if opts.bookingCount < 0 {
		opts.bookingCount = 0
	}
	if opts.failureCount > opts.bookingCount {
		opts.failureCount = opts.bookingCount
	}
	return opts
}

func loadEnvFiles(envName string) error {
	base := filepath.Clean(filepath.Join("..", "env"))
	files := []string{
		filepath.Join(base, "shared.env"),
		filepath.Join(base, fmt.Sprintf("%s.env", envName)),
	}
	for _, file := range files {
		if err := godotenv.Overload(file); err != nil {
			return fmt.Errorf("read %s: %w", file, err)
		}
	}
	return nil
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func generateAudits(rng *rand.Rand, count int, now time.Time) []auditdomain.AuditSubmission {
	audits := make([]auditdomain.AuditSubmission, 0, count)
	for i := 0; i < count; i++ {
		processes := pickUnique(rng, processLabels(), 1+rng.Intn(3))
		req := auditdomain.ReportRequest{
			Sector:             pick(rng, auditdomain.Sectors),
			Description:        "Azienda di " + strings.ToLower(pick(rng, cities)),
			YearsInMarket:      pick(rng, auditdomain.YearsInMarketOptions),
			Revenue:            pick(rng, auditdomain.RevenueOptions),
			MainProcesses:      strings.Join(processes, ", "),
			CurrentTools:       pick(rng, tools),
			MultipleLocations:  yesNoDetail(rng, "Due sedi operative"),
			CustomerManagement: pick(rng, []string{"CRM", "Excel", "Rubrica email"}),
			RepetitiveTasks:    yesNoDetail(rng, "Inserimento ordini"),
			ManualReports:      yesNoDetail(rng, "Fatturato mensile"),
			ForecastAreas:      yesNoDetail(rng, "Previsioni di vendita"),
			AIAreas:            pick(rng, []string{"Preventivi", "Assistenza clienti", "Analisi dei dati"}),
		}

		emailSent := false
		if rng.Intn(3) > 0 {
			first, last := pick(rng, firstNames), pick(rng, lastNames)
			req.ContactInfo = &auditdomain.ContactInfo{
				FirstName: first,
				LastName:  last,
				Email:     strings.ToLower(first+"."+last) + "@example.com",
				Phone:     fmt.Sprintf("+39 3%02d %07d", rng.Intn(100), rng.Intn(10000000)),
				Company:   pick(rng, companies),
			}
			emailSent = rng.Intn(5) > 0
		}

		audits = append(audits, auditdomain.AuditSubmission{
			Reference: reference(rng, "AUD-"),
			Request:   req,
			Report:    sampleReport(req),
			EmailSent: emailSent,
			CreatedAt: now.Add(-time.Duration(rng.Intn(30*24)) * time.Hour),
		})
	}
	return audits
}

func generateBookings(rng *rand.Rand, count int, now time.Time) []bookingdomain.Submission {
	bookings := make([]bookingdomain.Submission, 0, count)
	for i := 0; i < count; i++ {
		first, last := pick(rng, firstNames), pick(rng, lastNames)
		day := nextWeekday(now.AddDate(0, 0, 1+rng.Intn(21)))
		s := bookingdomain.Submission{
			FirstName: first,
			LastName:  last,
			Email:     strings.ToLower(first+"."+last) + "@example.com",
			Phone:     fmt.Sprintf("+39 3%02d %07d", rng.Intn(100), rng.Intn(10000000)),
			CreatedAt: now.Add(-time.Duration(rng.Intn(14*24)) * time.Hour),
		}
		if rng.Intn(2) == 0 {
			s.Kind = bookingdomain.KindWebsite
			s.Reference = reference(rng, "WEB-")
			s.City = pick(rng, cities)
			s.Date = day.Format("02/01/2006")
			s.Time = pick(rng, bookingdomain.WebsiteSlots)
			s.HasWebsite = rng.Intn(2) == 0
			s.HasLogo = rng.Intn(2) == 0
			s.Preferences = pickUnique(rng, []string{"WhatsApp", "Email", "Telefono", "Videochiamata"}, 1+rng.Intn(2))
		} else {
			platform := bookingdomain.Platforms[rng.Intn(len(bookingdomain.Platforms))]
			s.Kind = bookingdomain.KindCall
			s.Reference = reference(rng, "CALL-")
			s.Date = day.Format("2006-01-02")
			s.Time = pick(rng, bookingdomain.CallSlots)
			s.Platform = platform.Label
			s.Message = pick(rng, messages)
		}
		bookings = append(bookings, s)
	}
	return bookings
}

func generateFailedNotifications(rng *rand.Rand, bookings []bookingdomain.Submission, count int) []bookingapp.FailedNotification {
	if len(bookings) == 0 || count <= 0 {
		return nil
	}
	failures := make([]bookingapp.FailedNotification, 0, count)
	for i := 0; i < count; i++ {
		b := bookings[rng.Intn(len(bookings))]
		target := "website_team_notice"
		if b.Kind == bookingdomain.KindCall {
			target = "call_team_notice"
		}
		created := b.CreatedAt.Add(time.Minute)
		failures = append(failures, bookingapp.FailedNotification{
			Target: target,
			Payload: map[string]any{
				"reference": b.Reference,
				"firstName": b.FirstName,
				"lastName":  b.LastName,
				"email":     b.Email,
				"date":      b.Date,
				"time":      b.Time,
			},
			Error:       "Resend API error (429): rate limit exceeded",
			Attempts:    3,
			Status:      bookingapp.FailureStatusPending,
			CreatedAt:   created,
			LastTriedAt: created,
		})
	}
	return failures
}

func sampleReport(req auditdomain.ReportRequest) string {
	titles := []string{
		"Analisi della situazione attuale",
		"Opportunità di digitalizzazione",
		"Automazione dei processi",
		"Business Intelligence",
		"Intelligenza Artificiale",
		"Piano d'azione",
	}
	var b strings.Builder
	for i, title := range titles {
		fmt.Fprintf(&b, "**%d. %s**\n", i+1, title)
		fmt.Fprintf(&b, "Per un'azienda del settore %s con processi chiave in %s, questa area offre margini concreti di miglioramento.\n\n",
			strings.ToLower(req.Sector), strings.ToLower(req.MainProcesses))
	}
	return strings.TrimSpace(b.String())
}

func processLabels() []string {
	labels := make([]string, 0, len(auditdomain.ProcessOptions))
	for _, option := range auditdomain.ProcessOptions {
		labels = append(labels, option.Label)
	}
	return labels
}

func yesNoDetail(rng *rand.Rand, detail string) string {
	switch rng.Intn(3) {
	case 0:
		return "No"
	case 1:
		return "Sì"
	}
	return detail
}

func nextWeekday(day time.Time) time.Time {
	for day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
		day = day.AddDate(0, 0, 1)
	}
	return day
}

func reference(rng *rand.Rand, prefix string) string {
	return fmt.Sprintf("%s%08X", prefix, rng.Uint32())
}

func pick(rng *rand.Rand, values []string) string {
	return values[rng.Intn(len(values))]
}

func pickUnique(rng *rand.Rand, source []string, count int) []string {
	if count >= len(source) {
		return append([]string(nil), source...)
	}
	perm := rng.Perm(len(source))
	result := make([]string, 0, count)
	for _, idx := range perm[:count] {
		result = append(result, source[idx])
	}
	return result
}
