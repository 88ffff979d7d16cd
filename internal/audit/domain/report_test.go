package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resyne/site-api/internal/validation"
)

func TestReportRequestValidateRequiresAllAnswers(t *testing.T) {
	r := ReportRequest{Sector: "Edilizia"}
	verr, ok := validation.As(r.Validate())
	require.True(t, ok)
	assert.Len(t, verr.Fields, 11)
	assert.NotContains(t, verr.Map(), "sector")
	assert.Contains(t, verr.Map(), "aiAreas")
}

func TestReportRequestValidateContact(t *testing.T) {
	r := completeAnswers().ReportRequest()
	r.ContactInfo = &ContactInfo{FirstName: "Mario", Email: "not-an-email"}

	verr, ok := validation.As(r.Validate())
	require.True(t, ok)
	assert.Equal(t, "Email non valida", verr.Map()["contactInfo.email"])
	assert.Contains(t, verr.Map(), "contactInfo.lastName")

	r.ContactInfo = &ContactInfo{}
	require.NoError(t, r.Validate())
	assert.Nil(t, r.ContactInfo, "an empty contact block is treated as absent")
}

func TestBuildPromptListsAnswers(t *testing.T) {
	r := completeAnswers().ReportRequest()
	prompt := BuildPrompt(r)

	assert.Contains(t, prompt, "- Settore: Manifatturiero\n")
	assert.Contains(t, prompt, "- Processi principali: produzione, vendite\n")
	assert.Contains(t, prompt, "- Gestione multiple sedi/reparti: No\n")
	assert.Contains(t, prompt, "## 6. BENEFICI ECONOMICI ATTESI")
	assert.NotContains(t, prompt, "Nome azienda")

	r.ContactInfo = &ContactInfo{Company: "Rossi Srl"}
	assert.Contains(t, BuildPrompt(r), "- Nome azienda: Rossi Srl\n")
}

func TestSplitSectionsBoldHeadings(t *testing.T) {
	report := "Premessa ignorata\n**1. Analisi situazione attuale**\nPunti di **forza** elevati.\n\n**2. Soluzioni ERP**\nModulo vendite."
	sections := SplitSections(report)

	require.Len(t, sections, 2)
	assert.Equal(t, "1. Analisi situazione attuale", sections[0].Title)
	assert.Equal(t, "Punti di forza elevati.", sections[0].Body)
	assert.Equal(t, "2. Soluzioni ERP", sections[1].Title)
	assert.Equal(t, "Modulo vendite.", sections[1].Body)
}

func TestSplitSectionsMarkdownHeadings(t *testing.T) {
	report := "## 1. ANALISI\n- punto uno\n### Dettaglio\ntesto\n## 2. ROADMAP\nfase 1"
	sections := SplitSections(report)

	require.Len(t, sections, 2)
	assert.Equal(t, "1. ANALISI", sections[0].Title)
	assert.Equal(t, "- punto uno\nDettaglio\ntesto", sections[0].Body)
	assert.Equal(t, "2. ROADMAP", sections[1].Title)
}

func TestSplitSectionsWithoutHeadings(t *testing.T) {
	sections := SplitSections("  testo libero  ")
	require.Len(t, sections, 1)
	assert.Empty(t, sections[0].Title)
	assert.Equal(t, "testo libero", sections[0].Body)

	assert.Nil(t, SplitSections("   "))
}

func TestReportDocumentFilename(t *testing.T) {
	doc := ReportDocument{
		Contact:     ContactInfo{LastName: "De Luca"},
		GeneratedAt: time.UnixMilli(1760000000000),
	}
	assert.Equal(t, "audit-report-de-luca-1760000000000.pdf", doc.Filename())

	doc.Contact.LastName = ""
	assert.True(t, strings.HasPrefix(doc.Filename(), "audit-report-cliente-"))
}
