package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// SystemPrompt frames the model as the consultancy's advisor.
const SystemPrompt = "Sei un consulente esperto in digitalizzazione aziendale, ERP, AI e automazioni. Genera report professionali e dettagliati."

const reportOutline = `GENERA UN REPORT STRUTTURATO CON:

## 1. ANALISI SITUAZIONE ATTUALE
- Punti di forza identificati
- Criticità e inefficienze rilevate
- Opportunità di miglioramento immediate

## 2. SOLUZIONI ERP CONSIGLIATE
- Moduli ERP specifici per il settore
- Benefici attesi dall'implementazione
- ROI stimato e tempi di rientro

## 3. AUTOMAZIONI PRIORITARIE
- Processi automatizzabili identificati
- Tecnologie consigliate
- Risparmio di tempo stimato

## 4. IMPLEMENTAZIONI AI STRATEGICHE
- Aree di applicazione dell'AI più vantaggiose
- Soluzioni specifiche consigliate
- Impatto previsto sul business

## 5. ROADMAP IMPLEMENTAZIONE
- Fasi di implementazione consigliate
- Timeline suggerita
- Investimenti richiesti per fase

## 6. BENEFICI ECONOMICI ATTESI
- Risparmi operativi stimati
- Incremento di produttività
- ROI complessivo del progetto

Il report deve essere professionale, specifico per il settore, e includere dati quantitativi realistici. Usa un tono consulenziale esperto ma accessibile.`

// BuildPrompt renders the user prompt sent to the model.
func BuildPrompt(r ReportRequest) string {
	var b strings.Builder
	b.WriteString("Come consulente esperto in digitalizzazione aziendale e soluzioni ERP, AI e Automazioni, ")
	b.WriteString("analizza le seguenti informazioni aziendali e genera un report dettagliato e professionale.\n\n")
	b.WriteString("INFORMAZIONI AZIENDA:\n")

	lines := [][2]string{
		{"Settore", r.Sector},
		{"Descrizione attività", r.Description},
		{"Anni sul mercato", r.YearsInMarket},
		{"Ricavi ultimi 12 mesi", r.Revenue},
		{"Processi principali", r.MainProcesses},
		{"Strumenti attuali", r.CurrentTools},
		{"Gestione multiple sedi/reparti", r.MultipleLocations},
		{"Gestione clienti", r.CustomerManagement},
		{"Attività ripetitive", r.RepetitiveTasks},
		{"Report/KPI manuali", r.ManualReports},
		{"Aree per previsioni/analisi", r.ForecastAreas},
		{"Utilizzo AI suggerito", r.AIAreas},
	}
	for _, line := range lines {
		fmt.Fprintf(&b, "- %s: %s\n", line[0], line[1])
	}
	if r.ContactInfo != nil && r.ContactInfo.Company != "" {
		fmt.Fprintf(&b, "- Nome azienda: %s\n", r.ContactInfo.Company)
	}

	b.WriteString("\n")
	b.WriteString(reportOutline)
	return b.String()
}

// Section is one numbered chapter of a generated report.
type Section struct {
	Title string
	Body  string
}

var sectionHeading = regexp.MustCompile(`(?m)\*\*(\d+\.\s[^*\n]+)\*\*|^#{1,3}[ \t]*(\d+\.\s[^\n]+)$`)

// SplitSections cuts a report on its numbered headings, either "**1. Title**"
// or "## 1. Title". Text before the first heading is dropped unless there are
// no headings at all, in which case the whole report is one untitled section.
func SplitSections(report string) []Section {
	report = strings.TrimSpace(report)
	if report == "" {
		return nil
	}

	matches := sectionHeading.FindAllStringSubmatchIndex(report, -1)
	if len(matches) == 0 {
		return []Section{{Body: cleanMarkdown(report)}}
	}

	sections := make([]Section, 0, len(matches))
	for i, m := range matches {
		var title string
		if m[2] >= 0 {
			title = report[m[2]:m[3]]
		} else {
			title = report[m[4]:m[5]]
		}
		end := len(report)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		sections = append(sections, Section{
			Title: strings.TrimSpace(strings.Trim(title, "*# ")),
			Body:  cleanMarkdown(report[m[1]:end]),
		})
	}
	return sections
}

var markdownNoise = strings.NewReplacer("**", "", "__", "", "### ", "", "## ", "", "# ", "")

func cleanMarkdown(text string) string {
	return strings.TrimSpace(markdownNoise.Replace(text))
}
