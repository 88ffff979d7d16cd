package domain

import (
	"strings"

	"github.com/resyne/site-api/internal/validation"
)

const (
	// AnswerYes and AnswerNo are the values of the yes/no questions.
	AnswerYes = "SI"
	AnswerNo  = "NO"
)

var (
	Sectors = []string{
		"Manifatturiero",
		"Commercio al dettaglio",
		"Commercio all'ingrosso",
		"Servizi professionali",
		"Edilizia",
		"Ristorazione",
		"Logistica e trasporti",
		"Sanità",
		"Tecnologia",
		"Automotive",
		"Moda e tessile",
		"Alimentare",
		"Altro",
	}

	YearsInMarketOptions = []string{
		"Meno di 1 anno",
		"1-3 anni",
		"3-5 anni",
		"5-10 anni",
		"10-20 anni",
		"Oltre 20 anni",
	}

	RevenueOptions = []string{
		"Sotto i 100k €",
		"100k - 500k €",
		"500k - 1M €",
		"1M - 5M €",
		"5M - 10M €",
		"Oltre 10M €",
	}

	ProcessOptions = []ProcessOption{
		{ID: "vendite", Label: "Vendite"},
		{ID: "produzione", Label: "Produzione"},
		{ID: "logistica", Label: "Logistica"},
		{ID: "servizi", Label: "Servizi clienti"},
		{ID: "marketing", Label: "Marketing"},
		{ID: "amministrazione", Label: "Amministrazione"},
		{ID: "risorse-umane", Label: "Risorse Umane"},
		{ID: "acquisti", Label: "Acquisti"},
	}

	yesNo = []string{AnswerYes, AnswerNo}
)

// ProcessOption is one selectable business process tag.
type ProcessOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Answers is the questionnaire filled in by the audit wizard.
// JSON names follow the form field names used by the site.
type Answers struct {
	Sector                   string   `json:"settore"`
	Description              string   `json:"descrizioneAzienda"`
	YearsInMarket            string   `json:"tempoMercato"`
	Revenue                  string   `json:"ricavi"`
	MainProcesses            []string `json:"processiPrincipali"`
	ExcelManual              string   `json:"excelManuali"`
	ExcelManualDetails       string   `json:"excelManualiDettagli,omitempty"`
	WorkTools                string   `json:"strumentiLavoro"`
	MultipleLocations        string   `json:"sediReparti"`
	MultipleLocationsDetails string   `json:"sediRepartiDettagli,omitempty"`
	CustomerManagement       string   `json:"gestioneClienti"`
	RepetitiveTasks          string   `json:"attivitaRipetitive"`
	RepetitiveTasksDetails   string   `json:"attivitaRipetitiveDettagli,omitempty"`
	ReportKPI                string   `json:"reportKPI"`
	ReportKPIDetails         string   `json:"reportKPIDettagli,omitempty"`
	Forecasts                string   `json:"previsioniAnalisi"`
	ForecastsDetails         string   `json:"previsioniAnalisiDettagli,omitempty"`
	AIAssistant              string   `json:"assistenteAI"`
}

// Field names as exposed to the client.
const (
	FieldSector                   = "settore"
	FieldDescription              = "descrizioneAzienda"
	FieldYearsInMarket            = "tempoMercato"
	FieldRevenue                  = "ricavi"
	FieldMainProcesses            = "processiPrincipali"
	FieldExcelManual              = "excelManuali"
	FieldExcelManualDetails       = "excelManualiDettagli"
	FieldWorkTools                = "strumentiLavoro"
	FieldMultipleLocations        = "sediReparti"
	FieldMultipleLocationsDetails = "sediRepartiDettagli"
	FieldCustomerManagement       = "gestioneClienti"
	FieldRepetitiveTasks          = "attivitaRipetitive"
	FieldRepetitiveTasksDetails   = "attivitaRipetitiveDettagli"
	FieldReportKPI                = "reportKPI"
	FieldReportKPIDetails         = "reportKPIDettagli"
	FieldForecasts                = "previsioniAnalisi"
	FieldForecastsDetails         = "previsioniAnalisiDettagli"
	FieldAIAssistant              = "assistenteAI"
)

// StepFields lists the required fields of each wizard step.
var StepFields = map[int][]string{
	1: {FieldSector, FieldYearsInMarket, FieldDescription, FieldRevenue, FieldMainProcesses},
	2: {FieldExcelManual, FieldWorkTools, FieldMultipleLocations, FieldCustomerManagement, FieldRepetitiveTasks},
	3: {FieldReportKPI, FieldForecasts, FieldAIAssistant},
}

// detailParents maps each optional detail field to the yes/no answer gating it.
var detailParents = map[string]string{
	FieldExcelManualDetails:       FieldExcelManual,
	FieldMultipleLocationsDetails: FieldMultipleLocations,
	FieldRepetitiveTasksDetails:   FieldRepetitiveTasks,
	FieldReportKPIDetails:         FieldReportKPI,
	FieldForecastsDetails:         FieldForecasts,
}

// Normalize trims every text answer and drops blank or duplicate process tags.
func (a *Answers) Normalize() {
	for _, p := range []*string{
		&a.Sector, &a.Description, &a.YearsInMarket, &a.Revenue,
		&a.ExcelManual, &a.ExcelManualDetails, &a.WorkTools,
		&a.MultipleLocations, &a.MultipleLocationsDetails, &a.CustomerManagement,
		&a.RepetitiveTasks, &a.RepetitiveTasksDetails, &a.ReportKPI, &a.ReportKPIDetails,
		&a.Forecasts, &a.ForecastsDetails, &a.AIAssistant,
	} {
		*p = strings.TrimSpace(*p)
	}
	for _, p := range []*string{&a.ExcelManual, &a.MultipleLocations, &a.RepetitiveTasks, &a.ReportKPI, &a.Forecasts} {
		*p = strings.ToUpper(*p)
	}

	seen := make(map[string]struct{}, len(a.MainProcesses))
	processes := make([]string, 0, len(a.MainProcesses))
	for _, p := range a.MainProcesses {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		processes = append(processes, p)
	}
	a.MainProcesses = processes
}

// DetailVisible reports whether the detail textarea for field is shown,
// which happens only when its parent question was answered "SI".
func (a Answers) DetailVisible(field string) bool {
	parent, ok := detailParents[field]
	if !ok {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(a.value(parent)), AnswerYes)
}

// ValidateStep checks the required fields of a single step.
func (a Answers) ValidateStep(step int) error {
	fields, ok := StepFields[step]
	if !ok {
		return &validation.Error{Fields: []validation.FieldError{{Field: "step", Message: "Step non valido"}}}
	}
	var c validation.Collector
	for _, field := range fields {
		a.checkField(&c, field)
	}
	return c.Err()
}

// Validate checks every step.
func (a Answers) Validate() error {
	var c validation.Collector
	for step := FirstStep; step <= LastStep; step++ {
		for _, field := range StepFields[step] {
			a.checkField(&c, field)
		}
	}
	return c.Err()
}

func (a Answers) checkField(c *validation.Collector, field string) {
	value := strings.TrimSpace(a.value(field))
	switch field {
	case FieldSector:
		if c.Required(field, value, "Seleziona un settore") {
			c.OneOf(field, value, Sectors, "Settore non valido")
		}
	case FieldDescription:
		c.Required(field, value, "Descrivi brevemente la tua azienda")
	case FieldYearsInMarket:
		if c.Required(field, value, "Seleziona da quanto tempo sei sul mercato") {
			c.OneOf(field, value, YearsInMarketOptions, "Anzianità sul mercato non valida")
		}
	case FieldRevenue:
		if c.Required(field, value, "Seleziona la fascia di ricavi") {
			c.OneOf(field, value, RevenueOptions, "Fascia di ricavi non valida")
		}
	case FieldMainProcesses:
		if len(a.MainProcesses) == 0 {
			c.Add(field, "Seleziona almeno un processo principale")
			return
		}
		for _, p := range a.MainProcesses {
			if _, ok := ProcessLabel(p); !ok {
				c.Add(field, "Processo non valido: "+p)
				return
			}
		}
	case FieldExcelManual:
		yesNoField(c, field, value, "Specifica se usate Excel o processi manuali")
	case FieldWorkTools:
		c.Required(field, value, "Indica quali strumenti usate per lavorare")
	case FieldMultipleLocations:
		yesNoField(c, field, value, "Specifica se avete più sedi o reparti")
	case FieldCustomerManagement:
		c.Required(field, value, "Descrivi come gestisci i clienti")
	case FieldRepetitiveTasks:
		yesNoField(c, field, value, "Specifica se ci sono attività ripetitive")
	case FieldReportKPI:
		yesNoField(c, field, value, "Specifica se avete bisogno di report/KPI")
	case FieldForecasts:
		yesNoField(c, field, value, "Specifica se servono previsioni o analisi")
	case FieldAIAssistant:
		c.Required(field, value, "Descrivi dove vedresti utile un assistente AI nella tua azienda")
	}
}

func yesNoField(c *validation.Collector, field, value, message string) {
	if c.Required(field, value, message) {
		c.OneOf(field, strings.ToUpper(value), yesNo, message)
	}
}

func (a Answers) value(field string) string {
	switch field {
	case FieldSector:
		return a.Sector
	case FieldDescription:
		return a.Description
	case FieldYearsInMarket:
		return a.YearsInMarket
	case FieldRevenue:
		return a.Revenue
	case FieldMainProcesses:
		return strings.Join(a.MainProcesses, ",")
	case FieldExcelManual:
		return a.ExcelManual
	case FieldExcelManualDetails:
		return a.ExcelManualDetails
	case FieldWorkTools:
		return a.WorkTools
	case FieldMultipleLocations:
		return a.MultipleLocations
	case FieldMultipleLocationsDetails:
		return a.MultipleLocationsDetails
	case FieldCustomerManagement:
		return a.CustomerManagement
	case FieldRepetitiveTasks:
		return a.RepetitiveTasks
	case FieldRepetitiveTasksDetails:
		return a.RepetitiveTasksDetails
	case FieldReportKPI:
		return a.ReportKPI
	case FieldReportKPIDetails:
		return a.ReportKPIDetails
	case FieldForecasts:
		return a.Forecasts
	case FieldForecastsDetails:
		return a.ForecastsDetails
	case FieldAIAssistant:
		return a.AIAssistant
	}
	return ""
}

// ProcessLabel resolves a process tag id (or its label) to the display label.
func ProcessLabel(id string) (string, bool) {
	id = strings.TrimSpace(id)
	for _, option := range ProcessOptions {
		if option.ID == id || option.Label == id {
			return option.Label, true
		}
	}
	return "", false
}

// ReportRequest collapses the answers into the payload of the report generator.
// Detail text is used only when visible; an unanswered detail becomes "Sì".
func (a Answers) ReportRequest() ReportRequest {
	a.Normalize()
	detail := func(field, details string) string {
		if !a.DetailVisible(field) {
			return "No"
		}
		if details == "" {
			return "Sì"
		}
		return details
	}

	return ReportRequest{
		Sector:             a.Sector,
		Description:        a.Description,
		YearsInMarket:      a.YearsInMarket,
		Revenue:            a.Revenue,
		MainProcesses:      strings.Join(a.MainProcesses, ", "),
		CurrentTools:       a.WorkTools + ". Excel/manuali usati per: " + detail(FieldExcelManualDetails, a.ExcelManualDetails),
		MultipleLocations:  detail(FieldMultipleLocationsDetails, a.MultipleLocationsDetails),
		CustomerManagement: a.CustomerManagement,
		RepetitiveTasks:    detail(FieldRepetitiveTasksDetails, a.RepetitiveTasksDetails),
		ManualReports:      detail(FieldReportKPIDetails, a.ReportKPIDetails),
		ForecastAreas:      detail(FieldForecastsDetails, a.ForecastsDetails),
		AIAreas:            a.AIAssistant,
	}
}
