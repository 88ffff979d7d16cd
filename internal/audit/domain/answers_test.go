package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resyne/site-api/internal/validation"
)

func completeAnswers() Answers {
	return Answers{
		Sector:                   "Manifatturiero",
		Description:              "Produzione di componenti in alluminio",
		YearsInMarket:            "10-20 anni",
		Revenue:                  "1M - 5M €",
		MainProcesses:            []string{"produzione", "vendite"},
		ExcelManual:              AnswerYes,
		ExcelManualDetails:       "Ordini e magazzino",
		WorkTools:                "Gestionale legacy e Excel",
		MultipleLocations:        AnswerNo,
		MultipleLocationsDetails: "testo nascosto",
		CustomerManagement:       "CRM interno",
		RepetitiveTasks:          AnswerYes,
		ReportKPI:                AnswerNo,
		Forecasts:                AnswerYes,
		ForecastsDetails:         "Previsioni di vendita",
		AIAssistant:              "Preventivi automatici",
	}
}

func TestValidateStepReportsEveryMissingField(t *testing.T) {
	err := Answers{}.ValidateStep(1)
	require.Error(t, err)

	verr, ok := validation.As(err)
	require.True(t, ok)
	assert.Equal(t, map[string]string{
		FieldSector:        "Seleziona un settore",
		FieldYearsInMarket: "Seleziona da quanto tempo sei sul mercato",
		FieldDescription:   "Descrivi brevemente la tua azienda",
		FieldRevenue:       "Seleziona la fascia di ricavi",
		FieldMainProcesses: "Seleziona almeno un processo principale",
	}, verr.Map())
	assert.Equal(t, "Seleziona un settore", err.Error())
}

func TestValidateStepOnlyChecksItsFields(t *testing.T) {
	a := completeAnswers()
	a.AIAssistant = ""

	assert.NoError(t, a.ValidateStep(1))
	assert.NoError(t, a.ValidateStep(2))

	err := a.ValidateStep(3)
	verr, ok := validation.As(err)
	require.True(t, ok)
	assert.Contains(t, verr.Map(), FieldAIAssistant)
	assert.Len(t, verr.Fields, 1)
}

func TestValidateRejectsUnknownOptions(t *testing.T) {
	a := completeAnswers()
	a.Sector = "Astronautica"
	a.MainProcesses = []string{"vendite", "teletrasporto"}
	a.ExcelManual = "forse"

	verr, ok := validation.As(a.Validate())
	require.True(t, ok)
	assert.Equal(t, "Settore non valido", verr.Map()[FieldSector])
	assert.Equal(t, "Processo non valido: teletrasporto", verr.Map()[FieldMainProcesses])
	assert.Contains(t, verr.Map(), FieldExcelManual)
}

func TestValidateStepUnknownStep(t *testing.T) {
	verr, ok := validation.As(completeAnswers().ValidateStep(4))
	require.True(t, ok)
	assert.Contains(t, verr.Map(), "step")
}

func TestDetailVisibleFollowsParentAnswer(t *testing.T) {
	a := completeAnswers()
	assert.True(t, a.DetailVisible(FieldExcelManualDetails))
	assert.False(t, a.DetailVisible(FieldMultipleLocationsDetails))
	assert.False(t, a.DetailVisible(FieldSector))

	a.MultipleLocations = "si"
	assert.True(t, a.DetailVisible(FieldMultipleLocationsDetails))
}

func TestNormalizeTrimsAndDeduplicates(t *testing.T) {
	a := Answers{
		Sector:        "  Edilizia ",
		ExcelManual:   "si",
		MainProcesses: []string{" vendite", "", "vendite", "marketing"},
	}
	a.Normalize()

	assert.Equal(t, "Edilizia", a.Sector)
	assert.Equal(t, AnswerYes, a.ExcelManual)
	assert.Equal(t, []string{"vendite", "marketing"}, a.MainProcesses)
}

func TestReportRequestCollapsesConditionalDetails(t *testing.T) {
	r := completeAnswers().ReportRequest()

	assert.Equal(t, "produzione, vendite", r.MainProcesses)
	assert.Equal(t, "Gestionale legacy e Excel. Excel/manuali usati per: Ordini e magazzino", r.CurrentTools)
	assert.Equal(t, "No", r.MultipleLocations, "hidden detail text must be ignored")
	assert.Equal(t, "Sì", r.RepetitiveTasks, "yes without detail")
	assert.Equal(t, "No", r.ManualReports)
	assert.Equal(t, "Previsioni di vendita", r.ForecastAreas)
	assert.Equal(t, "Preventivi automatici", r.AIAreas)
	assert.NoError(t, r.Validate())
}

func TestProcessLabel(t *testing.T) {
	label, ok := ProcessLabel("risorse-umane")
	require.True(t, ok)
	assert.Equal(t, "Risorse Umane", label)

	label, ok = ProcessLabel("Servizi clienti")
	require.True(t, ok)
	assert.Equal(t, "Servizi clienti", label)

	_, ok = ProcessLabel("")
	assert.False(t, ok)
}
