package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnumFromCode(t *testing.T) {
	t.Run("tender type", func(t *testing.T) {
		got := TenderTypeFromCode("LE")
		require.NotNil(t, got)
		assert.Equal(t, TenderTypeLE, *got)
		assert.Contains(t, got.Description(), "100 UTM")

		assert.Nil(t, TenderTypeFromCode("XX"))
		assert.Nil(t, TenderTypeFromCode(nil))
		assert.Nil(t, TenderTypeFromCode(12))
		assert.Nil(t, TenderTypeFromCode("le"))
	})

	t.Run("currency", func(t *testing.T) {
		got := CurrencyFromCode("CLP")
		require.NotNil(t, got)
		assert.Equal(t, "Peso Chileno", got.Description())
		assert.Nil(t, CurrencyFromCode("ARS"))
	})

	t.Run("integer codes", func(t *testing.T) {
		modality := PaymentModalityFromCode(json.Number("7"))
		require.NotNil(t, modality)
		assert.Equal(t, PaymentMonthly, *modality)

		unit := TimeUnitFromCode(float64(4))
		require.NotNil(t, unit)
		assert.Equal(t, "Meses", unit.Description())

		assert.Nil(t, EstimationTypeFromCode(json.Number("0")))
		assert.Nil(t, AdministrativeActTypeFromCode(json.Number("9")))
		assert.Nil(t, PaymentTypeFromCode("card"))
		assert.Nil(t, PaymentTypeFromCode(nil))
	})
}

func TestTenderSummary(t *testing.T) {
	closing := time.Date(2024, 5, 10, 15, 0, 0, 0, time.UTC)
	tenderType := TenderTypeLP
	amount := 2500000.0
	name := "Desarrollo de software"

	tender := Tender{
		Code:            "1234-56-LP24",
		Name:            &name,
		ClosingDate:     &closing,
		TenderType:      &tenderType,
		EstimatedAmount: &amount,
	}

	summary := tender.Summary()
	assert.Equal(t, "1234-56-LP24", summary.Code)
	require.NotNil(t, summary.ClosingDate)
	assert.Equal(t, "2024-05-10T15:00:00", *summary.ClosingDate)
	require.NotNil(t, summary.TenderType)
	assert.Equal(t, "LP", *summary.TenderType)
	assert.Equal(t, &amount, summary.EstimatedAmount)
	assert.Nil(t, summary.Status)

	empty := Tender{Code: "x"}
	assert.Nil(t, empty.Summary().ClosingDate)
	assert.Nil(t, empty.Summary().TenderType)
}

func TestTenderDescriptions(t *testing.T) {
	var tender Tender
	assert.Equal(t, "Estado desconocido", tender.StatusDescription())
	assert.Equal(t, "No especificado", tender.PaymentDescription())
	assert.Equal(t, "No especificado", tender.PaymentTypeDescription())
	assert.Equal(t, "No especificado", tender.DurationDescription())
	assert.False(t, tender.IsHighValue())

	code := 4
	duration := 12
	unit := Months
	modality := PaymentDays30
	tenderType := TenderTypeLR
	tender.StatusCode = &code
	tender.ContractDuration = &duration
	tender.ContractTimeUnit = &unit
	tender.PaymentModality = &modality
	tender.TenderType = &tenderType

	assert.Equal(t, "Adjudicada", tender.StatusDescription())
	assert.Equal(t, "12 Meses", tender.DurationDescription())
	assert.Equal(t, "Pago a 30 días", tender.PaymentDescription())
	assert.True(t, tender.IsHighValue())
}

func TestParseSearchStatus(t *testing.T) {
	tests := []struct {
		input    string
		expected SearchStatus
		ok       bool
	}{
		{input: "published", expected: PublishedStatus, ok: true},
		{input: "Publicada", expected: PublishedStatus, ok: true},
		{input: " AWARDED ", expected: AwardedStatus, ok: true},
		{input: "all", expected: AllStatuses, ok: true},
		{input: "todos", expected: AllStatuses, ok: true},
		{input: "desierta", expected: UnawardedStatus, ok: true},
		{input: "open", ok: false},
		{input: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseSearchStatus(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestKeywordTypeValid(t *testing.T) {
	assert.True(t, IncludeKeyword.Valid())
	assert.True(t, ExcludeKeyword.Valid())
	assert.False(t, KeywordType("maybe").Valid())
}
