// Package tests contains unit tests for domain model behavior
package tests

import (
	"testing"

	"github.com/pitline/pitline/models"
	"github.com/pitline/pitline/utils"
	"github.com/stretchr/testify/assert"
)

func TestFormatReference(t *testing.T) {
	t.Run("ZeroPadsToLength", func(t *testing.T) {
		assert.Equal(t, "JCN-00001", models.FormatReference("JCN", "-", 1, 5))
		assert.Equal(t, "INV-00042", models.FormatReference("INV", "-", 42, 5))
		assert.Equal(t, "QN/007", models.FormatReference("QN", "/", 7, 3))
	})

	t.Run("WiderValuesPassThrough", func(t *testing.T) {
		assert.Equal(t, "JCN-123456", models.FormatReference("JCN", "-", 123456, 5))
		assert.Equal(t, "X-100", models.FormatReference("X", "-", 100, 2))
	})

	t.Run("EmptyPrefixAndSeparator", func(t *testing.T) {
		assert.Equal(t, "00009", models.FormatReference("", "", 9, 5))
	})

	t.Run("CounterReference", func(t *testing.T) {
		counter := models.SequenceCounter{
			Code:      models.CounterCodeJobCard,
			Prefix:    "JCN",
			Separator: "-",
			Value:     12,
			Length:    5,
		}
		assert.Equal(t, "JCN-00012", counter.Reference())
	})

	t.Run("DefaultDescription", func(t *testing.T) {
		assert.Equal(t, "JCN Number", models.DefaultCounterDescription("JCN"))
	})
}

func TestJobCardStatusTransitions(t *testing.T) {
	allowed := map[models.JobCardStatus][]models.JobCardStatus{
		models.JobCardStatusOpen:       {models.JobCardStatusInProgress, models.JobCardStatusCancelled},
		models.JobCardStatusInProgress: {models.JobCardStatusCompleted, models.JobCardStatusCancelled},
		models.JobCardStatusCompleted:  {models.JobCardStatusInvoiced, models.JobCardStatusCancelled},
		models.JobCardStatusInvoiced:   {models.JobCardStatusClosed},
		models.JobCardStatusClosed:     {},
		models.JobCardStatusCancelled:  {},
	}

	all := []models.JobCardStatus{
		models.JobCardStatusOpen, models.JobCardStatusInProgress,
		models.JobCardStatusCompleted, models.JobCardStatusInvoiced,
		models.JobCardStatusClosed, models.JobCardStatusCancelled,
	}

	for from, targets := range allowed {
		ok := make(map[models.JobCardStatus]bool, len(targets))
		for _, to := range targets {
			ok[to] = true
		}
		for _, to := range all {
			assert.Equal(t, ok[to], from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}

	t.Run("Valid", func(t *testing.T) {
		for _, s := range all {
			assert.True(t, s.Valid(), "%s", s)
		}
		assert.False(t, models.JobCardStatus("done").Valid())
		assert.False(t, models.JobCardStatus("").Valid())
	})
}

func TestQuotationAndInvoiceEnums(t *testing.T) {
	t.Run("QuotationStatus", func(t *testing.T) {
		for _, s := range []models.QuotationStatus{
			models.QuotationStatusDraft, models.QuotationStatusSent,
			models.QuotationStatusAccepted, models.QuotationStatusRejected,
			models.QuotationStatusExpired,
		} {
			assert.True(t, s.Valid(), "%s", s)
		}
		assert.False(t, models.QuotationStatus("converted").Valid())
	})

	t.Run("InvoiceKind", func(t *testing.T) {
		assert.True(t, models.InvoiceKindReceivable.Valid())
		assert.True(t, models.InvoiceKindPayable.Valid())
		assert.False(t, models.InvoiceKind("credit").Valid())
	})

	t.Run("InvoiceStatus", func(t *testing.T) {
		for _, s := range []models.InvoiceStatus{
			models.InvoiceStatusIssued, models.InvoiceStatusPartiallyPaid,
			models.InvoiceStatusPaid, models.InvoiceStatusVoid,
		} {
			assert.True(t, s.Valid(), "%s", s)
		}
		assert.False(t, models.InvoiceStatus("overdue").Valid())
	})
}

func TestDocumentLines(t *testing.T) {
	t.Run("AmountAppliesDiscount", func(t *testing.T) {
		line := models.DocumentLine{Kind: models.LineKindPart, Quantity: 3, UnitPrice: 20, Discount: 5}
		assert.InDelta(t, 55.0, line.Amount(), 0.001)
	})

	t.Run("SubtotalSumsLines", func(t *testing.T) {
		lines := models.DocumentLines{
			{Kind: models.LineKindLabor, Description: "Diagnosis", Quantity: 1, UnitPrice: 50},
			{Kind: models.LineKindPart, Description: "Oil filter", Quantity: 2, UnitPrice: 12.5, Discount: 2},
		}
		assert.InDelta(t, 73.0, lines.Subtotal(), 0.001)
	})

	t.Run("EmptyLines", func(t *testing.T) {
		assert.Zero(t, models.DocumentLines{}.Subtotal())
	})
}

func TestInvoiceOutstanding(t *testing.T) {
	invoice := models.Invoice{GrandTotal: 110, AmountPaid: 40}
	assert.InDelta(t, 70.0, invoice.Outstanding(), 0.001)

	paid := models.Invoice{GrandTotal: 110, AmountPaid: 110}
	assert.Zero(t, paid.Outstanding())
}

func TestRound2(t *testing.T) {
	assert.InDelta(t, 10.46, utils.Round2(10.4567), 0.0001)
	assert.InDelta(t, 3.14, utils.Round2(3.13999), 0.0001)
	assert.InDelta(t, 100.0, utils.Round2(99.999), 0.0001)
	assert.InDelta(t, -2.35, utils.Round2(-2.3456), 0.0001)
}
