// Package tests contains integration tests for invoicing and settlements
package tests

import (
	"testing"

	"github.com/pitline/pitline/app/dto"
	businessflow "github.com/pitline/pitline/business_flow"
	"github.com/pitline/pitline/models"
	"github.com/pitline/pitline/repository"
	testingutil "github.com/pitline/pitline/testing"
	"github.com/pitline/pitline/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoiceFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		invoiceRepo := repository.NewInvoiceRepository(testDB.DB)
		jobCardRepo := repository.NewJobCardRepository(testDB.DB)
		supplierRepo := repository.NewSupplierRepository(testDB.DB)
		workshopRepo := repository.NewWorkshopRepository(testDB.DB)
		currencyRepo := repository.NewCurrencyRepository(testDB.DB)
		receiptRepo := repository.NewReceiptRepository(testDB.DB)
		paymentRepo := repository.NewPaymentRepository(testDB.DB)
		counterRepo := repository.NewSequenceCounterRepository(testDB.DB)
		auditRepo := repository.NewAuditLogRepository(testDB.DB)

		invoiceFlow := businessflow.NewInvoiceFlow(invoiceRepo, jobCardRepo, supplierRepo, workshopRepo, currencyRepo, receiptRepo, paymentRepo, counterRepo, auditRepo, testDB.DB)

		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")
		ctx := testingutil.CreateTestContext()

		t.Run("IssueFromCompletedJobCard", func(t *testing.T) {
			workshop, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)
			customer, err := fixtures.CreateTestCustomer(workshop.ID)
			require.NoError(t, err)
			vehicle, err := fixtures.CreateTestVehicle(workshop.ID, customer.ID)
			require.NoError(t, err)
			jobCard, err := fixtures.CreateTestJobCard(workshop.ID, customer.ID, vehicle.ID, models.JobCardStatusCompleted)
			require.NoError(t, err)

			resp, err := invoiceFlow.IssueInvoice(ctx, &dto.IssueInvoiceRequest{
				WorkshopID:  workshop.ID,
				UserID:      1,
				JobCardUUID: jobCard.UUID.String(),
			}, metadata)
			require.NoError(t, err)

			assert.Equal(t, "INV-00001", resp.InvoiceNumber)
			assert.Equal(t, "receivable", resp.Kind)
			assert.Equal(t, "issued", resp.Status)
			assert.Equal(t, "USD", resp.CurrencyCode)
			assert.InDelta(t, 1.0, resp.ExchangeRate, 0.001)

			// Fixture card has a single 50.00 labor line; tax rate is 10%
			assert.InDelta(t, 50.0, resp.Subtotal, 0.001)
			assert.InDelta(t, 5.0, resp.TaxAmount, 0.001)
			assert.InDelta(t, 55.0, resp.GrandTotal, 0.001)

			// Issuing flips the job card to invoiced
			reloaded, err := jobCardRepo.ByUUID(ctx, jobCard.UUID.String())
			require.NoError(t, err)
			assert.Equal(t, models.JobCardStatusInvoiced, reloaded.Status)
		})

		t.Run("DiscountAppliedBeforeTax", func(t *testing.T) {
			workshop, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)
			customer, err := fixtures.CreateTestCustomer(workshop.ID)
			require.NoError(t, err)
			vehicle, err := fixtures.CreateTestVehicle(workshop.ID, customer.ID)
			require.NoError(t, err)
			jobCard, err := fixtures.CreateTestJobCard(workshop.ID, customer.ID, vehicle.ID, models.JobCardStatusCompleted)
			require.NoError(t, err)

			resp, err := invoiceFlow.IssueInvoice(ctx, &dto.IssueInvoiceRequest{
				WorkshopID:  workshop.ID,
				UserID:      1,
				JobCardUUID: jobCard.UUID.String(),
				Discount:    10,
			}, metadata)
			require.NoError(t, err)

			assert.InDelta(t, 50.0, resp.Subtotal, 0.001)
			assert.InDelta(t, 10.0, resp.Discount, 0.001)
			assert.InDelta(t, 4.0, resp.TaxAmount, 0.001)
			assert.InDelta(t, 44.0, resp.GrandTotal, 0.001)
		})

		t.Run("IssueRequiresCompletedCard", func(t *testing.T) {
			workshop, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)
			customer, err := fixtures.CreateTestCustomer(workshop.ID)
			require.NoError(t, err)
			vehicle, err := fixtures.CreateTestVehicle(workshop.ID, customer.ID)
			require.NoError(t, err)
			jobCard, err := fixtures.CreateTestJobCard(workshop.ID, customer.ID, vehicle.ID, models.JobCardStatusInProgress)
			require.NoError(t, err)

			_, err = invoiceFlow.IssueInvoice(ctx, &dto.IssueInvoiceRequest{
				WorkshopID:  workshop.ID,
				UserID:      1,
				JobCardUUID: jobCard.UUID.String(),
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsJobCardNotCompleted(err))
		})

		t.Run("IssueOnlyOncePerJobCard", func(t *testing.T) {
			workshop, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)
			customer, err := fixtures.CreateTestCustomer(workshop.ID)
			require.NoError(t, err)
			vehicle, err := fixtures.CreateTestVehicle(workshop.ID, customer.ID)
			require.NoError(t, err)
			jobCard, err := fixtures.CreateTestJobCard(workshop.ID, customer.ID, vehicle.ID, models.JobCardStatusCompleted)
			require.NoError(t, err)

			_, err = invoiceFlow.IssueInvoice(ctx, &dto.IssueInvoiceRequest{
				WorkshopID:  workshop.ID,
				UserID:      1,
				JobCardUUID: jobCard.UUID.String(),
			}, metadata)
			require.NoError(t, err)

			_, err = invoiceFlow.IssueInvoice(ctx, &dto.IssueInvoiceRequest{
				WorkshopID:  workshop.ID,
				UserID:      1,
				JobCardUUID: jobCard.UUID.String(),
			}, metadata)
			require.Error(t, err)
		})

		t.Run("ForeignCurrencySnapshotsRate", func(t *testing.T) {
			workshop, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)
			_, err = fixtures.CreateTestCurrency(workshop.ID, "EUR", 0.92)
			require.NoError(t, err)
			customer, err := fixtures.CreateTestCustomer(workshop.ID)
			require.NoError(t, err)
			vehicle, err := fixtures.CreateTestVehicle(workshop.ID, customer.ID)
			require.NoError(t, err)
			jobCard, err := fixtures.CreateTestJobCard(workshop.ID, customer.ID, vehicle.ID, models.JobCardStatusCompleted)
			require.NoError(t, err)

			resp, err := invoiceFlow.IssueInvoice(ctx, &dto.IssueInvoiceRequest{
				WorkshopID:   workshop.ID,
				UserID:       1,
				JobCardUUID:  jobCard.UUID.String(),
				CurrencyCode: utils.ToPtr("EUR"),
			}, metadata)
			require.NoError(t, err)
			assert.Equal(t, "EUR", resp.CurrencyCode)
			assert.InDelta(t, 0.92, resp.ExchangeRate, 0.001)
		})

		t.Run("UnknownCurrencyRejected", func(t *testing.T) {
			workshop, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)
			customer, err := fixtures.CreateTestCustomer(workshop.ID)
			require.NoError(t, err)
			vehicle, err := fixtures.CreateTestVehicle(workshop.ID, customer.ID)
			require.NoError(t, err)
			jobCard, err := fixtures.CreateTestJobCard(workshop.ID, customer.ID, vehicle.ID, models.JobCardStatusCompleted)
			require.NoError(t, err)

			_, err = invoiceFlow.IssueInvoice(ctx, &dto.IssueInvoiceRequest{
				WorkshopID:   workshop.ID,
				UserID:       1,
				JobCardUUID:  jobCard.UUID.String(),
				CurrencyCode: utils.ToPtr("GBP"),
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsCurrencyNotFound(err))
		})

		t.Run("RecordPayableInvoice", func(t *testing.T) {
			workshop, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)
			supplier, err := fixtures.CreateTestSupplier(workshop.ID)
			require.NoError(t, err)

			resp, err := invoiceFlow.RecordPayableInvoice(ctx, &dto.RecordPayableInvoiceRequest{
				WorkshopID:   workshop.ID,
				UserID:       1,
				SupplierUUID: supplier.UUID.String(),
				Lines: []dto.LineItemDTO{
					{Kind: models.LineKindPart, Description: "Brake pads x20", Quantity: 20, UnitPrice: 8},
				},
			}, metadata)
			require.NoError(t, err)

			assert.Equal(t, "API-00001", resp.InvoiceNumber)
			assert.Equal(t, "payable", resp.Kind)
			assert.InDelta(t, 160.0, resp.Subtotal, 0.001)
			// Supplier invoices carry no tax
			assert.Zero(t, resp.TaxAmount)
			assert.InDelta(t, 160.0, resp.GrandTotal, 0.001)
		})

		t.Run("PayableRequiresKnownSupplier", func(t *testing.T) {
			workshop, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)

			_, err = invoiceFlow.RecordPayableInvoice(ctx, &dto.RecordPayableInvoiceRequest{
				WorkshopID:   workshop.ID,
				UserID:       1,
				SupplierUUID: "00000000-0000-4000-8000-000000000000",
				Lines: []dto.LineItemDTO{
					{Kind: models.LineKindPart, Description: "Filters", Quantity: 5, UnitPrice: 4},
				},
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsSupplierNotFound(err))
		})

		t.Run("VoidReleasesJobCard", func(t *testing.T) {
			workshop, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)
			customer, err := fixtures.CreateTestCustomer(workshop.ID)
			require.NoError(t, err)
			vehicle, err := fixtures.CreateTestVehicle(workshop.ID, customer.ID)
			require.NoError(t, err)
			jobCard, err := fixtures.CreateTestJobCard(workshop.ID, customer.ID, vehicle.ID, models.JobCardStatusCompleted)
			require.NoError(t, err)

			issued, err := invoiceFlow.IssueInvoice(ctx, &dto.IssueInvoiceRequest{
				WorkshopID:  workshop.ID,
				UserID:      1,
				JobCardUUID: jobCard.UUID.String(),
			}, metadata)
			require.NoError(t, err)

			voided, err := invoiceFlow.VoidInvoice(ctx, &dto.VoidInvoiceRequest{
				UUID:       issued.UUID,
				WorkshopID: workshop.ID,
				UserID:     1,
			}, metadata)
			require.NoError(t, err)
			assert.Equal(t, "void", voided.Status)

			reloaded, err := jobCardRepo.ByUUID(ctx, jobCard.UUID.String())
			require.NoError(t, err)
			assert.Equal(t, models.JobCardStatusCompleted, reloaded.Status)

			// Voiding twice is rejected
			_, err = invoiceFlow.VoidInvoice(ctx, &dto.VoidInvoiceRequest{
				UUID:       issued.UUID,
				WorkshopID: workshop.ID,
				UserID:     1,
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsInvoiceAlreadyVoid(err))
		})

		t.Run("VoidRejectedAfterSettlement", func(t *testing.T) {
			workshop, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)
			customer, err := fixtures.CreateTestCustomer(workshop.ID)
			require.NoError(t, err)
			invoice, err := fixtures.CreateTestInvoice(workshop.ID, customer.ID, 100)
			require.NoError(t, err)

			receiptFlow := businessflow.NewReceiptFlow(receiptRepo, invoiceRepo, counterRepo, auditRepo, testDB.DB)
			_, err = receiptFlow.RecordReceipt(ctx, &dto.RecordReceiptRequest{
				WorkshopID:  workshop.ID,
				UserID:      1,
				InvoiceUUID: invoice.UUID.String(),
				Amount:      40,
				Method:      "cash",
			}, metadata)
			require.NoError(t, err)

			_, err = invoiceFlow.VoidInvoice(ctx, &dto.VoidInvoiceRequest{
				UUID:       invoice.UUID.String(),
				WorkshopID: workshop.ID,
				UserID:     1,
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsInvoiceHasPayments(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestSettlementFlows(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		invoiceRepo := repository.NewInvoiceRepository(testDB.DB)
		receiptRepo := repository.NewReceiptRepository(testDB.DB)
		paymentRepo := repository.NewPaymentRepository(testDB.DB)
		supplierRepo := repository.NewSupplierRepository(testDB.DB)
		workshopRepo := repository.NewWorkshopRepository(testDB.DB)
		currencyRepo := repository.NewCurrencyRepository(testDB.DB)
		jobCardRepo := repository.NewJobCardRepository(testDB.DB)
		counterRepo := repository.NewSequenceCounterRepository(testDB.DB)
		auditRepo := repository.NewAuditLogRepository(testDB.DB)

		receiptFlow := businessflow.NewReceiptFlow(receiptRepo, invoiceRepo, counterRepo, auditRepo, testDB.DB)
		paymentFlow := businessflow.NewPaymentFlow(paymentRepo, invoiceRepo, counterRepo, auditRepo, testDB.DB)
		invoiceFlow := businessflow.NewInvoiceFlow(invoiceRepo, jobCardRepo, supplierRepo, workshopRepo, currencyRepo, receiptRepo, paymentRepo, counterRepo, auditRepo, testDB.DB)

		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")
		ctx := testingutil.CreateTestContext()

		t.Run("PartialThenFullReceipt", func(t *testing.T) {
			workshop, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)
			customer, err := fixtures.CreateTestCustomer(workshop.ID)
			require.NoError(t, err)
			invoice, err := fixtures.CreateTestInvoice(workshop.ID, customer.ID, 100)
			require.NoError(t, err)

			partial, err := receiptFlow.RecordReceipt(ctx, &dto.RecordReceiptRequest{
				WorkshopID:  workshop.ID,
				UserID:      1,
				InvoiceUUID: invoice.UUID.String(),
				Amount:      60,
				Method:      "card",
			}, metadata)
			require.NoError(t, err)
			assert.Equal(t, "RN-00001", partial.ReceiptNumber)
			assert.Equal(t, "partially-paid", partial.InvoiceStatus)
			assert.InDelta(t, 40.0, partial.Outstanding, 0.001)

			full, err := receiptFlow.RecordReceipt(ctx, &dto.RecordReceiptRequest{
				WorkshopID:  workshop.ID,
				UserID:      1,
				InvoiceUUID: invoice.UUID.String(),
				Amount:      40,
				Method:      "cash",
			}, metadata)
			require.NoError(t, err)
			assert.Equal(t, "RN-00002", full.ReceiptNumber)
			assert.Equal(t, "paid", full.InvoiceStatus)
			assert.Zero(t, full.Outstanding)
		})

		t.Run("OverpaymentRejected", func(t *testing.T) {
			workshop, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)
			customer, err := fixtures.CreateTestCustomer(workshop.ID)
			require.NoError(t, err)
			invoice, err := fixtures.CreateTestInvoice(workshop.ID, customer.ID, 100)
			require.NoError(t, err)

			_, err = receiptFlow.RecordReceipt(ctx, &dto.RecordReceiptRequest{
				WorkshopID:  workshop.ID,
				UserID:      1,
				InvoiceUUID: invoice.UUID.String(),
				Amount:      150,
				Method:      "transfer",
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsAmountExceedsOutstanding(err))
		})

		t.Run("PaidInvoiceAcceptsNoMoreReceipts", func(t *testing.T) {
			workshop, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)
			customer, err := fixtures.CreateTestCustomer(workshop.ID)
			require.NoError(t, err)
			invoice, err := fixtures.CreateTestInvoice(workshop.ID, customer.ID, 50)
			require.NoError(t, err)

			_, err = receiptFlow.RecordReceipt(ctx, &dto.RecordReceiptRequest{
				WorkshopID:  workshop.ID,
				UserID:      1,
				InvoiceUUID: invoice.UUID.String(),
				Amount:      50,
				Method:      "cash",
			}, metadata)
			require.NoError(t, err)

			_, err = receiptFlow.RecordReceipt(ctx, &dto.RecordReceiptRequest{
				WorkshopID:  workshop.ID,
				UserID:      1,
				InvoiceUUID: invoice.UUID.String(),
				Amount:      1,
				Method:      "cash",
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsInvoiceNotPayable(err))
		})

		t.Run("ReceiptsOnlyAgainstReceivables", func(t *testing.T) {
			workshop, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)
			supplier, err := fixtures.CreateTestSupplier(workshop.ID)
			require.NoError(t, err)

			payable, err := invoiceFlow.RecordPayableInvoice(ctx, &dto.RecordPayableInvoiceRequest{
				WorkshopID:   workshop.ID,
				UserID:       1,
				SupplierUUID: supplier.UUID.String(),
				Lines: []dto.LineItemDTO{
					{Kind: models.LineKindPart, Description: "Coolant", Quantity: 10, UnitPrice: 6},
				},
			}, metadata)
			require.NoError(t, err)

			_, err = receiptFlow.RecordReceipt(ctx, &dto.RecordReceiptRequest{
				WorkshopID:  workshop.ID,
				UserID:      1,
				InvoiceUUID: payable.UUID,
				Amount:      10,
				Method:      "cash",
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsInvoiceNotFound(err))
		})

		t.Run("PaymentSettlesPayableInvoice", func(t *testing.T) {
			workshop, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)
			supplier, err := fixtures.CreateTestSupplier(workshop.ID)
			require.NoError(t, err)

			payable, err := invoiceFlow.RecordPayableInvoice(ctx, &dto.RecordPayableInvoiceRequest{
				WorkshopID:   workshop.ID,
				UserID:       1,
				SupplierUUID: supplier.UUID.String(),
				Lines: []dto.LineItemDTO{
					{Kind: models.LineKindPart, Description: "Spark plugs", Quantity: 16, UnitPrice: 5},
				},
			}, metadata)
			require.NoError(t, err)

			resp, err := paymentFlow.RecordPayment(ctx, &dto.RecordPaymentRequest{
				WorkshopID:  workshop.ID,
				UserID:      1,
				InvoiceUUID: payable.UUID,
				Amount:      80,
				Method:      "transfer",
				ReferenceNo: utils.ToPtr("TRX-9912"),
			}, metadata)
			require.NoError(t, err)
			assert.Equal(t, "PVN-00001", resp.PaymentNumber)
			assert.Equal(t, "paid", resp.InvoiceStatus)
			assert.Zero(t, resp.Outstanding)
		})

		return nil
	})
	require.NoError(t, err)
}
