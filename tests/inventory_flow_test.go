// Package tests contains integration tests for the parts inventory flow
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

func TestInventoryFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		itemRepo := repository.NewInventoryItemRepository(testDB.DB)
		stockDocRepo := repository.NewStockDocumentRepository(testDB.DB)
		supplierRepo := repository.NewSupplierRepository(testDB.DB)
		jobCardRepo := repository.NewJobCardRepository(testDB.DB)
		counterRepo := repository.NewSequenceCounterRepository(testDB.DB)
		auditRepo := repository.NewAuditLogRepository(testDB.DB)

		inventoryFlow := businessflow.NewInventoryFlow(itemRepo, stockDocRepo, supplierRepo, jobCardRepo, counterRepo, auditRepo, testDB.DB)

		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")
		ctx := testingutil.CreateTestContext()

		t.Run("CreateItem", func(t *testing.T) {
			workshop, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)

			item, err := inventoryFlow.CreateItem(ctx, &dto.CreateInventoryItemRequest{
				WorkshopID: workshop.ID,
				SKU:        "BRK-PAD-001",
				Name:       "Front brake pads",
				UnitCost:   12.50,
				UnitPrice:  29.90,
			}, metadata)
			require.NoError(t, err)
			assert.Equal(t, "BRK-PAD-001", item.SKU)
			assert.Equal(t, "pc", item.Unit)
			assert.Zero(t, item.QuantityOnHand)
		})

		t.Run("DuplicateSKURejected", func(t *testing.T) {
			workshop, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)
			_, err = fixtures.CreateTestInventoryItem(workshop.ID, "OIL-5W30", 0)
			require.NoError(t, err)

			_, err = inventoryFlow.CreateItem(ctx, &dto.CreateInventoryItemRequest{
				WorkshopID: workshop.ID,
				SKU:        "OIL-5W30",
				Name:       "Engine oil 5W30",
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsSKUAlreadyExists(err))
		})

		t.Run("SameSKUAllowedAcrossWorkshops", func(t *testing.T) {
			first, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)
			second, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)
			_, err = fixtures.CreateTestInventoryItem(first.ID, "FLT-AIR-01", 0)
			require.NoError(t, err)

			_, err = inventoryFlow.CreateItem(ctx, &dto.CreateInventoryItemRequest{
				WorkshopID: second.ID,
				SKU:        "FLT-AIR-01",
				Name:       "Air filter",
			}, metadata)
			require.NoError(t, err)
		})

		t.Run("ReceivingNoteAddsStock", func(t *testing.T) {
			workshop, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)
			supplier, err := fixtures.CreateTestSupplier(workshop.ID)
			require.NoError(t, err)
			_, err = fixtures.CreateTestInventoryItem(workshop.ID, "BLT-TMG-02", 3)
			require.NoError(t, err)

			doc, err := inventoryFlow.CreateReceivingNote(ctx, &dto.CreateReceivingNoteRequest{
				WorkshopID:   workshop.ID,
				UserID:       1,
				SupplierUUID: utils.ToPtr(supplier.UUID.String()),
				Lines: []dto.StockLineDTO{
					{ItemSKU: "BLT-TMG-02", Quantity: 7, UnitCost: 15},
				},
			}, metadata)
			require.NoError(t, err)
			assert.Equal(t, "GRN-00001", doc.DocumentNumber)
			assert.Equal(t, "receiving", doc.Kind)

			item, err := itemRepo.BySKU(ctx, workshop.ID, "BLT-TMG-02")
			require.NoError(t, err)
			require.NotNil(t, item)
			assert.InDelta(t, 10.0, item.QuantityOnHand, 0.001)
		})

		t.Run("IssueNoteRemovesStock", func(t *testing.T) {
			workshop, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)
			customer, err := fixtures.CreateTestCustomer(workshop.ID)
			require.NoError(t, err)
			vehicle, err := fixtures.CreateTestVehicle(workshop.ID, customer.ID)
			require.NoError(t, err)
			jobCard, err := fixtures.CreateTestJobCard(workshop.ID, customer.ID, vehicle.ID, models.JobCardStatusInProgress)
			require.NoError(t, err)
			_, err = fixtures.CreateTestInventoryItem(workshop.ID, "SPK-PLG-04", 16)
			require.NoError(t, err)

			doc, err := inventoryFlow.CreateIssueNote(ctx, &dto.CreateIssueNoteRequest{
				WorkshopID:  workshop.ID,
				UserID:      1,
				JobCardUUID: utils.ToPtr(jobCard.UUID.String()),
				Lines: []dto.StockLineDTO{
					{ItemSKU: "SPK-PLG-04", Quantity: 4},
				},
			}, metadata)
			require.NoError(t, err)
			assert.Equal(t, "ISN-00001", doc.DocumentNumber)
			assert.Equal(t, "issue", doc.Kind)

			item, err := itemRepo.BySKU(ctx, workshop.ID, "SPK-PLG-04")
			require.NoError(t, err)
			assert.InDelta(t, 12.0, item.QuantityOnHand, 0.001)
		})

		t.Run("InsufficientStockFailsWholeNote", func(t *testing.T) {
			workshop, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)
			_, err = fixtures.CreateTestInventoryItem(workshop.ID, "WIP-BLD-01", 10)
			require.NoError(t, err)
			_, err = fixtures.CreateTestInventoryItem(workshop.ID, "WIP-BLD-02", 1)
			require.NoError(t, err)

			_, err = inventoryFlow.CreateIssueNote(ctx, &dto.CreateIssueNoteRequest{
				WorkshopID: workshop.ID,
				UserID:     1,
				Lines: []dto.StockLineDTO{
					{ItemSKU: "WIP-BLD-01", Quantity: 2},
					{ItemSKU: "WIP-BLD-02", Quantity: 2},
				},
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsInsufficientStock(err))

			// The first line's deduction rolled back with the failed note
			item, err := itemRepo.BySKU(ctx, workshop.ID, "WIP-BLD-01")
			require.NoError(t, err)
			assert.InDelta(t, 10.0, item.QuantityOnHand, 0.001)
		})

		t.Run("EmptyLinesRejected", func(t *testing.T) {
			workshop, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)

			_, err = inventoryFlow.CreateReceivingNote(ctx, &dto.CreateReceivingNoteRequest{
				WorkshopID: workshop.ID,
				UserID:     1,
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsStockLinesRequired(err))
		})

		t.Run("UnknownSKUFailsReceiving", func(t *testing.T) {
			workshop, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)

			_, err = inventoryFlow.CreateReceivingNote(ctx, &dto.CreateReceivingNoteRequest{
				WorkshopID: workshop.ID,
				UserID:     1,
				Lines: []dto.StockLineDTO{
					{ItemSKU: "NO-SUCH-SKU", Quantity: 5},
				},
			}, metadata)
			require.Error(t, err)
		})

		t.Run("ListStockDocumentsByKind", func(t *testing.T) {
			workshop, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)
			_, err = fixtures.CreateTestInventoryItem(workshop.ID, "GSK-HD-09", 5)
			require.NoError(t, err)

			_, err = inventoryFlow.CreateReceivingNote(ctx, &dto.CreateReceivingNoteRequest{
				WorkshopID: workshop.ID,
				UserID:     1,
				Lines:      []dto.StockLineDTO{{ItemSKU: "GSK-HD-09", Quantity: 5}},
			}, metadata)
			require.NoError(t, err)

			_, err = inventoryFlow.CreateIssueNote(ctx, &dto.CreateIssueNoteRequest{
				WorkshopID: workshop.ID,
				UserID:     1,
				Lines:      []dto.StockLineDTO{{ItemSKU: "GSK-HD-09", Quantity: 2}},
			}, metadata)
			require.NoError(t, err)

			resp, err := inventoryFlow.ListStockDocuments(ctx, &dto.ListStockDocumentsRequest{
				WorkshopID: workshop.ID,
				Kind:       utils.ToPtr("receiving"),
			})
			require.NoError(t, err)
			assert.Equal(t, int64(1), resp.Total)
			require.Len(t, resp.Items, 1)
			assert.Equal(t, "GRN-00001", resp.Items[0].DocumentNumber)
		})

		return nil
	})
	require.NoError(t, err)
}
