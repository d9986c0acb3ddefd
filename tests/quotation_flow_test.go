// Package tests contains integration tests for the quotation flow
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

func TestQuotationFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		quotationRepo := repository.NewQuotationRepository(testDB.DB)
		jobCardRepo := repository.NewJobCardRepository(testDB.DB)
		customerRepo := repository.NewCustomerRepository(testDB.DB)
		vehicleRepo := repository.NewVehicleRepository(testDB.DB)
		counterRepo := repository.NewSequenceCounterRepository(testDB.DB)
		auditRepo := repository.NewAuditLogRepository(testDB.DB)

		quotationFlow := businessflow.NewQuotationFlow(quotationRepo, jobCardRepo, customerRepo, vehicleRepo, counterRepo, auditRepo, testDB.DB)

		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")
		ctx := testingutil.CreateTestContext()

		lines := []dto.LineItemDTO{
			{Kind: models.LineKindLabor, Description: "Timing belt replacement", Quantity: 3, UnitPrice: 60},
			{Kind: models.LineKindPart, Description: "Timing belt kit", Quantity: 1, UnitPrice: 140},
		}

		createQuotation := func(t *testing.T, workshopID uint, customerUUID string, vehicleUUID *string) *dto.CreateQuotationResponse {
			resp, err := quotationFlow.CreateQuotation(ctx, &dto.CreateQuotationRequest{
				WorkshopID:   workshopID,
				UserID:       1,
				CustomerUUID: customerUUID,
				VehicleUUID:  vehicleUUID,
				Lines:        lines,
			}, metadata)
			require.NoError(t, err)
			return resp
		}

		t.Run("CreateStartsAsDraft", func(t *testing.T) {
			workshop, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)
			customer, err := fixtures.CreateTestCustomer(workshop.ID)
			require.NoError(t, err)

			resp := createQuotation(t, workshop.ID, customer.UUID.String(), nil)
			assert.Equal(t, "QN-00001", resp.QuoteNumber)
			assert.Equal(t, "draft", resp.Status)
		})

		t.Run("StatusMovesDraftToSentToAccepted", func(t *testing.T) {
			workshop, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)
			customer, err := fixtures.CreateTestCustomer(workshop.ID)
			require.NoError(t, err)

			resp := createQuotation(t, workshop.ID, customer.UUID.String(), nil)

			sent, err := quotationFlow.ChangeStatus(ctx, &dto.ChangeQuotationStatusRequest{
				UUID:       resp.UUID,
				WorkshopID: workshop.ID,
				Status:     "sent",
			}, metadata)
			require.NoError(t, err)
			assert.Equal(t, "sent", sent.Status)

			accepted, err := quotationFlow.ChangeStatus(ctx, &dto.ChangeQuotationStatusRequest{
				UUID:       resp.UUID,
				WorkshopID: workshop.ID,
				Status:     "accepted",
			}, metadata)
			require.NoError(t, err)
			assert.Equal(t, "accepted", accepted.Status)
		})

		t.Run("DraftCannotBeAcceptedDirectly", func(t *testing.T) {
			workshop, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)
			customer, err := fixtures.CreateTestCustomer(workshop.ID)
			require.NoError(t, err)

			resp := createQuotation(t, workshop.ID, customer.UUID.String(), nil)

			_, err = quotationFlow.ChangeStatus(ctx, &dto.ChangeQuotationStatusRequest{
				UUID:       resp.UUID,
				WorkshopID: workshop.ID,
				Status:     "accepted",
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsInvalidStatusTransition(err))
		})

		t.Run("ConvertAcceptedQuotation", func(t *testing.T) {
			workshop, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)
			customer, err := fixtures.CreateTestCustomer(workshop.ID)
			require.NoError(t, err)
			vehicle, err := fixtures.CreateTestVehicle(workshop.ID, customer.ID)
			require.NoError(t, err)

			resp := createQuotation(t, workshop.ID, customer.UUID.String(), utils.ToPtr(vehicle.UUID.String()))

			for _, status := range []string{"sent", "accepted"} {
				_, err := quotationFlow.ChangeStatus(ctx, &dto.ChangeQuotationStatusRequest{
					UUID:       resp.UUID,
					WorkshopID: workshop.ID,
					Status:     status,
				}, metadata)
				require.NoError(t, err)
			}

			converted, err := quotationFlow.ConvertToJobCard(ctx, &dto.ConvertQuotationRequest{
				UUID:       resp.UUID,
				WorkshopID: workshop.ID,
				UserID:     1,
				Complaint:  "Customer approved the estimate",
			}, metadata)
			require.NoError(t, err)
			assert.Equal(t, "JCN-00001", converted.JobNumber)
			assert.Equal(t, resp.QuoteNumber, converted.QuoteNumber)

			// The job card carries the quotation's lines
			jobCard, err := jobCardRepo.ByUUID(ctx, converted.JobCardUUID)
			require.NoError(t, err)
			require.NotNil(t, jobCard)
			assert.Len(t, jobCard.Lines, len(lines))
			assert.Equal(t, models.JobCardStatusOpen, jobCard.Status)
			require.NotNil(t, jobCard.QuotationID)
		})

		t.Run("ConvertRequiresAcceptedStatus", func(t *testing.T) {
			workshop, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)
			customer, err := fixtures.CreateTestCustomer(workshop.ID)
			require.NoError(t, err)
			vehicle, err := fixtures.CreateTestVehicle(workshop.ID, customer.ID)
			require.NoError(t, err)

			resp := createQuotation(t, workshop.ID, customer.UUID.String(), utils.ToPtr(vehicle.UUID.String()))

			_, err = quotationFlow.ConvertToJobCard(ctx, &dto.ConvertQuotationRequest{
				UUID:       resp.UUID,
				WorkshopID: workshop.ID,
				UserID:     1,
				Complaint:  "Too eager",
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsQuotationNotAccepted(err))
		})

		t.Run("ConvertOnlyOnce", func(t *testing.T) {
			workshop, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)
			customer, err := fixtures.CreateTestCustomer(workshop.ID)
			require.NoError(t, err)
			vehicle, err := fixtures.CreateTestVehicle(workshop.ID, customer.ID)
			require.NoError(t, err)

			resp := createQuotation(t, workshop.ID, customer.UUID.String(), utils.ToPtr(vehicle.UUID.String()))

			for _, status := range []string{"sent", "accepted"} {
				_, err := quotationFlow.ChangeStatus(ctx, &dto.ChangeQuotationStatusRequest{
					UUID:       resp.UUID,
					WorkshopID: workshop.ID,
					Status:     status,
				}, metadata)
				require.NoError(t, err)
			}

			_, err = quotationFlow.ConvertToJobCard(ctx, &dto.ConvertQuotationRequest{
				UUID:       resp.UUID,
				WorkshopID: workshop.ID,
				UserID:     1,
				Complaint:  "First conversion",
			}, metadata)
			require.NoError(t, err)

			_, err = quotationFlow.ConvertToJobCard(ctx, &dto.ConvertQuotationRequest{
				UUID:       resp.UUID,
				WorkshopID: workshop.ID,
				UserID:     1,
				Complaint:  "Second conversion",
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsQuotationAlreadyConverted(err))
		})

		t.Run("ConvertWithoutVehicleRejected", func(t *testing.T) {
			workshop, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)
			customer, err := fixtures.CreateTestCustomer(workshop.ID)
			require.NoError(t, err)

			resp := createQuotation(t, workshop.ID, customer.UUID.String(), nil)

			for _, status := range []string{"sent", "accepted"} {
				_, err := quotationFlow.ChangeStatus(ctx, &dto.ChangeQuotationStatusRequest{
					UUID:       resp.UUID,
					WorkshopID: workshop.ID,
					Status:     status,
				}, metadata)
				require.NoError(t, err)
			}

			_, err = quotationFlow.ConvertToJobCard(ctx, &dto.ConvertQuotationRequest{
				UUID:       resp.UUID,
				WorkshopID: workshop.ID,
				UserID:     1,
				Complaint:  "No vehicle on the quote",
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsVehicleNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}
