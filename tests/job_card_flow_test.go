// Package tests contains integration tests for the job card flow
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

func TestJobCardFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		jobCardRepo := repository.NewJobCardRepository(testDB.DB)
		customerRepo := repository.NewCustomerRepository(testDB.DB)
		vehicleRepo := repository.NewVehicleRepository(testDB.DB)
		counterRepo := repository.NewSequenceCounterRepository(testDB.DB)
		auditRepo := repository.NewAuditLogRepository(testDB.DB)

		jobCardFlow := businessflow.NewJobCardFlow(jobCardRepo, customerRepo, vehicleRepo, counterRepo, auditRepo, testDB.DB)

		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")
		ctx := testingutil.CreateTestContext()

		lines := []dto.LineItemDTO{
			{Kind: models.LineKindLabor, Description: "Diagnosis", Quantity: 1, UnitPrice: 50},
		}

		t.Run("CreateMintsSequentialJobNumbers", func(t *testing.T) {
			workshop, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)
			customer, err := fixtures.CreateTestCustomer(workshop.ID)
			require.NoError(t, err)
			vehicle, err := fixtures.CreateTestVehicle(workshop.ID, customer.ID)
			require.NoError(t, err)
			user, err := fixtures.CreateTestUser(workshop.ID, "advisor")
			require.NoError(t, err)

			first, err := jobCardFlow.CreateJobCard(ctx, &dto.CreateJobCardRequest{
				WorkshopID:   workshop.ID,
				UserID:       user.ID,
				CustomerUUID: customer.UUID.String(),
				VehicleUUID:  vehicle.UUID.String(),
				Complaint:    "Engine noise",
				OdometerIn:   utils.ToPtr(int64(42000)),
				Lines:        lines,
			}, metadata)
			require.NoError(t, err)
			assert.Equal(t, "JCN-00001", first.JobNumber)
			assert.Equal(t, "open", first.Status)

			second, err := jobCardFlow.CreateJobCard(ctx, &dto.CreateJobCardRequest{
				WorkshopID:   workshop.ID,
				UserID:       user.ID,
				CustomerUUID: customer.UUID.String(),
				VehicleUUID:  vehicle.UUID.String(),
				Complaint:    "Brake squeal",
				Lines:        lines,
			}, metadata)
			require.NoError(t, err)
			assert.Equal(t, "JCN-00002", second.JobNumber)
		})

		t.Run("CreateRejectsUnknownCustomer", func(t *testing.T) {
			workshop, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)
			customer, err := fixtures.CreateTestCustomer(workshop.ID)
			require.NoError(t, err)
			vehicle, err := fixtures.CreateTestVehicle(workshop.ID, customer.ID)
			require.NoError(t, err)

			_, err = jobCardFlow.CreateJobCard(ctx, &dto.CreateJobCardRequest{
				WorkshopID:   workshop.ID,
				UserID:       1,
				CustomerUUID: "00000000-0000-4000-8000-000000000000",
				VehicleUUID:  vehicle.UUID.String(),
				Complaint:    "Engine noise",
				Lines:        lines,
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsCustomerNotFound(err))
		})

		t.Run("CreateRejectsVehicleOfAnotherCustomer", func(t *testing.T) {
			workshop, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)
			owner, err := fixtures.CreateTestCustomer(workshop.ID)
			require.NoError(t, err)
			other, err := fixtures.CreateTestCustomer(workshop.ID)
			require.NoError(t, err)
			vehicle, err := fixtures.CreateTestVehicle(workshop.ID, owner.ID)
			require.NoError(t, err)

			_, err = jobCardFlow.CreateJobCard(ctx, &dto.CreateJobCardRequest{
				WorkshopID:   workshop.ID,
				UserID:       1,
				CustomerUUID: other.UUID.String(),
				VehicleUUID:  vehicle.UUID.String(),
				Complaint:    "Engine noise",
				Lines:        lines,
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsVehicleOwnerMismatch(err))
		})

		t.Run("CreateDoesNotSeeOtherWorkshops", func(t *testing.T) {
			first, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)
			second, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)
			customer, err := fixtures.CreateTestCustomer(first.ID)
			require.NoError(t, err)
			vehicle, err := fixtures.CreateTestVehicle(first.ID, customer.ID)
			require.NoError(t, err)

			_, err = jobCardFlow.CreateJobCard(ctx, &dto.CreateJobCardRequest{
				WorkshopID:   second.ID,
				UserID:       1,
				CustomerUUID: customer.UUID.String(),
				VehicleUUID:  vehicle.UUID.String(),
				Complaint:    "Engine noise",
				Lines:        lines,
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsCustomerNotFound(err))
		})

		t.Run("LifecycleTransitions", func(t *testing.T) {
			workshop, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)
			customer, err := fixtures.CreateTestCustomer(workshop.ID)
			require.NoError(t, err)
			vehicle, err := fixtures.CreateTestVehicle(workshop.ID, customer.ID)
			require.NoError(t, err)
			jobCard, err := fixtures.CreateTestJobCard(workshop.ID, customer.ID, vehicle.ID, models.JobCardStatusOpen)
			require.NoError(t, err)

			inProgress, err := jobCardFlow.ChangeStatus(ctx, &dto.ChangeJobCardStatusRequest{
				UUID:       jobCard.UUID.String(),
				WorkshopID: workshop.ID,
				UserID:     1,
				Status:     "in-progress",
			}, metadata)
			require.NoError(t, err)
			assert.Equal(t, "in-progress", inProgress.Status)
			assert.Nil(t, inProgress.CompletedAt)

			completed, err := jobCardFlow.ChangeStatus(ctx, &dto.ChangeJobCardStatusRequest{
				UUID:       jobCard.UUID.String(),
				WorkshopID: workshop.ID,
				UserID:     1,
				Status:     "completed",
			}, metadata)
			require.NoError(t, err)
			assert.Equal(t, "completed", completed.Status)
			assert.NotNil(t, completed.CompletedAt)
		})

		t.Run("InvalidTransitionRejected", func(t *testing.T) {
			workshop, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)
			customer, err := fixtures.CreateTestCustomer(workshop.ID)
			require.NoError(t, err)
			vehicle, err := fixtures.CreateTestVehicle(workshop.ID, customer.ID)
			require.NoError(t, err)
			jobCard, err := fixtures.CreateTestJobCard(workshop.ID, customer.ID, vehicle.ID, models.JobCardStatusOpen)
			require.NoError(t, err)

			// Open cards cannot jump straight to completed
			_, err = jobCardFlow.ChangeStatus(ctx, &dto.ChangeJobCardStatusRequest{
				UUID:       jobCard.UUID.String(),
				WorkshopID: workshop.ID,
				UserID:     1,
				Status:     "completed",
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsInvalidStatusTransition(err))
		})

		t.Run("UpdateEditsOpenCard", func(t *testing.T) {
			workshop, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)
			customer, err := fixtures.CreateTestCustomer(workshop.ID)
			require.NoError(t, err)
			vehicle, err := fixtures.CreateTestVehicle(workshop.ID, customer.ID)
			require.NoError(t, err)
			jobCard, err := fixtures.CreateTestJobCard(workshop.ID, customer.ID, vehicle.ID, models.JobCardStatusOpen)
			require.NoError(t, err)

			updated, err := jobCardFlow.UpdateJobCard(ctx, &dto.UpdateJobCardRequest{
				UUID:       jobCard.UUID.String(),
				WorkshopID: workshop.ID,
				Diagnosis:  utils.ToPtr("Worn wheel bearing"),
				Lines: []dto.LineItemDTO{
					{Kind: models.LineKindLabor, Description: "Bearing replacement", Quantity: 2, UnitPrice: 60},
					{Kind: models.LineKindPart, Description: "Wheel bearing", Quantity: 1, UnitPrice: 85},
				},
			}, metadata)
			require.NoError(t, err)
			require.NotNil(t, updated.Diagnosis)
			assert.Equal(t, "Worn wheel bearing", *updated.Diagnosis)
			assert.Len(t, updated.Lines, 2)
		})

		t.Run("UpdateFrozenAfterInvoicing", func(t *testing.T) {
			workshop, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)
			customer, err := fixtures.CreateTestCustomer(workshop.ID)
			require.NoError(t, err)
			vehicle, err := fixtures.CreateTestVehicle(workshop.ID, customer.ID)
			require.NoError(t, err)
			jobCard, err := fixtures.CreateTestJobCard(workshop.ID, customer.ID, vehicle.ID, models.JobCardStatusInvoiced)
			require.NoError(t, err)

			_, err = jobCardFlow.UpdateJobCard(ctx, &dto.UpdateJobCardRequest{
				UUID:       jobCard.UUID.String(),
				WorkshopID: workshop.ID,
				Diagnosis:  utils.ToPtr("Too late"),
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsJobCardAlreadyInvoiced(err))
		})

		t.Run("GetScopedToWorkshop", func(t *testing.T) {
			workshop, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)
			other, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)
			customer, err := fixtures.CreateTestCustomer(workshop.ID)
			require.NoError(t, err)
			vehicle, err := fixtures.CreateTestVehicle(workshop.ID, customer.ID)
			require.NoError(t, err)
			jobCard, err := fixtures.CreateTestJobCard(workshop.ID, customer.ID, vehicle.ID, models.JobCardStatusOpen)
			require.NoError(t, err)

			found, err := jobCardFlow.GetJobCard(ctx, workshop.ID, jobCard.UUID.String())
			require.NoError(t, err)
			assert.Equal(t, jobCard.JobNumber, found.JobNumber)

			_, err = jobCardFlow.GetJobCard(ctx, other.ID, jobCard.UUID.String())
			require.Error(t, err)
			assert.True(t, businessflow.IsJobCardNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}
