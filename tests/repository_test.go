// Package tests contains test cases for models and repository packages to avoid circular imports
package tests

import (
	"testing"

	"github.com/pitline/pitline/models"
	"github.com/pitline/pitline/repository"
	testingutil "github.com/pitline/pitline/testing"
	"github.com/pitline/pitline/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequenceCounterRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		repo := repository.NewSequenceCounterRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()

		t.Run("ByWorkshopAndCode", func(t *testing.T) {
			workshop, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)

			missing, err := repo.ByWorkshopAndCode(ctx, workshop.ID, "JCN")
			require.NoError(t, err)
			assert.Nil(t, missing)

			_, err = repo.Allocate(ctx, workshop.ID, "JCN", utils.ToPtr("JCN"), nil)
			require.NoError(t, err)

			found, err := repo.ByWorkshopAndCode(ctx, workshop.ID, "JCN")
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, int64(1), found.Value)
			assert.Equal(t, "JCN", found.Prefix)
			assert.Equal(t, "-", found.Separator)
			assert.Equal(t, 5, found.Length)
		})

		t.Run("ListByWorkshopOrderedByCode", func(t *testing.T) {
			workshop, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)

			for _, code := range []string{"RN", "API", "INV"} {
				_, err := repo.Allocate(ctx, workshop.ID, code, utils.ToPtr(code), nil)
				require.NoError(t, err)
			}

			counters, err := repo.ListByWorkshop(ctx, workshop.ID)
			require.NoError(t, err)
			require.Len(t, counters, 3)
			assert.Equal(t, "API", counters[0].Code)
			assert.Equal(t, "INV", counters[1].Code)
			assert.Equal(t, "RN", counters[2].Code)
		})

		t.Run("UpdateSettingsNeverMovesValue", func(t *testing.T) {
			workshop, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)

			counter, err := repo.Allocate(ctx, workshop.ID, "QN", utils.ToPtr("QN"), nil)
			require.NoError(t, err)

			counter.Prefix = "QTE"
			counter.Length = 4
			counter.Value = 999
			require.NoError(t, repo.UpdateSettings(ctx, *counter))

			reloaded, err := repo.ByWorkshopAndCode(ctx, workshop.ID, "QN")
			require.NoError(t, err)
			assert.Equal(t, "QTE", reloaded.Prefix)
			assert.Equal(t, 4, reloaded.Length)
			assert.Equal(t, int64(1), reloaded.Value)
		})

		t.Run("UpdateSettingsUnknownCounter", func(t *testing.T) {
			workshop, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)

			err = repo.UpdateSettings(ctx, models.SequenceCounter{
				WorkshopID: workshop.ID,
				Code:       "NOPE",
				Prefix:     "X",
			})
			require.ErrorIs(t, err, repository.ErrCounterNotFound)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestCustomerRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		repo := repository.NewCustomerRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()

		t.Run("ByUUID", func(t *testing.T) {
			workshop, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)
			customer, err := fixtures.CreateTestCustomer(workshop.ID)
			require.NoError(t, err)

			found, err := repo.ByUUID(ctx, customer.UUID.String())
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, customer.ID, found.ID)

			missing, err := repo.ByUUID(ctx, "00000000-0000-4000-8000-000000000000")
			require.NoError(t, err)
			assert.Nil(t, missing)
		})

		t.Run("ListByWorkshopIsScoped", func(t *testing.T) {
			first, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)
			second, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)

			for i := 0; i < 3; i++ {
				_, err := fixtures.CreateTestCustomer(first.ID)
				require.NoError(t, err)
			}
			_, err = fixtures.CreateTestCustomer(second.ID)
			require.NoError(t, err)

			customers, err := repo.ListByWorkshop(ctx, first.ID, 10, 0)
			require.NoError(t, err)
			assert.Len(t, customers, 3)
			for _, c := range customers {
				assert.Equal(t, first.ID, c.WorkshopID)
			}
		})

		return nil
	})
	require.NoError(t, err)
}

func TestVehicleRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		repo := repository.NewVehicleRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()

		t.Run("ByPlateNumberScopedToWorkshop", func(t *testing.T) {
			workshop, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)
			other, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)
			customer, err := fixtures.CreateTestCustomer(workshop.ID)
			require.NoError(t, err)
			vehicle, err := fixtures.CreateTestVehicle(workshop.ID, customer.ID)
			require.NoError(t, err)

			found, err := repo.ByPlateNumber(ctx, workshop.ID, vehicle.PlateNumber)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, vehicle.ID, found.ID)

			missing, err := repo.ByPlateNumber(ctx, other.ID, vehicle.PlateNumber)
			require.NoError(t, err)
			assert.Nil(t, missing)
		})

		t.Run("ListByCustomer", func(t *testing.T) {
			workshop, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)
			customer, err := fixtures.CreateTestCustomer(workshop.ID)
			require.NoError(t, err)

			for i := 0; i < 2; i++ {
				_, err := fixtures.CreateTestVehicle(workshop.ID, customer.ID)
				require.NoError(t, err)
			}

			vehicles, err := repo.ListByCustomer(ctx, customer.ID)
			require.NoError(t, err)
			assert.Len(t, vehicles, 2)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestInvoiceRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		repo := repository.NewInvoiceRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()

		t.Run("SumOutstanding", func(t *testing.T) {
			workshop, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)
			customer, err := fixtures.CreateTestCustomer(workshop.ID)
			require.NoError(t, err)

			first, err := fixtures.CreateTestInvoice(workshop.ID, customer.ID, 100)
			require.NoError(t, err)
			_, err = fixtures.CreateTestInvoice(workshop.ID, customer.ID, 50)
			require.NoError(t, err)

			first.AmountPaid = 30
			first.Status = models.InvoiceStatusPartiallyPaid
			require.NoError(t, repo.Update(ctx, *first))

			total, err := repo.SumOutstanding(ctx, workshop.ID, models.InvoiceKindReceivable)
			require.NoError(t, err)
			assert.InDelta(t, 120.0, total, 0.001)
		})

		t.Run("ListByWorkshopFiltersKind", func(t *testing.T) {
			workshop, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)
			customer, err := fixtures.CreateTestCustomer(workshop.ID)
			require.NoError(t, err)
			_, err = fixtures.CreateTestInvoice(workshop.ID, customer.ID, 75)
			require.NoError(t, err)

			receivable := models.InvoiceKindReceivable
			invoices, err := repo.ListByWorkshop(ctx, workshop.ID, &receivable, 10, 0)
			require.NoError(t, err)
			assert.Len(t, invoices, 1)

			payable := models.InvoiceKindPayable
			invoices, err = repo.ListByWorkshop(ctx, workshop.ID, &payable, 10, 0)
			require.NoError(t, err)
			assert.Empty(t, invoices)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestAdminRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		repo := repository.NewAdminRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()

		t.Run("ByUsername", func(t *testing.T) {
			admin, err := fixtures.CreateTestAdmin()
			require.NoError(t, err)

			found, err := repo.ByUsername(ctx, admin.Username)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, admin.ID, found.ID)

			missing, err := repo.ByUsername(ctx, "ghost")
			require.NoError(t, err)
			assert.Nil(t, missing)
		})

		return nil
	})
	require.NoError(t, err)
}
