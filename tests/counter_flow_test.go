// Package tests contains integration tests for the reference number allocator
package tests

import (
	"context"
	"errors"
	"sync"
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

func TestSequenceCounterAllocation(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		counterRepo := repository.NewSequenceCounterRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()

		t.Run("FirstAllocationCreatesCounterAtOne", func(t *testing.T) {
			workshop, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)

			counter, err := counterRepo.Allocate(ctx, workshop.ID, models.CounterCodeJobCard, utils.ToPtr(models.CounterCodeJobCard), nil)
			require.NoError(t, err)
			require.NotNil(t, counter)

			assert.Equal(t, int64(1), counter.Value)
			assert.Equal(t, models.CounterCodeJobCard, counter.Code)
			assert.Equal(t, "JCN-00001", counter.Reference())
			assert.Equal(t, "JCN Number", counter.Description)
		})

		t.Run("SequentialAllocationsIncrementByOne", func(t *testing.T) {
			workshop, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)

			for want := int64(1); want <= 5; want++ {
				counter, err := counterRepo.Allocate(ctx, workshop.ID, models.CounterCodeInvoice, utils.ToPtr(models.CounterCodeInvoice), nil)
				require.NoError(t, err)
				assert.Equal(t, want, counter.Value)
			}

			counter, err := counterRepo.ByWorkshopAndCode(ctx, workshop.ID, models.CounterCodeInvoice)
			require.NoError(t, err)
			require.NotNil(t, counter)
			assert.Equal(t, "INV-00005", counter.Reference())
		})

		t.Run("StoredSettingsWinOverCallArguments", func(t *testing.T) {
			workshop, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)

			first, err := counterRepo.Allocate(ctx, workshop.ID, "WO", utils.ToPtr("WO"), nil)
			require.NoError(t, err)
			assert.Equal(t, "WO-00001", first.Reference())

			first.Prefix = "JOB"
			first.Separator = "/"
			first.Length = 3
			require.NoError(t, counterRepo.UpdateSettings(ctx, *first))

			// Later allocations keep the stored formatting regardless of
			// what the caller passes
			second, err := counterRepo.Allocate(ctx, workshop.ID, "WO", utils.ToPtr("WO"), nil)
			require.NoError(t, err)
			assert.Equal(t, int64(2), second.Value)
			assert.Equal(t, "JOB/002", second.Reference())
		})

		t.Run("WorkshopsAllocateIndependently", func(t *testing.T) {
			first, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)
			second, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)

			for i := 0; i < 3; i++ {
				_, err := counterRepo.Allocate(ctx, first.ID, models.CounterCodeQuotation, utils.ToPtr(models.CounterCodeQuotation), nil)
				require.NoError(t, err)
			}

			counter, err := counterRepo.Allocate(ctx, second.ID, models.CounterCodeQuotation, utils.ToPtr(models.CounterCodeQuotation), nil)
			require.NoError(t, err)
			assert.Equal(t, int64(1), counter.Value)
			assert.Equal(t, "QN-00001", counter.Reference())
		})

		t.Run("AbortedTransactionDoesNotBurnNumbers", func(t *testing.T) {
			workshop, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)

			_, err = counterRepo.Allocate(ctx, workshop.ID, models.CounterCodeReceipt, utils.ToPtr(models.CounterCodeReceipt), nil)
			require.NoError(t, err)

			abort := errors.New("caller gave up")
			err = repository.WithTransaction(ctx, testDB.DB, func(txCtx context.Context) error {
				counter, err := counterRepo.Allocate(txCtx, workshop.ID, models.CounterCodeReceipt, utils.ToPtr(models.CounterCodeReceipt), nil)
				require.NoError(t, err)
				assert.Equal(t, int64(2), counter.Value)
				return abort
			})
			require.ErrorIs(t, err, abort)

			// The rolled back increment is reissued to the next caller
			counter, err := counterRepo.Allocate(ctx, workshop.ID, models.CounterCodeReceipt, utils.ToPtr(models.CounterCodeReceipt), nil)
			require.NoError(t, err)
			assert.Equal(t, int64(2), counter.Value)
		})

		t.Run("ConcurrentAllocationsNeverCollide", func(t *testing.T) {
			workshop, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)

			const workers = 10
			values := make(chan int64, workers)
			errs := make(chan error, workers)

			var wg sync.WaitGroup
			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					counter, err := counterRepo.Allocate(context.Background(), workshop.ID, models.CounterCodeEmployee, utils.ToPtr(models.CounterCodeEmployee), nil)
					if err != nil {
						errs <- err
						return
					}
					values <- counter.Value
				}()
			}
			wg.Wait()
			close(values)
			close(errs)

			for err := range errs {
				require.NoError(t, err)
			}

			seen := make(map[int64]bool)
			var max int64
			for v := range values {
				assert.False(t, seen[v], "value %d allocated twice", v)
				seen[v] = true
				if v > max {
					max = v
				}
			}
			assert.Len(t, seen, workers)
			assert.Equal(t, int64(workers), max)
		})

		t.Run("BlankCodeRejected", func(t *testing.T) {
			workshop, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)

			_, err = counterRepo.Allocate(ctx, workshop.ID, "   ", nil, nil)
			require.ErrorIs(t, err, repository.ErrCounterCodeRequired)
		})

		t.Run("ZeroWorkshopRejected", func(t *testing.T) {
			_, err := counterRepo.Allocate(ctx, 0, models.CounterCodeJobCard, nil, nil)
			require.ErrorIs(t, err, repository.ErrCounterWorkshopRequired)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestCounterFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		counterRepo := repository.NewSequenceCounterRepository(testDB.DB)
		auditRepo := repository.NewAuditLogRepository(testDB.DB)
		counterFlow := businessflow.NewCounterFlow(counterRepo, auditRepo, testDB.DB)

		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")
		ctx := testingutil.CreateTestContext()

		t.Run("AllocateCustomCode", func(t *testing.T) {
			workshop, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)

			resp, err := counterFlow.Allocate(ctx, &dto.AllocateCounterRequest{
				WorkshopID:  workshop.ID,
				Code:        "CLAIM",
				Prefix:      utils.ToPtr("CLM"),
				Description: utils.ToPtr("Warranty Claim Number"),
			}, metadata)

			require.NoError(t, err)
			assert.Equal(t, "CLAIM", resp.Code)
			assert.Equal(t, int64(1), resp.Value)
			assert.Equal(t, "CLM-00001", resp.Reference)
		})

		t.Run("UpdateCounterChangesFormattingOnly", func(t *testing.T) {
			workshop, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)

			_, err = counterFlow.Allocate(ctx, &dto.AllocateCounterRequest{
				WorkshopID: workshop.ID,
				Code:       models.CounterCodeJobCard,
				Prefix:     utils.ToPtr(models.CounterCodeJobCard),
			}, metadata)
			require.NoError(t, err)

			updated, err := counterFlow.UpdateCounter(ctx, &dto.UpdateCounterRequest{
				WorkshopID: workshop.ID,
				Code:       models.CounterCodeJobCard,
				Prefix:     utils.ToPtr("WS1-JCN"),
				Length:     utils.ToPtr(6),
			}, metadata)

			require.NoError(t, err)
			assert.Equal(t, "WS1-JCN", updated.Prefix)
			assert.Equal(t, 6, updated.Length)
			assert.Equal(t, int64(1), updated.Value)

			resp, err := counterFlow.Allocate(ctx, &dto.AllocateCounterRequest{
				WorkshopID: workshop.ID,
				Code:       models.CounterCodeJobCard,
			}, metadata)
			require.NoError(t, err)
			assert.Equal(t, "WS1-JCN-000002", resp.Reference)
		})

		t.Run("UpdateUnknownCounter", func(t *testing.T) {
			workshop, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)

			_, err = counterFlow.UpdateCounter(ctx, &dto.UpdateCounterRequest{
				WorkshopID: workshop.ID,
				Code:       "NOPE",
				Prefix:     utils.ToPtr("X"),
			}, metadata)

			require.Error(t, err)
			assert.True(t, businessflow.IsCounterNotFound(err))
		})

		t.Run("ListCounters", func(t *testing.T) {
			workshop, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)

			for _, code := range []string{models.CounterCodeQuotation, models.CounterCodeJobCard, models.CounterCodeInvoice} {
				_, err := counterFlow.Allocate(ctx, &dto.AllocateCounterRequest{
					WorkshopID: workshop.ID,
					Code:       code,
					Prefix:     utils.ToPtr(code),
				}, metadata)
				require.NoError(t, err)
			}

			resp, err := counterFlow.ListCounters(ctx, workshop.ID)
			require.NoError(t, err)
			require.Len(t, resp.Items, 3)

			// Ordered by code
			assert.Equal(t, models.CounterCodeInvoice, resp.Items[0].Code)
			assert.Equal(t, models.CounterCodeJobCard, resp.Items[1].Code)
			assert.Equal(t, models.CounterCodeQuotation, resp.Items[2].Code)
		})

		return nil
	})
	require.NoError(t, err)
}
