package scheduler

import (
	"context"
	"log"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitline/pitline/models"
	testingutil "github.com/pitline/pitline/testing"
	"github.com/pitline/pitline/utils"
)

func TestQuotationExpirySweep(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		workshop, err := fixtures.CreateTestWorkshop()
		require.NoError(t, err)
		customer, err := fixtures.CreateTestCustomer(workshop.ID)
		require.NoError(t, err)

		createQuotation := func(t *testing.T, number string, status models.QuotationStatus, validUntil *time.Time) *models.Quotation {
			quotation := &models.Quotation{
				UUID:        uuid.New(),
				WorkshopID:  workshop.ID,
				QuoteNumber: number,
				CustomerID:  customer.ID,
				Lines: models.DocumentLines{
					{Kind: models.LineKindLabor, Description: "Estimate", Quantity: 1, UnitPrice: 100},
				},
				Status:     status,
				ValidUntil: validUntil,
			}
			require.NoError(t, testDB.DB.Create(quotation).Error)
			return quotation
		}

		pastDue := utils.ToPtr(utils.UTCNowAdd(-24 * time.Hour))
		future := utils.ToPtr(utils.UTCNowAdd(24 * time.Hour))

		overdueDraft := createQuotation(t, "QN-00001", models.QuotationStatusDraft, pastDue)
		overdueSent := createQuotation(t, "QN-00002", models.QuotationStatusSent, pastDue)
		freshSent := createQuotation(t, "QN-00003", models.QuotationStatusSent, future)
		openEnded := createQuotation(t, "QN-00004", models.QuotationStatusSent, nil)
		acceptedLate := createQuotation(t, "QN-00005", models.QuotationStatusAccepted, pastDue)

		sched := NewQuotationExpiryScheduler(testDB.DB, log.Default(), time.Hour)
		sched.runOnce(context.Background())

		status := func(id uint) models.QuotationStatus {
			var q models.Quotation
			require.NoError(t, testDB.DB.First(&q, id).Error)
			return q.Status
		}

		assert.Equal(t, models.QuotationStatusExpired, status(overdueDraft.ID))
		assert.Equal(t, models.QuotationStatusExpired, status(overdueSent.ID))
		assert.Equal(t, models.QuotationStatusSent, status(freshSent.ID))
		assert.Equal(t, models.QuotationStatusSent, status(openEnded.ID))
		assert.Equal(t, models.QuotationStatusAccepted, status(acceptedLate.ID))

		return nil
	})
	require.NoError(t, err)
}

func TestSchedulerStartStop(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		sched := NewQuotationExpiryScheduler(testDB.DB, log.Default(), 50*time.Millisecond)
		stop := sched.Start(context.Background())

		time.Sleep(120 * time.Millisecond)
		stop()

		return nil
	})
	require.NoError(t, err)
}
