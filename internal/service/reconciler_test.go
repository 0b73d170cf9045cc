package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/corebank/ftreserve/internal/config"
	"github.com/corebank/ftreserve/internal/gateway"
	gatewaymocks "github.com/corebank/ftreserve/internal/gateway/mocks"
	"github.com/corebank/ftreserve/internal/models"
	"github.com/corebank/ftreserve/internal/repository/mocks"
)

func testReconciler() *Reconciler {
	return NewReconciler(nil, nil, nil, 7*24*time.Hour, nil, testLogger())
}

func usdAccount() config.GatewayAccount {
	return config.GatewayAccount{
		Currency:          models.CurrencyUSD,
		ExternalAccountID: "40817810099910004312",
		AccountRef:        uuid.New(),
	}
}

func externalRecord(code string, amount float64) gateway.ReservationRecord {
	return gateway.ReservationRecord{
		ReservationCode:   code,
		ExternalAccountID: "40817810099910004312",
		AccountName:       "ACME LLC",
		Currency:          models.CurrencyUSD,
		Amount:            decimal.NewFromFloat(amount),
		RecordNumber:      1,
	}
}

func TestReconciler_ReconcileRecord(t *testing.T) {
	t.Run("currency mismatch is an anomaly", func(t *testing.T) {
		mockRepo := mocks.NewMockReservationRepository(t)
		reconciler := testReconciler()
		report := &Report{}

		record := externalRecord("RSV-7001", 100)
		record.Currency = models.CurrencyEUR

		reconciler.reconcileRecord(context.Background(), mockRepo, usdAccount(), record, report)

		require.Len(t, report.Anomalies, 1)
		assert.Equal(t, AnomalyCurrencyMismatch, report.Anomalies[0].Reason)
		mockRepo.AssertNotCalled(t, "FindByCode")
	})

	t.Run("matching local pending record", func(t *testing.T) {
		mockRepo := mocks.NewMockReservationRepository(t)
		reconciler := testReconciler()
		report := &Report{}
		ctx := context.Background()

		record := externalRecord("RSV-7002", 100)
		local := pendingReservation("RSV-7002")
		local.Amount = decimal.NewFromInt(100)
		mockRepo.On("FindByCode", ctx, "RSV-7002").Return(local, nil)

		reconciler.reconcileRecord(ctx, mockRepo, usdAccount(), record, report)

		assert.Equal(t, 1, report.Matched)
		assert.Empty(t, report.Anomalies)
	})

	t.Run("amount mismatch against local pending record", func(t *testing.T) {
		mockRepo := mocks.NewMockReservationRepository(t)
		reconciler := testReconciler()
		report := &Report{}
		ctx := context.Background()

		record := externalRecord("RSV-7003", 250)
		local := pendingReservation("RSV-7003")
		local.Amount = decimal.NewFromInt(100)
		mockRepo.On("FindByCode", ctx, "RSV-7003").Return(local, nil)

		reconciler.reconcileRecord(ctx, mockRepo, usdAccount(), record, report)

		require.Len(t, report.Anomalies, 1)
		assert.Equal(t, AnomalyAmountMismatch, report.Anomalies[0].Reason)
		assert.Zero(t, report.Matched)
	})

	t.Run("terminal local record is left untouched", func(t *testing.T) {
		mockRepo := mocks.NewMockReservationRepository(t)
		reconciler := testReconciler()
		report := &Report{}
		ctx := context.Background()

		record := externalRecord("RSV-7004", 999)
		local := pendingReservation("RSV-7004")
		local.Status = models.ReservationStatusCancelled
		local.Amount = decimal.NewFromInt(1) // differs; still no anomaly
		mockRepo.On("FindByCode", ctx, "RSV-7004").Return(local, nil)

		reconciler.reconcileRecord(ctx, mockRepo, usdAccount(), record, report)

		assert.Equal(t, 1, report.Matched)
		assert.Empty(t, report.Anomalies)
	})

	t.Run("unseen external record becomes a local pending reservation", func(t *testing.T) {
		mockRepo := mocks.NewMockReservationRepository(t)
		reconciler := testReconciler()
		report := &Report{}
		ctx := context.Background()
		account := usdAccount()

		record := externalRecord("RSV-7005", 300)
		mockRepo.On("FindByCode", ctx, "RSV-7005").Return(nil, models.ErrNotFound)
		mockRepo.On("Create", ctx, mock.MatchedBy(func(r *models.Reservation) bool {
			return r.ReservationCode == "RSV-7005" &&
				r.Status == models.ReservationStatusPending &&
				r.AccountRef == account.AccountRef &&
				r.Metadata["origin"] == "reconciler"
		})).Return(nil)

		reconciler.reconcileRecord(ctx, mockRepo, account, record, report)

		assert.Equal(t, 1, report.Created)
	})

	t.Run("create race counts as matched", func(t *testing.T) {
		mockRepo := mocks.NewMockReservationRepository(t)
		reconciler := testReconciler()
		report := &Report{}
		ctx := context.Background()

		record := externalRecord("RSV-7006", 300)
		mockRepo.On("FindByCode", ctx, "RSV-7006").Return(nil, models.ErrNotFound)
		mockRepo.On("Create", ctx, mock.Anything).Return(models.ErrDuplicateReservation)

		reconciler.reconcileRecord(ctx, mockRepo, usdAccount(), record, report)

		assert.Equal(t, 1, report.Matched)
		assert.Zero(t, report.Created)
	})

	t.Run("non-positive external amount is flagged, never created", func(t *testing.T) {
		mockRepo := mocks.NewMockReservationRepository(t)
		reconciler := testReconciler()
		report := &Report{}
		ctx := context.Background()

		record := externalRecord("RSV-7007", 0)
		mockRepo.On("FindByCode", ctx, "RSV-7007").Return(nil, models.ErrNotFound)

		reconciler.reconcileRecord(ctx, mockRepo, usdAccount(), record, report)

		require.Len(t, report.Anomalies, 1)
		assert.Equal(t, AnomalyUnmatchableRecord, report.Anomalies[0].Reason)
		mockRepo.AssertNotCalled(t, "Create")
	})
}

func TestReconciler_ReconcileUncoded(t *testing.T) {
	t.Run("fallback match by account, amount and currency", func(t *testing.T) {
		mockRepo := mocks.NewMockReservationRepository(t)
		reconciler := testReconciler()
		report := &Report{}
		ctx := context.Background()

		record := externalRecord("", 100)
		local := pendingReservation("RSV-8001")
		mockRepo.On("FindPendingByExternalMatch", ctx, record.ExternalAccountID, record.Amount, record.Currency).
			Return(local, nil)

		reconciler.reconcileUncoded(ctx, mockRepo, record, report)

		assert.Equal(t, 1, report.Matched)
		assert.Empty(t, report.Anomalies)
	})

	t.Run("no fallback match is an unmatchable anomaly", func(t *testing.T) {
		mockRepo := mocks.NewMockReservationRepository(t)
		reconciler := testReconciler()
		report := &Report{}
		ctx := context.Background()

		record := externalRecord("", 100)
		mockRepo.On("FindPendingByExternalMatch", ctx, record.ExternalAccountID, record.Amount, record.Currency).
			Return(nil, models.ErrNotFound)

		reconciler.reconcileUncoded(ctx, mockRepo, record, report)

		require.Len(t, report.Anomalies, 1)
		assert.Equal(t, AnomalyUnmatchableRecord, report.Anomalies[0].Reason)
	})
}

func TestReconciler_Run(t *testing.T) {
	t.Run("listing failure on one account still scans the others", func(t *testing.T) {
		mockClient := gatewaymocks.NewMockClient(t)
		badAccount := usdAccount()
		goodAccount := config.GatewayAccount{
			Currency:          models.CurrencyEUR,
			ExternalAccountID: "40817810099910009999",
			AccountRef:        uuid.New(),
		}
		reconciler := NewReconciler(nil, mockClient, []config.GatewayAccount{badAccount, goodAccount},
			7*24*time.Hour, nil, testLogger())

		mockClient.On("ListReservations", mock.Anything, badAccount.ExternalAccountID, badAccount.Currency).
			Return(nil, &gateway.Error{Outcome: gateway.OutcomeTransportError, Message: "connection refused"})
		mockClient.On("ListReservations", mock.Anything, goodAccount.ExternalAccountID, goodAccount.Currency).
			Return([]gateway.ReservationRecord{}, nil)

		report, err := reconciler.Run(context.Background())

		assert.Error(t, err)
		require.NotNil(t, report)
		assert.Equal(t, 1, report.AccountsScanned)
		assert.Zero(t, report.RecordsSeen)
	})

	t.Run("empty overview means zero records, not an error", func(t *testing.T) {
		mockClient := gatewaymocks.NewMockClient(t)
		account := usdAccount()
		reconciler := NewReconciler(nil, mockClient, []config.GatewayAccount{account},
			7*24*time.Hour, nil, testLogger())

		mockClient.On("ListReservations", mock.Anything, account.ExternalAccountID, account.Currency).
			Return([]gateway.ReservationRecord{}, nil)

		report, err := reconciler.Run(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, 1, report.AccountsScanned)
		assert.Zero(t, report.RecordsSeen)
		assert.False(t, report.FinishedAt.IsZero())
	})
}
