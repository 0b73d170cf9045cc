package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/corebank/ftreserve/internal/gateway"
	gatewaymocks "github.com/corebank/ftreserve/internal/gateway/mocks"
	"github.com/corebank/ftreserve/internal/models"
)

// Full confirm flow against a mocked store and gateway: local preconditions,
// one remote call, settlement in a single database transaction.
func TestLifecycleEngine_Confirm(t *testing.T) {
	t.Run("definite remote success settles the reservation", func(t *testing.T) {
		database, dbMock := newSQLMockDB(t)
		mockClient := gatewaymocks.NewMockClient(t)
		engine := NewLifecycleEngine(database, mockClient, 7*24*time.Hour, nil, testLogger())
		accountRef := uuid.New()

		rows := sqlmock.NewRows(reservationQueryColumns)
		addReservationRow(rows, "RSV-9001", accountRef, models.ReservationStatusPending, time.Now().UTC().Add(24*time.Hour))
		dbMock.ExpectQuery("SELECT (.+) FROM reservations").WillReturnRows(rows)

		mockClient.On("ConfirmReservation", mock.Anything, mock.MatchedBy(func(req gateway.ConfirmRequest) bool {
			return req.ReservationCode == "RSV-9001"
		})).Return(&gateway.ConfirmResult{StatusCode: 200, RawBody: "OK"}, nil)

		dbMock.ExpectBegin()
		dbMock.ExpectExec("INSERT INTO transactions").WillReturnResult(sqlmock.NewResult(0, 1))
		dbMock.ExpectExec("UPDATE reservations").WillReturnResult(sqlmock.NewResult(0, 1))
		dbMock.ExpectCommit()

		confirmed, err := engine.Confirm(context.Background(), "RSV-9001")

		require.NoError(t, err)
		assert.Equal(t, models.ReservationStatusConfirmed, confirmed.Status)
		assert.NotNil(t, confirmed.TransactionID)
		assert.NotNil(t, confirmed.ConfirmedAt)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("expired reservation is rejected without a remote call", func(t *testing.T) {
		database, dbMock := newSQLMockDB(t)
		mockClient := gatewaymocks.NewMockClient(t)
		engine := NewLifecycleEngine(database, mockClient, 7*24*time.Hour, nil, testLogger())

		rows := sqlmock.NewRows(reservationQueryColumns)
		addReservationRow(rows, "RSV-9002", uuid.New(), models.ReservationStatusPending, time.Now().UTC().Add(-1*time.Hour))
		dbMock.ExpectQuery("SELECT (.+) FROM reservations").WillReturnRows(rows)

		confirmed, err := engine.Confirm(context.Background(), "RSV-9002")

		assert.Nil(t, confirmed)
		var svcErr *ServiceError
		if assert.ErrorAs(t, err, &svcErr) {
			assert.Equal(t, ErrCodeInvalidTransition, svcErr.Code)
		}
		mockClient.AssertNotCalled(t, "ConfirmReservation")
	})

	t.Run("remote rejection cancels the reservation", func(t *testing.T) {
		database, dbMock := newSQLMockDB(t)
		mockClient := gatewaymocks.NewMockClient(t)
		engine := NewLifecycleEngine(database, mockClient, 7*24*time.Hour, nil, testLogger())

		rows := sqlmock.NewRows(reservationQueryColumns)
		addReservationRow(rows, "RSV-9003", uuid.New(), models.ReservationStatusPending, time.Now().UTC().Add(24*time.Hour))
		dbMock.ExpectQuery("SELECT (.+) FROM reservations").WillReturnRows(rows)

		mockClient.On("ConfirmReservation", mock.Anything, mock.Anything).
			Return(nil, &gateway.Error{Outcome: gateway.OutcomeRemoteRejected, Message: "no such reservation"})

		// Outcome stamp, then the compare-and-set cancel.
		dbMock.ExpectExec("UPDATE reservations SET metadata").WillReturnResult(sqlmock.NewResult(0, 1))
		dbMock.ExpectExec("UPDATE reservations").WillReturnResult(sqlmock.NewResult(0, 1))

		confirmed, err := engine.Confirm(context.Background(), "RSV-9003")

		assert.Nil(t, confirmed)
		var svcErr *ServiceError
		if assert.ErrorAs(t, err, &svcErr) {
			assert.Equal(t, ErrCodeGatewayRejected, svcErr.Code)
		}
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("ambiguous outcome leaves the reservation pending", func(t *testing.T) {
		database, dbMock := newSQLMockDB(t)
		mockClient := gatewaymocks.NewMockClient(t)
		engine := NewLifecycleEngine(database, mockClient, 7*24*time.Hour, nil, testLogger())

		rows := sqlmock.NewRows(reservationQueryColumns)
		addReservationRow(rows, "RSV-9004", uuid.New(), models.ReservationStatusPending, time.Now().UTC().Add(24*time.Hour))
		dbMock.ExpectQuery("SELECT (.+) FROM reservations").WillReturnRows(rows)

		mockClient.On("ConfirmReservation", mock.Anything, mock.Anything).
			Return(nil, &gateway.Error{Outcome: gateway.OutcomeAmbiguous, Message: "timed out"})

		// Only the outcome stamp; no status transition.
		dbMock.ExpectExec("UPDATE reservations SET metadata").WillReturnResult(sqlmock.NewResult(0, 1))

		confirmed, err := engine.Confirm(context.Background(), "RSV-9004")

		assert.Nil(t, confirmed)
		var svcErr *ServiceError
		if assert.ErrorAs(t, err, &svcErr) {
			assert.Equal(t, ErrCodeGatewayAmbiguous, svcErr.Code)
		}
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})
}

// Two callers racing to confirm one code: the per-code lock serializes them,
// so the winner settles and the loser reloads a row that is already
// CONFIRMED. The external endpoint must see exactly one call.
func TestLifecycleEngine_ConcurrentConfirms(t *testing.T) {
	database, dbMock := newSQLMockDB(t)
	mockClient := gatewaymocks.NewMockClient(t)
	engine := NewLifecycleEngine(database, mockClient, 7*24*time.Hour, nil, testLogger())
	accountRef := uuid.New()

	first := sqlmock.NewRows(reservationQueryColumns)
	addReservationRow(first, "RSV-9005", accountRef, models.ReservationStatusPending, time.Now().UTC().Add(24*time.Hour))
	dbMock.ExpectQuery("SELECT (.+) FROM reservations").WillReturnRows(first)

	mockClient.On("ConfirmReservation", mock.Anything, mock.Anything).
		Return(&gateway.ConfirmResult{StatusCode: 200, RawBody: "OK"}, nil).Once()

	dbMock.ExpectBegin()
	dbMock.ExpectExec("INSERT INTO transactions").WillReturnResult(sqlmock.NewResult(0, 1))
	dbMock.ExpectExec("UPDATE reservations").WillReturnResult(sqlmock.NewResult(0, 1))
	dbMock.ExpectCommit()

	second := sqlmock.NewRows(reservationQueryColumns)
	addReservationRow(second, "RSV-9005", accountRef, models.ReservationStatusConfirmed, time.Now().UTC().Add(24*time.Hour))
	dbMock.ExpectQuery("SELECT (.+) FROM reservations").WillReturnRows(second)

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := engine.Confirm(context.Background(), "RSV-9005")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	successes := 0
	staleRejections := 0
	for err := range results {
		if err == nil {
			successes++
			continue
		}
		var svcErr *ServiceError
		if assert.ErrorAs(t, err, &svcErr) && svcErr.Code == ErrCodeInvalidTransition {
			staleRejections++
		}
	}

	assert.Equal(t, 1, successes, "exactly one confirm should settle")
	assert.Equal(t, 1, staleRejections, "the other should see the terminal status")
	mockClient.AssertNumberOfCalls(t, "ConfirmReservation", 1)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestLifecycleEngine_SweepExpired(t *testing.T) {
	database, dbMock := newSQLMockDB(t)
	engine := NewLifecycleEngine(database, nil, 7*24*time.Hour, nil, testLogger())

	dbMock.ExpectExec("UPDATE reservations").WillReturnResult(sqlmock.NewResult(0, 2))

	count, err := engine.SweepExpired(context.Background(), time.Now().UTC())

	assert.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
