package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/corebank/ftreserve/internal/config"
	"github.com/corebank/ftreserve/internal/db"
	"github.com/corebank/ftreserve/internal/gateway"
	"github.com/corebank/ftreserve/internal/metrics"
	"github.com/corebank/ftreserve/internal/models"
	"github.com/corebank/ftreserve/internal/repository"
)

// AnomalyReason classifies why an external record was flagged for review
type AnomalyReason string

const (
	AnomalyAmountMismatch    AnomalyReason = "amount_mismatch"
	AnomalyCurrencyMismatch  AnomalyReason = "currency_mismatch"
	AnomalyUnmatchableRecord AnomalyReason = "unmatchable_record"
)

// Anomaly is an external record the reconciler refused to act on
// automatically. Surfaced for manual review, never auto-resolved.
type Anomaly struct {
	Reason            AnomalyReason   `json:"reason"`
	ReservationCode   string          `json:"reservation_code,omitempty"`
	ExternalAccountID string          `json:"external_account_id"`
	Currency          models.Currency `json:"currency"`
	Detail            string          `json:"detail"`
	Amount            decimal.Decimal `json:"amount"`
}

// Report summarizes one reconciliation pass
type Report struct {
	StartedAt       time.Time `json:"started_at"`
	FinishedAt      time.Time `json:"finished_at"`
	Anomalies       []Anomaly `json:"anomalies"`
	AccountsScanned int       `json:"accounts_scanned"`
	RecordsSeen     int       `json:"records_seen"`
	Created         int       `json:"created"`
	Matched         int       `json:"matched"`
}

// Reconciler synchronizes local reservation records with the external
// system's view. It only observes: new external reservations become local
// pending records, mismatches become anomalies, and confirmation is never
// triggered from here.
type Reconciler struct {
	db       *db.DB
	gateway  gateway.Client
	logger   *slog.Logger
	metrics  *metrics.Metrics
	accounts []config.GatewayAccount
	ttl      time.Duration
}

// NewReconciler creates a new Reconciler over the tracked account/currency pairs
func NewReconciler(
	database *db.DB,
	gw gateway.Client,
	accounts []config.GatewayAccount,
	reservationTTL time.Duration,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Reconciler {
	return &Reconciler{
		db:       database,
		gateway:  gw,
		logger:   logger,
		metrics:  m,
		accounts: accounts,
		ttl:      reservationTTL,
	}
}

// Run executes one reconciliation pass across all tracked accounts. A
// listing failure on one account does not stop the others; the joined error
// is returned alongside the partial report.
func (r *Reconciler) Run(ctx context.Context) (*Report, error) {
	report := &Report{StartedAt: time.Now().UTC()}
	repo := repository.NewReservationRepository(r.db)

	var errs []error
	for _, account := range r.accounts {
		records, err := r.gateway.ListReservations(ctx, account.ExternalAccountID, account.Currency)
		if err != nil {
			r.logger.Error("failed to list external reservations",
				"external_account_id", account.ExternalAccountID,
				"currency", string(account.Currency),
				"error", err,
			)
			errs = append(errs, fmt.Errorf("account %s: %w", account.ExternalAccountID, err))
			continue
		}

		report.AccountsScanned++
		for _, record := range records {
			report.RecordsSeen++
			r.reconcileRecord(ctx, repo, account, record, report)
		}
	}

	report.FinishedAt = time.Now().UTC()
	r.metrics.RecordAnomalies(len(report.Anomalies))

	if len(errs) > 0 {
		r.metrics.RecordReconcilerRun("error")
		return report, errors.Join(errs...)
	}

	r.metrics.RecordReconcilerRun("ok")
	r.logger.Info("reconciliation pass finished",
		"accounts", report.AccountsScanned,
		"records", report.RecordsSeen,
		"created", report.Created,
		"matched", report.Matched,
		"anomalies", len(report.Anomalies),
	)

	return report, nil
}

// reconcileRecord matches one external record against the local store
func (r *Reconciler) reconcileRecord(
	ctx context.Context,
	repo repository.ReservationRepository,
	account config.GatewayAccount,
	record gateway.ReservationRecord,
	report *Report,
) {
	if record.Currency != account.Currency {
		report.Anomalies = append(report.Anomalies, anomalyFor(record, AnomalyCurrencyMismatch,
			fmt.Sprintf("external record currency %s does not match tracked account currency %s",
				record.Currency, account.Currency)))
		return
	}

	if record.ReservationCode == "" {
		r.reconcileUncoded(ctx, repo, record, report)
		return
	}

	local, err := repo.FindByCode(ctx, record.ReservationCode)
	if errors.Is(err, models.ErrNotFound) {
		r.createFromExternal(ctx, repo, account, record, report)
		return
	}
	if err != nil {
		r.logger.Error("failed to look up local reservation",
			"reservation_code", record.ReservationCode,
			"error", err,
		)
		return
	}

	// Terminal local records are left untouched regardless of what the
	// external side still reports.
	if local.Status.Terminal() {
		report.Matched++
		return
	}

	if !local.Amount.Equal(record.Amount) {
		report.Anomalies = append(report.Anomalies, anomalyFor(record, AnomalyAmountMismatch,
			fmt.Sprintf("local amount %s differs from external amount %s",
				local.Amount.String(), record.Amount.String())))
		return
	}

	report.Matched++
}

// reconcileUncoded handles external records arriving without a reservation
// code: matched by account, amount and currency, or flagged
func (r *Reconciler) reconcileUncoded(
	ctx context.Context,
	repo repository.ReservationRepository,
	record gateway.ReservationRecord,
	report *Report,
) {
	_, err := repo.FindPendingByExternalMatch(ctx, record.ExternalAccountID, record.Amount, record.Currency)
	if err == nil {
		report.Matched++
		return
	}
	if !errors.Is(err, models.ErrNotFound) {
		r.logger.Error("failed fallback reservation match",
			"external_account_id", record.ExternalAccountID,
			"error", err,
		)
		return
	}

	// Without a code there is nothing to key a new local record on.
	report.Anomalies = append(report.Anomalies, anomalyFor(record, AnomalyUnmatchableRecord,
		"external record has no reservation code and matches no local pending reservation"))
}

// createFromExternal records a newly observed external reservation as a
// local pending record
func (r *Reconciler) createFromExternal(
	ctx context.Context,
	repo repository.ReservationRepository,
	account config.GatewayAccount,
	record gateway.ReservationRecord,
	report *Report,
) {
	if record.Amount.Sign() <= 0 {
		report.Anomalies = append(report.Anomalies, anomalyFor(record, AnomalyUnmatchableRecord,
			fmt.Sprintf("external record has non-positive amount %s", record.Amount.String())))
		return
	}

	now := time.Now().UTC()
	reservation := &models.Reservation{
		ReservationCode:   record.ReservationCode,
		AccountRef:        account.AccountRef,
		ExternalAccountID: record.ExternalAccountID,
		Amount:            record.Amount,
		Currency:          record.Currency,
		Status:            models.ReservationStatusPending,
		Source: models.CounterpartyInfo{
			Name: record.AccountName,
		},
		Metadata: map[string]any{
			"origin": "reconciler",
		},
		CreatedAt: now,
		ExpiresAt: now.Add(r.ttl),
	}

	if err := repo.Create(ctx, reservation); err != nil {
		if errors.Is(err, models.ErrDuplicateReservation) {
			// Another pass or an inbound notice created it between our
			// lookup and insert.
			report.Matched++
			return
		}
		r.logger.Error("failed to create reservation from external record",
			"reservation_code", record.ReservationCode,
			"error", err,
		)
		return
	}

	r.logger.Info("reservation created from external record",
		"reservation_code", record.ReservationCode,
		"amount", record.Amount.String(),
		"currency", string(record.Currency),
	)
	report.Created++
}

func anomalyFor(record gateway.ReservationRecord, reason AnomalyReason, detail string) Anomaly {
	return Anomaly{
		Reason:            reason,
		ReservationCode:   record.ReservationCode,
		ExternalAccountID: record.ExternalAccountID,
		Currency:          record.Currency,
		Amount:            record.Amount,
		Detail:            detail,
	}
}
