package gateway

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/corebank/ftreserve/internal/models"
)

// The overview envelope is keyed by a versioned name such as
// "ReservationsOverview 0.9". The version fragment drifts between
// deployments, so the key is matched by prefix.
const overviewKeyPrefix = "ReservationsOverview"

// overviewBody mirrors the legacy payload. Details may be a single object or
// an array, and numeric fields arrive as numbers or quoted strings.
type overviewBody struct {
	Name            string          `json:"Name"`
	Country         string          `json:"Country"`
	NumberOfRecords wireNumber      `json:"NumberOfRecords"`
	Details         json.RawMessage `json:"Details"`
}

type overviewRecord struct {
	RecordNumber wireNumber `json:"RecordNumber"`
	Amount       wireNumber `json:"Amount"`
	Currency     string     `json:"Currency"`
	AccountName  string     `json:"AccountName"`
	ResCode      string     `json:"Res_code"`
}

// wireNumber accepts numeric fields the legacy endpoint sends either as
// JSON numbers or as quoted strings
type wireNumber string

func (n *wireNumber) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if len(trimmed) >= 2 && trimmed[0] == '"' && trimmed[len(trimmed)-1] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = wireNumber(strings.TrimSpace(s))
		return nil
	}
	if trimmed == "null" {
		*n = ""
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*n = wireNumber(num.String())
	return nil
}

func (n wireNumber) String() string { return string(n) }

type confirmationEnvelope struct {
	Confirmation confirmationBody `json:"Reservation_confirmation v0.9"`
}

type confirmationBody struct {
	Details confirmationDetails `json:"Details"`
}

type confirmationDetails struct {
	AuthToken     string `json:"authToken"`
	ResCode       string `json:"Res_code"`
	DateTime      string `json:"DateTime"`
	AccountNumber string `json:"AccountNumber"`
	Amount        string `json:"Amount"`
}

// parseOverview decodes a reservations overview body, repairing known JSON
// defects first. A missing or empty overview means zero reservations.
func parseOverview(body []byte, externalAccountID string, currency models.Currency) ([]ReservationRecord, error) {
	repaired := repairJSON(body)

	if len(strings.TrimSpace(string(repaired))) == 0 {
		return nil, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(repaired, &envelope); err != nil {
		return nil, fmt.Errorf("invalid overview envelope: %w", err)
	}

	var overview overviewBody
	found := false
	for key, raw := range envelope {
		if strings.HasPrefix(key, overviewKeyPrefix) {
			if err := json.Unmarshal(raw, &overview); err != nil {
				return nil, fmt.Errorf("invalid overview payload: %w", err)
			}
			found = true
			break
		}
	}
	if !found || len(overview.Details) == 0 || string(overview.Details) == "null" {
		return nil, nil
	}

	wireRecords, err := decodeDetails(overview.Details)
	if err != nil {
		return nil, err
	}

	records := make([]ReservationRecord, 0, len(wireRecords))
	for i, wire := range wireRecords {
		record, err := wire.toRecord(externalAccountID, currency)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		records = append(records, record)
	}

	return records, nil
}

// decodeDetails accepts both the single-object and array forms of Details
func decodeDetails(raw json.RawMessage) ([]overviewRecord, error) {
	var many []overviewRecord
	if err := json.Unmarshal(raw, &many); err == nil {
		return many, nil
	}

	var one overviewRecord
	if err := json.Unmarshal(raw, &one); err != nil {
		return nil, fmt.Errorf("details is neither object nor array: %w", err)
	}
	return []overviewRecord{one}, nil
}

func (w overviewRecord) toRecord(externalAccountID string, currency models.Currency) (ReservationRecord, error) {
	amount, err := parseWireDecimal(w.Amount)
	if err != nil {
		return ReservationRecord{}, fmt.Errorf("invalid amount %q: %w", w.Amount.String(), err)
	}

	recordNumber := 0
	if w.RecordNumber != "" {
		n, err := json.Number(w.RecordNumber).Int64()
		if err != nil {
			return ReservationRecord{}, fmt.Errorf("invalid record number %q: %w", w.RecordNumber.String(), err)
		}
		recordNumber = int(n)
	}

	recordCurrency := currency
	if w.Currency != "" {
		recordCurrency = models.Currency(strings.ToUpper(strings.TrimSpace(w.Currency)))
	}

	return ReservationRecord{
		ReservationCode:   strings.TrimSpace(w.ResCode),
		ExternalAccountID: externalAccountID,
		AccountName:       w.AccountName,
		Currency:          recordCurrency,
		Amount:            amount,
		RecordNumber:      recordNumber,
	}, nil
}

// parseWireDecimal tolerates amounts sent as numbers or quoted strings with
// stray whitespace
func parseWireDecimal(n wireNumber) (decimal.Decimal, error) {
	s := strings.TrimSpace(n.String())
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty value")
	}
	return decimal.NewFromString(s)
}
