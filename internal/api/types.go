package api

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// TokenResponse from POST /token
type TokenResponse struct {
	Token string `json:"token"`
}

// Record is a raw decoded JSON object, as returned by create, update and delete.
// Numbers are kept as json.Number so large ids survive unchanged.
type Record map[string]any

func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return err
	}
	*r = m
	return nil
}

// RecordID is an id that the server may send either as a JSON string or a number.
// The empty RecordID encodes as null.
type RecordID string

func (id *RecordID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*id = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode id: %w", err)
		}
		*id = RecordID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decode id: %w", err)
	}
	*id = RecordID(n.String())
	return nil
}

func (id RecordID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(id))
}

// Decimal is a nullable number that the server may send either as a JSON number
// or as a numeric string ("10.00"). It always encodes as a bare JSON number, or
// null when invalid.
type Decimal struct {
	decimal.NullDecimal
}

func (d *Decimal) UnmarshalJSON(data []byte) error {
	if string(data) == `""` {
		d.NullDecimal = decimal.NullDecimal{}
		return nil
	}
	if err := d.NullDecimal.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("decode number: %w", err)
	}
	return nil
}

func (d Decimal) MarshalJSON() ([]byte, error) {
	if !d.Valid {
		return []byte("null"), nil
	}
	return []byte(d.Decimal.String()), nil
}

// Rows is a table in records orientation: one JSON object per row.
type Rows []map[string]any

// APIChallenge from GET /challenges/
type APIChallenge struct {
	ID        RecordID `json:"id"`
	CreatedAt string   `json:"created_at,omitempty"`
	Finished  *bool    `json:"finished"`
	Prize     Decimal  `json:"prize"`

	// Timestamps (ISO 8601)
	SubmissionStart *string `json:"submission_start"`
	SubmissionEnd   *string `json:"submission_end"`

	XLive  Rows `json:"x_live"`
	XTest  Rows `json:"x_test"`
	XTrain Rows `json:"x_train"`
	YTrain Rows `json:"y_train"`
}

// APIGroundTruth from GET /groundtruths/
type APIGroundTruth struct {
	ID          RecordID `json:"id"`
	CreatedAt   string   `json:"created_at,omitempty"`
	ChallengeID RecordID `json:"challenge_id"`

	YLive Rows `json:"y_live"`
	YTest Rows `json:"y_test"`
}

// APISubmission from GET /submissions/
type APISubmission struct {
	ID          RecordID `json:"id"`
	CreatedAt   string   `json:"created_at,omitempty"`
	ChallengeID RecordID `json:"challenge_id"`
	UserID      RecordID `json:"user_id"`

	// Scores
	Confidence  Decimal `json:"confidence"`
	Consistency Decimal `json:"consistency"`
	Logloss     Decimal `json:"logloss"`
	Originality Decimal `json:"originality"`
	Reward      Decimal `json:"reward"`
	Stake       Decimal `json:"stake"`

	YLive Rows `json:"y_live"`
	YTest Rows `json:"y_test"`
}

// APITransaction from GET /transactions/
type APITransaction struct {
	ID          RecordID `json:"id"`
	CreatedAt   string   `json:"created_at,omitempty"`
	ChallengeID RecordID `json:"challenge_id"`
	UserID      RecordID `json:"user_id"`
	Amount      Decimal  `json:"amount"`
	Category    *string  `json:"category"`
}

// APIDataset from GET /datasets/
type APIDataset struct {
	ID        RecordID `json:"id"`
	CreatedAt string   `json:"created_at,omitempty"`
	Date      *string  `json:"date"`

	X Rows `json:"x"`
	Y Rows `json:"y"`
}
