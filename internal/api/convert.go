package api

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/forbin-capital/forbin-go/internal/model"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// naiveLayouts are tried, in order, for timestamps carrying no zone information.
// Fractional seconds are accepted by time.Parse without being named in the layout.
var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	DateLayout,
}

// offsetLayouts cover numeric offsets that RFC 3339 rejects, such as +0530 or a
// space separator.
var offsetLayouts = []string{
	"2006-01-02T15:04:05.999999999-0700",
	"2006-01-02T15:04:05-0700",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05-07:00",
	"2006-01-02 15:04:05.999999999-0700",
	"2006-01-02 15:04:05-0700",
}

// ParseTimestamp parses an ISO 8601 timestamp into a UTC instant.
// A trailing "Z" is stripped and the remainder read as UTC; numeric offsets are
// honored and converted to UTC; zone-less input is taken as UTC.
// Returns nil for empty input.
func ParseTimestamp(iso string) (*time.Time, error) {
	s := strings.TrimSpace(iso)
	if s == "" {
		return nil, nil
	}

	if strings.HasSuffix(s, "Z") || strings.HasSuffix(s, "z") {
		s = s[:len(s)-1]
	} else {
		for _, layout := range append([]string{time.RFC3339Nano}, offsetLayouts...) {
			if t, err := time.Parse(layout, s); err == nil {
				t = t.UTC()
				return &t, nil
			}
		}
	}

	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return &t, nil
		}
	}

	return nil, fmt.Errorf("parse timestamp %q: unrecognized format", iso)
}

// FormatTimestamp renders a UTC RFC 3339 timestamp. Returns "" for nil.
func FormatTimestamp(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func formatTimestampPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := FormatTimestamp(t)
	return &s
}

func parseTimestampPtr(field string, s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := ParseTimestamp(*s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	return t, nil
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(DateLayout)
	return &s
}

// ToTable converts records-oriented rows to a model.Table, keeping row order.
func (r Rows) ToTable() model.Table {
	if r == nil {
		return nil
	}
	t := make(model.Table, len(r))
	for i, row := range r {
		t[i] = model.Row(row)
	}
	return t
}

// RowsFromTable converts a model.Table to records orientation.
// A nil table becomes an empty, non-nil slice so it encodes as [].
func RowsFromTable(t model.Table) Rows {
	rows := make(Rows, len(t))
	for i, row := range t {
		if row == nil {
			row = model.Row{}
		}
		rows[i] = map[string]any(row)
	}
	return rows
}

func decimalPtr(d Decimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}

func fromDecimalPtr(d *decimal.Decimal) Decimal {
	if d == nil {
		return Decimal{}
	}
	return Decimal{decimal.NullDecimal{Decimal: *d, Valid: true}}
}

// ToModel converts an APIChallenge to model.Challenge.
func (a *APIChallenge) ToModel() (model.Challenge, error) {
	createdAt, err := ParseTimestamp(a.CreatedAt)
	if err != nil {
		return model.Challenge{}, fmt.Errorf("created_at: %w", err)
	}
	start, err := parseTimestampPtr("submission_start", a.SubmissionStart)
	if err != nil {
		return model.Challenge{}, err
	}
	end, err := parseTimestampPtr("submission_end", a.SubmissionEnd)
	if err != nil {
		return model.Challenge{}, err
	}

	return model.Challenge{
		ID:              model.ID(a.ID),
		CreatedAt:       createdAt,
		Finished:        a.Finished,
		Prize:           decimalPtr(a.Prize),
		SubmissionStart: start,
		SubmissionEnd:   end,
		XLive:           a.XLive.ToTable(),
		XTest:           a.XTest.ToTable(),
		XTrain:          a.XTrain.ToTable(),
		YTrain:          a.YTrain.ToTable(),
	}, nil
}

// ChallengeFromModel converts a model.Challenge to its wire form.
func ChallengeFromModel(c *model.Challenge) APIChallenge {
	return APIChallenge{
		ID:              RecordID(c.ID),
		CreatedAt:       FormatTimestamp(c.CreatedAt),
		Finished:        c.Finished,
		Prize:           fromDecimalPtr(c.Prize),
		SubmissionStart: formatTimestampPtr(c.SubmissionStart),
		SubmissionEnd:   formatTimestampPtr(c.SubmissionEnd),
		XLive:           RowsFromTable(c.XLive),
		XTest:           RowsFromTable(c.XTest),
		XTrain:          RowsFromTable(c.XTrain),
		YTrain:          RowsFromTable(c.YTrain),
	}
}

// ToModel converts an APIGroundTruth to model.GroundTruth.
func (a *APIGroundTruth) ToModel() (model.GroundTruth, error) {
	createdAt, err := ParseTimestamp(a.CreatedAt)
	if err != nil {
		return model.GroundTruth{}, fmt.Errorf("created_at: %w", err)
	}

	return model.GroundTruth{
		ID:          model.ID(a.ID),
		CreatedAt:   createdAt,
		ChallengeID: model.ID(a.ChallengeID),
		YLive:       a.YLive.ToTable(),
		YTest:       a.YTest.ToTable(),
	}, nil
}

// GroundTruthFromModel converts a model.GroundTruth to its wire form.
func GroundTruthFromModel(g *model.GroundTruth) APIGroundTruth {
	return APIGroundTruth{
		ID:          RecordID(g.ID),
		CreatedAt:   FormatTimestamp(g.CreatedAt),
		ChallengeID: RecordID(g.ChallengeID),
		YLive:       RowsFromTable(g.YLive),
		YTest:       RowsFromTable(g.YTest),
	}
}

// ToModel converts an APISubmission to model.Submission.
func (a *APISubmission) ToModel() (model.Submission, error) {
	createdAt, err := ParseTimestamp(a.CreatedAt)
	if err != nil {
		return model.Submission{}, fmt.Errorf("created_at: %w", err)
	}

	return model.Submission{
		ID:          model.ID(a.ID),
		CreatedAt:   createdAt,
		ChallengeID: model.ID(a.ChallengeID),
		UserID:      model.ID(a.UserID),
		Confidence:  decimalPtr(a.Confidence),
		Consistency: decimalPtr(a.Consistency),
		Logloss:     decimalPtr(a.Logloss),
		Originality: decimalPtr(a.Originality),
		Reward:      decimalPtr(a.Reward),
		Stake:       decimalPtr(a.Stake),
		YLive:       a.YLive.ToTable(),
		YTest:       a.YTest.ToTable(),
	}, nil
}

// SubmissionFromModel converts a model.Submission to its wire form.
func SubmissionFromModel(s *model.Submission) APISubmission {
	return APISubmission{
		ID:          RecordID(s.ID),
		CreatedAt:   FormatTimestamp(s.CreatedAt),
		ChallengeID: RecordID(s.ChallengeID),
		UserID:      RecordID(s.UserID),
		Confidence:  fromDecimalPtr(s.Confidence),
		Consistency: fromDecimalPtr(s.Consistency),
		Logloss:     fromDecimalPtr(s.Logloss),
		Originality: fromDecimalPtr(s.Originality),
		Reward:      fromDecimalPtr(s.Reward),
		Stake:       fromDecimalPtr(s.Stake),
		YLive:       RowsFromTable(s.YLive),
		YTest:       RowsFromTable(s.YTest),
	}
}

// ToModel converts an APITransaction to model.Transaction.
func (a *APITransaction) ToModel() (model.Transaction, error) {
	createdAt, err := ParseTimestamp(a.CreatedAt)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("created_at: %w", err)
	}

	t := model.Transaction{
		ID:          model.ID(a.ID),
		CreatedAt:   createdAt,
		ChallengeID: model.ID(a.ChallengeID),
		UserID:      model.ID(a.UserID),
		Amount:      decimalPtr(a.Amount),
		Category:    a.Category,
	}
	return t, nil
}

// TransactionFromModel converts a model.Transaction to its wire form.
func TransactionFromModel(t *model.Transaction) APITransaction {
	return APITransaction{
		ID:          RecordID(t.ID),
		CreatedAt:   FormatTimestamp(t.CreatedAt),
		ChallengeID: RecordID(t.ChallengeID),
		UserID:      RecordID(t.UserID),
		Amount:      fromDecimalPtr(t.Amount),
		Category:    t.Category,
	}
}

// ToModel converts an APIDataset to model.Dataset.
func (a *APIDataset) ToModel() (model.Dataset, error) {
	createdAt, err := ParseTimestamp(a.CreatedAt)
	if err != nil {
		return model.Dataset{}, fmt.Errorf("created_at: %w", err)
	}
	date, err := parseTimestampPtr("date", a.Date)
	if err != nil {
		return model.Dataset{}, err
	}

	return model.Dataset{
		ID:        model.ID(a.ID),
		CreatedAt: createdAt,
		Date:      date,
		X:         a.X.ToTable(),
		Y:         a.Y.ToTable(),
	}, nil
}

// DatasetFromModel converts a model.Dataset to its wire form.
func DatasetFromModel(d *model.Dataset) APIDataset {
	return APIDataset{
		ID:        RecordID(d.ID),
		CreatedAt: FormatTimestamp(d.CreatedAt),
		Date:      formatDatePtr(d.Date),
		X:         RowsFromTable(d.X),
		Y:         RowsFromTable(d.Y),
	}
}

// checkResource rejects nil interfaces and typed nil pointers.
func checkResource(r model.Resource) error {
	var isNil bool
	switch v := r.(type) {
	case nil:
		isNil = true
	case *model.Challenge:
		isNil = v == nil
	case *model.GroundTruth:
		isNil = v == nil
	case *model.Submission:
		isNil = v == nil
	case *model.Transaction:
		isNil = v == nil
	case *model.Dataset:
		isNil = v == nil
	}
	if isNil {
		return fmt.Errorf("%w: nil %T", ErrNilResource, r)
	}
	return nil
}

// encodeResource returns the wire form of a resource.
func encodeResource(r model.Resource) (any, error) {
	if err := checkResource(r); err != nil {
		return nil, err
	}
	switch v := r.(type) {
	case *model.Challenge:
		return ChallengeFromModel(v), nil
	case *model.GroundTruth:
		return GroundTruthFromModel(v), nil
	case *model.Submission:
		return SubmissionFromModel(v), nil
	case *model.Transaction:
		return TransactionFromModel(v), nil
	case *model.Dataset:
		return DatasetFromModel(v), nil
	default:
		return nil, fmt.Errorf("unsupported resource type %T", r)
	}
}

// MarshalResource serializes a resource to the JSON body used for create and update.
func MarshalResource(r model.Resource) ([]byte, error) {
	payload, err := encodeResource(r)
	if err != nil {
		return nil, err
	}
	return json.Marshal(payload)
}
