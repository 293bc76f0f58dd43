package model

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Subroutes of the Forbin REST API.
const (
	ChallengesRoute   = "challenges"
	GroundTruthsRoute = "groundtruths"
	SubmissionsRoute  = "submissions"
	TransactionsRoute = "transactions"
	DatasetsRoute     = "datasets"
)

// ID identifies a server-side record.
type ID string

// IsZero reports whether the record has not been created yet.
func (id ID) IsZero() bool {
	return id == ""
}

func (id ID) String() string {
	return string(id)
}

// Resource is implemented by every object that can be saved or deleted.
type Resource interface {
	// Subroute returns the collection path segment, e.g. "challenges".
	Subroute() string
	// Identity returns the server-assigned ID, empty before creation.
	Identity() ID
	// SetIdentity records the ID assigned by the server.
	SetIdentity(id ID)
}

// -----------------------------------------------------------------------------
// Tabular Types
// -----------------------------------------------------------------------------

// Row maps a column name to a cell value.
type Row map[string]any

// Table is an ordered collection of rows with no enforced schema.
type Table []Row

// Len returns the number of rows.
func (t Table) Len() int {
	return len(t)
}

// Columns returns the union of column names across all rows, sorted.
func (t Table) Columns() []string {
	seen := make(map[string]struct{})
	for _, row := range t {
		for k := range row {
			seen[k] = struct{}{}
		}
	}

	cols := make([]string, 0, len(seen))
	for k := range seen {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

// Column returns the values of one column in row order.
// Rows without the column contribute nil.
func (t Table) Column(name string) []any {
	values := make([]any, len(t))
	for i, row := range t {
		values[i] = row[name]
	}
	return values
}

// TableFromColumns builds a table from column-oriented data.
// Shorter columns are padded with nil up to the longest column.
func TableFromColumns(columns map[string][]any) Table {
	n := 0
	for _, values := range columns {
		if len(values) > n {
			n = len(values)
		}
	}

	t := make(Table, n)
	for i := range t {
		row := make(Row, len(columns))
		for name, values := range columns {
			if i < len(values) {
				row[name] = values[i]
			} else {
				row[name] = nil
			}
		}
		t[i] = row
	}
	return t
}

// -----------------------------------------------------------------------------
// Resource Types
// -----------------------------------------------------------------------------

// Challenge is a forecasting round with its training and live data.
type Challenge struct {
	ID              ID
	CreatedAt       *time.Time
	Finished        *bool
	Prize           *decimal.Decimal
	SubmissionStart *time.Time
	SubmissionEnd   *time.Time

	XLive  Table
	XTest  Table
	XTrain Table
	YTrain Table
}

func (c *Challenge) Subroute() string  { return ChallengesRoute }
func (c *Challenge) Identity() ID      { return c.ID }
func (c *Challenge) SetIdentity(id ID) { c.ID = id }

func (c *Challenge) String() string {
	if c == nil {
		return "Challenge(nil)"
	}
	return describe("Challenge", c.ID, c.CreatedAt)
}

// GroundTruth holds the realized targets of a challenge.
type GroundTruth struct {
	ID          ID
	CreatedAt   *time.Time
	ChallengeID ID

	YLive Table
	YTest Table
}

func (g *GroundTruth) Subroute() string  { return GroundTruthsRoute }
func (g *GroundTruth) Identity() ID      { return g.ID }
func (g *GroundTruth) SetIdentity(id ID) { g.ID = id }

func (g *GroundTruth) String() string {
	if g == nil {
		return "GroundTruth(nil)"
	}
	return describe("GroundTruth", g.ID, g.CreatedAt)
}

// Submission is a user's predictions for a challenge together with its scores.
type Submission struct {
	ID          ID
	CreatedAt   *time.Time
	ChallengeID ID
	UserID      ID

	// Scoring, nil until computed by the server
	Confidence  *decimal.Decimal
	Consistency *decimal.Decimal
	Logloss     *decimal.Decimal
	Originality *decimal.Decimal
	Reward      *decimal.Decimal
	Stake       *decimal.Decimal

	YLive Table
	YTest Table
}

func (s *Submission) Subroute() string  { return SubmissionsRoute }
func (s *Submission) Identity() ID      { return s.ID }
func (s *Submission) SetIdentity(id ID) { s.ID = id }

func (s *Submission) String() string {
	if s == nil {
		return "Submission(nil)"
	}
	return describe("Submission", s.ID, s.CreatedAt)
}

// Transaction is a balance movement for a user, optionally tied to a challenge.
type Transaction struct {
	ID          ID
	CreatedAt   *time.Time
	ChallengeID ID
	UserID      ID
	Amount      *decimal.Decimal
	Category    *string // e.g. "bonus", "stake", "reward"
}

func (t *Transaction) Subroute() string  { return TransactionsRoute }
func (t *Transaction) Identity() ID      { return t.ID }
func (t *Transaction) SetIdentity(id ID) { t.ID = id }

func (t *Transaction) String() string {
	if t == nil {
		return "Transaction(nil)"
	}
	return describe("Transaction", t.ID, t.CreatedAt)
}

// Dataset is a dated feature/target pair.
type Dataset struct {
	ID        ID
	CreatedAt *time.Time
	Date      *time.Time

	X Table
	Y Table
}

func (d *Dataset) Subroute() string  { return DatasetsRoute }
func (d *Dataset) Identity() ID      { return d.ID }
func (d *Dataset) SetIdentity(id ID) { d.ID = id }

func (d *Dataset) String() string {
	if d == nil {
		return "Dataset(nil)"
	}
	return describe("Dataset", d.ID, d.CreatedAt)
}

// describe renders the identifying fields of a resource, e.g.
// Transaction{id: "5", created_at: 2023-01-01T00:00:00Z}.
func describe(kind string, id ID, createdAt *time.Time) string {
	created := "nil"
	if createdAt != nil {
		created = createdAt.UTC().Format(time.RFC3339Nano)
	}
	return fmt.Sprintf("%s{id: %q, created_at: %s}", kind, string(id), created)
}
