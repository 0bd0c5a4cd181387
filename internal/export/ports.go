// Package export defines the outbound ports for the journal export
// pipeline. The worker appends one row per record change to an external
// ledger; adapters live in subpackages.
package export

import "context"

// Row is a single journal line, already flattened for the ledger.
type Row struct {
	Action      string
	Entity      string
	RecordID    string
	OwnerID     string
	Date        string
	Time        string
	Category    string
	Description string
	Amount      float64
	Timestamp   string
}

type (
	RowAppender interface {
		// AppendRow writes one journal row and returns a reference to
		// where it landed.
		AppendRow(ctx context.Context, r Row) (rowRef string, err error)
	}
)
