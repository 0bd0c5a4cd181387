// Package worker contains the export worker: it consumes record-change
// messages and appends one journal row per change to the external ledger.
package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"masareef/internal/amqp"
	"masareef/internal/core"
	"masareef/internal/export"
	"masareef/internal/log"
	"masareef/internal/store"
)

// handleTimeout bounds processing of a single change message.
const handleTimeout = 30 * time.Second

// ExportWorker turns change messages into journal rows. It always fetches
// the current row from the record store so a delayed message never exports
// stale data.
type ExportWorker struct {
	expenses store.ExpenseStore
	salaries store.SalaryStore
	journal  export.RowAppender
	logger   *log.Logger
}

func NewExportWorker(expenses store.ExpenseStore, salaries store.SalaryStore, journal export.RowAppender, logger *log.Logger) *ExportWorker {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &ExportWorker{
		expenses: expenses,
		salaries: salaries,
		journal:  journal,
		logger:   logger.WithComponent(log.ComponentWorker),
	}
}

// HandleChange processes one change message. A missing record is not an
// error: the row was deleted after the message was published, and the
// deletion carries its own message.
func (w *ExportWorker) HandleChange(ctx context.Context, msg *amqp.ChangeMessage) error {
	ctx, cancel := context.WithTimeout(ctx, handleTimeout)
	defer cancel()

	row, ok, err := w.buildRow(ctx, msg)
	if err != nil {
		return err
	}
	if !ok {
		w.logger.InfoContext(ctx, "Record gone before export, skipping",
			log.FieldEntity, msg.Entity, log.FieldAction, msg.Action, log.FieldRecordID, msg.ID)
		return nil
	}

	ref, err := w.journal.AppendRow(ctx, row)
	if err != nil {
		return fmt.Errorf("append journal row: %w", err)
	}

	w.logger.InfoContext(ctx, "Exported change to journal",
		log.FieldEntity, msg.Entity,
		log.FieldAction, msg.Action,
		log.FieldRecordID, msg.ID,
		log.FieldRowRef, ref)
	return nil
}

func (w *ExportWorker) buildRow(ctx context.Context, msg *amqp.ChangeMessage) (export.Row, bool, error) {
	row := export.Row{
		Action:    msg.Action,
		Entity:    msg.Entity,
		RecordID:  msg.ID,
		OwnerID:   msg.OwnerID,
		Timestamp: msg.Timestamp.UTC().Format(time.RFC3339),
	}

	// Deletions have no row left to fetch; the identifiers are the record.
	if msg.Action == amqp.ActionDeleted {
		return row, true, nil
	}

	switch msg.Entity {
	case amqp.EntityExpense:
		e, err := w.expenses.GetExpense(ctx, msg.OwnerID, msg.ID)
		if errors.Is(err, core.ErrNotFound) {
			return export.Row{}, false, nil
		}
		if err != nil {
			return export.Row{}, false, fmt.Errorf("get expense %s: %w", msg.ID, err)
		}
		row.Date = string(e.Date)
		row.Time = string(e.Time)
		row.Category = e.Category
		row.Description = e.Description
		row.Amount = e.Amount.Units()
		return row, true, nil

	case amqp.EntitySalary:
		s, err := w.salaries.GetSalary(ctx, msg.OwnerID, msg.ID)
		if errors.Is(err, core.ErrNotFound) {
			return export.Row{}, false, nil
		}
		if err != nil {
			return export.Row{}, false, fmt.Errorf("get salary %s: %w", msg.ID, err)
		}
		row.Date = string(s.Month)
		row.Description = s.Notes
		row.Amount = s.Amount.Units()
		return row, true, nil

	default:
		return export.Row{}, false, fmt.Errorf("unknown entity: %s", msg.Entity)
	}
}
