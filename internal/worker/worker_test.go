package worker

import (
	"context"
	"testing"
	"time"

	"masareef/internal/amqp"
	"masareef/internal/core"
	exportmemory "masareef/internal/export/memory"
	"masareef/internal/store/memory"
)

func seedExpense(t *testing.T, st *memory.Store) core.Expense {
	t.Helper()
	e := core.Expense{
		ID:            "e1",
		OwnerID:       "u1",
		Amount:        core.Money{Cents: 1250},
		Category:      "مواصلات",
		Description:   "taxi",
		Date:          "2026-09-01",
		Time:          "08:30",
		PaymentMethod: core.Cash,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	if err := st.CreateExpense(context.Background(), e); err != nil {
		t.Fatalf("seed expense: %v", err)
	}
	return e
}

func TestHandleChangeExportsCurrentExpense(t *testing.T) {
	st := memory.NewStore()
	journal := exportmemory.New()
	w := NewExportWorker(st, st, journal, nil)

	e := seedExpense(t, st)
	msg := amqp.NewChangeMessage(amqp.EntityExpense, amqp.ActionCreated, e.ID, e.OwnerID)
	if err := w.HandleChange(context.Background(), msg); err != nil {
		t.Fatalf("HandleChange: %v", err)
	}

	rows := journal.Rows()
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	row := rows[0]
	if row.Action != amqp.ActionCreated || row.Entity != amqp.EntityExpense || row.RecordID != "e1" {
		t.Fatalf("identifiers wrong: %+v", row)
	}
	if row.Date != "2026-09-01" || row.Time != "08:30" || row.Category != "مواصلات" {
		t.Fatalf("expense fields wrong: %+v", row)
	}
	if row.Amount != 12.50 {
		t.Fatalf("amount: %v", row.Amount)
	}
}

func TestHandleChangeExportsSalaryMonth(t *testing.T) {
	st := memory.NewStore()
	journal := exportmemory.New()
	w := NewExportWorker(st, st, journal, nil)

	sal := core.Salary{
		ID:      "s1",
		OwnerID: "u1",
		Amount:  core.Money{Cents: 500000},
		Month:   "2026-09",
		Notes:   "base",
	}
	if err := st.CreateSalary(context.Background(), sal); err != nil {
		t.Fatalf("seed salary: %v", err)
	}

	msg := amqp.NewChangeMessage(amqp.EntitySalary, amqp.ActionCreated, sal.ID, sal.OwnerID)
	if err := w.HandleChange(context.Background(), msg); err != nil {
		t.Fatalf("HandleChange: %v", err)
	}

	rows := journal.Rows()
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Date != "2026-09" || rows[0].Description != "base" || rows[0].Amount != 5000 {
		t.Fatalf("salary fields wrong: %+v", rows[0])
	}
}

func TestHandleChangeDeletionNeedsNoLookup(t *testing.T) {
	st := memory.NewStore()
	journal := exportmemory.New()
	w := NewExportWorker(st, st, journal, nil)

	// no row in the store; identifiers alone make up the journal entry
	msg := amqp.NewChangeMessage(amqp.EntityExpense, amqp.ActionDeleted, "gone", "u1")
	if err := w.HandleChange(context.Background(), msg); err != nil {
		t.Fatalf("HandleChange: %v", err)
	}

	rows := journal.Rows()
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Action != amqp.ActionDeleted || rows[0].RecordID != "gone" || rows[0].Amount != 0 {
		t.Fatalf("deletion row wrong: %+v", rows[0])
	}
}

func TestHandleChangeSkipsVanishedRecord(t *testing.T) {
	st := memory.NewStore()
	journal := exportmemory.New()
	w := NewExportWorker(st, st, journal, nil)

	msg := amqp.NewChangeMessage(amqp.EntityExpense, amqp.ActionUpdated, "vanished", "u1")
	if err := w.HandleChange(context.Background(), msg); err != nil {
		t.Fatalf("skip should ack, not error: %v", err)
	}
	if rows := journal.Rows(); len(rows) != 0 {
		t.Fatalf("vanished record produced %d rows", len(rows))
	}
}

func TestHandleChangeUnknownEntity(t *testing.T) {
	st := memory.NewStore()
	w := NewExportWorker(st, st, exportmemory.New(), nil)

	msg := amqp.NewChangeMessage("budget", amqp.ActionCreated, "b1", "u1")
	if err := w.HandleChange(context.Background(), msg); err == nil {
		t.Fatal("expected error for unknown entity")
	}
}
