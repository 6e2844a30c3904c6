package journal

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/roach88/noir/internal/domain"
	"github.com/roach88/noir/internal/investigation"
	"github.com/roach88/noir/internal/ir"
)

// CaseRecord is the journaled opening of a case.
type CaseRecord struct {
	CaseID        string
	Seed          int64
	DeadlineDelta int
	Limits        investigation.Limits
	// Start is the standing the session opened with.
	Start investigation.State
	// Fingerprint is the truth fingerprint right after generation.
	Fingerprint string
}

// ActionRecord is one journaled investigation action.
type ActionRecord struct {
	ID      string
	CaseID  string
	Seq     int64
	Request investigation.Request
	Outcome investigation.ActionOutcome
	Summary string
	// Fingerprint is the truth fingerprint after the action ran.
	Fingerprint string
}

// WriteCase inserts a case record.
// Uses ON CONFLICT(case_id) DO NOTHING: a case is opened once.
func (j *Journal) WriteCase(ctx context.Context, rec CaseRecord) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO cases
		(case_id, seed, deadline_delta, time_limit, pressure_limit, fingerprint,
		 start_time, start_pressure, start_trust, start_cooperation, start_spook)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(case_id) DO NOTHING
	`,
		rec.CaseID,
		rec.Seed,
		rec.DeadlineDelta,
		rec.Limits.Time,
		rec.Limits.Pressure,
		rec.Fingerprint,
		rec.Start.Time,
		rec.Start.Pressure,
		rec.Start.Trust,
		rec.Start.Cooperation,
		rec.Start.Spook,
	)
	if err != nil {
		return fmt.Errorf("write case: %w", err)
	}
	return nil
}

// WriteAction inserts an action record and returns its content-addressed id.
// Duplicate ids are silently ignored. The case must already be journaled.
func (j *Journal) WriteAction(ctx context.Context, rec ActionRecord) (string, error) {
	args := requestArgs(rec.Request)
	id, err := ir.ActionID(rec.CaseID, string(rec.Request.Action), args, rec.Seq)
	if err != nil {
		return "", fmt.Errorf("write action: %w", err)
	}
	argsJSON, err := marshalCanonical(args)
	if err != nil {
		return "", fmt.Errorf("write action: %w", err)
	}

	_, err = j.db.ExecContext(ctx, `
		INSERT INTO actions
		(id, case_id, seq, action, args, outcome, summary, fingerprint)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		id,
		rec.CaseID,
		rec.Seq,
		string(rec.Request.Action),
		argsJSON,
		string(rec.Outcome),
		rec.Summary,
		rec.Fingerprint,
	)
	if err != nil {
		return "", fmt.Errorf("write action: %w", err)
	}
	return id, nil
}

// WriteEvents inserts truth events in one transaction. Events already
// journaled are skipped, so callers may pass the full event list each time.
func (j *Journal) WriteEvents(ctx context.Context, caseID string, events []domain.Event) error {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write events: begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO truth_events
		(id, case_id, seq, kind, timestamp, location_id, participants, metadata, supersedes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("write events: prepare: %w", err)
	}
	defer stmt.Close()

	for _, ev := range events {
		participants, err := marshalCanonical(uuidArray(ev.Participants))
		if err != nil {
			return fmt.Errorf("write events: %w", err)
		}
		metadata, err := marshalCanonical(ir.StringMap(ev.Metadata))
		if err != nil {
			return fmt.Errorf("write events: %w", err)
		}
		supersedes := ""
		if ev.Supersedes != uuid.Nil {
			supersedes = ev.Supersedes.String()
		}
		if _, err := stmt.ExecContext(ctx,
			ev.ID.String(),
			caseID,
			ev.Seq,
			string(ev.Kind),
			ev.Timestamp,
			ev.LocationID.String(),
			participants,
			metadata,
			supersedes,
		); err != nil {
			return fmt.Errorf("write events: %s: %w", ev.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write events: commit: %w", err)
	}
	return nil
}
