package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/roach88/noir/internal/domain"
	"github.com/roach88/noir/internal/investigation"
)

// ErrCaseNotFound is returned when a case id has no journal entry.
var ErrCaseNotFound = errors.New("case not found in journal")

// ReadCase returns the case record for caseID.
func (j *Journal) ReadCase(ctx context.Context, caseID string) (CaseRecord, error) {
	rec := CaseRecord{CaseID: caseID}
	err := j.db.QueryRowContext(ctx, `
		SELECT seed, deadline_delta, time_limit, pressure_limit, fingerprint,
		       start_time, start_pressure, start_trust, start_cooperation, start_spook
		FROM cases
		WHERE case_id = ?
	`, caseID).Scan(&rec.Seed, &rec.DeadlineDelta, &rec.Limits.Time, &rec.Limits.Pressure, &rec.Fingerprint,
		&rec.Start.Time, &rec.Start.Pressure, &rec.Start.Trust, &rec.Start.Cooperation, &rec.Start.Spook)
	if errors.Is(err, sql.ErrNoRows) {
		return CaseRecord{}, fmt.Errorf("read case %s: %w", caseID, ErrCaseNotFound)
	}
	if err != nil {
		return CaseRecord{}, fmt.Errorf("read case %s: %w", caseID, err)
	}
	return rec, nil
}

// ListCases returns every journaled case id in binary order.
func (j *Journal) ListCases(ctx context.Context) ([]string, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT case_id FROM cases ORDER BY case_id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list cases: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("list cases: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list cases: %w", err)
	}
	return ids, nil
}

// ReadActions returns the actions of a case in the order they were taken.
// Returns an empty slice (not nil) if none exist.
func (j *Journal) ReadActions(ctx context.Context, caseID string) ([]ActionRecord, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, seq, action, args, outcome, summary, fingerprint
		FROM actions
		WHERE case_id = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, caseID)
	if err != nil {
		return nil, fmt.Errorf("query actions: %w", err)
	}
	defer rows.Close()

	records := []ActionRecord{}
	for rows.Next() {
		rec := ActionRecord{CaseID: caseID}
		var action, args, outcome string
		if err := rows.Scan(&rec.ID, &rec.Seq, &action, &args, &outcome, &rec.Summary, &rec.Fingerprint); err != nil {
			return nil, fmt.Errorf("scan action: %w", err)
		}
		req, err := unmarshalRequest(action, args)
		if err != nil {
			return nil, fmt.Errorf("action %s: %w", rec.ID, err)
		}
		rec.Request = req
		rec.Outcome = investigation.ActionOutcome(outcome)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate actions: %w", err)
	}
	return records, nil
}

// ReadEvents returns the journaled truth events of a case in seq order.
// Returns an empty slice (not nil) if none exist.
func (j *Journal) ReadEvents(ctx context.Context, caseID string) ([]domain.Event, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, seq, kind, timestamp, location_id, participants, metadata, supersedes
		FROM truth_events
		WHERE case_id = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, caseID)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events := []domain.Event{}
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

func scanEvent(rows *sql.Rows) (domain.Event, error) {
	var (
		ev                                       domain.Event
		id, kind, loc, participants, meta, super string
	)
	if err := rows.Scan(&id, &ev.Seq, &kind, &ev.Timestamp, &loc, &participants, &meta, &super); err != nil {
		return ev, fmt.Errorf("scan event: %w", err)
	}
	var err error
	if ev.ID, err = uuid.Parse(id); err != nil {
		return ev, fmt.Errorf("event id: %w", err)
	}
	if ev.LocationID, err = uuid.Parse(loc); err != nil {
		return ev, fmt.Errorf("event %s location: %w", id, err)
	}
	if super != "" {
		if ev.Supersedes, err = uuid.Parse(super); err != nil {
			return ev, fmt.Errorf("event %s supersedes: %w", id, err)
		}
	}
	if ev.Participants, err = parseUUIDArray(participants); err != nil {
		return ev, fmt.Errorf("event %s participants: %w", id, err)
	}
	if ev.Metadata, err = parseStringMap(meta); err != nil {
		return ev, fmt.Errorf("event %s metadata: %w", id, err)
	}
	ev.Kind = domain.EventKind(kind)
	return ev, nil
}
