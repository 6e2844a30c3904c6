package journal

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/noir/internal/cases"
	"github.com/roach88/noir/internal/catalog"
	"github.com/roach88/noir/internal/investigation"
	"github.com/roach88/noir/internal/presentation"
	"github.com/roach88/noir/internal/truth"
)

// Divergence describes the first point where a replay disagreed with the
// journal. Seq 0 is the generated truth before any action.
type Divergence struct {
	Seq      int64  `json:"seq"`
	Action   string `json:"action,omitempty"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
}

// ReplayResult is the outcome of replaying a journaled case.
type ReplayResult struct {
	CaseID      string      `json:"case_id"`
	Seed        int64       `json:"seed"`
	Actions     int         `json:"actions"`
	Events      int         `json:"events"`
	Fingerprint string      `json:"fingerprint"`
	Match       bool        `json:"match"`
	Divergence  *Divergence `json:"divergence,omitempty"`
}

// Replay regenerates a journaled case from its seed, re-runs its actions and
// checks that every recorded fingerprint and outcome is reproduced, and that
// the resulting truth events match the journaled ones.
func Replay(ctx context.Context, j *Journal, cat *catalog.Catalog, caseID string, logger *slog.Logger) (ReplayResult, error) {
	rec, err := j.ReadCase(ctx, caseID)
	if err != nil {
		return ReplayResult{}, err
	}
	actions, err := j.ReadActions(ctx, caseID)
	if err != nil {
		return ReplayResult{}, fmt.Errorf("replay %s: %w", caseID, err)
	}
	journaled, err := j.ReadEvents(ctx, caseID)
	if err != nil {
		return ReplayResult{}, fmt.Errorf("replay %s: %w", caseID, err)
	}

	res := ReplayResult{CaseID: caseID, Seed: rec.Seed, Actions: len(actions)}

	st, _, err := cases.Generate(cat, rec.Seed, caseID, truth.WithLogger(logger))
	if err != nil {
		return res, fmt.Errorf("replay %s: %w", caseID, err)
	}
	fp, err := st.Fingerprint()
	if err != nil {
		return res, fmt.Errorf("replay %s: %w", caseID, err)
	}
	res.Fingerprint = fp
	if fp != rec.Fingerprint {
		res.Divergence = &Divergence{Expected: rec.Fingerprint, Actual: fp}
		return res, nil
	}

	s, err := investigation.NewSession(st, presentation.NewProjector(cat, presentation.WithLogger(logger)), rec.DeadlineDelta,
		investigation.WithLimits(rec.Limits),
		investigation.WithState(rec.Start),
		investigation.WithLogger(logger))
	if err != nil {
		return res, fmt.Errorf("replay %s: %w", caseID, err)
	}

	for _, a := range actions {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		out, err := s.Do(a.Request)
		if err != nil {
			return res, fmt.Errorf("replay %s: action %d: %w", caseID, a.Seq, err)
		}
		if res.Fingerprint, err = st.Fingerprint(); err != nil {
			return res, fmt.Errorf("replay %s: %w", caseID, err)
		}
		if res.Fingerprint != a.Fingerprint || out.Outcome != a.Outcome {
			res.Divergence = &Divergence{
				Seq:      a.Seq,
				Action:   string(a.Request.Action),
				Expected: fmt.Sprintf("%s %s", a.Outcome, a.Fingerprint),
				Actual:   fmt.Sprintf("%s %s", out.Outcome, res.Fingerprint),
			}
			logger.Warn("replay diverged", "case", caseID, "seq", a.Seq, "action", a.Request.Action)
			return res, nil
		}
	}

	events := st.Events()
	res.Events = len(events)
	if len(events) != len(journaled) {
		res.Divergence = &Divergence{
			Seq:      int64(len(actions)),
			Expected: fmt.Sprintf("%d events", len(journaled)),
			Actual:   fmt.Sprintf("%d events", len(events)),
		}
		return res, nil
	}
	byID := make(map[string]bool, len(journaled))
	for _, ev := range journaled {
		byID[ev.ID.String()] = true
	}
	for _, ev := range events {
		if !byID[ev.ID.String()] {
			res.Divergence = &Divergence{
				Seq:      ev.Seq,
				Expected: "journaled event",
				Actual:   fmt.Sprintf("unjournaled %s event %s", ev.Kind, ev.ID),
			}
			return res, nil
		}
	}

	res.Match = true
	logger.Info("replay matched", "case", caseID, "actions", len(actions), "fingerprint", res.Fingerprint)
	return res, nil
}
