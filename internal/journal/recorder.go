package journal

import (
	"context"
	"fmt"

	"github.com/roach88/noir/internal/domain"
	"github.com/roach88/noir/internal/investigation"
)

// Recorder journals a session as it runs.
type Recorder struct {
	j       *Journal
	session *investigation.Session
	seq     int64
	lastSeq int64
}

// Begin journals the opening of a session and returns a Recorder for its
// actions. It must be called before the session takes any action.
func (j *Journal) Begin(ctx context.Context, s *investigation.Session) (*Recorder, error) {
	st := s.Truth()
	fp, err := st.Fingerprint()
	if err != nil {
		return nil, fmt.Errorf("begin %s: %w", st.CaseID(), err)
	}
	if err := j.WriteCase(ctx, CaseRecord{
		CaseID:        st.CaseID(),
		Seed:          st.Seed(),
		DeadlineDelta: s.DeadlineDelta(),
		Limits:        s.Limits(),
		Start:         s.State(),
		Fingerprint:   fp,
	}); err != nil {
		return nil, fmt.Errorf("begin %s: %w", st.CaseID(), err)
	}
	r := &Recorder{j: j, session: s}
	if err := r.flushEvents(ctx); err != nil {
		return nil, fmt.Errorf("begin %s: %w", st.CaseID(), err)
	}
	return r, nil
}

// Session returns the recorded session.
func (r *Recorder) Session() *investigation.Session { return r.session }

// Do runs req on the session and journals the action together with any
// truth events it appended. Requests that fail with an error are not
// journaled.
func (r *Recorder) Do(ctx context.Context, req investigation.Request) (investigation.ActionResult, error) {
	res, err := r.session.Do(req)
	if err != nil {
		return res, err
	}
	st := r.session.Truth()
	fp, err := st.Fingerprint()
	if err != nil {
		return res, fmt.Errorf("journal %s: %w", req.Action, err)
	}

	r.seq++
	if _, err := r.j.WriteAction(ctx, ActionRecord{
		CaseID:      st.CaseID(),
		Seq:         r.seq,
		Request:     req,
		Outcome:     res.Outcome,
		Summary:     res.Summary,
		Fingerprint: fp,
	}); err != nil {
		return res, err
	}
	if err := r.flushEvents(ctx); err != nil {
		return res, err
	}
	return res, nil
}

// flushEvents writes the events appended since the last flush.
func (r *Recorder) flushEvents(ctx context.Context) error {
	st := r.session.Truth()
	var fresh []domain.Event
	for _, ev := range st.Events() {
		if ev.Seq > r.lastSeq {
			fresh = append(fresh, ev)
		}
	}
	if len(fresh) == 0 {
		return nil
	}
	if err := r.j.WriteEvents(ctx, st.CaseID(), fresh); err != nil {
		return err
	}
	r.lastSeq = st.LastSeq()
	return nil
}
