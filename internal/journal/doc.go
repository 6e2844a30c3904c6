// Package journal provides SQLite-backed durable storage for investigations.
//
// The journal is an append-only log with:
//   - Cases: the seed, lead settings and budget a case was opened with
//   - Actions: every investigation request, its outcome and the truth
//     fingerprint after it ran
//   - Truth Events: the events the investigation appended to the truth graph
//
// # Identity and Time
//
// All ordering uses seq INTEGER (the truth graph's logical clock, or the
// action index), never wall time. Action ids are content-addressed via
// ir.ActionID, so writing the same action twice is a no-op.
//
// All queries order by seq ASC, id ASC COLLATE BINARY so that reads are
// identical across replays.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL
//   - busy_timeout=5000
//   - foreign_keys=ON
//
// A case is replayed by regenerating its truth from the seed and re-running
// the journaled actions; the replay must reproduce every recorded
// fingerprint.
package journal
