// Package archive stores point-in-time snapshots of every Forbin collection.
//
// One archive run fetches challenges, ground truths, submissions, transactions and
// datasets concurrently, re-encodes each object in its API wire form and writes all
// of them to PostgreSQL under a single run id:
//
//	forbin_snapshots(run_id uuid, resource text, record_id text, taken_at timestamptz, body jsonb)
//
// Rows are keyed by (run_id, resource, record_id); re-running a run id overwrites its rows.
package archive
