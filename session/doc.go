// Package session holds the ordered conversation transcript rendered to the
// user interface.
//
// Model:
//   - Append-only during a turn; Reset is the only truncation.
//   - In-memory only; the transcript does not outlive the process.
//   - The dispatch core appends, the UI renders; no other coupling.
package session
