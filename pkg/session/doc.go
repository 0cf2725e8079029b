// Package session coordinates concurrent access to persisted traversal
// sessions. Each session's state is owned by one answer submission at a
// time; the manager's per-session locks (plus an optional distributed
// locker for multi-replica deployments) enforce that.
package session
