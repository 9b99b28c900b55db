package ptysession

// sessionContext is the passive grouping described in spec.md §3/§4.4: a
// session's PTY handle, its writer (the same handle — writes are small and
// synchronous, per §3), and the Output Pump's completion handle. Exclusively
// owned by the session table; callers only ever see it through the table
// lock.
type sessionContext struct {
	handle *Handle
	pump   *pump
}
