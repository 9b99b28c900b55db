// Package ptysession implements a multiplexed PTY session manager: it
// spawns shells under pseudo-terminals, batches their output into framed
// binary blobs tagged by session id, and dispatches init/resize/destroy
// control messages against a concurrent session table.
package ptysession
