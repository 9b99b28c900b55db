package ptysession

import "github.com/google/uuid"

// maxSessionIDLen is the ceiling imposed by the one-octet length header of
// the binary data frame (§6 of the spec).
const maxSessionIDLen = 255

// newSessionID mints a UUID v4 textual identifier (36 bytes, well under the
// 255-byte frame-header ceiling).
func newSessionID() string {
	return uuid.NewString()
}
