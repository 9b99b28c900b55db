package ptysession

import "fmt"

// EncodeFrame lays out a binary output frame per spec.md §6:
//
//	offset 0:        1 octet, unsigned = L (length of the session id)
//	offset 1..1+L:   L octets, the session id (ASCII/UTF-8)
//	offset 1+L..end: payload bytes
//
// The frame carries no length field of its own; the enclosing transport
// frame (e.g. one websocket binary message) provides that.
func EncodeFrame(sessionID string, payload []byte) ([]byte, error) {
	if len(sessionID) == 0 || len(sessionID) > maxSessionIDLen {
		return nil, fmt.Errorf("ptysession: session id length %d out of range", len(sessionID))
	}
	out := make([]byte, 1+len(sessionID)+len(payload))
	out[0] = byte(len(sessionID))
	copy(out[1:], sessionID)
	copy(out[1+len(sessionID):], payload)
	return out, nil
}

// DecodeFrame reverses EncodeFrame. Used symmetrically for inbound raw
// writes per SPEC_FULL §6's transport-binding supplement.
func DecodeFrame(frame []byte) (sessionID string, payload []byte, err error) {
	if len(frame) < 1 {
		return "", nil, fmt.Errorf("ptysession: empty frame")
	}
	l := int(frame[0])
	if len(frame) < 1+l {
		return "", nil, fmt.Errorf("ptysession: frame too short for header length %d", l)
	}
	return string(frame[1 : 1+l]), frame[1+l:], nil
}
