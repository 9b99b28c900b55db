package ptysession

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeFrame_RoundTrip(t *testing.T) {
	sessionID := newSessionID()
	payload := []byte("hello\r\n")

	frame, err := EncodeFrame(sessionID, payload)
	require.NoError(t, err)

	gotID, gotPayload, err := DecodeFrame(frame)
	require.NoError(t, err)
	require.Equal(t, sessionID, gotID)
	require.Equal(t, payload, gotPayload)
}

func TestEncodeFrame_HeaderLayout(t *testing.T) {
	sessionID := "abc"
	frame, err := EncodeFrame(sessionID, []byte("xy"))
	require.NoError(t, err)

	require.Equal(t, byte(3), frame[0])
	require.Equal(t, "abc", string(frame[1:4]))
	require.Equal(t, "xy", string(frame[4:]))
}

func TestEncodeFrame_UUIDFitsOneOctet(t *testing.T) {
	sessionID := newSessionID()
	require.Len(t, sessionID, 36)
	require.LessOrEqual(t, len(sessionID), maxSessionIDLen)
}

func TestEncodeFrame_RejectsOversizedID(t *testing.T) {
	oversized := strings.Repeat("a", maxSessionIDLen+1)
	_, err := EncodeFrame(oversized, nil)
	require.Error(t, err)
}

func TestEncodeFrame_RejectsEmptyID(t *testing.T) {
	_, err := EncodeFrame("", []byte("x"))
	require.Error(t, err)
}

func TestDecodeFrame_TooShort(t *testing.T) {
	_, _, err := DecodeFrame([]byte{5, 'a', 'b'})
	require.Error(t, err)
}

func TestDecodeFrame_Empty(t *testing.T) {
	_, _, err := DecodeFrame(nil)
	require.Error(t, err)
}

func TestEncodeFrame_LargePayload(t *testing.T) {
	payload := make([]byte, 8192)
	for i := range payload {
		payload[i] = byte(i)
	}
	frame, err := EncodeFrame("s", payload)
	require.NoError(t, err)

	_, gotPayload, err := DecodeFrame(frame)
	require.NoError(t, err)
	require.Len(t, gotPayload, 8192)
}
