package buildinfo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSelfSHA256_StableAcrossCalls(t *testing.T) {
	first := SelfSHA256()
	second := SelfSHA256()
	require.Equal(t, first, second)
	require.NotEmpty(t, first)
}
