package hash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestID_Deterministic(t *testing.T) {
	const sid = "FDSN:IU_COLA_00_B_H_Z"

	require.Equal(t, ID(sid), ID(sid))
	require.NotZero(t, ID(sid))
}

func TestID_DistinctIdentifiers(t *testing.T) {
	sids := []string{
		"FDSN:IU_COLA_00_B_H_Z",
		"FDSN:IU_COLA_00_B_H_N",
		"FDSN:IU_COLA_00_B_H_E",
		"FDSN:XX_TEST__L_H_Z",
		"",
	}

	seen := make(map[uint64]string, len(sids))
	for _, sid := range sids {
		key := ID(sid)
		prev, dup := seen[key]
		require.False(t, dup, "hash collision between %q and %q", prev, sid)
		seen[key] = sid
	}
}

func BenchmarkID(b *testing.B) {
	for b.Loop() {
		ID("FDSN:IU_COLA_00_B_H_Z")
	}
}
