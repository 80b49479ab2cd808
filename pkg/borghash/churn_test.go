package borghash

import (
	"encoding/binary"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// Property 10: churn stability. A long mixed sequence of set/delete/get
// against a fixed key pool must leave the index in exactly the state a
// reference map would predict, matching pkg/slotcache's
// deterministic-seed / metamorphic churn-test style.
func TestChurnStabilityAgainstReferenceModel(t *testing.T) {
	const (
		poolSize  = 300
		ops       = 5000
		keySize   = 32
		valueSize = 12
	)

	for _, seed := range []uint64{1, 2, 42, 1337} {
		rng := rand.New(rand.NewPCG(seed, seed))

		ix, err := Init(1, keySize, valueSize)
		require.NoError(t, err)

		model := make(map[string][]byte)

		keyFor := func(i int) []byte {
			b := make([]byte, keySize)
			binary.LittleEndian.PutUint32(b, uint32(i))
			return b
		}

		for op := 0; op < ops; op++ {
			i := rng.IntN(poolSize)
			key := keyFor(i)

			switch rng.IntN(3) {
			case 0, 1: // set (weighted to grow the table)
				value := make([]byte, valueSize)
				binary.LittleEndian.PutUint32(value, uint32(op))
				require.NoError(t, ix.Set(key, value))
				model[string(key)] = value

			case 2: // delete
				require.NoError(t, ix.Delete(key))
				delete(model, string(key))
			}
		}

		require.Equal(t, len(model), ix.Len())

		for k, v := range model {
			got, ok := ix.Get([]byte(k))
			require.True(t, ok, "seed %d: expected key present", seed)
			if diff := cmp.Diff(v, got); diff != "" {
				t.Fatalf("seed %d: value mismatch (-want +got):\n%s", seed, diff)
			}
		}

		for i := 0; i < poolSize; i++ {
			key := keyFor(i)
			_, wantPresent := model[string(key)]
			_, gotPresent := ix.Get(key)
			require.Equal(t, wantPresent, gotPresent, "seed %d: key %d presence mismatch", seed, i)
		}

		// The final bucket count must be a Size Ladder value.
		require.Equal(t, fitSize(ix.NumBuckets()), ix.NumBuckets())
	}
}
