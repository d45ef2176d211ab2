package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRoundUpPowerOfTwo(t *testing.T) {
	cases := map[uint64]uint64{
		1: 1, 2: 2, 3: 4, 4: 4, 5: 8, 7: 8, 8: 8, 9: 16,
		1023: 1024, 1024: 1024, 1025: 2048,
	}
	for n, want := range cases {
		assert.Equalf(t, want, roundUpPowerOfTwo(n), "n=%d", n)
	}
}

func TestExpired(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	assert.True(t, expired(now, now), "boundary instant counts as expired")
	assert.True(t, expired(now, now.Add(-time.Second)))
	assert.False(t, expired(now, now.Add(time.Second)))
}
