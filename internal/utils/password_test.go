package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)

	assert.True(t, CheckPasswordHash("hunter22", hash))
	assert.False(t, CheckPasswordHash("hunter23", hash))
}

func TestRandStringLength(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id := RandStringBytesMaskImpr(8)
		assert.Len(t, id, 8)
		seen[id] = true
	}
	// Collisions across 50 draws of a 62^8 space would point at a broken generator.
	assert.Len(t, seen, 50)
}
