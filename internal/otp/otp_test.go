package otp

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		code, err := Generate()
		require.NoError(t, err)
		require.Len(t, code, 6)
		for _, r := range code {
			require.True(t, r >= '0' && r <= '9', "code %q", code)
		}
		seen[code] = true
	}
	assert.Greater(t, len(seen), 150)
}

func TestKey(t *testing.T) {
	id := uuid.MustParse("7b0c5b1e-8a7e-4a43-9d8e-0b6a7f1a2c3d")
	assert.Equal(t, "otp:delivery:7b0c5b1e-8a7e-4a43-9d8e-0b6a7f1a2c3d", key(id))
}
