package hashutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSha1HexRoundTrip(t *testing.T) {
	h := ComputeSha1([]byte("hello world"))
	hexStr := h.Hex()
	assert.Len(t, hexStr, 40)
	assert.Equal(t, strings.ToLower(hexStr), hexStr)

	back, err := Sha1FromHex(hexStr)
	require.NoError(t, err)
	assert.Equal(t, h, back)
}

func TestSha1FromHexRejectsBadInput(t *testing.T) {
	_, err := Sha1FromHex("short")
	assert.Error(t, err)

	_, err = Sha1FromHex(strings.Repeat("z", 40))
	assert.Error(t, err)
}

func TestCrc32DecimalRoundTrip(t *testing.T) {
	c := ComputeCrc32([]byte("hello world"))
	s := c.Decimal()
	assert.GreaterOrEqual(t, len(s), 4)

	back, err := Crc32FromDecimal(s)
	require.NoError(t, err)
	assert.Equal(t, c, back)
}

func TestCrc32DecimalZeroPadded(t *testing.T) {
	var c Crc32 = 7
	assert.Equal(t, "0007", c.Decimal())
}

func TestSha1Deterministic(t *testing.T) {
	a := ComputeSha1([]byte("same"))
	b := ComputeSha1([]byte("same"))
	assert.Equal(t, a, b)

	c := ComputeSha1([]byte("different"))
	assert.NotEqual(t, a, c)
}
