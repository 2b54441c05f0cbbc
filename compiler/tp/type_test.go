package tp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSizeOf(t *testing.T) {
	assert.Equal(t, 4, SizeOf(Int{}))
	assert.Equal(t, 8, SizeOf(PointerTo(Int{})))
	assert.Equal(t, 8, SizeOf(PointerTo(PointerTo(Int{}))))
	assert.Equal(t, 12, SizeOf(ArrayOf(Int{}, 3)))
	assert.Equal(t, 16, SizeOf(ArrayOf(PointerTo(Int{}), 2)))
}

func TestAlign(t *testing.T) {
	assert.Equal(t, 8, PointerTo(Int{}).Align())
	assert.Equal(t, 4, ArrayOf(Int{}, 5).Align())
	assert.Equal(t, 8, ArrayOf(PointerTo(Int{}), 5).Align())
}

func TestIsPtr(t *testing.T) {
	assert.True(t, IsPtr(PointerTo(Int{})))
	assert.False(t, IsPtr(ArrayOf(Int{}, 1)))
	assert.False(t, IsPtr(Int{}))
	assert.False(t, IsPtr(nil))
}

func TestParse(t *testing.T) {
	for _, tc := range []struct {
		in  string
		exp Type
	}{
		{"int", Int{}},
		{"*int", PointerTo(Int{})},
		{" **int ", PointerTo(PointerTo(Int{}))},
		{"int[3]", ArrayOf(Int{}, 3)},
		{"int[2][3]", ArrayOf(ArrayOf(Int{}, 2), 3)},
		{"*int[4]", PointerTo(ArrayOf(Int{}, 4))},
	} {
		x, err := Parse(tc.in)
		require.NoError(t, err, "%q", tc.in)
		assert.Equal(t, tc.exp, x, "%q", tc.in)
	}

	for _, in := range []string{"", "char", "int]", "int[x]", "int[-1]", "*"} {
		_, err := Parse(in)
		assert.Error(t, err, "%q", in)
	}
}

func TestString(t *testing.T) {
	assert.Equal(t, "int", Int{}.String())
	assert.Equal(t, "**int", PointerTo(PointerTo(Int{})).String())
	assert.Equal(t, "int[3]", ArrayOf(Int{}, 3).String())
}
