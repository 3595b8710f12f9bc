package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormaliseOrderKey(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"NaN", math.NaN(), ""},
		{"integral float", 1234.0, "1234"},
		{"int", 1234, "1234"},
		{"int64", int64(1234), "1234"},
		{"string", "1234", "1234"},
		{"padded string", "  1234 ", "1234"},
		{"fractional float", 1234.5, "1234.5"},
		{"negative zero", math.Copysign(0, -1), "0"},
		{"large integral float", 18200001.0, "18200001"},
		{"alphanumeric", " SO-77 ", "SO-77"},
		{"empty string", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormaliseOrderKey(tt.in))
		})
	}
}

func TestNormaliseOrderKey_Idempotent(t *testing.T) {
	inputs := []any{nil, 1234.0, 1234, "1234", " 77 ", 3.25, "SO-1", int64(9)}
	for _, in := range inputs {
		once := NormaliseOrderKey(in)
		assert.Equal(t, once, NormaliseOrderKey(once), "input %v", in)
	}
}

func TestNormaliseOrderKey_EquivalentForms(t *testing.T) {
	assert.Equal(t, NormaliseOrderKey(1234), NormaliseOrderKey("1234"))
	assert.Equal(t, NormaliseOrderKey("1234"), NormaliseOrderKey(1234.0))
	assert.Equal(t, "1234", NormaliseOrderKey(1234.0))
}
