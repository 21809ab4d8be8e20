package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateReceiptNumber(t *testing.T) {
	tests := []struct {
		receipt string
		want    bool
	}{
		{"KV-260830-0042", true},
		{"LVV-260830-0001", true},
		{"kv-260830-0042", false},
		{"K-260830-0042", false},
		{"KVIV-260830-0042", false},
		{"KV-2608-0042", false},
		{"KV-260830-42", false},
		{"KV-260830-00421", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.receipt, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateReceiptNumber(tt.receipt))
		})
	}
}

func TestValidateTagNumber(t *testing.T) {
	assert.True(t, ValidateTagNumber("A1B2C3D4"))
	assert.True(t, ValidateTagNumber("ZZZZ9999"))
	assert.False(t, ValidateTagNumber("a1b2c3d4"))
	assert.False(t, ValidateTagNumber("A1B2C3D"))
	assert.False(t, ValidateTagNumber("A1B2C3D45"))
	assert.False(t, ValidateTagNumber("A1B2-3D4"))
}

func TestGenerateReceiptNumber(t *testing.T) {
	date := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	got := GenerateReceiptNumber("kv", date, 42)

	assert.Equal(t, "KV-260830-0042", got)
	assert.True(t, ValidateReceiptNumber(got))
}

func TestGenerateTagNumber(t *testing.T) {
	for i := 0; i < 20; i++ {
		assert.True(t, ValidateTagNumber(GenerateTagNumber()))
	}
}
