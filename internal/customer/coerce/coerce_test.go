package coerce

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBool(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected bool
	}{
		{name: "native true", input: true, expected: true},
		{name: "native false", input: false, expected: false},
		{name: "accented si", input: "Sí", expected: true},
		{name: "plain si", input: " si ", expected: true},
		{name: "verdadero", input: "VERDADERO", expected: true},
		{name: "one", input: "1", expected: true},
		{name: "true text", input: "True", expected: true},
		{name: "no", input: "no", expected: false},
		{name: "empty", input: "", expected: false},
		{name: "zero", input: "0", expected: false},
		{name: "nil", input: nil, expected: false},
		{name: "numeric one", input: 1.0, expected: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Bool(tt.input))
		})
	}
}

func TestNumber(t *testing.T) {
	assert.Equal(t, 12.5, Number("12.5"))
	assert.Equal(t, 0.0, Number("abc"))
	assert.Equal(t, 0.0, Number(""))
	assert.Equal(t, 0.0, Number(nil))
	assert.Equal(t, 7.0, Number(json.Number("7")))
	assert.Equal(t, 3, Int("3.9"))
}

func TestOptionalInt(t *testing.T) {
	assert.Nil(t, OptionalInt(""))
	assert.Nil(t, OptionalInt(nil))
	assert.Nil(t, OptionalInt(0.0))
	if v := OptionalInt("2"); assert.NotNil(t, v) {
		assert.Equal(t, 2, *v)
	}
}

func TestString(t *testing.T) {
	assert.Equal(t, "", String(nil))
	assert.Equal(t, "5500", String(5500.0))
	assert.Equal(t, "0.01", String(0.01))
	assert.Equal(t, "true", String(true))
	assert.Equal(t, []string{"a", "1"}, Strings([]any{"a", 1.0, nil}))
	assert.Nil(t, Strings("a;b"))
}
