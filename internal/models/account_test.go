package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringValue(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  string
	}{
		{"plain string", "alice", "alice"},
		{"stringer unwraps to its display form", PolyString{Orig: "Alice Cooper", Norm: "alice cooper"}, "Alice Cooper"},
		{"integer", 42, "42"},
		{"boolean", true, "true"},
		{"nil", nil, "<nil>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StringValue(tt.value))
		})
	}
}

func TestCompoundIdentifier(t *testing.T) {
	t.Run("single component", func(t *testing.T) {
		got := CompoundIdentifier([]Identifier{{Name: "name", Value: "alice"}})
		assert.Equal(t, "alice", got)
	})

	t.Run("components joined in order", func(t *testing.T) {
		got := CompoundIdentifier([]Identifier{
			{Name: "tenant", Value: "hr"},
			{Name: "name", Value: PolyString{Orig: "alice"}},
			{Name: "uid", Value: 7},
		})
		assert.Equal(t, "hr,alice,7", got)
	})

	t.Run("empty list yields empty string", func(t *testing.T) {
		assert.Empty(t, CompoundIdentifier(nil))
	})
}
