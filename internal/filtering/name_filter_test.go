package filtering

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNameMatcher(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		patterns []string
		input    []string
		expected []string
	}{
		{
			name:     "no patterns match everything",
			patterns: nil,
			input:    []string{"Account", "Contact"},
			expected: []string{"Account", "Contact"},
		},
		{
			name:     "suffix wildcard",
			patterns: []string{"*__c"},
			input:    []string{"Account", "Invoice__c", "Line__c"},
			expected: []string{"Invoice__c", "Line__c"},
		},
		{
			name:     "any of several patterns",
			patterns: []string{"Acc*", "Case"},
			input:    []string{"Account", "Case", "CaseComment", "Contact"},
			expected: []string{"Account", "Case"},
		},
		{
			name:     "single character wildcard",
			patterns: []string{"Lead?"},
			input:    []string{"Lead", "Lead1", "Lead12"},
			expected: []string{"Lead1"},
		},
		{
			name:     "character class",
			patterns: []string{"Obj[12]"},
			input:    []string{"Obj1", "Obj2", "Obj3"},
			expected: []string{"Obj1", "Obj2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m, err := NewNameMatcher(tt.patterns...)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, m.Filter(tt.input))
			assert.Equal(t, tt.patterns, m.Patterns())
		})
	}
}

func TestNameMatcher_InvalidPattern(t *testing.T) {
	t.Parallel()

	_, err := NewNameMatcher("[")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid glob pattern '['")
}

func TestNameMatcher_Nil(t *testing.T) {
	t.Parallel()

	var m *NameMatcher
	assert.True(t, m.Match("anything"))
	assert.Equal(t, []string{"a"}, m.Filter([]string{"a"}))
	assert.Nil(t, m.Patterns())
}
