package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentFilter(t *testing.T) {
	f := NewContentFilter(true)

	tests := []struct {
		name   string
		text   string
		ok     bool
		reason string
	}{
		{"clean", "A thoughtful post about Go.", true, ""},
		{"banned word", "this is bullshit", false, "inappropriate_language"},
		{"case insensitive", "PORN links", false, "inappropriate_language"},
		{"word boundary", "classic assessment", true, ""},
		{"spam", "wow" + strings.Repeat("!", 20), false, "spam_detected"},
		{"empty", "", true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := f.FilterContent(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestContentFilterDisabled(t *testing.T) {
	f := NewContentFilter(false)
	assert.NoError(t, f.Check("this is bullshit"))

	var nilFilter *ContentFilter
	assert.NoError(t, nilFilter.Check("this is bullshit"))
}

func TestContentFilterCheck(t *testing.T) {
	err := NewContentFilter(true).Check("fine", "what a bastard")
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "inappropriate language")
}
