package view_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zostay/go-postal/view"
)

func TestParsePriority(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]view.Priority{
		"low":        view.PriorityLow,
		"Non-Urgent": view.PriorityLow,
		"normal":     view.PriorityNormal,
		"Medium":     view.PriorityNormal,
		"HIGH":       view.PriorityHigh,
		" Urgent ":   view.PriorityHigh,
	} {
		got, err := view.ParsePriority(in)
		assert.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := view.ParsePriority("whenever")
	assert.ErrorIs(t, err, view.ErrInvalidPriority)

	assert.Equal(t, "high", view.PriorityHigh.String())
	assert.Equal(t, "low", view.PriorityLow.String())
	assert.Equal(t, "normal", view.PriorityNormal.String())
}
