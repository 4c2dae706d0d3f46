package collection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToggle_Select(t *testing.T) {
	t.Parallel()
	var changes []ViewMode
	tg := NewToggle(ViewResourceBank, func(m ViewMode) { changes = append(changes, m) })

	assert.False(t, tg.Select(""), "null selection is ignored")
	assert.False(t, tg.Select("bogus"))
	assert.False(t, tg.Select(ViewResourceBank), "same value is a no-op")
	assert.Empty(t, changes)
	assert.Equal(t, ViewResourceBank, tg.Current())

	assert.True(t, tg.Select(ViewAssessment))
	assert.False(t, tg.Select(ViewAssessment))
	assert.Equal(t, []ViewMode{ViewAssessment}, changes)
	assert.Equal(t, ViewResourceBank, tg.Other())

	assert.True(t, tg.Flip())
	assert.Equal(t, []ViewMode{ViewAssessment, ViewResourceBank}, changes)
}

func TestToggle_InvalidInitialFallsBack(t *testing.T) {
	t.Parallel()
	tg := NewToggle("", nil)
	assert.Equal(t, ViewResourceBank, tg.Current())
	assert.True(t, tg.Flip())
}
