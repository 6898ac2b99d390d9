package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollector_All(t *testing.T) {
	var c Collector
	c.Addf(Runtime, SeverityError, 3, 0, 4, "third")
	c.Addf(Syntax, SeverityError, 1, 5, 8, "late on line one")
	c.Addf(Syntax, SeverityError, 1, 0, 2, "first")

	all := c.All()
	assert.Len(t, all, 3)
	assert.Equal(t, "first", all[0].Message)
	assert.Equal(t, "late on line one", all[1].Message)
	assert.Equal(t, "third", all[2].Message)
}

func TestCollector_ForLine(t *testing.T) {
	var c Collector
	c.Addf(Syntax, SeverityError, 1, 0, 1, "one")
	c.Addf(Semantic, SeverityError, 2, 0, 1, "two")

	assert.Len(t, c.ForLine(2), 1)
	assert.Equal(t, "two", c.ForLine(2)[0].Message)
	assert.Empty(t, c.ForLine(3))
}

func TestCollector_WarningSeverity(t *testing.T) {
	var c Collector
	// Warnings carry warning severity no matter what was requested.
	c.Addf(Warning, SeverityFatal, 1, 0, 1, "advisory")

	assert.Equal(t, SeverityWarning, c.All()[0].Severity)
	assert.False(t, c.HasErrors())
	assert.False(t, c.HasFatal())
}

func TestCollector_HasFatal(t *testing.T) {
	var c Collector
	assert.False(t, c.HasFatal())

	c.Addf(Semantic, SeverityError, 1, 0, 1, "bad block")
	assert.True(t, c.HasErrors())
	assert.False(t, c.HasFatal())

	c.Addf(Syntax, SeverityFatal, 2, 0, 1, "unmatched nesting")
	assert.True(t, c.HasFatal())
}

func TestCollector_MergeFrom(t *testing.T) {
	var main, scratch Collector
	scratch.Addf(Syntax, SeverityError, 1, 0, 1, "isolated")

	assert.Zero(t, main.Len())
	main.MergeFrom(&scratch)
	assert.Equal(t, 1, main.Len())

	scratch.Clear()
	assert.Zero(t, scratch.Len())
	assert.Equal(t, 1, main.Len())
}
