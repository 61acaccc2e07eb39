package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/people-analytics/mailing-cli/internal/config"
)

func TestApplyRunFlags(t *testing.T) {
	c := &config.Config{}
	c.Run.Group = "manha"
	c.Run.TargetFiles = 1
	c.Run.OnExisting = config.OnExistingAbort
	c.Store.Enabled = true

	runGroup = "tarde"
	runPrefix = "custom"
	runTargetFiles = 3
	runOverwrite = true
	runNoStore = true
	t.Cleanup(func() {
		runGroup, runPrefix, runTargetFiles, runOverwrite, runNoStore = "", "", 0, false, false
	})

	applyRunFlags(c)

	assert.Equal(t, "tarde", c.Run.Group)
	assert.Equal(t, "custom", c.Run.Prefix)
	assert.Equal(t, 3, c.Run.TargetFiles)
	assert.Equal(t, config.OnExistingOverwrite, c.Run.OnExisting)
	assert.False(t, c.Store.Enabled)
}

func TestApplyRunFlagsNoOverrides(t *testing.T) {
	c := &config.Config{}
	c.Run.Group = "manha"
	c.Run.TargetFiles = 2

	applyRunFlags(c)

	assert.Equal(t, "manha", c.Run.Group)
	assert.Equal(t, 2, c.Run.TargetFiles)
}
