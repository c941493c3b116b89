package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreviewEmailCommand(t *testing.T) {
	var out bytes.Buffer
	root := newRootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"preview-email"})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "<html")
}

func TestPreviewEmailUnknownTemplate(t *testing.T) {
	root := newRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"preview-email", "welcome"})

	assert.Error(t, root.Execute())
}
