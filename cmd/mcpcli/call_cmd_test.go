package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitCallArgs_ToolIDThenJSON(t *testing.T) {
	idArgs, jsonArg, err := splitCallArgs([]string{"srv/tool", `{"a":1}`})

	require.NoError(t, err)
	assert.Equal(t, []string{"srv/tool"}, idArgs)
	assert.Equal(t, `{"a":1}`, jsonArg)
}

func TestSplitCallArgs_TwoTokenToolIDThenJSON(t *testing.T) {
	idArgs, jsonArg, err := splitCallArgs([]string{"srv", "tool", `{}`})

	require.NoError(t, err)
	assert.Equal(t, []string{"srv", "tool"}, idArgs)
	assert.Equal(t, `{}`, jsonArg)
}

func TestSplitCallArgs_ToolIDOnlyNoInlineJSON(t *testing.T) {
	idArgs, jsonArg, err := splitCallArgs([]string{"srv/tool"})

	require.NoError(t, err)
	assert.Equal(t, []string{"srv/tool"}, idArgs)
	assert.Empty(t, jsonArg)
}
