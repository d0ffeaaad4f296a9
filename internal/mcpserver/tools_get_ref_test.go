package mcpserver

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRefTool_Local(t *testing.T) {
	input := getRefInput{Spec: specInput{File: writeTestSpecs(t)}, Ref: "#/definitions/node/type"}
	result, output, err := handleGetRef(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	require.Nil(t, result)
	assert.True(t, output.Exists)
	assert.Equal(t, "\"object\"\n", output.Value)
	assert.True(t, output.Circular)
}

func TestGetRefTool_ThroughReference(t *testing.T) {
	input := getRefInput{Spec: specInput{File: writeTestSpecs(t)}, Ref: "#/paths/p/properties/name/type"}
	_, output, err := handleGetRef(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	assert.True(t, output.Exists)
	assert.Equal(t, "\"string\"\n", output.Value)
}

func TestGetRefTool_External(t *testing.T) {
	input := getRefInput{Spec: specInput{File: writeTestSpecs(t)}, Ref: "common.json#/Pet/type", Format: "yaml"}
	_, output, err := handleGetRef(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	assert.True(t, output.Exists)
	assert.Equal(t, "object\n", output.Value)
}

func TestGetRefTool_Missing(t *testing.T) {
	input := getRefInput{Spec: specInput{Content: `{"a": 1}`}, Ref: "#/b"}
	result, output, err := handleGetRef(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	require.Nil(t, result)
	assert.False(t, output.Exists)
	assert.Empty(t, output.Value)
	assert.False(t, output.Circular)
}

func TestGetRefTool_RefRequired(t *testing.T) {
	result, _, err := handleGetRef(context.Background(), &mcp.CallToolRequest{}, getRefInput{Spec: specInput{Content: `{}`}})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
}
