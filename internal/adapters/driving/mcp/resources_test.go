package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragchat/internal/core/domain"
)

// makeReadResourceRequest creates a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleStatusResource(t *testing.T) {
	server := newTestServer(t, &mockChatService{stats: domain.Stats{Ready: true, Documents: 3}})
	req := makeReadResourceRequest("ragchat://status")

	result, err := server.handleStatusResource(context.Background(), req)

	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Equal(t, "ragchat://status", result.Contents[0].URI)
	assert.Equal(t, "application/json", result.Contents[0].MIMEType)

	var got StatusOutput
	require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &got))
	assert.True(t, got.Ready)
	assert.Equal(t, 3, got.Documents)
}

func TestServer_handleFormatsResource(t *testing.T) {
	t.Run("lists formats", func(t *testing.T) {
		server := newTestServer(t, &mockChatService{})

		result, err := server.handleFormatsResource(context.Background(), makeReadResourceRequest("ragchat://formats"))

		require.NoError(t, err)
		assert.Equal(t, ".md\n.txt", result.Contents[0].Text)
	})

	t.Run("not found without formats", func(t *testing.T) {
		server, err := NewServer(&Ports{Chat: &mockChatService{}})
		require.NoError(t, err)

		_, err = server.handleFormatsResource(context.Background(), makeReadResourceRequest("ragchat://formats"))

		assert.Error(t, err)
	})
}
