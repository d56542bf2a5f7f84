package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docuchat-labs/retrieval-cli/internal/adapters/driven/config/file"
	"github.com/docuchat-labs/retrieval-cli/internal/adapters/driven/embedding/ollama"
	"github.com/docuchat-labs/retrieval-cli/internal/logger"
)

func TestPingEmbedder_Reachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	embedder, err := ollama.New(ollama.Config{BaseURL: srv.URL})
	require.NoError(t, err)

	var buf bytes.Buffer
	logger.SetOutput(&buf)
	t.Cleanup(func() { logger.SetOutput(os.Stderr) })

	pingEmbedder(context.Background(), embedder)

	assert.NotContains(t, buf.String(), "unreachable")
}

func TestPingEmbedder_UnreachableWarns(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	embedder, err := ollama.New(ollama.Config{BaseURL: srv.URL})
	require.NoError(t, err)

	var buf bytes.Buffer
	logger.SetOutput(&buf)
	logger.SetVerbose(true)
	t.Cleanup(func() {
		logger.SetVerbose(false)
		logger.SetOutput(os.Stderr)
	})

	pingEmbedder(context.Background(), embedder)

	assert.Contains(t, buf.String(), "unreachable")
}

func TestBuildStore_UnknownBackend(t *testing.T) {
	_, _, err := buildStore(file.StorageConfig{Backend: "bogus"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "bogus")
}
