package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [query]", searchCmd.Use)
}

func TestSearchCmd_Short(t *testing.T) {
	assert.Equal(t, "Retrieve context for a query", searchCmd.Short)
}

func TestSearchCmd_RequiresExactlyOneArg(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"search"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestSearchCmd_HasTopKFlag(t *testing.T) {
	flag := searchCmd.Flags().Lookup("top-k")
	require.NotNil(t, flag, "top-k flag should exist")
	assert.Equal(t, "k", flag.Shorthand)
	assert.Equal(t, "3", flag.DefValue)
}

func TestSearchCmd_HasBudgetFlag(t *testing.T) {
	flag := searchCmd.Flags().Lookup("budget")
	require.NotNil(t, flag, "budget flag should exist")
	assert.Equal(t, "4000", flag.DefValue)
}

func TestSearchCmd_ErrorsWithoutServices(t *testing.T) {
	oldRetriever := retrieverService
	retrieverService = nil
	defer func() { retrieverService = oldRetriever }()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"search", "query"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestSearchCmd_PrintsContextAndCitations(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "test query"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Context:")
	assert.Contains(t, out, "The relevant fragment text.")
	assert.Contains(t, out, "Citations:")
	assert.Contains(t, out, "Test Document, fragment 0")
}

func TestSearchCmd_JSONOutput(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "--json", "test query"})
	defer func() {
		rootCmd.SetArgs(nil)
		searchJSON = false
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)

	var out searchOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "The relevant fragment text.", out.Context)
	require.Len(t, out.Citations, 1)
	assert.Equal(t, "doc-1", out.Citations[0].DocumentID)
}

func TestSetSearchDefaults_FlowsToServices(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	retriever := &fakeRetriever{}
	assembler := &fakeAssembler{}
	retrieverService = retriever
	assemblerService = assembler

	SetSearchDefaults(7, 1234)
	defer func() {
		SetSearchDefaults(3, 4000)
	}()

	assert.Equal(t, "7", searchCmd.Flags().Lookup("top-k").DefValue)
	assert.Equal(t, "1234", searchCmd.Flags().Lookup("budget").DefValue)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "test query"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, 7, retriever.lastK)
	assert.Equal(t, 1234, assembler.lastBudget)
}

func TestSetSearchDefaults_IgnoresNonPositive(t *testing.T) {
	defer SetSearchDefaults(3, 4000)

	SetSearchDefaults(0, -1)

	assert.Equal(t, "3", searchCmd.Flags().Lookup("top-k").DefValue)
	assert.Equal(t, "4000", searchCmd.Flags().Lookup("budget").DefValue)
}

func TestSearchCmd_NoResults(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	retrieverService = &fakeRetriever{}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "unmatched query"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "No results found.")
}
