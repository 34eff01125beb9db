package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadInput(t *testing.T) {
	got, err := readInput([]string{"a.com", "b.com"}, "", nil)
	require.NoError(t, err)
	assert.Equal(t, "a.com\nb.com", got)

	got, err = readInput(nil, "-", strings.NewReader("c.com d.com"))
	require.NoError(t, err)
	assert.Equal(t, "c.com d.com", got)

	path := filepath.Join(t.TempDir(), "urls.txt")
	require.NoError(t, os.WriteFile(path, []byte("e.com\n"), 0o600))
	got, err = readInput(nil, path, nil)
	require.NoError(t, err)
	assert.Equal(t, "e.com\n", got)

	_, err = readInput(nil, "", nil)
	assert.Error(t, err)
}

func TestParseIDs(t *testing.T) {
	ids, err := parseIDs([]string{"1", "2,3", " 4 "})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3, 4}, ids)

	_, err = parseIDs([]string{"x"})
	assert.Error(t, err)
	_, err = parseIDs([]string{"0"})
	assert.Error(t, err)
	_, err = parseIDs([]string{","})
	assert.Error(t, err)
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printJSON(&buf, map[string]int{"a": 1}))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())
}

func TestVersionSkipsConfig(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "crmctl v1.0.0\n", out.String())
}
