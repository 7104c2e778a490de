package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupData(t *testing.T) {
	t.Helper()
	dataDir := t.TempDir()
	path := filepath.Join(dataDir, "2001", "pes2001.csv")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("V0302,V8005,V4729,UF\n2,35,100,33\n4,12,300,35\n"), 0o644))

	t.Setenv("PNAD_DATA_DIR", dataDir)
	t.Setenv("PNAD_CACHE_BACKEND", "file")
	t.Setenv("PNAD_CACHE_DIR", filepath.Join(t.TempDir(), "cache"))
	t.Setenv("PNAD_FIELDS_FILE", "")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestLoad_CSVWhenNotATerminal(t *testing.T) {
	setupData(t)
	out, err := run(t, "load", "person", "2001", "age,weight")
	require.NoError(t, err)
	assert.Equal(t, "age,weight\n35,100\n12,300\n", out)
}

func TestLoad_JSONWithLimit(t *testing.T) {
	setupData(t)
	out, err := run(t, "load", "pes", "2001", "age", "--format", "json", "--limit", "1")
	require.NoError(t, err)
	assert.Equal(t, "[{\"age\":35}\n]\n", out)
}

func TestLoad_UnknownYear(t *testing.T) {
	setupData(t)
	_, err := run(t, "load", "person", "1950", "age")
	assert.Error(t, err)
}

func TestExport_XLSX(t *testing.T) {
	setupData(t)
	dest := filepath.Join(t.TempDir(), "pes2001.xlsx")
	out, err := run(t, "export", "person", "2001", "age", "gender", "--out", dest)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote 2 rows x 2 columns")
	assert.FileExists(t, dest)
}

func TestYearsAndFields(t *testing.T) {
	setupData(t)
	out, err := run(t, "years", "--kind", "person")
	require.NoError(t, err)
	assert.Contains(t, out, "2001")

	out, err = run(t, "fields", "household")
	require.NoError(t, err)
	assert.Contains(t, out, "# household fields")
}

func TestCache_DescribeAndClear(t *testing.T) {
	setupData(t)
	_, err := run(t, "load", "person", "2001", "age")
	require.NoError(t, err)

	out, err := run(t, "cache", "describe")
	require.NoError(t, err)
	assert.Contains(t, out, "person2001/age")

	_, err = run(t, "cache", "clear")
	assert.Error(t, err)

	out, err = run(t, "cache", "clear", "--years", "2001")
	require.NoError(t, err)
	assert.Equal(t, "removed 1 cached columns\n", out)

	out, err = run(t, "cache", "describe")
	require.NoError(t, err)
	assert.Equal(t, "**empty**\n", out)
}

func TestSummary(t *testing.T) {
	setupData(t)
	out, err := run(t, "summary", "person", "2001", "age", "--weight", "weight")
	require.NoError(t, err)
	assert.Contains(t, out, "weighted mean")
}

func TestPanel_FromTo(t *testing.T) {
	setupData(t)
	out, err := run(t, "panel", "person", "age", "--from", "2000", "--to", "2002")
	require.NoError(t, err)
	assert.Equal(t, "year,age\n2001,35\n2001,12\n", out)

	_, err = run(t, "panel", "person", "age", "--from", "2005")
	assert.Error(t, err)
}

func TestStates(t *testing.T) {
	setupData(t)
	out, err := run(t, "states", "35")
	require.NoError(t, err)
	assert.Contains(t, out, "São Paulo")
	assert.Contains(t, out, "SUDESTE")

	_, err = run(t, "states", "99")
	assert.Error(t, err)
}

func TestYears_FullRace(t *testing.T) {
	setupData(t)
	out, err := run(t, "years", "--kind", "person", "--full-race")
	require.NoError(t, err)
	assert.Contains(t, out, "2001")
}
