package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestExportYAML(t *testing.T) {
	r := NewRepository()
	require.NoError(t, r.Add("Lavoro", NewTask("Report", "01/07/2024")))
	dir := t.TempDir()

	path, err := Export(r, dir, "")
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "promemoria-"))
	assert.Equal(t, ".yaml", filepath.Ext(path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc ExportDocument
	require.NoError(t, yaml.Unmarshal(b, &doc))
	assert.Equal(t, 1, doc.Total)
	assert.Len(t, doc.ID, 26)
	require.Len(t, doc.Categories, 3)
	assert.Equal(t, []Task{{Name: "Report", Date: "01/07/2024"}}, doc.Categories[0].Tasks)
}

func TestExportJSON(t *testing.T) {
	r := NewRepository()
	require.NoError(t, r.Add("Viaggi", NewTask("Valigia", "03/08/2024")))
	dir := t.TempDir()

	path, err := Export(r, dir, "JSON")
	require.NoError(t, err)
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc ExportDocument
	require.NoError(t, json.Unmarshal(b, &doc))
	assert.Equal(t, "Viaggi", doc.Categories[3].Name)
}

func TestExportRejectsBadInput(t *testing.T) {
	_, err := Export(NewRepository(), "", "yaml")
	assert.Error(t, err)
	_, err = Export(NewRepository(), t.TempDir(), "csv")
	assert.Error(t, err)
}

func TestExportFilesAreDistinct(t *testing.T) {
	dir := t.TempDir()
	a, err := Export(NewRepository(), dir, "yaml")
	require.NoError(t, err)
	b, err := Export(NewRepository(), dir, "yaml")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
