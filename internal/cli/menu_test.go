package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirbrooks/promemoria/internal/config"
	"github.com/amirbrooks/promemoria/internal/logging"
	"github.com/amirbrooks/promemoria/internal/store"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.StoreFile = filepath.Join(t.TempDir(), "promemoria.json")
	cfg.ExportDir = filepath.Join(t.TempDir(), "exports")
	cfg.Color = false
	return cfg
}

func seededRepo(t *testing.T, tasks ...[3]string) *store.Repository {
	t.Helper()
	repo := store.NewRepository()
	for _, tk := range tasks {
		require.NoError(t, repo.Add(tk[0], store.NewTask(tk[1], tk[2])))
	}
	return repo
}

func runScript(t *testing.T, cfg config.Config, repo *store.Repository, script string) (string, *App) {
	t.Helper()
	var out bytes.Buffer
	a := newAppWithRepo(cfg, logging.Discard(), repo, strings.NewReader(script), &out)
	require.NoError(t, a.Interactive())
	return out.String(), a
}

func TestInteractiveAddThenSave(t *testing.T) {
	cfg := testConfig(t)
	out, _ := runScript(t, cfg, store.NewRepository(), "1\n1\nlavoro\nrelazione MENSILE\n1/7/24\n5\n3\n")

	assert.Contains(t, out, `Added "Relazione mensile" to Lavoro.`)
	assert.Contains(t, out, "Saved. Goodbye.")

	saved, err := store.Load(cfg.StoreFile)
	require.NoError(t, err)
	category, task, ok := saved.Find(store.Key{Name: "Relazione mensile", Date: "01/07/2024"})
	require.True(t, ok)
	assert.Equal(t, "Lavoro", category)
	assert.False(t, task.Completed)
}

func TestInteractiveEndOfInputDiscards(t *testing.T) {
	cfg := testConfig(t)
	_, a := runScript(t, cfg, store.NewRepository(), "1\n1\nlavoro\nreport\n1/7/24\n")

	assert.Equal(t, 1, a.Repository().Len())
	assert.NoFileExists(t, cfg.StoreFile)
}

func TestInteractiveSaveAfterChange(t *testing.T) {
	cfg := testConfig(t)
	cfg.SaveAfterChange = true
	runScript(t, cfg, store.NewRepository(), "1\n1\nhobby\nchitarra\n3/3/2030\n")

	saved, err := store.Load(cfg.StoreFile)
	require.NoError(t, err)
	assert.Equal(t, 1, saved.Len())
}

func TestInteractiveAddDuplicateAsksAgain(t *testing.T) {
	cfg := testConfig(t)
	repo := seededRepo(t, [3]string{"Lavoro", "Report", "01/07/2024"})
	out, a := runScript(t, cfg, repo, "1\n1\npersonale\nreport\n1/7/24\npersonale\nreport\n2/7/24\n5\n3\n")

	assert.Contains(t, out, "Two tasks with the same name cannot share a due date.")
	assert.Equal(t, 2, a.Repository().Len())
	category, _, ok := a.Repository().Find(store.Key{Name: "Report", Date: "02/07/2024"})
	require.True(t, ok)
	assert.Equal(t, "Personale", category)
}

func TestInteractiveInvalidDateGivesUp(t *testing.T) {
	cfg := testConfig(t)
	cfg.MaxAttempts = 2
	out, a := runScript(t, cfg, store.NewRepository(), "1\n1\nlavoro\nreport\n32/1/24\nieri\n5\n3\n")

	assert.Contains(t, out, "Invalid value")
	assert.Contains(t, out, "Too many invalid attempts")
	assert.Equal(t, 0, a.Repository().Len())
}

func TestInteractiveDeleteDisambiguatesByDate(t *testing.T) {
	cfg := testConfig(t)
	repo := seededRepo(t,
		[3]string{"Lavoro", "Report", "01/07/2024"},
		[3]string{"Lavoro", "Report", "02/07/2024"},
	)
	out, a := runScript(t, cfg, repo, "1\n2\nreport\n2/7/24\n1\n5\n3\n")

	assert.Contains(t, out, "Several tasks match")
	assert.Contains(t, out, "Task deleted.")
	_, _, ok := a.Repository().Find(store.Key{Name: "Report", Date: "02/07/2024"})
	assert.False(t, ok)
	_, _, ok = a.Repository().Find(store.Key{Name: "Report", Date: "01/07/2024"})
	assert.True(t, ok)
}

func TestInteractiveDeleteDeclined(t *testing.T) {
	cfg := testConfig(t)
	repo := seededRepo(t, [3]string{"Lavoro", "Report", "01/07/2024"})
	out, a := runScript(t, cfg, repo, "1\n2\nrep\n2\n5\n3\n")

	assert.Contains(t, out, "Nothing deleted.")
	assert.Equal(t, 1, a.Repository().Len())
}

func TestInteractiveSelectNoMatch(t *testing.T) {
	cfg := testConfig(t)
	repo := seededRepo(t, [3]string{"Lavoro", "Report", "01/07/2024"})
	out, _ := runScript(t, cfg, repo, "1\n2\nspesa\n5\n3\n")

	assert.Contains(t, out, "No task found.")
}

func TestInteractiveModifyName(t *testing.T) {
	cfg := testConfig(t)
	repo := seededRepo(t, [3]string{"Lavoro", "Report", "01/07/2024"})
	out, a := runScript(t, cfg, repo, "1\n3\nreport\n1\nbilancio\n1\n5\n3\n")

	assert.Contains(t, out, "Task updated.")
	_, _, ok := a.Repository().Find(store.Key{Name: "Bilancio", Date: "01/07/2024"})
	assert.True(t, ok)
}

func TestInteractiveModifyCollision(t *testing.T) {
	cfg := testConfig(t)
	repo := seededRepo(t,
		[3]string{"Lavoro", "Report", "01/07/2024"},
		[3]string{"Lavoro", "Bilancio", "01/07/2024"},
	)
	out, a := runScript(t, cfg, repo, "1\n3\nbilancio\n1\nreport\n1\n5\n3\n")

	assert.Contains(t, out, "Two tasks with the same name cannot share a due date.")
	_, _, ok := a.Repository().Find(store.Key{Name: "Bilancio", Date: "01/07/2024"})
	assert.True(t, ok)
}

func TestInteractiveModifyCancel(t *testing.T) {
	cfg := testConfig(t)
	repo := seededRepo(t, [3]string{"Lavoro", "Report", "01/07/2024"})
	out, _ := runScript(t, cfg, repo, "1\n3\nreport\n4\n5\n3\n")

	assert.Contains(t, out, "Nothing changed.")
}

func TestInteractiveMarkIsOneWay(t *testing.T) {
	cfg := testConfig(t)
	repo := seededRepo(t, [3]string{"Lavoro", "Report", "01/07/2024"})
	out, a := runScript(t, cfg, repo, "1\n4\nreport\n1\n4\nreport\n5\n3\n")

	assert.Contains(t, out, "Task marked as done.")
	assert.Contains(t, out, "This task is already completed.")
	_, task, ok := a.Repository().Find(store.Key{Name: "Report", Date: "01/07/2024"})
	require.True(t, ok)
	assert.True(t, task.Completed)
}

func TestInteractiveMarkToggles(t *testing.T) {
	cfg := testConfig(t)
	cfg.ToggleCompletion = true
	repo := seededRepo(t, [3]string{"Lavoro", "Report", "01/07/2024"})
	out, a := runScript(t, cfg, repo, "1\n4\nreport\n1\n4\nreport\n1\n5\n3\n")

	assert.Contains(t, out, "Task marked as done.")
	assert.Contains(t, out, "Task marked as not done.")
	_, task, _ := a.Repository().Find(store.Key{Name: "Report", Date: "01/07/2024"})
	assert.False(t, task.Completed)
}

func TestInteractiveViewMenu(t *testing.T) {
	cfg := testConfig(t)
	repo := seededRepo(t,
		[3]string{"Lavoro", "Report", "01/01/2000"},
		[3]string{"Hobby", "Chitarra", "01/01/2099"},
	)
	out, _ := runScript(t, cfg, repo, "2\n1\n2\nrep\n2\nzzz\n3\n4\n3\n")

	assert.Contains(t, out, "- Lavoro")
	assert.Contains(t, out, "1. Report (01/01/2000)")
	assert.Contains(t, out, "No task found.")
	assert.Contains(t, out, "Overdue")
	assert.Contains(t, out, "(Lavoro) Report was due on 01/01/2000")
	assert.Contains(t, out, "(Hobby) Chitarra is due on 01/01/2099")
}

func TestInteractiveInvalidMenuChoice(t *testing.T) {
	cfg := testConfig(t)
	out, _ := runScript(t, cfg, store.NewRepository(), "9\nabc\n3\n")

	assert.Contains(t, out, "choose between 1 and 3")
	assert.Contains(t, out, "Saved. Goodbye.")
}

func TestCapitalize(t *testing.T) {
	tests := map[string]string{
		"report":         "Report",
		"  RELAZIONE x ": "Relazione x",
		"èstate":         "Èstate",
		"":               "",
		"   ":            "",
	}
	for in, want := range tests {
		assert.Equal(t, want, capitalize(in), in)
	}
}
