package maintenance

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yackgo/pkg/db"
	"yackgo/pkg/store"
)

func setup(t *testing.T) (*store.SQLiteStore, string) {
	t.Helper()
	tempDir := t.TempDir()
	d, err := db.Init(filepath.Join(tempDir, "maint_test.db"))
	require.NoError(t, err)
	s := store.NewSQLiteStore(d)
	t.Cleanup(func() { s.Close() })
	return s, tempDir
}

func TestRun_ImportsMessages(t *testing.T) {
	s, dir := setup(t)
	ctx := context.Background()

	csvPath := filepath.Join(dir, "messages.csv")
	csvContent := "\ufeffSlot,Text\n" +
		"1,cq cq de ab1cd k\n" +
		"4,VVV DE AB1CD BEACON\n" +
		"9,ignored\n" +
		"2,RST 599 ~ 5NN\n"
	require.NoError(t, os.WriteFile(csvPath, []byte(csvContent), 0o644))

	require.NoError(t, Run(ctx, s, csvPath))

	m, err := s.GetMessage(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "CQ CQ DE AB1CD K", m.Text)
	assert.Equal(t, "import", m.Source)

	m, err = s.GetMessage(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "RST 599  5NN", m.Text)

	all, err := s.ListMessages(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, found := s.GetState(ctx, messagesStateKey)
	assert.True(t, found)
}

func TestRun_SkipsUnchangedFile(t *testing.T) {
	s, dir := setup(t)
	ctx := context.Background()

	csvPath := filepath.Join(dir, "messages.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("Slot,Text\n1,FIRST\n"), 0o644))
	require.NoError(t, Run(ctx, s, csvPath))

	// A message keyed in afterwards survives a restart with the same file.
	require.NoError(t, s.SaveMessage(ctx, &store.Message{Slot: 1, Text: "KEYED"}))
	require.NoError(t, Run(ctx, s, csvPath))
	m, err := s.GetMessage(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "KEYED", m.Text)

	// Touching the file imports it again.
	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(csvPath, later, later))
	require.NoError(t, Run(ctx, s, csvPath))
	m, err = s.GetMessage(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "FIRST", m.Text)
}

func TestRun_MissingFile(t *testing.T) {
	s, dir := setup(t)

	assert.NoError(t, Run(context.Background(), s, filepath.Join(dir, "absent.csv")))
	assert.NoError(t, Run(context.Background(), s, ""))
}
