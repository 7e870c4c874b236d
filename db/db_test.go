package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestRepos(t *testing.T) (*RepoManager, *StatisticRepoManager) {
	t.Helper()
	dir := t.TempDir()
	dbm, isNew, err := InitRepo(filepath.Join(dir, "panel.db"))
	require.NoError(t, err)
	require.True(t, isNew)
	sdbm, _, err := InitStatisticRepo(filepath.Join(dir, "statistic.db"))
	require.NoError(t, err)
	return dbm, sdbm
}
