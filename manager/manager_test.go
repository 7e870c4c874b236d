package manager

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/xmrio/django-sspanel/db"
)

// 初始化临时库并挂到包级仓库句柄上
func setupTestRepos(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	var err error
	DBM, _, err = db.InitRepo(filepath.Join(dir, "panel.db"))
	require.NoError(t, err)
	StatisticDBM, _, err = db.InitStatisticRepo(filepath.Join(dir, "statistic.db"))
	require.NoError(t, err)
	NodeTimeout = 5 * time.Minute
	Host = "https://panel.example.com"
	APIToken = "test-token"
}

func intPtr(v int) *int { return &v }
