package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xmrio/django-sspanel/manager"
)

func setupAdminTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	r := setupTestServer(t)
	admin := r.Group("/api/admin")
	{
		admin.PUT("/proxy-nodes/:id", updateProxyNode)
		admin.GET("/dashboard/traffic-history/:timeRange", getTrafficHistory)
	}
	return r
}

func putJSON(t *testing.T, r *gin.Engine, url, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, url, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestUpdateProxyNodePartialBody(t *testing.T) {
	r := setupAdminTestServer(t)
	node := seedSSNode(t)

	w := putJSON(t, r, "/api/admin/proxy-nodes/1", `{"Name":"hk-2"}`)
	require.Equal(t, http.StatusOK, w.Code)

	// 未携带的 Enable 和 EnlargeScale 保持原值，不被零值覆盖
	loaded, err := manager.DBM.ProxyNode.GetByID(node.ID)
	require.NoError(t, err)
	assert.Equal(t, "hk-2", loaded.Name)
	assert.True(t, loaded.Enable)
	assert.Equal(t, 2.0, loaded.EnlargeScale)
}

func TestUpdateProxyNodeExplicitFields(t *testing.T) {
	r := setupAdminTestServer(t)
	node := seedSSNode(t)

	// 显式传 false / 新倍率要生效
	w := putJSON(t, r, "/api/admin/proxy-nodes/1", `{"Enable":false,"EnlargeScale":1.5}`)
	require.Equal(t, http.StatusOK, w.Code)

	loaded, err := manager.DBM.ProxyNode.GetByID(node.ID)
	require.NoError(t, err)
	assert.False(t, loaded.Enable)
	assert.Equal(t, 1.5, loaded.EnlargeScale)

	// 显式传零倍率仍然拒绝
	w = putJSON(t, r, "/api/admin/proxy-nodes/1", `{"EnlargeScale":0}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	loaded, err = manager.DBM.ProxyNode.GetByID(node.ID)
	require.NoError(t, err)
	assert.Equal(t, 1.5, loaded.EnlargeScale)
}

func TestTrafficHistoryRange(t *testing.T) {
	r := setupAdminTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/dashboard/traffic-history/month", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/admin/dashboard/traffic-history/hour", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Labels   []string `json:"labels"`
			Download []int64  `json:"download"`
			Upload   []int64  `json:"upload"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	// 标签和数据序列一一对应
	assert.Len(t, resp.Data.Labels, 24)
	assert.Len(t, resp.Data.Download, 24)
	assert.Len(t, resp.Data.Upload, 24)
}
