package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"expensy/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordHandler_Create_GeneratesIDAndSource(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `records`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	router := gin.New()
	router.POST("/records", NewRecordHandler().Create)

	body, _ := json.Marshal(gin.H{"amount": -150.75, "description": "farmacia"})
	req := httptest.NewRequest("POST", "/records", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	assert.NotEmpty(t, data["id"])
	assert.LessOrEqual(t, len(data["id"].(string)), 40)
	assert.Equal(t, models.SourceManual, data["source"])
	assert.Equal(t, -150.75, data["amount"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordHandler_Create_UnknownCategory(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `categories`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "alt_name"}))

	router := gin.New()
	router.POST("/records", NewRecordHandler().Create)

	body, _ := json.Marshal(gin.H{"amount": -10.0, "category_id": 99})
	req := httptest.NewRequest("POST", "/records", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "类别不存在")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordHandler_List(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT count").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery("SELECT .* FROM `records`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "description", "amount", "sync", "source", "category_id"}).
			AddRow("abc123", "super", -500.0, false, models.SourceMacro, nil).
			AddRow("def456", "taxi", -120.0, true, models.SourceManual, nil))

	router := gin.New()
	router.GET("/records", NewRecordHandler().List)

	req := httptest.NewRequest("GET", "/records?page=1&page_size=10", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(2), data["total"])
	assert.Equal(t, float64(1), data["page"])
	list := data["list"].([]interface{})
	assert.Len(t, list, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordHandler_Get_NotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `records`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	router := gin.New()
	router.GET("/records/:id", NewRecordHandler().Get)

	req := httptest.NewRequest("GET", "/records/nope", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 404, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordHandler_Update_Partial(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `records`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "amount", "sync", "source"}).
			AddRow("abc123", -500.0, false, models.SourceMacro))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `records`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT .* FROM `records`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "amount", "sync", "source"}).
			AddRow("abc123", -450.0, false, models.SourceMacro))

	router := gin.New()
	router.PUT("/records/:id", NewRecordHandler().Update)

	body, _ := json.Marshal(gin.H{"amount": -450.0})
	req := httptest.NewRequest("PUT", "/records/abc123", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), "更新成功")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordHandler_Delete(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `records`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "amount", "sync", "source"}).
			AddRow("abc123", -500.0, false, models.SourceMacro))
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `records`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	router := gin.New()
	router.DELETE("/records/:id", NewRecordHandler().Delete)

	req := httptest.NewRequest("DELETE", "/records/abc123", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordHandler_Recents(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `records`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "description", "amount", "sync", "source", "category_id"}).
			AddRow("abc123", "super", -500.0, false, models.SourceMacro, nil))

	router := gin.New()
	router.GET("/records/recents", NewRecordHandler().Recents)

	req := httptest.NewRequest("GET", "/records/recents?size=5", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), "abc123")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordHandler_Recents_SizeOutOfRange(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, cleanup := setupMockDB(t)
	defer cleanup()

	router := gin.New()
	router.GET("/records/recents", NewRecordHandler().Recents)

	for _, size := range []string{"0", "101", "-1"} {
		req := httptest.NewRequest("GET", "/records/recents?size="+size, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, 400, w.Code, "size=%s", size)
	}
}

func TestRecordHandler_BulkSync(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT count").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `records`").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	router := gin.New()
	router.POST("/records/bulk-sync", NewRecordHandler().BulkSync)

	body, _ := json.Marshal(gin.H{"ids": []string{"abc123", "def456"}})
	req := httptest.NewRequest("POST", "/records/bulk-sync", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), "标记成功")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordHandler_BulkSync_UnknownIDMarksNothing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	// 两个 ID 只命中一条，整批拒绝，不应出现 UPDATE
	mock.ExpectQuery("SELECT count").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	router := gin.New()
	router.POST("/records/bulk-sync", NewRecordHandler().BulkSync)

	body, _ := json.Marshal(gin.H{"ids": []string{"abc123", "nope"}})
	req := httptest.NewRequest("POST", "/records/bulk-sync", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
