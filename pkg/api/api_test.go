package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/m-mizutani/brainfeed/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func doRequest(t *testing.T, args api.Arguments, method, path, body string) (int, map[string]interface{}) {
	r := api.NewEngine(args)
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp
}

func TestListDatasets(t *testing.T) {
	code, resp := doRequest(t, api.Arguments{}, "GET", "/api/v1/datasets", "")
	require.Equal(t, http.StatusOK, code)

	datasets, ok := resp["datasets"].([]interface{})
	require.True(t, ok)
	assert.Equal(t, 15, len(datasets))

	t.Run("dataset detail has fields", func(tt *testing.T) {
		code, resp := doRequest(tt, api.Arguments{}, "GET", "/api/v1/datasets/wikipedia", "")
		require.Equal(tt, http.StatusOK, code)
		assert.Equal(tt, "BrainWikipediaPageViews", resp["name"])
		assert.Contains(tt, resp["fields"], "buzz_1")
	})

	t.Run("unknown dataset", func(tt *testing.T) {
		code, resp := doRequest(tt, api.Arguments{}, "GET", "/api/v1/datasets/nothing", "")
		assert.Equal(tt, http.StatusNotFound, code)
		assert.Contains(tt, resp["message"], "nothing")
	})
}

func TestGetSourcePath(t *testing.T) {
	args := api.Arguments{DataFolder: "data"}

	t.Run("per symbol", func(tt *testing.T) {
		code, resp := doRequest(tt, args, "GET", "/api/v1/datasets/sentiment_30/path?symbol=AAPL&date=20250910", "")
		require.Equal(tt, http.StatusOK, code)
		assert.Equal(tt, "data/alternative/brain/sentiment/30/202509/aapl.csv", resp["path"])
	})

	t.Run("root overrides data folder", func(tt *testing.T) {
		code, resp := doRequest(tt, args, "GET", "/api/v1/datasets/ranking_universe/path?date=20250910&root=/mnt", "")
		require.Equal(tt, http.StatusOK, code)
		assert.Equal(tt, "/mnt/alternative/brain/rankings/universe/20250910.csv", resp["path"])
	})

	t.Run("symbol is required", func(tt *testing.T) {
		code, _ := doRequest(tt, args, "GET", "/api/v1/datasets/wikipedia/path", "")
		assert.Equal(tt, http.StatusBadRequest, code)
	})

	t.Run("invalid date", func(tt *testing.T) {
		code, _ := doRequest(tt, args, "GET", "/api/v1/datasets/wikipedia/path?symbol=AAPL&date=2025-09-10", "")
		assert.Equal(tt, http.StatusBadRequest, code)
	})
}

func TestParseRecords(t *testing.T) {
	body := strings.Join([]string{
		"DATE,NUMBER_OF_VIEWS_1,BUZZ_1,NUMBER_OF_VIEWS_7,BUZZ_7,NUMBER_OF_VIEWS_30,BUZZ_30",
		"20250910,14220,4.2139,58460,0.5318,218379,-0.6219",
		"",
		"2025-09-11,1,2,3,4,5,6",
		"20250912",
	}, "\n")

	t.Run("records with line errors", func(tt *testing.T) {
		code, resp := doRequest(tt, api.Arguments{}, "POST", "/api/v1/datasets/wikipedia/records?symbol=AAPL&header=true", body)
		require.Equal(tt, http.StatusOK, code)

		records, ok := resp["records"].([]interface{})
		require.True(tt, ok)
		require.Equal(tt, 1, len(records))
		rec := records[0].(map[string]interface{})
		assert.Equal(tt, "AAPL", rec["ticker"])
		assert.Equal(tt, "BrainWikipediaPageViews", resp["dataset"])

		errs, ok := resp["errors"].([]interface{})
		require.True(tt, ok)
		require.Equal(tt, 1, len(errs))
		assert.Equal(tt, float64(4), errs[0].(map[string]interface{})["line"])
		assert.Equal(tt, float64(1), resp["rejected"])
	})

	t.Run("universe needs date", func(tt *testing.T) {
		code, _ := doRequest(tt, api.Arguments{}, "POST", "/api/v1/datasets/ranking_universe/records", "AAPL R735QTJ8XC9X,AAPL,1,2,3,4,5")
		assert.Equal(tt, http.StatusBadRequest, code)
	})

	t.Run("universe rows", func(tt *testing.T) {
		code, resp := doRequest(tt, api.Arguments{}, "POST", "/api/v1/datasets/ranking_universe/records?date=20250910", "AAPL R735QTJ8XC9X,AAPL,1,2,3,4,5")
		require.Equal(tt, http.StatusOK, code)
		records := resp["records"].([]interface{})
		require.Equal(tt, 1, len(records))
		assert.Equal(tt, "AAPL R735QTJ8XC9X", records[0].(map[string]interface{})["security_id"])
	})

	t.Run("too large body", func(tt *testing.T) {
		code, _ := doRequest(tt, api.Arguments{MaxBodySize: 16}, "POST", "/api/v1/datasets/wikipedia/records?symbol=AAPL", body)
		assert.Equal(tt, http.StatusRequestEntityTooLarge, code)
	})
}
