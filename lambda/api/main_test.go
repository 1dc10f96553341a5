package main

import (
	"encoding/json"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/m-mizutani/brainfeed/pkg/handler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProxy(t *testing.T) {
	proxy := newProxy(handler.EnvVars{DataFolder: "/mnt/data"})

	t.Run("source path", func(tt *testing.T) {
		resp, err := proxy.Proxy(events.APIGatewayProxyRequest{
			HTTPMethod: "GET",
			Path:       "/api/v1/datasets/bwpv/path",
			QueryStringParameters: map[string]string{
				"symbol": "AAPL",
			},
		})
		require.NoError(tt, err)
		assert.Equal(tt, 404, resp.StatusCode)

		resp, err = proxy.Proxy(events.APIGatewayProxyRequest{
			HTTPMethod: "GET",
			Path:       "/api/v1/datasets/wikipedia/path",
			QueryStringParameters: map[string]string{
				"symbol": "AAPL",
			},
		})
		require.NoError(tt, err)
		require.Equal(tt, 200, resp.StatusCode)

		var body map[string]string
		require.NoError(tt, json.Unmarshal([]byte(resp.Body), &body))
		assert.Equal(tt, "/mnt/data/alternative/brain/bwpv/aapl.csv", body["path"])
	})

	t.Run("post records", func(tt *testing.T) {
		resp, err := proxy.Proxy(events.APIGatewayProxyRequest{
			HTTPMethod: "POST",
			Path:       "/api/v1/datasets/ranking_5/records",
			QueryStringParameters: map[string]string{
				"symbol": "MSFT",
			},
			Body: "20250910,-0.0123\n20250911,0.5\n",
		})
		require.NoError(tt, err)
		require.Equal(tt, 200, resp.StatusCode)

		var body struct {
			Records []map[string]interface{} `json:"records"`
		}
		require.NoError(tt, json.Unmarshal([]byte(resp.Body), &body))
		require.Equal(tt, 2, len(body.Records))
		assert.Equal(tt, "MSFT", body.Records[0]["ticker"])
	})
}
