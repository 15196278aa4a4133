package rsb

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/housepower/cohortcmp/config"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoke(t *testing.T) {
	var got Request
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &got)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	c := NewClient(config.RsbConfig{Host: server.URL, Timeout: 5}, nil)
	data, err := c.Invoke(context.Background(), "executeComparativeCohortAnalysis", map[string]interface{}{
		"treatment":   1,
		"executionId": 7,
		"dbms":        "postgresql",
	})
	require.Nil(t, err)
	assert.Equal(t, `{"status":"ok"}`, string(data))
	assert.Equal(t, "/executeComparativeCohortAnalysis", path)
	assert.Equal(t, "executeComparativeCohortAnalysis", got.Function)
	assert.Equal(t, "postgresql", got.Parameters["dbms"])
	assert.Equal(t, float64(7), got.Parameters["executionId"])
}

func TestInvokeFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("Error in matchOnPs: no subjects\n"))
	}))
	defer server.Close()

	c := NewClient(config.RsbConfig{Host: server.URL}, nil)
	_, err := c.Invoke(context.Background(), "executeComparativeCohortAnalysis", nil)
	require.NotNil(t, err)
	assert.True(t, strings.Contains(err.Error(), "500"))
	assert.True(t, strings.Contains(err.Error(), "no subjects"))
}

func TestEndpoint(t *testing.T) {
	c := NewClient(config.RsbConfig{}, nil)
	_, err := c.Endpoint()
	assert.NotNil(t, err)

	c = NewClient(config.RsbConfig{}, func() (string, error) { return "10.0.0.5:8999", nil })
	endpoint, err := c.Endpoint()
	require.Nil(t, err)
	assert.Equal(t, "http://10.0.0.5:8999", endpoint)

	c = NewClient(config.RsbConfig{}, func() (string, error) { return "", errors.New("no healthy instance") })
	_, err = c.Endpoint()
	assert.NotNil(t, err)

	c.SetHost("https://rsb.example.org/")
	endpoint, err = c.Endpoint()
	require.Nil(t, err)
	assert.Equal(t, "https://rsb.example.org", endpoint)
}
