// Package rsb calls functions of the remote statistical service.
package rsb

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/housepower/cohortcmp/config"
	"github.com/housepower/cohortcmp/log"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Resolver looks up the service endpoint when no host is configured.
type Resolver func() (string, error)

type Request struct {
	Function   string                 `json:"function"`
	Parameters map[string]interface{} `json:"parameters"`
}

type Client struct {
	host     string
	resolver Resolver
	client   *http.Client
	lock     sync.RWMutex
}

func NewClient(cfg config.RsbConfig, resolver Resolver) *Client {
	timeout := time.Duration(cfg.Timeout) * time.Second
	return &Client{
		host:     cfg.Host,
		resolver: resolver,
		client:   &http.Client{Timeout: timeout},
	}
}

func (c *Client) SetHost(host string) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.host = host
}

// Endpoint returns the base url requests go to.
func (c *Client) Endpoint() (string, error) {
	c.lock.RLock()
	host := c.host
	c.lock.RUnlock()
	if host == "" {
		if c.resolver == nil {
			return "", errors.New("rsb host is not configured")
		}
		var err error
		if host, err = c.resolver(); err != nil {
			return "", errors.Wrap(err, "discover rsb")
		}
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return strings.TrimSuffix(host, "/"), nil
}

// Invoke runs functionName on the remote service and blocks until it returns.
// A non 2xx answer is an error carrying the response body.
func (c *Client) Invoke(ctx context.Context, functionName string, params map[string]interface{}) ([]byte, error) {
	endpoint, err := c.Endpoint()
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(Request{Function: functionName, Parameters: params})
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	url := endpoint + "/" + functionName
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	request.Header.Add("Content-Type", "application/json")

	log.Logger.Infof("invoke %s on %s", functionName, endpoint)
	response, err := c.client.Do(request)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	defer response.Body.Close()

	data, err := io.ReadAll(io.LimitReader(response.Body, 1<<20))
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, errors.Errorf("%s %s: %s", functionName, response.Status, strings.TrimSpace(string(data)))
	}
	return data, nil
}
