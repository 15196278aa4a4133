package nacos

import (
	"testing"

	"github.com/housepower/cohortcmp/config"
	"github.com/nacos-group/nacos-sdk-go/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabled(t *testing.T) {
	c, err := InitNacosClient(&config.CohortNacosConfig{Enabled: false}, "rsb", "/tmp/cohortcmp.log")
	require.Nil(t, err)
	assert.False(t, c.Enabled)
	assert.Nil(t, c.Start("127.0.0.1", 8818))
	assert.Nil(t, c.Stop("127.0.0.1", 8818))
	_, err = c.RsbEndpoint()
	assert.NotNil(t, err)

	_, err = InitNacosClient(nil, "rsb", "/tmp/cohortcmp.log")
	assert.NotNil(t, err)
}

func TestInstanceHost(t *testing.T) {
	assert.Equal(t, "http://10.0.0.5:8999", instanceHost(&model.Instance{Ip: "10.0.0.5", Port: 8999}))
	assert.Equal(t, "https://10.0.0.5:443", instanceHost(&model.Instance{Ip: "10.0.0.5", Port: 443, Metadata: map[string]string{"secure": "true"}}))
}

func TestListenConfigCallback(t *testing.T) {
	var host string
	c := &NacosClient{OnRsbHost: func(h string) { host = h }}
	c.ListenConfigCallback("", "DEFAULT_GROUP", "cohortcmp", "rsb:\n  host: http://rsb.example.org:8999\n")
	assert.Equal(t, "http://rsb.example.org:8999", host)

	host = ""
	c.ListenConfigCallback("", "DEFAULT_GROUP", "cohortcmp", "rsb: [")
	c.ListenConfigCallback("", "DEFAULT_GROUP", "cohortcmp", "")
	assert.Equal(t, "", host)
}
