package repository_test

import (
	"testing"

	"github.com/housepower/cohortcmp/config"
	"github.com/housepower/cohortcmp/repository"
	"github.com/housepower/cohortcmp/repository/local"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitPersistent(t *testing.T) {
	old := config.GlobalConfig
	defer func() {
		config.GlobalConfig = old
		repository.Ps = nil
	}()

	config.GlobalConfig.Server.PersistentPolicy = "nosuch"
	repository.Ps = nil
	assert.NotNil(t, repository.InitPersistent())

	config.GlobalConfig.Server.PersistentPolicy = local.LocalPersistentName
	config.GlobalConfig.PersistentConfig = map[string]map[string]interface{}{
		local.LocalPersistentName: {
			"format":     "yaml",
			"config_dir": t.TempDir(),
		},
	}
	repository.Ps = nil
	require.Nil(t, repository.InitPersistent())
	lp, ok := repository.Ps.(*local.LocalPersistent)
	require.True(t, ok)
	assert.Equal(t, "cohortcmp.yaml", lp.Config.ConfigFile)
}
