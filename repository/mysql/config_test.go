package mysql

import (
	"testing"

	"github.com/housepower/cohortcmp/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	mp := NewMysqlPersistent()
	cfg := mp.UnmarshalConfig(map[string]interface{}{
		"host":     "127.0.0.1",
		"user":     "ohdsi",
		"password": common.AesEncryptECB("s3cret"),
		"port":     13306,
	})
	require.NotNil(t, cfg)
	config := cfg.(MysqlConfig)
	config.Normalize()
	assert.Equal(t, 13306, config.Port)
	assert.Equal(t, MYSQL_DATABASE_DEFAULT, config.DataBase)
	assert.Equal(t, MYSQL_MAX_OPEN_CONNS_DEFAULT, config.MaxOpenConns)
	assert.Equal(t, "s3cret", config.Password)

	// plain passwords are kept as they are
	plain := MysqlConfig{Password: "plain"}
	plain.Normalize()
	assert.Equal(t, "plain", plain.Password)
	assert.Equal(t, MYSQL_PORT_DEFAULT, plain.Port)
}
