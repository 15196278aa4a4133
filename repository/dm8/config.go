package dm8

import (
	"github.com/housepower/cohortcmp/common"
	"github.com/housepower/cohortcmp/log"
	"github.com/imdario/mergo"
)

type DM8Config struct {
	Host            string `yaml:"host" json:"host"`
	Port            int    `yaml:"port" json:"port"`
	User            string `yaml:"user" json:"user"`
	Password        string `yaml:"password" json:"password"`
	Schema          string `yaml:"schema" json:"schema"`
	MaxIdleConns    int    `yaml:"max_idle_conns" json:"max_idle_conns"`
	MaxOpenConns    int    `yaml:"max_open_conns" json:"max_open_conns"`
	ConnMaxLifetime int    `yaml:"conn_max_life_time" json:"conn_max_life_time"`
	ConnMaxIdleTime int    `yaml:"conn_max_idle_time" json:"conn_max_idle_time"`
}

func (config *DM8Config) Normalize() {
	defaults := DM8Config{
		Port:            DM8_PORT_DEFAULT,
		User:            DM8_USER_DEFAULT,
		Password:        DM8_PASSWD_DEFAULT,
		MaxIdleConns:    DM8_MAX_IDLE_CONNS_DEFAULT,
		MaxOpenConns:    DM8_MAX_OPEN_CONNS_DEFAULT,
		ConnMaxLifetime: DM8_MAX_LIFETIME_DEFAULT,
		ConnMaxIdleTime: DM8_MAX_IDLE_TIME_DEFAULT,
	}
	if err := mergo.Merge(config, defaults); err != nil {
		log.Logger.Warnf("merge dm8 defaults failed:%v", err)
	}
	config.Password = common.AesDecryptECB(config.Password)
}
