package postgres

import (
	"github.com/housepower/cohortcmp/common"
	"github.com/housepower/cohortcmp/log"
	"github.com/imdario/mergo"
)

type PostgresConfig struct {
	Host            string `yaml:"host" json:"host"`
	Port            int    `yaml:"port" json:"port"`
	User            string `yaml:"user" json:"user"`
	Password        string `yaml:"password" json:"password"`
	DataBase        string `yaml:"database" json:"database"`
	MaxIdleConns    int    `yaml:"max_idle_conns" json:"max_idle_conns"`
	MaxOpenConns    int    `yaml:"max_open_conns" json:"max_open_conns"`
	ConnMaxLifetime int    `yaml:"conn_max_life_time" json:"conn_max_life_time"`
	ConnMaxIdleTime int    `yaml:"conn_max_idle_time" json:"conn_max_idle_time"`
}

func (config *PostgresConfig) Normalize() {
	defaults := PostgresConfig{
		Port:            PG_PORT_DEFAULT,
		DataBase:        PG_DATABASE_DEFAULT,
		MaxIdleConns:    PG_MAX_IDLE_CONNS_DEFAULT,
		MaxOpenConns:    PG_MAX_OPEN_CONNS_DEFAULT,
		ConnMaxLifetime: PG_MAX_LIFETIME_DEFAULT,
		ConnMaxIdleTime: PG_MAX_IDLE_TIME_DEFAULT,
	}
	if err := mergo.Merge(config, defaults); err != nil {
		log.Logger.Warnf("merge postgres defaults failed:%v", err)
	}
	config.Password = common.AesDecryptECB(config.Password)
}
