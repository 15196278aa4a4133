package mysql

import (
	"github.com/housepower/cohortcmp/common"
	"github.com/housepower/cohortcmp/log"
	"github.com/imdario/mergo"
)

type MysqlConfig struct {
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

func (config *MysqlConfig) Normalize() {
	defaults := MysqlConfig{
		Port:            MYSQL_PORT_DEFAULT,
		DataBase:        MYSQL_DATABASE_DEFAULT,
		MaxIdleConns:    MYSQL_MAX_IDLE_CONNS_DEFAULT,
		MaxOpenConns:    MYSQL_MAX_OPEN_CONNS_DEFAULT,
		ConnMaxLifetime: MYSQL_MAX_LIFETIME_DEFAULT,
		ConnMaxIdleTime: MYSQL_MAX_IDLE_TIME_DEFAULT,
	}
	if err := mergo.Merge(config, defaults); err != nil {
		log.Logger.Warnf("merge mysql defaults failed:%v", err)
	}
	// password may be written encrypted by cohortctl encrypt
	config.Password = common.AesDecryptECB(config.Password)
}
