package postgres

import (
	"encoding/json"
	"fmt"

	"github.com/housepower/cohortcmp/log"
	"github.com/housepower/cohortcmp/repository/rdbms"
	driver "gorm.io/driver/postgres"
)

type PostgresPersistent struct {
	Config PostgresConfig
	*rdbms.GormPersistent
}

func (mp *PostgresPersistent) Init(config interface{}) error {
	if config == nil {
		config = PostgresConfig{}
	}
	mp.Config = config.(PostgresConfig)
	mp.Config.Normalize()
	dsn := fmt.Sprintf("host=%s port=%d user=%s dbname=%s password=%s sslmode=disable",
		mp.Config.Host,
		mp.Config.Port,
		mp.Config.User,
		mp.Config.DataBase,
		mp.Config.Password)

	log.Logger.Debugf("postgres dsn:host=%s port=%d user=%s dbname=%s", mp.Config.Host, mp.Config.Port, mp.Config.User, mp.Config.DataBase)
	gp, err := rdbms.Open(driver.Open(dsn), rdbms.PoolConfig{
		MaxIdleConns:    mp.Config.MaxIdleConns,
		MaxOpenConns:    mp.Config.MaxOpenConns,
		ConnMaxLifetime: mp.Config.ConnMaxLifetime,
		ConnMaxIdleTime: mp.Config.ConnMaxIdleTime,
	}, rdbms.Options{})
	if err != nil {
		return err
	}
	mp.GormPersistent = gp
	return nil
}

func (mp *PostgresPersistent) UnmarshalConfig(configMap map[string]interface{}) interface{} {
	var config PostgresConfig
	data, err := json.Marshal(configMap)
	if err != nil {
		log.Logger.Errorf("marshal postgres configMap failed:%v", err)
		return nil
	}
	if err = json.Unmarshal(data, &config); err != nil {
		log.Logger.Errorf("unmarshal postgres config failed:%v", err)
		return nil
	}
	return config
}

func NewPostgresPersistent() *PostgresPersistent {
	return &PostgresPersistent{}
}
