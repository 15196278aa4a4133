package mysql

import (
	"encoding/json"
	"fmt"

	"github.com/housepower/cohortcmp/log"
	"github.com/housepower/cohortcmp/repository/rdbms"
	driver "gorm.io/driver/mysql"
)

type MysqlPersistent struct {
	Config MysqlConfig
	*rdbms.GormPersistent
}

func (mp *MysqlPersistent) Init(config interface{}) error {
	if config == nil {
		config = MysqlConfig{}
	}
	mp.Config = config.(MysqlConfig)
	mp.Config.Normalize()
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		mp.Config.User,
		mp.Config.Password,
		mp.Config.Host,
		mp.Config.Port,
		mp.Config.DataBase)

	log.Logger.Debugf("mysql dsn:%s:***@tcp(%s:%d)/%s", mp.Config.User, mp.Config.Host, mp.Config.Port, mp.Config.DataBase)
	gp, err := rdbms.Open(driver.Open(dsn), rdbms.PoolConfig{
		MaxIdleConns:    mp.Config.MaxIdleConns,
		MaxOpenConns:    mp.Config.MaxOpenConns,
		ConnMaxLifetime: mp.Config.ConnMaxLifetime,
		ConnMaxIdleTime: mp.Config.ConnMaxIdleTime,
	}, rdbms.Options{TableOptions: "ENGINE=InnoDB DEFAULT CHARSET=utf8mb4"})
	if err != nil {
		return err
	}
	mp.GormPersistent = gp
	return nil
}

func (mp *MysqlPersistent) UnmarshalConfig(configMap map[string]interface{}) interface{} {
	var config MysqlConfig
	data, err := json.Marshal(configMap)
	if err != nil {
		log.Logger.Errorf("marshal mysql configMap failed:%v", err)
		return nil
	}
	if err = json.Unmarshal(data, &config); err != nil {
		log.Logger.Errorf("unmarshal mysql config failed:%v", err)
		return nil
	}
	return config
}

func NewMysqlPersistent() *MysqlPersistent {
	return &MysqlPersistent{}
}
