package dm8

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/housepower/cohortcmp/log"
	"github.com/housepower/cohortcmp/repository/rdbms"
	driver "github.com/wanlay/gorm-dm8"
)

type DM8Persistent struct {
	Config DM8Config
	*rdbms.GormPersistent
}

func (mp *DM8Persistent) Init(config interface{}) error {
	if config == nil {
		config = DM8Config{}
	}
	mp.Config = config.(DM8Config)
	mp.Config.Normalize()
	dsn := fmt.Sprintf("dm://%s:%s@%s:%d?autoCommit=true",
		mp.Config.User,
		url.QueryEscape(mp.Config.Password),
		mp.Config.Host,
		mp.Config.Port)
	if mp.Config.Schema != "" {
		dsn += "&schema=" + mp.Config.Schema
	}

	log.Logger.Debugf("DM8 dsn:dm://%s:***@%s:%d", mp.Config.User, mp.Config.Host, mp.Config.Port)
	gp, err := rdbms.Open(driver.Open(dsn), rdbms.PoolConfig{
		MaxIdleConns:    mp.Config.MaxIdleConns,
		MaxOpenConns:    mp.Config.MaxOpenConns,
		ConnMaxLifetime: mp.Config.ConnMaxLifetime,
		ConnMaxIdleTime: mp.Config.ConnMaxIdleTime,
	}, rdbms.Options{DisableForeignKeys: true})
	if err != nil {
		return err
	}
	mp.GormPersistent = gp
	return nil
}

func (mp *DM8Persistent) UnmarshalConfig(configMap map[string]interface{}) interface{} {
	var config DM8Config
	data, err := json.Marshal(configMap)
	if err != nil {
		log.Logger.Errorf("marshal dm8 configMap failed:%v", err)
		return nil
	}
	if err = json.Unmarshal(data, &config); err != nil {
		log.Logger.Errorf("unmarshal dm8 config failed:%v", err)
		return nil
	}
	return config
}

func NewDM8Persistent() *DM8Persistent {
	return &DM8Persistent{}
}
