package config

import (
	"fmt"
	"io"
	"net"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hjson/hjson-go/v4"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var GlobalConfig CohortConfig

const (
	FORMAT_JSON  string = ".json"
	FORMAT_HJSON string = ".hjson"
	FORMAT_YAML  string = ".yaml"
)

type CronJob struct {
	Enabled          bool
	PurgeJobs        string `yaml:"purge_jobs" json:"purge_jobs"`
	SweepConnections string `yaml:"sweep_connections" json:"sweep_connections"`
	JobRetentionDays int    `yaml:"job_retention_days" json:"job_retention_days"`
}

type CohortConfig struct {
	ConfigFile       string `yaml:"-" json:"-"`
	Server           CohortServerConfig
	Log              CohortLogConfig
	PersistentConfig map[string]map[string]interface{} `yaml:"persistent_config" json:"persistent_config"`
	Rsb              RsbConfig
	Sources          SourcesConfig
	Nacos            CohortNacosConfig
	Cron             CronJob
	Version          string `yaml:"-" json:"-"`
}

type CohortServerConfig struct {
	Ip               string
	Port             int
	Https            bool
	CertFile         string `yaml:"certfile"`
	KeyFile          string `yaml:"keyfile"`
	Pprof            bool
	SwaggerEnable    bool   `yaml:"swagger_enable" json:"swagger_enable"`
	PersistentPolicy string `yaml:"persistent_policy" json:"persistent_policy"`
	TaskInterval     int    `yaml:"task_interval" json:"task_interval"`
	MaxWorkers       int    `yaml:"max_workers" json:"max_workers"`
	SecretKey        string `yaml:"secret_key" json:"secret_key"`
	Auth             bool
	SigningKey       string `yaml:"signing_key" json:"signing_key"`
}

// RsbConfig locates the remote statistical service. When Host is empty and
// nacos is enabled the host is discovered by ServiceName.
type RsbConfig struct {
	Host        string
	Timeout     int
	ServiceName string `yaml:"service_name" json:"service_name"`
}

type SourcesConfig struct {
	ConnTTL         int `yaml:"conn_ttl" json:"conn_ttl"`
	MaxOpenConns    int `yaml:"max_open_conns" json:"max_open_conns"`
	MaxIdleConns    int `yaml:"max_idle_conns" json:"max_idle_conns"`
	ConnMaxIdleTime int `yaml:"conn_max_idle_time" json:"conn_max_idle_time"`
}

type CohortLogConfig struct {
	Level    string
	MaxCount int `yaml:"max_count" json:"max_count"`
	MaxSize  int `yaml:"max_size" json:"max_size"`
	MaxAge   int `yaml:"max_age" json:"max_age"`
}

type CohortNacosConfig struct {
	Enabled     bool
	Hosts       []string
	Port        uint64
	UserName    string `yaml:"user_name" json:"user_name"`
	Password    string
	NamespaceId string `yaml:"namespace_id" json:"namespace_id"`
	Group       string
	DataID      string `yaml:"data_id" json:"data_id"`
}

func fillDefault(c *CohortConfig) {
	c.Server.Port = 8818
	c.Server.Pprof = true
	c.Server.SwaggerEnable = false
	c.Server.PersistentPolicy = "local"
	c.Server.TaskInterval = 5
	c.Server.MaxWorkers = 8
	c.Server.SecretKey = "cohortcmp secret"
	c.Server.SigningKey = "change me"
	c.Log.Level = "INFO"
	c.Log.MaxCount = 5
	c.Log.MaxSize = 10
	c.Log.MaxAge = 10
	c.Rsb.Timeout = 3600
	c.Rsb.ServiceName = "rsb"
	c.Sources.ConnTTL = 3600
	c.Sources.MaxOpenConns = 10
	c.Sources.MaxIdleConns = 2
	c.Sources.ConnMaxIdleTime = 10
	c.Nacos.Group = "DEFAULT_GROUP"
	c.Nacos.DataID = "cohortcmp"
	c.Cron.Enabled = true
	c.Cron.JobRetentionDays = 30
	c.Server.CertFile = path.Join(GetWorkDirectory(), "conf", "server.crt")
	c.Server.KeyFile = path.Join(GetWorkDirectory(), "conf", "server.key")
}

func MergeEnv() {
	if v := os.Getenv("NACOS_HOST"); v != "" {
		hostports := strings.Split(v, ",")
		var hosts []string
		for _, h := range hostports {
			host, port, _ := net.SplitHostPort(h)
			hosts = append(hosts, host)
			GlobalConfig.Nacos.Port, _ = strconv.ParseUint(port, 10, 64)
		}
		GlobalConfig.Nacos.Hosts = hosts
	}
	if v := os.Getenv("HOST_IP"); v != "" {
		GlobalConfig.Server.Ip = v
	}
	if v := os.Getenv("RSB_HOST"); v != "" {
		GlobalConfig.Rsb.Host = v
	}
}

func ParseConfigFile(p, version string) error {
	f, err := os.Open(p)
	if err != nil {
		return errors.Wrap(err, "")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return errors.Wrap(err, "")
	}

	GlobalConfig.ConfigFile = p
	GlobalConfig.Version = version

	fillDefault(&GlobalConfig)
	if err = Unmarshal(data, path.Ext(p), &GlobalConfig); err != nil {
		return err
	}
	MergeEnv()
	return nil
}

func Unmarshal(data []byte, configFmt string, c *CohortConfig) error {
	var err error
	switch configFmt {
	case FORMAT_JSON, FORMAT_HJSON:
		err = hjson.Unmarshal(data, c)
	case FORMAT_YAML:
		err = yaml.Unmarshal(data, c)
	default:
		return fmt.Errorf("config format %s unsupported yet", configFmt)
	}
	return errors.Wrap(err, "")
}

func GetWorkDirectory() string {
	dir, err := filepath.Abs(filepath.Dir(GlobalConfig.ConfigFile))
	if err != nil {
		return ""
	}

	return strings.Replace(filepath.Dir(dir), "\\", "/", -1)
}
