package nacos

import (
	"fmt"
	"path/filepath"

	"github.com/housepower/cohortcmp/config"
	"github.com/housepower/cohortcmp/log"
	"github.com/nacos-group/nacos-sdk-go/clients"
	"github.com/nacos-group/nacos-sdk-go/clients/config_client"
	"github.com/nacos-group/nacos-sdk-go/clients/naming_client"
	"github.com/nacos-group/nacos-sdk-go/common/constant"
	"github.com/nacos-group/nacos-sdk-go/model"
	"github.com/nacos-group/nacos-sdk-go/vo"
	"github.com/pkg/errors"
)

type NacosClient struct {
	Enabled     bool
	ServiceName string
	GroupName   string
	DataId      string
	// name the remote statistical service registers under
	RsbServiceName string
	// called with the rsb host whenever the shared config changes it
	OnRsbHost func(host string)
	Naming    naming_client.INamingClient
	Config    config_client.IConfigClient
}

func InitNacosClient(config *config.CohortNacosConfig, rsbServiceName string, log string) (*NacosClient, error) {
	if config == nil {
		return nil, errors.Errorf("nacos config is invalid")
	}

	logDir, err := filepath.Abs(filepath.Dir(log))
	if err != nil {
		return nil, errors.Wrap(err, "")
	}

	if config.Enabled {
		clientConfig := constant.ClientConfig{
			NamespaceId:         config.NamespaceId,
			TimeoutMs:           5000,
			NotLoadCacheAtStart: true,
			LogDir:              logDir,
			CacheDir:            logDir,
			RotateTime:          "24h",
			MaxAge:              3,
			LogLevel:            "info",
			Username:            config.UserName,
			Password:            config.Password,
		}

		var serverConfigs []constant.ServerConfig
		// At least one ServerConfig
		for _, host := range config.Hosts {
			server := constant.ServerConfig{
				IpAddr:      host,
				ContextPath: "/nacos",
				Port:        config.Port,
			}
			serverConfigs = append(serverConfigs, server)
		}

		// Create naming client for service discovery
		namingClient, err := clients.NewNamingClient(
			vo.NacosClientParam{
				ClientConfig:  &clientConfig,
				ServerConfigs: serverConfigs,
			},
		)
		if err != nil {
			return nil, errors.Wrap(err, "")
		}

		// Create config client for dynamic configuration
		configClient, err := clients.NewConfigClient(
			vo.NacosClientParam{
				ClientConfig:  &clientConfig,
				ServerConfigs: serverConfigs,
			},
		)
		if err != nil {
			return nil, errors.Wrap(err, "")
		}

		return &NacosClient{
			Enabled:        true,
			ServiceName:    config.DataID,
			GroupName:      config.Group,
			DataId:         config.DataID,
			RsbServiceName: rsbServiceName,
			Naming:         namingClient,
			Config:         configClient,
		}, nil
	}

	return &NacosClient{
		Enabled: false,
	}, nil
}

func (c *NacosClient) RegisterInstance(ip string, port int, metadata map[string]string) (bool, error) {
	if c.Naming != nil {
		return c.Naming.RegisterInstance(vo.RegisterInstanceParam{
			Ip:          ip,
			Port:        uint64(port),
			ServiceName: c.ServiceName,
			Weight:      10,
			Enable:      true,
			Healthy:     true,
			Ephemeral:   true,
			Metadata:    metadata,
			GroupName:   c.GroupName, // default value is DEFAULT_GROUP
		})
	} else {
		return false, errors.Errorf("naming client is nil")
	}
}

func (c *NacosClient) DeregisterInstance(ip string, port int) (bool, error) {
	if c.Naming != nil {
		return c.Naming.DeregisterInstance(vo.DeregisterInstanceParam{
			Ip:          ip,
			Port:        uint64(port),
			ServiceName: c.ServiceName,
			Ephemeral:   true,
			GroupName:   c.GroupName, // default value is DEFAULT_GROUP
		})
	} else {
		return false, errors.Errorf("naming client is nil")
	}
}

// RsbEndpoint picks one healthy instance of the remote statistical service.
func (c *NacosClient) RsbEndpoint() (string, error) {
	if c.Naming == nil {
		return "", errors.Errorf("naming client is nil")
	}
	instance, err := c.Naming.SelectOneHealthyInstance(vo.SelectOneHealthInstanceParam{
		ServiceName: c.RsbServiceName,
		GroupName:   c.GroupName,
	})
	if err != nil {
		return "", errors.Wrap(err, "")
	}
	return instanceHost(instance), nil
}

func instanceHost(instance *model.Instance) string {
	scheme := "http"
	if instance.Metadata != nil && instance.Metadata["secure"] == "true" {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s:%d", scheme, instance.Ip, instance.Port)
}

func (c *NacosClient) Start(ipHttp string, portHttp int) error {
	if !c.Enabled {
		return nil
	}

	err := c.ListenConfig()
	if err != nil {
		return errors.Wrap(err, "")
	}

	metadata := map[string]string{"version": config.GlobalConfig.Version}
	_, err = c.RegisterInstance(ipHttp, portHttp, metadata)
	if err != nil {
		return errors.Wrap(err, "")
	}

	return nil
}

func (c *NacosClient) Stop(ip string, port int) error {
	if !c.Enabled {
		return nil
	}

	_, err := c.DeregisterInstance(ip, port)
	if err != nil {
		return errors.Wrap(err, "")
	}

	if c.Config != nil {
		err = c.Config.CancelListenConfig(vo.ConfigParam{
			DataId: c.DataId,
			Group:  c.GroupName,
		})
		if err != nil {
			return errors.Wrap(err, "")
		}
	}

	c.Naming = nil
	c.Config = nil
	return nil
}

func (c *NacosClient) GetConfig() (string, error) {
	if c.Config != nil {
		content, err := c.Config.GetConfig(vo.ConfigParam{
			DataId: c.DataId,
			Group:  c.GroupName})
		if err != nil && err.Error() != "config not found" {
			return "", err
		} else {
			return content, nil
		}
	}

	return "", nil
}

func (c *NacosClient) ListenConfig() error {
	if c.Config != nil {
		content, err := c.GetConfig()
		if err != nil {
			return errors.Wrap(err, "")
		}
		c.ListenConfigCallback("", c.GroupName, c.DataId, content)

		err = c.Config.ListenConfig(vo.ConfigParam{
			DataId:   c.DataId,
			Group:    c.GroupName,
			OnChange: c.ListenConfigCallback,
		})
		return errors.Wrap(err, "")
	}

	return nil
}

// ListenConfigCallback applies the rsb section of the shared yaml config.
func (c *NacosClient) ListenConfigCallback(namespace, group, dataId, data string) {
	if data == "" {
		return
	}
	var shared config.CohortConfig
	if err := config.Unmarshal([]byte(data), config.FORMAT_YAML, &shared); err != nil {
		log.Logger.Warnf("nacos config %s/%s is invalid: %v", group, dataId, err)
		return
	}
	if shared.Rsb.Host != "" && c.OnRsbHost != nil {
		log.Logger.Infof("rsb host changed to %s by nacos config %s", shared.Rsb.Host, dataId)
		c.OnRsbHost(shared.Rsb.Host)
	}
}
