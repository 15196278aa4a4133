package main

import (
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/housepower/cohortcmp/common"
	"github.com/housepower/cohortcmp/config"
	"github.com/housepower/cohortcmp/log"
	"github.com/housepower/cohortcmp/repository"
	_ "github.com/housepower/cohortcmp/repository/dm8"
	_ "github.com/housepower/cohortcmp/repository/local"
	_ "github.com/housepower/cohortcmp/repository/mysql"
	_ "github.com/housepower/cohortcmp/repository/postgres"
	"github.com/housepower/cohortcmp/router"
	"github.com/housepower/cohortcmp/server"
	"github.com/housepower/cohortcmp/service/cohort"
	"github.com/housepower/cohortcmp/service/cohortcomparison"
	"github.com/housepower/cohortcmp/service/cron"
	"github.com/housepower/cohortcmp/service/nacos"
	"github.com/housepower/cohortcmp/service/prometheus"
	"github.com/housepower/cohortcmp/service/rsb"
	"github.com/housepower/cohortcmp/service/runner"
	"github.com/housepower/cohortcmp/service/source"
	"github.com/housepower/cohortcmp/service/vocabulary"
	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/common/version"
	"github.com/spf13/cobra"
	"gopkg.in/sevlyar/go-daemon.v0"
)

const (
	MARK_NAME  = "_GO_COHORTCMP_RELOAD"
	MARK_VALUE = "1"
)

var (
	Version         = ""
	BuildTimeStamp  = ""
	GitCommitHash   = ""
	Daemon          = false
	ConfigFilePath  = ""
	LogFilePath     = ""
	PidFilePath     = ""
	EncryptPassword = ""
)

// @title cohortcmp API
// @version 1.0
// @description Comparative cohort analysis service
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name token
// @BasePath /
func main() {
	InitCmd()
	if err := config.ParseConfigFile(ConfigFilePath, Version); err != nil {
		fmt.Printf("Parse config file %s fail: %v\n", ConfigFilePath, err)
		os.Exit(1)
	}
	log.InitLogger(LogFilePath, &config.GlobalConfig.Log)

	cntxt := &daemon.Context{
		PidFileName: PidFilePath,
		PidFilePerm: 0644,
		LogFilePerm: 0640,
		WorkDir:     "./",
		Umask:       027,
	}

	if Daemon && os.Getenv(MARK_NAME) != MARK_VALUE {
		d, err := cntxt.Reborn()
		if err != nil {
			log.Logger.Fatal(err)
		}
		if d != nil {
			return
		}
		defer cntxt.Release()
	}

	version.Version = Version
	version.Revision = GitCommitHash
	version.BuildDate = BuildTimeStamp
	log.Logger.Info("cohortcmp starting...")
	log.Logger.Infof("version: %v", Version)
	log.Logger.Infof("build time: %v", BuildTimeStamp)
	log.Logger.Infof("git commit hash: %v", GitCommitHash)
	DumpConfig(config.GlobalConfig)
	if config.GlobalConfig.Server.Ip == "" {
		config.GlobalConfig.Server.Ip = common.GetOutboundIP()
	}
	signalCh := make(chan os.Signal, 1)

	err := repository.InitPersistent()
	if err != nil {
		log.Logger.Fatalf("init persistent failed:%v", err)
	}

	nacosClient, err := nacos.InitNacosClient(&config.GlobalConfig.Nacos, config.GlobalConfig.Rsb.ServiceName, LogFilePath)
	if err != nil {
		log.Logger.Fatalf("Failed to init nacos client, %v", err)
	}
	var resolver rsb.Resolver
	if nacosClient.Enabled {
		resolver = nacosClient.RsbEndpoint
	}
	rsbClient := rsb.NewClient(config.GlobalConfig.Rsb, resolver)
	nacosClient.OnRsbHost = rsbClient.SetHost
	err = nacosClient.Start(config.GlobalConfig.Server.Ip, config.GlobalConfig.Server.Port)
	if err != nil {
		log.Logger.Fatalf("Failed to start nacos client, %v", err)
	}
	defer func() {
		_ = nacosClient.Stop(config.GlobalConfig.Server.Ip, config.GlobalConfig.Server.Port)
	}()

	sources := source.GetSourceService()
	defer sources.CloseAll()
	_ = prometheus.RegisterGauge("source_connections", "Open source database connections.", func() float64 {
		return float64(sources.ConnectionCount())
	})

	runnerServ := runner.NewRunnerService(config.GlobalConfig.Server.Ip, config.GlobalConfig.Server, rsbClient)
	runnerServ.Start()
	defer runnerServ.Stop()

	cohorts := cohort.NewCohortService()
	services := router.Services{
		CohortComparison: cohortcomparison.NewCohortComparisonService(sources, cohorts, vocabulary.NewVocabularyService(sources), runnerServ),
		Sources:          sources,
		Cohorts:          cohorts,
		Runner:           runnerServ,
	}

	// start http server
	svr := server.NewApiServer(&config.GlobalConfig, services)
	if err := svr.Start(); err != nil {
		log.Logger.Fatalf("start http server fail: %v", err)
	}
	defer svr.Stop()
	log.Logger.Infof("start http server %s:%d success", config.GlobalConfig.Server.Ip, config.GlobalConfig.Server.Port)

	cronSvr := cron.NewCronService(config.GlobalConfig.Cron, sources)
	if err = cronSvr.Start(); err != nil {
		log.Logger.Fatalf("Failed to start cron service, %v", err)
	}
	defer cronSvr.Stop()
	//block here, waiting for terminal signal
	handleSignal(signalCh)
}

func handleSignal(ch chan os.Signal) {
	signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT, syscall.SIGHUP)
	sig := <-ch
	log.Logger.Infof("receive signal: %v", sig)
	log.Logger.Warn("cohortcmp exiting...")
	if sig == syscall.SIGHUP {
		if err := reloadHandler(); err != nil {
			log.Logger.Errorf("reload failed: %v", err)
		}
	}
	signal.Stop(ch)
}

func reloadHandler() error {
	env := os.Environ()
	mark := fmt.Sprintf("%s=%s", MARK_NAME, MARK_VALUE)
	env = append(env, mark)

	cmd := exec.Command(os.Args[0], os.Args[1:]...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = env
	return cmd.Start()
}

var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version info",
	Long:  "Print version info",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("version: %v\n", Version)
		fmt.Printf("build time: %v\n", BuildTimeStamp)
		fmt.Printf("git commit hash: %v\n", GitCommitHash)
		os.Exit(0)
	},
}

func InitCmd() {
	var rootCmd = &cobra.Command{
		Use: "cohortcmp",
	}

	rootCmd.PersistentFlags().StringVarP(&ConfigFilePath, "conf", "c", "conf/cohortcmp.yaml", "Config file path")
	rootCmd.PersistentFlags().StringVarP(&LogFilePath, "log", "l", "logs/cohortcmp.log", "Log file path")
	rootCmd.PersistentFlags().StringVarP(&PidFilePath, "pid", "p", "run/cohortcmp.pid", "Pid file path")
	rootCmd.PersistentFlags().StringVarP(&EncryptPassword, "encrypt", "e", "", "encrypt password")
	rootCmd.PersistentFlags().BoolVarP(&Daemon, "daemon", "d", false, "Run as daemon")
	rootCmd.AddCommand(VersionCmd)

	rootCmd.SetUsageFunc(func(cmd *cobra.Command) error {
		return nil
	})
	rootCmd.SetHelpCommand(&cobra.Command{
		Use:   "help",
		Short: "Help about any command",
		Long:  "Help about any command",
		Run: func(cmd *cobra.Command, args []string) {
			rootCmd.SetUsageFunc(nil)
			_ = rootCmd.Help()
			os.Exit(0)
		},
	})
	_ = rootCmd.Execute()
	if EncryptPassword != "" {
		fmt.Println(common.AesEncryptECB(EncryptPassword))
		os.Exit(0)
	}
	fmt.Println("cohortcmp runs comparative cohort analyses on the remote statistical service")
	fmt.Printf("cohortcmp-%v is running...\n", Version)
	fmt.Printf("See more information in %s\n", LogFilePath)
}

// DumpConfig logs the effective config with secrets masked.
func DumpConfig(conf config.CohortConfig) {
	var masked config.CohortConfig
	if err := common.DeepCopyByJson(&masked, &conf); err != nil {
		log.Logger.Errorf("copy config error: %v", err)
		return
	}
	masked.Server.SecretKey = "******"
	masked.Server.SigningKey = "******"
	masked.Nacos.Password = "******"
	for _, section := range masked.PersistentConfig {
		if _, ok := section["password"]; ok {
			section["password"] = "******"
		}
	}
	data, err := jsoniter.MarshalIndent(masked, "", "  ")
	if err != nil {
		log.Logger.Errorf("marshal error: %v", err)
		return
	}
	log.Logger.Infof("%v", string(data))
}
