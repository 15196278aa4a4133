package repository

import (
	"github.com/housepower/cohortcmp/config"
	"github.com/housepower/cohortcmp/model"
	"github.com/pkg/errors"
)

var Ps PersistentMgr

// Global registry to mapping adapter name to the adapter factory
var PersistentRegistry map[string]PersistentFactory = make(map[string]PersistentFactory)

type PersistentFactory interface {
	GetPersistentName() string
	// Create an adapter instance
	CreatePersistent() PersistentMgr
}

type PersistentMgr interface {
	UnmarshalConfig(configMap map[string]interface{}) interface{}

	Init(config interface{}) error

	//start transaction
	Begin() error

	//commit transaction
	Commit() error

	Rollback() error

	GetAllAnalyses() ([]model.Analysis, error)
	GetAnalysisById(id int) (model.Analysis, error)
	// insert when analysis.Id is 0 and assign the new id, update otherwise
	SaveAnalysis(analysis *model.Analysis) error
	DeleteAnalysis(id int) error

	// assigns execution.Id
	CreateExecution(execution *model.Execution) error
	UpdateExecution(execution model.Execution) error
	GetExecutionById(id int) (model.Execution, error)
	GetExecutionsByAnalysisId(analysisId int) ([]model.Execution, error)

	GetAllSources() ([]model.Source, error)
	GetSourceByKey(key string) (model.Source, error)
	CreateSource(source *model.Source) error
	UpdateSource(source model.Source) error
	DeleteSource(key string) error

	GetAllCohortDefinitions() ([]model.CohortDefinition, error)
	GetCohortDefinition(id int) (model.CohortDefinition, error)
	SaveCohortDefinition(def *model.CohortDefinition) error

	GetAllConceptSets() ([]model.ConceptSet, error)
	GetConceptSet(id int) (model.ConceptSet, error)
	SaveConceptSet(set *model.ConceptSet) error

	CreateJob(job model.Job) error
	UpdateJob(job model.Job) error
	GetJobById(id string) (model.Job, error)
	GetAllJobs() ([]model.Job, error)
	GetPendingJobs(serverIp string) ([]model.Job, error)
	DeleteJob(id string) error
}

func RegistePersistent(fn func() PersistentFactory) {
	if fn == nil {
		return
	}
	factory := fn()
	name := factory.GetPersistentName()
	if name == "" {
		panic("Empty persistent name when registe persistent factory")
	}
	PersistentRegistry[name] = factory
}

func GetPersistentByName(name string) PersistentMgr {
	if factory, ok := PersistentRegistry[name]; ok {
		return factory.CreatePersistent()
	}
	return nil
}

func InitPersistent() error {
	if Ps == nil {
		Ps = GetPersistentByName(config.GlobalConfig.Server.PersistentPolicy)
	}
	if Ps == nil {
		return errors.Errorf("persistent policy %s is not regist", config.GlobalConfig.Server.PersistentPolicy)
	}

	var pcfg interface{}
	if config.GlobalConfig.PersistentConfig != nil {
		configMap, ok := config.GlobalConfig.PersistentConfig[config.GlobalConfig.Server.PersistentPolicy]
		if ok {
			pcfg = Ps.UnmarshalConfig(configMap)
		}
	}
	return Ps.Init(pcfg)
}
