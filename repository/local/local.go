package local

import (
	"fmt"
	"os"
	"path"
	"sort"
	"sync"

	"github.com/housepower/cohortcmp/common"
	"github.com/housepower/cohortcmp/log"
	"github.com/housepower/cohortcmp/model"
	"github.com/housepower/cohortcmp/repository"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type LocalPersistent struct {
	Config        LocalConfig
	InTransAction bool
	Data          PersistentData
	Snapshot      PersistentData
	lock          sync.RWMutex
}

func (lp *LocalPersistent) UnmarshalConfig(configMap map[string]interface{}) interface{} {
	var config LocalConfig
	data, err := json.Marshal(configMap)
	if err != nil {
		log.Logger.Errorf("marshal local configMap failed:%v", err)
		return nil
	}
	if err = json.Unmarshal(data, &config); err != nil {
		log.Logger.Errorf("unmarshal local config failed:%v", err)
		return nil
	}
	return config
}

func (lp *LocalPersistent) Init(config interface{}) error {
	if config == nil {
		config = LocalConfig{}
	}
	lp.Config = config.(LocalConfig)
	lp.Config.Normalize()
	lp.InTransAction = false
	lp.Data = newPersistentData()
	lp.Snapshot = newPersistentData()

	if err := lp.load(); err != nil {
		return err
	}
	lp.Data.fill()
	return nil
}

func (lp *LocalPersistent) Begin() error {
	lp.lock.Lock()
	defer lp.lock.Unlock()
	if lp.InTransAction {
		return repository.ErrTransActionBegin
	}
	lp.InTransAction = true
	lp.Snapshot = newPersistentData()
	return common.DeepCopyByJson(&lp.Snapshot, &lp.Data)
}

func (lp *LocalPersistent) Commit() error {
	lp.lock.Lock()
	defer lp.lock.Unlock()
	if !lp.InTransAction {
		return repository.ErrTransActionEnd
	}
	lp.InTransAction = false
	return lp.dump()
}

func (lp *LocalPersistent) Rollback() error {
	lp.lock.Lock()
	defer lp.lock.Unlock()
	if !lp.InTransAction {
		return repository.ErrTransActionEnd
	}
	lp.InTransAction = false
	lp.Data = newPersistentData()
	if err := common.DeepCopyByJson(&lp.Data, &lp.Snapshot); err != nil {
		return err
	}
	lp.Data.fill()
	return nil
}

// must hold the write lock
func (lp *LocalPersistent) nextId(seq string) int {
	lp.Data.Sequences[seq]++
	return lp.Data.Sequences[seq]
}

// must hold the write lock
func (lp *LocalPersistent) changed() error {
	if lp.InTransAction {
		return nil
	}
	return lp.dump()
}

func (lp *LocalPersistent) GetAllAnalyses() ([]model.Analysis, error) {
	lp.lock.RLock()
	defer lp.lock.RUnlock()
	analyses := make([]model.Analysis, 0, len(lp.Data.Analyses))
	for _, analysis := range lp.Data.Analyses {
		analyses = append(analyses, analysis)
	}
	sort.Slice(analyses, func(i, j int) bool { return analyses[i].Id < analyses[j].Id })
	return analyses, nil
}

func (lp *LocalPersistent) GetAnalysisById(id int) (model.Analysis, error) {
	lp.lock.RLock()
	defer lp.lock.RUnlock()
	analysis, ok := lp.Data.Analyses[id]
	if !ok {
		return model.Analysis{}, repository.ErrRecordNotFound
	}
	return analysis, nil
}

func (lp *LocalPersistent) SaveAnalysis(analysis *model.Analysis) error {
	lp.lock.Lock()
	defer lp.lock.Unlock()
	if analysis.Id == 0 {
		analysis.Id = lp.nextId(SeqAnalysis)
	} else if analysis.Id > lp.Data.Sequences[SeqAnalysis] {
		// an explicit id is inserted as is, later ids continue after it
		lp.Data.Sequences[SeqAnalysis] = analysis.Id
	}
	lp.Data.Analyses[analysis.Id] = *analysis
	return lp.changed()
}

func (lp *LocalPersistent) DeleteAnalysis(id int) error {
	lp.lock.Lock()
	defer lp.lock.Unlock()
	delete(lp.Data.Analyses, id)
	return lp.changed()
}

func (lp *LocalPersistent) CreateExecution(execution *model.Execution) error {
	lp.lock.Lock()
	defer lp.lock.Unlock()
	execution.Id = lp.nextId(SeqExecution)
	lp.Data.Executions[execution.Id] = *execution
	return lp.changed()
}

func (lp *LocalPersistent) UpdateExecution(execution model.Execution) error {
	lp.lock.Lock()
	defer lp.lock.Unlock()
	if _, ok := lp.Data.Executions[execution.Id]; !ok {
		return repository.ErrRecordNotFound
	}
	lp.Data.Executions[execution.Id] = execution
	return lp.changed()
}

func (lp *LocalPersistent) GetExecutionById(id int) (model.Execution, error) {
	lp.lock.RLock()
	defer lp.lock.RUnlock()
	execution, ok := lp.Data.Executions[id]
	if !ok {
		return model.Execution{}, repository.ErrRecordNotFound
	}
	return execution, nil
}

func (lp *LocalPersistent) GetExecutionsByAnalysisId(analysisId int) ([]model.Execution, error) {
	lp.lock.RLock()
	defer lp.lock.RUnlock()
	executions := make(model.Executions, 0)
	for _, execution := range lp.Data.Executions {
		if execution.AnalysisId == analysisId {
			executions = append(executions, execution)
		}
	}
	sort.Sort(executions)
	return executions, nil
}

func (lp *LocalPersistent) GetAllSources() ([]model.Source, error) {
	lp.lock.RLock()
	defer lp.lock.RUnlock()
	sources := make([]model.Source, 0, len(lp.Data.Sources))
	for _, source := range lp.Data.Sources {
		repository.DecodeSource(&source)
		sources = append(sources, source)
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i].SourceId < sources[j].SourceId })
	return sources, nil
}

func (lp *LocalPersistent) GetSourceByKey(key string) (model.Source, error) {
	lp.lock.RLock()
	defer lp.lock.RUnlock()
	source, ok := lp.Data.Sources[key]
	if !ok {
		return model.Source{}, repository.ErrRecordNotFound
	}
	repository.DecodeSource(&source)
	return source, nil
}

func (lp *LocalPersistent) CreateSource(source *model.Source) error {
	lp.lock.Lock()
	defer lp.lock.Unlock()
	if _, ok := lp.Data.Sources[source.SourceKey]; ok {
		return repository.ErrRecordExists
	}
	source.SourceId = lp.nextId(SeqSource)
	stored := *source
	repository.EncodeSource(&stored)
	lp.Data.Sources[source.SourceKey] = stored
	return lp.changed()
}

func (lp *LocalPersistent) UpdateSource(source model.Source) error {
	lp.lock.Lock()
	defer lp.lock.Unlock()
	old, ok := lp.Data.Sources[source.SourceKey]
	if !ok {
		return repository.ErrRecordNotFound
	}
	source.SourceId = old.SourceId
	repository.EncodeSource(&source)
	lp.Data.Sources[source.SourceKey] = source
	return lp.changed()
}

func (lp *LocalPersistent) DeleteSource(key string) error {
	lp.lock.Lock()
	defer lp.lock.Unlock()
	delete(lp.Data.Sources, key)
	return lp.changed()
}

func (lp *LocalPersistent) GetAllCohortDefinitions() ([]model.CohortDefinition, error) {
	lp.lock.RLock()
	defer lp.lock.RUnlock()
	defs := make([]model.CohortDefinition, 0, len(lp.Data.CohortDefinitions))
	for _, def := range lp.Data.CohortDefinitions {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Id < defs[j].Id })
	return defs, nil
}

func (lp *LocalPersistent) GetCohortDefinition(id int) (model.CohortDefinition, error) {
	lp.lock.RLock()
	defer lp.lock.RUnlock()
	def, ok := lp.Data.CohortDefinitions[id]
	if !ok {
		return model.CohortDefinition{}, repository.ErrRecordNotFound
	}
	return def, nil
}

func (lp *LocalPersistent) SaveCohortDefinition(def *model.CohortDefinition) error {
	lp.lock.Lock()
	defer lp.lock.Unlock()
	if def.Id == 0 {
		def.Id = lp.nextId(SeqCohort)
	} else if _, ok := lp.Data.CohortDefinitions[def.Id]; !ok {
		return repository.ErrRecordNotFound
	}
	lp.Data.CohortDefinitions[def.Id] = *def
	return lp.changed()
}

func (lp *LocalPersistent) GetAllConceptSets() ([]model.ConceptSet, error) {
	lp.lock.RLock()
	defer lp.lock.RUnlock()
	sets := make([]model.ConceptSet, 0, len(lp.Data.ConceptSets))
	for _, set := range lp.Data.ConceptSets {
		sets = append(sets, set)
	}
	sort.Slice(sets, func(i, j int) bool { return sets[i].Id < sets[j].Id })
	return sets, nil
}

func (lp *LocalPersistent) GetConceptSet(id int) (model.ConceptSet, error) {
	lp.lock.RLock()
	defer lp.lock.RUnlock()
	set, ok := lp.Data.ConceptSets[id]
	if !ok {
		return model.ConceptSet{}, repository.ErrRecordNotFound
	}
	return set, nil
}

func (lp *LocalPersistent) SaveConceptSet(set *model.ConceptSet) error {
	lp.lock.Lock()
	defer lp.lock.Unlock()
	if set.Id == 0 {
		set.Id = lp.nextId(SeqConceptSet)
	} else if _, ok := lp.Data.ConceptSets[set.Id]; !ok {
		return repository.ErrRecordNotFound
	}
	lp.Data.ConceptSets[set.Id] = *set
	return lp.changed()
}

func (lp *LocalPersistent) CreateJob(job model.Job) error {
	lp.lock.Lock()
	defer lp.lock.Unlock()
	if _, ok := lp.Data.Jobs[job.JobId]; ok {
		return repository.ErrRecordExists
	}
	lp.Data.Jobs[job.JobId] = job
	return lp.changed()
}

func (lp *LocalPersistent) UpdateJob(job model.Job) error {
	lp.lock.Lock()
	defer lp.lock.Unlock()
	if _, ok := lp.Data.Jobs[job.JobId]; !ok {
		return repository.ErrRecordNotFound
	}
	lp.Data.Jobs[job.JobId] = job
	return lp.changed()
}

func (lp *LocalPersistent) GetJobById(id string) (model.Job, error) {
	lp.lock.RLock()
	defer lp.lock.RUnlock()
	job, ok := lp.Data.Jobs[id]
	if !ok {
		return model.Job{}, repository.ErrRecordNotFound
	}
	return job, nil
}

func (lp *LocalPersistent) GetAllJobs() ([]model.Job, error) {
	lp.lock.RLock()
	defer lp.lock.RUnlock()
	jobs := make([]model.Job, 0, len(lp.Data.Jobs))
	for _, job := range lp.Data.Jobs {
		jobs = append(jobs, job)
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].CreateTime.After(jobs[j].CreateTime) })
	return jobs, nil
}

func (lp *LocalPersistent) GetPendingJobs(serverIp string) ([]model.Job, error) {
	lp.lock.RLock()
	defer lp.lock.RUnlock()
	var jobs []model.Job
	for _, job := range lp.Data.Jobs {
		if repository.IsPending(job, serverIp) {
			jobs = append(jobs, job)
		}
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].CreateTime.Before(jobs[j].CreateTime) })
	return jobs, nil
}

func (lp *LocalPersistent) DeleteJob(id string) error {
	lp.lock.Lock()
	defer lp.lock.Unlock()
	delete(lp.Data.Jobs, id)
	return lp.changed()
}

func (lp *LocalPersistent) marshal() ([]byte, error) {
	var data []byte
	var err error
	if lp.Config.Format == FORMAT_JSON {
		data, err = json.MarshalIndent(lp.Data, "", "  ")
	} else if lp.Config.Format == FORMAT_YAML {
		data, err = yaml.Marshal(lp.Data)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "")
	}

	return data, nil
}

func (lp *LocalPersistent) unmarshal(data []byte) error {
	var err error
	if len(data) == 0 {
		return nil
	}

	if lp.Config.Format == FORMAT_JSON {
		err = json.Unmarshal(data, &lp.Data)
	} else if lp.Config.Format == FORMAT_YAML {
		err = yaml.Unmarshal(data, &lp.Data)
	}

	if err != nil {
		return errors.Wrapf(err, "")
	}
	return nil
}

func (lp *LocalPersistent) dump() error {
	data, err := lp.marshal()
	if err != nil {
		return err
	}
	localFile := path.Join(lp.Config.ConfigDir, lp.Config.ConfigFile)
	_ = os.Rename(localFile, fmt.Sprintf("%s.last", localFile))
	localFd, err := os.OpenFile(localFile, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return errors.Wrapf(err, "")
	}
	defer localFd.Close()

	num, err := localFd.Write(data)
	if err != nil {
		return errors.Wrapf(err, "")
	}

	if num != len(data) {
		return errors.Errorf("didn't write enough data")
	}

	return nil
}

func (lp *LocalPersistent) load() error {
	localFile := path.Join(lp.Config.ConfigDir, lp.Config.ConfigFile)

	_, err := os.Stat(localFile)
	if err != nil {
		// file does not exist
		return nil
	}

	data, err := os.ReadFile(localFile)
	if err != nil {
		return errors.Wrapf(err, "")
	}

	return lp.unmarshal(data)
}

func NewLocalPersistent() *LocalPersistent {
	return &LocalPersistent{}
}
