// Package rdbms is the gorm implementation of repository.PersistentMgr shared
// by the mysql, postgres and dm8 backends. A backend only opens the dialector
// and hands it over.
package rdbms

import (
	"time"

	"github.com/housepower/cohortcmp/log"
	"github.com/housepower/cohortcmp/model"
	"github.com/housepower/cohortcmp/repository"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"moul.io/zapgorm2"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type PoolConfig struct {
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime int
	ConnMaxIdleTime int
}

type Options struct {
	// passed as gorm:table_options when migrating, mysql only
	TableOptions       string
	DisableForeignKeys bool
}

type GormPersistent struct {
	Client   *gorm.DB
	ParentDB *gorm.DB
}

func NewGormPersistent(db *gorm.DB) *GormPersistent {
	return &GormPersistent{Client: db, ParentDB: db}
}

// Open connects through dialector, sets up the pool and creates the tables.
func Open(dialector gorm.Dialector, pool PoolConfig, opts Options) (*GormPersistent, error) {
	logger := zapgorm2.New(log.ZapLog)
	logger.SetAsDefault()
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                                   logger,
		DisableForeignKeyConstraintWhenMigrating: opts.DisableForeignKeys,
	})
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "")
	}

	// set connection pool
	if sqlDB != nil {
		sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
		sqlDB.SetConnMaxIdleTime(time.Second * time.Duration(pool.ConnMaxIdleTime))
		sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
		sqlDB.SetConnMaxLifetime(time.Second * time.Duration(pool.ConnMaxLifetime))
	}

	//auto create table
	migrator := db
	if opts.TableOptions != "" {
		migrator = db.Set("gorm:table_options", opts.TableOptions)
	}
	if err = migrator.AutoMigrate(Tables()...); err != nil {
		return nil, errors.Wrap(err, "")
	}
	return NewGormPersistent(db), nil
}

func (gp *GormPersistent) Begin() error {
	if gp.Client != gp.ParentDB {
		return repository.ErrTransActionBegin
	}
	tx := gp.Client.Begin()
	gp.Client = tx
	return tx.Error
}

func (gp *GormPersistent) Rollback() error {
	if gp.Client == gp.ParentDB {
		return repository.ErrTransActionEnd
	}
	tx := gp.Client.Rollback()
	gp.Client = gp.ParentDB
	return tx.Error
}

func (gp *GormPersistent) Commit() error {
	if gp.Client == gp.ParentDB {
		return repository.ErrTransActionEnd
	}
	tx := gp.Client.Commit()
	gp.Client = gp.ParentDB
	return tx.Error
}

func (gp *GormPersistent) GetAllAnalyses() ([]model.Analysis, error) {
	var tables []TblAnalysis
	tx := gp.Client.Order("id").Find(&tables)
	if tx.Error != nil && tx.Error != gorm.ErrRecordNotFound {
		return nil, errors.Wrap(tx.Error, "")
	}
	analyses := make([]model.Analysis, 0, len(tables))
	for _, table := range tables {
		var analysis model.Analysis
		if err := json.Unmarshal([]byte(table.Config), &analysis); err != nil {
			return nil, errors.Wrap(err, "")
		}
		analysis.Id = table.Id
		analyses = append(analyses, analysis)
	}
	return analyses, nil
}

func (gp *GormPersistent) GetAnalysisById(id int) (model.Analysis, error) {
	var table TblAnalysis
	tx := gp.Client.Where("id = ?", id).First(&table)
	if tx.Error != nil {
		return model.Analysis{}, wrapError(tx.Error)
	}
	var analysis model.Analysis
	if err := json.Unmarshal([]byte(table.Config), &analysis); err != nil {
		return model.Analysis{}, errors.Wrap(err, "")
	}
	analysis.Id = table.Id
	return analysis, nil
}

func (gp *GormPersistent) SaveAnalysis(analysis *model.Analysis) error {
	if analysis.Id == 0 {
		table := TblAnalysis{Name: analysis.Name}
		if tx := gp.Client.Create(&table); tx.Error != nil {
			return errors.Wrap(tx.Error, "")
		}
		analysis.Id = table.Id
	} else if _, err := gp.GetAnalysisById(analysis.Id); err != nil {
		if err != repository.ErrRecordNotFound {
			return err
		}
		table := TblAnalysis{Id: analysis.Id, Name: analysis.Name}
		if tx := gp.Client.Create(&table); tx.Error != nil {
			return errors.Wrap(tx.Error, "")
		}
	}
	config, err := json.Marshal(analysis)
	if err != nil {
		return errors.Wrap(err, "")
	}
	tx := gp.Client.Model(&TblAnalysis{}).Where("id = ?", analysis.Id).
		Updates(map[string]interface{}{"name": analysis.Name, "config": string(config)})
	return wrapError(tx.Error)
}

func (gp *GormPersistent) DeleteAnalysis(id int) error {
	tx := gp.Client.Where("id = ?", id).Delete(&TblAnalysis{})
	return wrapError(tx.Error)
}

func (gp *GormPersistent) CreateExecution(execution *model.Execution) error {
	table := TblExecution{AnalysisId: execution.AnalysisId}
	if tx := gp.Client.Create(&table); tx.Error != nil {
		return errors.Wrap(tx.Error, "")
	}
	execution.Id = table.Id
	return gp.UpdateExecution(*execution)
}

func (gp *GormPersistent) UpdateExecution(execution model.Execution) error {
	config, err := json.Marshal(execution)
	if err != nil {
		return errors.Wrap(err, "")
	}
	tx := gp.Client.Model(&TblExecution{}).Where("id = ?", execution.Id).
		Updates(map[string]interface{}{"analysis_id": execution.AnalysisId, "config": string(config)})
	if tx.Error != nil {
		return wrapError(tx.Error)
	}
	if tx.RowsAffected == 0 {
		return repository.ErrRecordNotFound
	}
	return nil
}

func (gp *GormPersistent) GetExecutionById(id int) (model.Execution, error) {
	var table TblExecution
	tx := gp.Client.Where("id = ?", id).First(&table)
	if tx.Error != nil {
		return model.Execution{}, wrapError(tx.Error)
	}
	var execution model.Execution
	if err := json.Unmarshal([]byte(table.Config), &execution); err != nil {
		return model.Execution{}, errors.Wrap(err, "")
	}
	execution.Id = table.Id
	return execution, nil
}

func (gp *GormPersistent) GetExecutionsByAnalysisId(analysisId int) ([]model.Execution, error) {
	var tables []TblExecution
	tx := gp.Client.Where("analysis_id = ?", analysisId).Order("id DESC").Find(&tables)
	if tx.Error != nil && tx.Error != gorm.ErrRecordNotFound {
		return nil, errors.Wrap(tx.Error, "")
	}
	executions := make([]model.Execution, 0, len(tables))
	for _, table := range tables {
		var execution model.Execution
		if err := json.Unmarshal([]byte(table.Config), &execution); err != nil {
			return nil, errors.Wrap(err, "")
		}
		execution.Id = table.Id
		executions = append(executions, execution)
	}
	return executions, nil
}

func (gp *GormPersistent) GetAllSources() ([]model.Source, error) {
	var tables []TblSource
	tx := gp.Client.Order("id").Find(&tables)
	if tx.Error != nil && tx.Error != gorm.ErrRecordNotFound {
		return nil, errors.Wrap(tx.Error, "")
	}
	sources := make([]model.Source, 0, len(tables))
	for _, table := range tables {
		source, err := decodeSource(table)
		if err != nil {
			return nil, err
		}
		sources = append(sources, source)
	}
	return sources, nil
}

func (gp *GormPersistent) GetSourceByKey(key string) (model.Source, error) {
	var table TblSource
	tx := gp.Client.Where("source_key = ?", key).First(&table)
	if tx.Error != nil {
		return model.Source{}, wrapError(tx.Error)
	}
	return decodeSource(table)
}

func (gp *GormPersistent) CreateSource(source *model.Source) error {
	if _, err := gp.GetSourceByKey(source.SourceKey); err == nil {
		//means already exists
		return repository.ErrRecordExists
	}
	table := TblSource{SourceKey: source.SourceKey}
	if tx := gp.Client.Create(&table); tx.Error != nil {
		return errors.Wrap(tx.Error, "")
	}
	source.SourceId = table.Id
	return gp.UpdateSource(*source)
}

func (gp *GormPersistent) UpdateSource(source model.Source) error {
	var table TblSource
	tx := gp.Client.Where("source_key = ?", source.SourceKey).First(&table)
	if tx.Error != nil {
		return wrapError(tx.Error)
	}
	source.SourceId = table.Id
	repository.EncodeSource(&source)
	config, err := json.Marshal(source)
	if err != nil {
		return errors.Wrap(err, "")
	}
	tx = gp.Client.Model(&TblSource{}).Where("id = ?", table.Id).Update("config", string(config))
	return wrapError(tx.Error)
}

func (gp *GormPersistent) DeleteSource(key string) error {
	tx := gp.Client.Where("source_key = ?", key).Delete(&TblSource{})
	return wrapError(tx.Error)
}

func (gp *GormPersistent) GetAllCohortDefinitions() ([]model.CohortDefinition, error) {
	var tables []TblCohortDefinition
	tx := gp.Client.Order("id").Find(&tables)
	if tx.Error != nil && tx.Error != gorm.ErrRecordNotFound {
		return nil, errors.Wrap(tx.Error, "")
	}
	defs := make([]model.CohortDefinition, 0, len(tables))
	for _, table := range tables {
		var def model.CohortDefinition
		if err := json.Unmarshal([]byte(table.Config), &def); err != nil {
			return nil, errors.Wrap(err, "")
		}
		def.Id = table.Id
		defs = append(defs, def)
	}
	return defs, nil
}

func (gp *GormPersistent) GetCohortDefinition(id int) (model.CohortDefinition, error) {
	var table TblCohortDefinition
	tx := gp.Client.Where("id = ?", id).First(&table)
	if tx.Error != nil {
		return model.CohortDefinition{}, wrapError(tx.Error)
	}
	var def model.CohortDefinition
	if err := json.Unmarshal([]byte(table.Config), &def); err != nil {
		return model.CohortDefinition{}, errors.Wrap(err, "")
	}
	def.Id = table.Id
	return def, nil
}

func (gp *GormPersistent) SaveCohortDefinition(def *model.CohortDefinition) error {
	if def.Id == 0 {
		table := TblCohortDefinition{Name: def.Name}
		if tx := gp.Client.Create(&table); tx.Error != nil {
			return errors.Wrap(tx.Error, "")
		}
		def.Id = table.Id
	} else if _, err := gp.GetCohortDefinition(def.Id); err != nil {
		return err
	}
	config, err := json.Marshal(def)
	if err != nil {
		return errors.Wrap(err, "")
	}
	tx := gp.Client.Model(&TblCohortDefinition{}).Where("id = ?", def.Id).
		Updates(map[string]interface{}{"name": def.Name, "config": string(config)})
	return wrapError(tx.Error)
}

func (gp *GormPersistent) GetAllConceptSets() ([]model.ConceptSet, error) {
	var tables []TblConceptSet
	tx := gp.Client.Order("id").Find(&tables)
	if tx.Error != nil && tx.Error != gorm.ErrRecordNotFound {
		return nil, errors.Wrap(tx.Error, "")
	}
	sets := make([]model.ConceptSet, 0, len(tables))
	for _, table := range tables {
		var set model.ConceptSet
		if err := json.Unmarshal([]byte(table.Config), &set); err != nil {
			return nil, errors.Wrap(err, "")
		}
		set.Id = table.Id
		sets = append(sets, set)
	}
	return sets, nil
}

func (gp *GormPersistent) GetConceptSet(id int) (model.ConceptSet, error) {
	var table TblConceptSet
	tx := gp.Client.Where("id = ?", id).First(&table)
	if tx.Error != nil {
		return model.ConceptSet{}, wrapError(tx.Error)
	}
	var set model.ConceptSet
	if err := json.Unmarshal([]byte(table.Config), &set); err != nil {
		return model.ConceptSet{}, errors.Wrap(err, "")
	}
	set.Id = table.Id
	return set, nil
}

func (gp *GormPersistent) SaveConceptSet(set *model.ConceptSet) error {
	if set.Id == 0 {
		table := TblConceptSet{Name: set.Name}
		if tx := gp.Client.Create(&table); tx.Error != nil {
			return errors.Wrap(tx.Error, "")
		}
		set.Id = table.Id
	} else if _, err := gp.GetConceptSet(set.Id); err != nil {
		return err
	}
	config, err := json.Marshal(set)
	if err != nil {
		return errors.Wrap(err, "")
	}
	tx := gp.Client.Model(&TblConceptSet{}).Where("id = ?", set.Id).
		Updates(map[string]interface{}{"name": set.Name, "config": string(config)})
	return wrapError(tx.Error)
}

func (gp *GormPersistent) CreateJob(job model.Job) error {
	if _, err := gp.GetJobById(job.JobId); err == nil {
		//means already exists
		return repository.ErrRecordExists
	}
	config, err := json.Marshal(job)
	if err != nil {
		return errors.Wrap(err, "")
	}
	table := TblJob{
		JobId:      job.JobId,
		Status:     job.Status,
		ServerIp:   job.ServerIp,
		CreateTime: job.CreateTime,
		Config:     string(config),
	}
	tx := gp.Client.Create(&table)
	return wrapError(tx.Error)
}

func (gp *GormPersistent) UpdateJob(job model.Job) error {
	config, err := json.Marshal(job)
	if err != nil {
		return errors.Wrap(err, "")
	}
	tx := gp.Client.Model(&TblJob{}).Where("job_id = ?", job.JobId).
		Updates(map[string]interface{}{"status": job.Status, "server_ip": job.ServerIp, "config": string(config)})
	if tx.Error != nil {
		return wrapError(tx.Error)
	}
	if tx.RowsAffected == 0 {
		return repository.ErrRecordNotFound
	}
	return nil
}

func (gp *GormPersistent) GetJobById(id string) (model.Job, error) {
	var table TblJob
	tx := gp.Client.Where("job_id = ?", id).First(&table)
	if tx.Error != nil {
		return model.Job{}, wrapError(tx.Error)
	}
	var job model.Job
	if err := json.Unmarshal([]byte(table.Config), &job); err != nil {
		return model.Job{}, errors.Wrap(err, "")
	}
	return job, nil
}

func (gp *GormPersistent) GetAllJobs() ([]model.Job, error) {
	var tables []TblJob
	tx := gp.Client.Order("create_time DESC").Find(&tables)
	if tx.Error != nil && tx.Error != gorm.ErrRecordNotFound {
		return nil, errors.Wrap(tx.Error, "")
	}
	return decodeJobs(tables)
}

func (gp *GormPersistent) GetPendingJobs(serverIp string) ([]model.Job, error) {
	var tables []TblJob
	tx := gp.Client.Where("status = ? AND server_ip = ?", model.JobStatusWaiting, serverIp).Order("create_time").Find(&tables)
	if tx.Error != nil && tx.Error != gorm.ErrRecordNotFound {
		return nil, errors.Wrap(tx.Error, "")
	}
	return decodeJobs(tables)
}

func (gp *GormPersistent) DeleteJob(id string) error {
	tx := gp.Client.Where("job_id = ?", id).Delete(&TblJob{})
	return wrapError(tx.Error)
}

func decodeSource(table TblSource) (model.Source, error) {
	var source model.Source
	if err := json.Unmarshal([]byte(table.Config), &source); err != nil {
		return model.Source{}, errors.Wrap(err, "")
	}
	source.SourceId = table.Id
	source.SourceKey = table.SourceKey
	repository.DecodeSource(&source)
	return source, nil
}

func decodeJobs(tables []TblJob) ([]model.Job, error) {
	jobs := make([]model.Job, 0, len(tables))
	for _, table := range tables {
		var job model.Job
		if err := json.Unmarshal([]byte(table.Config), &job); err != nil {
			return nil, errors.Wrap(err, "")
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func wrapError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = repository.ErrRecordNotFound
	}
	return err
}
