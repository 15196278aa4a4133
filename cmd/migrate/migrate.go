package migrate

import (
	"fmt"
	"io"
	"os"

	"github.com/hjson/hjson-go/v4"
	"github.com/housepower/cohortcmp/log"
	"github.com/housepower/cohortcmp/model"
	"github.com/housepower/cohortcmp/repository"
	_ "github.com/housepower/cohortcmp/repository/dm8"
	_ "github.com/housepower/cohortcmp/repository/local"
	_ "github.com/housepower/cohortcmp/repository/mysql"
	_ "github.com/housepower/cohortcmp/repository/postgres"
	"github.com/pkg/errors"
)

type PersistentConfig struct {
	Policy string
	Config map[string]interface{}
}

type MigrateConfig struct {
	Source string
	Target string
	PsConf map[string]PersistentConfig `json:"persistent_config"`
}

func ParseConfig(conf string) (MigrateConfig, error) {
	var config MigrateConfig
	f, err := os.Open(conf)
	if err != nil {
		return MigrateConfig{}, errors.Wrap(err, "")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return MigrateConfig{}, errors.Wrap(err, "")
	}
	if len(data) == 0 {
		return MigrateConfig{}, errors.New("empty config file")
	}
	err = hjson.Unmarshal(data, &config)
	if err != nil {
		return MigrateConfig{}, errors.Wrap(err, "")
	}
	return config, nil
}

func PersistentCheck(config MigrateConfig, typo string) (repository.PersistentMgr, error) {
	conf, ok := config.PsConf[typo]
	if !ok {
		return nil, errors.Errorf("empty persistent config %s", typo)
	}
	ps := repository.GetPersistentByName(conf.Policy)
	if ps == nil {
		return nil, errors.Errorf("invalid persistent policy: %s", conf.Policy)
	}
	pcfg := ps.UnmarshalConfig(conf.Config)
	if err := ps.Init(pcfg); err != nil {
		return nil, errors.Errorf("init persistent failed: %v", err)
	}
	return ps, nil
}

// Migrate copies every record from psrc into pdst in one transaction. The
// target assigns new ids, so references between records are rewritten to
// the ids the target handed out.
func Migrate(psrc, pdst repository.PersistentMgr) error {
	sources, err := psrc.GetAllSources()
	if err != nil {
		return err
	}
	cohorts, err := psrc.GetAllCohortDefinitions()
	if err != nil {
		return err
	}
	sets, err := psrc.GetAllConceptSets()
	if err != nil {
		return err
	}
	analyses, err := psrc.GetAllAnalyses()
	if err != nil {
		return err
	}
	jobs, err := psrc.GetAllJobs()
	if err != nil {
		return err
	}
	if len(analyses) == 0 {
		log.Logger.Warnf("analyses have 0 records, only reference data will be migrated")
	}

	if err = pdst.Begin(); err != nil {
		return errors.Wrap(err, "")
	}
	if err = migrate(psrc, pdst, sources, cohorts, sets, analyses, jobs); err != nil {
		_ = pdst.Rollback()
		return err
	}
	if err = pdst.Commit(); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}

func migrate(psrc, pdst repository.PersistentMgr, sources []model.Source, cohorts []model.CohortDefinition,
	sets []model.ConceptSet, analyses []model.Analysis, jobs []model.Job) error {
	for _, src := range sources {
		src := src
		if err := pdst.CreateSource(&src); err != nil {
			return errors.Wrapf(err, "source %s", src.SourceKey)
		}
	}

	cohortIds := map[int]int{0: 0}
	for _, def := range cohorts {
		old := def.Id
		def.Id = 0
		if err := pdst.SaveCohortDefinition(&def); err != nil {
			return errors.Wrapf(err, "cohort definition %d", old)
		}
		cohortIds[old] = def.Id
	}

	setIds := map[int]int{0: 0}
	for _, set := range sets {
		old := set.Id
		set.Id = 0
		if err := pdst.SaveConceptSet(&set); err != nil {
			return errors.Wrapf(err, "concept set %d", old)
		}
		setIds[old] = set.Id
	}

	executionIds := map[int]int{0: 0}
	for _, analysis := range analyses {
		executions, err := psrc.GetExecutionsByAnalysisId(analysis.Id)
		if err != nil {
			return err
		}
		old := analysis.Id
		analysis.Id = 0
		analysis.TreatmentId = cohortIds[analysis.TreatmentId]
		analysis.ComparatorId = cohortIds[analysis.ComparatorId]
		analysis.OutcomeId = cohortIds[analysis.OutcomeId]
		analysis.ExclusionId = setIds[analysis.ExclusionId]
		if err = pdst.SaveAnalysis(&analysis); err != nil {
			return errors.Wrapf(err, "analysis %d", old)
		}
		for _, execution := range executions {
			oldExecution := execution.Id
			execution.AnalysisId = analysis.Id
			execution.TreatmentId = cohortIds[execution.TreatmentId]
			execution.ComparatorId = cohortIds[execution.ComparatorId]
			execution.OutcomeId = cohortIds[execution.OutcomeId]
			execution.ExclusionId = setIds[execution.ExclusionId]
			if err = pdst.CreateExecution(&execution); err != nil {
				return errors.Wrapf(err, "execution %d", oldExecution)
			}
			executionIds[oldExecution] = execution.Id
		}
	}

	for _, job := range jobs {
		if id, ok := executionIds[job.Step.ExecutionId]; ok {
			job.Step.ExecutionId = id
		}
		if job.Step.Parameters != nil {
			job.Step.Parameters["executionId"] = job.Step.ExecutionId
		}
		if err := pdst.CreateJob(job); err != nil {
			return errors.Wrapf(err, "job %s", job.JobId)
		}
	}
	return nil
}

func MigrateHandle(conf string) {
	config, err := ParseConfig(conf)
	if err != nil {
		fmt.Printf("parse config file %s failed: %v\n", conf, err)
		return
	}
	psrc, err := PersistentCheck(config, config.Source)
	if err != nil {
		fmt.Printf("source [%s] err: %v\n", config.Source, err)
		return
	}
	pdst, err := PersistentCheck(config, config.Target)
	if err != nil {
		fmt.Printf("target [%s] err: %v\n", config.Target, err)
		return
	}

	if err = Migrate(psrc, pdst); err != nil {
		fmt.Printf("migrate failed: %v\n", err)
		return
	}
	fmt.Printf("From [%s] migrate to [%s] success!\n", config.Source, config.Target)
}
