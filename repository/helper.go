package repository

import (
	"fmt"

	"github.com/housepower/cohortcmp/common"
	"github.com/housepower/cohortcmp/model"
)

var (
	ErrRecordNotFound   = fmt.Errorf("record not found")
	ErrRecordExists     = fmt.Errorf("record is exists already")
	ErrTransActionBegin = fmt.Errorf("transaction already begin")
	ErrTransActionEnd   = fmt.Errorf("transaction already commit or rollback")
)

// The connection string holds the database credentials, it never reaches a
// store in clear text.
func EncodeSource(source *model.Source) {
	source.SourceConnection = common.AesEncryptECB(source.SourceConnection)
}

func DecodeSource(source *model.Source) {
	source.SourceConnection = common.AesDecryptECB(source.SourceConnection)
	// the local store shares the daimon slice with its in-memory data
	daimons := make([]model.SourceDaimon, len(source.Daimons))
	copy(daimons, source.Daimons)
	source.Daimons = daimons
}

// IsPending tells whether the job still has to be picked up by the runner on
// serverIp.
func IsPending(job model.Job, serverIp string) bool {
	return job.Status == model.JobStatusWaiting && job.ServerIp == serverIp
}
