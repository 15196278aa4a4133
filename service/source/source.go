// Package source resolves registered CDM sources and runs read-only queries
// against them.
package source

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/housepower/cohortcmp/config"
	"github.com/housepower/cohortcmp/log"
	"github.com/housepower/cohortcmp/model"
	"github.com/housepower/cohortcmp/repository"
	"github.com/housepower/cohortcmp/sqlrender"
	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	"moul.io/zapgorm2"
)

// OpenFunc opens a connection to a source. Tests replace it to hand out
// mocked connections.
type OpenFunc func(src model.Source) (*gorm.DB, error)

type SourceService struct {
	conns *cache.Cache
	open  OpenFunc
	lock  sync.Mutex
}

var (
	service     *SourceService
	serviceOnce sync.Once
)

// GetSourceService returns the process wide service whose connection cache
// follows the sources section of the config.
func GetSourceService() *SourceService {
	serviceOnce.Do(func() {
		service = NewSourceService(Open)
	})
	return service
}

func NewSourceService(open OpenFunc) *SourceService {
	ttl := time.Duration(config.GlobalConfig.Sources.ConnTTL) * time.Second
	if ttl <= 0 {
		ttl = time.Hour
	}
	// expired connections are closed by Sweep, driven by the cron service
	conns := cache.New(ttl, 0)
	conns.OnEvicted(func(key string, value interface{}) {
		if db, ok := value.(*gorm.DB); ok {
			closeDB(key, db)
		}
	})
	return &SourceService{conns: conns, open: open}
}

func (s *SourceService) GetSource(key string) (model.Source, error) {
	src, err := repository.Ps.GetSourceByKey(key)
	if err != nil {
		return model.Source{}, err
	}
	return src, nil
}

func (s *SourceService) GetAllSources() ([]model.Source, error) {
	return repository.Ps.GetAllSources()
}

func (s *SourceService) SaveSource(src *model.Source) error {
	if err := src.Validate(); err != nil {
		return err
	}
	if _, err := s.GetSource(src.SourceKey); err == nil {
		s.Evict(src.SourceKey)
		return repository.Ps.UpdateSource(*src)
	}
	return repository.Ps.CreateSource(src)
}

func (s *SourceService) DeleteSource(key string) error {
	s.Evict(key)
	return repository.Ps.DeleteSource(key)
}

// DB returns the cached connection of a source, opening it on first use.
func (s *SourceService) DB(src model.Source) (*gorm.DB, error) {
	if v, ok := s.conns.Get(src.SourceKey); ok {
		return v.(*gorm.DB), nil
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	if v, ok := s.conns.Get(src.SourceKey); ok {
		return v.(*gorm.DB), nil
	}
	// an expired entry is still held by the cache until swept
	s.conns.Delete(src.SourceKey)
	db, err := s.open(src)
	if err != nil {
		return nil, err
	}
	s.conns.SetDefault(src.SourceKey, db)
	return db, nil
}

// Evict drops and closes the cached connection of a source.
func (s *SourceService) Evict(key string) {
	s.conns.Delete(key)
}

// Sweep closes connections idle for longer than the configured ttl.
func (s *SourceService) Sweep() {
	s.conns.DeleteExpired()
}

// CloseAll closes every cached connection.
func (s *SourceService) CloseAll() {
	s.conns.DeleteExpired()
	for key := range s.conns.Items() {
		s.conns.Delete(key)
	}
}

func (s *SourceService) ConnectionCount() int {
	return s.conns.ItemCount()
}

// Dialector picks the gorm driver for a source dialect.
func Dialector(dialect, dsn string) (gorm.Dialector, error) {
	switch sqlrender.NormalizeDialect(dialect) {
	case sqlrender.DialectPostgreSQL, sqlrender.DialectRedshift:
		return postgres.New(postgres.Config{DSN: dsn, PreferSimpleProtocol: true}), nil
	case sqlrender.DialectMySQL:
		return mysql.Open(dsn), nil
	case sqlrender.DialectSqlServer, sqlrender.DialectPdw:
		return sqlserver.Open(dsn), nil
	}
	return nil, errors.Errorf("no driver for dialect %q", dialect)
}

// Open connects to a source with the pool settings of the sources config.
func Open(src model.Source) (*gorm.DB, error) {
	dsn, err := ToDSN(src.SourceDialect, src.SourceConnection)
	if err != nil {
		return nil, err
	}
	dialector, err := Dialector(src.SourceDialect, dsn)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 zapgorm2.New(log.ZapLog),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "connect source %s", src.SourceKey)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	cfg := config.GlobalConfig.Sources
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Second)
	log.Logger.Infof("connected to source %s (%s)", src.SourceKey, src.SourceDialect)
	return db, nil
}

func closeDB(key string, db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err = sqlDB.Close(); err != nil {
		log.Logger.Warnf("close connection of source %s: %v", key, err)
		return
	}
	log.Logger.Debugf("closed connection of source %s", key)
}

// Query runs a rendered and translated script and maps every row of its last
// statement onto T through the gorm column tags of T. Earlier statements are
// executed for their side effects. The result is never nil.
func Query[T any](ctx context.Context, db *gorm.DB, script string) ([]T, error) {
	stmts := sqlrender.SplitSQL(script)
	if len(stmts) == 0 {
		return nil, errors.New("empty sql")
	}
	tx := db.WithContext(ctx)
	for _, stmt := range stmts[:len(stmts)-1] {
		if err := tx.Exec(stmt).Error; err != nil {
			return nil, errors.Wrap(err, stmt)
		}
	}
	last := stmts[len(stmts)-1]
	rows, err := tx.Raw(last).Rows()
	if err != nil {
		return nil, errors.Wrap(err, last)
	}
	defer rows.Close()
	return scanRows[T](tx, rows)
}

func scanRows[T any](db *gorm.DB, rows *sql.Rows) ([]T, error) {
	out := make([]T, 0)
	for rows.Next() {
		var item T
		if err := db.ScanRows(rows, &item); err != nil {
			return nil, errors.Wrap(err, "")
		}
		out = append(out, item)
	}
	return out, errors.Wrap(rows.Err(), "")
}
