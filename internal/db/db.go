package db

import (
	"fmt"
	"regexp"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"carwash/internal/model"
)

// Options selects and tunes the database connection.
type Options struct {
	Driver          string // mysql, postgres or sqlite
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	LogLevel        logger.LogLevel
}

// Open returns a connected GORM DB instance for the configured driver.
func Open(opts Options) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch opts.Driver {
	case "mysql":
		dialector = mysql.Open(opts.DSN)
	case "postgres":
		dialector = postgres.Open(opts.DSN)
	case "sqlite":
		dialector = sqlite.Open(opts.DSN)
	default:
		return nil, fmt.Errorf("unsupported driver %q", opts.Driver)
	}

	level := opts.LogLevel
	if level == 0 {
		level = logger.Warn
	}

	gormCfg := &gorm.Config{
		Logger:  logger.Default.LogMode(level),
		NowFunc: func() time.Time { return time.Now().UTC() },
	}
	// References are resolved by the services; deleting a service or slot never cascades.
	gormCfg.DisableForeignKeyConstraintWhenMigrating = true
	// Unique violations surface as gorm.ErrDuplicatedKey on every driver.
	gormCfg.TranslateError = true

	gormDB, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", opts.Driver, err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	return gormDB, nil
}

var memoryName = regexp.MustCompile(`[^A-Za-z0-9_]`)

// OpenMemory returns an isolated in-memory SQLite database with the schema migrated.
// name keeps concurrent callers apart; pass t.Name() from tests.
func OpenMemory(name string) (*gorm.DB, error) {
	gormDB, err := Open(Options{
		Driver: "sqlite",
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", memoryName.ReplaceAllString(name, "_")),
		// A single connection keeps every query on the same in-memory database.
		MaxOpenConns: 1,
		LogLevel:     logger.Silent,
	})
	if err != nil {
		return nil, err
	}
	if err := Migrate(gormDB); err != nil {
		return nil, err
	}
	return gormDB, nil
}

// Migrate creates or updates the schema for every model.
func Migrate(gormDB *gorm.DB) error {
	if err := gormDB.AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// Reset drops every table. Used when RESET_DB is set.
func Reset(gormDB *gorm.DB) error {
	tables := model.All()
	// Drop dependants first.
	for i := len(tables) - 1; i >= 0; i-- {
		if err := gormDB.Migrator().DropTable(tables[i]); err != nil {
			return fmt.Errorf("drop table: %w", err)
		}
	}
	return nil
}
