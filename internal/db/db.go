package db

import (
	"fmt"
	"strings"

	"cropdesk/internal/auth"
	"cropdesk/internal/jobs"
	"cropdesk/internal/kv"

	"github.com/glebarez/sqlite"
	mysqldrv "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Connect(driver, dsn string) (*gorm.DB, error) {
	dialector, err := dialectorFor(driver, dsn)
	if err != nil {
		return nil, err
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	if driver == "sqlite" {
		// one writer at a time; the busy_timeout pragma covers the rest
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return gdb, nil
}

func dialectorFor(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "postgres":
		return postgres.Open(dsn), nil
	case "mysql":
		cfg, err := mysqldrv.ParseDSN(dsn)
		if err != nil {
			return nil, fmt.Errorf("parse mysql dsn: %w", err)
		}
		// time.Time columns need parseTime
		cfg.ParseTime = true
		return mysql.Open(cfg.FormatDSN()), nil
	case "sqlite":
		return sqlite.Open(sqliteDSN(dsn)), nil
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
}

func sqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path
	}
	return path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

// AutoMigrate creates the tables and the indexes declared on the models
// (idx_jobs_due, idx_jobs_lock). It is safe to run on every start.
func AutoMigrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(
		&kv.Entry{},
		&auth.User{},
		&jobs.Job{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	m := gdb.Migrator()
	for _, name := range []string{"idx_jobs_due", "idx_jobs_lock"} {
		if !m.HasIndex(&jobs.Job{}, name) {
			return fmt.Errorf("index %s missing after migrate", name)
		}
	}
	return nil
}
