package vmdb

import (
	"fmt"
	"time"

	"github.com/apex/log"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/vendingops/vmconsole/pkg/config"
	"github.com/vendingops/vmconsole/pkg/docstore"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	_ "modernc.org/sqlite"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// MakeDSNFromEnv builds a MySQL DSN from the DB_* keys.
func MakeDSNFromEnv(c config.Configer) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.GetKey("DB_USERNAME"),
		c.GetKey("DB_PASSWORD"),
		c.GetKeyWithDefault("DB_HOST", "127.0.0.1"),
		c.GetKeyWithDefault("DB_PORT", "3306"),
		c.GetKey("DB_DATABASE"))
}

// DSN returns VMC_DB_DSN, falling back to the DB_* keys for MySQL.
func DSN(c config.Configer, driver string) string {
	if dsn := c.GetKey("VMC_DB_DSN"); dsn != "" {
		return dsn
	}

	if driver == DriverMySQL {
		return MakeDSNFromEnv(c)
	}

	return ""
}

// Open connects once with the given driver.
func Open(driver, dsn string) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	switch driver {
	case DriverMySQL:
		return gorm.Open(mysql.Open(dsn), gormConfig)

	case DriverPostgres:
		pgConfig, err := pgx.ParseConfig(dsn)
		if err != nil {
			return nil, fmt.Errorf("invalid postgres dsn: %w", err)
		}
		return gorm.Open(postgres.New(postgres.Config{Conn: stdlib.OpenDB(*pgConfig)}), gormConfig)

	case DriverSQLite:
		db, err := gorm.Open(sqlite.Dialector{DriverName: "sqlite", DSN: dsn}, gormConfig)
		if err != nil {
			return nil, err
		}

		// a single writer avoids SQLITE_BUSY under concurrent batch saves
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
		return db, nil

	default:
		return nil, fmt.Errorf("unknown database driver %q", driver)
	}
}

const maxDBRetries = 5

// MustConnectToDB tries Open maxDBRetries times, three seconds apart, then
// gives up with log.Fatalf.
func MustConnectToDB(driver, dsn string) *gorm.DB {
	retryCount := 1
	for {
		db, err := Open(driver, dsn)
		switch {
		case err == nil:
			return db
		case retryCount >= maxDBRetries:
			log.Fatalf("Failed to open %s db: %s", driver, err)
		default:
			log.Warnf("Unable to open %s db (attempt %d): %s", driver, retryCount, err)
			retryCount++
			time.Sleep(3 * time.Second)
		}
	}
}

// GetTxRetry reads VMC_TX_RETRY; anything below 3 becomes 3.
func GetTxRetry(c config.Configer) int {
	retry := c.GetIntKeyWithDefault("VMC_TX_RETRY", 3)
	if retry < 3 {
		retry = 3
	}

	return retry
}

// RunMigrations creates the tables the console needs.
func RunMigrations(db *gorm.DB) error {
	return docstore.Migrate(db)
}

// OpenDocumentStore builds the docstore selected by VMC_DB_DRIVER. The
// memory driver needs no database and is meant for demos and tests.
func OpenDocumentStore(c config.Configer) (docstore.Store, error) {
	driver := c.GetKeyWithDefault("VMC_DB_DRIVER", DriverSQLite)
	if driver == DriverMemory {
		return docstore.NewMemoryStore(), nil
	}

	dsn := DSN(c, driver)
	if dsn == "" && driver == DriverSQLite {
		dsn = "vmconsole.db"
	}

	db := MustConnectToDB(driver, dsn)
	if err := RunMigrations(db); err != nil {
		return nil, fmt.Errorf("migrations failed: %w", err)
	}

	return docstore.NewGormStore(db, GetTxRetry(c)), nil
}
