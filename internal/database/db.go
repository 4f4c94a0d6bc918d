package database

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"cnb.cool/zhiqiangwang/pkg/logx"
	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/opsre/trafficmind/internal/config"
)

var (
	db   *gorm.DB
	once sync.Once
)

// Init 初始化数据库连接(进程内只执行一次)
func Init(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	var initErr error
	once.Do(func() {
		db, initErr = open(cfg)
	})
	if initErr != nil {
		return nil, initErr
	}
	return db, nil
}

// open 按配置打开数据库连接
func open(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		// 禁用外键(指定外键时不会在sqlite创建真实的外键约束)
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logger.Warn),
	}

	var (
		conn *gorm.DB
		err  error
	)

	switch cfg.Driver {
	case "mysql":
		conn, err = gorm.Open(mysql.Open(cfg.DSN), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect mysql: %w", err)
		}
	default:
		dbPath := cfg.Path
		if dbPath == "" {
			dbPath = "./data/trafficmind.db"
		}

		// 确保数据目录存在
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}

		conn, err = gorm.Open(sqlite.Open(dbPath), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect sqlite: %w", err)
		}

		// 参见： https://github.com/glebarez/sqlite/issues/52
		// SQLite 只支持单个写入连接
		sqlDB, err := conn.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sqlite database object: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	// 自动迁移数据库表结构
	if err := AutoMigrate(conn); err != nil {
		return nil, fmt.Errorf("failed to auto migrate: %w", err)
	}

	logx.Info("Database initialized, driver %s", cfg.Driver)
	return conn, nil
}

// Close 关闭数据库连接
func Close() error {
	if db == nil {
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}
