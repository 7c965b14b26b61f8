// Package mysql opens the identity directory database and builds the
// repository layer on top of it.
package mysql

import (
	"fmt"

	"bsu_chat_server/internal/config"
	"bsu_chat_server/internal/dao/mysql/repository"
	"bsu_chat_server/internal/model"

	"go.uber.org/zap"
	mysqldriver "gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Init opens the configured database, migrates the schema and returns the
// repositories. Failures here are fatal to startup.
func Init(conf *config.Config) (*gorm.DB, *repository.Repositories) {
	db, err := Open(conf)
	if err != nil {
		zap.L().Fatal("open database failed", zap.String("driver", conf.Driver), zap.Error(err))
	}
	if err := Migrate(db); err != nil {
		zap.L().Fatal("auto migrate failed", zap.Error(err))
	}
	zap.L().Info("database ready", zap.String("driver", conf.Driver))
	return db, repository.NewRepositories(db)
}

// Open connects with the driver named in databaseConfig.
func Open(conf *config.Config) (*gorm.DB, error) {
	gormConf := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}

	switch conf.Driver {
	case "sqlite":
		db, err := gorm.Open(sqlite.Open(conf.SqlitePath), gormConf)
		if err != nil {
			return nil, err
		}
		// sqlite allows a single writer
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.SetMaxOpenConns(1)
		}
		return db, nil
	case "mysql", "":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			conf.MysqlConfig.User,
			conf.MysqlConfig.Password,
			conf.MysqlConfig.Host,
			conf.MysqlConfig.Port,
			conf.MysqlConfig.DatabaseName,
		)
		return gorm.Open(mysqldriver.Open(dsn), gormConf)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", conf.Driver)
	}
}

// Migrate creates or updates every table of the identity directory.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.UserInfo{},
		&model.AdminUser{},
		&model.BlockedUser{},
		&model.Report{},
		&model.Setting{},
	)
}
