package main

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/rs/zerolog/log"
)

var DB *gorm.DB

func InitDB(cfg *Config) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	DB = db
	TunePool(cfg)

	if err := DB.AutoMigrate(&Registration{}); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	log.Info().Msg("database connected and migrated")
}

// TunePool bounds the underlying sql.DB so one slow or broken connection
// cannot monopolize the pool.
func TunePool(cfg *Config) {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Warn().Err(err).Msg("could not tune connection pool")
		return
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxIdleTime(cfg.DBConnMaxIdleTime)
	sqlDB.SetConnMaxLifetime(cfg.DBConnMaxLifetime)
}
