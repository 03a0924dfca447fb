package db

import (
	"time"

	"sinfopers/internal/domain/identity"
	"sinfopers/internal/domain/information"
	"sinfopers/internal/domain/leave"
	"sinfopers/internal/domain/personnel"
	"sinfopers/internal/domain/request"
	"sinfopers/internal/domain/staffing"
	"sinfopers/internal/logger"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Config is the gorm configuration every connection uses. TranslateError lets
// repositories see gorm.ErrDuplicatedKey regardless of driver.
func Config() *gorm.Config {
	return &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	}
}

func OpenGorm(dsn string) (*gorm.DB, error) {
	return OpenGormWithDialector(mysql.Open(dsn))
}

func OpenGormWithDialector(dial gorm.Dialector) (*gorm.DB, error) {
	db, err := gorm.Open(dial, Config())
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(30)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	logger.WithComponent("db").Info("gorm: connected", "dialect", dial.Name())
	return db, nil
}

// Models lists every table owned by this service, in dependency order.
func Models() []any {
	return []any{
		&identity.User{},
		&staffing.Unit{},
		&staffing.Rank{},
		&personnel.SubDepartment{},
		&personnel.JobTitle{},
		&staffing.Slot{},
		&staffing.SlotRank{},
		&personnel.Personnel{},
		&leave.Balance{},
		&request.Request{},
		&information.Announcement{},
		&information.Log{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
