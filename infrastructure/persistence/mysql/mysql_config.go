package mysql

import (
	"fmt"
	"time"

	appconfig "ddd-course/config"
	"ddd-course/infrastructure/persistence/mysql/po"
	"ddd-course/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	DefaultMaxOpenConns    = 25
	DefaultMaxIdleConns    = 10
	DefaultConnMaxLifetime = 10 * time.Minute
	DefaultConnMaxIdleTime = 5 * time.Minute
)

type Config struct {
	Host            string        `mapstructure:"host" json:"host"`
	Port            string        `mapstructure:"port" json:"port"`
	Username        string        `mapstructure:"username" json:"username"`
	Password        string        `mapstructure:"password" json:"password"`
	Database        string        `mapstructure:"database" json:"database"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" json:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" json:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" json:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time" json:"conn_max_idle_time"`
	LogLevel        string        `mapstructure:"log_level" json:"log_level"`
	SlowThreshold   time.Duration `mapstructure:"slow_threshold" json:"slow_threshold"`
}

// FromAppConfig maps the application database section
func FromAppConfig(cfg *appconfig.Config) *Config {
	db := cfg.Database
	return &Config{
		Host:            db.Host,
		Port:            db.Port,
		Username:        db.Username,
		Password:        db.Password,
		Database:        db.Database,
		MaxOpenConns:    db.MaxOpenConns,
		MaxIdleConns:    db.MaxIdleConns,
		ConnMaxLifetime: db.ConnMaxLifetime,
		LogLevel:        cfg.Log.Level,
		SlowThreshold:   db.SlowThreshold,
	}
}

func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&loc=UTC&charset=utf8mb4&collation=utf8mb4_unicode_ci&readTimeout=10s&writeTimeout=10s",
		c.Username, c.Password, c.Host, c.Port, c.Database)
}

func (c *Config) applyDefaults() {
	if c.MaxOpenConns <= 0 {
		c.MaxOpenConns = DefaultMaxOpenConns
	}
	if c.MaxIdleConns <= 0 {
		c.MaxIdleConns = DefaultMaxIdleConns
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		c.MaxIdleConns = c.MaxOpenConns
	}
	if c.ConnMaxLifetime <= 0 {
		c.ConnMaxLifetime = DefaultConnMaxLifetime
	}
	if c.ConnMaxIdleTime <= 0 {
		c.ConnMaxIdleTime = DefaultConnMaxIdleTime
	}
}

func (c *Config) Connect() (*gorm.DB, error) {
	c.applyDefaults()
	gormConfig := &gorm.Config{
		Logger: logger.NewGormLogger(nil, logger.GormConfigFor(c.LogLevel, c.SlowThreshold)),
	}

	db, err := gorm.Open(mysql.Open(c.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(c.MaxOpenConns)
	sqlDB.SetMaxIdleConns(c.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(c.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(c.ConnMaxIdleTime)

	logger.Info("Database connected",
		zap.String("host", c.Host),
		zap.String("database", c.Database),
		zap.Int("max_open_conns", c.MaxOpenConns),
		zap.Int("max_idle_conns", c.MaxIdleConns),
		zap.Duration("conn_max_lifetime", c.ConnMaxLifetime),
	)

	return db, nil
}

// OpenSQLite opens a SQLite database through the same repositories.
// A single connection serializes writers, which SQLite requires anyway.
func OpenSQLite(path string, logConfig logger.GormLoggerConfig) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.NewGormLogger(nil, logConfig),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	logger.Info("Database opened", zap.String("driver", "sqlite"), zap.String("path", path))
	return db, nil
}

// Open connects to the configured database type
func Open(cfg *appconfig.Config) (*gorm.DB, error) {
	switch cfg.Database.Type {
	case appconfig.DatabaseMySQL:
		return FromAppConfig(cfg).Connect()
	case appconfig.DatabaseSQLite:
		return OpenSQLite(cfg.Database.SQLitePath, logger.GormConfigFor(cfg.Log.Level, cfg.Database.SlowThreshold))
	default:
		return nil, fmt.Errorf("database type %q has no SQL connection", cfg.Database.Type)
	}
}

// AutoMigrate creates or updates every table used by the repositories
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&po.CoursePO{},
		&po.CourseStudentPO{},
		&po.ShipmentPO{},
		&po.ShipmentParcelPO{},
		&po.OrderPO{},
		&po.OrderItemPO{},
		&po.OutboxEventPO{},
	)
}
