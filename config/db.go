package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens the catalog database. DB_DRIVER=sqlite uses SQLITE_PATH
// (default storefront.db); anything else connects to MySQL.
func NewDB() (*gorm.DB, error) {
	logMode := logger.Info
	if os.Getenv("GORM_LOG") == "off" {
		logMode = logger.Silent
	}

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags), // Use log.Logger for Printf support
		logger.Config{
			SlowThreshold: time.Second, // Slow SQL threshold
			LogLevel:      logMode,     // Log level
			Colorful:      true,        // Enable color
		},
	)

	var dialector gorm.Dialector
	switch os.Getenv("DB_DRIVER") {
	case "sqlite":
		path := os.Getenv("SQLITE_PATH")
		if path == "" {
			path = "storefront.db"
		}
		dialector = sqlite.Open(path)
	default:
		dialector = mysql.Open(MySQLDSN())
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, err
	}
	return db, nil
}

// MySQLDSN returns MYSQL_DSN or builds one from the MYSQL_* parts.
func MySQLDSN() string {
	if dsn := os.Getenv("MYSQL_DSN"); dsn != "" {
		return dsn
	}
	user := os.Getenv("MYSQL_USER")
	pass := os.Getenv("MYSQL_PASS")
	host := os.Getenv("MYSQL_HOST")
	port := os.Getenv("MYSQL_PORT")
	db := os.Getenv("MYSQL_DB")
	if port == "" {
		port = "3306"
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&loc=Local&multiStatements=true", user, pass, host, port, db)
}
