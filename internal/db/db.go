package db

import (
	"fmt"
	"time"

	"github.com/moonlit/verifybot/internal/config"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

// pending_verifications is the single table of the system. Timestamps are
// epoch seconds, matching the expiry arithmetic in the service layer.
const schema = `
CREATE TABLE IF NOT EXISTS pending_verifications (
    id BIGINT NOT NULL AUTO_INCREMENT,
    user_id VARCHAR(32) NOT NULL,
    guild_id VARCHAR(32) NOT NULL,
    email_hash CHAR(64) NOT NULL,
    code_hash CHAR(64) NOT NULL,
    code_expires_at BIGINT NOT NULL,
    verified TINYINT(1) NOT NULL DEFAULT 0,
    created_at BIGINT NOT NULL,
    PRIMARY KEY (id),
    KEY idx_user_unverified (user_id, verified, created_at)
)
`

func New(cfg config.Database) (*sqlx.DB, error) {
	location, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("time load location failed: %w", err)
	}
	conf := mysql.NewConfig()
	conf.Net = cfg.Net
	conf.Addr = cfg.Server
	conf.User = cfg.User
	conf.Passwd = cfg.Password
	conf.DBName = cfg.DBName
	conf.Timeout = cfg.Timeout
	conf.Loc = location
	conf.ParseTime = true

	dbConn, err := sqlx.Connect("mysql", conf.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("db connection failed: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConnections)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConnections)

	if err := dbConn.Ping(); err != nil {
		return nil, err
	}

	return dbConn, nil
}

// Bootstrap creates the pending_verifications table when it does not exist.
func Bootstrap(dbConn *sqlx.DB) error {
	if _, err := dbConn.Exec(schema); err != nil {
		return fmt.Errorf("bootstrap schema failed: %w", err)
	}

	return nil
}
