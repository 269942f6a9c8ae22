package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Open connects to MySQL and verifies the connection.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}

// schema holds the DDL for every table the service touches, in dependency
// order. event_versions and audit_logs are declared for forward compatibility;
// no current operation writes to them.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		username      VARCHAR(50)  NOT NULL,
		email         VARCHAR(100) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		role          ENUM('Owner','Editor','Viewer') NOT NULL DEFAULT 'Viewer',
		created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_users_username (username),
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS events (
		id          BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		title       VARCHAR(255) NOT NULL,
		description TEXT NULL,
		start_time  DATETIME NOT NULL,
		end_time    DATETIME NOT NULL,
		recurrence  ENUM('None','Daily','Weekly','Monthly') NOT NULL DEFAULT 'None',
		owner_id    BIGINT UNSIGNED NOT NULL,
		created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_events_owner (owner_id),
		CONSTRAINT fk_events_owner FOREIGN KEY (owner_id) REFERENCES users(id) ON DELETE CASCADE
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS event_shares (
		id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		event_id   BIGINT UNSIGNED NOT NULL,
		user_id    BIGINT UNSIGNED NOT NULL,
		permission ENUM('Viewer','Editor') NOT NULL DEFAULT 'Viewer',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_event_shares_event_user (event_id, user_id),
		KEY idx_event_shares_user (user_id),
		CONSTRAINT fk_event_shares_event FOREIGN KEY (event_id) REFERENCES events(id) ON DELETE CASCADE,
		CONSTRAINT fk_event_shares_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS event_versions (
		id          BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		event_id    BIGINT UNSIGNED NOT NULL,
		title       VARCHAR(255) NULL,
		description TEXT NULL,
		start_time  DATETIME NULL,
		end_time    DATETIME NULL,
		modified_by BIGINT UNSIGNED NULL,
		created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_event_versions_event (event_id),
		CONSTRAINT fk_event_versions_event FOREIGN KEY (event_id) REFERENCES events(id) ON DELETE CASCADE
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS audit_logs (
		id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		user_id    BIGINT UNSIGNED NULL,
		event_id   BIGINT UNSIGNED NULL,
		action     VARCHAR(100) NULL,
		details    TEXT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_audit_logs_event (event_id)
	) ENGINE=InnoDB`,
}

// EnsureSchema creates every table if it does not already exist. It is run
// once at startup so a fresh database is usable without a separate migration
// step.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, ddl := range schema {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
