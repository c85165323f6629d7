// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

// Package gormrepo implements the handler's repository capabilities
// against a SQL database via gorm, with sqlite as the default driver.
package gormrepo

import (
	"fmt"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// OpenFromDSN opens a GORM DB from a driver-qualified DSN string.
// Supported:
//   - sqlite:<path>   e.g. sqlite:./recordchange.db or sqlite::memory:
func OpenFromDSN(dsn string) (*gorm.DB, error) {
	switch {
	case strings.HasPrefix(dsn, "sqlite:"):
		path := strings.TrimPrefix(dsn, "sqlite:")
		if path == "" {
			path = "./recordchange.db"
		}
		return gorm.Open(sqlite.Open(path), &gorm.Config{})
	default:
		return nil, fmt.Errorf("gormrepo: unsupported dsn scheme: %s", dsn)
	}
}

// AutoMigrate applies schema migrations for all gormrepo models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&RecordSetRecord{}, &ChangeJournalRecord{}, &BatchChangeRecord{})
}
