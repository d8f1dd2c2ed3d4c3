// Copyright 2025 The Shelfd Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package acl

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLStore is a Store and DescriptionStore backed by a MySQL database,
// for deployments where several server instances share one ACL store.
type MySQLStore struct {
	db *sql.DB
}

// OpenMySQLStore connects with the given DSN and creates the schema if
// it does not exist yet.
func OpenMySQLStore(dsn string) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open permission database: %w", err)
	}
	db.SetConnMaxLifetime(3 * time.Minute)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping permission database: %w", err)
	}

	store := &MySQLStore{db: db}
	if err := store.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *MySQLStore) ensureSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS item_permissions (
			item_id VARCHAR(768) NOT NULL,
			subject VARCHAR(255) NOT NULL,
			level TINYINT NOT NULL,
			PRIMARY KEY (item_id, subject)
		)`,
		`CREATE TABLE IF NOT EXISTS item_descriptions (
			item_id VARCHAR(768) NOT NULL,
			description TEXT NOT NULL,
			PRIMARY KEY (item_id)
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create permission schema: %w", err)
		}
	}
	return nil
}

func (s *MySQLStore) Get(itemID, subject string) (Level, bool, error) {
	var level int
	err := s.db.QueryRow(
		"SELECT level FROM item_permissions WHERE item_id = ? AND subject = ?",
		itemID, subject,
	).Scan(&level)
	if errors.Is(err, sql.ErrNoRows) {
		return None, false, nil
	}
	if err != nil {
		return None, false, err
	}
	return Level(level), true, nil
}

func (s *MySQLStore) Set(itemID, subject string, level Level) error {
	_, err := s.db.Exec(
		"INSERT INTO item_permissions (item_id, subject, level) VALUES (?, ?, ?) ON DUPLICATE KEY UPDATE level = VALUES(level)",
		itemID, subject, int(level),
	)
	return err
}

func (s *MySQLStore) Remove(itemID, subject string) error {
	_, err := s.db.Exec(
		"DELETE FROM item_permissions WHERE item_id = ? AND subject = ?",
		itemID, subject,
	)
	return err
}

func (s *MySQLStore) List(itemID string) ([]Entry, error) {
	rows, err := s.db.Query(
		"SELECT subject, level FROM item_permissions WHERE item_id = ? ORDER BY subject",
		itemID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Entry
	for rows.Next() {
		var subject string
		var level int
		if err := rows.Scan(&subject, &level); err != nil {
			return nil, err
		}
		result = append(result, Entry{ItemID: itemID, Subject: subject, Level: Level(level)})
	}
	return result, rows.Err()
}

func (s *MySQLStore) Move(oldItemID, newItemID string) error {
	_, err := s.db.Exec(
		"UPDATE item_permissions SET item_id = ? WHERE item_id = ?",
		newItemID, oldItemID,
	)
	return err
}

func (s *MySQLStore) RemoveItem(itemID string) error {
	_, err := s.db.Exec("DELETE FROM item_permissions WHERE item_id = ?", itemID)
	return err
}

func (s *MySQLStore) GetDescription(itemID string) (string, bool, error) {
	var text string
	err := s.db.QueryRow(
		"SELECT description FROM item_descriptions WHERE item_id = ?",
		itemID,
	).Scan(&text)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return text, true, nil
}

func (s *MySQLStore) SetDescription(itemID, text string) error {
	_, err := s.db.Exec(
		"INSERT INTO item_descriptions (item_id, description) VALUES (?, ?) ON DUPLICATE KEY UPDATE description = VALUES(description)",
		itemID, text,
	)
	return err
}

func (s *MySQLStore) RemoveDescription(itemID string) error {
	_, err := s.db.Exec("DELETE FROM item_descriptions WHERE item_id = ?", itemID)
	return err
}

func (s *MySQLStore) MoveDescription(oldItemID, newItemID string) error {
	_, err := s.db.Exec(
		"UPDATE item_descriptions SET item_id = ? WHERE item_id = ?",
		newItemID, oldItemID,
	)
	return err
}

func (s *MySQLStore) Close() error {
	return s.db.Close()
}
