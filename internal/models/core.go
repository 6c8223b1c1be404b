// Package models holds shared persistence machinery: the JSON column type used
// to embed sub-collections inside aggregate rows, and the serialized write helper.
package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"log/slog"

	"github.com/karloscodes/cartridge/sqlite"
	"gorm.io/gorm"
)

// JSON is a custom type for handling JSON data
type JSON []byte

// Scan scan value into Jsonb, implements sql.Scanner interface
func (j *JSON) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		if s, isString := value.(string); isString {
			bytes = []byte(s)
		} else {
			return errors.New(fmt.Sprint("Failed to unmarshal JSONB value:", value))
		}
	}

	result := json.RawMessage{}
	err := json.Unmarshal(bytes, &result)
	*j = JSON(result)
	return err
}

// Value return json value, implement driver.Valuer interface
func (j JSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return json.RawMessage(j).MarshalJSON()
}

// ScanJSONColumn decodes a JSON database value into dest. A NULL column leaves
// dest untouched so zero values survive round-trips.
func ScanJSONColumn(dest interface{}, value interface{}) error {
	if value == nil {
		return nil
	}
	var raw JSON
	if err := raw.Scan(value); err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

// JSONColumnValue encodes src for storage in a JSON column.
func JSONColumnValue(src interface{}) (driver.Value, error) {
	data, err := json.Marshal(src)
	if err != nil {
		return nil, err
	}
	return JSON(data).Value()
}

// PerformWrite executes a write transaction with retry logic for SQLite busy errors.
// This is a wrapper that delegates to cartridge's sqlite.PerformWrite implementation.
func PerformWrite(logger *slog.Logger, dbConn *gorm.DB, f func(tx *gorm.DB) error) error {
	return sqlite.PerformWrite(logger, dbConn, f)
}
