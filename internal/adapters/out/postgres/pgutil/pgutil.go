// Package pgutil holds column types and error mapping shared by the gorm
// repositories.
package pgutil

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"junkos/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueViolation = "23505"

// JSON is a jsonb column holding an already encoded document.
type JSON []byte

// MarshalJSON encodes v into a JSON column value.
func MarshalJSON(v any) (JSON, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return JSON(raw), nil
}

// Unmarshal decodes the column into v. An empty column leaves v untouched.
func (j JSON) Unmarshal(v any) error {
	if len(j) == 0 {
		return nil
	}
	return json.Unmarshal(j, v)
}

func (j JSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return string(j), nil
}

func (j *JSON) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*j = nil
	case []byte:
		*j = append((*j)[:0], v...)
	case string:
		*j = JSON(v)
	default:
		return fmt.Errorf("pgutil: cannot scan %T into JSON", src)
	}
	return nil
}

// GormDataType makes AutoMigrate create the column as jsonb.
func (JSON) GormDataType() string {
	return "jsonb"
}

// IsUniqueViolation reports whether err is a Postgres unique constraint failure.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// MapWriteError turns a unique violation into a ConflictError on subject.
func MapWriteError(err error, subject string) error {
	if err == nil {
		return nil
	}
	if IsUniqueViolation(err) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return errs.NewConflictError(subject, "already exists")
	}
	return err
}

// MapReadError turns gorm.ErrRecordNotFound into an ObjectNotFoundError.
func MapReadError(err error, subject string, id any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NewObjectNotFoundError(subject, id)
	}
	return err
}
