// Package seed bulk-loads catalog data and accounts from CSV files.
package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/foodgram/backend/internal/models"
)

// Kind names the table a CSV file is loaded into.
type Kind string

const (
	Ingredients Kind = "ingredients"
	Tags        Kind = "tags"
	Users       Kind = "users"
)

// Kinds lists the loadable kinds in the order they should be loaded.
var Kinds = []Kind{Ingredients, Tags, Users}

// required columns per kind; tags may also carry a color
var required = map[Kind][]string{
	Ingredients: {"name", "measurement_unit"},
	Tags:        {"name", "slug"},
	Users:       {"email", "username", "first_name", "last_name", "password"},
}

// Result counts what a load did. Rows whose unique key already exists are
// skipped rather than treated as errors, so a file can be loaded twice.
type Result struct {
	Inserted int
	Skipped  int
}

// Loader inserts CSV rows through gorm.
type Loader struct {
	db         *gorm.DB
	bcryptCost int
}

func NewLoader(db *gorm.DB) *Loader {
	return &Loader{db: db, bcryptCost: bcrypt.DefaultCost}
}

// ParseKind validates a kind given on the command line.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := required[k]; !ok {
		return "", fmt.Errorf("unknown kind %q, expected one of %v", s, Kinds)
	}
	return k, nil
}

// Load reads a CSV whose first row names the columns and inserts every
// following row as kind. Columns may appear in any order; unknown columns
// are ignored.
func (l *Loader) Load(ctx context.Context, kind Kind, r io.Reader) (Result, error) {
	var res Result
	cols, ok := required[kind]
	if !ok {
		return res, fmt.Errorf("unknown kind %q", kind)
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return res, errors.New("empty file: missing header row")
	}
	if err != nil {
		return res, fmt.Errorf("failed to read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range cols {
		if _, ok := index[name]; !ok {
			return res, fmt.Errorf("header is missing column %q", name)
		}
	}

	for line := 2; ; line++ {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return res, fmt.Errorf("line %d: %w", line, err)
		}

		row := make(map[string]string, len(index))
		for name, i := range index {
			row[name] = strings.TrimSpace(fields[i])
		}
		for _, name := range cols {
			if row[name] == "" {
				return res, fmt.Errorf("line %d: column %q is empty", line, name)
			}
		}

		record, err := l.build(kind, row)
		if err != nil {
			return res, fmt.Errorf("line %d: %w", line, err)
		}
		result := l.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(record)
		if result.Error != nil {
			return res, fmt.Errorf("line %d: failed to insert: %w", line, result.Error)
		}
		if result.RowsAffected == 0 {
			res.Skipped++
			log.WithFields(log.Fields{"kind": kind, "line": line}).Debug("row already present")
			continue
		}
		res.Inserted++
	}

	log.WithFields(log.Fields{
		"kind":     kind,
		"inserted": res.Inserted,
		"skipped":  res.Skipped,
	}).Info("csv loaded")
	return res, nil
}

func (l *Loader) build(kind Kind, row map[string]string) (interface{}, error) {
	switch kind {
	case Ingredients:
		return &models.Ingredient{Name: row["name"], MeasurementUnit: row["measurement_unit"]}, nil
	case Tags:
		return &models.Tag{Name: row["name"], Slug: row["slug"], Color: row["color"]}, nil
	case Users:
		hash, err := bcrypt.GenerateFromPassword([]byte(row["password"]), l.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		return &models.User{
			Email:        strings.ToLower(row["email"]),
			Username:     row["username"],
			FirstName:    row["first_name"],
			LastName:     row["last_name"],
			PasswordHash: string(hash),
		}, nil
	}
	return nil, fmt.Errorf("unknown kind %q", kind)
}
