package dbase

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Database is a Visual FoxPro database container (.DBC) with the tables it references.
type Database struct {
	container *Reader
	tables    map[string]*Reader
}

// OpenDatabase opens a database container and all tables it lists.
// The tables are opened with the settings of config.
func OpenDatabase(config *Config) (*Database, error) {
	if config == nil {
		return nil, newError("dbase-database-open-1", fmt.Errorf("missing config"))
	}
	if len(strings.TrimSpace(config.Filename)) == 0 {
		return nil, newError("dbase-database-open-2", fmt.Errorf("missing filename"))
	}
	if FileExtension(strings.ToUpper(filepath.Ext(config.Filename))) != DBC {
		return nil, newError("dbase-database-open-3", fmt.Errorf("invalid file name: %v", config.Filename))
	}
	debugf("Opening database: %v", config.Filename)
	container, err := Open(config)
	if err != nil {
		return nil, newError("dbase-database-open-4", fmt.Errorf("opening database container failed with error: %w", err))
	}
	db := &Database{container: container, tables: make(map[string]*Reader)}
	names, err := tableNames(container)
	if err != nil {
		_ = db.Close()
		return nil, newError("dbase-database-open-5", err)
	}
	for _, name := range names {
		debugf("Found table: %v in database", name)
		tableConfig := *config
		tableConfig.Filename = tablePath(filepath.Dir(config.Filename), name)
		table, err := Open(&tableConfig)
		if err != nil {
			_ = db.Close()
			return nil, newError("dbase-database-open-6", fmt.Errorf("opening table %s failed with error: %w", name, err))
		}
		db.tables[name] = table
	}
	return db, nil
}

// tableNames returns the names of all objects of type Table in the container.
func tableNames(container *Reader) ([]string, error) {
	records, err := container.Records(true)
	if err != nil {
		return nil, newError("dbase-database-tablenames-1", err)
	}
	names := make([]string, 0)
	for _, rec := range records {
		objectType, err := rec.ValueByName("OBJECTTYPE")
		if err != nil {
			return nil, newError("dbase-database-tablenames-2", err)
		}
		if !strings.EqualFold(ToTrimmedString(objectType), "Table") {
			continue
		}
		objectName, err := rec.ValueByName("OBJECTNAME")
		if err != nil {
			return nil, newError("dbase-database-tablenames-3", err)
		}
		name, ok := objectName.(CharacterValue)
		if !ok {
			return nil, newError("dbase-database-tablenames-4", fmt.Errorf("%w: table name is a %s column", ErrIncompatibleType, objectName.Type()))
		}
		if !name.Valid {
			continue
		}
		names = append(names, strings.TrimSpace(name.String))
	}
	return names, nil
}

// tablePath returns the file of a table, table names use underscores for spaces of the file name.
func tablePath(dir string, name string) string {
	candidate := filepath.Join(dir, name+string(DBF))
	if found, err := findFile(candidate); err == nil {
		if _, err := os.Stat(found); err == nil {
			return found
		}
	}
	return filepath.Join(dir, strings.ReplaceAll(name, "_", " ")+string(DBF))
}

// Close the database file and all related tables
func (db *Database) Close() error {
	var errs []error
	for _, table := range db.tables {
		errs = append(errs, table.Close())
	}
	errs = append(errs, db.container.Close())
	if err := errors.Join(errs...); err != nil {
		return newError("dbase-database-close-1", err)
	}
	return nil
}

// Returns all tables of the database
func (db *Database) Tables() map[string]*Reader {
	return db.tables
}

// Returns the names of every table in the database, sorted
func (db *Database) Names() []string {
	names := make([]string, 0, len(db.tables))
	for name := range db.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Returns the complete database schema
func (db *Database) Schema() map[string][]*Column {
	schema := make(map[string][]*Column, len(db.tables))
	for name, table := range db.tables {
		schema[name] = table.Columns()
	}
	return schema
}
