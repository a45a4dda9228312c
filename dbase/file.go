package dbase

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// lockedFile releases the advisory lock of a file before closing it.
type lockedFile struct {
	*os.File
}

func (f lockedFile) Close() error {
	return errors.Join(unlockFile(f.File), f.File.Close())
}

func openLocked(name string, flag int, exclusive bool) (lockedFile, error) {
	handle, err := os.OpenFile(name, flag, 0600)
	if err != nil {
		return lockedFile{}, err
	}
	if err := lockFile(handle, exclusive); err != nil {
		return lockedFile{}, errors.Join(fmt.Errorf("locking %s failed: %w", name, err), handle.Close())
	}
	return lockedFile{File: handle}, nil
}

// Open opens the table config.Filename for reading. If the header signals a memo file
// the .FPT or .DBT file with the same name is opened as well. Both files are locked
// shared, or exclusive if config.Exclusive is set, until the Reader is closed.
func Open(config *Config) (*Reader, error) {
	if config == nil {
		return nil, newError("dbase-file-open-1", fmt.Errorf("missing configuration"))
	}
	debugf("Opening table: %s - Exclusive: %v - Untested: %v - Trim spaces: %v - ValidateCodepage: %v", config.Filename, config.Exclusive, config.Untested, config.TrimSpaces, config.ValidateCodePage)
	if len(strings.TrimSpace(config.Filename)) == 0 {
		return nil, newError("dbase-file-open-2", fmt.Errorf("missing filename"))
	}
	fileName, err := findFile(filepath.Clean(config.Filename))
	if err != nil {
		return nil, newError("dbase-file-open-3", err)
	}
	handle, err := openLocked(fileName, os.O_RDONLY, config.Exclusive)
	if err != nil {
		return nil, newError("dbase-file-open-4", fmt.Errorf("opening file failed with error: %w", err))
	}
	closers := []io.Closer{handle}
	closeAll := func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}
	header, err := readHeader(handle)
	if err != nil {
		closeAll()
		return nil, newError("dbase-file-open-5", err)
	}
	var memo io.ReadSeeker
	if header.HasMemo() {
		memoName, ok := findMemoFile(fileName)
		if ok {
			debugf("Opening memo file: %s", memoName)
			memoHandle, err := openLocked(memoName, os.O_RDONLY, config.Exclusive)
			if err != nil {
				closeAll()
				return nil, newError("dbase-file-open-6", fmt.Errorf("opening memo file failed with error: %w", err))
			}
			closers = append(closers, memoHandle)
			memo = memoHandle
		} else {
			debugf("No memo file found for %s", fileName)
		}
	}
	reader, err := NewReader(handle, memo, config)
	if err != nil {
		closeAll()
		return nil, newError("dbase-file-open-7", err)
	}
	reader.closers = closers
	return reader, nil
}

// Create creates the table filename with the columns of builder and locks it exclusively.
// The file must not exist. Closing the Writer stores the record count and closes the file.
func Create(filename string, builder *Builder) (*Writer, error) {
	filename = filepath.Clean(strings.TrimSpace(filename))
	// Check for valid file extension
	if FileExtension(strings.ToUpper(filepath.Ext(filename))) != DBF {
		return nil, newError("dbase-file-create-1", fmt.Errorf("invalid file extension %q", filepath.Ext(filename)))
	}
	debugf("Creating file: %s", filename)
	handle, err := openLocked(filename, os.O_RDWR|os.O_CREATE|os.O_EXCL, true)
	if err != nil {
		return nil, newError("dbase-file-create-2", fmt.Errorf("creating file failed with error: %w", err))
	}
	writer, err := builder.Build(handle)
	if err != nil {
		_ = handle.Close()
		_ = os.Remove(filename)
		return nil, newError("dbase-file-create-3", err)
	}
	writer.closers = []io.Closer{handle}
	return writer, nil
}

// findMemoFile returns the memo file next to a table, trying .FPT, .DBT and .DCT for containers.
func findMemoFile(tableName string) (string, bool) {
	base := strings.TrimSuffix(tableName, filepath.Ext(tableName))
	extensions := []FileExtension{FPT, DBT}
	if FileExtension(strings.ToUpper(filepath.Ext(tableName))) == DBC {
		extensions = []FileExtension{DCT}
	}
	for _, ext := range extensions {
		name, err := findFile(base + string(ext))
		if err != nil {
			continue
		}
		if _, err := os.Stat(name); err == nil {
			return name, true
		}
	}
	return "", false
}

// findFile returns the name of the file in its directory ignoring the case, or name itself.
func findFile(name string) (string, error) {
	debugf("Searching for file: %s", name)
	files, err := os.ReadDir(filepath.Dir(name))
	if err != nil {
		return "", newError("dbase-file-findfile-1", err)
	}
	for _, file := range files {
		if strings.EqualFold(file.Name(), filepath.Base(name)) {
			debugf("Found file: %s", file.Name())
			return filepath.Join(filepath.Dir(name), file.Name()), nil
		}
	}
	return name, nil
}
