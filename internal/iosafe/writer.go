package iosafe

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/chazuruo/codexlink/internal/errors"
	"github.com/chazuruo/codexlink/internal/ui"
)

// WriteResult reports what happened to a single target file.
type WriteResult struct {
	// Path is the target path the write was requested for.
	Path string
	// Wrote is true once the new content has been renamed into place.
	Wrote bool
	// BackupPath is the timestamped backup created before overwrite, empty
	// when no file existed at the target.
	BackupPath string
	// BackupErr carries a non-fatal backup failure; the write proceeds.
	BackupErr error
}

// backupStamp is the backup suffix timestamp layout. Minute granularity:
// two runs in the same minute against the same target reuse one backup name
// and the later run overwrites the earlier backup.
const backupStamp = "20060102-1504"

// WriteFile atomically replaces path with text, backing up any existing
// file first. The backup is a byte-exact copy named
// <original-name>.<YYYYMMDD-HHMM>.bak in the same directory. A backup
// failure is reported on the result but does not block the write; a failure
// of the write or rename itself is returned as a *errors.WriteError.
func WriteFile(path, text string) (WriteResult, error) {
	res := WriteResult{Path: path}

	if _, err := os.Stat(path); err == nil {
		bak := fmt.Sprintf("%s.%s.bak", path, time.Now().Format(backupStamp))
		if err := copyFile(path, bak); err != nil {
			res.BackupErr = err
			ui.Log.Warn().Str("path", path).Err(err).Msg("backup failed, writing anyway")
		} else {
			res.BackupPath = bak
			ui.Log.Info().Str("path", path).Str("backup", bak).Msg("backed up existing file")
		}
	}

	if err := WriteAtomic(path, text); err != nil {
		return res, err
	}
	res.Wrote = true
	return res, nil
}

// WriteAtomic writes text to path through a temp file and rename, without a
// backup step. Used for files where backup noise is unwanted (state file).
func WriteAtomic(path, text string) error {
	dir := filepath.Dir(path)
	tmp := filepath.Join(dir, fmt.Sprintf("%s.%s.tmp", filepath.Base(path), uuid.NewString()))

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return &errors.WriteError{Path: path, Err: err}
	}
	if _, err := io.WriteString(f, text); err != nil {
		f.Close()
		os.Remove(tmp)
		return &errors.WriteError{Path: path, Err: err}
	}
	// fsync before rename; some filesystems do not support it, which is fine.
	_ = f.Sync()
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return &errors.WriteError{Path: path, Err: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return &errors.WriteError{Path: path, Err: err}
	}
	return nil
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}
