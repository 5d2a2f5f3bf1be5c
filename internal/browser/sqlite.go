package browser

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// webkitEpochOffset is the number of microseconds between 1601-01-01 (the
// Chromium timestamp epoch) and the Unix epoch.
const webkitEpochOffset = 11644473600 * 1000 * 1000

// fromWebKit converts a Chromium timestamp (microseconds since 1601).
func fromWebKit(us int64) time.Time {
	if us <= 0 {
		return time.Time{}
	}
	return time.UnixMicro(us - webkitEpochOffset).UTC()
}

// fromUnixMicro converts a Firefox PRTime (microseconds since 1970).
func fromUnixMicro(us int64) time.Time {
	if us <= 0 {
		return time.Time{}
	}
	return time.UnixMicro(us).UTC()
}

// openSnapshotDB copies a browser database, plus its write-ahead log when
// present, into a fresh directory under tmpRoot and opens the copy. Browsers
// hold an exclusive lock on the live file while running. The returned
// cleanup closes the database and removes the copy.
func openSnapshotDB(ctx context.Context, src, tmpRoot string) (*sql.DB, func(), error) {
	if _, err := os.Stat(src); err != nil {
		return nil, nil, fmt.Errorf("database %s: %w", src, err)
	}

	if tmpRoot != "" {
		if err := os.MkdirAll(tmpRoot, 0o700); err != nil {
			return nil, nil, fmt.Errorf("failed to create temp directory: %w", err)
		}
	}
	dir, err := os.MkdirTemp(tmpRoot, "omnibar-db-*")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	removeDir := func() { _ = os.RemoveAll(dir) }

	dst := filepath.Join(dir, filepath.Base(src))
	if err := copyFile(src, dst); err != nil {
		removeDir()
		return nil, nil, err
	}
	for _, suffix := range []string{"-wal", "-shm"} {
		if err := copyFile(src+suffix, dst+suffix); err != nil && !errors.Is(err, os.ErrNotExist) {
			removeDir()
			return nil, nil, err
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(2000)&_pragma=query_only(1)", dst)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		removeDir()
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		removeDir()
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, func() {
		db.Close()
		removeDir()
	}, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	return out.Close()
}
