//go:build !windows

package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAcquireLock_Success(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "picker.lock")

	fd, err := acquireLock(lockPath)
	if err != nil {
		t.Fatalf("acquireLock failed: %v", err)
	}
	defer releaseLock(fd)

	if _, err := os.Stat(lockPath); os.IsNotExist(err) {
		t.Fatal("lock file was not created")
	}
}

func TestAcquireLock_SecondInstanceFails(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "picker.lock")

	fd1, err := acquireLock(lockPath)
	if err != nil {
		t.Fatalf("first acquireLock failed: %v", err)
	}

	fd2, err := acquireLock(lockPath)
	if err == nil {
		releaseLock(fd2)
		releaseLock(fd1)
		t.Fatal("expected second acquireLock to fail, but it succeeded")
	}

	releaseLock(fd1)

	fd3, err := acquireLock(lockPath)
	if err != nil {
		t.Fatalf("acquireLock after release failed: %v", err)
	}
	releaseLock(fd3)
}

func TestAcquireLock_MissingDirectory(t *testing.T) {
	if _, err := acquireLock(filepath.Join(t.TempDir(), "missing", "picker.lock")); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestReleaseLock_InvalidFd(t *testing.T) {
	// Releasing with -1 should not panic.
	releaseLock(-1)
}

func TestCheckTERM(t *testing.T) {
	t.Setenv("TERM", "dumb")
	if err := checkTERM(); err == nil {
		t.Error("expected error for TERM=dumb")
	}
	t.Setenv("TERM", "xterm-256color")
	if err := checkTERM(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
