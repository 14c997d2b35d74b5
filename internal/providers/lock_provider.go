package providers

import (
	"aprd/internal/structures"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"golang.org/x/sys/unix"
)

const lockFileName = "aprd.lock"

var ErrAlreadyRunning = errors.New("another aprd instance holds the lock")

// InstanceLock is an exclusive flock on the run directory. Two daemons
// rewriting the same hostapd configs would fight over the service manager.
type InstanceLock struct {
	file *os.File
}

func NewInstanceLock(conf *structures.Config) (*InstanceLock, error) {
	if err := os.MkdirAll(conf.Paths.RunDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating run dir %s: %w", conf.Paths.RunDir, err)
	}
	path := filepath.Join(conf.Paths.RunDir, lockFileName)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening lock file %s: %w", path, err)
	}
	if err := unix.Flock(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		file.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, ErrAlreadyRunning
		}
		return nil, fmt.Errorf("locking %s: %w", path, err)
	}
	_ = file.Truncate(0)
	_, _ = file.WriteAt([]byte(strconv.Itoa(os.Getpid())+"\n"), 0)
	return &InstanceLock{file: file}, nil
}

func (l *InstanceLock) Release() {
	if l == nil || l.file == nil {
		return
	}
	_ = unix.Flock(int(l.file.Fd()), unix.LOCK_UN)
	_ = l.file.Close()
	l.file = nil
}
