package badger

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
)

// Backend is an open BadgerDB database shared by repositories.
type Backend struct {
	db     *badger.DB
	logger *slog.Logger
}

// slogAdapter routes badger's printf-style logging into slog. Badger
// terminates most messages with a newline, which is trimmed.
type slogAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*slogAdapter)(nil)

func (a *slogAdapter) Errorf(format string, args ...any) {
	a.logger.Error(message(format, args))
}

func (a *slogAdapter) Warningf(format string, args ...any) {
	a.logger.Warn(message(format, args))
}

func (a *slogAdapter) Infof(format string, args ...any) {
	a.logger.Debug(message(format, args))
}

func (a *slogAdapter) Debugf(format string, args ...any) {
	a.logger.Debug(message(format, args))
}

func message(format string, args []any) string {
	return strings.TrimRight(fmt.Sprintf(format, args...), "\n")
}

// OpenBackend opens the event database at path, creating the directory if
// needed. With inMemory set the path is ignored and nothing touches disk.
func OpenBackend(path string, inMemory bool) (*Backend, error) {
	logger := slog.Default().With("component", "badger")

	var opts badger.Options
	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := ensureDir(path); err != nil {
			return nil, err
		}
		opts = badger.DefaultOptions(path)
	}
	// Records are small JSON documents; compression costs more than it saves.
	opts.Compression = options.None
	opts.Logger = &slogAdapter{logger: logger}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open event database: %w", err)
	}
	logger.Debug("opened event database", "path", path, "in_memory", inMemory)
	return &Backend{db: db, logger: logger}, nil
}

func ensureDir(path string) error {
	if path == "" {
		return fmt.Errorf("database path is required")
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return err
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}

// Close closes the database.
func (b *Backend) Close() error {
	return b.db.Close()
}

// IsClosed reports whether the database has been closed.
func (b *Backend) IsClosed() bool {
	return b.db.IsClosed()
}

// View runs fn in a read-only transaction.
func (b *Backend) View(fn func(tx *badger.Txn) error) error {
	tx := b.db.NewTransaction(false)
	defer tx.Discard()
	return fn(tx)
}

// Update runs fn in a read-write transaction and commits it when fn
// succeeds. Nothing is written if fn returns an error.
func (b *Backend) Update(fn func(tx *badger.Txn) error) error {
	tx := b.db.NewTransaction(true)
	defer tx.Discard()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
