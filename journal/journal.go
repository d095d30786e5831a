package journal

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
)

// Journal wraps a BadgerDB instance holding span records.
type Journal struct {
	db     *badger.DB
	logger *slog.Logger
}

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

// Badger is chatty at info level; its info output goes to debug.
func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// Option configures a Journal.
type Option func(*openOptions) error

type openOptions struct {
	inMemory bool
	logger   *slog.Logger
}

// WithInMemory keeps the journal in memory. The path is ignored.
func WithInMemory() Option {
	return func(o *openOptions) error {
		o.inMemory = true
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *openOptions) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
		return nil
	}
}

// Open opens the journal stored in the directory at path.
// Creates the directory if it doesn't exist.
func Open(path string, opts ...Option) (*Journal, error) {
	o := &openOptions{logger: slog.Default()}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	logger := o.logger.With("component", "journal")

	var bopts badger.Options
	if o.inMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := ensureDir(path); err != nil {
			return nil, err
		}
		bopts = badger.DefaultOptions(path)
	}

	bopts.Logger = &badgerLoggerAdapter{logger: logger}
	bopts.Compression = options.None

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}

	return &Journal{
		db:     db,
		logger: logger,
	}, nil
}

// OpenMemory opens an empty in-memory journal, mostly useful in tests.
func OpenMemory(opts ...Option) (*Journal, error) {
	return Open("", append(opts, WithInMemory())...)
}

func ensureDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		if err := os.MkdirAll(path, 0755); err != nil {
			return err
		}
		return nil
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotDirectory, path)
	}
	return nil
}

// Close closes the journal.
func (j *Journal) Close() error {
	return j.db.Close()
}

// IsClosed returns true if the journal is closed.
func (j *Journal) IsClosed() bool {
	return j.db.IsClosed()
}

// withTx executes a function within a BadgerDB transaction.
// If isWrite is true, creates a read-write transaction and commits it when fn succeeds.
func (j *Journal) withTx(ctx context.Context, fn func(tx *badger.Txn) error, isWrite bool) error {
	if j.db.IsClosed() {
		return ErrJournalClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	tx := j.db.NewTransaction(isWrite)
	defer tx.Discard()
	if err := fn(tx); err != nil {
		return err
	}
	if isWrite {
		return tx.Commit()
	}
	return nil
}
