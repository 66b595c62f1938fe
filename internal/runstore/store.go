package runstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	parquet "github.com/parquet-go/parquet-go"
	"go.uber.org/zap"
)

// Common errors returned by the store.
var (
	// ErrUnavailable indicates the backing file could not be read or written.
	ErrUnavailable = errors.New("run store unavailable")

	// ErrInvalidRecord indicates a record that cannot be stored.
	ErrInvalidRecord = errors.New("invalid run record")
)

// Read batching
const (
	readBatchSize   = 1024
	tempFilePattern = ".runs-*.parquet.tmp"
	dirPerm         = 0o755
)

// Store is a file-backed run table. It is safe for concurrent use.
type Store struct {
	path string

	mu sync.Mutex

	logger      *zap.Logger
	now         func() time.Time
	compression parquet.WriterOption
	compName    string

	// commit moves the finished temp file over the table.
	commit func(oldpath, newpath string) error
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock sets the clock used to stamp records without CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithCompression selects the page codec: "snappy" (default), "gzip" or "zstd".
func WithCompression(name string) Option {
	return func(s *Store) {
		s.compression, s.compName = compressionFromName(name)
	}
}

func compressionFromName(name string) (parquet.WriterOption, string) {
	switch strings.ToLower(name) {
	case "zstd":
		return parquet.Compression(&parquet.Zstd), "zstd"
	case "gzip", "gz":
		return parquet.Compression(&parquet.Gzip), "gzip"
	default:
		return parquet.Compression(&parquet.Snappy), "snappy"
	}
}

// Open prepares a store at path, creating the parent directory if needed.
// A missing file is an empty table; an unreadable one is ErrUnavailable.
func Open(path string, opts ...Option) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrUnavailable)
	}

	s := &Store{
		path:   path,
		logger: zap.NewNop(),
		now:    time.Now,
		commit: os.Rename,
	}
	s.compression, s.compName = compressionFromName("")
	for _, opt := range opts {
		opt(s)
	}

	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	rows, err := s.readAll()
	if err != nil {
		return nil, err
	}

	s.logger.Debug("run store opened",
		zap.String("path", path),
		zap.Int("rows", len(rows)),
		zap.String("compression", s.compName),
	)
	return s, nil
}

// Path returns the table file path.
func (s *Store) Path() string {
	return s.path
}

// Append stores rec and returns it as persisted.
// An empty CreatedAt is stamped from the store clock.
func (s *Store) Append(ctx context.Context, rec Record) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}

	if rec.CreatedAt == "" {
		rec.CreatedAt = FormatTimestamp(s.now())
	} else {
		ts, err := rec.Time()
		if err != nil {
			return Record{}, err
		}
		rec.CreatedAt = FormatTimestamp(ts)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.readAll()
	if err != nil {
		return Record{}, err
	}

	if err := ctx.Err(); err != nil {
		return Record{}, err
	}

	rows = append(rows, rec)
	if err := s.writeAll(rows); err != nil {
		s.logger.Error("run append failed", zap.String("path", s.path), zap.Error(err))
		return Record{}, err
	}

	s.logger.Info("run saved",
		zap.String("created_at", rec.CreatedAt),
		zap.Int64("seed", rec.Seed),
		zap.Int("depth", rec.Depth),
		zap.Int("rows", len(rows)),
	)
	return rec, nil
}

// Recent returns up to limit records, newest first. limit <= 0 returns all.
// Records with equal timestamps come back in reverse insertion order.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	rows, err := s.readAll()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	slices.Reverse(rows)
	slices.SortStableFunc(rows, func(a, b Record) int {
		return strings.Compare(b.CreatedAt, a.CreatedAt)
	})

	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

// readAll loads every row. Callers hold s.mu, except Open.
func (s *Store) readAll() ([]Record, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrUnavailable, s.path)
	}
	if info.Size() == 0 {
		return nil, nil
	}

	rows, err := readRows(f)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrUnavailable, s.path, err)
	}
	return rows, nil
}

func readRows(ra io.ReaderAt) (rows []Record, err error) {
	// parquet-go panics on some malformed footers instead of returning errors.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("corrupt table: %v", r)
		}
	}()

	gr := parquet.NewGenericReader[Record](ra)
	defer func() { _ = gr.Close() }()

	var out []Record
	batch := make([]Record, readBatchSize)
	for {
		n, err := gr.Read(batch)
		if n > 0 {
			out = append(out, batch[:n]...)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// writeAll replaces the table with rows via a temp file in the same directory.
func (s *Store) writeAll(rows []Record) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), tempFilePattern)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	tmpName := tmp.Name()

	// Remove the temp file on any failure path
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	pw := parquet.NewGenericWriter[Record](tmp, s.compression)
	if _, err = pw.Write(rows); err != nil {
		return fmt.Errorf("%w: write rows: %w", ErrUnavailable, err)
	}
	if err = pw.Close(); err != nil {
		return fmt.Errorf("%w: close writer: %w", ErrUnavailable, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("%w: sync: %w", ErrUnavailable, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: close: %w", ErrUnavailable, err)
	}
	if err = s.commit(tmpName, s.path); err != nil {
		return fmt.Errorf("%w: commit: %w", ErrUnavailable, err)
	}
	return nil
}
