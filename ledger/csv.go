package ledger

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/tradeplan/pkg/id"
)

// CSVStore keeps the ledger in one flat CSV file. Every Append reads the
// whole file, adds the entry and rewrites the whole file through a temp
// file and rename. There is no locking: two processes appending at the
// same time race and the last rename wins, dropping the other's entry.
type CSVStore struct {
	path string
	log  zerolog.Logger
}

func NewCSV(path string, log zerolog.Logger) *CSVStore {
	return &CSVStore{
		path: path,
		log:  log.With().Str("component", "ledger").Str("path", path).Logger(),
	}
}

func (s *CSVStore) Path() string {
	return s.path
}

// Load returns every entry in file order. A missing file is an empty
// ledger. A file that cannot be read or parsed yields no entries and an
// error wrapping ErrStorageUnavailable.
func (s *CSVStore) Load(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fh, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.log.Debug().Msg("ledger file missing, starting empty")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	defer fh.Close()

	entries, err := readCSV(fh)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return entries, nil
}

// Append adds e to the end of the ledger. An unreadable ledger file is
// moved aside to <path>.unreadable-<id> before the new file is written.
func (s *CSVStore) Append(ctx context.Context, e Entry) error {
	if !e.Finite() {
		return ErrNonFinite
	}
	entries, err := s.Load(ctx)
	switch {
	case errors.Is(err, ErrStorageUnavailable):
		aside := s.path + ".unreadable-" + id.New()
		if rerr := os.Rename(s.path, aside); rerr != nil {
			return fmt.Errorf("move unreadable ledger aside: %w", rerr)
		}
		s.log.Warn().Err(err).Str("moved_to", aside).Msg("ledger unreadable, starting a new file")
		entries = nil
	case err != nil:
		return err
	}

	entries = append(entries, e)
	if err := s.rewrite(entries); err != nil {
		return err
	}

	s.log.Debug().Int("entries", len(entries)).Msg("ledger saved")
	return nil
}

func (s *CSVStore) rewrite(entries []Entry) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create ledger dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp ledger: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := writeCSV(tmp, entries); err != nil {
		tmp.Close()
		return fmt.Errorf("write ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp ledger: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace ledger: %w", err)
	}
	return nil
}

func (s *CSVStore) Close() error {
	return nil
}

func writeCSV(w io.Writer, entries []Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, e := range entries {
		if err := cw.Write(e.row()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func readCSV(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	return decodeRows(header, rows)
}
