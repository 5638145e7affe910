package ledger

import (
	"fmt"

	"github.com/rs/zerolog"
)

const (
	KindCSV    = "csv"
	KindSQLite = "sqlite"
)

// Open returns the store of the given kind at path.
func Open(kind, path string, log zerolog.Logger) (Store, error) {
	switch kind {
	case KindCSV, "":
		return NewCSV(path, log), nil
	case KindSQLite:
		return NewSQLite(path, log)
	}
	return nil, fmt.Errorf("unknown ledger type: %q", kind)
}
