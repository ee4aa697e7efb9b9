package internal

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

// InspectRow is one key of the local store as shown by the inspect command.
type InspectRow struct {
	Key    string
	Size   int
	Detail string
}

type RowMapper func(key string, val []byte) InspectRow

// Inspect lists every key starting with prefix, "" lists everything.
func Inspect(db *badger.DB, prefix string, mapper RowMapper) ([]InspectRow, error) {
	if mapper == nil {
		mapper = DefaultMapper
	}
	var rows []InspectRow
	err := db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
			item := it.Item()
			if err := item.Value(func(val []byte) error {
				rows = append(rows, mapper(string(item.KeyCopy(nil)), val))
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
	return rows, err
}

// DefaultMapper never prints the bearer token in clear.
func DefaultMapper(key string, val []byte) InspectRow {
	row := InspectRow{Key: key, Size: len(val), Detail: string(val)}
	switch key {
	case "userToken":
		row.Detail = mask(string(val))
	case "userData":
		if runes := []rune(string(val)); len(runes) > 80 {
			row.Detail = string(runes[:77]) + "..."
		}
	default:
		if len(val) > 80 {
			row.Detail = "Size: " + strconv.Itoa(len(val)) + " bytes"
		}
	}
	return row
}

func mask(token string) string {
	if len(token) <= 8 {
		return "********"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

// OpenReadOnly opens the store without taking its directory lock, so the
// store of a running client can be read. A value log left dirty by a crash
// is truncated once before retrying.
func OpenReadOnly(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLogger(nil)
	db, err := badger.Open(opts)
	if err == nil {
		return db, nil
	}
	if !strings.Contains(err.Error(), "Log truncate required") {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	repaired, err := badger.Open(badger.DefaultOptions(path).WithBypassLockGuard(true).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("repair %s: %w", path, err)
	}
	_ = repaired.Close()
	return badger.Open(opts)
}
