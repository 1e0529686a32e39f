// Package blobcache keeps serialized function blobs in a sqlite database,
// addressed by a hash of their content.
package blobcache

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/chazu/jscore/vm"
	"github.com/chazu/jscore/vm/blob"
	"github.com/dustin/go-humanize"
	"github.com/tliron/commonlog"
	"github.com/zeebo/xxh3"
	_ "modernc.org/sqlite"
)

var log = commonlog.GetLogger("jscore.blobcache")

// ErrNotFound indicates no blob is stored under the key.
var ErrNotFound = errors.New("blob not found")

// Entry describes one stored blob.
type Entry struct {
	Key     string
	Name    string
	Size    int
	Created time.Time
}

// Store is a content-addressed blob cache.
type Store struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// Open opens or creates the cache database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating cache dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS blobs (
		key TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		data BLOB NOT NULL,
		description BLOB NOT NULL,
		created INTEGER NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating table: %w", err)
	}

	log.Debugf("opened %s", path)
	return &Store{db: db, path: path}, nil
}

// Close closes the database connection.
func (c *Store) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Path returns the database file.
func (c *Store) Path() string { return c.path }

// Key returns the cache key of a blob.
func Key(data []byte) string {
	return fmt.Sprintf("%016x", xxh3.Hash(data))
}

// Put validates data by decoding it in s and stores it with its
// description. Storing the same content twice is a no-op.
func (c *Store) Put(s *vm.State, data []byte) (string, error) {
	fn, err := blob.Decode(s, data)
	if err != nil {
		return "", fmt.Errorf("validating blob: %w", err)
	}
	return c.put(fn, data)
}

// PutFunction encodes fn and stores the result.
func (c *Store) PutFunction(s *vm.State, fn *vm.Function, flags blob.Flags) (string, error) {
	data, err := blob.Encode(s, fn, flags)
	if err != nil {
		return "", err
	}
	return c.put(fn, data)
}

func (c *Store) put(fn *vm.Function, data []byte) (string, error) {
	desc, err := blob.MarshalDescription(fn)
	if err != nil {
		return "", fmt.Errorf("describing blob: %w", err)
	}
	key := Key(data)

	c.mu.Lock()
	defer c.mu.Unlock()

	_, err = c.db.Exec(
		"INSERT OR IGNORE INTO blobs (key, name, data, description, created) VALUES (?, ?, ?, ?, ?)",
		key, fn.Name, data, desc, time.Now().Unix(),
	)
	if err != nil {
		return "", fmt.Errorf("saving blob: %w", err)
	}
	log.Debugf("stored %s (%q, %s)", key, fn.Name, humanize.Bytes(uint64(len(data))))
	return key, nil
}

// Get returns the blob stored under key.
func (c *Store) Get(key string) ([]byte, error) {
	var data []byte
	err := c.db.QueryRow("SELECT data FROM blobs WHERE key = ?", key).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying blob: %w", err)
	}
	return data, nil
}

// Load decodes the blob stored under key into s.
func (c *Store) Load(s *vm.State, key string) (*vm.Function, error) {
	data, err := c.Get(key)
	if err != nil {
		return nil, err
	}
	return blob.Decode(s, data)
}

// Describe returns the stored description of the blob under key without
// decoding the blob itself.
func (c *Store) Describe(key string) (*blob.Description, error) {
	var desc []byte
	err := c.db.QueryRow("SELECT description FROM blobs WHERE key = ?", key).Scan(&desc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying description: %w", err)
	}
	return blob.UnmarshalDescription(desc)
}

// Has reports whether a blob is stored under key.
func (c *Store) Has(key string) (bool, error) {
	var n int
	if err := c.db.QueryRow("SELECT COUNT(*) FROM blobs WHERE key = ?", key).Scan(&n); err != nil {
		return false, fmt.Errorf("querying blob: %w", err)
	}
	return n > 0, nil
}

// Delete removes the blob under key. Deleting a missing key is not an
// error.
func (c *Store) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.db.Exec("DELETE FROM blobs WHERE key = ?", key); err != nil {
		return fmt.Errorf("deleting blob: %w", err)
	}
	return nil
}

// List returns every stored blob, oldest first.
func (c *Store) List() ([]Entry, error) {
	rows, err := c.db.Query("SELECT key, name, length(data), created FROM blobs ORDER BY created, key")
	if err != nil {
		return nil, fmt.Errorf("listing blobs: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var created int64
		if err := rows.Scan(&e.Key, &e.Name, &e.Size, &created); err != nil {
			return nil, fmt.Errorf("scanning blob row: %w", err)
		}
		e.Created = time.Unix(created, 0)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
