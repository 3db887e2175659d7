/*
Package catalog maintains a SQLite index of the textures found on disk.

Each distinct texture is stored once, keyed by the SHA-1 of its contents,
along with its header. Every path the texture was found at is recorded
against it so duplicates across a directory tree are easy to spot.
*/
package catalog

import (
	"crypto/sha1"
	"database/sql"
	"encoding/binary"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/bodgit/bti"
	"github.com/bodgit/bti/gx"
	_ "github.com/mattn/go-sqlite3" // register sqlite3
	"github.com/remeh/sizedwaitgroup"
)

// Entry is a single indexed texture.
type Entry struct {
	Path   string
	SHA1   string
	Size   int64
	Header bti.Header
}

// DB is the texture catalog.
type DB struct {
	db     *sql.DB
	order  binary.ByteOrder
	logger *log.Logger

	// Serialises writers, sqlite only allows one at a time
	mu sync.Mutex
}

// New opens or creates the catalog stored in file. Texture headers are read
// using order, big-endian if nil.
func New(file string, order binary.ByteOrder, logger *log.Logger) (*DB, error) {
	if order == nil {
		order = binary.BigEndian
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on&_busy_timeout=5000", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS texture (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL UNIQUE, size INTEGER NOT NULL, format INTEGER NOT NULL, width INTEGER NOT NULL, height INTEGER NOT NULL, header BLOB NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS path (texture_id INTEGER NOT NULL, path TEXT NOT NULL UNIQUE, FOREIGN KEY(texture_id) REFERENCES texture(id))"); err != nil {
		db.Close()
		return nil, err
	}

	return &DB{
		db:     db,
		order:  order,
		logger: logger,
	}, nil
}

// Close closes the catalog.
func (db *DB) Close() error {
	return db.db.Close()
}

// Add parses the texture in file and records it in the catalog, returning the
// id of the texture.
func (db *DB) Add(file string) (int64, error) {
	path, err := filepath.Abs(file)
	if err != nil {
		return 0, err
	}

	b, err := ioutil.ReadFile(path)
	if err != nil {
		return 0, err
	}

	t, err := bti.Decode(b, db.order)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	sha := fmt.Sprintf("%X", sha1.Sum(b))

	db.mu.Lock()
	defer db.mu.Unlock()

	id, err := db.addTexture(sha, int64(len(b)), &t.Header)
	if err != nil {
		return 0, err
	}

	if _, err := db.db.Exec("INSERT OR REPLACE INTO path (texture_id, path) VALUES (?, ?)", id, path); err != nil {
		return 0, err
	}

	return id, nil
}

func (db *DB) addTexture(sha string, size int64, h *bti.Header) (int64, error) {
	var id int64
	switch err := db.db.QueryRow("SELECT id FROM texture WHERE sha1 = ?", sha).Scan(&id); err {
	case sql.ErrNoRows:
		header, err := h.MarshalBinary()
		if err != nil {
			return 0, err
		}
		result, err := db.db.Exec("INSERT INTO texture (sha1, size, format, width, height, header) VALUES (?, ?, ?, ?, ?, ?)", sha, size, h.Format, h.Width, h.Height, header)
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	case nil:
		return id, nil
	default:
		return 0, err
	}
}

// Index walks the directory tree rooted at dir adding every texture found.
// Files that fail to parse are logged and skipped.
func (db *DB) Index(dir string) (int, error) {
	var files []string
	if err := filepath.Walk(dir, func(file string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		// Ignore any hidden files or directories
		if info.Name()[0] == '.' && file != dir {
			if info.Mode().IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if info.Mode().IsRegular() && strings.EqualFold(filepath.Ext(file), ".bti") {
			files = append(files, file)
		}

		return nil
	}); err != nil {
		return 0, err
	}

	var mu sync.Mutex
	var added int

	wg := sizedwaitgroup.New(runtime.NumCPU())
	for _, file := range files {
		wg.Add()
		go func(file string) {
			defer wg.Done()
			if _, err := db.Add(file); err != nil {
				db.logger.Printf("Skipping \"%s\": %v\n", file, err)
				return
			}
			mu.Lock()
			added++
			mu.Unlock()
		}(file)
	}
	wg.Wait()

	return added, nil
}

func (db *DB) query(query string, args ...interface{}) ([]Entry, error) {
	rows, err := db.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var header []byte
		if err := rows.Scan(&e.Path, &e.SHA1, &e.Size, &header); err != nil {
			return nil, err
		}
		if err := e.Header.UnmarshalBinary(header); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// All returns every indexed texture ordered by path.
func (db *DB) All() ([]Entry, error) {
	return db.query("SELECT p.path, t.sha1, t.size, t.header FROM path AS p JOIN texture AS t ON p.texture_id = t.id ORDER BY p.path")
}

// ByFormat returns every indexed texture of the given format ordered by path.
func (db *DB) ByFormat(f gx.Format) ([]Entry, error) {
	return db.query("SELECT p.path, t.sha1, t.size, t.header FROM path AS p JOIN texture AS t ON p.texture_id = t.id WHERE t.format = ? ORDER BY p.path", f)
}

// Duplicates returns the textures found at more than one path.
func (db *DB) Duplicates() ([]Entry, error) {
	return db.query("SELECT p.path, t.sha1, t.size, t.header FROM path AS p JOIN texture AS t ON p.texture_id = t.id WHERE t.id IN (SELECT texture_id FROM path GROUP BY texture_id HAVING COUNT(*) > 1) ORDER BY t.sha1, p.path")
}
