package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/grimoire-notes/grimoire/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/grimoire-notes/grimoire/internal/core/domain"
	"github.com/grimoire-notes/grimoire/internal/core/ports/driven"
	"github.com/grimoire-notes/grimoire/internal/logger"
)

// DefaultFileName is the database file name used when no path is configured.
const DefaultFileName = "vectors.db"

// Ensure Repository implements the interface.
var _ driven.StoreRepository = (*Repository)(nil)

// Repository stores the vector store in a SQLite database.
type Repository struct {
	db   *sql.DB
	path string
}

// NewRepository opens (creating if needed) the database at path and applies
// pending migrations.
func NewRepository(path string) (*Repository, error) {
	if path == "" {
		return nil, fmt.Errorf("database path is empty: %w", domain.ErrInvalidInput)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	// WAL lets readers proceed while a Save rewrites the table.
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	r := &Repository{
		db:   db,
		path: path,
	}

	if err := r.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating %s: %w", path, err)
	}

	return r, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// Location returns the database file path.
func (r *Repository) Location() string {
	return r.path
}

// Load reads all records ordered by position.
func (r *Repository) Load(ctx context.Context) (*domain.Store, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT text, vector FROM store_docs ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying store: %w", err)
	}
	defer rows.Close()

	store := domain.NewStore()
	for rows.Next() {
		var text string
		var blob []byte
		if err := rows.Scan(&text, &blob); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		if len(blob)%4 != 0 {
			return nil, fmt.Errorf("record %d has a %d byte vector: %w",
				len(store.Docs), len(blob), domain.ErrStoreCorrupt)
		}
		store.Docs = append(store.Docs, domain.StoreDocument{
			Text:   text,
			Vector: decodeVector(blob),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}

	if err := store.Validate(); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrStoreCorrupt)
	}

	logger.Debug("loaded %d docs from %s", store.Len(), r.path)
	return store, nil
}

// Save replaces every stored record with the contents of s in one transaction.
func (r *Repository) Save(ctx context.Context, s *domain.Store) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM store_docs`); err != nil {
		return fmt.Errorf("clearing store: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO store_docs (position, text, vector) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, d := range s.Docs {
		if _, err := stmt.ExecContext(ctx, i, d.Text, encodeVector(d.Vector)); err != nil {
			return fmt.Errorf("inserting record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing store: %w", err)
	}

	logger.Debug("saved %d docs to %s", s.Len(), r.path)
	return nil
}

// migrate applies each NNN_name.up.sql newer than the database's
// user_version, one transaction per file.
func (r *Repository) migrate(fsys fs.FS) error {
	var applied int
	if err := r.db.QueryRow(`PRAGMA user_version`).Scan(&applied); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	names, err := fs.Glob(fsys, "*.up.sql")
	if err != nil {
		return err
	}
	slices.Sort(names)

	for _, name := range names {
		prefix, _, _ := strings.Cut(name, "_")
		n, err := strconv.Atoi(prefix)
		if err != nil {
			return fmt.Errorf("migration %s: no numeric prefix", name)
		}
		if n <= applied {
			continue
		}
		script, err := fs.ReadFile(fsys, name)
		if err != nil {
			return err
		}
		if err := r.apply(n, string(script)); err != nil {
			return fmt.Errorf("migration %s: %w", name, err)
		}
		logger.Debug("sqlite: applied %s", name)
	}
	return nil
}

func (r *Repository) apply(version int, script string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(script); err != nil {
		return err
	}
	// PRAGMA takes no bind parameters.
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", version)); err != nil {
		return err
	}
	return tx.Commit()
}

// Vectors are stored as little-endian float32 blobs.

func encodeVector(v []float32) []byte {
	out := make([]byte, 0, 4*len(v))
	for _, x := range v {
		out = binary.LittleEndian.AppendUint32(out, math.Float32bits(x))
	}
	return out
}

func decodeVector(blob []byte) []float32 {
	v := make([]float32, len(blob)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[4*i:]))
	}
	return v
}
