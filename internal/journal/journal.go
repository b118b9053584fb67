// Package journal persists a record of every served request in sqlite.
// Only metadata is stored: identifiers, tags, outcome and a blake3
// fingerprint of the response body. Raw key material never touches disk.
package journal

import (
	"database/sql"
	"encoding/hex"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/zeebo/blake3"

	"dev.c0redev.pqmsg/pkg/pqwire"
)

// Journal wraps the sqlite handle.
type Journal struct {
	*sql.DB
}

// Open opens (or creates) the journal at path and runs migrations.
// Use ":memory:" in tests.
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, err
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Journal{db}, nil
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS requests (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			identifier INTEGER NOT NULL,
			algorithm INTEGER NOT NULL,
			operation INTEGER NOT NULL,
			success INTEGER NOT NULL,
			resp_len INTEGER NOT NULL,
			resp_digest TEXT NOT NULL,
			created_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_requests_identifier ON requests(identifier);
	`)
	return err
}

// Record is one served request.
type Record struct {
	Identifier uint64
	Algorithm  pqwire.Algorithm
	Operation  pqwire.Operation
	Success    int8
	RespLen    int
	RespDigest string
	CreatedAt  time.Time
}

// Append inserts rec with the current time.
func (j *Journal) Append(rec Record) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := j.Exec(
		"INSERT INTO requests (identifier, algorithm, operation, success, resp_len, resp_digest, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		int64(rec.Identifier), int64(rec.Algorithm), int64(rec.Operation), rec.Success, rec.RespLen, rec.RespDigest, now,
	)
	return err
}

// Recent returns the newest limit records, newest first.
func (j *Journal) Recent(limit int) ([]Record, error) {
	rows, err := j.Query(
		"SELECT identifier, algorithm, operation, success, resp_len, resp_digest, created_at FROM requests ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Record
	for rows.Next() {
		var r Record
		var ident, alg, op int64
		var t string
		if err := rows.Scan(&ident, &alg, &op, &r.Success, &r.RespLen, &r.RespDigest, &t); err != nil {
			return nil, err
		}
		r.Identifier = uint64(ident)
		r.Algorithm = pqwire.Algorithm(alg)
		r.Operation = pqwire.Operation(op)
		r.CreatedAt, _ = time.Parse(time.RFC3339, t)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Fingerprint returns the hex blake3 digest of body, or "" for an empty one.
func Fingerprint(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	sum := blake3.Sum256(body)
	return hex.EncodeToString(sum[:])
}
