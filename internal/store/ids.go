package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base32"
	"errors"
	"strings"
)

const (
	prefixProject      = "proj"
	prefixQuestionBank = "qb"
	prefixQuestion     = "q"
)

// newRandomID returns prefix-<suffix> where suffix is 8 chars of base32 (lowercase, no padding).
// 8 chars base32 ~= 40 bits (~1 trillion) of space.
func newRandomID(prefix string) (string, error) {
	var b [5]byte // 40 bits -> 8 base32 chars
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	enc := base32.StdEncoding.WithPadding(base32.NoPadding)
	suffix := strings.ToLower(enc.EncodeToString(b[:]))
	return prefix + "-" + suffix, nil
}

// maxIDAttempts bounds the retries when a fresh id is already taken.
const maxIDAttempts = 8

var errIDSpaceExhausted = errors.New("could not allocate a unique id")

// freeID returns an id for t that no row in tx uses yet.
func (d *DB) freeID(ctx context.Context, tx *sql.Tx, t *table) (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id, err := d.newID(t.prefix)
		if err != nil {
			return "", err
		}
		taken, err := idExists(ctx, tx, t, id)
		if err != nil {
			return "", err
		}
		if !taken {
			return id, nil
		}
	}
	return "", errIDSpaceExhausted
}

func idExists(ctx context.Context, tx *sql.Tx, t *table, id string) (bool, error) {
	var n int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM `+t.name+` WHERE id = ?`, id).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}
