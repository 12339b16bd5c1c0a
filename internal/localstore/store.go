// Package localstore keeps the CLI session and the last mirrored workday
// entries in a bbolt file.
package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go-timesheet/internal/apiclient"
	"go-timesheet/internal/workday"

	bolt "go.etcd.io/bbolt"
)

const (
	sessionBucket = "session"
	entryBucket   = "entries"

	sessionKey = "current"
)

var errLocked = errors.New("the local database is locked: is another clock command running?")

type Store struct {
	db *bolt.DB
}

// Open opens or creates the database at path and its buckets.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}

	var fileMode fs.FileMode = 0o600
	db, err := bolt.Open(path, fileMode, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		if errors.Is(err, bolt.ErrTimeout) {
			return nil, errLocked
		}
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{sessionBucket, entryBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("create bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) put(bucket, key string, v any) error {
	value, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucket)).Put([]byte(key), value)
	})
}

// get decodes the value at key into v and reports whether it existed.
func (s *Store) get(bucket, key string, v any) (bool, error) {
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket([]byte(bucket)).Get([]byte(key))
		if len(raw) == 0 {
			return nil
		}
		found = true
		return json.Unmarshal(raw, v)
	})
	return found, err
}

func (s *Store) SaveSession(sess apiclient.Session) error {
	return s.put(sessionBucket, sessionKey, sess)
}

// Session returns the stored session, ok=false when nobody is logged in.
func (s *Store) Session() (apiclient.Session, bool, error) {
	var sess apiclient.Session
	ok, err := s.get(sessionBucket, sessionKey, &sess)
	return sess, ok, err
}

func (s *Store) ClearSession() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(sessionBucket)).Delete([]byte(sessionKey))
	})
}

// SaveEntry mirrors e under its date, replacing any earlier copy.
func (s *Store) SaveEntry(e workday.Entry) error {
	if e.Date == "" {
		return fmt.Errorf("localstore: entry without date")
	}
	return s.put(entryBucket, e.Date, e)
}

func (s *Store) Entry(date string) (workday.Entry, bool, error) {
	var e workday.Entry
	ok, err := s.get(entryBucket, date, &e)
	return e, ok, err
}

// Latest returns the most recent mirrored entry. Keys are YYYY-MM-DD so
// the last key is the latest day.
func (s *Store) Latest() (workday.Entry, bool, error) {
	var (
		e     workday.Entry
		found bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		_, raw := tx.Bucket([]byte(entryBucket)).Cursor().Last()
		if raw == nil {
			return nil
		}
		found = true
		return json.Unmarshal(raw, &e)
	})
	return e, found, err
}
