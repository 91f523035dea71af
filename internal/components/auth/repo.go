package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/andrasnagy-data/authsvc/internal/shared/config"
	"github.com/andrasnagy-data/authsvc/internal/shared/jsonfile"
)

type (
	// Repository resolves usernames against the credential file.
	Repository interface {
		// Lookup returns the record for username or ErrUserNotFound.
		Lookup(ctx context.Context, username string) (UserRecord, error)
		// Upsert inserts or replaces a record.
		Upsert(ctx context.Context, rec UserRecord) error
		// Ping reads and validates the whole file.
		Ping(ctx context.Context) error
	}

	repo struct {
		path        string
		lockTimeout time.Duration
	}
)

func NewRepo(cfg *config.Config) Repository {
	return &repo{
		path:        cfg.UsersPath(),
		lockTimeout: cfg.StoreLockTimeout,
	}
}

func (r *repo) Lookup(ctx context.Context, username string) (UserRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, r.lockTimeout)
	defer cancel()

	b, err := jsonfile.ReadFile(ctx, r.path)
	if err != nil {
		return UserRecord{}, r.readError(err)
	}
	users, err := decodeUsers(b)
	if err != nil {
		return UserRecord{}, err
	}

	rec, ok := users[username]
	if !ok {
		return UserRecord{}, ErrUserNotFound
	}
	return rec, nil
}

// Upsert is a read-modify-write under one lock hold. A missing file is created;
// a malformed one is left untouched.
func (r *repo) Upsert(ctx context.Context, rec UserRecord) error {
	if err := rec.validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, r.lockTimeout)
	defer cancel()

	return jsonfile.WithLock(ctx, r.path, func() error {
		users := map[string]UserRecord{}
		b, err := os.ReadFile(r.path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return r.readError(err)
		default:
			if users, err = decodeUsers(b); err != nil {
				return err
			}
		}

		users[rec.Username] = rec
		out, err := json.MarshalIndent(users, "", "  ")
		if err != nil {
			return fmt.Errorf("encode credential file: %w", err)
		}
		out = append(out, '\n')
		if err := jsonfile.WriteFileAtomic(r.path, out, 0o600); err != nil {
			return fmt.Errorf("write credential file %s: %w", r.path, err)
		}
		return nil
	})
}

func (r *repo) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.lockTimeout)
	defer cancel()

	b, err := jsonfile.ReadFile(ctx, r.path)
	if err != nil {
		return r.readError(err)
	}
	_, err = decodeUsers(b)
	return err
}

func (r *repo) readError(err error) error {
	switch {
	case errors.Is(err, jsonfile.ErrLockTimeout):
		return err
	case errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("%w: %s", ErrStoreMissing, r.path)
	default:
		return fmt.Errorf("read credential file %s: %w", r.path, err)
	}
}

// decodeUsers parses the credential object. Duplicate usernames, trailing data and
// invalid records make the whole file malformed.
func decodeUsers(b []byte) (map[string]UserRecord, error) {
	dec := json.NewDecoder(bytes.NewReader(b))

	tok, err := dec.Token()
	if err != nil {
		return nil, malformed(err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, malformed(errors.New("expected an object keyed by username"))
	}

	users := map[string]UserRecord{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, malformed(err)
		}
		name, _ := tok.(string)
		if _, dup := users[name]; dup {
			return nil, malformed(fmt.Errorf("duplicate user %q", name))
		}

		var rec UserRecord
		if err := dec.Decode(&rec); err != nil {
			return nil, malformed(fmt.Errorf("user %q: %w", name, err))
		}
		rec.Username = name
		if err := rec.validate(); err != nil {
			return nil, malformed(err)
		}
		users[name] = rec
	}

	if _, err := dec.Token(); err != nil {
		return nil, malformed(err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, malformed(errors.New("unexpected data after credential object"))
	}
	return users, nil
}

func (u UserRecord) validate() error {
	if u.Username == "" {
		return errors.New("username is empty")
	}
	if u.PasswordHash == "" {
		return fmt.Errorf("user %q: password hash is empty", u.Username)
	}
	if !u.Type.Valid() {
		return fmt.Errorf("user %q: unknown user type %q", u.Username, u.Type)
	}
	return nil
}

func malformed(err error) error {
	return fmt.Errorf("%w: %v", ErrStoreMalformed, err)
}
