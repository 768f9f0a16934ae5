package sqlite

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/nacl/secretbox"
	_ "modernc.org/sqlite"

	sqlitemigrate "github.com/atlasdata/alfurij-admin/internal/platform/storage/sqlitemigrate"
	"github.com/atlasdata/alfurij-admin/internal/services/admin/storage"
	"github.com/atlasdata/alfurij-admin/internal/services/admin/storage/sqlite/migrations"
)

// timeFormat is fixed-width UTC so stored timestamps compare as text.
const timeFormat = "2006-01-02T15:04:05.000000000Z"

const nonceSize = 24

// Store provides a SQLite-backed store implementing admin storage interfaces.
type Store struct {
	sqlDB *sql.DB
	key   [32]byte
}

// Open opens a SQLite store at the provided path. secret seals stored
// bearer tokens and must stay stable across restarts.
func Open(path, secret string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("session secret is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB}
	if err := deriveKey(secret, &store.key); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	if err := sqlitemigrate.Apply(context.Background(), sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return store, nil
}

func deriveKey(secret string, key *[32]byte) error {
	reader := hkdf.New(sha256.New, []byte(secret), nil, []byte("alfurij-admin session token"))
	if _, err := io.ReadFull(reader, key[:]); err != nil {
		return fmt.Errorf("derive session key: %w", err)
	}
	return nil
}

// Close closes the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

// PutSession persists a session, sealing its token.
func (s *Store) PutSession(ctx context.Context, session storage.Session) (storage.Session, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Session{}, err
	}
	if strings.TrimSpace(session.Token) == "" {
		return storage.Session{}, fmt.Errorf("session token is required")
	}
	if session.ExpiresAt.IsZero() {
		return storage.Session{}, fmt.Errorf("session expiry is required")
	}
	if strings.TrimSpace(session.ID) == "" {
		session.ID = uuid.NewString()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}

	sealed, err := s.seal(session.Token)
	if err != nil {
		return storage.Session{}, err
	}
	_, err = s.sqlDB.ExecContext(ctx, `
INSERT INTO admin_sessions (session_id, sealed_token, admin_id, admin_name, admin_email, created_at, expires_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(session_id) DO UPDATE SET
    sealed_token = excluded.sealed_token,
    admin_id = excluded.admin_id,
    admin_name = excluded.admin_name,
    admin_email = excluded.admin_email,
    expires_at = excluded.expires_at`,
		session.ID, sealed, session.AdminID, session.AdminName, session.AdminEmail,
		session.CreatedAt.UTC().Format(timeFormat), session.ExpiresAt.UTC().Format(timeFormat))
	if err != nil {
		return storage.Session{}, fmt.Errorf("put session: %w", err)
	}
	return session, nil
}

// GetSession loads an unexpired session and opens its token.
func (s *Store) GetSession(ctx context.Context, id string, now time.Time) (storage.Session, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Session{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return storage.Session{}, storage.ErrNotFound
	}

	var (
		session              storage.Session
		sealed               []byte
		createdAt, expiresAt string
	)
	row := s.sqlDB.QueryRowContext(ctx, `
SELECT session_id, sealed_token, admin_id, admin_name, admin_email, created_at, expires_at
FROM admin_sessions WHERE session_id = ? AND expires_at > ?`, id, now.UTC().Format(timeFormat))
	err := row.Scan(&session.ID, &sealed, &session.AdminID, &session.AdminName, &session.AdminEmail, &createdAt, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.Session{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.Session{}, fmt.Errorf("get session: %w", err)
	}

	token, err := s.open(sealed)
	if err != nil {
		return storage.Session{}, err
	}
	session.Token = token
	if session.CreatedAt, err = time.Parse(timeFormat, createdAt); err != nil {
		return storage.Session{}, fmt.Errorf("parse created_at: %w", err)
	}
	if session.ExpiresAt, err = time.Parse(timeFormat, expiresAt); err != nil {
		return storage.Session{}, fmt.Errorf("parse expires_at: %w", err)
	}
	return session, nil
}

// DeleteSession removes a session; deleting a missing session is not an error.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM admin_sessions WHERE session_id = ?`, strings.TrimSpace(id)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteExpired removes every session expired at now.
func (s *Store) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM admin_sessions WHERE expires_at <= ?`, now.UTC().Format(timeFormat))
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return result.RowsAffected()
}

func (s *Store) seal(token string) ([]byte, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, fmt.Errorf("session nonce: %w", err)
	}
	return secretbox.Seal(nonce[:], []byte(token), &nonce, &s.key), nil
}

func (s *Store) open(sealed []byte) (string, error) {
	if len(sealed) < nonceSize+secretbox.Overhead {
		return "", fmt.Errorf("sealed token is truncated")
	}
	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])
	plain, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, &s.key)
	if !ok {
		return "", fmt.Errorf("sealed token does not open with the configured secret")
	}
	return string(plain), nil
}

var _ storage.Store = (*Store)(nil)
