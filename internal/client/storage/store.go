// Package storage persists the client session on disk: the token pair and
// the user's profile. Every value is sealed with AES-GCM under a key derived
// from the configured storage secret and a per-database salt.
package storage

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/matrimo/internal/client/models"
	"github.com/dmitrijs2005/matrimo/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/matrimo/internal/common"
	"github.com/dmitrijs2005/matrimo/internal/cryptox"
	"github.com/dmitrijs2005/matrimo/internal/dbx"
)

const (
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
	keyUserInfo     = "user_info"
	keySalt         = "salt"
	keyVerifier     = "verifier"

	saltSize = 16
)

// ErrSecretMismatch means the data on disk was sealed with another secret.
var ErrSecretMismatch = errors.New("stored session was sealed with a different secret")

// Store is safe for concurrent use.
type Store struct {
	db     *sql.DB
	secret []byte

	mu       sync.Mutex
	saltHex  string
	cacheKey []byte
}

func New(db *sql.DB, secret []byte) *Store {
	return &Store{db: db, secret: append([]byte(nil), secret...)}
}

func (s *Store) repo(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(db)
}

// sealingKey returns the key for the salt stored in repo. When no salt exists
// yet it either creates one (create=true) or returns nil.
func (s *Store) sealingKey(ctx context.Context, repo metadata.Repository, create bool) ([]byte, error) {
	salt, err := repo.Get(ctx, keySalt)
	if err != nil {
		return nil, err
	}

	if salt == nil {
		if !create {
			return nil, nil
		}
		salt = common.GenerateRandByteArray(saltSize)
		key := s.derive(salt)
		if err := repo.Set(ctx, keySalt, salt); err != nil {
			return nil, err
		}
		if err := repo.Set(ctx, keyVerifier, cryptox.MakeVerifier(key)); err != nil {
			return nil, err
		}
		return key, nil
	}

	key := s.derive(salt)
	verifier, err := repo.Get(ctx, keyVerifier)
	if err != nil {
		return nil, err
	}
	if subtle.ConstantTimeCompare(verifier, cryptox.MakeVerifier(key)) == 0 {
		return nil, ErrSecretMismatch
	}
	return key, nil
}

// derive runs Argon2id once per salt.
func (s *Store) derive(salt []byte) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := hex.EncodeToString(salt)
	if h != s.saltHex {
		s.cacheKey = cryptox.DeriveKey(s.secret, salt)
		s.saltHex = h
	}
	return s.cacheKey
}

func (s *Store) forget() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saltHex = ""
	s.cacheKey = nil
}

func (s *Store) put(ctx context.Context, repo metadata.Repository, key []byte, name string, v []byte) error {
	sealed, err := cryptox.Seal(v, key)
	if err != nil {
		return fmt.Errorf("seal %s: %w", name, err)
	}
	return repo.Set(ctx, name, sealed)
}

func (s *Store) putJSON(ctx context.Context, repo metadata.Repository, key []byte, name string, v any) error {
	sealed, err := cryptox.SealJSON(v, key)
	if err != nil {
		return fmt.Errorf("seal %s: %w", name, err)
	}
	return repo.Set(ctx, name, sealed)
}

// SaveSession stores the token pair and user in one transaction.
func (s *Store) SaveSession(ctx context.Context, accessToken, refreshToken string, user *models.User) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo(tx)
		key, err := s.sealingKey(ctx, repo, true)
		if err != nil {
			return err
		}
		if err := s.put(ctx, repo, key, keyAccessToken, []byte(accessToken)); err != nil {
			return err
		}
		if err := s.put(ctx, repo, key, keyRefreshToken, []byte(refreshToken)); err != nil {
			return err
		}
		if user == nil {
			return repo.Delete(ctx, keyUserInfo)
		}
		return s.putJSON(ctx, repo, key, keyUserInfo, user)
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// SaveTokens replaces the stored token pair, e.g. after a transparent refresh.
func (s *Store) SaveTokens(ctx context.Context, accessToken, refreshToken string) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo(tx)
		key, err := s.sealingKey(ctx, repo, true)
		if err != nil {
			return err
		}
		if err := s.put(ctx, repo, key, keyAccessToken, []byte(accessToken)); err != nil {
			return err
		}
		return s.put(ctx, repo, key, keyRefreshToken, []byte(refreshToken))
	})
	if err != nil {
		return fmt.Errorf("save tokens: %w", err)
	}
	return nil
}

func (s *Store) SaveUserInfo(ctx context.Context, user *models.User) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo(tx)
		key, err := s.sealingKey(ctx, repo, true)
		if err != nil {
			return err
		}
		return s.putJSON(ctx, repo, key, keyUserInfo, user)
	})
	if err != nil {
		return fmt.Errorf("save user info: %w", err)
	}
	return nil
}

func (s *Store) getRaw(ctx context.Context, name string) ([]byte, error) {
	repo := s.repo(s.db)
	key, err := s.sealingKey(ctx, repo, false)
	if err != nil || key == nil {
		return nil, err
	}

	sealed, err := repo.Get(ctx, name)
	if err != nil || sealed == nil {
		return nil, err
	}
	plain, err := cryptox.Open(sealed, key)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	return plain, nil
}

// GetStoreToken returns the stored access token, or "" when there is none.
func (s *Store) GetStoreToken(ctx context.Context) (string, error) {
	v, err := s.getRaw(ctx, keyAccessToken)
	if err != nil {
		return "", fmt.Errorf("get access token: %w", err)
	}
	return string(v), nil
}

// GetRefreshToken returns the stored refresh token, or "" when there is none.
func (s *Store) GetRefreshToken(ctx context.Context) (string, error) {
	v, err := s.getRaw(ctx, keyRefreshToken)
	if err != nil {
		return "", fmt.Errorf("get refresh token: %w", err)
	}
	return string(v), nil
}

// GetUserInfo returns the stored user, or nil when there is none.
func (s *Store) GetUserInfo(ctx context.Context) (*models.User, error) {
	repo := s.repo(s.db)
	key, err := s.sealingKey(ctx, repo, false)
	if err != nil {
		return nil, fmt.Errorf("get user info: %w", err)
	}
	if key == nil {
		return nil, nil
	}

	sealed, err := repo.Get(ctx, keyUserInfo)
	if err != nil {
		return nil, fmt.Errorf("get user info: %w", err)
	}
	if sealed == nil {
		return nil, nil
	}

	var u models.User
	if err := cryptox.OpenJSON(sealed, key, &u); err != nil {
		return nil, fmt.Errorf("get user info: %w", err)
	}
	return &u, nil
}

// ClearAllData wipes every persisted value, the salt included.
func (s *Store) ClearAllData(ctx context.Context) error {
	if err := s.repo(s.db).Clear(ctx); err != nil {
		return fmt.Errorf("clear local data: %w", err)
	}
	s.forget()
	return nil
}
