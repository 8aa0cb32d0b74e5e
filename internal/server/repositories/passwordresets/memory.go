package passwordresets

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/matrimo/internal/common"
	"github.com/dmitrijs2005/matrimo/internal/server/models"
)

type MemoryRepository struct {
	mu     sync.Mutex
	resets map[string]models.PasswordReset
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{resets: make(map[string]models.PasswordReset)}
}

func (r *MemoryRepository) Save(_ context.Context, reset *models.PasswordReset) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := *reset
	c.CodeHash = append([]byte(nil), reset.CodeHash...)
	c.Attempts = 0
	c.Verified = false
	c.CreatedAt = time.Now().UTC()
	r.resets[reset.Email] = c
	return nil
}

func (r *MemoryRepository) Find(_ context.Context, email string) (*models.PasswordReset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	reset, ok := r.resets[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &reset, nil
}

func (r *MemoryRepository) RecordAttempt(_ context.Context, email string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	reset, ok := r.resets[email]
	if !ok {
		return 0, common.ErrorNotFound
	}
	reset.Attempts++
	r.resets[email] = reset
	return reset.Attempts, nil
}

func (r *MemoryRepository) MarkVerified(_ context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	reset, ok := r.resets[email]
	if !ok {
		return common.ErrorNotFound
	}
	reset.Verified = true
	r.resets[email] = reset
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.resets, email)
	return nil
}
