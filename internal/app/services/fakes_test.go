package services

import (
	"context"
	"sync"
	"time"

	"github.com/unionhq/union/internal/app/models"
	"github.com/unionhq/union/internal/pkg/apperrors"
)

// In-memory repository fakes. They mirror the store semantics the pgx
// repositories rely on: unique email/user_id, expiry filtering on lookup.

type fakeUserRepo struct {
	mu    sync.Mutex
	seq   int64
	users map[int64]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*models.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return apperrors.ErrEmailAlreadyExists
		}
	}
	r.seq++
	user.ID = r.seq
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *fakeUserRepo) EmailExists(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) SetResetToken(_ context.Context, userID int64, token string, expiry time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.ResetToken = &token
	u.ResetTokenExpiry = &expiry
	return nil
}

func (r *fakeUserRepo) GetByValidResetToken(_ context.Context, userID int64, token string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok || u.ResetToken == nil || *u.ResetToken != token {
		return nil, apperrors.ErrUserNotFound
	}
	if u.ResetTokenExpiry == nil || !u.ResetTokenExpiry.After(time.Now()) {
		return nil, apperrors.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, userID int64, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	u.ResetToken = nil
	u.ResetTokenExpiry = nil
	return nil
}

// expireResetToken backdates the store-side expiry, leaving the signed
// token itself untouched.
func (r *fakeUserRepo) expireResetToken(userID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	past := time.Now().Add(-time.Minute)
	r.users[userID].ResetTokenExpiry = &past
}

type fakeAdmissionRepo struct {
	mu    sync.Mutex
	seq   int64
	forms map[int64]*models.AdmissionForm // keyed by user id
}

func newFakeAdmissionRepo() *fakeAdmissionRepo {
	return &fakeAdmissionRepo{forms: make(map[int64]*models.AdmissionForm)}
}

func (r *fakeAdmissionRepo) Create(_ context.Context, form *models.AdmissionForm) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.forms[form.UserID]; exists {
		return apperrors.ErrAdmissionExists
	}
	r.seq++
	form.ID = r.seq
	form.SubmittedAt = time.Now()
	clone := *form
	r.forms[form.UserID] = &clone
	return nil
}

func (r *fakeAdmissionRepo) GetByUserID(_ context.Context, userID int64) (*models.AdmissionForm, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.forms[userID]
	if !ok {
		return nil, apperrors.ErrAdmissionNotFound
	}
	clone := *f
	return &clone, nil
}

func (r *fakeAdmissionRepo) ExistsByUserID(_ context.Context, userID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.forms[userID]
	return ok, nil
}

type fakeSessionRepo struct {
	mu        sync.Mutex
	sessions  map[string]*models.Session
	deleteErr error
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*models.Session)}
}

func (r *fakeSessionRepo) Create(_ context.Context, session *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	session.CreatedAt = time.Now()
	clone := *session
	r.sessions[session.ID] = &clone
	return nil
}

func (r *fakeSessionRepo) GetByID(_ context.Context, id string) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok || !s.ExpiresAt.After(time.Now()) {
		return nil, apperrors.ErrSessionNotFound
	}
	clone := *s
	return &clone, nil
}

func (r *fakeSessionRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return r.deleteErr
	}
	delete(r.sessions, id)
	return nil
}

func (r *fakeSessionRepo) DeleteExpired(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.sessions {
		if !s.ExpiresAt.After(time.Now()) {
			delete(r.sessions, id)
		}
	}
	return nil
}
