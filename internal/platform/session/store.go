package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	// CookieName is the session cookie issued at login.
	CookieName = "vroom_sid"

	// TTL after which a stored session is no longer honored.
	TTL = 24 * time.Hour

	// SweepInterval between deletions of expired rows.
	SweepInterval = 15 * time.Minute
)

// User is the payload persisted server-side for an authenticated session.
type User struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	Name    string `json:"nom"`
	Surname string `json:"prenom"`
	Photo   string `json:"photo"`
}

// Session is a server-side session row keyed by an opaque id.
type Session struct {
	ID        string         `json:"session_id" gorm:"column:session_id;primaryKey;type:varchar(64)"`
	Data      datatypes.JSON `json:"data" gorm:"column:data"`
	ExpiresAt time.Time      `json:"expires_at" gorm:"column:expires_at;index"`
}

// TableName overrides the table name for Session
func (Session) TableName() string {
	return "sessions"
}

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Create persists a new session for the given user and returns its id.
func (s *Store) Create(ctx context.Context, user User) (string, error) {
	idBytes := make([]byte, 32)
	if _, err := rand.Read(idBytes); err != nil {
		return "", err
	}
	id := hex.EncodeToString(idBytes)

	data, err := json.Marshal(user)
	if err != nil {
		return "", err
	}

	sess := Session{
		ID:        id,
		Data:      datatypes.JSON(data),
		ExpiresAt: time.Now().Add(TTL),
	}

	if err := s.db.WithContext(ctx).Create(&sess).Error; err != nil {
		return "", err
	}
	return id, nil
}

// Get resolves a session id to its stored user payload. A missing or expired
// session returns nil without error; a session row without a usable user
// payload returns a User with an empty ID.
func (s *Store) Get(ctx context.Context, id string) (*User, error) {
	var sess Session
	err := s.db.WithContext(ctx).
		Where("session_id = ? AND expires_at > ?", id, time.Now()).
		First(&sess).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var user User
	if len(sess.Data) > 0 {
		if err := json.Unmarshal(sess.Data, &user); err != nil {
			return nil, err
		}
	}
	return &user, nil
}

// Update rewrites the user payload of an existing session.
func (s *Store) Update(ctx context.Context, id string, user User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).
		Model(&Session{}).
		Where("session_id = ?", id).
		Update("data", datatypes.JSON(data)).Error
}

// Delete destroys a session. Deleting an unknown id is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).
		Where("session_id = ?", id).
		Delete(&Session{}).Error
}

// SweepExpired deletes all expired session rows and returns how many went.
func (s *Store) SweepExpired(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("expires_at <= ?", time.Now()).
		Delete(&Session{})
	return result.RowsAffected, result.Error
}

// StartSweeper launches a background loop that clears expired sessions every
// SweepInterval until ctx is cancelled.
func (s *Store) StartSweeper(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				swept, err := s.SweepExpired(ctx)
				if err != nil {
					log.Error().Err(err).Msg("Session sweep failed")
					continue
				}
				if swept > 0 {
					log.Info().Int64("swept", swept).Msg("Expired sessions removed")
				}
			}
		}
	}()
}

// NewCookie builds the session cookie for a freshly created session.
func NewCookie(id string) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(TTL),
	}
}

// ExpiredCookie clears the session cookie on logout.
func ExpiredCookie() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	}
}
