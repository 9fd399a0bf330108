package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	kindCart  = "cart"
	kindAdmin = "admin"

	adminTTL = 12 * time.Hour
)

type claims struct {
	Kind string `json:"kind"`
	jwt.StandardClaims
}

// Options configures token signing and the admin account.
type Options struct {
	Secret            []byte
	SessionTTL        time.Duration
	AdminUsername     string
	AdminPasswordHash string
	Now               func() time.Time
}

type service struct{ opts Options }

// NewService creates a new auth service.
func NewService(opts Options) Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 30 * 24 * time.Hour
	}
	return &service{opts: opts}
}

func (s *service) NewSession(ctx context.Context) (*Session, error) {
	id := uuid.New().String()
	expires := s.opts.Now().Add(s.opts.SessionTTL)
	token, err := s.sign(kindCart, id, expires)
	if err != nil {
		return nil, err
	}
	return &Session{ID: id, Token: token, ExpiresAt: expires}, nil
}

func (s *service) VerifySession(token string) (string, error) {
	c, err := s.parse(token)
	if err != nil {
		return "", err
	}
	if c.Kind != kindCart || c.Subject == "" {
		return "", ErrInvalidToken
	}
	return c.Subject, nil
}

func (s *service) Login(ctx context.Context, username, password string) (string, error) {
	if s.opts.AdminPasswordHash == "" {
		return "", ErrAdminDisabled
	}
	if subtle.ConstantTimeCompare([]byte(username), []byte(s.opts.AdminUsername)) != 1 {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.opts.AdminPasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.sign(kindAdmin, username, s.opts.Now().Add(adminTTL))
}

func (s *service) VerifyAdmin(token string) error {
	c, err := s.parse(token)
	if err != nil {
		return err
	}
	if c.Kind != kindAdmin {
		return ErrInvalidToken
	}
	return nil
}

func (s *service) sign(kind, subject string, expires time.Time) (string, error) {
	c := &claims{
		Kind: kind,
		StandardClaims: jwt.StandardClaims{
			Subject:   subject,
			IssuedAt:  s.opts.Now().Unix(),
			ExpiresAt: expires.Unix(),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.opts.Secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

func (s *service) parse(token string) (*claims, error) {
	c := &claims{}
	parsed, err := jwt.ParseWithClaims(token, c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.opts.Secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if c.ExpiresAt != 0 && s.opts.Now().Unix() > c.ExpiresAt {
		return nil, ErrInvalidToken
	}
	return c, nil
}
