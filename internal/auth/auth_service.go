package auth

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	autherrors "go-ats/internal/auth/errors"
	"go-ats/internal/domain"
	"go-ats/internal/store"
)

const sessionTTL = 24 * time.Hour

type Service interface {
	Login(ctx context.Context, email, password string) (token string, actor domain.Actor, err error)
	Logout(ctx context.Context, token string) error
	// Validate resolves a token to the acting user: signature, session
	// record, and expiry all have to hold.
	Validate(ctx context.Context, token string) (domain.Actor, error)
}

type service struct {
	store     store.Store
	jwtSecret []byte
	logger    *zap.Logger
}

func NewService(st store.Store, jwtSecret []byte, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{store: st, jwtSecret: jwtSecret, logger: l}
}

// isPasswordHash reports whether the stored credential is a bcrypt
// hash. Seed data and imported legacy users carry plaintext; they are
// upgraded on first successful login.
func isPasswordHash(v string) bool {
	return strings.HasPrefix(v, "$2")
}

func (s *service) Login(ctx context.Context, email, password string) (string, domain.Actor, error) {
	normalized := domain.NormalizeEmail(email)
	if !domain.IsAllowedCompanyEmail(normalized) {
		return "", domain.Actor{}, autherrors.ErrCompanyEmailRequired
	}
	if password == "" {
		return "", domain.Actor{}, autherrors.ErrPasswordRequired
	}

	user, err := s.findUserByEmail(ctx, normalized)
	if err != nil {
		return "", domain.Actor{}, err
	}
	if user == nil || user.Password == "" {
		return "", domain.Actor{}, autherrors.ErrInvalidCredentials
	}

	if isPasswordHash(user.Password) {
		if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
			return "", domain.Actor{}, autherrors.ErrInvalidCredentials
		}
	} else {
		if user.Password != password {
			return "", domain.Actor{}, autherrors.ErrInvalidCredentials
		}
		if err := s.upgradePlaintextPassword(ctx, user.ID, password); err != nil {
			s.logger.Error("plaintext password upgrade failed",
				zap.Int("user_id", user.ID),
				zap.Error(err),
			)
		}
	}

	now := time.Now().UTC()
	expiresAt := now.Add(sessionTTL)

	token, err := s.signToken(user.ID, user.Email, user.Role, expiresAt)
	if err != nil {
		return "", domain.Actor{}, err
	}

	session := domain.Session{
		UserID:    user.ID,
		Token:     token,
		CreatedAt: now.Format(time.RFC3339),
		ExpiresAt: expiresAt.Format(time.RFC3339),
	}
	rec := store.MustEncode(session)
	delete(rec, "id")
	if _, err := s.store.Create(ctx, store.Sessions, rec); err != nil {
		return "", domain.Actor{}, err
	}

	if _, err := s.store.Update(ctx, store.Users, user.ID, store.Record{
		"lastLogin": now.Format(time.RFC3339),
	}); err != nil {
		s.logger.Warn("update last login failed", zap.Int("user_id", user.ID), zap.Error(err))
	}

	s.logger.Info("login success", zap.Int("user_id", user.ID), zap.String("role", user.Role))
	return token, domain.Actor{ID: user.ID, Email: user.Email, Role: user.Role}, nil
}

func (s *service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	session, err := s.findSessionByToken(ctx, token)
	if err != nil || session == nil {
		return err
	}
	_, err = s.store.Delete(ctx, store.Sessions, session.ID)
	return err
}

func (s *service) Validate(ctx context.Context, token string) (domain.Actor, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, autherrors.ErrInvalidToken
		}
		return s.jwtSecret, nil
	})
	if err != nil || !parsed.Valid {
		return domain.Actor{}, autherrors.ErrInvalidToken
	}

	session, err := s.findSessionByToken(ctx, token)
	if err != nil {
		return domain.Actor{}, err
	}
	if session == nil {
		// Signature checked out but the session was revoked.
		return domain.Actor{}, autherrors.ErrInvalidToken
	}

	expiresAt, err := time.Parse(time.RFC3339, session.ExpiresAt)
	if err != nil || !expiresAt.After(time.Now()) {
		_, _ = s.store.Delete(ctx, store.Sessions, session.ID)
		return domain.Actor{}, autherrors.ErrSessionExpired
	}

	user, err := s.findUserByID(ctx, session.UserID)
	if err != nil {
		return domain.Actor{}, err
	}
	if user == nil {
		return domain.Actor{}, autherrors.ErrUserNotFound
	}

	return domain.Actor{ID: user.ID, Email: user.Email, Role: user.Role}, nil
}

func (s *service) signToken(userID int, email, role string, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"role":    role,
		"exp":     expiresAt.Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

func (s *service) upgradePlaintextPassword(ctx context.Context, userID int, plain string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = s.store.Update(ctx, store.Users, userID, store.Record{"password": string(hashed)})
	return err
}

func (s *service) findUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	recs, err := s.store.List(ctx, store.Users)
	if err != nil {
		return nil, err
	}
	users, err := store.DecodeAll[domain.User](recs)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if domain.NormalizeEmail(users[i].Email) == email {
			return &users[i], nil
		}
	}
	return nil, nil
}

func (s *service) findUserByID(ctx context.Context, id int) (*domain.User, error) {
	rec, err := s.store.Get(ctx, store.Users, id)
	if err != nil {
		if err == store.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	var user domain.User
	if err := store.Decode(rec, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *service) findSessionByToken(ctx context.Context, token string) (*domain.Session, error) {
	recs, err := s.store.List(ctx, store.Sessions)
	if err != nil {
		return nil, err
	}
	sessions, err := store.DecodeAll[domain.Session](recs)
	if err != nil {
		return nil, err
	}
	for i := range sessions {
		if sessions[i].Token == token {
			return &sessions[i], nil
		}
	}
	return nil, nil
}
