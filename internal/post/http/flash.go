package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	flashCookieName = "blog_flash"
	flashTTL        = 5 * time.Minute
)

// KeyResolver resolves a named secret.
type KeyResolver interface {
	Resolve(ctx context.Context, name string) (string, error)
}

type flashClaims struct {
	Messages []string `json:"msgs"`
	jwt.RegisteredClaims
}

// FlashStore carries one-shot messages across a redirect in an HS256-signed cookie.
// The signing key is resolved on every use.
type FlashStore struct {
	keys    KeyResolver
	keyName string
	secure  bool
	logger  *slog.Logger
	now     func() time.Time
}

// NewFlashStore creates a FlashStore signing with the secret named keyName.
func NewFlashStore(keys KeyResolver, keyName string, secure bool, logger *slog.Logger) *FlashStore {
	return &FlashStore{
		keys:    keys,
		keyName: keyName,
		secure:  secure,
		logger:  logger,
		now:     time.Now,
	}
}

func (f *FlashStore) signingKey(ctx context.Context) ([]byte, error) {
	value, err := f.keys.Resolve(ctx, f.keyName)
	if err != nil {
		return nil, fmt.Errorf("resolve flash signing key: %w", err)
	}
	return []byte(value), nil
}

// Add queues msg for the next page rendered for this client.
func (f *FlashStore) Add(c *gin.Context, msg string) error {
	key, err := f.signingKey(c.Request.Context())
	if err != nil {
		return err
	}

	messages := append(f.read(c, key), msg)
	now := f.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, flashClaims{
		Messages: messages,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(flashTTL)),
		},
	})
	signed, err := token.SignedString(key)
	if err != nil {
		return fmt.Errorf("sign flash cookie: %w", err)
	}

	f.setCookie(c, signed, int(flashTTL.Seconds()))
	return nil
}

// Pop returns and clears the queued messages. A cookie that cannot be verified
// is discarded without error.
func (f *FlashStore) Pop(c *gin.Context) []string {
	if _, err := c.Cookie(flashCookieName); err != nil {
		return nil
	}
	f.setCookie(c, "", -1)

	key, err := f.signingKey(c.Request.Context())
	if err != nil {
		f.logger.Warn("flash messages dropped", slog.Any("error", err))
		return nil
	}
	return f.read(c, key)
}

func (f *FlashStore) read(c *gin.Context, key []byte) []string {
	raw, err := c.Cookie(flashCookieName)
	if err != nil || raw == "" {
		return nil
	}

	claims := &flashClaims{}
	_, err = jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (any, error) { return key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(f.now),
	)
	if err != nil {
		if !errors.Is(err, jwt.ErrTokenExpired) {
			f.logger.Debug("invalid flash cookie", slog.Any("error", err))
		}
		return nil
	}
	return claims.Messages
}

func (f *FlashStore) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookieName, value, maxAge, "/", "", f.secure, true)
}
