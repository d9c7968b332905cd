package v1

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/avgarcia/go-tasklist/internal/models"
	"github.com/avgarcia/go-tasklist/internal/storage"
)

const (
	sessionCookie     = "session"
	currentUserCtxKey = "current_user"
)

// sessionCodec signs and verifies the session cookie. The cookie carries a
// JWT whose subject is the user's id; the client never presents its
// identity in clear.
type sessionCodec struct {
	issuer     string
	signingKey []byte
	ttl        time.Duration
}

func (sc sessionCodec) issue(userID int64) (string, error) {
	tokenUUID, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate token id: %w", err)
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        tokenUUID.String(),
		Issuer:    sc.issuer,
		Subject:   strconv.FormatInt(userID, 10),
		ExpiresAt: jwt.NewNumericDate(now.Add(sc.ttl)),
		NotBefore: jwt.NewNumericDate(now),
		IssuedAt:  jwt.NewNumericDate(now),
	})

	signed, err := token.SignedString(sc.signingKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (sc sessionCodec) parse(tokenString string) (int64, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&jwt.RegisteredClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return sc.signingKey, nil
		},
		jwt.WithIssuer(sc.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return 0, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return 0, errors.New("failed to parse token claims")
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid token subject: %w", err)
	}
	return userID, nil
}

// HandleSessionMiddleware resolves the session cookie to a user before any
// handler runs. A missing, invalid, or stale cookie leaves the request
// anonymous rather than failing it.
func (h *handlerImpl) HandleSessionMiddleware(c *gin.Context) {
	tokenString, err := c.Cookie(sessionCookie)
	if err != nil {
		c.Next()
		return
	}

	userID, err := h.sessions.parse(tokenString)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("invalid session cookie")
		clearCookie(c, sessionCookie)
		c.Next()
		return
	}

	user, err := h.store.FindUserByID(c, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			h.logger.Warn().
				Int64("user_id", userID).
				Msg("session cookie for unknown user")
			clearCookie(c, sessionCookie)
			c.Next()
			return
		}

		h.logger.Error().
			Err(err).
			Msg("failed to resolve session user")
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	c.Set(currentUserCtxKey, user)
	c.Next()
}

func currentUser(c *gin.Context) *models.User {
	value, exists := c.Get(currentUserCtxKey)
	if !exists {
		return nil
	}
	user, _ := value.(*models.User)
	return user
}

func setSessionCookie(c *gin.Context, token string, maxAge time.Duration) {
	const secure, httpOnly = false, true
	c.SetCookie(sessionCookie, token, int(maxAge.Seconds()),
		"/", "", secure, httpOnly)
}

func clearCookie(c *gin.Context, name string) {
	c.SetCookie(name, "", -1,
		"/", "", false, true)
}
