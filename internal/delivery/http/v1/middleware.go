package v1

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"taskmatrix/internal/services"
)

const (
	userIDCtxKey    = "user_id"
	sessionIDCtxKey = "session_id"
)

func (h *handlerImpl) HandleAuthMiddleware(c *gin.Context) {
	const authHeader = "Authorization"
	header := c.GetHeader(authHeader)
	if header == "" {
		h.logger.Error().Msg("authorization header required")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	const bearerPrefix = "Bearer"
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != bearerPrefix {
		h.logger.Error().Msg("invalid authorization header")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	accessToken := parts[1]
	claims, err := h.auth.ParseJWTToken(accessToken)
	if err != nil {
		if !errors.Is(err, jwt.ErrTokenExpired) {
			h.logger.Error().
				Err(err).
				Msg("failed to parse token")
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		h.HandleRefresh(c)
		if c.IsAborted() {
			return
		}

		accessToken, _ = c.Cookie(accessTokenCookie)
		claims, err = h.auth.ParseJWTToken(accessToken)
		if err != nil {
			h.logger.Error().
				Err(err).
				Msg("failed to parse fresh token")
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
	}

	session, err := h.sessions.GetSessionByID(c, claims.Subject)
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			h.logger.Warn().Msg("session not found")
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		h.logger.Error().
			Err(err).
			Msg("failed to fetch session")
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	browserFingerprint, err := generateFingerprint(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to generate fingerprint")
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	if browserFingerprint != session.Fingerprint {
		h.logger.Error().Msg("fingerprint mismatch")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	c.Set(userIDCtxKey, session.UserID)
	c.Set(sessionIDCtxKey, session.ID)
	c.Next()
}
