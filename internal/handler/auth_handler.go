package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"jwtauth/internal/domain"
	"jwtauth/internal/service"
)

// AuthResponse is the body returned by a successful token exchange.
type AuthResponse struct {
	Token                       string    `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	TokenExpiryInMinutes        int       `json:"tokenExpiryInMinutes" example:"15"`
	RefreshToken                string    `json:"refreshToken" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	RefreshTokenExpiryInMinutes int       `json:"refreshTokenExpiryInMinutes" example:"10080"`
	ExpiresAt                   time.Time `json:"expiresAt" example:"2024-01-01T12:15:00Z"`
}

// NewAuthResponse maps a session token to the response body.
func NewAuthResponse(t *domain.SessionToken) AuthResponse {
	return AuthResponse{
		Token:                       t.AccessToken,
		TokenExpiryInMinutes:        int(t.AccessTokenLifetime() / time.Minute),
		RefreshToken:                t.RefreshToken,
		RefreshTokenExpiryInMinutes: int(t.RefreshTokenLifetime() / time.Minute),
		ExpiresAt:                   t.AccessTokenExpiry,
	}
}

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	socialAuthService service.SocialAuthService
	log               *zap.Logger
}

// NewAuthHandler creates a new AuthHandler. A nil log discards output.
func NewAuthHandler(socialAuthService service.SocialAuthService, log *zap.Logger) *AuthHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthHandler{socialAuthService: socialAuthService, log: log}
}

// GoogleLogin handles POST /api/v1/auth/google
// @Summary      Exchange a Google identity token
// @Description  Verifies a Google/Firebase ID token, signs in the matching account or creates one, and returns a fresh access/refresh token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body body GoogleLoginRequest true "Identity token"
// @Success      200 {object} AuthResponse
// @Failure      400 {object} ProblemDetails
// @Failure      409 {object} ProblemDetails
// @Failure      429 {object} ProblemDetails
// @Failure      500 {object} ProblemDetails
// @Router       /auth/google [post]
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var input service.SocialLoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondValidationProblem(c, err)
		return
	}

	output, err := h.socialAuthService.SocialLogin(c.Request.Context(), input)
	if err != nil {
		HandleError(c, h.log, err)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, NewAuthResponse(output.Session))
}
