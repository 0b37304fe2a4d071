package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/lord-einar/megasys/internal/middleware"
	"github.com/lord-einar/megasys/internal/models"
	"github.com/lord-einar/megasys/internal/permissions"
	"github.com/lord-einar/megasys/internal/security"
	"github.com/lord-einar/megasys/internal/service"
)

type userPayload struct {
	ID              string                     `json:"id"`
	Email           string                     `json:"email"`
	FirstName       string                     `json:"firstName"`
	LastName        string                     `json:"lastName"`
	FullName        string                     `json:"fullName"`
	Role            string                     `json:"role"`
	Groups          []string                   `json:"groups"`
	Permissions     map[string]map[string]bool `json:"permissions"`
	GroupAnalysis   models.GroupAnalysis       `json:"groupAnalysis"`
	ProfilePhotoURL string                     `json:"profilePhotoUrl,omitempty"`
}

func (h HandlerSet) userPayload(c *gin.Context, user models.User) userPayload {
	photoURL := ""
	if user.ProfilePhotoURL != nil {
		photoURL = h.resolvePhotoURL(c, *user.ProfilePhotoURL)
	}
	return userPayload{
		ID:              user.ID,
		Email:           user.Email,
		FirstName:       user.FirstName,
		LastName:        user.LastName,
		FullName:        user.DisplayName(),
		Role:            string(user.Role),
		Groups:          user.Groups,
		Permissions:     permissions.For(user.Role),
		GroupAnalysis:   user.GroupAnalysis,
		ProfilePhotoURL: photoURL,
	}
}

func (h HandlerSet) resolvePhotoURL(c *gin.Context, stored string) string {
	if stored == "" || h.photos == nil {
		return stored
	}
	resolved, err := h.photos.ResolveURL(c.Request.Context(), stored)
	if err != nil {
		h.log.Warn().Err(err).Str("object", stored).Msg("resolve profile photo failed")
		return ""
	}
	return resolved
}

// LoginURL hands the front end the identity-provider authorize URL; the login
// flow is a full-page redirect, not an in-page form.
func (h HandlerSet) LoginURL(c *gin.Context) {
	authorize, err := url.Parse(h.cfg.Identity.AuthorizeURL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "idp_misconfigured"})
		return
	}

	q := authorize.Query()
	q.Set("client_id", h.cfg.Identity.ClientID)
	q.Set("redirect_uri", h.callbackURL(c))
	q.Set("response_type", "id_token")
	authorize.RawQuery = q.Encode()

	c.JSON(http.StatusOK, gin.H{"url": authorize.String()})
}

func (h HandlerSet) callbackURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host + "/api/v1/auth/callback"
}

// Callback completes the IdP redirect and bounces the browser back to the
// front end with either an auth_data blob or error parameters.
func (h HandlerSet) Callback(c *gin.Context) {
	frontend := h.cfg.Frontend.BaseURL + h.cfg.Frontend.LoginPath

	idToken := c.Query("id_token")
	if idToken == "" {
		h.redirectWithError(c, frontend, "invalid_request", "missing id_token")
		return
	}

	result, err := h.authService.CompleteCallback(c.Request.Context(), idToken, c.ClientIP(), c.GetHeader("User-Agent"))
	if err != nil {
		h.log.Warn().Err(err).Msg("idp callback rejected")
		h.redirectWithError(c, frontend, "access_denied", "identity verification failed")
		return
	}

	blob, err := h.encodeAuthData(c, result)
	if err != nil {
		h.log.Error().Err(err).Msg("encode auth data failed")
		h.redirectWithError(c, frontend, "server_error", "could not issue session")
		return
	}

	target, _ := url.Parse(frontend)
	q := target.Query()
	q.Set("auth_data", blob)
	target.RawQuery = q.Encode()
	c.Redirect(http.StatusFound, target.String())
}

func (h HandlerSet) redirectWithError(c *gin.Context, frontend, code, description string) {
	target, err := url.Parse(frontend)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": code})
		return
	}
	q := target.Query()
	q.Set("error", code)
	q.Set("error_description", description)
	target.RawQuery = q.Encode()
	c.Redirect(http.StatusFound, target.String())
}

func (h HandlerSet) encodeAuthData(c *gin.Context, result service.AuthResult) (string, error) {
	payload := h.userPayload(c, result.User)
	return security.EncodeAuthData(security.AuthData{
		User: map[string]any{
			"id":            payload.ID,
			"email":         payload.Email,
			"firstName":     payload.FirstName,
			"lastName":      payload.LastName,
			"fullName":      payload.FullName,
			"role":          payload.Role,
			"groups":        payload.Groups,
			"permissions":   payload.Permissions,
			"groupAnalysis": payload.GroupAnalysis,
		},
		Token:           result.AccessToken,
		RefreshToken:    result.RefreshToken,
		ProfilePhotoURL: payload.ProfilePhotoURL,
	})
}

type localLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginLocal is the development-only password path; disabled in production
// config.
func (h HandlerSet) LoginLocal(c *gin.Context) {
	var req localLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authService.LoginLocal(c.Request.Context(), req.Email, req.Password, c.ClientIP(), c.GetHeader("User-Agent"))
	if err != nil {
		status := http.StatusUnauthorized
		switch {
		case errors.Is(err, service.ErrLocalLoginDisabled):
			status = http.StatusNotFound
		case errors.Is(err, service.ErrUserSuspended):
			status = http.StatusForbidden
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	h.sendAuthResult(c, result)
}

type refreshRequest struct {
	UserID       string `json:"userId" binding:"required"`
	RefreshToken string `json:"refreshToken" binding:"required"`
}

func (h HandlerSet) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authService.Refresh(c.Request.Context(), req.UserID, req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	h.sendAuthResult(c, result)
}

func (h HandlerSet) sendAuthResult(c *gin.Context, result service.AuthResult) {
	c.JSON(http.StatusOK, gin.H{
		"user":         h.userPayload(c, result.User),
		"token":        result.AccessToken,
		"refreshToken": result.RefreshToken,
	})
}

// Me is the session verification probe: 200 confirms the bearer token, any
// non-2xx tells the client to drop its cached session.
func (h HandlerSet) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	user.GroupAnalysis = service.AnalyzeGroups(user.Groups)
	c.JSON(http.StatusOK, gin.H{"user": h.userPayload(c, user)})
}

// Logout deletes the caller's session row. Client-side logout succeeds
// regardless; this endpoint is best-effort from the client's perspective.
func (h HandlerSet) Logout(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.authService.Logout(c.Request.Context(), claims.SessionID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}
