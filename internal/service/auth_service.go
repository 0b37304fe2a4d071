package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/lord-einar/megasys/internal/config"
	"github.com/lord-einar/megasys/internal/ids"
	"github.com/lord-einar/megasys/internal/models"
	"github.com/lord-einar/megasys/internal/permissions"
	"github.com/lord-einar/megasys/internal/repository"
	"github.com/lord-einar/megasys/internal/security"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserSuspended      = errors.New("user suspended")
	ErrLocalLoginDisabled = errors.New("local login disabled")
)

// Directory groups recognised by the role mapping, most privileged first.
var roleGroups = []struct {
	group string
	role  permissions.Role
}{
	{"MEGASYS-ADMINS", permissions.RoleSuperAdmin},
	{"MEGASYS-HELPDESK", permissions.RoleHelpdesk},
	{"MEGASYS-SOPORTE", permissions.RoleSupport},
}

// AnalyzeGroups maps directory group membership to a role. Users with no
// recognised group get the base role.
func AnalyzeGroups(groups []string) models.GroupAnalysis {
	analysis := models.GroupAnalysis{AssignedRole: permissions.RoleUser}

	known := make(map[string]permissions.Role, len(roleGroups))
	for _, rg := range roleGroups {
		known[rg.group] = rg.role
	}

	assigned := false
	for _, rg := range roleGroups {
		for _, g := range groups {
			if strings.EqualFold(g, rg.group) {
				analysis.MatchedGroups = append(analysis.MatchedGroups, rg.group)
				if !assigned {
					analysis.AssignedRole = rg.role
					assigned = true
				}
			}
		}
	}
	for _, g := range groups {
		if _, ok := known[strings.ToUpper(g)]; !ok {
			analysis.Unmatched = append(analysis.Unmatched, g)
		}
	}
	return analysis
}

type AuthService struct {
	users    *repository.UserRepository
	sessions *repository.SessionRepository
	cfg      *config.AppConfig
	log      zerolog.Logger
}

func NewAuthService(
	users *repository.UserRepository,
	sessions *repository.SessionRepository,
	cfg *config.AppConfig,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		cfg:      cfg,
		log:      log,
	}
}

type AuthResult struct {
	AccessToken  string
	RefreshToken string
	User         models.User
}

// CompleteCallback finishes the identity-provider redirect: validates the
// id_token, upserts the user with a role derived from directory groups, and
// opens a session.
func (s *AuthService) CompleteCallback(ctx context.Context, idToken, ipAddress, userAgent string) (AuthResult, error) {
	claims, err := security.ParseIdentityToken(idToken, s.cfg.Identity.TokenSecret, s.cfg.Identity.Issuer)
	if err != nil {
		return AuthResult{}, ErrInvalidCredentials
	}

	analysis := AnalyzeGroups(claims.Groups)

	email := strings.TrimSpace(strings.ToLower(claims.Email))
	candidate := models.User{
		ID:        ids.New(),
		Email:     email,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
		FullName:  claims.FullName,
		Role:      analysis.AssignedRole,
		Status:    models.UserStatusActive,
		Groups:    claims.Groups,
	}

	user, err := s.users.UpsertByEmail(ctx, candidate)
	if err != nil {
		return AuthResult{}, err
	}
	if user.Status != models.UserStatusActive {
		return AuthResult{}, ErrUserSuspended
	}
	user.GroupAnalysis = analysis

	return s.openSession(ctx, user, ipAddress, userAgent)
}

// LoginLocal is the development-only password path, disabled unless the
// config opts in.
func (s *AuthService) LoginLocal(ctx context.Context, email, password, ipAddress, userAgent string) (AuthResult, error) {
	if !s.cfg.Security.AllowLocalLogin {
		return AuthResult{}, ErrLocalLoginDisabled
	}

	email = strings.TrimSpace(strings.ToLower(email))
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, err
	}
	if user.Status != models.UserStatusActive {
		return AuthResult{}, ErrUserSuspended
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return AuthResult{}, ErrInvalidCredentials
	}

	user.GroupAnalysis = AnalyzeGroups(user.Groups)
	return s.openSession(ctx, user, ipAddress, userAgent)
}

func (s *AuthService) openSession(ctx context.Context, user models.User, ipAddress, userAgent string) (AuthResult, error) {
	refreshToken, refreshHash, err := security.GenerateRefreshToken(64)
	if err != nil {
		return AuthResult{}, err
	}

	session := models.Session{
		ID:               ids.New(),
		UserID:           user.ID,
		RefreshTokenHash: refreshHash,
		IPAddress:        ipAddress,
		UserAgent:        userAgent,
		ExpiresAt:        time.Now().Add(s.cfg.Security.RefreshTTL),
	}

	accessToken, err := security.GenerateAccessToken(
		s.cfg.Security.JWTAccessSecret,
		user.ID,
		session.ID,
		string(user.Role),
		s.cfg.Security.JWTAccessTTL,
	)
	if err != nil {
		return AuthResult{}, err
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return AuthResult{}, err
	}

	if err := s.enforceSessionLimit(ctx, user.ID); err != nil {
		s.log.Warn().Err(err).Str("user_id", user.ID).Msg("enforce session limit failed")
	}

	return AuthResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

func (s *AuthService) enforceSessionLimit(ctx context.Context, userID string) error {
	count, err := s.sessions.CountByUser(ctx, userID)
	if err != nil {
		return err
	}
	if count <= s.cfg.Security.MaxSessions {
		return nil
	}
	return s.sessions.DeleteOldestSessions(ctx, userID, s.cfg.Security.MaxSessions)
}

// Refresh rotates the refresh token and issues a fresh access token. Any
// failure invalidates nothing server-side beyond the expired session cleanup;
// the client reacts by logging out.
func (s *AuthService) Refresh(ctx context.Context, userID, refreshToken string) (AuthResult, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return AuthResult{}, ErrInvalidCredentials
	}
	if user.Status != models.UserStatusActive {
		return AuthResult{}, ErrUserSuspended
	}

	refreshHash := security.HashRefreshToken(refreshToken)
	session, err := s.sessions.FindByRefreshHash(ctx, userID, refreshHash)
	if err != nil {
		return AuthResult{}, ErrInvalidCredentials
	}

	if session.ExpiresAt.Before(time.Now()) {
		_ = s.sessions.DeleteByID(ctx, session.ID)
		return AuthResult{}, ErrInvalidCredentials
	}

	newToken, newHash, err := security.GenerateRefreshToken(64)
	if err != nil {
		return AuthResult{}, err
	}

	session.RefreshTokenHash = newHash
	session.ExpiresAt = time.Now().Add(s.cfg.Security.RefreshTTL)
	if err := s.sessions.Create(ctx, session); err != nil {
		return AuthResult{}, err
	}

	accessToken, err := security.GenerateAccessToken(
		s.cfg.Security.JWTAccessSecret,
		user.ID,
		session.ID,
		string(user.Role),
		s.cfg.Security.JWTAccessTTL,
	)
	if err != nil {
		return AuthResult{}, err
	}

	user.GroupAnalysis = AnalyzeGroups(user.Groups)
	return AuthResult{
		AccessToken:  accessToken,
		RefreshToken: newToken,
		User:         user,
	}, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.DeleteByID(ctx, sessionID)
}
