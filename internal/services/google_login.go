package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/yungbote/classbridge-backend/internal/data/repos"
	types "github.com/yungbote/classbridge-backend/internal/domain"
	domainagg "github.com/yungbote/classbridge-backend/internal/domain/aggregates"
	"github.com/yungbote/classbridge-backend/internal/pkg/dbctx"
	"github.com/yungbote/classbridge-backend/internal/pkg/logger"
)

const defaultGoogleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	// Endpoint and UserInfoURL default to Google's; overridden in tests.
	Endpoint    oauth2.Endpoint
	UserInfoURL string
}

type LoginResult struct {
	User        *types.User `json:"user"`
	AccessToken string      `json:"accessToken"`
	ExpiresIn   int64       `json:"expiresIn"`
}

type GoogleLoginService interface {
	// AuthURL is where the browser goes to consent; state must round-trip unchanged.
	AuthURL(state string) string
	NewState() (string, error)
	// Login exchanges the authorization code, upserts the user and issues an access token.
	Login(ctx context.Context, code string) (*LoginResult, error)
}

type googleLoginService struct {
	log         *logger.Logger
	oauth       *oauth2.Config
	userInfoURL string
	users       repos.UserRepo
	auth        AuthService
}

type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func NewGoogleLoginService(log *logger.Logger, cfg GoogleConfig, users repos.UserRepo, auth AuthService) GoogleLoginService {
	endpoint := cfg.Endpoint
	if endpoint.AuthURL == "" && endpoint.TokenURL == "" {
		endpoint = google.Endpoint
	}
	infoURL := strings.TrimSpace(cfg.UserInfoURL)
	if infoURL == "" {
		infoURL = defaultGoogleUserInfoURL
	}
	return &googleLoginService{
		log: log.With("service", "GoogleLoginService"),
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		},
		userInfoURL: infoURL,
		users:       users,
		auth:        auth,
	}
}

func (s *googleLoginService) AuthURL(state string) string {
	return s.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (s *googleLoginService) NewState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func (s *googleLoginService) Login(ctx context.Context, code string) (*LoginResult, error) {
	const op = "GoogleLogin.Login"
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domainagg.Validation(op, "missing code")
	}
	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		s.log.Warn("google code exchange failed", "error", err)
		return nil, domainagg.Unauthorized(op, "Google login failed")
	}
	info, err := s.fetchUserInfo(ctx, token)
	if err != nil {
		s.log.Warn("google userinfo failed", "error", err)
		return nil, domainagg.Unauthorized(op, "Google login failed")
	}
	if strings.TrimSpace(info.Email) == "" {
		return nil, domainagg.Unauthorized(op, "Google account has no email")
	}
	user, err := s.users.UpsertGoogle(dbctx.New(ctx), repos.GoogleProfile{
		Sub:      info.ID,
		Email:    info.Email,
		Name:     info.Name,
		ImageURL: info.Picture,
	})
	if err != nil {
		return nil, internalError(op, err)
	}
	access, err := s.auth.IssueAccessToken(user)
	if err != nil {
		return nil, internalError(op, err)
	}
	s.log.Info("google login", "user_id", user.ID, "role", user.Role)
	return &LoginResult{User: user, AccessToken: access, ExpiresIn: int64(s.auth.GetAccessTTL().Seconds())}, nil
}

func (s *googleLoginService) fetchUserInfo(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	client := s.oauth.Client(ctx, token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo status %d", resp.StatusCode)
	}
	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}
	return &info, nil
}
