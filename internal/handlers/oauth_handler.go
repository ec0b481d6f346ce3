package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/fastx/backend/internal/config"
	"github.com/fastx/backend/internal/services"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

// OAuthHandler runs the Google handshake and feeds the resulting verified
// profile into the auth service's federated-login path.
type OAuthHandler struct {
	svc   *services.AuthService
	oauth *oauth2.Config
}

func NewOAuthHandler(svc *services.AuthService, cfg config.GoogleConfig) *OAuthHandler {
	return &OAuthHandler{
		svc: svc,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

type googleUserInfo struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

// GoogleLogin redirects the user to Google's consent page
// @Summary Start Google OAuth login
// @Tags auth
// @Success 307 {string} string "Redirect to Google"
// @Router /auth/google [get]
func (h *OAuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	state, err := randomState()
	if err != nil {
		services.WriteError(w, services.NewError(services.KindInternal, "failed to start OAuth flow"))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.oauth.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// GoogleCallback completes the handshake and logs in or registers the user
// @Summary Google OAuth callback
// @Tags auth
// @Produce json
// @Success 200 {object} AuthResponse "Existing account"
// @Success 201 {object} AuthResponse "New account registered"
// @Failure 401 {object} services.Error "Handshake failed"
// @Router /auth/google/callback [get]
func (h *OAuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value == "" || r.URL.Query().Get("state") != stateCookie.Value {
		services.WriteError(w, services.NewError(services.KindInvalidCredential, "invalid OAuth state"))
		return
	}

	token, err := h.oauth.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		log.Printf("[AUTH] Google code exchange failed: %v", err)
		services.WriteError(w, services.NewError(services.KindInvalidCredential, "OAuth exchange failed"))
		return
	}

	resp, err := h.oauth.Client(r.Context(), token).Get(googleUserInfoURL)
	if err != nil {
		log.Printf("[AUTH] Google userinfo fetch failed: %v", err)
		services.WriteError(w, services.NewError(services.KindInternal, "failed to fetch profile"))
		return
	}
	defer resp.Body.Close()

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil || info.Sub == "" {
		services.WriteError(w, services.NewError(services.KindInternal, "invalid profile payload"))
		return
	}

	result, created, err := h.svc.FederatedLogin(r.Context(), services.Profile{
		Subject:       info.Sub,
		Email:         info.Email,
		EmailVerified: info.EmailVerified,
		GivenName:     info.GivenName,
		FamilyName:    info.FamilyName,
		AvatarURL:     info.Picture,
	})
	if err != nil {
		services.WriteError(w, err)
		return
	}

	status := http.StatusOK
	message := "Google access granted"
	if created {
		status = http.StatusCreated
		message = "User registered successfully with Google"
	}

	writeJSON(w, status, AuthResponse{
		Message:     message,
		AccessToken: result.AccessToken,
		User:        result.Account,
	})
}

func randomState() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
