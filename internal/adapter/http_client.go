package adapter

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/leaflock/leaflock/models"
)

// HTTPClientConfig configures the REST adapter.
type HTTPClientConfig struct {
	BaseURL string
	HashKey string
	Timeout time.Duration
}

type httpServerAdapter struct {
	client  *resty.Client
	hashKey string

	mu    sync.RWMutex
	token string
}

// NewHTTPServerAdapter builds the HTTP/REST implementation of ServerAdapter.
func NewHTTPServerAdapter(cfg HTTPClientConfig) ServerAdapter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8080"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout)

	return &httpServerAdapter{client: cli, hashKey: cfg.HashKey}
}

func (h *httpServerAdapter) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

func (h *httpServerAdapter) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

func (h *httpServerAdapter) Online() bool {
	return h.Token() != ""
}

func (h *httpServerAdapter) Register(ctx context.Context, credentials models.Credentials) (models.Session, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(credentials).
		Post("/api/auth/register")
	if err != nil {
		return models.Session{}, fmt.Errorf("register request: %w", err)
	}
	if resp.StatusCode() == http.StatusConflict {
		return models.Session{}, ErrAccountExists
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Session{}, err
	}

	return h.sessionFromAuthResponse(resp, credentials.Email)
}

func (h *httpServerAdapter) SignIn(ctx context.Context, credentials models.Credentials) (models.Session, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(credentials).
		Post("/api/auth/sign_in")
	if err != nil {
		return models.Session{}, fmt.Errorf("sign in request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Session{}, err
	}

	return h.sessionFromAuthResponse(resp, credentials.Email)
}

func (h *httpServerAdapter) SignOut(ctx context.Context) error {
	resp, err := h.authedRequest(ctx).Post("/api/auth/sign_out")
	h.SetToken("")
	if err != nil {
		return fmt.Errorf("sign out request: %w", err)
	}
	return mapHTTPError(resp)
}

func (h *httpServerAdapter) Sync(ctx context.Context, req models.SyncRequest) (models.SyncResponse, error) {
	body := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req)
	if hash := computeTransportHash(req.Items, h.hashKey); hash != "" {
		body.SetHeader("X-Payload-Hash", hash)
	}

	resp, err := body.Post("/api/items/sync")
	if err != nil {
		return models.SyncResponse{}, fmt.Errorf("sync request: %w", err)
	}

	var sr models.SyncResponse
	if resp.IsSuccess() {
		if err = json.Unmarshal(resp.Body(), &sr); err != nil {
			return models.SyncResponse{}, fmt.Errorf("decode sync response: %w", err)
		}
	} else {
		// Server failures travel inside the response so the sync core can
		// keep its never-throw contract.
		sr.ErrorMessage = strings.TrimSpace(string(resp.Body()))
		if sr.ErrorMessage == "" {
			sr.ErrorMessage = http.StatusText(resp.StatusCode())
		}
	}
	sr.Status = resp.StatusCode()
	return sr, nil
}

func (h *httpServerAdapter) sessionFromAuthResponse(resp *resty.Response, email string) (models.Session, error) {
	token, err := parseBearerToken(resp.Header().Get("Authorization"))
	if err != nil {
		return models.Session{}, fmt.Errorf("parse bearer token: %w", err)
	}
	accountUUID, err := parseAccountUUIDFromJWT(token)
	if err != nil {
		return models.Session{}, fmt.Errorf("parse account uuid: %w", err)
	}

	h.SetToken(token)
	return models.Session{Token: token, AccountUUID: accountUUID, Email: email}, nil
}

func (h *httpServerAdapter) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}

func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	if resp.StatusCode() == http.StatusUnauthorized {
		return ErrUnauthorized
	}

	body := strings.TrimSpace(string(resp.Body()))
	if body == "" {
		body = http.StatusText(resp.StatusCode())
	}
	return fmt.Errorf("http %d: %s", resp.StatusCode(), body)
}

func parseBearerToken(value string) (string, error) {
	parts := strings.Split(strings.TrimSpace(value), " ")
	if len(parts) != 2 || parts[1] == "" {
		return "", errors.New("invalid authorization header")
	}
	return parts[1], nil
}

func parseAccountUUIDFromJWT(tokenString string) (string, error) {
	token, _, err := jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid token claims")
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return "", err
	}
	if sub == "" {
		return "", errors.New("empty token subject")
	}
	return sub, nil
}

func computeTransportHash(v any, key string) string {
	if key == "" {
		return ""
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
