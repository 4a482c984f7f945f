package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/mizulegendsstudios/mizu-notes-sub000/internal/utils"
	"github.com/mizulegendsstudios/mizu-notes-sub000/models"
)

// ServerAdapter is the REST face of the server as seen by the client:
// account creation and credential exchange. The WebSocket loop takes over
// once a token is held.
type ServerAdapter interface {
	Register(ctx context.Context, user models.User) (models.Token, error)
	Login(ctx context.Context, user models.User) (models.Token, error)
	Token() string
}

type httpServerAdapter struct {
	client *resty.Client

	mu    sync.RWMutex
	token string
}

// NewHTTPServerAdapter builds a resty-backed ServerAdapter for the given
// base URL, e.g. "http://localhost:8080".
func NewHTTPServerAdapter(baseURL string, timeout time.Duration) ServerAdapter {
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout)

	return &httpServerAdapter{client: cli}
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

func (h *httpServerAdapter) Register(ctx context.Context, user models.User) (models.Token, error) {
	return h.exchangeCredentials(ctx, user, "/api/user/register")
}

func (h *httpServerAdapter) Login(ctx context.Context, user models.User) (models.Token, error) {
	return h.exchangeCredentials(ctx, user, "/api/user/login")
}

func (h *httpServerAdapter) exchangeCredentials(ctx context.Context, user models.User, path string) (models.Token, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(user).
		Post(path)
	if err != nil {
		return models.Token{}, fmt.Errorf("credentials request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Token{}, err
	}

	token, err := utils.ParseBearerToken(resp.Header().Get("Authorization"))
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrNoTokenReceived, err)
	}
	userID, err := parseUserIDFromJWT(token)
	if err != nil {
		return models.Token{}, fmt.Errorf("parse user id: %w", err)
	}

	h.SetToken(token)
	return models.Token{SignedString: token, UserID: userID}, nil
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

func parseUserIDFromJWT(tokenString string) (int64, error) {
	token, _, err := jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return 0, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("invalid token claims")
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return 0, err
	}

	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, err
	}
	return id, nil
}
