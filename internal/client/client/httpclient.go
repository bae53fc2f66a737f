package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/patrimoine/internal/client/models"
	"github.com/dmitrijs2005/patrimoine/internal/common"
	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"
)

// maxBodySize caps how much of a reply is read.
const maxBodySize = 1 << 20

type HTTPClient struct {
	baseURL   string
	http      *http.Client
	requestID func() string
}

// NewHTTPClient returns a client for the API rooted at baseURL
// (e.g. "https://host/api"). timeout bounds every request.
func NewHTTPClient(baseURL string, timeout time.Duration) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse api url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api url %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("api url %q: missing host", baseURL)
	}

	return &HTTPClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{Timeout: timeout},
		requestID: uuid.NewString,
	}, nil
}

// envelope holds the fields every backend reply may carry.
type envelope struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
	Msg   string `json:"msg"`
}

func (e envelope) message() string {
	if e.Error != "" {
		return e.Error
	}
	return e.Msg
}

type userBody struct {
	ID            int64   `json:"id"`
	Email         string  `json:"email"`
	FullName      *string `json:"fullname"`
	UsePin        *bool   `json:"use_pin"`
	UseBiometrics *bool   `json:"use_biometrics"`
}

func (u *userBody) profile() *models.UserProfile {
	p := &models.UserProfile{ID: u.ID, Email: u.Email}
	if u.FullName != nil {
		p.FullName = *u.FullName
	}
	if u.UsePin != nil || u.UseBiometrics != nil {
		prefs := &models.Preferences{}
		if u.UsePin != nil {
			prefs.UsePin = *u.UsePin
		}
		if u.UseBiometrics != nil {
			prefs.UseBiometrics = *u.UseBiometrics
		}
		p.Preferences = prefs
	}
	return p
}

type meBody struct {
	envelope
	ID            *int64    `json:"id"`
	Email         string    `json:"email"`
	FullName      *string   `json:"fullname"`
	UsePin        *bool     `json:"use_pin"`
	UseBiometrics *bool     `json:"use_biometrics"`
	User          *userBody `json:"user"`
}

type authBody struct {
	envelope
	Token string    `json:"token"`
	User  *userBody `json:"user"`
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullname,omitempty"`
}

// Me calls GET /auth/me. The reply must validate against the me schema;
// ok=true additionally requires an identity (top-level id or user.id).
func (c *HTTPClient) Me(ctx context.Context, token string) (*models.UserProfile, error) {
	var body meBody
	if err := c.do(ctx, http.MethodGet, "/auth/me", token, nil, meSchema, &body); err != nil {
		return nil, err
	}
	if !body.OK {
		return nil, rejected(body.envelope)
	}

	switch {
	case body.User != nil:
		return body.User.profile(), nil
	case body.ID != nil:
		u := userBody{
			ID:            *body.ID,
			Email:         body.Email,
			FullName:      body.FullName,
			UsePin:        body.UsePin,
			UseBiometrics: body.UseBiometrics,
		}
		return u.profile(), nil
	default:
		return nil, fmt.Errorf("%w: ok reply without user identity", ErrMalformedResponse)
	}
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	return c.authenticate(ctx, "/auth/login", credentials{Email: email, Password: password})
}

func (c *HTTPClient) Register(ctx context.Context, email, password, fullName string) (*AuthResult, error) {
	return c.authenticate(ctx, "/auth/register", credentials{Email: email, Password: password, FullName: fullName})
}

func (c *HTTPClient) authenticate(ctx context.Context, path string, creds credentials) (*AuthResult, error) {
	var body authBody
	if err := c.do(ctx, http.MethodPost, path, "", creds, authSchema, &body); err != nil {
		return nil, err
	}
	if !body.OK {
		return nil, rejected(body.envelope)
	}
	if body.Token == "" {
		return nil, fmt.Errorf("%w: ok reply without token", ErrMalformedResponse)
	}

	res := &AuthResult{Token: body.Token}
	if body.User != nil {
		res.User = body.User.profile()
	}
	return res, nil
}

// UpdateSecurity calls PUT /users/me/security; the user is the token's owner.
func (c *HTTPClient) UpdateSecurity(ctx context.Context, token string, prefs models.Preferences) error {
	var body envelope
	if err := c.do(ctx, http.MethodPut, "/users/me/security", token, prefs, statusSchema, &body); err != nil {
		return err
	}
	if !body.OK {
		return rejected(body)
	}
	return nil
}

// Ping probes GET /fixtures, which answers {"ok": true} when the backend is up.
func (c *HTTPClient) Ping(ctx context.Context) error {
	var body envelope
	if err := c.do(ctx, http.MethodGet, "/fixtures", "", nil, statusSchema, &body); err != nil {
		return err
	}
	if !body.OK {
		return ErrUnavailable
	}
	return nil
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// do sends one request and decodes a 2xx reply into out after validating it
// against schema. Non-2xx replies are mapped by mapStatus.
func (c *HTTPClient) do(ctx context.Context, method, path, token string, in any, schema *gojsonschema.Schema, out any) error {
	var reqBody io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(common.RequestIDHeaderName, c.requestID())
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return mapStatus(resp.StatusCode, body)
	}

	if err := validate(schema, body); err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

// mapStatus turns a non-2xx reply into one of the sentinel errors, keeping
// the server's message when the body carries one.
func mapStatus(status int, body []byte) error {
	var env envelope
	_ = json.Unmarshal(body, &env)

	msg := env.message()
	if msg == "" {
		msg = http.StatusText(status)
	}

	var sentinel error
	switch {
	case status >= 500:
		sentinel = ErrUnavailable
	case status == http.StatusUnauthorized, status == http.StatusForbidden, status == http.StatusUnprocessableEntity:
		sentinel = ErrUnauthorized
	default:
		sentinel = ErrRejected
	}
	return fmt.Errorf("%w: status %d: %s", sentinel, status, msg)
}

func rejected(env envelope) error {
	if msg := env.message(); msg != "" {
		return fmt.Errorf("%w: %s", ErrRejected, msg)
	}
	return ErrRejected
}

// ServerMessage extracts the human-readable part of an API error for display.
func ServerMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, sentinel := range []error{ErrUnavailable, ErrUnauthorized, ErrRejected, ErrMalformedResponse} {
		if errors.Is(err, sentinel) {
			msg = strings.TrimPrefix(msg, sentinel.Error()+": ")
			break
		}
	}
	return msg
}
