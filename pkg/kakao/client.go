package kakao

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Client talks to the Kakao OAuth and REST APIs
type Client struct {
	AuthURL     string
	APIURL      string
	ClientID    string
	RedirectURI string
	HTTPClient  *http.Client
	Logger      *zap.Logger
}

// TokenResponse is the body of the token endpoint
type TokenResponse struct {
	AccessToken           string `json:"access_token"`
	TokenType             string `json:"token_type"`
	RefreshToken          string `json:"refresh_token"`
	ExpiresIn             int    `json:"expires_in"`
	RefreshTokenExpiresIn int    `json:"refresh_token_expires_in"`
	Scope                 string `json:"scope"`
}

// Profile is the part of /v2/user/me the service needs
type Profile struct {
	ID      int64 `json:"id"`
	Account struct {
		Email   string `json:"email"`
		Profile struct {
			Nickname string `json:"nickname"`
		} `json:"profile"`
	} `json:"kakao_account"`
}

// Name returns the display name of the profile
func (p *Profile) Name() string {
	return p.Account.Profile.Nickname
}

// Email returns the account email of the profile
func (p *Profile) Email() string {
	return p.Account.Email
}

// ErrorResponse is an error body from either API
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
	Code             int    `json:"code"`
}

// APIError is returned for any non-2xx response
type APIError struct {
	StatusCode int
	Body       ErrorResponse
}

func (e *APIError) Error() string {
	switch {
	case e.Body.Error != "":
		return fmt.Sprintf("kakao error %d: %s - %s", e.StatusCode, e.Body.Error, e.Body.ErrorDescription)
	case e.Body.Msg != "":
		return fmt.Sprintf("kakao error %d: %s (code %d)", e.StatusCode, e.Body.Msg, e.Body.Code)
	default:
		return fmt.Sprintf("kakao error %d", e.StatusCode)
	}
}

// NewClient creates a new Kakao client instance
func NewClient(authURL, apiURL, clientID, redirectURI string, logger *zap.Logger) *Client {
	return &Client{
		AuthURL:     strings.TrimRight(authURL, "/"),
		APIURL:      strings.TrimRight(apiURL, "/"),
		ClientID:    clientID,
		RedirectURI: redirectURI,
		HTTPClient:  &http.Client{Timeout: 10 * time.Second},
		Logger:      logger,
	}
}

// ExchangeCode obtains tokens with the authorization code grant
func (c *Client) ExchangeCode(ctx context.Context, code string) (*TokenResponse, error) {
	data := url.Values{}
	data.Set("grant_type", "authorization_code")
	data.Set("client_id", c.ClientID)
	data.Set("redirect_uri", c.RedirectURI)
	data.Set("code", code)

	return c.requestToken(ctx, data)
}

// RefreshToken obtains a new access token. The refresh token in the
// response is empty unless Kakao rotated it.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	data := url.Values{}
	data.Set("grant_type", "refresh_token")
	data.Set("client_id", c.ClientID)
	data.Set("refresh_token", refreshToken)

	return c.requestToken(ctx, data)
}

// GetProfile reads the profile of the token's owner
func (c *Client) GetProfile(ctx context.Context, accessToken string) (*Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.APIURL+"/v2/user/me", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	var profile Profile
	if err := c.do(req, &profile); err != nil {
		c.Logger.Error("Failed to fetch kakao profile", zap.Error(err))
		return nil, err
	}
	return &profile, nil
}

// textTemplate is the "send to me" text message template
type textTemplate struct {
	ObjectType string       `json:"object_type"`
	Text       string       `json:"text"`
	Link       templateLink `json:"link"`
	ButtonText string       `json:"button_title,omitempty"`
}

type templateLink struct {
	WebURL       string `json:"web_url,omitempty"`
	MobileWebURL string `json:"mobile_web_url,omitempty"`
}

// SendMemo sends a text message to the token owner's own chat
func (c *Client) SendMemo(ctx context.Context, accessToken, text, webURL string) error {
	template, err := json.Marshal(textTemplate{
		ObjectType: "text",
		Text:       text,
		Link:       templateLink{WebURL: webURL, MobileWebURL: webURL},
	})
	if err != nil {
		return err
	}

	data := url.Values{}
	data.Set("template_object", string(template))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIURL+"/v2/api/talk/memo/default/send", strings.NewReader(data.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=utf-8")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	var result struct {
		ResultCode int `json:"result_code"`
	}
	if err := c.do(req, &result); err != nil {
		c.Logger.Error("Failed to send kakao message", zap.Error(err))
		return err
	}
	if result.ResultCode != 0 {
		return fmt.Errorf("kakao message rejected with result code %d", result.ResultCode)
	}
	return nil
}

func (c *Client) requestToken(ctx context.Context, data url.Values) (*TokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.AuthURL+"/oauth/token", strings.NewReader(data.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=utf-8")

	var tokenResp TokenResponse
	if err := c.do(req, &tokenResp); err != nil {
		c.Logger.Error("Kakao token request failed",
			zap.String("grant_type", data.Get("grant_type")),
			zap.Error(err))
		return nil, err
	}

	c.Logger.Info("Kakao token acquired",
		zap.String("grant_type", data.Get("grant_type")),
		zap.Int("expires_in", tokenResp.ExpiresIn))
	return &tokenResp, nil
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("kakao request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read kakao response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		_ = json.Unmarshal(body, &apiErr.Body)
		return apiErr
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse kakao response: %w", err)
	}
	return nil
}
