package linkedin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/google/uuid"
	"lipost/pkg/errors"
	"lipost/pkg/logger"
)

// Client is a LinkedIn API client bound to a single bearer token.
//
// A Client memoizes the profile returned by FetchProfile and is not safe for
// concurrent use.
type Client struct {
	token      string
	baseURL    string
	transport  Transport
	httpClient *http.Client
	logger     logger.Logger
	sessionID  string

	profile *Profile
}

// Option configures a Client
type Option func(*Client)

// WithTransport replaces the HTTP transport
func WithTransport(t Transport) Option {
	return func(c *Client) { c.transport = t }
}

// WithHTTPClient sets the http.Client used by the default transport
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURL points the client at another API host
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithLogger sets the client logger
func WithLogger(log logger.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.logger = log
		}
	}
}

// NewClient creates a new LinkedIn API client for token
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		token:     token,
		baseURL:   BaseURL,
		logger:    logger.GetLogger(),
		sessionID: uuid.NewString(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.WithField("session_id", c.sessionID)
	if c.transport == nil {
		c.transport = NewHTTPTransport(c.httpClient, c.logger)
	}
	return c
}

// NewClientFromEnv creates a client with the token stored in LINKEDIN_TOKEN
func NewClientFromEnv(opts ...Option) (*Client, error) {
	token, ok := os.LookupEnv(TokenEnvVar)
	if !ok || strings.TrimSpace(token) == "" {
		return nil, errors.NewConfigError(TokenEnvVar, tokenRemediation)
	}
	return NewClient(strings.TrimSpace(token), opts...), nil
}

// BaseURL returns the API host the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// jsonHeaders returns the headers sent with every JSON API call
func (c *Client) jsonHeaders() http.Header {
	h := make(http.Header)
	h.Set("Authorization", "Bearer "+c.token)
	h.Set("Content-Type", "application/json")
	return h
}

// FetchProfile returns the authenticated member's profile. The first
// successful result is kept and returned by later calls without a request.
func (c *Client) FetchProfile(ctx context.Context) (*Profile, error) {
	if c.profile != nil {
		return c.profile, nil
	}

	url := endpointURL(c.baseURL, ProfileEndpoint)
	c.logger.DebugWithFields("fetching profile", map[string]interface{}{
		"url": url,
	})

	resp, err := c.transport.Get(ctx, url, c.jsonHeaders())
	if err != nil {
		return nil, err
	}

	var profile Profile
	if err := c.decode(resp, url, &profile); err != nil {
		c.logger.ErrorWithFields("failed to fetch profile", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}

	c.profile = &profile
	c.logger.DebugWithFields("successfully fetched profile", map[string]interface{}{
		"member_id": profile.ID,
	})
	return c.profile, nil
}

// CreatePost publishes body as-is. The caller is responsible for its shape,
// typically a PostPayload.
func (c *Client) CreatePost(ctx context.Context, body interface{}) (*PostResult, error) {
	url := endpointURL(c.baseURL, PostsEndpoint)

	resp, err := c.transport.PostJSON(ctx, url, c.jsonHeaders(), body)
	if err != nil {
		return nil, err
	}

	var result PostResult
	if errors.IsSuccessStatus(resp.StatusCode) && len(bytes.TrimSpace(resp.Body)) == 0 {
		// some API versions answer 201 with the id only in a header
		result.ID = resp.Header.Get(restliIDHeader)
	} else if err := c.decode(resp, url, &result); err != nil {
		c.logger.ErrorWithFields("failed to create post", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}

	c.logger.InfoWithFields("post created", map[string]interface{}{
		"post_id": result.ID,
	})
	return &result, nil
}

// RegisterUpload registers intent to upload an asset and returns the upload
// URL and asset URN issued by LinkedIn
func (c *Client) RegisterUpload(ctx context.Context, body RegisterUploadBody) (*UploadRegistration, error) {
	url := endpointURL(c.baseURL, RegisterUploadEndpoint)
	c.logger.DebugWithFields("registering upload", map[string]interface{}{
		"owner":   body.RegisterUploadRequest.Owner,
		"recipes": body.RegisterUploadRequest.Recipes,
	})

	resp, err := c.transport.PostJSON(ctx, url, c.jsonHeaders(), body)
	if err != nil {
		return nil, err
	}

	var registration UploadRegistration
	if err := c.decode(resp, url, &registration); err != nil {
		c.logger.ErrorWithFields("failed to register upload", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}

	c.logger.DebugWithFields("upload registered", map[string]interface{}{
		"asset": registration.Value.Asset,
	})
	return &registration, nil
}

// UploadImage reads the file at path and PUTs it to uploadURL with the bearer
// token. A non-2xx status is returned in the outcome, not as an error.
func (c *Client) UploadImage(ctx context.Context, path, uploadURL string) (*UploadOutcome, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewIOError(path, err)
	}

	header := make(http.Header)
	header.Set("Authorization", "Bearer "+c.token)

	c.logger.DebugWithFields("uploading image", map[string]interface{}{
		"path": path,
		"size": len(data),
	})

	resp, err := c.transport.PutBinary(ctx, uploadURL, header, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	if !errors.IsSuccessStatus(resp.StatusCode) {
		c.logger.WarnWithFields("image upload returned non-success status", map[string]interface{}{
			"path":   path,
			"status": resp.StatusCode,
		})
	}

	return &UploadOutcome{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
	}, nil
}

// decode checks the status of resp and decodes its JSON body into target
func (c *Client) decode(resp *RawResponse, url string, target interface{}) error {
	if !errors.IsSuccessStatus(resp.StatusCode) {
		c.logger.WarnWithFields("API returned non-success status", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    url,
		})
		return errors.NewRemoteError(resp.StatusCode, url, resp.Body)
	}

	if err := json.Unmarshal(resp.Body, target); err != nil {
		bodyPreview := string(resp.Body)
		if len(bodyPreview) > 200 {
			bodyPreview = bodyPreview[:200] + "..."
		}
		c.logger.ErrorWithFields("failed to parse JSON response", map[string]interface{}{
			"url":          url,
			"status":       resp.StatusCode,
			"body_preview": bodyPreview,
		})
		return &errors.Error{
			Type:    errors.ErrorTypeParsing,
			Message: fmt.Sprintf("failed to parse JSON: %v", err),
			Code:    resp.StatusCode,
			Err:     err,
		}
	}

	return nil
}
