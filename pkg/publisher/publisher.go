package publisher

import (
	"context"
	"fmt"

	"lipost/pkg/errors"
	"lipost/pkg/linkedin"
	"lipost/pkg/logger"
)

// DefaultImageTitle is the title given to every attached image
const DefaultImageTitle = "Image Title"

// API is the subset of linkedin.Client used by Publisher
type API interface {
	FetchProfile(ctx context.Context) (*linkedin.Profile, error)
	CreatePost(ctx context.Context, body interface{}) (*linkedin.PostResult, error)
	RegisterUpload(ctx context.Context, body linkedin.RegisterUploadBody) (*linkedin.UploadRegistration, error)
	UploadImage(ctx context.Context, path, uploadURL string) (*linkedin.UploadOutcome, error)
}

// Image is a local image file and the description shown with it
type Image struct {
	Path        string
	Description string
}

// Publisher publishes posts, with optional images, as the authenticated member
type Publisher struct {
	api API
	me  *linkedin.Profile

	strictUploads bool
	imageTitle    string
	visibility    linkedin.Visibility
	logger        logger.Logger
}

// Option configures a Publisher
type Option func(*Publisher)

// WithStrictUploads makes a non-2xx image upload abort CreatePost. By default
// the upload status is ignored and the post is still created.
func WithStrictUploads(strict bool) Option {
	return func(p *Publisher) { p.strictUploads = strict }
}

// WithImageTitle overrides DefaultImageTitle
func WithImageTitle(title string) Option {
	return func(p *Publisher) {
		if title != "" {
			p.imageTitle = title
		}
	}
}

// WithVisibility sets the network visibility of published posts
func WithVisibility(v linkedin.Visibility) Option {
	return func(p *Publisher) {
		if v != "" {
			p.visibility = v
		}
	}
}

// WithLogger sets the publisher logger
func WithLogger(log logger.Logger) Option {
	return func(p *Publisher) {
		if log != nil {
			p.logger = log
		}
	}
}

// New creates a Publisher and fetches the member profile right away. It
// fails if the profile cannot be fetched.
func New(ctx context.Context, api API, opts ...Option) (*Publisher, error) {
	p := &Publisher{
		api:        api,
		imageTitle: DefaultImageTitle,
		visibility: linkedin.VisibilityPublic,
		logger:     logger.GetLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.WithField("component", "publisher")

	me, err := api.FetchProfile(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	p.me = me

	p.logger.DebugWithFields("publisher ready", map[string]interface{}{
		"author": p.AuthorURN(),
	})
	return p, nil
}

// NewFromEnv creates a Publisher backed by a client reading LINKEDIN_TOKEN
func NewFromEnv(ctx context.Context, opts ...Option) (*Publisher, error) {
	probe := &Publisher{logger: logger.GetLogger()}
	for _, opt := range opts {
		opt(probe)
	}

	client, err := linkedin.NewClientFromEnv(linkedin.WithLogger(probe.logger))
	if err != nil {
		return nil, err
	}
	return New(ctx, client, opts...)
}

// Info returns the profile fetched when the Publisher was created
func (p *Publisher) Info() *linkedin.Profile {
	return p.me
}

// AuthorURN returns the person URN posts are published under
func (p *Publisher) AuthorURN() string {
	return p.me.URN()
}

// CreatePost publishes text with the given images attached in order.
//
// Each image is registered and uploaded before the next one starts. Any error
// aborts the whole operation; assets already uploaded are left on LinkedIn.
func (p *Publisher) CreatePost(ctx context.Context, text string, images ...Image) (*linkedin.PostResult, error) {
	author := p.AuthorURN()
	media := make([]linkedin.Media, 0, len(images))

	for i, img := range images {
		asset, err := p.registerAndUpload(ctx, author, img)
		if err != nil {
			p.logger.WithError(err).ErrorWithFields("image upload failed", map[string]interface{}{
				"index": i,
				"path":  img.Path,
			})
			return nil, fmt.Errorf("image %d (%s): %w", i+1, img.Path, err)
		}

		media = append(media, linkedin.Media{
			Status:      linkedin.MediaStatusReady,
			Description: linkedin.Text{Text: img.Description},
			Media:       asset,
			Title:       linkedin.Text{Text: p.imageTitle},
		})
	}

	payload := linkedin.NewPostPayload(author, text, p.visibility, media)

	p.logger.InfoWithFields("creating post", map[string]interface{}{
		"author":         author,
		"media_category": string(payload.ShareContent().ShareMediaCategory),
		"images":         len(media),
	})

	result, err := p.api.CreatePost(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return result, nil
}

// registerAndUpload registers one image upload, PUTs the file and returns the
// asset URN
func (p *Publisher) registerAndUpload(ctx context.Context, author string, img Image) (string, error) {
	reg, err := p.api.RegisterUpload(ctx, linkedin.NewImageUploadBody(author))
	if err != nil {
		return "", fmt.Errorf("register upload: %w", err)
	}

	mech, ok := reg.HTTPUpload()
	if !ok || mech.UploadURL == "" {
		return "", &errors.Error{
			Type:    errors.ErrorTypeParsing,
			Message: fmt.Sprintf("register upload response has no %s upload URL", linkedin.MediaUploadHTTPRequestKey),
		}
	}

	outcome, err := p.api.UploadImage(ctx, img.Path, mech.UploadURL)
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}

	if !outcome.OK() {
		if p.strictUploads {
			return "", errors.NewRemoteError(outcome.StatusCode, mech.UploadURL, nil)
		}
		p.logger.WarnWithFields("continuing after failed image upload", map[string]interface{}{
			"path":   img.Path,
			"asset":  reg.Value.Asset,
			"status": outcome.StatusCode,
		})
	}

	return reg.Value.Asset, nil
}
