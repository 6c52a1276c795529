package publisher

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lipost/pkg/errors"
	"lipost/pkg/linkedin"
	"lipost/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAPI is an in-memory API that records every call in order
type stubAPI struct {
	profile    *linkedin.Profile
	profileErr error

	registerErr    error
	registerNoMech bool
	uploadStatus   int
	uploadErr      error
	postErr        error

	calls      []string
	registered []linkedin.RegisterUploadBody
	uploads    [][2]string
	posts      []interface{}
}

func newStubAPI() *stubAPI {
	return &stubAPI{
		profile:      &linkedin.Profile{ID: "foo123", LocalizedFirstName: "Obi Wan", LocalizedLastName: "Kenobi"},
		uploadStatus: http.StatusCreated,
	}
}

func (s *stubAPI) FetchProfile(ctx context.Context) (*linkedin.Profile, error) {
	s.calls = append(s.calls, "profile")
	if s.profileErr != nil {
		return nil, s.profileErr
	}
	return s.profile, nil
}

func (s *stubAPI) CreatePost(ctx context.Context, body interface{}) (*linkedin.PostResult, error) {
	s.calls = append(s.calls, "post")
	s.posts = append(s.posts, body)
	if s.postErr != nil {
		return nil, s.postErr
	}
	return &linkedin.PostResult{ID: "urn:li:share:42"}, nil
}

func (s *stubAPI) RegisterUpload(ctx context.Context, body linkedin.RegisterUploadBody) (*linkedin.UploadRegistration, error) {
	s.calls = append(s.calls, "register")
	s.registered = append(s.registered, body)
	if s.registerErr != nil {
		return nil, s.registerErr
	}

	n := len(s.registered)
	reg := &linkedin.UploadRegistration{
		Value: linkedin.UploadRegistrationValue{
			Asset:           fmt.Sprintf("urn:li:digitalmediaAsset:asset%d", n),
			UploadMechanism: map[string]linkedin.UploadMechanism{},
		},
	}
	if !s.registerNoMech {
		reg.Value.UploadMechanism[linkedin.MediaUploadHTTPRequestKey] = linkedin.UploadMechanism{
			UploadURL: fmt.Sprintf("https://upload.example/%d", n),
		}
	}
	return reg, nil
}

func (s *stubAPI) UploadImage(ctx context.Context, path, uploadURL string) (*linkedin.UploadOutcome, error) {
	s.calls = append(s.calls, "upload")
	s.uploads = append(s.uploads, [2]string{path, uploadURL})
	if s.uploadErr != nil {
		return nil, s.uploadErr
	}
	return &linkedin.UploadOutcome{StatusCode: s.uploadStatus}, nil
}

func (s *stubAPI) lastPayload(t *testing.T) linkedin.PostPayload {
	t.Helper()
	require.NotEmpty(t, s.posts)
	payload, ok := s.posts[len(s.posts)-1].(linkedin.PostPayload)
	require.True(t, ok, "post body should be a PostPayload")
	return payload
}

func newTestPublisher(t *testing.T, api *stubAPI, opts ...Option) *Publisher {
	t.Helper()
	opts = append([]Option{WithLogger(logger.NewNopLogger())}, opts...)
	pub, err := New(context.Background(), api, opts...)
	require.NoError(t, err)
	return pub
}

func TestNewFetchesProfileEagerly(t *testing.T) {
	api := newStubAPI()
	pub := newTestPublisher(t, api)

	assert.Equal(t, []string{"profile"}, api.calls)
	assert.Equal(t, "foo123", pub.Info().ID)
	assert.Equal(t, "urn:li:person:foo123", pub.AuthorURN())
}

func TestNewFailsWhenProfileUnavailable(t *testing.T) {
	api := newStubAPI()
	api.profileErr = errors.NewRemoteError(http.StatusUnauthorized, "https://api.linkedin.com/v2/me", []byte(`{"message":"expired"}`))

	pub, err := New(context.Background(), api, WithLogger(logger.NewNopLogger()))
	require.Error(t, err)
	assert.Nil(t, pub)
	assert.True(t, errors.IsType(err, errors.ErrorTypeRemote))
	assert.Equal(t, http.StatusUnauthorized, errors.StatusCode(err))
}

func TestNewFromEnvMissingToken(t *testing.T) {
	t.Setenv(linkedin.TokenEnvVar, "")
	os.Unsetenv(linkedin.TokenEnvVar)

	pub, err := NewFromEnv(context.Background(), WithLogger(logger.NewNopLogger()))
	require.Error(t, err)
	assert.Nil(t, pub)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestCreatePostWithoutImages(t *testing.T) {
	api := newStubAPI()
	pub := newTestPublisher(t, api)

	result, err := pub.CreatePost(context.Background(), "foo")
	require.NoError(t, err)
	assert.Equal(t, "urn:li:share:42", result.ID)

	assert.Equal(t, []string{"profile", "post"}, api.calls)
	assert.Empty(t, api.registered)

	payload := api.lastPayload(t)
	assert.Equal(t, "urn:li:person:foo123", payload.Author)
	assert.Equal(t, linkedin.LifecyclePublished, payload.LifecycleState)
	assert.Equal(t, linkedin.VisibilityPublic, payload.Visibility[linkedin.MemberNetworkVisibilityKey])

	content := payload.ShareContent()
	assert.Equal(t, "foo", content.ShareCommentary.Text)
	assert.Equal(t, linkedin.MediaCategoryNone, content.ShareMediaCategory)
	assert.NotNil(t, content.Media)
	assert.Empty(t, content.Media)
}

func TestCreatePostEmptyImageSlice(t *testing.T) {
	api := newStubAPI()
	pub := newTestPublisher(t, api)

	_, err := pub.CreatePost(context.Background(), "text", []Image{}...)
	require.NoError(t, err)
	assert.Equal(t, linkedin.MediaCategoryNone, api.lastPayload(t).ShareContent().ShareMediaCategory)
}

func TestCreatePostWithImagesKeepsOrder(t *testing.T) {
	api := newStubAPI()
	pub := newTestPublisher(t, api)

	images := []Image{
		{Path: "baa/foo.png", Description: "image description"},
		{Path: "baa/bar.png", Description: "second"},
		{Path: "baa/baz.png", Description: ""},
	}

	_, err := pub.CreatePost(context.Background(), "Hello there!", images...)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"profile",
		"register", "upload",
		"register", "upload",
		"register", "upload",
		"post",
	}, api.calls)

	for i, body := range api.registered {
		assert.Equal(t, "urn:li:person:foo123", body.RegisterUploadRequest.Owner, "registration %d", i)
		assert.Equal(t, []string{linkedin.FeedshareImageRecipe}, body.RegisterUploadRequest.Recipes)
	}

	for i, up := range api.uploads {
		assert.Equal(t, images[i].Path, up[0])
		assert.Equal(t, fmt.Sprintf("https://upload.example/%d", i+1), up[1])
	}

	content := api.lastPayload(t).ShareContent()
	assert.Equal(t, linkedin.MediaCategoryImage, content.ShareMediaCategory)
	require.Len(t, content.Media, len(images))
	for i, m := range content.Media {
		assert.Equal(t, fmt.Sprintf("urn:li:digitalmediaAsset:asset%d", i+1), m.Media)
		assert.Equal(t, images[i].Description, m.Description.Text)
		assert.Equal(t, DefaultImageTitle, m.Title.Text)
		assert.Equal(t, linkedin.MediaStatusReady, m.Status)
	}
}

func TestCreatePostOptions(t *testing.T) {
	api := newStubAPI()
	pub := newTestPublisher(t, api,
		WithImageTitle("Grogu"),
		WithVisibility(linkedin.VisibilityConnections),
	)

	_, err := pub.CreatePost(context.Background(), "text", Image{Path: "a.png"})
	require.NoError(t, err)

	payload := api.lastPayload(t)
	assert.Equal(t, linkedin.VisibilityConnections, payload.Visibility[linkedin.MemberNetworkVisibilityKey])
	assert.Equal(t, "Grogu", payload.ShareContent().Media[0].Title.Text)
}

func TestCreatePostRegisterFailureAborts(t *testing.T) {
	api := newStubAPI()
	api.registerErr = errors.NewRemoteError(http.StatusInternalServerError, "https://api.linkedin.com/v2/assets?action=registerUpload", nil)
	pub := newTestPublisher(t, api)

	result, err := pub.CreatePost(context.Background(), "text", Image{Path: "a.png"}, Image{Path: "b.png"})
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.IsType(err, errors.ErrorTypeRemote))
	assert.Contains(t, err.Error(), "a.png")

	assert.Equal(t, []string{"profile", "register"}, api.calls)
	assert.Empty(t, api.posts)
}

func TestCreatePostMissingUploadMechanism(t *testing.T) {
	api := newStubAPI()
	api.registerNoMech = true
	pub := newTestPublisher(t, api)

	_, err := pub.CreatePost(context.Background(), "text", Image{Path: "a.png"})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeParsing))
	assert.Empty(t, api.uploads)
	assert.Empty(t, api.posts)
}

func TestCreatePostUploadIOError(t *testing.T) {
	api := newStubAPI()
	api.uploadErr = errors.NewIOError("missing.png", os.ErrNotExist)
	pub := newTestPublisher(t, api)

	_, err := pub.CreatePost(context.Background(), "text", Image{Path: "missing.png"})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeIO))
	assert.True(t, stderrors.Is(err, os.ErrNotExist))
	assert.Empty(t, api.posts)
}

func TestCreatePostIgnoresFailedUploadByDefault(t *testing.T) {
	api := newStubAPI()
	api.uploadStatus = http.StatusBadRequest
	log := logger.NewTestLogger()
	pub := newTestPublisher(t, api, WithLogger(log))

	result, err := pub.CreatePost(context.Background(), "text", Image{Path: "a.png", Description: "d"})
	require.NoError(t, err)
	assert.NotNil(t, result)

	content := api.lastPayload(t).ShareContent()
	assert.Equal(t, linkedin.MediaCategoryImage, content.ShareMediaCategory)
	assert.Equal(t, "urn:li:digitalmediaAsset:asset1", content.Media[0].Media)
	assert.True(t, log.HasMessage("continuing after failed image upload"))
}

func TestCreatePostStrictUploads(t *testing.T) {
	api := newStubAPI()
	api.uploadStatus = http.StatusBadRequest
	pub := newTestPublisher(t, api, WithStrictUploads(true))

	_, err := pub.CreatePost(context.Background(), "text", Image{Path: "a.png"}, Image{Path: "b.png"})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeRemote))
	assert.Equal(t, http.StatusBadRequest, errors.StatusCode(err))

	assert.Equal(t, []string{"profile", "register", "upload"}, api.calls)
	assert.Empty(t, api.posts)
}

func TestCreatePostFailure(t *testing.T) {
	api := newStubAPI()
	api.postErr = errors.NewRemoteError(http.StatusUnprocessableEntity, "https://api.linkedin.com/v2/ugcPosts", []byte(`{"message":"duplicate"}`))
	pub := newTestPublisher(t, api)

	_, err := pub.CreatePost(context.Background(), "text")
	require.Error(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, errors.StatusCode(err))
}

// fakeLinkedIn serves the LinkedIn endpoints used by a post with images
func fakeLinkedIn(t *testing.T, uploadStatus int) (*httptest.Server, *[]map[string]interface{}) {
	t.Helper()
	var posts []map[string]interface{}
	var server *httptest.Server

	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		switch {
		case r.Method == http.MethodGet && r.URL.Path == linkedin.ProfileEndpoint:
			fmt.Fprint(w, `{"localizedLastName":"Kenobi","localizedFirstName":"Obi Wan","id":"foo123"}`)
		case r.Method == http.MethodPost && r.URL.Path == "/v2/assets":
			assert.Equal(t, "registerUpload", r.URL.Query().Get("action"))
			fmt.Fprintf(w, `{"value":{"uploadMechanism":{%q:{"headers":{},"uploadUrl":"%s/upload/1"}},"asset":"urn:li:digitalmediaAsset:C5522AQGUWhs1yfTRmw"}}`,
				linkedin.MediaUploadHTTPRequestKey, server.URL)
		case r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, "/upload/"):
			data, _ := io.ReadAll(r.Body)
			assert.Equal(t, "png-bytes", string(data))
			w.WriteHeader(uploadStatus)
		case r.Method == http.MethodPost && r.URL.Path == linkedin.PostsEndpoint:
			var body map[string]interface{}
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			posts = append(posts, body)
			w.WriteHeader(http.StatusCreated)
			fmt.Fprint(w, `{"id":"urn:li:share:6844785523593134080"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server, &posts
}

func TestPublisherAgainstServer(t *testing.T) {
	dir := t.TempDir()
	imagePath := filepath.Join(dir, "foo.png")
	require.NoError(t, os.WriteFile(imagePath, []byte("png-bytes"), 0600))

	server, posts := fakeLinkedIn(t, http.StatusCreated)
	client := linkedin.NewClient("test-token",
		linkedin.WithBaseURL(server.URL),
		linkedin.WithLogger(logger.NewNopLogger()),
	)

	pub, err := New(context.Background(), client, WithLogger(logger.NewNopLogger()))
	require.NoError(t, err)
	assert.Equal(t, "Obi Wan", pub.Info().LocalizedFirstName)

	result, err := pub.CreatePost(context.Background(), "Hello there!", Image{Path: imagePath, Description: "image description"})
	require.NoError(t, err)
	assert.Equal(t, "urn:li:share:6844785523593134080", result.ID)

	require.Len(t, *posts, 1)
	body := (*posts)[0]
	assert.Equal(t, "urn:li:person:foo123", body["author"])

	content := body["specificContent"].(map[string]interface{})[linkedin.ShareContentKey].(map[string]interface{})
	assert.Equal(t, "IMAGE", content["shareMediaCategory"])
	media := content["media"].([]interface{})
	require.Len(t, media, 1)
	first := media[0].(map[string]interface{})
	assert.Equal(t, "urn:li:digitalmediaAsset:C5522AQGUWhs1yfTRmw", first["media"])
	assert.Equal(t, "image description", first["description"].(map[string]interface{})["text"])
	assert.Equal(t, "Image Title", first["title"].(map[string]interface{})["text"])
}

func TestPublisherAgainstServerStrictUpload(t *testing.T) {
	dir := t.TempDir()
	imagePath := filepath.Join(dir, "foo.png")
	require.NoError(t, os.WriteFile(imagePath, []byte("png-bytes"), 0600))

	server, posts := fakeLinkedIn(t, http.StatusForbidden)
	client := linkedin.NewClient("test-token",
		linkedin.WithBaseURL(server.URL),
		linkedin.WithLogger(logger.NewNopLogger()),
	)

	pub, err := New(context.Background(), client, WithLogger(logger.NewNopLogger()), WithStrictUploads(true))
	require.NoError(t, err)

	_, err = pub.CreatePost(context.Background(), "Hello there!", Image{Path: imagePath})
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, errors.StatusCode(err))
	assert.Empty(t, *posts)
}
