package linkedin

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersonURN(t *testing.T) {
	assert.Equal(t, "urn:li:person:foo123", PersonURN("foo123"))
	assert.Equal(t, "", PersonURN(""))
}

func TestEndpointURL(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		endpoint string
		expected string
	}{
		{"default host", BaseURL, ProfileEndpoint, "https://api.linkedin.com/v2/me"},
		{"trailing slash", "http://localhost:8080/", PostsEndpoint, "http://localhost:8080/v2/ugcPosts"},
		{"query action", BaseURL, RegisterUploadEndpoint, "https://api.linkedin.com/v2/assets?action=registerUpload"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, endpointURL(tt.base, tt.endpoint))
		})
	}
}

func TestPostPayloadWithoutMedia(t *testing.T) {
	payload := NewPostPayload("urn:li:person:foo123", "foo", VisibilityPublic, nil)

	data, err := json.Marshal(payload)
	require.NoError(t, err)

	expected := `{"author":"urn:li:person:foo123","lifecycleState":"PUBLISHED",` +
		`"specificContent":{"com.linkedin.ugc.ShareContent":{"shareCommentary":{"text":"foo"},` +
		`"shareMediaCategory":"NONE","media":[]}},` +
		`"visibility":{"com.linkedin.ugc.MemberNetworkVisibility":"PUBLIC"}}`
	assert.Equal(t, expected, string(data))
}

func TestPostPayloadWithMedia(t *testing.T) {
	media := []Media{
		{
			Status:      MediaStatusReady,
			Description: Text{Text: "My Media Description"},
			Media:       "urn:li:digitalmediaAsset:D4E22AQFaLDfRCXr8lg",
			Title:       Text{Text: "Grogu!!!"},
		},
	}
	payload := NewPostPayload("urn:li:person:foo123", "Testing APIs with Image Upload", VisibilityConnections, media)

	share := payload.ShareContent()
	assert.Equal(t, MediaCategoryImage, share.ShareMediaCategory)
	assert.Len(t, share.Media, 1)

	data, err := json.Marshal(payload)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	content := decoded["specificContent"].(map[string]interface{})[ShareContentKey].(map[string]interface{})
	assert.Equal(t, "IMAGE", content["shareMediaCategory"])
	entry := content["media"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "READY", entry["status"])
	assert.Equal(t, "My Media Description", entry["description"].(map[string]interface{})["text"])
	assert.Equal(t, "urn:li:digitalmediaAsset:D4E22AQFaLDfRCXr8lg", entry["media"])
	assert.Equal(t, "Grogu!!!", entry["title"].(map[string]interface{})["text"])
	assert.Equal(t, "CONNECTIONS", decoded["visibility"].(map[string]interface{})[MemberNetworkVisibilityKey])
}

func TestPostPayloadCategoryFollowsMedia(t *testing.T) {
	assert.Equal(t, MediaCategoryNone, NewPostPayload("a", "t", VisibilityPublic, []Media{}).ShareContent().ShareMediaCategory)
	assert.NotNil(t, NewPostPayload("a", "t", VisibilityPublic, nil).ShareContent().Media)
	assert.Equal(t, MediaCategoryImage, NewPostPayload("a", "t", VisibilityPublic, make([]Media, 3)).ShareContent().ShareMediaCategory)
}

func TestNewImageUploadBody(t *testing.T) {
	data, err := json.Marshal(NewImageUploadBody("urn:li:person:foo123"))
	require.NoError(t, err)

	expected := `{"registerUploadRequest":{"recipes":["urn:li:digitalmediaRecipe:feedshare-image"],` +
		`"owner":"urn:li:person:foo123",` +
		`"serviceRelationships":[{"relationshipType":"OWNER","identifier":"urn:li:userGeneratedContent"}]}}`
	assert.Equal(t, expected, string(data))
}

func TestUploadRegistrationWithoutHTTPMechanism(t *testing.T) {
	var reg UploadRegistration
	require.NoError(t, json.Unmarshal([]byte(`{"value":{"asset":"urn:li:digitalmediaAsset:x","uploadMechanism":{}}}`), &reg))

	_, ok := reg.HTTPUpload()
	assert.False(t, ok)
	assert.Equal(t, "urn:li:digitalmediaAsset:x", reg.Value.Asset)
}
