package linkedin

import (
	"strings"
)

const (
	// BaseURL is the base URL for the LinkedIn REST API
	BaseURL = "https://api.linkedin.com"

	// ProfileEndpoint returns the authenticated member's profile
	ProfileEndpoint = "/v2/me"

	// PostsEndpoint creates user generated content posts
	PostsEndpoint = "/v2/ugcPosts"

	// RegisterUploadEndpoint registers intent to upload an asset
	RegisterUploadEndpoint = "/v2/assets?action=registerUpload"

	// TokenEnvVar is the environment variable holding the bearer token
	TokenEnvVar = "LINKEDIN_TOKEN"
)

// Namespaced keys used verbatim in request and response bodies. They contain
// dots and are opaque map keys, not field paths.
const (
	ShareContentKey            = "com.linkedin.ugc.ShareContent"
	MemberNetworkVisibilityKey = "com.linkedin.ugc.MemberNetworkVisibility"
	MediaUploadHTTPRequestKey  = "com.linkedin.digitalmedia.uploading.MediaUploadHttpRequest"
)

const (
	// FeedshareImageRecipe is the recipe for images attached to feed posts
	FeedshareImageRecipe = "urn:li:digitalmediaRecipe:feedshare-image"

	// UserGeneratedContentURN identifies the service owning uploaded media
	UserGeneratedContentURN = "urn:li:userGeneratedContent"

	// RelationshipOwner is the relationship type of the uploading member
	RelationshipOwner = "OWNER"

	personURNPrefix = "urn:li:person:"

	restliIDHeader = "X-RestLi-Id"
)

// tokenRemediation is appended to the error reported when TokenEnvVar is unset
const tokenRemediation = "Follow this tutorial (https://youtu.be/YJoof1kX_kQ) and run `export " +
	TokenEnvVar + "=<YOUR_TOKEN>` in your current shell"

// PersonURN builds the author URN for a member id
func PersonURN(memberID string) string {
	if memberID == "" {
		return ""
	}
	return personURNPrefix + memberID
}

// endpointURL joins a base URL and an endpoint path
func endpointURL(baseURL, endpoint string) string {
	return strings.TrimRight(baseURL, "/") + endpoint
}
