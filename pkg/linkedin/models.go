package linkedin

import "net/http"

// Locale identifies a country/language pair
type Locale struct {
	Country  string `json:"country"`
	Language string `json:"language"`
}

// LocalizedString holds a value per locale key such as "it_IT"
type LocalizedString struct {
	Localized       map[string]string `json:"localized"`
	PreferredLocale Locale            `json:"preferredLocale"`
}

// ProfilePicture references the member's display image asset
type ProfilePicture struct {
	DisplayImage string `json:"displayImage"`
}

// Profile is the authenticated member's identity record returned by /v2/me
type Profile struct {
	ID                 string          `json:"id"`
	LocalizedFirstName string          `json:"localizedFirstName"`
	LocalizedLastName  string          `json:"localizedLastName"`
	FirstName          LocalizedString `json:"firstName"`
	LastName           LocalizedString `json:"lastName"`
	ProfilePicture     *ProfilePicture `json:"profilePicture,omitempty"`
}

// URN returns the person URN used as post author and asset owner
func (p *Profile) URN() string {
	return PersonURN(p.ID)
}

// ServiceRelationship describes who owns an uploaded asset
type ServiceRelationship struct {
	RelationshipType string `json:"relationshipType"`
	Identifier       string `json:"identifier"`
}

// RegisterUploadRequest describes the asset about to be uploaded
type RegisterUploadRequest struct {
	Recipes              []string              `json:"recipes"`
	Owner                string                `json:"owner"`
	ServiceRelationships []ServiceRelationship `json:"serviceRelationships"`
}

// RegisterUploadBody is the request body of the registerUpload action
type RegisterUploadBody struct {
	RegisterUploadRequest RegisterUploadRequest `json:"registerUploadRequest"`
}

// NewImageUploadBody builds a feed-share image registration owned by owner
func NewImageUploadBody(owner string) RegisterUploadBody {
	return RegisterUploadBody{
		RegisterUploadRequest: RegisterUploadRequest{
			Recipes: []string{FeedshareImageRecipe},
			Owner:   owner,
			ServiceRelationships: []ServiceRelationship{
				{
					RelationshipType: RelationshipOwner,
					Identifier:       UserGeneratedContentURN,
				},
			},
		},
	}
}

// UploadMechanism is a one-time upload URL plus the headers hinted by LinkedIn
type UploadMechanism struct {
	UploadURL string            `json:"uploadUrl"`
	Headers   map[string]string `json:"headers"`
}

// UploadRegistrationValue wraps the registered asset and its upload mechanisms.
// UploadMechanism is keyed by namespaced mechanism names.
type UploadRegistrationValue struct {
	Asset              string                     `json:"asset"`
	MediaArtifact      string                     `json:"mediaArtifact,omitempty"`
	AssetRealTimeTopic string                     `json:"assetRealTimeTopic,omitempty"`
	UploadMechanism    map[string]UploadMechanism `json:"uploadMechanism"`
}

// UploadRegistration is the response of the registerUpload action
type UploadRegistration struct {
	Value UploadRegistrationValue `json:"value"`
}

// HTTPUpload returns the MediaUploadHttpRequest mechanism, if present
func (r *UploadRegistration) HTTPUpload() (UploadMechanism, bool) {
	m, ok := r.Value.UploadMechanism[MediaUploadHTTPRequestKey]
	return m, ok
}

// Text is LinkedIn's {"text": ...} wrapper
type Text struct {
	Text string `json:"text"`
}

// MediaCategory is the shareMediaCategory of a post
type MediaCategory string

const (
	MediaCategoryNone  MediaCategory = "NONE"
	MediaCategoryImage MediaCategory = "IMAGE"
)

// Visibility is the member network visibility of a post
type Visibility string

const (
	VisibilityPublic      Visibility = "PUBLIC"
	VisibilityConnections Visibility = "CONNECTIONS"
)

// LifecyclePublished is the only lifecycle state used when creating posts
const LifecyclePublished = "PUBLISHED"

// MediaStatusReady marks an attached media entry as ready
const MediaStatusReady = "READY"

// Media references an uploaded asset inside a post
type Media struct {
	Status      string `json:"status"`
	Description Text   `json:"description"`
	Media       string `json:"media"`
	Title       Text   `json:"title"`
}

// ShareContent is the value stored under ShareContentKey
type ShareContent struct {
	ShareCommentary    Text          `json:"shareCommentary"`
	ShareMediaCategory MediaCategory `json:"shareMediaCategory"`
	Media              []Media       `json:"media"`
}

// PostPayload is the body of a ugcPosts request
type PostPayload struct {
	Author          string                  `json:"author"`
	LifecycleState  string                  `json:"lifecycleState"`
	SpecificContent map[string]ShareContent `json:"specificContent"`
	Visibility      map[string]Visibility   `json:"visibility"`
}

// NewPostPayload assembles a published post. The media category is derived
// from media so the two can never disagree, and media is never nil.
func NewPostPayload(author, text string, visibility Visibility, media []Media) PostPayload {
	category := MediaCategoryNone
	if len(media) > 0 {
		category = MediaCategoryImage
	}
	if media == nil {
		media = []Media{}
	}

	return PostPayload{
		Author:         author,
		LifecycleState: LifecyclePublished,
		SpecificContent: map[string]ShareContent{
			ShareContentKey: {
				ShareCommentary:    Text{Text: text},
				ShareMediaCategory: category,
				Media:              media,
			},
		},
		Visibility: map[string]Visibility{
			MemberNetworkVisibilityKey: visibility,
		},
	}
}

// ShareContent returns the namespaced share content of the payload
func (p PostPayload) ShareContent() ShareContent {
	return p.SpecificContent[ShareContentKey]
}

// PostResult is the decoded ugcPosts response
type PostResult struct {
	ID string `json:"id"`
}

// UploadOutcome is the raw result of an image PUT
type UploadOutcome struct {
	StatusCode int
	Header     http.Header
}

// OK reports whether the upload returned a 2xx status
func (o *UploadOutcome) OK() bool {
	return o.StatusCode >= 200 && o.StatusCode < 300
}
