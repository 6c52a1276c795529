// Package linkedin provides a client for the LinkedIn v2 REST API.
//
// The Client exposes one method per endpoint it uses:
//   - FetchProfile: GET /v2/me, memoized per Client
//   - CreatePost: POST /v2/ugcPosts
//   - RegisterUpload: POST /v2/assets?action=registerUpload
//   - UploadImage: PUT of raw bytes to a registered upload URL
//
// Every JSON call returns a *errors.Error of type remote when LinkedIn answers
// with a non-2xx status. UploadImage does not: it returns the status in the
// UploadOutcome and leaves the decision to the caller.
//
// Example usage:
//
//	client, err := linkedin.NewClientFromEnv()
//	if err != nil {
//	    // LINKEDIN_TOKEN is not set
//	}
//
//	me, err := client.FetchProfile(ctx)
//	if err != nil {
//	    return err
//	}
//
//	payload := linkedin.NewPostPayload(me.URN(), "Hello", linkedin.VisibilityPublic, nil)
//	res, err := client.CreatePost(ctx, payload)
//
// Requests go through a Transport so tests can replace the network.
package linkedin
