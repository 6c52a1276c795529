// Package publisher turns text and local image files into a published
// LinkedIn post.
//
// A Publisher fetches the member profile once, when it is created, and uses it
// as author of every post. Images are handled one at a time: each is
// registered with LinkedIn, uploaded to the URL LinkedIn returns and then
// referenced from the post by its asset URN, in the order given.
//
//	pub, err := publisher.NewFromEnv(ctx)
//	if err != nil {
//		return err
//	}
//	_, err = pub.CreatePost(ctx, "Hello there!", publisher.Image{
//		Path:        "grogu.png",
//		Description: "Grogu",
//	})
//
// By default a non-2xx response to an image upload is logged and the post is
// still created. Use WithStrictUploads to make it an error.
package publisher
