package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"lipost/pkg/logger"
	"lipost/pkg/publisher"
	"lipost/pkg/ui"
)

var (
	// Post command flags
	imageArgs     []string
	strictUploads bool
	visibility    string
	notify        bool
)

// postCmd represents the post command
var postCmd = &cobra.Command{
	Use:   "post <text>",
	Short: "Publish a post, optionally with images",
	Long: `Publish a text post as the authenticated member.

Each --image is registered with LinkedIn and uploaded before the post is
created. Images appear in the post in the order given. A description can be
attached with path:description.`,
	Example: `  # Text only
  lipost post "Hello there!"

  # With two images
  lipost post "General Kenobi" --image grogu.png:"Baby Yoda" --image mando.jpg

  # Fail if any image upload is rejected
  lipost post "Hello" --image grogu.png --strict-uploads`,
	Args: cobra.ExactArgs(1),
	RunE: runPost,
}

func init() {
	rootCmd.AddCommand(postCmd)

	postCmd.Flags().StringArrayVarP(&imageArgs, "image", "i", nil, "image to attach as path[:description]; a path containing colons must name an existing file (repeatable)")
	postCmd.Flags().BoolVar(&strictUploads, "strict-uploads", false, "fail when an image upload returns a non-2xx status")
	postCmd.Flags().StringVar(&visibility, "visibility", "", "post visibility (PUBLIC or CONNECTIONS)")
	postCmd.Flags().BoolVar(&notify, "notify", false, "send a desktop notification when the post is published")
}

func runPost(cmd *cobra.Command, args []string) error {
	extra := make(map[string]interface{})
	if cmd.Flags().Changed("strict-uploads") {
		extra["strict-uploads"] = strictUploads
	}
	if cmd.Flags().Changed("visibility") {
		extra["visibility"] = visibility
	}

	cfg, err := loadConfig(cmd, extra)
	if err != nil {
		return err
	}

	images := make([]publisher.Image, 0, len(imageArgs))
	for _, arg := range imageArgs {
		img, err := parseImageArg(arg)
		if err != nil {
			return err
		}
		images = append(images, img)
	}

	pub, err := newPublisher(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	ui.PrintInfo("Author", pub.AuthorURN())
	if len(images) > 0 {
		ui.PrintInfo("Images", fmt.Sprintf("%d", len(images)))
	}

	result, err := pub.CreatePost(cmd.Context(), args[0], images...)
	if err != nil {
		return err
	}

	ui.PrintSuccess("Post published")
	if result.ID != "" {
		ui.PrintInfo("Post ID", result.ID)
	}

	if notify {
		if err := ui.NewNotifier().Notify("lipost", "Post published"); err != nil {
			logger.WithError(err).Debug("desktop notification failed")
		}
	}
	return nil
}

// parseImageArg splits path[:description]. A colon inside the path is kept
// when the part before it names an existing file, and a leading drive letter
// such as C:\ is never treated as the separator.
func parseImageArg(arg string) (publisher.Image, error) {
	if isFile(arg) {
		return publisher.Image{Path: arg}, nil
	}

	for i := strings.LastIndex(arg, ":"); i > 0; i = strings.LastIndex(arg[:i], ":") {
		if isFile(arg[:i]) {
			return publisher.Image{Path: arg[:i], Description: arg[i+1:]}, nil
		}
	}

	skip := 0
	if hasDriveLetter(arg) {
		skip = 2
	}
	path, description, _ := strings.Cut(arg[skip:], ":")
	path = strings.TrimSpace(arg[:skip] + path)
	if path == "" {
		return publisher.Image{}, fmt.Errorf("invalid --image %q: path is required", arg)
	}
	return publisher.Image{Path: path, Description: description}, nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// hasDriveLetter reports whether arg starts like C:\ or C:/
func hasDriveLetter(arg string) bool {
	if len(arg) < 3 || arg[1] != ':' || (arg[2] != '\\' && arg[2] != '/') {
		return false
	}
	c := arg[0] | 0x20
	return c >= 'a' && c <= 'z'
}
