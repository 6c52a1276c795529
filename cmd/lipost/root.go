package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"

	"github.com/spf13/cobra"
	"lipost/pkg/auth"
	"lipost/pkg/config"
	errs "lipost/pkg/errors"
	"lipost/pkg/linkedin"
	"lipost/pkg/logger"
	"lipost/pkg/publisher"
	"lipost/pkg/ui"
)

var (
	// Version information
	version   = "0.1.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	token      string
	baseURL    string
	quiet      bool
	showLogo   bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "lipost",
	Short: "Publish LinkedIn posts, with images, from the command line",
	Long: `lipost publishes text posts with optional images to LinkedIn as the
authenticated member.

The bearer token is looked up in this order:
  - --token flag
  - LINKEDIN_TOKEN environment variable (also read from .env)
  - System keychain (stored with 'lipost auth login')
  - Encrypted credentials file`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if quiet {
			ui.SetQuietMode(true)
		}
		if showLogo {
			ui.PrintLogo()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		ui.PrintError("Error", err)
		if hint := statusHint(err); hint != "" {
			ui.PrintError(hint)
		}
		os.Exit(1)
	}
}

// statusHint explains the HTTP status of a failed LinkedIn call, if any
func statusHint(err error) string {
	code := errs.StatusCode(err)
	switch {
	case code == 0:
		return ""
	case code == http.StatusUnauthorized:
		return fmt.Sprintf("LinkedIn answered %d: the token is invalid or expired, run 'lipost auth login'", code)
	case code == http.StatusForbidden:
		return fmt.Sprintf("LinkedIn answered %d: the token is not allowed to post for this member", code)
	case code == http.StatusTooManyRequests:
		return fmt.Sprintf("LinkedIn answered %d: rate limited, try again later", code)
	default:
		return fmt.Sprintf("LinkedIn answered %d %s", code, http.StatusText(code))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is ./.lipost.yaml or $HOME/.config/lipost/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error, disabled)")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "LinkedIn bearer token (overrides stored token)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "LinkedIn API base URL")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&showLogo, "logo", false, "print the banner")

	rootCmd.SetVersionTemplate(`lipost {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// loadConfig merges config file, environment and the flags the user set
func loadConfig(cmd *cobra.Command, extra map[string]interface{}) (*config.Config, error) {
	flags := make(map[string]interface{})
	if cmd.Flags().Changed("log-level") {
		flags["log-level"] = logLevel
	}
	if cmd.Flags().Changed("token") {
		flags["token"] = token
	}
	if cmd.Flags().Changed("base-url") {
		flags["base-url"] = baseURL
	}
	for k, v := range extra {
		flags[k] = v
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		return nil, err
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, nil
}

// resolveToken returns the configured token or the first stored one
func resolveToken(cfg *config.Config) (string, error) {
	if cfg.LinkedIn.Token != "" {
		return cfg.LinkedIn.Token, nil
	}

	manager, err := auth.NewManager()
	if err != nil {
		return "", fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	tok, source, err := manager.Resolve()
	if err != nil {
		return "", err
	}
	logger.WithField("source", source).Debug("using stored token")
	return tok, nil
}

// newClient builds a LinkedIn client from cfg
func newClient(cfg *config.Config) (*linkedin.Client, error) {
	tok, err := resolveToken(cfg)
	if err != nil {
		return nil, err
	}

	return linkedin.NewClient(tok,
		linkedin.WithBaseURL(cfg.LinkedIn.BaseURL),
		linkedin.WithLogger(logger.GetLogger()),
	), nil
}

// newPublisher builds a Publisher from cfg. It fetches the profile.
func newPublisher(ctx context.Context, cfg *config.Config) (*publisher.Publisher, error) {
	client, err := newClient(cfg)
	if err != nil {
		return nil, err
	}

	return publisher.New(ctx, client,
		publisher.WithLogger(logger.GetLogger()),
		publisher.WithStrictUploads(cfg.Upload.StrictUploads),
		publisher.WithImageTitle(cfg.Upload.ImageTitle),
		publisher.WithVisibility(linkedin.Visibility(cfg.Post.Visibility)),
	)
}
