package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"lipost/pkg/auth"
	"lipost/pkg/ui"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the stored LinkedIn token",
	Long: `Manage the LinkedIn bearer token used by lipost.

The token is stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation

LINKEDIN_TOKEN, when set, always takes precedence over a stored token.
Never share your token!`,
}

// loginCmd represents the auth login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store a LinkedIn token securely",
	Long: `Store a LinkedIn bearer token in the system keychain or an encrypted file.

The token is read from the terminal without echo. Follow
https://youtu.be/YJoof1kX_kQ to obtain one.`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

// logoutCmd represents the auth logout command
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored token",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

// statusCmd represents the auth status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show where the token comes from",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(statusCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	fmt.Print("LinkedIn token (hidden): ")
	tok, err := readSecret()
	if err != nil {
		return fmt.Errorf("failed to read token: %w", err)
	}

	store, err := manager.Store(tok)
	if err != nil {
		return err
	}

	ui.PrintSuccess("Token stored")
	ui.PrintInfo("Store", store)
	ui.PrintInfo("Token", auth.MaskToken(strings.TrimSpace(tok)))
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	if err := manager.Delete(); err != nil {
		if errors.Is(err, auth.ErrCredentialsNotFound) {
			ui.PrintWarning("No stored token found")
			return nil
		}
		return err
	}

	ui.PrintSuccess("Token removed")
	if os.Getenv(auth.TokenEnvVar) != "" {
		ui.PrintWarning(auth.TokenEnvVar + " is still set in your environment")
	}
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	ui.PrintInfo("Lookup order", strings.Join(manager.StoreNames(), " > "))

	tok, source, err := manager.Resolve()
	if err != nil {
		ui.PrintWarning("No token found")
		return err
	}

	ui.PrintInfo("Source", source)
	ui.PrintInfo("Token", auth.MaskToken(tok))
	return nil
}

// readSecret reads a line from stdin without echoing when stdin is a terminal
func readSecret() (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		secret, err := term.ReadPassword(fd)
		fmt.Println()
		if err == nil {
			return strings.TrimSpace(string(secret)), nil
		}
	}

	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil && input == "" {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
