package main

import (
	"github.com/spf13/cobra"
	"lipost/pkg/linkedin"
	"lipost/pkg/ui"
)

// meCmd represents the me command
var meCmd = &cobra.Command{
	Use:   "me",
	Short: "Show the authenticated member's profile",
	Long:  `Fetch the profile of the member owning the bearer token and print it.`,
	Args:  cobra.NoArgs,
	RunE:  runMe,
}

func init() {
	rootCmd.AddCommand(meCmd)
}

func runMe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}

	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	profile, err := client.FetchProfile(cmd.Context())
	if err != nil {
		return err
	}

	ui.PrintPanel("Profile", profileRows(profile))
	return nil
}

// profileRows formats the fields shown by the me command
func profileRows(p *linkedin.Profile) [][2]string {
	rows := [][2]string{
		{"ID", p.ID},
		{"URN", p.URN()},
		{"Name", p.LocalizedFirstName + " " + p.LocalizedLastName},
	}
	if p.ProfilePicture != nil && p.ProfilePicture.DisplayImage != "" {
		rows = append(rows, [2]string{"Picture", p.ProfilePicture.DisplayImage})
	}
	return rows
}
