// Copyright (c) 2026 Scriptum Team
// Scriptum - DE-QWERTZ typing tutor for the terminal
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/scriptum/scriptum/internal/db"
	"github.com/scriptum/scriptum/internal/i18n"
	"github.com/scriptum/scriptum/internal/model"
)

// profileCmd is the root command for profile management operations.
var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage practice profiles (list, add, switch, rename, delete)",
	Long: `The 'profile' command group manages the local users of the tutor.
Sessions and key statistics belong to a profile; exactly one profile is
active at a time and receives new training data.`,
}

// profileListCmd lists all profiles.
var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		profiles, err := db.GetAllProfiles()
		if err != nil {
			return fmt.Errorf("failed to list profiles: %w", err)
		}
		if len(profiles) == 0 {
			fmt.Println("No profiles found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tLAYOUT\tACTIVE\tCREATED")
		for _, p := range profiles {
			active := ""
			if p.Active {
				active = "*"
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
				p.ID, p.Name, p.Layout, active, p.CreatedAt.Format("2006-01-02"))
		}
		w.Flush()

		return nil
	},
}

// profileAddCmd creates a new profile.
var profileAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a new profile",
	Long:  `Creates a profile. The first profile ever created becomes active automatically.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.TrimSpace(args[0])
		if name == "" {
			return fmt.Errorf("profile name must not be empty")
		}

		id, err := db.AddProfile(name)
		if err != nil {
			if errors.Is(err, db.ErrDuplicate) {
				return fmt.Errorf("a profile named %q already exists", name)
			}
			return fmt.Errorf("failed to create profile: %w", err)
		}

		fmt.Println(i18n.T("profiles.added", name))
		fmt.Printf("ID: %d\n", id)
		return nil
	},
}

// profileSwitchCmd makes a profile the active one.
var profileSwitchCmd = &cobra.Command{
	Use:   "switch <name-or-id>",
	Short: "Switch the active profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := findProfile(args[0])
		if err != nil {
			return err
		}
		if err := db.SetActiveProfile(p.ID); err != nil {
			return fmt.Errorf("failed to switch profile: %w", err)
		}
		fmt.Println(i18n.T("profiles.activated", p.Name))
		return nil
	},
}

// profileRenameCmd renames a profile.
var profileRenameCmd = &cobra.Command{
	Use:   "rename <name-or-id> <new-name>",
	Short: "Rename a profile",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := findProfile(args[0])
		if err != nil {
			return err
		}
		newName := strings.TrimSpace(args[1])
		if newName == "" {
			return fmt.Errorf("profile name must not be empty")
		}

		if err := db.RenameProfile(p.ID, newName); err != nil {
			if errors.Is(err, db.ErrDuplicate) {
				return fmt.Errorf("a profile named %q already exists", newName)
			}
			return fmt.Errorf("failed to rename profile: %w", err)
		}
		fmt.Println(i18n.T("profiles.renamed", p.Name, newName))
		return nil
	},
}

// profileDeleteCmd removes a profile and its training data.
var profileDeleteCmd = &cobra.Command{
	Use:   "delete <name-or-id>",
	Short: "Delete a profile and all its training data",
	Long: `Deletes a profile together with its recorded sessions and key
statistics. This is not reversible.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := findProfile(args[0])
		if err != nil {
			return err
		}

		force, _ := cmd.Flags().GetBool("force")
		if !force {
			fmt.Printf("Delete profile %s and all its training data? (yes/no): ", p.Name)
			var response string
			fmt.Scanln(&response)
			if strings.ToLower(response) != "yes" {
				fmt.Println(i18n.T("profiles.delete_cancelled"))
				return nil
			}
		}

		wasActive := p.Active
		if err := db.DeleteProfile(p.ID); err != nil {
			return fmt.Errorf("failed to delete profile: %w", err)
		}
		fmt.Println(i18n.T("profiles.deleted", p.Name))
		if wasActive {
			fmt.Println("The deleted profile was active; switch to another with 'scriptum profile switch'.")
		}
		return nil
	},
}

// findProfile resolves a command-line argument to a profile, accepting
// a numeric id or a name (exact first, then case-insensitive).
func findProfile(arg string) (*model.Profile, error) {
	profiles, err := db.GetAllProfiles()
	if err != nil {
		return nil, fmt.Errorf("failed to load profiles: %w", err)
	}

	if id, err := strconv.Atoi(arg); err == nil {
		for i := range profiles {
			if profiles[i].ID == id {
				return &profiles[i], nil
			}
		}
	}
	for i := range profiles {
		if profiles[i].Name == arg {
			return &profiles[i], nil
		}
	}
	lower := strings.ToLower(arg)
	for i := range profiles {
		if strings.ToLower(profiles[i].Name) == lower {
			return &profiles[i], nil
		}
	}
	return nil, fmt.Errorf("profile not found: %s", arg)
}

// registerProfileCommands registers all profile-related subcommands.
// NewRootCmd runs more than once in tests, so wiring is guarded.
func registerProfileCommands() {
	if !profileCmd.HasSubCommands() {
		profileCmd.AddCommand(profileListCmd)
		profileCmd.AddCommand(profileAddCmd)
		profileCmd.AddCommand(profileSwitchCmd)
		profileCmd.AddCommand(profileRenameCmd)
		profileCmd.AddCommand(profileDeleteCmd)
	}

	if profileDeleteCmd.Flags().Lookup("force") == nil {
		profileDeleteCmd.Flags().BoolP("force", "f", false, "Skip confirmation prompt")
	}
}
