// Copyright (c) 2026 Scriptum Team
// Scriptum - DE-QWERTZ typing tutor for the terminal
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/scriptum/scriptum/internal/db"
	"github.com/scriptum/scriptum/internal/i18n"
	"github.com/scriptum/scriptum/internal/model"
	"github.com/scriptum/scriptum/internal/tui"
)

// historyCmd prints the recent training sessions of the active profile.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent training sessions",
	Long:  `Prints the training history of the active profile, newest first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		profile, err := requireActiveProfile()
		if err != nil {
			return err
		}

		sessions, err := db.GetSessionsForProfile(profile.ID)
		if err != nil {
			return fmt.Errorf("failed to load sessions: %w", err)
		}
		if len(sessions) == 0 {
			fmt.Printf("No sessions recorded for %s yet.\n", profile.Name)
			return nil
		}
		if limit > 0 && len(sessions) > limit {
			sessions = sessions[:limit]
		}

		titles := map[int]string{}
		lessonTitle := func(id int) string {
			if t, ok := titles[id]; ok {
				return t
			}
			t := fmt.Sprintf("#%d", id)
			if l, err := db.GetLessonByID(id); err == nil && l != nil {
				t = l.Title
			}
			titles[id] = t
			return t
		}

		fmt.Printf("History for %s\n\n", profile.Name)
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "WHEN\tLESSON\tWPM\tACCURACY\tERRORS\tDURATION\tDONE")
		for _, s := range sessions {
			done := "yes"
			if !s.Completed {
				done = "no"
			}
			fmt.Fprintf(w, "%s\t%s\t%.1f\t%.1f%%\t%d\t%s\t%s\n",
				s.StartedAt.Format("2006-01-02 15:04"),
				lessonTitle(s.LessonID),
				s.WPM,
				s.Accuracy*100,
				s.Errors,
				formatSessionDuration(s.Duration),
				done)
		}
		w.Flush()

		return nil
	},
}

// statsCmd prints the per-key statistics of the active profile, worst
// keys first.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show per-key statistics",
	Long: `Prints the per-key hit and miss counts of the active profile, keys
with the most misses first. These are the keys worth drilling.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		keys, _ := cmd.Flags().GetInt("keys")

		profile, err := requireActiveProfile()
		if err != nil {
			return err
		}

		stats, err := db.GetKeyStatsForProfile(profile.ID)
		if err != nil {
			return fmt.Errorf("failed to load key stats: %w", err)
		}
		if len(stats) == 0 {
			fmt.Printf("No key statistics for %s yet.\n", profile.Name)
			return nil
		}

		var hits, misses int
		for _, st := range stats {
			hits += st.Hits
			misses += st.Misses
		}
		total := hits + misses
		var overallRate float64
		if total > 0 {
			overallRate = float64(misses) / float64(total)
		}

		shown := stats
		if keys > 0 && len(shown) > keys {
			shown = shown[:keys]
		}

		fmt.Printf("Key stats for %s\n", profile.Name)
		fmt.Println(i18n.T("stats.aggregate", total, len(stats), fmt.Sprintf("%.1f", overallRate*100)))
		fmt.Println()

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "KEY\tFINGER\tHITS\tMISSES\tMISS%")
		for _, st := range shown {
			key := st.Key
			if key == " " {
				key = "␣"
			}
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.1f%%\n",
				key, tui.FingerLabel(st.Key), st.Hits, st.Misses, st.MissRate()*100)
		}
		w.Flush()

		return nil
	},
}

// requireActiveProfile loads the active profile or explains how to get
// one. Reports are per profile, so there is nothing to print without.
func requireActiveProfile() (*model.Profile, error) {
	profile, err := db.GetActiveProfile()
	if err != nil {
		return nil, fmt.Errorf("failed to load active profile: %w", err)
	}
	if profile == nil {
		return nil, fmt.Errorf("no active profile; create one with 'scriptum profile add'")
	}
	return profile, nil
}

// formatSessionDuration renders a practice duration compactly, matching
// the TUI history view.
func formatSessionDuration(d time.Duration) string {
	secs := int(d.Round(time.Second).Seconds())
	switch {
	case secs < 60:
		return fmt.Sprintf("%ds", secs)
	case secs < 3600:
		return fmt.Sprintf("%dm %02ds", secs/60, secs%60)
	default:
		return fmt.Sprintf("%dh %02dm", secs/3600, (secs%3600)/60)
	}
}

// registerReportCommands wires the flags of the report commands.
func registerReportCommands() {
	if historyCmd.Flags().Lookup("limit") == nil {
		historyCmd.Flags().IntP("limit", "n", 20, "Maximum number of sessions to show")
	}
	if statsCmd.Flags().Lookup("keys") == nil {
		statsCmd.Flags().IntP("keys", "k", 15, "Maximum number of keys to show")
	}
}
