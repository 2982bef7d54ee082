package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/questlog/questlog/internal/app/gamification"
)

func init() {
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(achievementsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show your XP, level, and streak",
	RunE:  runStats,
}

var achievementsCmd = &cobra.Command{
	Use:   "achievements",
	Short: "Show achievement progress",
	RunE:  runAchievements,
}

func runStats(cmd *cobra.Command, args []string) error {
	d, userID, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	user, err := d.DB.GetUser(userID)
	if err != nil {
		return err
	}
	stats, err := d.DB.UserStatsSnapshot(userID)
	if err != nil {
		return err
	}
	completed, err := d.Achievements.CompletedCount(userID)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "User\t%s\n", user.ID)
	fmt.Fprintf(w, "Level\t%d (%.0f%% to next)\n", user.CurrentLevel, gamification.ProgressPct(user.TotalXP))
	fmt.Fprintf(w, "Total XP\t%d (%d to next level)\n", user.TotalXP, gamification.XPToNextLevel(user.TotalXP))
	fmt.Fprintf(w, "Streak\t%d days\n", user.StreakCount)
	fmt.Fprintf(w, "Goals\t%d created, %d completed\n", stats.GoalsCreated, stats.GoalsCompleted)
	fmt.Fprintf(w, "Achievements\t%d / %d\n", completed, d.Achievements.TotalCount())
	return w.Flush()
}

func runAchievements(cmd *cobra.Command, args []string) error {
	d, userID, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	progress, err := d.Achievements.Progress(userID)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, def := range d.Achievements.Definitions() {
		p := progress[def.ID]
		switch {
		case p.IsCompleted:
			fmt.Fprintf(w, "%s %s\tunlocked %s\t+%d XP\n",
				def.Icon, def.Name, p.CompletedAt.Format("2006-01-02"), def.XPReward)
		default:
			fmt.Fprintf(w, "%s %s\t%.0f%%\t+%d XP\n",
				def.Icon, def.Name, p.Progress*100, def.XPReward)
		}
	}
	return w.Flush()
}
