package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/questlog/questlog/internal/domain"
)

func init() {
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(completeCmd)
}

var progressCmd = &cobra.Command{
	Use:   "progress GOAL_ID [NOTE...]",
	Short: "Record progress on a goal",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runProgress,
}

var completeCmd = &cobra.Command{
	Use:   "complete GOAL_ID",
	Short: "Mark a goal as completed",
	Args:  cobra.ExactArgs(1),
	RunE:  runComplete,
}

func runProgress(cmd *cobra.Command, args []string) error {
	d, userID, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	note := strings.Join(args[1:], " ")
	result, err := d.Goals.RecordProgress(userID, args[0], note)
	if err != nil {
		return err
	}

	printResult(result)
	return nil
}

func runComplete(cmd *cobra.Command, args []string) error {
	d, userID, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	result, err := d.Goals.Complete(userID, args[0])
	if err != nil {
		return err
	}

	fmt.Println("Goal completed! 🎉")
	printResult(result)
	return nil
}

func printResult(r domain.GamificationResult) {
	fmt.Printf("+%d XP (total %d, level %d)\n", r.XPAwarded, r.TotalXP, r.NewLevel)
	if r.LeveledUp {
		fmt.Printf("LEVEL UP! You reached level %d\n", r.NewLevel)
	}
	if r.CurrentStreak > 1 {
		fmt.Printf("Streak: %d days 🔥\n", r.CurrentStreak)
	}
	for _, a := range r.NewlyUnlocked {
		fmt.Printf("Achievement unlocked: %s %s (+%d XP)\n", a.Icon, a.Name, a.XPReward)
	}
}
