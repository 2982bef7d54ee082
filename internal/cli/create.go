package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/questlog/questlog/internal/domain"
)

func init() {
	createCmd.Flags().StringVarP(&createModule, "module", "m", "", "Life module (fitness, learning, scripture, home, work)")
	createCmd.Flags().StringVarP(&createDifficulty, "difficulty", "d", "medium", "Difficulty (easy, medium, hard, expert)")
	_ = createCmd.MarkFlagRequired("module")
	rootCmd.AddCommand(createCmd)
}

var (
	createModule     string
	createDifficulty string
)

var createCmd = &cobra.Command{
	Use:   "create TITLE",
	Short: "Create a new goal",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCreate,
}

func runCreate(cmd *cobra.Command, args []string) error {
	d, userID, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	title := strings.Join(args, " ")
	goal, err := d.Goals.Create(userID, domain.Module(createModule), title, domain.Difficulty(createDifficulty))
	if err != nil {
		return err
	}

	fmt.Printf("Created goal %s\n", goal.ID)
	fmt.Printf("  %s [%s, %s]\n", goal.Title, goal.Module, goal.Difficulty)
	return nil
}
