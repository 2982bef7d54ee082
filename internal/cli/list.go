package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List your goals",
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	d, userID, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	goals, err := d.Goals.List(userID)
	if err != nil {
		return err
	}
	if len(goals) == 0 {
		fmt.Println("No goals yet. Create one with: questlog create -m fitness \"run a 5k\"")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODULE\tDIFFICULTY\tSTATUS\tTITLE")
	for _, g := range goals {
		status := "open"
		if g.Completed() {
			status = "done"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", g.ID, g.Module, g.Difficulty, status, g.Title)
	}
	return w.Flush()
}
