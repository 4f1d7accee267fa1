package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List stored punches, newest first",
	Run: func(cmd *cobra.Command, args []string) {
		st, err := openStore()
		if err != nil {
			exitErr("open store", err)
		}
		printJSON(st.History())
	},
}

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "List today's punches",
	Run: func(cmd *cobra.Command, args []string) {
		st, err := openStore()
		if err != nil {
			exitErr("open store", err)
		}
		printJSON(st.Today())
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current punch state",
	Run: func(cmd *cobra.Command, args []string) {
		st, err := openStore()
		if err != nil {
			exitErr("open store", err)
		}

		if last, ok := st.LastCheckIn(); ok {
			fmt.Printf("Last check-in: %s %s (%s)\n", last.Date, last.Time, last.Location)
		} else {
			fmt.Println("Last check-in: none")
		}
		if st.CanCheckOut() {
			fmt.Println("Checked in today, check-out open")
		} else {
			fmt.Println("No open check-in for today")
		}
	},
}

func init() {
	RootCmd.AddCommand(historyCmd)
	RootCmd.AddCommand(todayCmd)
	RootCmd.AddCommand(statusCmd)
}
