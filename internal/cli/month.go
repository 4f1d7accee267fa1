package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/hronline/attendance-store/internal/attendance"
)

var monthCmd = &cobra.Command{
	Use:   "month [month] [year]",
	Short: "Show one month's attendance days and summary",
	Args:  cobra.MaximumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		now := time.Now()
		month, year := int(now.Month()), now.Year()
		if len(args) >= 1 {
			m, err := strconv.Atoi(args[0])
			if err != nil || m < 1 || m > 12 {
				exitErr("parse month", fmt.Errorf("want 1..12, got %q", args[0]))
			}
			month = m
		}
		if len(args) == 2 {
			y, err := strconv.Atoi(args[1])
			if err != nil {
				exitErr("parse year", err)
			}
			year = y
		}

		st, err := openStore()
		if err != nil {
			exitErr("open store", err)
		}

		records := st.ByMonth(month, year)
		grouped := attendance.GroupByDate(records)

		for _, date := range attendance.SortedDates(st.Cal, grouped) {
			pair := grouped[date]
			in, out := "-", "-"
			if pair.CheckIn != nil {
				in = pair.CheckIn.Time
			}
			if pair.CheckOut != nil {
				out = pair.CheckOut.Time
			}
			tag := ""
			if st.Cal.IsWeekend(date) {
				tag = "  (weekend)"
			}
			fmt.Printf("%-20s in %-10s out %-10s%s\n", date, in, out, tag)
		}

		summary := st.Policy.Summarize(grouped)
		fmt.Printf("\nLate: %d  Early leave: %d  Missing check-out: %d  No attendance: %d\n",
			summary.Late, summary.EarlyLeave, summary.MissingCheckOut, summary.NoAttendance)
	},
}

func init() {
	RootCmd.AddCommand(monthCmd)
}
