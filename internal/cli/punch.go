package cli

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/hronline/attendance-store/internal/attendance"
)

var (
	punchLocation string
	forceCheckOut bool
)

var checkinCmd = &cobra.Command{
	Use:   "checkin",
	Short: "Record a check-in punch for today",
	Run: func(cmd *cobra.Command, args []string) {
		st, err := openStore()
		if err != nil {
			exitErr("open store", err)
		}

		now := time.Now()
		record := mintRecord(st, attendance.TypeCheckIn, now)
		if err := st.Append(record); err != nil {
			exitErr("append record", err)
		}
		flush()

		fmt.Printf("Checked in at %s (%s)\n", record.Time, record.Date)
		if st.Policy.IsLate(attendance.ClockOf(now)) {
			fmt.Printf("Note: after work start %s, counted as late\n", st.Policy.WorkStart)
		}
	},
}

var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Record a check-out punch for today",
	Run: func(cmd *cobra.Command, args []string) {
		st, err := openStore()
		if err != nil {
			exitErr("open store", err)
		}
		if !st.CanCheckOut() {
			exitErr("checkout", fmt.Errorf("no open check-in for today"))
		}

		now := time.Now()
		clock := attendance.ClockOf(now)
		if !st.Policy.AllowCheckOut(clock) && !forceCheckOut {
			exitErr("checkout", fmt.Errorf("work ends at %s, use --force to leave early", st.Policy.WorkEnd))
		}

		record := mintRecord(st, attendance.TypeCheckOut, now)
		if err := st.Append(record); err != nil {
			exitErr("append record", err)
		}
		flush()

		fmt.Printf("Checked out at %s (%s)\n", record.Time, record.Date)
		if st.Policy.IsEarlyLeave(clock) {
			fmt.Printf("Note: before work end %s, counted as early leave\n", st.Policy.WorkEnd)
		}
	},
}

func mintRecord(st *attendance.Store, typ attendance.Type, now time.Time) attendance.Record {
	location := punchLocation
	if location == "" {
		location = "CLI"
	}
	return attendance.Record{
		ID:           uuid.NewString(),
		Type:         typ,
		Date:         st.Cal.FormatDate(now),
		Time:         st.Cal.FormatTime(now),
		Location:     location,
		Timestamp:    now.UnixMilli(),
		FaceVerified: true,
	}
}

func init() {
	checkinCmd.Flags().StringVarP(&punchLocation, "location", "l", "", "Human-readable location for the punch")
	checkoutCmd.Flags().StringVarP(&punchLocation, "location", "l", "", "Human-readable location for the punch")
	checkoutCmd.Flags().BoolVar(&forceCheckOut, "force", false, "Check out before the work end")
	RootCmd.AddCommand(checkinCmd)
	RootCmd.AddCommand(checkoutCmd)
}
