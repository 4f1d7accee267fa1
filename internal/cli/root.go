// Package cli implements the attendance CLI commands.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hronline/attendance-store/internal/attendance"
	enginestore "github.com/hronline/attendance-store/internal/prefs"
	"github.com/hronline/attendance-store/pkg/prefs"
	"github.com/hronline/attendance-store/pkg/sdk"
)

var (
	dataDir  string
	employee string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "attendance",
	Short: "Clock in, clock out, and read attendance history",
	Long: "CLI for the attendance record store. Talks to a remote daemon when " +
		"ATTENDANCE_STORE_ADDR is set, otherwise runs against the embedded store.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dataDir, "data-dir", "d", "", "Data directory for embedded mode (default: $ATTENDANCE_DATA_DIR or ~/.attendance)")
	RootCmd.PersistentFlags().StringVarP(&employee, "employee", "e", "", "Employee ID (default: $ATTENDANCE_EMPLOYEE or $USER)")
}

func getDataDir() string {
	if dataDir != "" {
		return dataDir
	}
	if env := os.Getenv("ATTENDANCE_DATA_DIR"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".attendance")
}

func getEmployee() string {
	if employee != "" {
		return employee
	}
	if env := os.Getenv("ATTENDANCE_EMPLOYEE"); env != "" {
		return env
	}
	if user := os.Getenv("USER"); user != "" {
		return user
	}
	return "default"
}

var activePrefs prefs.Store

func openPrefs() (prefs.Store, error) {
	if activePrefs != nil {
		return activePrefs, nil
	}
	p, err := sdk.New(getDataDir())
	if err != nil {
		return nil, err
	}
	activePrefs = p
	return p, nil
}

// flush waits out background file writes before the process exits.
func flush() {
	if m, ok := activePrefs.(*enginestore.MemStore); ok {
		m.Wait()
	}
}

func openStore() (*attendance.Store, error) {
	p, err := openPrefs()
	if err != nil {
		return nil, err
	}
	return attendance.NewStore(p.Scope(getEmployee(), attendance.PrefsNamespace)), nil
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}

func printJSON(v any) {
	bytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Println(v)
		return
	}
	fmt.Println(string(bytes))
}
