package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/hronline/attendance-store/pkg/schema"
	"github.com/hronline/attendance-store/pkg/sdk"
)

var (
	profileName       string
	profileDepartment string
	profilePosition   string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show the employee profile",
	Run: func(cmd *cobra.Command, args []string) {
		p, err := openPrefs()
		if err != nil {
			exitErr("open store", err)
		}
		profile, err := sdk.GetJSON[schema.EmployeeProfile](p, getEmployee(), schema.ProfileNamespace, schema.ProfileKey)
		if err != nil {
			exitErr("load profile", err)
		}
		printJSON(profile)
	},
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Create or update the employee profile",
	Run: func(cmd *cobra.Command, args []string) {
		p, err := openPrefs()
		if err != nil {
			exitErr("open store", err)
		}

		id := getEmployee()
		profile, err := sdk.GetJSON[schema.EmployeeProfile](p, id, schema.ProfileNamespace, schema.ProfileKey)
		if err != nil {
			profile = schema.EmployeeProfile{ID: id, JoinedAt: time.Now()}
		}
		if profileName != "" {
			profile.Name = profileName
		}
		if profileDepartment != "" {
			profile.Department = profileDepartment
		}
		if profilePosition != "" {
			profile.Position = profilePosition
		}

		if err := sdk.PutJSON(p, id, schema.ProfileNamespace, schema.ProfileKey, profile); err != nil {
			exitErr("save profile", err)
		}
		flush()
		printJSON(profile)
	},
}

func init() {
	profileSetCmd.Flags().StringVar(&profileName, "name", "", "Display name")
	profileSetCmd.Flags().StringVar(&profileDepartment, "department", "", "Department")
	profileSetCmd.Flags().StringVar(&profilePosition, "position", "", "Position")
	profileCmd.AddCommand(profileSetCmd)
	RootCmd.AddCommand(profileCmd)
}
