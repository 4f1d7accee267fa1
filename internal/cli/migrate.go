package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	enginestore "github.com/hronline/attendance-store/internal/prefs"
	"github.com/hronline/attendance-store/pkg/prefs"
	"github.com/hronline/attendance-store/pkg/sdk"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate <source> <destination>",
	Short: "Copy every owner, namespace, and key between stores",
	Long: "Copy all data between two stores. Each side is either a directory " +
		"(JSON file store), a path ending in .db (sqlite), or host:port (remote daemon).",
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		src, err := openTarget(args[0])
		if err != nil {
			exitErr("open source", err)
		}
		dst, err := openTarget(args[1])
		if err != nil {
			exitErr("open destination", err)
		}

		if err := enginestore.Migrate(src, dst); err != nil {
			exitErr("migrate", err)
		}
		if m, ok := dst.(*enginestore.MemStore); ok {
			m.Wait() // flush background file writes before exiting
		}
		fmt.Println("OK")
	},
}

func openTarget(target string) (prefs.Store, error) {
	switch {
	case hasPort(target):
		return sdk.Connect(target)
	case len(target) > 3 && target[len(target)-3:] == ".db":
		return enginestore.NewSQLiteStore(target)
	default:
		p, err := enginestore.NewPersistence(target)
		if err != nil {
			return nil, err
		}
		data, err := p.LoadAll()
		if err != nil {
			return nil, err
		}
		return enginestore.NewMemStore(data, p), nil
	}
}

func hasPort(target string) bool {
	for i := len(target) - 1; i >= 0; i-- {
		switch target[i] {
		case ':':
			return i < len(target)-1
		case '/', '\\', '.':
			return false
		}
	}
	return false
}

func init() {
	RootCmd.AddCommand(migrateCmd)
}
