// Command inestool reads and corrects the iNES headers of NES ROM images,
// using a Nestopia-style cartridge database as the reference.
package main

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/ZaparooProject/go-inestool"
	"github.com/ZaparooProject/go-inestool/container"
	"github.com/ZaparooProject/go-inestool/nesdb"
)

const appVersion = "0.1.0"

var (
	logLevel string
	dbPath   string
	dryRun   bool
	rootCmd  *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:           "inestool",
		Short:         "Inspect and correct iNES headers",
		Version:       appVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level",
		"warn", "log level (trace, debug, info, warn, error)")

	readCmd := &cobra.Command{
		Use:   "read rom...",
		Short: "read iNES headers",
		Long:  "Read the iNES headers of ROM files, or archives containing ROMs.",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runRead,
	}
	rootCmd.AddCommand(readCmd)

	writeCmd := &cobra.Command{
		Use:   "write rom...",
		Short: "add/correct iNES headers from database",
		Long:  "Add or correct the iNES headers of ROM files, or archives containing ROMs.",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runWrite,
	}
	writeCmd.Flags().StringVarP(&dbPath, "db", "d", "NstDatabase.xml",
		"path to NES database (download https://github.com/0ldsk00l/nestopia/raw/master/NstDatabase.xml)")
	writeCmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false,
		"don't actually change ROMs, just report changes")
	rootCmd.AddCommand(writeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger() hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:   "inestool",
		Level:  hclog.LevelFromString(logLevel),
		Output: os.Stderr,
	})
}

func runRead(_ *cobra.Command, args []string) error {
	log := newLogger()
	return inestool.Visit(args, log, func(item container.Item) (*container.Update, error) {
		fmt.Println(inestool.FormatItem(item))
		return nil, nil
	})
}

func runWrite(_ *cobra.Command, args []string) error {
	log := newLogger()

	db, err := nesdb.Load(dbPath, log)
	if err != nil {
		return err
	}
	log.Info("loaded database", "path", dbPath, "entries", db.Len())

	reconciler := inestool.NewReconciler(db, dryRun)
	return inestool.Visit(args, log, func(item container.Item) (*container.Update, error) {
		outcome, update := reconciler.Reconcile(item)
		fmt.Println(inestool.FormatOutcome(outcome))
		return update, nil
	})
}
