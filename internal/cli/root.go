// Package cli implements the jobdesk command-line interface over the
// record store. Every command writes JSON to stdout; diagnostics and logs
// go to stderr.
package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/jobdesk/internal/logging"
	"github.com/mesh-intelligence/jobdesk/internal/store"
	"github.com/mesh-intelligence/jobdesk/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
}

// app is the state shared by the commands of one invocation. Config and
// store are loaded on first use so that commands like version touch
// nothing on disk.
type app struct {
	flags     rootFlags
	configDir string
	v         *viper.Viper
	cfg       types.Config
	log       logging.Logger
	store     *store.Store
	storeOpts []store.Option
	stdin     *bufio.Reader
}

// NewRootCmd creates the top-level "jobdesk" command with global flags
// and all subcommands registered.
func NewRootCmd(opts ...store.Option) *cobra.Command {
	a := &app{storeOpts: opts}
	root := &cobra.Command{
		Use:   "jobdesk",
		Short: "A flat-file record store for job seekers",
		Long: "jobdesk manages users, profiles, CVs, job preferences and applications\n" +
			"stored as JSON array files in a data directory.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: $(CWD)/.jobdesk)")
	root.PersistentFlags().StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: $(CWD)/data)")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newGetCmd(a))
	root.AddCommand(newListCmd(a))
	root.AddCommand(newCheckCmd(a))
	root.AddCommand(newUserCmd(a))
	root.AddCommand(newProfileCmd(a))
	root.AddCommand(newCVCmd(a))
	root.AddCommand(newPrefsCmd(a))
	root.AddCommand(newApplyCmd(a))
	root.AddCommand(newAppliedCmd(a))
	root.AddCommand(newJobsCmd(a))
	root.AddCommand(newExploreCmd(a))
	root.AddCommand(newStatsCmd(a))

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "jobdesk:", err)
		os.Exit(exitCode(err))
	}
	os.Exit(exitSuccess)
}

// exitError carries the process exit code for a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userError(err error) error { return &exitError{code: exitUserError, err: err} }
func sysError(err error) error  { return &exitError{code: exitSysError, err: err} }

// exitCode maps an error returned by a command to an exit code. Errors
// cobra raises itself, such as a missing argument, are user errors.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUserError
}

// classify tags a storage or account error: a failed write is a system
// error, anything else is the caller's.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, types.ErrWriteFailed) {
		return sysError(err)
	}
	return userError(err)
}

// printJSON writes v to the command's stdout as indented JSON.
func printJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return sysError(fmt.Errorf("marshal JSON: %w", err))
	}
	fmt.Fprintln(w, string(out))
	return nil
}

// printResult writes a storage Result and turns a failed one into an error.
func printResult[T any](cmd *cobra.Command, res types.Result[T]) error {
	if err := printJSON(cmd.OutOrStdout(), res); err != nil {
		return err
	}
	return classify(res.Err())
}
