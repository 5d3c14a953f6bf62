package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/jobdesk/internal/schema"
	"github.com/mesh-intelligence/jobdesk/pkg/types"
)

const tableAliasHelp = "users, profiles, cvs, cvdata, preferences, applied, explore, jobs"

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <table> <key>",
		Short: "Get a record by its primary key",
		Long: `Get prints the raw record of a table whose primary key equals key.
users, cvs and jobs are keyed by id; the per-user tables by userId.
exploreJobs.json has no key.

Tables: ` + tableAliasHelp,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			rec, err := s.Get(args[0], args[1])
			switch {
			case errors.Is(err, types.ErrUnknownTable):
				return userError(fmt.Errorf("unknown table %q (valid: %s)", args[0], tableAliasHelp))
			case errors.Is(err, types.ErrNotFound):
				return userError(fmt.Errorf("record %q not found in %s", args[1], args[0]))
			case err != nil:
				return userError(err)
			}
			return printJSON(cmd.OutOrStdout(), redact(args[0], rec))
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list <table>",
		Short: "List every record of a table",
		Long:  "Tables: " + tableAliasHelp,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			recs, err := s.Records(args[0])
			if err != nil {
				return userError(fmt.Errorf("unknown table %q (valid: %s)", args[0], tableAliasHelp))
			}
			out := make([]any, 0, len(recs))
			for _, rec := range recs {
				out = append(out, redact(args[0], rec))
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
}

// redact drops the password hash from user records.
func redact(table string, rec json.RawMessage) any {
	if file, _ := types.ResolveTable(table); file != types.UsersTable {
		return rec
	}
	var fields map[string]any
	if err := json.Unmarshal(rec, &fields); err != nil {
		return rec
	}
	delete(fields, "password")
	return fields
}

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate every table file against its JSON Schema",
		Long: "Check reports, per table file, the records the store would skip when\n" +
			"reading. It exits 1 when any file fails validation.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.configure(cmd); err != nil {
				return err
			}
			reports, err := schema.CheckDir(a.cfg.DataDir)
			if err != nil {
				return sysError(err)
			}
			if err := printJSON(cmd.OutOrStdout(), reports); err != nil {
				return err
			}
			var bad []string
			for _, r := range reports {
				if !r.Valid {
					bad = append(bad, r.Table)
				}
			}
			if len(bad) > 0 {
				return userError(fmt.Errorf("validation failed: %s", strings.Join(bad, ", ")))
			}
			return nil
		},
	}
}
