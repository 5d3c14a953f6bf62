package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/jobdesk/internal/store"
	"github.com/mesh-intelligence/jobdesk/pkg/types"
)

func newProfileCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show and update dashboard profiles",
	}
	cmd.AddCommand(newProfileShowCmd(a))
	cmd.AddCommand(newProfileSetCmd(a))
	cmd.AddCommand(newProfileActivityCmd(a))
	cmd.AddCommand(newProfileRecentCmd(a))
	return cmd
}

func newProfileShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <userId>",
		Short: "Show the compiled profile, with defaults for a missing one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), s.Profiles().View(args[0]))
		},
	}
}

func newProfileSetCmd(a *app) *cobra.Command {
	var in jsonInput
	cmd := &cobra.Command{
		Use:   "set <userId>",
		Short: "Merge a profile patch",
		Long: `Set merges a JSON object with any of preferences, skills, analytics,
weeklyActivity and recentJobs into the user's profile. Preferences and
analytics merge key by key; the lists replace what is stored. Malformed
fields are ignored.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch store.ProfilePatch
			if err := in.decode(cmd, &patch); err != nil {
				return err
			}
			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			return printResult(cmd, s.Profiles().Upsert(args[0], patch))
		},
	}
	in.register(cmd, "profile patch")
	return cmd
}

func newProfileActivityCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "activity <userId> <cv|job>",
		Short: "Count one CV created or job applied today",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := store.ParseActivity(args[1])
			if err != nil {
				return userError(err)
			}
			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			return printResult(cmd, s.Profiles().RecordActivity(args[0], kind, s.Now()))
		},
	}
}

func newProfileRecentCmd(a *app) *cobra.Command {
	var job types.RecentJob
	cmd := &cobra.Command{
		Use:   "recent <userId>",
		Short: "Put a job at the front of the recent jobs list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			return printResult(cmd, s.Profiles().AddRecentJob(args[0], job))
		},
	}
	cmd.Flags().StringVar(&job.ID, "id", "", "job id (generated when omitted)")
	cmd.Flags().StringVar(&job.Title, "title", "", "job title (required)")
	cmd.Flags().StringVar(&job.Company, "company", "", "company")
	cmd.MarkFlagRequired("title")
	return cmd
}
