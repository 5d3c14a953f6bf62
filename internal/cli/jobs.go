package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/jobdesk/internal/report"
	"github.com/mesh-intelligence/jobdesk/internal/store"
	"github.com/mesh-intelligence/jobdesk/pkg/types"
)

func newPrefsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show and set job preferences",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show <userId>",
		Short: "Show a user's preferred roles and countries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			pref := s.Preferences().FindByUserID(args[0])
			if pref == nil {
				pref = &types.JobPreference{UserID: args[0], Roles: []string{}, Countries: []string{}}
			}
			return printJSON(cmd.OutOrStdout(), pref)
		},
	})

	set := &cobra.Command{
		Use:   "set <userId>",
		Short: "Replace preferred roles and/or countries",
		Long: `Set replaces each list that is given. An empty value clears the list;
an omitted flag leaves it as stored.

  jobdesk prefs set u1 --roles "Developer,Designer" --countries ""`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			return printResult(cmd, s.Preferences().Set(args[0], listFlag(cmd, "roles"), listFlag(cmd, "countries")))
		},
	}
	set.Flags().String("roles", "", "comma-separated preferred roles")
	set.Flags().String("countries", "", "comma-separated preferred countries")
	cmd.AddCommand(set)
	return cmd
}

func newApplyCmd(a *app) *cobra.Command {
	var in jsonInput
	var entry struct {
		jobID, title, company, country string
	}
	cmd := &cobra.Command{
		Use:   "apply <userId>",
		Short: "Record a job application",
		Long: `Apply records an application from flags or from a JSON entry with
jobId, jobTitle, company and country. Applying again to the same job moves
it to the front. The user's weekly activity counts the application.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var doc any
			if in.data != "" || in.file != "" {
				if err := in.decode(cmd, &doc); err != nil {
					return err
				}
			} else {
				doc = map[string]any{
					"jobId":    entry.jobID,
					"jobTitle": entry.title,
					"company":  entry.company,
					"country":  entry.country,
				}
			}

			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			res := s.Applied().Apply(args[0], doc)
			if res.Success {
				if act := s.Profiles().RecordActivity(args[0], store.ActivityJob, s.Now()); !act.Success {
					a.log.Warn("recording job activity", "user", args[0], "err", act.Error)
				}
			}
			return printResult(cmd, res)
		},
	}
	in.register(cmd, "application entry")
	cmd.Flags().StringVar(&entry.jobID, "job-id", "", "job id")
	cmd.Flags().StringVar(&entry.title, "title", "", "job title")
	cmd.Flags().StringVar(&entry.company, "company", "", "company")
	cmd.Flags().StringVar(&entry.country, "country", "", "country")
	return cmd
}

func newAppliedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "applied <userId>",
		Short: "List a user's applications, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), s.Applied().ListByUser(args[0]))
		},
	}
}

func newJobsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "List, import and recommend job listings",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every job listing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), s.Jobs().All())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "recommend <userId>",
		Short: "List jobs matching the user's preferred roles or countries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), s.Jobs().Recommend(args[0]))
		},
	})

	var in jsonInput
	imp := &cobra.Command{
		Use:   "import",
		Short: "Replace the job listings with a JSON array",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var jobs []types.Job
			if err := in.decode(cmd, &jobs); err != nil {
				return err
			}
			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			return printResult(cmd, s.Jobs().Replace(jobs))
		},
	}
	in.register(imp, "job listings")
	cmd.AddCommand(imp)
	return cmd
}

func newExploreCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Search the reference job listings",
	}

	var q store.ExploreQuery
	search := &cobra.Command{
		Use:   "search",
		Short: "Filter listings by title substring and country",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), s.Explore().Filter(q))
		},
	}
	search.Flags().StringVar(&q.Title, "title", "", "case-insensitive substring of the job name")
	search.Flags().StringVar(&q.Country, "country", "", "country, ignoring case")
	cmd.AddCommand(search)

	cmd.AddCommand(&cobra.Command{
		Use:   "countries",
		Short: "List the distinct countries of the listings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), s.Explore().Countries())
		},
	})

	var in jsonInput
	imp := &cobra.Command{
		Use:   "import",
		Short: "Replace the reference listings with a JSON array",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var listings []types.ExploreJob
			if err := in.decode(cmd, &listings); err != nil {
				return err
			}
			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			return printResult(cmd, s.Explore().Replace(listings))
		},
	}
	in.register(imp, "explore listings")
	cmd.AddCommand(imp)
	return cmd
}

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize users, CVs, applications and preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			sum, err := report.Build(cmd.Context(), s)
			if err != nil {
				return sysError(err)
			}
			return printJSON(cmd.OutOrStdout(), sum)
		},
	}
}
