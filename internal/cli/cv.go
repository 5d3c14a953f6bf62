package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/jobdesk/internal/store"
	"github.com/mesh-intelligence/jobdesk/pkg/types"
)

func newCVCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cv",
		Short: "Manage uploaded and created CVs",
	}
	cmd.AddCommand(newCVListCmd(a))
	cmd.AddCommand(newCVAddCmd(a))
	cmd.AddCommand(newCVCreateCmd(a))
	cmd.AddCommand(newCVRenameCmd(a))
	cmd.AddCommand(newCVDeleteCmd(a))
	cmd.AddCommand(newCVContentCmd(a))
	return cmd
}

func newCVListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list <userId>",
		Short: "List a user's CVs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), s.CVs().ListByUser(args[0]))
		},
	}
}

// checkLimit fails with ErrLimitReached when the user already has the
// maximum number of CVs of that origin.
func checkLimit(s *store.Store, userID string, isCreated bool) error {
	limit := types.MaxUploadedCVs
	if isCreated {
		limit = types.MaxCreatedCVs
	}
	if n := s.CVs().Count(userID, isCreated); n >= limit {
		return userError(fmt.Errorf("%w: user has %d of %d CVs", types.ErrLimitReached, n, limit))
	}
	return nil
}

// recordCV counts the CV in the user's weekly activity. A failure is
// logged; the CV itself is already stored.
func (a *app) recordCV(s *store.Store, userID string) {
	if res := s.Profiles().RecordActivity(userID, store.ActivityCV, s.Now()); !res.Success {
		a.log.Warn("recording cv activity", "user", userID, "err", res.Error)
	}
}

func newCVAddCmd(a *app) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "add <userId> <file>",
		Short: "Upload a CV file",
		Long: fmt.Sprintf("Add copies file into the upload directory and registers it. A user\n"+
			"may hold at most %d uploaded CVs.", types.MaxUploadedCVs),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, src := args[0], args[1]
			info, err := os.Stat(src)
			if err != nil {
				return userError(err)
			}
			if info.IsDir() {
				return userError(fmt.Errorf("%s is a directory", src))
			}

			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			if err := checkLimit(s, userID, false); err != nil {
				return err
			}

			mtype, err := mimetype.DetectFile(src)
			if err != nil {
				return userError(fmt.Errorf("detect file type: %w", err))
			}
			original := filepath.Base(src)
			dest, err := storeUpload(src, s.Config().UploadDir, s.Now().UnixMilli(), original)
			if err != nil {
				return sysError(fmt.Errorf("store cv file: %w", err))
			}
			fileName := filepath.Base(dest)

			res := s.CVs().Add(store.NewCV{
				UserID:           userID,
				FileName:         fileName,
				OriginalFileName: original,
				FileType:         mtype.String(),
				FileSize:         info.Size(),
				FilePath:         fileName,
				CVName:           name,
			})
			if !res.Success {
				if rmErr := os.Remove(dest); rmErr != nil {
					a.log.Warn("removing cv file", "path", dest, "err", rmErr)
				}
				return printResult(cmd, res)
			}
			a.recordCV(s, userID)
			return printResult(cmd, res)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name (default: file name without extension)")
	return cmd
}

// storeUpload copies src into dir under a fresh name that starts with the
// upload time and ends with the original file name.
func storeUpload(src, dir string, millis int64, original string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer in.Close()

	pattern := fmt.Sprintf("%d-*-%s", millis, strings.ReplaceAll(original, "*", "_"))
	out, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(out.Name())
		return "", err
	}
	if err := out.Close(); err != nil {
		os.Remove(out.Name())
		return "", err
	}
	return out.Name(), nil
}

func newCVCreateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "create <userId> <name>",
		Short: "Register a CV built in the app",
		Long: fmt.Sprintf("Create registers a CV with no uploaded file. A user may hold at most\n"+
			"%d created CVs. Its content lives in cv content.", types.MaxCreatedCVs),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			if err := checkLimit(s, args[0], true); err != nil {
				return err
			}
			res := s.CVs().Add(store.NewCV{UserID: args[0], CVName: args[1], IsCreated: true})
			if res.Success {
				a.recordCV(s, args[0])
			}
			return printResult(cmd, res)
		},
	}
}

func newCVRenameCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <userId> <cvId> <name>",
		Short: "Rename a CV",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			return printResult(cmd, s.CVs().Rename(args[1], args[0], args[2]))
		},
	}
}

func newCVDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <userId> <cvId>",
		Short: "Delete a CV and its file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			return printResult(cmd, s.CVs().Delete(args[1], args[0]))
		},
	}
}

// contentDoc is the document accepted by cv content set.
type contentDoc struct {
	PersonalDetails any `json:"personalDetails"`
	CVContent       any `json:"cvContent"`
}

func newCVContentCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "content",
		Short: "Read and write the structured CV of a user",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get <userId>",
		Short: "Show the structured CV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			content := s.CVContent().FindByUserID(args[0])
			if content == nil {
				return userError(fmt.Errorf("cv content for %q: %w", args[0], types.ErrNotFound))
			}
			return printJSON(cmd.OutOrStdout(), content)
		},
	})

	var in jsonInput
	set := &cobra.Command{
		Use:   "set <userId>",
		Short: "Merge personal details and CV sections",
		Long: `Set takes {"personalDetails": {...}, "cvContent": {...}}. personalDetails
replaces what is stored; each cvContent section that is present replaces
the stored section.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var doc contentDoc
			if err := in.decode(cmd, &doc); err != nil {
				return err
			}
			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			return printResult(cmd, s.CVContent().Upsert(args[0], doc.PersonalDetails, doc.CVContent))
		},
	}
	in.register(set, "CV content")
	cmd.AddCommand(set)
	return cmd
}
