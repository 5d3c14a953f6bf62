package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mesh-intelligence/jobdesk/internal/clock"
	"github.com/mesh-intelligence/jobdesk/internal/jsonfile"
	"github.com/mesh-intelligence/jobdesk/pkg/types"
)

// CVs is the cvs.json sub-store of CV metadata.
type CVs struct {
	s *Store
	t *jsonfile.Table[types.CV]
}

// NewCV holds the metadata of a CV being registered. The file itself is
// already in place at FilePath.
type NewCV struct {
	UserID           string
	FileName         string
	OriginalFileName string
	FileType         string
	FileSize         int64
	FilePath         string
	CVName           string
	IsCreated        bool
}

// All returns every CV record.
func (c *CVs) All() []types.CV {
	return c.t.LoadAll()
}

// ListByUser returns the user's CVs in file order.
func (c *CVs) ListByUser(userID string) []types.CV {
	userID, ok := normKey(userID)
	if !ok {
		return []types.CV{}
	}
	return c.t.Filter(func(r types.CV) bool { return r.UserID == userID })
}

// Find returns the CV with id owned by userID, or nil.
func (c *CVs) Find(id, userID string) *types.CV {
	id, okID := normKey(id)
	userID, okUser := normKey(userID)
	if !okID || !okUser {
		return nil
	}
	return found[types.CV](c.t.Find(cvOf(id, userID)))
}

// Count returns how many uploaded (isCreated false) or created (isCreated
// true) CVs the user has. Callers compare it against MaxUploadedCVs and
// MaxCreatedCVs.
func (c *CVs) Count(userID string, isCreated bool) int {
	n := 0
	for _, cv := range c.ListByUser(userID) {
		if cv.IsCreated == isCreated {
			n++
		}
	}
	return n
}

// Add registers a CV with a fresh "cv_<token>" id. CVName defaults to the
// original file name without its extension.
func (c *CVs) Add(in NewCV) types.Result[types.CV] {
	userID, ok := normKey(in.UserID)
	if !ok {
		return types.Fail[types.CV](fmt.Errorf("%w: userId is required", types.ErrInvalidKey))
	}
	now := c.s.Now()
	name := strings.TrimSpace(in.CVName)
	if name == "" {
		base := filepath.Base(in.OriginalFileName)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	cv := types.CV{
		ID:               clock.Prefixed("cv", c.s.ids),
		UserID:           userID,
		FileName:         in.FileName,
		OriginalFileName: in.OriginalFileName,
		FileType:         in.FileType,
		FileSize:         in.FileSize,
		FilePath:         in.FilePath,
		CVName:           name,
		IsCreated:        in.IsCreated,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if !c.t.Append(cv) {
		return types.Fail[types.CV](writeFailed(c.t))
	}
	return types.OK(cv)
}

// Rename sets the display name of a CV.
func (c *CVs) Rename(id, userID, name string) types.Result[types.CV] {
	id, okID := normKey(id)
	userID, okUser := normKey(userID)
	name = strings.TrimSpace(name)
	if !okID || !okUser || name == "" {
		return types.Fail[types.CV](types.ErrInvalidKey)
	}
	return modify(c.t, cvOf(id, userID), func(r *types.CV) {
		r.CVName = name
		r.UpdatedAt = c.s.Now()
	})
}

// Delete removes the CV record and then its file. A file that cannot be
// removed, including one already gone, is logged and does not fail the
// delete.
func (c *CVs) Delete(id, userID string) types.Result[types.CV] {
	id, okID := normKey(id)
	userID, okUser := normKey(userID)
	if !okID || !okUser {
		return types.Fail[types.CV](types.ErrInvalidKey)
	}

	removed, ok := c.t.Remove(cvOf(id, userID))
	if !ok {
		return types.Fail[types.CV](writeFailed(c.t))
	}
	if len(removed) == 0 {
		return types.Fail[types.CV](types.ErrNotFound)
	}
	cv := removed[0]

	if path := c.filePath(cv); path != "" {
		if err := os.Remove(path); err != nil {
			level := c.s.log.Error
			if errors.Is(err, fs.ErrNotExist) {
				level = c.s.log.Warn
			}
			level("removing cv file", "cv", cv.ID, "path", path, "err", err)
		}
	}
	return types.OK(cv)
}

// filePath resolves a stored path; relative paths live in the upload
// directory. A path that resolves outside the upload directory is logged
// and yields "", so it is never removed.
func (c *CVs) filePath(cv types.CV) string {
	path := strings.TrimSpace(cv.FilePath)
	if path == "" {
		return ""
	}
	dir := filepath.Clean(c.s.cfg.UploadDir)
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	path = filepath.Clean(path)
	rel, err := filepath.Rel(dir, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		c.s.log.Warn("cv file outside upload directory", "cv", cv.ID, "path", path, "upload_dir", dir)
		return ""
	}
	return path
}

func cvOf(id, userID string) func(types.CV) bool {
	return func(r types.CV) bool { return r.ID == id && r.UserID == userID }
}
