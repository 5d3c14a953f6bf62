package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/jobdesk/pkg/types"
)

func writeUpload(t *testing.T, env *testEnv, name string) string {
	t.Helper()
	path := filepath.Join(env.store.Config().UploadDir, name)
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o644))
	return path
}

func TestCVAddAndList(t *testing.T) {
	env := newTestEnv(t)
	cvs := env.store.CVs()

	res := cvs.Add(NewCV{
		UserID:           "u1",
		FileName:         "1772620200000-resume.pdf",
		OriginalFileName: "My Resume.pdf",
		FileType:         "application/pdf",
		FileSize:         8,
		FilePath:         "1772620200000-resume.pdf",
	})
	require.True(t, res.Success, res.Error)
	assert.Equal(t, "cv_1", res.Data.ID)
	assert.Equal(t, "My Resume", res.Data.CVName)
	assert.False(t, res.Data.IsCreated)
	assert.Equal(t, env.clock.Now(), res.Data.CreatedAt)

	require.True(t, cvs.Add(NewCV{UserID: "u1", CVName: "Built", IsCreated: true}).Success)
	require.True(t, cvs.Add(NewCV{UserID: "u2", CVName: "Other"}).Success)

	list := cvs.ListByUser("u1")
	require.Len(t, list, 2)
	assert.Equal(t, "cv_1", list[0].ID)
	assert.Equal(t, 1, cvs.Count("u1", false))
	assert.Equal(t, 1, cvs.Count("u1", true))
	assert.Equal(t, 0, cvs.Count("nobody", false))
	assert.Empty(t, cvs.ListByUser(""))

	assert.NotNil(t, cvs.Find("cv_1", "u1"))
	assert.Nil(t, cvs.Find("cv_1", "u2"), "CVs are scoped to their owner")

	assert.ErrorIs(t, cvs.Add(NewCV{}).Err(), types.ErrInvalidKey)
}

func TestCVRename(t *testing.T) {
	env := newTestEnv(t)
	cvs := env.store.CVs()
	cv := cvs.Add(NewCV{UserID: "u1", CVName: "Draft"}).Data

	env.clock.Advance(time.Hour)
	res := cvs.Rename(cv.ID, "u1", "  Final  ")
	require.True(t, res.Success)
	assert.Equal(t, "Final", res.Data.CVName)
	assert.Equal(t, cv.CreatedAt, res.Data.CreatedAt)
	assert.Equal(t, env.clock.Now(), res.Data.UpdatedAt)

	assert.ErrorIs(t, cvs.Rename(cv.ID, "u1", " ").Err(), types.ErrInvalidKey)
	assert.ErrorIs(t, cvs.Rename(cv.ID, "u2", "Stolen").Err(), types.ErrNotFound)
}

func TestCVDeleteRemovesRecordAndFile(t *testing.T) {
	env := newTestEnv(t)
	cvs := env.store.CVs()
	path := writeUpload(t, env, "resume.pdf")
	cv := cvs.Add(NewCV{UserID: "u1", OriginalFileName: "resume.pdf", FilePath: "resume.pdf"}).Data

	res := cvs.Delete(cv.ID, "u1")

	require.True(t, res.Success)
	assert.Equal(t, cv.ID, res.Data.ID)
	assert.Nil(t, cvs.Find(cv.ID, "u1"))
	assert.NoFileExists(t, path)
}

func TestCVDeleteWithAbsolutePath(t *testing.T) {
	env := newTestEnv(t)
	cvs := env.store.CVs()
	path := writeUpload(t, env, "abs.pdf")
	cv := cvs.Add(NewCV{UserID: "u1", FilePath: path}).Data

	require.True(t, cvs.Delete(cv.ID, "u1").Success)
	assert.NoFileExists(t, path)
}

func TestCVDeleteKeepsFilesOutsideUploadDir(t *testing.T) {
	outside := filepath.Join(t.TempDir(), "keep.txt")
	for _, stored := range []string{outside, "../keep.txt", ".."} {
		t.Run(stored, func(t *testing.T) {
			env := newTestEnv(t)
			require.NoError(t, os.WriteFile(outside, []byte("keep"), 0o644))
			sibling := filepath.Join(filepath.Dir(env.store.Config().UploadDir), "keep.txt")
			require.NoError(t, os.WriteFile(sibling, []byte("keep"), 0o644))
			cvs := env.store.CVs()
			cv := cvs.Add(NewCV{UserID: "u1", FilePath: stored}).Data

			res := cvs.Delete(cv.ID, "u1")

			require.True(t, res.Success)
			assert.Empty(t, cvs.ListByUser("u1"))
			assert.FileExists(t, outside)
			assert.FileExists(t, sibling)
			assert.DirExists(t, env.dir)
			_, logged := env.log.find("warn", "cv file outside upload directory")
			assert.True(t, logged)
		})
	}
}

func TestCVDeleteMissingFileIsLogged(t *testing.T) {
	env := newTestEnv(t)
	cvs := env.store.CVs()
	cv := cvs.Add(NewCV{UserID: "u1", FilePath: "gone.pdf"}).Data

	res := cvs.Delete(cv.ID, "u1")

	require.True(t, res.Success, "a missing file does not fail the delete")
	assert.Empty(t, cvs.ListByUser("u1"))
	line, logged := env.log.find("warn", "removing cv file")
	require.True(t, logged)
	assert.Contains(t, line.args, cv.ID)
}

func TestCVDeleteNotFound(t *testing.T) {
	env := newTestEnv(t)
	cvs := env.store.CVs()
	cv := cvs.Add(NewCV{UserID: "u1"}).Data

	assert.ErrorIs(t, cvs.Delete(cv.ID, "u2").Err(), types.ErrNotFound)
	assert.ErrorIs(t, cvs.Delete("cv_missing", "u1").Err(), types.ErrNotFound)
	assert.ErrorIs(t, cvs.Delete("", "u1").Err(), types.ErrInvalidKey)
	assert.Len(t, cvs.ListByUser("u1"), 1)
}
