// End-to-end tests of the jobdesk binary: exit codes, stdin prompts and the
// files left in the data directory.
package integration

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// TestMain builds the jobdesk binary once before running tests.
func TestMain(m *testing.M) {
	projectRoot, err := FindProjectRoot()
	if err != nil {
		SetBuildErr(err)
		os.Exit(1)
	}

	tmpDir, err := os.MkdirTemp("", "jobdesk-test-*")
	if err != nil {
		SetBuildErr(err)
		os.Exit(1)
	}
	binPath := filepath.Join(tmpDir, "jobdesk")
	SetJobdeskBin(binPath)

	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/jobdesk")
	cmd.Dir = projectRoot
	if output, err := cmd.CombinedOutput(); err != nil {
		SetBuildErr(&BuildError{
			Err:    err,
			Output: string(output),
		})
	}

	code := m.Run()

	os.RemoveAll(tmpDir)

	os.Exit(code)
}

type user struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	AuthProvider string `json:"authProvider"`
}

type cvResult struct {
	Success bool `json:"success"`
	Data    struct {
		ID       string `json:"id"`
		FileName string `json:"fileName"`
	} `json:"data"`
}

// Test1_Init verifies that init creates every table file.
func Test1_Init(t *testing.T) {
	env := NewTestEnv(t)

	result := env.MustRun("init")
	if result.Stdout == "" {
		t.Error("expected init output")
	}

	for _, table := range []string{
		"users.json", "profileData.json", "cvs.json", "cvData.json",
		"userJobPreferences.json", "appliedJobs.json", "exploreJobs.json", "jobs.json",
	} {
		data, err := os.ReadFile(filepath.Join(env.DataDir, table))
		if err != nil {
			t.Errorf("%s not created: %v", table, err)
			continue
		}
		if strings.TrimSpace(string(data)) != "[]" {
			t.Errorf("%s: expected empty array, got %q", table, data)
		}
	}
	if _, err := os.Stat(filepath.Join(env.DataDir, "uploads")); err != nil {
		t.Errorf("upload directory not created: %v", err)
	}
}

// Test2_RegisterAndLogin verifies the password prompt and the exit code
// of a failed login.
func Test2_RegisterAndLogin(t *testing.T) {
	env := NewTestEnv(t)

	result := env.Run("s3cret-pass\n", "user", "register", "--email", "ana@example.com", "--name", "Ana")
	if result.ExitCode != 0 {
		t.Fatalf("register failed (%d): %s", result.ExitCode, result.Stderr)
	}
	u := ParseJSON[user](t, result.Stdout)
	if u.ID == "" || u.Email != "ana@example.com" || u.AuthProvider != "email" {
		t.Errorf("unexpected user: %+v", u)
	}
	if strings.Contains(result.Stdout, "password") {
		t.Error("register output leaks the password hash")
	}

	stored := ReadJSONFile[[]map[string]any](t, filepath.Join(env.DataDir, "users.json"))
	if len(stored) != 1 {
		t.Fatalf("expected 1 stored user, got %d", len(stored))
	}
	if hash, _ := stored[0]["password"].(string); !strings.HasPrefix(hash, "$2") {
		t.Errorf("expected a bcrypt hash, got %q", hash)
	}

	env.MustRun("user", "login", "--email", "ana@example.com", "--password", "s3cret-pass")

	bad := env.Run("", "user", "login", "--email", "ana@example.com", "--password", "wrong-pass")
	if bad.ExitCode != 1 {
		t.Errorf("expected exit code 1 for bad credentials, got %d", bad.ExitCode)
	}
	if !strings.Contains(bad.Stderr, "invalid email or password") {
		t.Errorf("unexpected stderr: %s", bad.Stderr)
	}
}

// Test3_CVUploadLimit verifies the per-user upload limit.
func Test3_CVUploadLimit(t *testing.T) {
	env := NewTestEnv(t)
	src := filepath.Join(env.TempDir, "cv.txt")
	if err := os.WriteFile(src, []byte("Jane Doe\nGo developer\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		res := ParseJSON[cvResult](t, env.MustRun("cv", "add", "u1", src).Stdout)
		if !res.Success {
			t.Fatalf("upload %d failed", i+1)
		}
		if _, err := os.Stat(filepath.Join(env.DataDir, "uploads", res.Data.FileName)); err != nil {
			t.Errorf("uploaded file missing: %v", err)
		}
	}

	result := env.Run("", "cv", "add", "u1", src)
	if result.ExitCode != 1 {
		t.Errorf("expected exit code 1 at the limit, got %d", result.ExitCode)
	}
	if !strings.Contains(result.Stderr, "limit reached") {
		t.Errorf("unexpected stderr: %s", result.Stderr)
	}
}

// Test4_SystemErrorExitCode verifies exit code 2 when the data directory
// cannot be created.
func Test4_SystemErrorExitCode(t *testing.T) {
	env := NewTestEnv(t)
	if err := os.WriteFile(env.DataDir, []byte("not a directory"), 0o644); err != nil {
		t.Fatal(err)
	}

	result := env.Run("", "list", "users")
	if result.ExitCode != 2 {
		t.Errorf("expected exit code 2, got %d (stderr: %s)", result.ExitCode, result.Stderr)
	}
}

// Test5_CorruptTable verifies that a corrupt file reads as empty and is
// reported by check.
func Test5_CorruptTable(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRun("init")
	if err := os.WriteFile(filepath.Join(env.DataDir, "users.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	list := env.MustRun("list", "users")
	if strings.TrimSpace(list.Stdout) != "[]" {
		t.Errorf("expected empty list, got %s", list.Stdout)
	}

	check := env.Run("", "check")
	if check.ExitCode != 1 {
		t.Errorf("expected check to exit 1, got %d", check.ExitCode)
	}
	if !strings.Contains(check.Stderr, "users.json") {
		t.Errorf("expected users.json in stderr, got %s", check.Stderr)
	}
}

// Test6_ApplyAndStats verifies that applications reach the summary.
func Test6_ApplyAndStats(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRun("apply", "u1", "--title", "Nurse", "--company", "HSE", "--country", "Ireland")
	env.MustRun("apply", "u2", "--title", "Dev", "--company", "Acme", "--country", "ireland")
	env.MustRun("prefs", "set", "u1", "--roles", "Nurse")

	type count struct {
		Key   string `json:"key"`
		Count int    `json:"count"`
	}
	summary := ParseJSON[struct {
		Applications          int     `json:"applications"`
		ApplicationsByCountry []count `json:"applicationsByCountry"`
		TopRoles              []count `json:"topRoles"`
	}](t, env.MustRun("stats").Stdout)

	if summary.Applications != 2 {
		t.Errorf("expected 2 applications, got %d", summary.Applications)
	}
	if len(summary.ApplicationsByCountry) != 1 || summary.ApplicationsByCountry[0].Count != 2 {
		t.Errorf("expected countries grouped ignoring case, got %+v", summary.ApplicationsByCountry)
	}
	if len(summary.TopRoles) != 1 || summary.TopRoles[0].Key != "Nurse" {
		t.Errorf("unexpected top roles: %+v", summary.TopRoles)
	}
}
