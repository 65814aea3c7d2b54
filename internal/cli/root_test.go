package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func testBuildInfo() BuildInfo {
	return BuildInfo{Version: "1.2.3", Commit: "abc123", BuildTime: "2026-02-19T00:00:00Z"}
}

// newTestHome points every path the CLI touches (store, session file, config)
// at a throwaway directory so invocations in one test share state the same
// way separate process runs would.
func newTestHome(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("ASSETVAULT_HOME", tmp)
	t.Setenv("ASSETVAULT_CONFIG_PATH", filepath.Join(tmp, "config.toml"))
	return tmp
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand(&out, testBuildInfo())
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func exitCode(err error) int {
	if err == nil {
		return ExitCodeSuccess
	}
	var withExit interface{ ExitCode() int }
	if errors.As(err, &withExit) {
		return withExit.ExitCode()
	}
	return ExitCodeGeneric
}

func TestVersionCommandOutputsBuildInfo(t *testing.T) {
	out, err := runCLI(t, "version")
	require.NoError(t, err)
	require.Contains(t, out, "version=1.2.3")
	require.Contains(t, out, "commit=abc123")
	require.Contains(t, out, "build_time=2026-02-19T00:00:00Z")
}

func TestVersionCommandOutputsJSON(t *testing.T) {
	out, err := runCLI(t, "version", "--json")
	require.NoError(t, err)

	var payload BuildInfo
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	require.Equal(t, "1.2.3", payload.Version)
	require.Equal(t, "abc123", payload.Commit)
}

func TestRootHasRequiredGlobalFlags(t *testing.T) {
	var out bytes.Buffer
	cmd := NewRootCommand(&out, testBuildInfo())

	for _, name := range []string{"config", "store", "json"} {
		require.NotNilf(t, cmd.PersistentFlags().Lookup(name), "missing flag %q", name)
	}
}

func TestRootHasTopLevelCommands(t *testing.T) {
	var out bytes.Buffer
	cmd := NewRootCommand(&out, testBuildInfo())

	for _, name := range []string{"login", "logout", "whoami", "asset", "db", "audit", "version"} {
		_, _, err := cmd.Find([]string{name})
		require.NoErrorf(t, err, "expected command %q", name)
	}
}

func TestAssetCommandsRequireLogin(t *testing.T) {
	newTestHome(t)

	_, err := runCLI(t, "asset", "add", "--name", "Projector", "--category", "Electronics", "--location", "Lab", "--purchase-date", "2024-01-10")
	require.Error(t, err)
	require.Equal(t, ExitCodeAuthFailed, exitCode(err))

	_, err = runCLI(t, "asset", "ls")
	require.Error(t, err)
	require.Equal(t, ExitCodeAuthFailed, exitCode(err))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	newTestHome(t)

	_, err := runCLI(t, "login", "--username", "admin", "--password", "wrong")
	require.Error(t, err)
	require.Equal(t, ExitCodeAuthFailed, exitCode(err))

	// Case must match exactly.
	_, err = runCLI(t, "login", "--username", "Admin", "--password", "admin123")
	require.Error(t, err)
	require.Equal(t, ExitCodeAuthFailed, exitCode(err))
}

func TestLoginRequiresUsername(t *testing.T) {
	newTestHome(t)

	_, err := runCLI(t, "login", "--password", "admin123")
	require.Error(t, err)
	require.Equal(t, ExitCodeUsage, exitCode(err))
}

func TestLoginPersistsSessionAcrossInvocations(t *testing.T) {
	home := newTestHome(t)

	out, err := runCLI(t, "login", "--username", "admin", "--password", "admin123")
	require.NoError(t, err)
	require.Contains(t, out, "Logged in as admin (Administrator)")

	_, err = os.Stat(filepath.Join(home, sessionFileName))
	require.NoError(t, err)

	out, err = runCLI(t, "whoami")
	require.NoError(t, err)
	require.Contains(t, out, "admin (Administrator)")

	out, err = runCLI(t, "logout")
	require.NoError(t, err)
	require.Contains(t, out, "Logged out")

	_, err = os.Stat(filepath.Join(home, sessionFileName))
	require.ErrorIs(t, err, os.ErrNotExist)

	out, err = runCLI(t, "whoami")
	require.NoError(t, err)
	require.Contains(t, out, "Not logged in")
}

func TestCorruptSessionFileMeansLoggedOut(t *testing.T) {
	home := newTestHome(t)
	require.NoError(t, os.MkdirAll(home, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(home, sessionFileName), []byte("{not json"), 0o600))

	out, err := runCLI(t, "whoami")
	require.NoError(t, err)
	require.Contains(t, out, "Not logged in")
}

func loginAdmin(t *testing.T) {
	t.Helper()
	_, err := runCLI(t, "login", "--username", "admin", "--password", "admin123")
	require.NoError(t, err)
}

func TestAssetLifecycleThroughCLI(t *testing.T) {
	newTestHome(t)
	loginAdmin(t)

	out, err := runCLI(t, "asset", "add",
		"--name", "Projector",
		"--category", "Electronics",
		"--location", "Media Lab",
		"--quantity", "2",
		"--condition", "Good",
		"--purchase-date", "2024-01-10",
		"--description", "Ceiling mounted")
	require.NoError(t, err)
	require.Contains(t, out, "Created asset #1")

	out, err = runCLI(t, "asset", "ls")
	require.NoError(t, err)
	require.Contains(t, out, "#1 Projector [Electronics] Media Lab qty=2")

	out, err = runCLI(t, "asset", "show", "1")
	require.NoError(t, err)
	require.Contains(t, out, "Projector")
	require.Contains(t, out, "Ceiling mounted")

	out, err = runCLI(t, "asset", "search", "proj")
	require.NoError(t, err)
	require.Contains(t, out, "Projector")

	out, err = runCLI(t, "asset", "edit", "1", "--quantity", "5")
	require.NoError(t, err)
	require.Contains(t, out, "Updated asset #1")

	out, err = runCLI(t, "asset", "show", "1")
	require.NoError(t, err)
	require.Contains(t, out, "qty=5")
	// Unset flags keep stored values.
	require.Contains(t, out, "Projector")

	out, err = runCLI(t, "asset", "rm", "1")
	require.NoError(t, err)
	require.Contains(t, out, "Deleted asset #1")

	out, err = runCLI(t, "asset", "ls")
	require.NoError(t, err)
	require.NotContains(t, out, "Projector")
}

func TestAssetEditMissingIDExitsNotFound(t *testing.T) {
	newTestHome(t)
	loginAdmin(t)

	_, err := runCLI(t, "asset", "edit", "99", "--quantity", "3")
	require.Error(t, err)
	require.Equal(t, ExitCodeNotFound, exitCode(err))

	_, err = runCLI(t, "asset", "rm", "99")
	require.Error(t, err)
	require.Equal(t, ExitCodeNotFound, exitCode(err))
}

func TestAssetAddRejectsInvalidFields(t *testing.T) {
	newTestHome(t)
	loginAdmin(t)

	_, err := runCLI(t, "asset", "add",
		"--name", "Projector",
		"--category", "Gadgets",
		"--location", "Lab",
		"--purchase-date", "2024-01-10")
	require.Error(t, err)
	require.Equal(t, ExitCodeUsage, exitCode(err))

	_, err = runCLI(t, "asset", "add",
		"--name", "Projector",
		"--category", "Electronics",
		"--location", "Lab",
		"--quantity", "0",
		"--purchase-date", "2024-01-10")
	require.Error(t, err)
	require.Equal(t, ExitCodeUsage, exitCode(err))
}

func TestAssetIDMustBePositiveInteger(t *testing.T) {
	newTestHome(t)
	loginAdmin(t)

	for _, raw := range []string{"abc", "0", "-4"} {
		_, err := runCLI(t, "asset", "show", raw)
		require.Errorf(t, err, "id %q", raw)
		require.Equal(t, ExitCodeUsage, exitCode(err))
	}
}

func TestDBStatusReportsSchemaVersion(t *testing.T) {
	newTestHome(t)

	out, err := runCLI(t, "db", "status")
	require.NoError(t, err)
	require.Contains(t, out, "schema_version=2")
	require.Contains(t, out, "registry.db")
}

func TestDBResetRequiresConfirm(t *testing.T) {
	newTestHome(t)

	_, err := runCLI(t, "db", "reset")
	require.Error(t, err)
	require.Equal(t, ExitCodeUsage, exitCode(err))
}

func TestDBResetDiscardsDataAndSession(t *testing.T) {
	newTestHome(t)
	loginAdmin(t)

	_, err := runCLI(t, "asset", "add",
		"--name", "Projector",
		"--category", "Electronics",
		"--location", "Lab",
		"--purchase-date", "2024-01-10")
	require.NoError(t, err)

	out, err := runCLI(t, "db", "reset", "--confirm")
	require.NoError(t, err)
	require.Contains(t, out, "Registry reset")

	// The user table was rebuilt, so the old session is gone.
	out, err = runCLI(t, "whoami")
	require.NoError(t, err)
	require.Contains(t, out, "Not logged in")

	// Seed admin is back and the asset table is empty.
	loginAdmin(t)
	out, err = runCLI(t, "asset", "ls")
	require.NoError(t, err)
	require.NotContains(t, out, "Projector")
}

func TestAuditListRecordsActions(t *testing.T) {
	newTestHome(t)
	loginAdmin(t)

	_, err := runCLI(t, "asset", "add",
		"--name", "Projector",
		"--category", "Electronics",
		"--location", "Lab",
		"--purchase-date", "2024-01-10")
	require.NoError(t, err)

	out, err := runCLI(t, "audit", "ls")
	require.NoError(t, err)
	require.Contains(t, out, "auth.login")
	require.Contains(t, out, "asset.create")
	require.Contains(t, out, "actor=admin")

	out, err = runCLI(t, "audit", "ls", "--action", "asset.create")
	require.NoError(t, err)
	require.Contains(t, out, "asset.create")
	require.NotContains(t, out, "auth.login")
}

func TestStoreFlagOverridesStorePath(t *testing.T) {
	newTestHome(t)
	custom := filepath.Join(t.TempDir(), "elsewhere.db")

	out, err := runCLI(t, "--store", custom, "db", "status")
	require.NoError(t, err)
	require.Contains(t, out, custom)

	_, err = os.Stat(custom)
	require.NoError(t, err)
}

func TestMapCommandErrorPassesExitErrorsThrough(t *testing.T) {
	orig := usageErrorf("bad flag")
	mapped := mapCommandError(orig)
	require.Same(t, orig, mapped)
	require.Equal(t, ExitCodeUsage, exitCode(mapped))
}
