package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"qbank/internal/api"
	"qbank/internal/store"
)

// isolate keeps tests away from ~/.qbank and the caller's QBANK_* env.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("QBANK_CONFIG_DIR", t.TempDir())
	for _, k := range []string{"QBANK_DIR", "QBANK_SERVER", "QBANK_USER", "QBANK_LOG_LEVEL", "QBANK_FORMAT"} {
		t.Setenv(k, "")
	}
}

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

func mustRun(t *testing.T, args ...string) map[string]any {
	t.Helper()
	stdout, stderr, err := runCLI(t, args)
	if err != nil {
		t.Fatalf("command failed: qbank %v\nerr: %v\nstderr:\n%s\nstdout:\n%s", args, err, stderr, stdout)
	}
	var env map[string]any
	if err := json.Unmarshal(stdout, &env); err != nil {
		t.Fatalf("unmarshal stdout as json envelope: %v\nstdout:\n%s\nargs: %v", err, stdout, args)
	}
	if _, ok := env["data"]; !ok {
		t.Fatalf("expected JSON envelope to contain data key; got: %v", env)
	}
	return env
}

func mustFail(t *testing.T, wantErr string, args ...string) {
	t.Helper()
	stdout, stderr, err := runCLI(t, args)
	if err == nil {
		t.Fatalf("expected qbank %v to fail; stdout:\n%s", args, stdout)
	}
	if !strings.Contains(string(stderr), wantErr) {
		t.Fatalf("expected stderr to contain %q; got:\n%s", wantErr, stderr)
	}
}

func dataID(t *testing.T, env map[string]any) string {
	t.Helper()
	id, _ := env["data"].(map[string]any)["id"].(string)
	if id == "" {
		t.Fatalf("expected data.id; got: %#v", env["data"])
	}
	return id
}

func dataTitles(env map[string]any) []string {
	out := []string{}
	xs, _ := env["data"].([]any)
	for _, x := range xs {
		if m, ok := x.(map[string]any); ok {
			s, _ := m["title"].(string)
			out = append(out, s)
		}
	}
	return out
}

// exerciseCollections runs the same create/rename/delete script against
// whatever backend base points at.
func exerciseCollections(t *testing.T, base ...string) {
	t.Helper()
	run := func(args ...string) map[string]any { return mustRun(t, append(append([]string{}, base...), args...)...) }
	fail := func(want string, args ...string) { mustFail(t, want, append(append([]string{}, base...), args...)...) }

	alpha := dataID(t, run("projects", "create", "--title", "Alpha"))
	fail("already exists", "projects", "create", "--title", "Alpha")
	fail("title cannot be empty", "projects", "create", "--title", "   ")
	beta := dataID(t, run("projects", "create", "--title", "Beta"))

	run("projects", "rename", beta, "--title", "Gamma")
	fail("without --yes", "projects", "delete", alpha)
	if got := strings.Join(dataTitles(run("projects", "list")), ","); got != "Alpha,Gamma" {
		t.Fatalf("expected Alpha,Gamma before confirmed delete; got %q", got)
	}
	run("projects", "delete", alpha, "--yes")
	if got := strings.Join(dataTitles(run("projects", "list")), ","); got != "Gamma" {
		t.Fatalf("expected Gamma; got %q", got)
	}

	bank := dataID(t, run("banks", "create", "--project", beta, "--title", "Mechanics"))
	fail("Error: Project ID is missing", "banks", "create", "--title", "Orphan")
	run("banks", "rename", bank, "--title", "Kinematics")
	if got := strings.Join(dataTitles(run("banks", "list", "--project", beta)), ","); got != "Kinematics" {
		t.Fatalf("expected Kinematics; got %q", got)
	}

	q := dataID(t, run("questions", "create", "--bank", bank, "--title", "Q1", "--description", "What is *inertia*?"))
	run("questions", "describe", q, "--description", "Define **velocity**.")
	shown := run("questions", "show", q)
	if d, _ := shown["data"].(map[string]any)["description"].(string); d != "Define **velocity**." {
		t.Fatalf("expected updated description; got %q", d)
	}
	run("questions", "rename", q, "--title", "Q1 (revised)")
	pub := run("banks", "publish", bank, "--to", t.TempDir())
	if written, _ := pub["data"].(map[string]any)["written"].([]any); len(written) != 2 {
		t.Fatalf("expected index + 1 page; got %#v", pub["data"])
	}
	run("questions", "delete", q, "-y")
	if got := dataTitles(run("questions", "list", "--bank", bank)); len(got) != 0 {
		t.Fatalf("expected no questions; got %v", got)
	}

	// Deleting a project removes its banks.
	run("projects", "delete", beta, "--yes")
	fail("not found", "banks", "show", bank)
}

func TestCollections_LocalStore(t *testing.T) {
	isolate(t)
	exerciseCollections(t, "--dir", t.TempDir(), "--user", "u1")
}

func TestCollections_ThroughServer(t *testing.T) {
	isolate(t)
	db, err := (store.Store{Dir: t.TempDir()}).Open(context.Background())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	srv, err := api.NewServer(api.ServerConfig{API: db, Log: zerolog.Nop()})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	exerciseCollections(t, "--server", ts.URL, "--user", "u1")

	// The server wrote to the database the test opened.
	ps, err := db.ListProjects(context.Background(), "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ps) != 0 {
		t.Fatalf("expected all projects deleted; got %+v", ps)
	}
}

func TestProjectsList_RequiresUser(t *testing.T) {
	isolate(t)
	mustFail(t, "no current user", "--dir", t.TempDir(), "projects", "list")
}

func TestWeb_BadListenAddress(t *testing.T) {
	isolate(t)
	mustFail(t, "missing port", "--dir", t.TempDir(), "--user", "u1", "web", "--addr", "nowhere")
}

func TestConfig_InitThenUsedAsDefaults(t *testing.T) {
	isolate(t)
	dataDir := t.TempDir()

	env := mustRun(t, "config", "init", "--user", "u9", "--data-dir", dataDir, "--theme", "dark")
	path, _ := env["data"].(map[string]any)["path"].(string)
	if filepath.Base(path) != "config.toml" {
		t.Fatalf("expected config.toml path; got %q", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file: %v", err)
	}
	mustFail(t, "already exists", "config", "init")

	// user and data_dir come from the file.
	id := dataID(t, mustRun(t, "projects", "create", "--title", "From config"))
	shown := mustRun(t, "projects", "show", id)
	if u, _ := shown["data"].(map[string]any)["userId"].(string); u != "u9" {
		t.Fatalf("expected user from config; got %q", u)
	}
	if _, err := os.Stat(filepath.Join(dataDir, "qbank.sqlite")); err != nil {
		t.Fatalf("expected database in configured data dir: %v", err)
	}

	// Flags win over the file.
	if got := dataTitles(mustRun(t, "--user", "other", "projects", "list")); len(got) != 0 {
		t.Fatalf("expected --user to override config; got %v", got)
	}

	cfg := mustRun(t, "config", "show")
	tuiCfg, _ := cfg["data"].(map[string]any)["tui"].(map[string]any)
	if tuiCfg["theme"] != "dark" {
		t.Fatalf("expected theme dark; got %#v", cfg["data"])
	}
}

func TestConfig_InitRejectsBadTheme(t *testing.T) {
	isolate(t)
	mustFail(t, "invalid theme", "config", "init", "--theme", "neon")
}

func TestOutputFormats(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	mustRun(t, "--dir", dir, "--user", "u1", "projects", "create", "--title", "Alpha")

	out, stderr, err := runCLI(t, []string{"--dir", dir, "--user", "u1", "--format", "edn", "projects", "list"})
	if err != nil {
		t.Fatalf("edn list: %v\n%s", err, stderr)
	}
	if !strings.Contains(string(out), `:title "Alpha"`) {
		t.Fatalf("expected edn output; got:\n%s", out)
	}

	out, stderr, err = runCLI(t, []string{"--dir", dir, "--user", "u1", "--format", "toml", "projects", "list"})
	if err != nil {
		t.Fatalf("toml list: %v\n%s", err, stderr)
	}
	if !strings.Contains(string(out), "[[data]]") || !strings.Contains(string(out), "title = 'Alpha'") {
		t.Fatalf("expected toml output; got:\n%s", out)
	}

	mustFail(t, "format", "--dir", dir, "--format", "yaml", "projects", "list")
}

func TestDocs(t *testing.T) {
	isolate(t)
	env := mustRun(t, "docs")
	topics, _ := env["data"].(map[string]any)["topics"].([]any)
	if len(topics) == 0 {
		t.Fatalf("expected topics; got %#v", env["data"])
	}

	out, _, err := runCLI(t, []string{"docs", "tui", "--raw"})
	if err != nil {
		t.Fatalf("docs tui: %v", err)
	}
	if !strings.HasPrefix(string(out), "# TUI") {
		t.Fatalf("expected raw markdown; got:\n%s", out)
	}
	mustFail(t, "unknown docs topic", "docs", "nope")
}

func TestQuestionsDescribe_FromStdin(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	base := []string{"--dir", dir, "--user", "u1"}
	run := func(args ...string) map[string]any { return mustRun(t, append(append([]string{}, base...), args...)...) }

	p := dataID(t, run("projects", "create", "--title", "P"))
	b := dataID(t, run("banks", "create", "--project", p, "--title", "B"))
	q := dataID(t, run("questions", "create", "--bank", b, "--title", "Q"))

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader("# From stdin\n"))
	cmd.SetArgs(append(append([]string{}, base...), "questions", "describe", q, "--file", "-"))
	if err := cmd.Execute(); err != nil {
		t.Fatalf("describe: %v", err)
	}
	if !strings.Contains(out.String(), "From stdin") {
		t.Fatalf("expected description in output; got:\n%s", out.String())
	}

	mustFail(t, "missing --description or --file", append(append([]string{}, base...), "questions", "describe", q)...)
}
