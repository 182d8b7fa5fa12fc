package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	wmerrors "github.com/wexinc/workmarks/internal/errors"
	"github.com/wexinc/workmarks/internal/tui"
)

const exportJSON = `{
  "Workspaces": [
    {
      "title": "Test Workspace",
      "groups": [
        {"title": "Research", "tabs": [{"title": "Example", "url": "https://example.com"}]}
      ]
    },
    {
      "title": "Other",
      "tabs": [{"title": "Elsewhere", "url": "https://other.example"}]
    }
  ]
}`

const exportText = `Workspaces:
  0:
    title: Test Workspace
    groups:
      0:
        title: Research
        tabs:
          0:
            title: Example
            url: https://example.com
  1:
    title: Other
    tabs:
      0:
        title: Elsewhere
        url: https://other.example
`

// sandbox isolates a test from the caller's working directory and
// WORKMARKS_ environment, and returns the new working directory.
func sandbox(t *testing.T) string {
	t.Helper()
	for _, kv := range os.Environ() {
		if key, _, ok := strings.Cut(kv, "="); ok && strings.HasPrefix(key, "WORKMARKS_") {
			t.Setenv(key, "")
		}
	}
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

type result struct {
	stdout string
	stderr string
	err    error
}

// execute runs a fresh command tree with args. Cobra commands keep flag
// state between runs, so each call builds a new root.
func execute(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return result{stdout: out.String(), stderr: errOut.String(), err: err}
}

func readOutput(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	return string(data)
}

func TestRootCommand(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantErr    bool
		wantOutput string
	}{
		{
			name:       "no args shows help",
			args:       []string{},
			wantOutput: "workmarks converts a Workona export",
		},
		{
			name:       "help flag",
			args:       []string{"--help"},
			wantOutput: "Available Commands:",
		},
		{
			name:    "too many args",
			args:    []string{"a.json", "b.json"},
			wantErr: true,
		},
		{
			name:    "unknown flag",
			args:    []string{"--nope"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sandbox(t)
			res := execute(t, "", tt.args...)

			if (res.err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", res.err, tt.wantErr)
			}
			if tt.wantOutput != "" && !strings.Contains(res.stdout, tt.wantOutput) {
				t.Errorf("expected %q in output:\n%s", tt.wantOutput, res.stdout)
			}
		})
	}
}

func TestRootCommand_Flags(t *testing.T) {
	root := newRootCmd()

	tests := []struct {
		name      string
		shorthand string
	}{
		{"workspace", "w"},
		{"output", "o"},
		{"format", ""},
		{"order", ""},
		{"root-folder", ""},
		{"placeholder", ""},
		{"folded", ""},
		{"repair-quotes", ""},
		{"pick", ""},
	}
	for _, tt := range tests {
		f := root.Flags().Lookup(tt.name)
		if f == nil {
			t.Errorf("--%s flag not found", tt.name)
			continue
		}
		if f.Shorthand != tt.shorthand {
			t.Errorf("--%s shorthand = %q, want %q", tt.name, f.Shorthand, tt.shorthand)
		}
	}

	for _, name := range []string{"config", "verbose", "log-json"} {
		if root.PersistentFlags().Lookup(name) == nil {
			t.Errorf("--%s persistent flag not found", name)
		}
	}
}

func TestConvert_WritesDefaultOutput(t *testing.T) {
	dir := sandbox(t)
	input := writeFile(t, dir, "export.json", exportJSON)

	res := execute(t, "", input)
	if res.err != nil {
		t.Fatalf("unexpected error: %v", res.err)
	}

	html := readOutput(t, filepath.Join(dir, "bookmarks.html"))
	for _, want := range []string{
		"<!DOCTYPE NETSCAPE-Bookmark-file-1>",
		"<DT><H3>Test Workspace</H3>",
		"<DT><H3>Untitled</H3>",
		`<DT><A HREF="https://example.com">Example</A>`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("expected %q in output", want)
		}
	}
	if !strings.Contains(res.stderr, "Wrote 2 bookmarks in 2 workspaces") {
		t.Errorf("expected summary on stderr, got %q", res.stderr)
	}
	if res.stdout != "" {
		t.Errorf("expected nothing on stdout, got %q", res.stdout)
	}

	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestConvert_FilterScenario(t *testing.T) {
	dir := sandbox(t)
	input := writeFile(t, dir, "export.txt", exportText)

	res := execute(t, "", input, "-w", "Test Workspace", "-o", "-")
	if res.err != nil {
		t.Fatalf("unexpected error: %v", res.err)
	}

	if !strings.Contains(res.stdout, `<DT><A HREF="https://example.com">Example</A>`) {
		t.Errorf("expected bookmark in stdout:\n%s", res.stdout)
	}
	if strings.Contains(res.stdout, "Other") || strings.Contains(res.stdout, "other.example") {
		t.Error("filtered workspace leaked into output")
	}
	if strings.Contains(res.stderr, "Wrote") {
		t.Error("no summary expected when writing to stdout")
	}
	if _, err := os.Stat(filepath.Join(dir, "bookmarks.html")); !os.IsNotExist(err) {
		t.Error("no file expected when writing to stdout")
	}
}

func TestConvert_StdinInput(t *testing.T) {
	sandbox(t)

	res := execute(t, exportText, "-", "--format", "text", "-o", "-")
	if res.err != nil {
		t.Fatalf("unexpected error: %v", res.err)
	}
	if !strings.Contains(res.stdout, "<DT><H3>Other</H3>") {
		t.Errorf("expected document on stdout:\n%s", res.stdout)
	}

	detected := execute(t, exportJSON, "-", "-o", "-")
	if detected.err != nil {
		t.Fatalf("expected JSON to be detected from content: %v", detected.err)
	}
	if detected.stdout != res.stdout {
		t.Error("expected identical output from both encodings")
	}
}

func TestConvert_EmptyFilterWarns(t *testing.T) {
	dir := sandbox(t)
	input := writeFile(t, dir, "export.json", exportJSON)
	output := filepath.Join(dir, "out.html")

	res := execute(t, "", input, "-w", "test workspace", "-o", output)
	if res.err != nil {
		t.Fatalf("empty match should not fail: %v", res.err)
	}
	if !strings.Contains(res.stderr, `Warning: no workspace matched "test workspace"`) {
		t.Errorf("expected warning on stderr, got %q", res.stderr)
	}

	html := readOutput(t, output)
	if strings.Contains(html, "<DT>") {
		t.Error("expected a document without entries")
	}
	if !strings.HasSuffix(html, "<DL><p>\n</DL><p>\n") {
		t.Errorf("expected an empty bookmark list, got:\n%s", html)
	}
}

func TestConvert_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		args   []string
		target error
	}{
		{"malformed json", `{"Workspaces": [`, nil, wmerrors.ErrMalformedInput},
		{"schema", `{"Workspaces": [{"tabs": []}]}`, nil, wmerrors.ErrSchema},
		{"bad order flag", exportJSON, []string{"--order", "random"}, wmerrors.ErrConfig},
		{"bad format flag", exportJSON, []string{"--format", "xml"}, wmerrors.ErrConfig},
		{"missing config", exportJSON, []string{"--config", "nope.yaml"}, wmerrors.ErrConfig},
		{"unwritable output", exportJSON, []string{"-o", filepath.Join("missing", "dir", "out.html")}, wmerrors.ErrIO},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := sandbox(t)
			input := writeFile(t, dir, "export.json", tt.input)

			res := execute(t, "", append([]string{input}, tt.args...)...)
			if !errors.Is(res.err, tt.target) {
				t.Fatalf("expected %v, got %v", tt.target, res.err)
			}
			if _, err := os.Stat(filepath.Join(dir, "bookmarks.html")); !os.IsNotExist(err) {
				t.Error("no output file expected on failure")
			}
		})
	}
}

func TestConvert_MissingInput(t *testing.T) {
	sandbox(t)

	res := execute(t, "", "nope.json")
	if !errors.Is(res.err, wmerrors.ErrIO) {
		t.Fatalf("expected ErrIO, got %v", res.err)
	}
	if !strings.Contains(wmerrors.FormatError(res.err), "cannot read export file: nope.json") {
		t.Errorf("unexpected message: %s", wmerrors.FormatError(res.err))
	}
}

func TestConvert_ConfigFileAndOverrides(t *testing.T) {
	dir := sandbox(t)
	input := writeFile(t, dir, "export.json", exportJSON)
	writeFile(t, dir, ".workmarks.yaml", `
order: input
output:
  path: from-config.html
  root_folder: Workona Export
  placeholder: Loose tabs
`)

	res := execute(t, "", input)
	if res.err != nil {
		t.Fatalf("unexpected error: %v", res.err)
	}
	html := readOutput(t, filepath.Join(dir, "from-config.html"))
	if !strings.Contains(html, "<DT><H3>Workona Export</H3>") || !strings.Contains(html, "<DT><H3>Loose tabs</H3>") {
		t.Errorf("expected config settings in output:\n%s", html)
	}
	if strings.Index(html, "Test Workspace") > strings.Index(html, "Other") {
		t.Error("expected input order from config")
	}

	// Flags beat the config file; the environment fills in what neither sets.
	t.Setenv("WORKMARKS_OUTPUT_FOLDED", "true")
	res = execute(t, "", input, "--order", "name", "--placeholder", "Misc", "-o", "flags.html")
	if res.err != nil {
		t.Fatalf("unexpected error: %v", res.err)
	}
	html = readOutput(t, filepath.Join(dir, "flags.html"))
	if !strings.Contains(html, "<DT><H3 FOLDED>Misc</H3>") {
		t.Errorf("expected flag and env settings in output:\n%s", html)
	}
	if strings.Index(html, "Other") > strings.Index(html, "Test Workspace") {
		t.Error("expected --order name to override the config file")
	}
}

func TestConvert_FlagsAreCaseInsensitive(t *testing.T) {
	dir := sandbox(t)
	input := writeFile(t, dir, "export.txt", exportText)

	res := execute(t, "", input, "--order", "Input", "--format", "TEXT", "-o", "-")
	if res.err != nil {
		t.Fatalf("unexpected error: %v", res.err)
	}
	if strings.Index(res.stdout, "Test Workspace") > strings.Index(res.stdout, "Other") {
		t.Errorf("expected input order:\n%s", res.stdout)
	}
}

func TestConvert_FlagOverridesInvalidConfigValue(t *testing.T) {
	dir := sandbox(t)
	input := writeFile(t, dir, "export.json", exportJSON)
	writeFile(t, dir, ".workmarks.yaml", "order: random\n")

	if res := execute(t, "", input, "-o", "-"); !errors.Is(res.err, wmerrors.ErrConfig) {
		t.Fatalf("expected the config value to be rejected, got %v", res.err)
	}

	res := execute(t, "", input, "--order", "name", "-o", "-")
	if res.err != nil {
		t.Fatalf("--order should replace the invalid file value, got %v", res.err)
	}
	if !strings.Contains(res.stdout, "<H3>Test Workspace</H3>") {
		t.Errorf("unexpected output:\n%s", res.stdout)
	}
}

func TestConvert_VerboseLogsToStderr(t *testing.T) {
	dir := sandbox(t)
	input := writeFile(t, dir, "export.json", exportJSON)

	res := execute(t, "", input, "-o", "-", "--verbose", "--log-json")
	if res.err != nil {
		t.Fatalf("unexpected error: %v", res.err)
	}
	if !strings.Contains(res.stderr, `"msg":"decoding export"`) {
		t.Errorf("expected JSON debug records on stderr, got %q", res.stderr)
	}
	if !strings.Contains(res.stderr, `"input":"`+input+`"`) {
		t.Errorf("expected records to carry the input path, got %q", res.stderr)
	}
	if strings.Contains(res.stdout, `"msg"`) {
		t.Error("log records leaked into stdout")
	}
}

func TestConvert_UnusableLogFile(t *testing.T) {
	dir := sandbox(t)
	input := writeFile(t, dir, "export.json", exportJSON)
	writeFile(t, dir, ".workmarks.yaml", "log:\n  file: "+filepath.Join("missing", "dir", "run.log")+"\n")

	res := execute(t, "", input, "-o", "-")
	if res.err != nil {
		t.Fatalf("a bad log file should not fail the run, got %v", res.err)
	}
	if !strings.Contains(res.stderr, "log file disabled") {
		t.Errorf("expected a warning record on stderr, got %q", res.stderr)
	}
	if !strings.Contains(res.stdout, "<H3>Test Workspace</H3>") {
		t.Errorf("unexpected output:\n%s", res.stdout)
	}
}

func TestConvert_Pick(t *testing.T) {
	orig := pickWorkspaces
	t.Cleanup(func() { pickWorkspaces = orig })

	dir := sandbox(t)
	input := writeFile(t, dir, "export.json", exportJSON)

	var offered []tui.Item
	pickWorkspaces = func(items []tui.Item) ([]string, error) {
		offered = items
		return []string{"Other"}, nil
	}

	res := execute(t, "", input, "--pick", "-o", "-")
	if res.err != nil {
		t.Fatalf("unexpected error: %v", res.err)
	}
	if len(offered) != 2 || offered[0].Name != "Other" || offered[1].Tabs != 1 {
		t.Errorf("unexpected picker items: %+v", offered)
	}
	if !strings.Contains(res.stdout, "<DT><H3>Other</H3>") || strings.Contains(res.stdout, "Test Workspace") {
		t.Errorf("expected only the picked workspace:\n%s", res.stdout)
	}
}

func TestConvert_PickCanceled(t *testing.T) {
	orig := pickWorkspaces
	t.Cleanup(func() { pickWorkspaces = orig })

	dir := sandbox(t)
	input := writeFile(t, dir, "export.json", exportJSON)
	pickWorkspaces = func([]tui.Item) ([]string, error) {
		return nil, tui.ErrCanceled
	}

	res := execute(t, "", input, "--pick")
	if res.err != nil {
		t.Fatalf("cancel should not be an error: %v", res.err)
	}
	if !strings.Contains(res.stderr, "nothing written") {
		t.Errorf("expected cancel notice, got %q", res.stderr)
	}
	if _, err := os.Stat(filepath.Join(dir, "bookmarks.html")); !os.IsNotExist(err) {
		t.Error("no output expected after cancel")
	}
}

func TestConvert_PickRejectsStdin(t *testing.T) {
	sandbox(t)

	res := execute(t, exportJSON, "-", "--pick")
	if !errors.Is(res.err, wmerrors.ErrConfig) {
		t.Fatalf("expected ErrConfig, got %v", res.err)
	}
}

func TestWorkspacesCommand(t *testing.T) {
	dir := sandbox(t)
	input := writeFile(t, dir, "export.txt", exportText)

	res := execute(t, "", "workspaces", input)
	if res.err != nil {
		t.Fatalf("unexpected error: %v", res.err)
	}
	for _, want := range []string{
		"Other",
		"Test Workspace",
		"1 groups, 1 tabs",
		"2 workspaces, 2 groups, 2 tabs",
	} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("expected %q in output:\n%s", want, res.stdout)
		}
	}

	names := execute(t, "", "workspaces", input, "--names-only", "--order", "input")
	if names.err != nil {
		t.Fatalf("unexpected error: %v", names.err)
	}
	if names.stdout != "Test Workspace\nOther\n" {
		t.Errorf("unexpected names output: %q", names.stdout)
	}
}

func TestWorkspacesCommand_RequiresInput(t *testing.T) {
	sandbox(t)
	if res := execute(t, "", "workspaces"); res.err == nil {
		t.Fatal("expected error without an export file")
	}
}

func TestVersionCommand(t *testing.T) {
	sandbox(t)

	res := execute(t, "", "version")
	if res.err != nil {
		t.Fatalf("unexpected error: %v", res.err)
	}
	if !strings.Contains(res.stdout, "workmarks dev") || !strings.Contains(res.stdout, "OS/Arch:") {
		t.Errorf("unexpected version output:\n%s", res.stdout)
	}

	res = execute(t, "", "version", "--json")
	if res.err != nil {
		t.Fatalf("unexpected error: %v", res.err)
	}
	var info map[string]string
	if err := json.Unmarshal([]byte(res.stdout), &info); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, res.stdout)
	}
	if info["commit"] != "none" {
		t.Errorf("unexpected commit %q", info["commit"])
	}
}

func TestWriteOutput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bookmarks.html")

	if err := os.WriteFile(path, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := writeOutput(path, []byte("new"), nil); err != nil {
		t.Fatalf("writeOutput: %v", err)
	}
	if got := readOutput(t, path); got != "new" {
		t.Errorf("expected file replaced, got %q", got)
	}

	var buf bytes.Buffer
	if err := writeOutput("-", []byte("doc"), &buf); err != nil {
		t.Fatalf("writeOutput to stdout: %v", err)
	}
	if buf.String() != "doc" {
		t.Errorf("stdout = %q", buf.String())
	}
}

func TestRoot(t *testing.T) {
	root := Root()
	if root == nil || root.Name() != "workmarks" {
		t.Fatalf("unexpected root command: %v", root)
	}
	if _, _, err := root.Find([]string{"workspaces"}); err != nil {
		t.Errorf("workspaces command not registered: %v", err)
	}
}
