package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/msto63/botlang/foundation/botlang/interpreter"
	"github.com/msto63/botlang/internal/journal"
)

const decideScript = `def decide(front) -> if front == "ENEMY" then $ATTACK else $MOVE
decide(_FRONT_NEIGHBOR)
`

type result struct {
	stdout string
	stderr string
	err    error
}

// execute runs the command tree with a config file written to a temp dir
func execute(t *testing.T, configBody string, stdin string, args ...string) result {
	t.Helper()
	cfgPath := writeFile(t, "botlang.toml", configBody)

	var stdout, stderr bytes.Buffer
	root := NewRootCommand()
	root.SetArgs(append([]string{"--config", cfgPath}, args...))
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))
	err := root.ExecuteContext(context.Background())
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestRun_Decide(t *testing.T) {
	script := writeFile(t, "bot.bl", decideScript)

	tests := []struct {
		name     string
		config   string
		args     []string
		expected string
	}{
		{"set flag", "", []string{"--set", "_FRONT_NEIGHBOR=ENEMY"}, "$ATTACK"},
		{"config sensors", "[sensors]\n_FRONT_NEIGHBOR = \"WALL\"\n", nil, "$MOVE"},
		{"set overrides config", "[sensors]\n_FRONT_NEIGHBOR = \"WALL\"\n", []string{"--set", "_FRONT_NEIGHBOR=ENEMY"}, "$ATTACK"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"run", script, "--decide"}, tt.args...)
			res := execute(t, tt.config, "", args...)
			if res.err != nil {
				t.Fatalf("run error = %v\n%s", res.err, res.stderr)
			}
			if strings.TrimSpace(res.stdout) != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, res.stdout)
			}
		})
	}
}

func TestRun_SnapshotFile(t *testing.T) {
	script := writeFile(t, "bot.bl", decideScript)
	snapshot := writeFile(t, "tick.yaml", "sensors:\n  _FRONT_NEIGHBOR: ENEMY\n")

	res := execute(t, "[sensors]\n_FRONT_NEIGHBOR = \"WALL\"\n", "", "run", script, "-s", snapshot, "-d")
	if res.err != nil {
		t.Fatalf("run error = %v\n%s", res.err, res.stderr)
	}
	if strings.TrimSpace(res.stdout) != "$ATTACK" {
		t.Errorf("Expected snapshot to override config, got %q", res.stdout)
	}
}

func TestRun_DefaultAction(t *testing.T) {
	script := writeFile(t, "bot.bl", "1 + 1\n")
	res := execute(t, "", "", "run", script, "--decide")
	if res.err != nil {
		t.Fatalf("run error = %v", res.err)
	}
	if !strings.Contains(res.stdout, "$IDLE") || !strings.Contains(res.stdout, "default") {
		t.Errorf("Expected default action, got %q", res.stdout)
	}
}

func TestRun_PrintsResultAndOutput(t *testing.T) {
	res := execute(t, "", "print(\"hi\")\n1 + 2\n", "run", "-")
	if res.err != nil {
		t.Fatalf("run error = %v", res.err)
	}
	if res.stdout != "hi\n[null, 3]\n" {
		t.Errorf("Expected print output then result, got %q", res.stdout)
	}
}

func TestRun_PrintDisabled(t *testing.T) {
	res := execute(t, "[interpreter]\nprint_output = false\n", "print(\"hi\")\n", "run", "-")
	if res.err != nil {
		t.Fatalf("run error = %v", res.err)
	}
	if strings.Contains(res.stdout, "hi") {
		t.Errorf("Expected print output to be discarded, got %q", res.stdout)
	}
}

func TestRun_Diagnostic(t *testing.T) {
	script := writeFile(t, "bad.bl", "var x = 1 / 0\n")
	res := execute(t, "", "", "run", script)

	var reported *reportedError
	if !errors.As(res.err, &reported) {
		t.Fatalf("Expected reported error, got %v", res.err)
	}
	for _, want := range []string{"DivisionByZero", "var x = 1 / 0", "^"} {
		if !strings.Contains(res.stderr, want) {
			t.Errorf("Expected %q in diagnostic:\n%s", want, res.stderr)
		}
	}
}

func TestRun_Errors(t *testing.T) {
	script := writeFile(t, "bot.bl", decideScript)

	tests := []struct {
		name string
		args []string
	}{
		{"missing script", []string{"run", filepath.Join(t.TempDir(), "nope.bl")}},
		{"bad assignment", []string{"run", script, "--set", "novalue"}},
		{"bad sensor name", []string{"run", script, "--set", "FRONT=1"}},
		{"watch standard input", []string{"run", "-", "--watch"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if res := execute(t, "", "", tt.args...); res.err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestRun_RecordsJournal(t *testing.T) {
	script := writeFile(t, "bot.bl", decideScript)
	dbPath := filepath.Join(t.TempDir(), "journal.db")
	cfg := "[journal]\nenabled = true\npath = \"" + filepath.ToSlash(dbPath) + "\"\n"

	if res := execute(t, cfg, "", "run", script, "--set", "_FRONT_NEIGHBOR=ENEMY"); res.err != nil {
		t.Fatalf("run error = %v", res.err)
	}
	bad := writeFile(t, "bad.bl", "nope\n")
	execute(t, cfg, "", "run", bad)

	store, err := journal.Open(dbPath)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer store.Close()

	runs, err := store.Query(context.Background(), journal.Filter{})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("Expected 2 runs, got %d", len(runs))
	}
	var actions, kinds []string
	for _, run := range runs {
		if run.Failed() {
			kinds = append(kinds, run.ErrorKind)
		} else {
			actions = append(actions, run.Action)
		}
	}
	if diff := cmp.Diff([]string{"$ATTACK"}, actions); diff != "" {
		t.Errorf("actions mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"UndefinedName"}, kinds); diff != "" {
		t.Errorf("error kinds mismatch (-want +got):\n%s", diff)
	}

	res := execute(t, cfg, "", "history", "--format", "json", "--errors")
	if res.err != nil {
		t.Fatalf("history error = %v", res.err)
	}
	var listed []journal.Run
	if err := json.Unmarshal([]byte(res.stdout), &listed); err != nil {
		t.Fatalf("history output is not JSON: %v\n%s", err, res.stdout)
	}
	if len(listed) != 1 || listed[0].ErrorKind != "UndefinedName" {
		t.Errorf("Expected one failed run, got %+v", listed)
	}

	res = execute(t, cfg, "", "history", "--action", "ATTACK")
	if res.err != nil || !strings.Contains(res.stdout, "$ATTACK") || !strings.Contains(res.stdout, "bot.bl") {
		t.Errorf("Expected table with the ATTACK run, got %v\n%s", res.err, res.stdout)
	}

	res = execute(t, cfg, "", "history", "--stats")
	if res.err != nil || !strings.Contains(res.stdout, "2 (1 failed)") {
		t.Errorf("Expected stats, got %v\n%s", res.err, res.stdout)
	}
}

func TestHistory_Empty(t *testing.T) {
	cfg := "[journal]\npath = \"" + filepath.ToSlash(filepath.Join(t.TempDir(), "j.db")) + "\"\n"
	res := execute(t, cfg, "", "history")
	if res.err != nil {
		t.Fatalf("history error = %v", res.err)
	}
	if !strings.Contains(res.stdout, "no runs recorded") {
		t.Errorf("Expected empty notice, got %q", res.stdout)
	}

	res = execute(t, cfg, "", "history", "--prune", "1h")
	if res.err != nil || !strings.Contains(res.stdout, "pruned 0 run(s)") {
		t.Errorf("Expected prune summary, got %v %q", res.err, res.stdout)
	}
}

func TestLex(t *testing.T) {
	res := execute(t, "", "if _FRONT_NEIGHBOR == \"ENEMY\" then $ATTACK", "lex", "-")
	if res.err != nil {
		t.Fatalf("lex error = %v", res.err)
	}
	for _, want := range []string{"KEYWORD(if)", "SENSOR(_FRONT_NEIGHBOR)", "STRING(\"ENEMY\")", "ACTION($ATTACK)", "EOF", "1:1"} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("Expected %s in token listing:\n%s", want, res.stdout)
		}
	}

	res = execute(t, "", "1 + 2", "lex", "-", "--format", "json")
	var tokens []map[string]any
	if err := json.Unmarshal([]byte(res.stdout), &tokens); err != nil {
		t.Fatalf("lex json output invalid: %v", err)
	}
	if len(tokens) != 4 {
		t.Errorf("Expected 4 tokens, got %d", len(tokens))
	}

	res = execute(t, "", "1 + !", "lex", "-")
	if res.err == nil || !strings.Contains(res.stderr, "IllegalCharacter") {
		t.Errorf("Expected IllegalCharacter diagnostic, got %v %q", res.err, res.stderr)
	}
}

func TestParse(t *testing.T) {
	res := execute(t, "", "1 + 2", "parse", "-", "--format", "json")
	if res.err != nil {
		t.Fatalf("parse error = %v", res.err)
	}
	var tree map[string]any
	if err := json.Unmarshal([]byte(res.stdout), &tree); err != nil {
		t.Fatalf("parse json output invalid: %v", err)
	}
	if tree["type"] != "ListNode" {
		t.Errorf("Expected ListNode root, got %v", tree["type"])
	}

	res = execute(t, "", "1 + 2", "parse", "-")
	if res.err != nil || !strings.Contains(res.stdout, "type: BinOpNode") {
		t.Errorf("Expected YAML tree, got %v\n%s", res.err, res.stdout)
	}

	res = execute(t, "", "1 + 2", "parse", "-", "--format", "xml")
	if res.err == nil {
		t.Error("Expected error for unknown format")
	}

	res = execute(t, "", "def (", "parse", "-")
	if res.err == nil || !strings.Contains(res.stderr, "InvalidSyntax") {
		t.Errorf("Expected InvalidSyntax diagnostic, got %v %q", res.err, res.stderr)
	}
}

func TestCheck(t *testing.T) {
	cfg := "[sensors]\n_FRONT_NEIGHBOR = \"EMPTY\"\n"

	res := execute(t, cfg, "if _FRONT_NEIGHBOR == _LEFT_NEIGHBOR then $ATTACK else $MOVE", "check", "-")
	if res.err != nil {
		t.Fatalf("check error = %v\n%s", res.err, res.stdout)
	}
	for _, want := range []string{
		"sensors: _FRONT_NEIGHBOR, _LEFT_NEIGHBOR",
		"actions: $ATTACK, $MOVE",
		"sensor _LEFT_NEIGHBOR is not configured",
		"ok",
	} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("Expected %q in output:\n%s", want, res.stdout)
		}
	}

	res = execute(t, cfg, "$JUMP", "check", "-")
	if res.err == nil {
		t.Fatal("Expected unknown action to fail the check")
	}
	if !strings.Contains(res.stdout, "unknown action $JUMP") {
		t.Errorf("Expected unknown action report, got:\n%s", res.stdout)
	}
}

func TestServe_RequiresScript(t *testing.T) {
	res := execute(t, "", "", "serve")
	if res.err == nil || !strings.Contains(res.err.Error(), "no script") {
		t.Errorf("Expected missing script error, got %v", res.err)
	}
}

func TestVersion(t *testing.T) {
	res := execute(t, "", "", "version")
	if res.err != nil {
		t.Fatalf("version error = %v", res.err)
	}
	if !strings.HasPrefix(res.stdout, "botlang ") || !strings.Contains(res.stdout, "language:") {
		t.Errorf("Unexpected version output: %q", res.stdout)
	}
}

func TestInvalidConfig(t *testing.T) {
	res := execute(t, "[server]\nport = -1\n", "", "version")
	if res.err == nil {
		t.Error("Expected invalid config to fail")
	}
}

func TestParseAssignments(t *testing.T) {
	got, err := parseAssignments([]string{"_FRONT_NEIGHBOR=ENEMY", "_HEALTH=42", "_NOTE=a=b"})
	if err != nil {
		t.Fatalf("parseAssignments() error = %v", err)
	}
	want := interpreter.Sensors{
		"_FRONT_NEIGHBOR": interpreter.String("ENEMY"),
		"_HEALTH":         interpreter.Number(42),
		"_NOTE":           interpreter.String("a=b"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("parseAssignments() mismatch (-want +got):\n%s", diff)
	}

	if _, err := parseAssignments([]string{"=1"}); err == nil {
		t.Error("Expected error for empty name")
	}
}

// syncBuffer is a bytes.Buffer safe for concurrent use
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitFor(t *testing.T, buf *syncBuffer, want string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(buf.String(), want) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %q, output:\n%s", want, buf.String())
}

func TestRun_WatchReloadsScriptAndSnapshot(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "bot.bl")
	snapshot := filepath.Join(dir, "tick.toml")
	if err := os.WriteFile(script, []byte("$MOVE\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(snapshot, []byte("[sensors]\n_FRONT_NEIGHBOR = \"EMPTY\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfgPath := writeFile(t, "botlang.toml", "")

	var out syncBuffer
	root := NewRootCommand()
	root.SetArgs([]string{"--config", cfgPath, "run", script, "--sensors", snapshot, "--decide", "--watch"})
	root.SetOut(&out)
	root.SetErr(&syncBuffer{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- root.ExecuteContext(ctx) }()

	waitFor(t, &out, "$MOVE")
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(script, []byte("if _FRONT_NEIGHBOR == \"ENEMY\" then $ATTACK else $TURN_LEFT\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, &out, "$TURN_LEFT")

	if err := os.WriteFile(snapshot, []byte("[sensors]\n_FRONT_NEIGHBOR = \"ENEMY\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, &out, "$ATTACK")

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("run --watch error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run --watch did not stop after cancel")
	}
}
