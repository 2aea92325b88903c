package commands_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"taskctl/internal/commands"
	"taskctl/internal/config"
	"taskctl/internal/exitcode"
	"taskctl/internal/service"
	"taskctl/internal/testutil"
)

// runCommand is a helper to run a command with FakeService.
func runCommand(t *testing.T, cmd commands.Command, svc *testutil.FakeService, args []string, quiet bool) (stdout, stderr string, code int) {
	t.Helper()
	cfg := newConfig(t)
	cfg.Quiet = quiet
	return runCommandWith(t, cmd, cfg, svc, args)
}

// runCommandWith runs a command with an explicit config.
func runCommandWith(t *testing.T, cmd commands.Command, cfg *config.Config, svc *testutil.FakeService, args []string) (stdout, stderr string, code int) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer
	var backend service.Service
	if svc != nil {
		backend = svc
	}

	ctx := context.Background()
	code = cmd.Run(ctx, cfg, backend, args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

// parseFlags registers cmd's flags on a fresh set and parses args.
func parseFlags(t *testing.T, cmd commands.Command, args ...string) []string {
	t.Helper()
	fs := pflag.NewFlagSet(cmd.Name(), pflag.ContinueOnError)
	cmd.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("failed to parse flags: %v", err)
	}
	return fs.Args()
}

func newConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Dir:      t.TempDir(),
		Settings: config.DefaultSettings(),
	}
}

func seededService() *testutil.FakeService {
	svc := testutil.NewFakeService()
	svc.AddTask("1", "Buy milk", "2 liters")
	svc.AddTask("2", "Call mom", "Sunday")
	return svc
}

// Tests for version command
func TestVersionCommand(t *testing.T) {
	cmd := &commands.VersionCmd{}

	stdout, stderr, code := runCommand(t, cmd, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "taskctl 0.1.0\n" {
		t.Errorf("expected version output, got %q", stdout)
	}
}

// Tests for help command
func TestHelpCommand(t *testing.T) {
	cmd := &commands.HelpCmd{}

	stdout, stderr, code := runCommand(t, cmd, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	testutil.GoldenString(t, "help", stdout)
}

func TestHelpMentionsEveryCommand(t *testing.T) {
	stdout, _, _ := runCommand(t, &commands.HelpCmd{}, nil, nil, false)

	for _, cmd := range commands.DefaultRegistry.All() {
		if !strings.Contains(stdout, "taskctl "+cmd.Name()) {
			t.Errorf("help output does not mention %q", cmd.Name())
		}
	}
}

// Tests for list command
func TestListCommand_WithTasks(t *testing.T) {
	svc := seededService()

	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, svc, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}

	expected := "   1  Buy milk\n      2 liters\n   2  Call mom\n      Sunday\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestListCommand_Empty(t *testing.T) {
	svc := testutil.NewFakeService()

	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, svc, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "no tasks found\n" {
		t.Errorf("expected 'no tasks found', got %q", stdout)
	}
}

func TestListCommand_EmptyQuiet(t *testing.T) {
	svc := testutil.NewFakeService()

	stdout, _, code := runCommand(t, &commands.ListCmd{}, svc, nil, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout in quiet mode, got %q", stdout)
	}
}

func TestListCommand_JSON(t *testing.T) {
	svc := seededService()
	cfg := newConfig(t)
	cfg.Settings.Output.Format = "json"

	stdout, stderr, code := runCommandWith(t, &commands.ListCmd{}, cfg, svc, nil)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}

	var tasks []service.Task
	if err := json.Unmarshal([]byte(stdout), &tasks); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", stdout, err)
	}
	if len(tasks) != 2 || tasks[1].Title != "Call mom" {
		t.Errorf("unexpected tasks: %+v", tasks)
	}
}

func TestListCommand_BackendError(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.ListErr = testutil.ErrInjected

	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, svc, nil, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if stderr != "error: Failed to load tasks.\n" {
		t.Errorf("expected load failure, got %q", stderr)
	}
}

func TestListCommand_FailureEnvelope(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.Failures[service.OpList] = "Database unavailable"

	_, stderr, code := runCommand(t, &commands.ListCmd{}, svc, nil, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stderr != "error: Database unavailable\n" {
		t.Errorf("expected server message, got %q", stderr)
	}
}

func TestListCommand_UnexpectedArgument(t *testing.T) {
	svc := seededService()

	_, stderr, code := runCommand(t, &commands.ListCmd{}, svc, []string{"work"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: unexpected argument: work\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if svc.TotalCalls() != 0 {
		t.Errorf("expected no calls, got %d", svc.TotalCalls())
	}
}

// Tests for show command
func TestShowCommand_Success(t *testing.T) {
	svc := seededService()

	stdout, stderr, code := runCommand(t, &commands.ShowCmd{}, svc, []string{"2"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	expected := "id:          2\ntitle:       Call mom\ndescription: Sunday\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestShowCommand_NotFound(t *testing.T) {
	svc := seededService()

	_, stderr, code := runCommand(t, &commands.ShowCmd{}, svc, []string{"99"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: Task not found\n" {
		t.Errorf("expected not found error, got %q", stderr)
	}
}

func TestShowCommand_EmptyResult(t *testing.T) {
	svc := seededService()
	svc.EmptyGet = true

	_, stderr, code := runCommand(t, &commands.ShowCmd{}, svc, []string{"1"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: Task not found.\n" {
		t.Errorf("expected not found error, got %q", stderr)
	}
}

func TestShowCommand_NoID(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.ShowCmd{}, seededService(), nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: task id required\n" {
		t.Errorf("expected id required, got %q", stderr)
	}
}

// Tests for add command
func TestAddCommand_Success(t *testing.T) {
	svc := seededService()
	cmd := &commands.AddCmd{}
	cmd.SetDraft("", "Whole grain")

	stdout, stderr, code := runCommand(t, cmd, svc, []string{"Buy", "bread"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	expected := "Task created successfully\n   3  Buy bread\n      Whole grain\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}

	tasks := svc.Tasks()
	if len(tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(tasks))
	}
	if tasks[2].Title != "Buy bread" || tasks[2].Description != "Whole grain" {
		t.Errorf("unexpected task: %+v", tasks[2])
	}
}

func TestAddCommand_TitleFlag(t *testing.T) {
	svc := testutil.NewFakeService()
	cmd := &commands.CreateCmd{}
	args := parseFlags(t, cmd, "--title", "Pay rent", "-d", "Before Friday")

	_, stderr, code := runCommand(t, cmd, svc, args, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	tasks := svc.Tasks()
	if len(tasks) != 1 || tasks[0].Title != "Pay rent" || tasks[0].Description != "Before Friday" {
		t.Errorf("unexpected tasks: %+v", tasks)
	}
}

func TestAddCommand_Quiet(t *testing.T) {
	svc := testutil.NewFakeService()
	cmd := &commands.AddCmd{}
	cmd.SetDraft("A", "B")

	stdout, stderr, code := runCommand(t, cmd, svc, nil, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout in quiet mode, got %q", stdout)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
}

func TestAddCommand_MissingDescription(t *testing.T) {
	svc := testutil.NewFakeService()
	cmd := &commands.AddCmd{}
	cmd.SetDraft("", "")

	stdout, stderr, code := runCommand(t, cmd, svc, []string{"Buy", "bread"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if stderr != "error: Please fill out all fields.\n" {
		t.Errorf("expected validation error, got %q", stderr)
	}
	if svc.Calls(service.OpCreate) != 0 {
		t.Errorf("expected no create call, got %d", svc.Calls(service.OpCreate))
	}
}

func TestAddCommand_TitleTwice(t *testing.T) {
	svc := testutil.NewFakeService()
	cmd := &commands.AddCmd{}
	cmd.SetDraft("A", "B")

	_, stderr, code := runCommand(t, cmd, svc, []string{"C"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: cannot use both --title and a positional title\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestAddCommand_BackendError(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.CreateErr = testutil.ErrInjected
	cmd := &commands.AddCmd{}
	cmd.SetDraft("A", "B")

	_, stderr, code := runCommand(t, cmd, svc, nil, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stderr != "error: Something went wrong. Please try again.\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestAddCommand_JSON(t *testing.T) {
	svc := testutil.NewFakeService()
	cfg := newConfig(t)
	cfg.Settings.Output.Format = "json"
	cmd := &commands.AddCmd{}
	cmd.SetDraft("A", "B")

	stdout, stderr, code := runCommandWith(t, cmd, cfg, svc, nil)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "Task created successfully\n" {
		t.Errorf("expected success message on stderr, got %q", stderr)
	}
	var task service.Task
	if err := json.Unmarshal([]byte(stdout), &task); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", stdout, err)
	}
	if task.ID != "1" || task.Title != "A" {
		t.Errorf("unexpected task: %+v", task)
	}
}

// Tests for edit command
func TestEditCommand_Success(t *testing.T) {
	svc := seededService()
	cmd := &commands.EditCmd{}
	cmd.SetDraft("Buy oat milk", "")

	stdout, stderr, code := runCommand(t, cmd, svc, []string{"1"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	expected := "Task updated successfully!\n   1  Buy oat milk\n      2 liters\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
	if got := svc.Tasks()[0]; got.Title != "Buy oat milk" || got.Description != "2 liters" {
		t.Errorf("unexpected stored task: %+v", got)
	}
}

func TestEditCommand_NothingToChange(t *testing.T) {
	svc := seededService()
	cmd := &commands.EditCmd{}
	cmd.SetDraft("", "")

	_, stderr, code := runCommand(t, cmd, svc, []string{"1"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: nothing to change (use --title or --description)\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if svc.TotalCalls() != 0 {
		t.Errorf("expected no calls, got %d", svc.TotalCalls())
	}
}

func TestEditCommand_UnknownID(t *testing.T) {
	svc := seededService()
	cmd := &commands.EditCmd{}
	cmd.SetDraft("X", "")

	_, stderr, code := runCommand(t, cmd, svc, []string{"99"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: Task not found\n" {
		t.Errorf("expected not found error, got %q", stderr)
	}
	if svc.Calls(service.OpUpdate) != 0 {
		t.Errorf("expected no update call, got %d", svc.Calls(service.OpUpdate))
	}
}

// Tests for rm command
func TestRmCommand_Success(t *testing.T) {
	svc := seededService()

	stdout, stderr, code := runCommand(t, &commands.RmCmd{}, svc, []string{"2"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "Task deleted successfully!\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}
	if tasks := svc.Tasks(); len(tasks) != 1 || tasks[0].ID != "1" {
		t.Errorf("unexpected tasks after delete: %+v", tasks)
	}
}

func TestRmCommand_NoID(t *testing.T) {
	svc := seededService()

	_, stderr, code := runCommand(t, &commands.RmCmd{}, svc, nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: task id required\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestRmCommand_TooManyArgs(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.RmCmd{}, seededService(), []string{"1", "2"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: expected one task id, got 2 arguments\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestRmCommand_TransportError(t *testing.T) {
	svc := seededService()
	svc.DeleteErr = testutil.ErrInjected

	_, stderr, code := runCommand(t, &commands.RmCmd{}, svc, []string{"1"}, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stderr != "error: An error occurred while deleting the task.\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if len(svc.Tasks()) != 2 {
		t.Errorf("expected tasks unchanged, got %d", len(svc.Tasks()))
	}
}

// Tests for config command
func TestConfigCommand(t *testing.T) {
	cfg := newConfig(t)

	stdout, stderr, code := runCommandWith(t, &commands.ConfigCmd{}, cfg, nil, nil)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	for _, want := range []string{"# dir: " + cfg.Dir, "base_url: http://localhost:3000/tasks", "format: text"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in output, got %q", want, stdout)
		}
	}
}
