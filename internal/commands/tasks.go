package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/fastygo/taskbox/api/transport"
	"github.com/fastygo/taskbox/domain"
	"github.com/fastygo/taskbox/internal/exitcode"
)

func init() {
	Register(&ListCmd{})
	Register(&ShowCmd{})
	Register(&AddCmd{})
	Register(&DoneCmd{})
	Register(&EditCmd{})
	Register(&RmCmd{})
}

type ListCmd struct {
	open bool
	tag  string
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List your tasks" }
func (c *ListCmd) Usage() string     { return "taskctl list [--open] [--tag <tag>]" }
func (c *ListCmd) NeedsAuth() bool   { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.open, "open", false, "")
	fs.StringVar(&c.tag, "tag", "", "")
}

func (c *ListCmd) Run(ctx context.Context, sess *Session, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}
	if _, res := sess.Gateway.GetTasks(ctx); !res.OK() {
		return report(errOut, res)
	}

	shown := 0
	for _, task := range sess.State.State().Tasks.Tasks {
		if c.open && task.Completed {
			continue
		}
		if c.tag != "" && !hasTag(task, c.tag) {
			continue
		}
		printTask(out, task)
		shown++
	}
	if shown == 0 && !sess.Config.Quiet {
		fmt.Fprintln(out, "no tasks")
	}
	return exitcode.Success
}

func hasTag(task domain.Task, tag string) bool {
	for _, t := range task.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

type ShowCmd struct{}

func (c *ShowCmd) Name() string      { return "show" }
func (c *ShowCmd) Aliases() []string { return nil }
func (c *ShowCmd) Synopsis() string  { return "Show one task" }
func (c *ShowCmd) Usage() string     { return "taskctl show <id>" }
func (c *ShowCmd) NeedsAuth() bool   { return true }

func (c *ShowCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ShowCmd) Run(ctx context.Context, sess *Session, args []string, out, errOut io.Writer) int {
	id, ok := taskIDArg(args, errOut)
	if !ok {
		return exitcode.UserError
	}
	tasks, res := sess.Gateway.GetTask(ctx, id)
	if !res.OK() {
		return report(errOut, res)
	}
	if len(tasks) == 0 {
		fmt.Fprintf(errOut, "error: task not found: %s\n", id)
		return exitcode.UserError
	}
	printTaskDetail(out, tasks[0])
	return exitcode.Success
}

type AddCmd struct {
	description string
	tags        string
	due         string
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string {
	return "taskctl add --description <text> --due <YYYY-MM-DD> [--tags a,b] <title...>"
}
func (c *AddCmd) NeedsAuth() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.description, "description", "", "")
	fs.StringVar(&c.description, "d", "", "")
	fs.StringVar(&c.tags, "tags", "", "")
	fs.StringVar(&c.due, "due", "", "")
}

// Run leaves required-field checks to the server so its messages are shown as-is.
func (c *AddCmd) Run(ctx context.Context, sess *Session, args []string, out, errOut io.Writer) int {
	req := transport.TaskCreateRequest{
		Title:       strings.Join(args, " "),
		Description: c.description,
		Tags:        splitTags(c.tags),
	}
	if c.due != "" {
		due, err := domain.ParseDate(c.due)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		req.ExpiryDate = due
	}

	task, res := sess.Gateway.AddTask(ctx, req)
	if !res.OK() {
		return report(errOut, res)
	}
	if !sess.Config.Quiet {
		printTask(out, *task)
	}
	return exitcode.Success
}

type DoneCmd struct {
	undo bool
}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return []string{"complete"} }
func (c *DoneCmd) Synopsis() string  { return "Mark a task completed" }
func (c *DoneCmd) Usage() string     { return "taskctl done [--undo] <id>" }
func (c *DoneCmd) NeedsAuth() bool   { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.undo, "undo", false, "")
}

func (c *DoneCmd) Run(ctx context.Context, sess *Session, args []string, out, errOut io.Writer) int {
	id, ok := taskIDArg(args, errOut)
	if !ok {
		return exitcode.UserError
	}
	completed := !c.undo
	task, res := sess.Gateway.UpdateTask(ctx, id, domain.TaskPatch{Completed: &completed})
	if !res.OK() {
		return report(errOut, res)
	}
	if !sess.Config.Quiet {
		printTask(out, *task)
	}
	return exitcode.Success
}

// optional is a string flag that remembers whether it was given.
type optional struct {
	set   bool
	value string
}

func (o *optional) String() string { return o.value }

func (o *optional) Set(v string) error {
	o.set = true
	o.value = v
	return nil
}

type EditCmd struct {
	title       optional
	description optional
	tags        optional
	due         optional
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Change fields of a task" }
func (c *EditCmd) Usage() string {
	return "taskctl edit [--title <t>] [--description <d>] [--tags a,b] [--due <YYYY-MM-DD>] <id>"
}
func (c *EditCmd) NeedsAuth() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	*c = EditCmd{}
	fs.Var(&c.title, "title", "")
	fs.Var(&c.description, "description", "")
	fs.Var(&c.description, "d", "")
	fs.Var(&c.tags, "tags", "")
	fs.Var(&c.due, "due", "")
}

// Run sends only the given fields. Values are not validated, matching the
// server, which applies partial updates as they come.
func (c *EditCmd) Run(ctx context.Context, sess *Session, args []string, out, errOut io.Writer) int {
	id, ok := taskIDArg(args, errOut)
	if !ok {
		return exitcode.UserError
	}

	var patch domain.TaskPatch
	if c.title.set {
		patch.Title = &c.title.value
	}
	if c.description.set {
		patch.Description = &c.description.value
	}
	if c.tags.set {
		tags := splitTags(c.tags.value)
		patch.Tags = &tags
	}
	if c.due.set {
		due, err := domain.ParseDate(c.due.value)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		patch.ExpiryDate = &due
	}
	if patch.IsEmpty() {
		fmt.Fprintln(errOut, "error: nothing to change")
		return exitcode.UserError
	}

	task, res := sess.Gateway.UpdateTask(ctx, id, patch)
	if !res.OK() {
		return report(errOut, res)
	}
	if !sess.Config.Quiet {
		printTask(out, *task)
	}
	return exitcode.Success
}

type RmCmd struct{}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return []string{"delete"} }
func (c *RmCmd) Synopsis() string  { return "Delete a task" }
func (c *RmCmd) Usage() string     { return "taskctl rm <id>" }
func (c *RmCmd) NeedsAuth() bool   { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RmCmd) Run(ctx context.Context, sess *Session, args []string, out, errOut io.Writer) int {
	id, ok := taskIDArg(args, errOut)
	if !ok {
		return exitcode.UserError
	}
	if res := sess.Gateway.DeleteTask(ctx, id); !res.OK() {
		return report(errOut, res)
	}
	if !sess.Config.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

func taskIDArg(args []string, errOut io.Writer) (string, bool) {
	if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
		fmt.Fprintln(errOut, "error: exactly one task id required")
		return "", false
	}
	return args[0], true
}
