package commands

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fastygo/taskbox/domain"
	"github.com/fastygo/taskbox/internal/client/gateway"
	"github.com/fastygo/taskbox/internal/exitcode"
)

// report prints a failed result and maps it to an exit code. An unreachable
// server prints nothing here; the dispatcher shows the offline banner.
func report(errOut io.Writer, res gateway.Result) int {
	switch r := res.(type) {
	case gateway.Success:
		return exitcode.Success
	case gateway.HTTPError:
		if r.Unauthorized() {
			fmt.Fprintf(errOut, "error: %s (run: taskctl login)\n", r.Error())
			return exitcode.AuthError
		}
		if len(r.Fields) > 1 {
			for _, f := range r.Fields {
				fmt.Fprintf(errOut, "error: %s\n", f.Msg)
			}
		} else {
			fmt.Fprintf(errOut, "error: %s\n", r.Error())
		}
		if r.Status >= http.StatusInternalServerError {
			return exitcode.BackendError
		}
		return exitcode.UserError
	}
	return exitcode.BackendError
}

func printTask(out io.Writer, task domain.Task) {
	mark := " "
	if task.Completed {
		mark = "x"
	}
	line := fmt.Sprintf("%s  [%s] %s", task.ID, mark, task.Title)
	if !task.ExpiryDate.IsZero() {
		line += "  due " + task.ExpiryDate.String()
	}
	for _, tag := range task.Tags {
		line += " #" + tag
	}
	fmt.Fprintln(out, line)
}

func printTaskDetail(out io.Writer, task domain.Task) {
	status := "open"
	if task.Completed {
		status = "done"
	}
	fmt.Fprintf(out, "id:          %s\n", task.ID)
	fmt.Fprintf(out, "title:       %s\n", task.Title)
	fmt.Fprintf(out, "description: %s\n", task.Description)
	fmt.Fprintf(out, "status:      %s\n", status)
	fmt.Fprintf(out, "due:         %s\n", task.ExpiryDate.String())
	fmt.Fprintf(out, "tags:        %s\n", strings.Join(task.Tags, ", "))
}

// splitTags turns "a, b,,c" into [a b c].
func splitTags(raw string) []string {
	tags := []string{}
	for _, tag := range strings.Split(raw, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// readPassword reads one line from in after prompting on errOut.
func readPassword(in io.Reader, errOut io.Writer) string {
	if in == nil {
		return ""
	}
	fmt.Fprint(errOut, "Password: ")
	line, _ := bufio.NewReader(in).ReadString('\n')
	return strings.TrimRight(line, "\r\n")
}
