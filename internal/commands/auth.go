package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/fastygo/taskbox/internal/client/gateway"
	"github.com/fastygo/taskbox/internal/exitcode"
)

func init() {
	Register(&RegisterCmd{})
	Register(&LoginCmd{})
	Register(&LogoutCmd{})
	Register(&WhoamiCmd{})
}

// credentials are shared by register and login.
type credentials struct {
	email    string
	password string
}

func (c *credentials) registerFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.email, "e", "", "")
	fs.StringVar(&c.password, "password", "", "")
	fs.StringVar(&c.password, "p", "", "")
}

// resolve takes the email from the first positional arg when -email is absent
// and prompts for the password when -password is absent.
func (c *credentials) resolve(sess *Session, args []string, errOut io.Writer) (string, string, bool) {
	email := c.email
	if email == "" && len(args) > 0 {
		email = args[0]
	}
	if strings.TrimSpace(email) == "" {
		fmt.Fprintln(errOut, "error: email required")
		return "", "", false
	}
	password := c.password
	if password == "" {
		password = readPassword(sess.In, errOut)
	}
	return email, password, true
}

type RegisterCmd struct{ credentials }

func (c *RegisterCmd) Name() string      { return "register" }
func (c *RegisterCmd) Aliases() []string { return []string{"signup"} }
func (c *RegisterCmd) Synopsis() string  { return "Create an account and sign in" }
func (c *RegisterCmd) Usage() string     { return "taskctl register [--password <pw>] <email>" }
func (c *RegisterCmd) NeedsAuth() bool   { return false }

func (c *RegisterCmd) RegisterFlags(fs *flag.FlagSet) { c.registerFlags(fs) }

func (c *RegisterCmd) Run(ctx context.Context, sess *Session, args []string, out, errOut io.Writer) int {
	email, password, ok := c.resolve(sess, args, errOut)
	if !ok {
		return exitcode.UserError
	}
	return signedIn(sess, sess.Gateway.Register(ctx, email, password), email, out, errOut)
}

type LoginCmd struct{ credentials }

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Sign in" }
func (c *LoginCmd) Usage() string     { return "taskctl login [--password <pw>] <email>" }
func (c *LoginCmd) NeedsAuth() bool   { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) { c.registerFlags(fs) }

func (c *LoginCmd) Run(ctx context.Context, sess *Session, args []string, out, errOut io.Writer) int {
	email, password, ok := c.resolve(sess, args, errOut)
	if !ok {
		return exitcode.UserError
	}
	return signedIn(sess, sess.Gateway.Login(ctx, email, password), email, out, errOut)
}

func signedIn(sess *Session, res gateway.Result, email string, out, errOut io.Writer) int {
	if !res.OK() {
		if auth := sess.State.State().Auth; auth.Error {
			fmt.Fprintf(errOut, "error: %s\n", auth.ErrorMessage)
			return exitcode.UserError
		}
		return report(errOut, res)
	}
	if !sess.Config.Quiet {
		fmt.Fprintf(out, "signed in as %s\n", email)
	}
	return exitcode.Success
}

type LogoutCmd struct{}

func (c *LogoutCmd) Name() string      { return "logout" }
func (c *LogoutCmd) Aliases() []string { return nil }
func (c *LogoutCmd) Synopsis() string  { return "Sign out and forget the stored token" }
func (c *LogoutCmd) Usage() string     { return "taskctl logout" }
func (c *LogoutCmd) NeedsAuth() bool   { return false }

func (c *LogoutCmd) RegisterFlags(fs *flag.FlagSet) {}

// Run always forgets the local token, even when the server cannot be told.
func (c *LogoutCmd) Run(ctx context.Context, sess *Session, args []string, out, errOut io.Writer) int {
	res := sess.Gateway.Logout(ctx)
	if sess.Config.Quiet {
		return exitcode.Success
	}
	if _, offline := res.(gateway.NetworkUnreachable); offline {
		fmt.Fprintln(out, "signed out locally")
		return exitcode.Success
	}
	fmt.Fprintln(out, "signed out")
	return exitcode.Success
}

type WhoamiCmd struct{}

func (c *WhoamiCmd) Name() string      { return "whoami" }
func (c *WhoamiCmd) Aliases() []string { return nil }
func (c *WhoamiCmd) Synopsis() string  { return "Show the signed-in account" }
func (c *WhoamiCmd) Usage() string     { return "taskctl whoami" }
func (c *WhoamiCmd) NeedsAuth() bool   { return true }

func (c *WhoamiCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *WhoamiCmd) Run(ctx context.Context, sess *Session, args []string, out, errOut io.Writer) int {
	account, res := sess.Gateway.Me(ctx)
	if !res.OK() {
		return report(errOut, res)
	}
	fmt.Fprintf(out, "%s (%s)\n", account.Email, account.ID)
	return exitcode.Success
}
