// Package types holds what the client subcommands share: the app in the
// command context, password prompts and output helpers.
package types

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"credvault/internal/app/client"
)

type ctxKey string

const ClientAppKey ctxKey = "app"

var (
	ErrNoApp            = errors.New("application is not initialized")
	ErrPasswordMismatch = errors.New("passwords do not match")
)

var (
	Success = color.New(color.FgGreen).SprintFunc()
	Warning = color.New(color.FgYellow).SprintFunc()
	Muted   = color.New(color.Faint).SprintFunc()
)

// JSONOutput is bound to the root --json flag.
var JSONOutput bool

func WithApp(ctx context.Context, app *client.App) context.Context {
	return context.WithValue(ctx, ClientAppKey, app)
}

func App(cmd *cobra.Command) (*client.App, error) {
	app, ok := cmd.Context().Value(ClientAppKey).(*client.App)
	if !ok || app == nil {
		return nil, ErrNoApp
	}
	return app, nil
}

// OpenApp returns the app with the vault unlocked, prompting for the master
// password unless CREDVAULT_PASSWORD is set.
func OpenApp(cmd *cobra.Command) (*client.App, error) {
	app, err := App(cmd)
	if err != nil {
		return nil, err
	}
	if app.Store().Unlocked() {
		return app, nil
	}

	password := app.Config().Password
	if password == "" {
		password, err = ReadPassword(cmd.ErrOrStderr(), "Master password: ")
		if err != nil {
			return nil, err
		}
	}
	if err := app.Open(cmd.Context(), password); err != nil {
		return nil, err
	}
	return app, nil
}

// ReadPassword prompts on out and reads a line without echo. When stdin is
// not a terminal the line is read as is.
func ReadPassword(out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		var line string
		if _, err := fmt.Fscanln(os.Stdin, &line); err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read password: %w", err)
		}
		return strings.TrimSpace(line), nil
	}

	b, err := term.ReadPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}

// ReadNewPassword asks for a password twice.
func ReadNewPassword(out io.Writer, prompt string) (string, error) {
	first, err := ReadPassword(out, prompt)
	if err != nil {
		return "", err
	}
	second, err := ReadPassword(out, "Repeat: ")
	if err != nil {
		return "", err
	}
	if first != second {
		return "", ErrPasswordMismatch
	}
	return first, nil
}

func PrintJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// KeyValues parses repeated "key=value" flags.
func KeyValues(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("expected key=value, got %q", p)
		}
		out[strings.TrimSpace(k)] = v
	}
	return out, nil
}

func Truncate(s string, length int) string {
	r := []rune(s)
	if len(r) <= length {
		return s
	}
	return string(r[:length-3]) + "..."
}
