package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// jsonInput is the --data / --file pair accepted by commands that take a
// JSON document.
type jsonInput struct {
	data string
	file string
}

func (in *jsonInput) register(cmd *cobra.Command, what string) {
	cmd.Flags().StringVar(&in.data, "data", "", what+" as inline JSON")
	cmd.Flags().StringVar(&in.file, "file", "", what+" from a JSON file (- for stdin)")
}

// decode reads the document and unmarshals it into v.
func (in *jsonInput) decode(cmd *cobra.Command, v any) error {
	var raw []byte
	switch {
	case in.data != "":
		raw = []byte(in.data)
	case in.file == "-":
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return sysError(fmt.Errorf("read stdin: %w", err))
		}
		raw = b
	case in.file != "":
		b, err := os.ReadFile(in.file)
		if err != nil {
			return userError(fmt.Errorf("read %s: %w", in.file, err))
		}
		raw = b
	default:
		return userError(errors.New("--data or --file is required"))
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return userError(fmt.Errorf("parse JSON input: %w", err))
	}
	return nil
}

// readPassword prompts on stderr. A terminal on stdin is read without
// echo; anything else is read one line at a time.
func (a *app) readPassword(cmd *cobra.Command, prompt string) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", sysError(fmt.Errorf("read password: %w", err))
		}
		return string(b), nil
	}
	if a.stdin == nil {
		a.stdin = bufio.NewReader(cmd.InOrStdin())
	}
	line, err := a.stdin.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", sysError(fmt.Errorf("read password: %w", err))
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// passwordFlag returns the flag value when it was given, else prompts.
func (a *app) passwordFlag(cmd *cobra.Command, name, prompt string) (string, error) {
	if cmd.Flags().Changed(name) {
		return cmd.Flags().GetString(name)
	}
	return a.readPassword(cmd, prompt)
}

// listFlag returns a comma-separated flag as a JSON-style list, or nil when
// the flag was not given. An empty value yields an empty list.
func listFlag(cmd *cobra.Command, name string) any {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	out := []any{}
	for _, part := range strings.Split(v, ",") {
		out = append(out, part)
	}
	return out
}
