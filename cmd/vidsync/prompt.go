package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"vidsync/internal/reconcile"
)

// terminalDecider resolves duplicate conflicts by prompting the operator.
type terminalDecider struct {
	in  *bufio.Reader
	out io.Writer
}

func newTerminalDecider(in io.Reader, out io.Writer) (*terminalDecider, error) {
	if f, ok := in.(*os.File); ok {
		if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
			return nil, errors.New("interactive duplicate handling needs a terminal; use --auto-merge instead")
		}
	}
	return &terminalDecider{in: bufio.NewReader(in), out: out}, nil
}

func (d *terminalDecider) Decide(ctx context.Context, conflict reconcile.Conflict) (reconcile.Decision, error) {
	fmt.Fprintf(d.out, "\nDuplicate original URL: %s\n", conflict.URL)
	fmt.Fprintln(d.out, conflictTable(conflict))
	if conflict.Note != "" {
		fmt.Fprintf(d.out, "Sheet note: %s\n", conflict.Note)
	}
	fmt.Fprintln(d.out, "  [1] Skip      keep the existing record")
	fmt.Fprintln(d.out, "  [2] Overwrite replace it with the new record")
	fmt.Fprintln(d.out, "  [3] Merge     combine both, preferring new values")
	fmt.Fprintln(d.out, "  [4] Add       force a second record with the same URL")
	fmt.Fprintln(d.out, "  [q] Quit      stop the import")

	for {
		if err := ctx.Err(); err != nil {
			return reconcile.DecisionCancel, err
		}
		fmt.Fprint(d.out, "Choice [1/2/3/4/q]: ")
		line, err := d.in.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				return reconcile.DecisionCancel, nil
			}
			return reconcile.DecisionCancel, fmt.Errorf("read choice: %w", err)
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "1":
			return reconcile.DecisionSkip, nil
		case "2":
			return reconcile.DecisionOverwrite, nil
		case "3":
			return reconcile.DecisionMerge, nil
		case "4":
			return reconcile.DecisionAdd, nil
		case "q":
			return reconcile.DecisionCancel, nil
		default:
			fmt.Fprintln(d.out, "Invalid choice, try again.")
		}
	}
}
