package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/patrickprogramme/ccviewer/internal/bilibili"
	"github.com/patrickprogramme/ccviewer/internal/clipboard"
)

type terminalUI struct {
	reader *bufio.Reader
	out    io.Writer
	errOut io.Writer
	lines  chan lineResult
}

type lineResult struct {
	line string
	err  error
}

func NewTerminal() Interface {
	return NewTerminalWith(os.Stdin, os.Stdout, os.Stderr)
}

// NewTerminalWith permet de brancher d'autres flux (tests).
func NewTerminalWith(in io.Reader, out, errOut io.Writer) Interface {
	return &terminalUI{reader: bufio.NewReader(in), out: out, errOut: errOut}
}

func (t *terminalUI) GetVideoRef(ctx context.Context) (string, error) {
	// 1) clipboard
	if clip, err := clipboard.ReadAll(); err == nil {
		if bilibili.IsVideoRef(clip) {
			t.PrintInfo(ctx, fmt.Sprintf("Utilisation de la vidéo depuis le presse-papier: %s", strings.TrimSpace(clip)))
			return strings.TrimSpace(clip), nil
		}
	}
	// 2) prompt
	for {
		fmt.Fprint(t.out, "Entrez l'URL ou le BV d'une vidéo Bilibili: ")
		line, err := t.readLine(ctx)
		ref := strings.TrimSpace(line)
		if bilibili.IsVideoRef(ref) {
			return ref, nil
		}
		if err != nil {
			return "", fmt.Errorf("lecture stdin: %w", err)
		}
		fmt.Fprintln(t.out, "❌ Référence invalide. Essayez à nouveau.")
	}
}

func (t *terminalUI) PrintInfo(ctx context.Context, s string) {
	fmt.Fprintln(t.out, s)
}

func (t *terminalUI) PrintError(ctx context.Context, s string) {
	fmt.Fprintln(t.errOut, s)
}

func (t *terminalUI) ReadCommand(ctx context.Context) (string, error) {
	line, err := t.readLine(ctx)
	cmd := strings.ToLower(strings.TrimSpace(line))
	if cmd != "" {
		return cmd, nil
	}
	return "", err
}

// readLine lit une ligne sans bloquer l'annulation du ctx. Une goroutine unique
// (pump) lit stdin ; une ligne arrivée après annulation est servie à l'appel suivant.
func (t *terminalUI) readLine(ctx context.Context) (string, error) {
	if t.lines == nil {
		t.lines = make(chan lineResult, 1)
		go t.pump()
	}
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r, ok := <-t.lines:
		if !ok {
			return "", io.EOF
		}
		return r.line, r.err
	}
}

func (t *terminalUI) pump() {
	defer close(t.lines)
	for {
		line, err := t.reader.ReadString('\n')
		t.lines <- lineResult{line: line, err: err}
		if err != nil {
			return
		}
	}
}
