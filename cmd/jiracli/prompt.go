package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/term"
)

// prompter は標準入力から値を対話的に読み取ります
type prompter struct {
	in     io.Reader
	reader *bufio.Reader
	out    io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{
		in:     in,
		reader: bufio.NewReader(in),
		out:    out,
	}
}

// Ask は空でない値が入力されるまで繰り返し尋ねます
func (p *prompter) Ask(label string) (string, error) {
	for {
		fmt.Fprintf(p.out, "%s: ", label)
		line, err := p.reader.ReadString('\n')
		value := strings.TrimSpace(line)
		if value != "" {
			return value, nil
		}
		if err != nil {
			return "", errors.Wrapf(err, "%s の入力を読み取れません", label)
		}
	}
}

// AskSecret は入力を表示せずに値を読み取ります。
// 端末でない場合は通常の入力として読み取ります。
func (p *prompter) AskSecret(label string) (string, error) {
	f, ok := p.in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return p.Ask(label)
	}

	for {
		fmt.Fprintf(p.out, "%s: ", label)
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(p.out)
		if err != nil {
			return "", errors.Wrapf(err, "%s の入力を読み取れません", label)
		}
		if value := strings.TrimSpace(string(b)); value != "" {
			return value, nil
		}
	}
}
