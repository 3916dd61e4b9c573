package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/amirbrooks/promemoria/internal/store"
)

var (
	errInputClosed     = errors.New("input closed")
	errTooManyAttempts = errors.New("too many invalid attempts")
)

// prompter reads answers line by line. Invalid answers are re-asked in a
// loop bounded by maxAttempts (0 means until input ends).
type prompter struct {
	in          *bufio.Reader
	out         io.Writer
	maxAttempts int
}

func newPrompter(in io.Reader, out io.Writer, maxAttempts int) *prompter {
	return &prompter{in: bufio.NewReader(in), out: out, maxAttempts: maxAttempts}
}

func (p *prompter) line(label string) (string, error) {
	fmt.Fprint(p.out, label)
	s, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && s != "" {
			return strings.TrimRight(s, "\r\n"), nil
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(p.out)
			return "", errInputClosed
		}
		return "", err
	}
	return strings.TrimRight(s, "\r\n"), nil
}

// retry asks label until accept returns nil.
func (p *prompter) retry(label string, accept func(raw string) error) error {
	for attempt := 1; ; attempt++ {
		raw, err := p.line(label)
		if err != nil {
			return err
		}
		err = accept(raw)
		if err == nil {
			return nil
		}
		fmt.Fprintf(p.out, "Invalid value: %v\n", err)
		if p.maxAttempts > 0 && attempt >= p.maxAttempts {
			return errTooManyAttempts
		}
	}
}

// name asks for a required name and capitalises it.
func (p *prompter) name(label string) (string, error) {
	var out string
	err := p.retry(label, func(raw string) error {
		out = capitalize(raw)
		if out == "" {
			return store.ErrEmptyInput
		}
		return nil
	})
	return out, err
}

func (p *prompter) date(label string) (string, error) {
	var out string
	err := p.retry(label, func(raw string) error {
		d, err := store.ParseDate(raw)
		if err != nil {
			return err
		}
		out = d
		return nil
	})
	return out, err
}

// choice asks for a number between 1 and n.
func (p *prompter) choice(label string, n int) (int, error) {
	var out int
	err := p.retry(label, func(raw string) error {
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || v < 1 || v > n {
			return fmt.Errorf("choose between 1 and %d", n)
		}
		out = v
		return nil
	})
	return out, err
}

func (p *prompter) confirm(question string) (bool, error) {
	fmt.Fprintln(p.out, question)
	fmt.Fprintln(p.out, "  1. Yes")
	fmt.Fprintln(p.out, "  2. No")
	v, err := p.choice("> ", 2)
	return v == 1, err
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
