package scanner

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mna/lox/lang/token"
)

// Error is a single diagnostic produced while scanning or parsing, tagged
// with the source position it refers to. It is modeled on go/scanner.Error,
// adapted to this language's line-only "[line N] ..." diagnostic format
// rather than go/scanner's byte-offset Position.
type Error struct {
	Pos token.Pos
	Msg string
}

func (e Error) Error() string {
	if !e.Pos.IsValid() {
		return e.Msg
	}
	return fmt.Sprintf("[line %d] %s", e.Pos.Line(), e.Msg)
}

// ErrorList is a list of *Error, accumulated during scanning or parsing
// instead of failing at the first one, exactly as go/scanner.ErrorList
// accumulates compiler errors.
type ErrorList []*Error

// Add appends an error to the list.
func (el *ErrorList) Add(pos token.Pos, msg string) {
	*el = append(*el, &Error{Pos: pos, Msg: msg})
}

// Addf appends a formatted error to the list.
func (el *ErrorList) Addf(pos token.Pos, format string, args ...any) {
	el.Add(pos, fmt.Sprintf(format, args...))
}

func (el ErrorList) Len() int      { return len(el) }
func (el ErrorList) Swap(i, j int) { el[i], el[j] = el[j], el[i] }
func (el ErrorList) Less(i, j int) bool {
	return el[i].Pos.Line() < el[j].Pos.Line() ||
		(el[i].Pos.Line() == el[j].Pos.Line() && el[i].Pos.Col() < el[j].Pos.Col())
}

// Sort sorts the error list by source position.
func (el ErrorList) Sort() { sort.Sort(el) }

func (el ErrorList) Error() string {
	switch len(el) {
	case 0:
		return "no errors"
	case 1:
		return el[0].Error()
	}
	var sb strings.Builder
	for i, e := range el {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(e.Error())
	}
	return sb.String()
}

// Unwrap lets errors.Is/As traverse the individual errors in the list.
func (el ErrorList) Unwrap() []error {
	errs := make([]error, len(el))
	for i, e := range el {
		errs[i] = e
	}
	return errs
}

// Err returns el as an error if it is non-empty, nil otherwise.
func (el ErrorList) Err() error {
	if len(el) == 0 {
		return nil
	}
	return el
}

// PrintError prints an error, which may be a single *Error, an ErrorList, or
// any other error, to w in a "[line N] Error ...\n"-style format, one
// diagnostic per line.
func PrintError(w io.Writer, err error) {
	if el, ok := err.(ErrorList); ok {
		for _, e := range el {
			fmt.Fprintln(w, e)
		}
		return
	}
	fmt.Fprintln(w, err)
}
