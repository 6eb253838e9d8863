package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/grafana/regexp"
)

// Options configures how fields are picked out of lines and parsed. Values
// are expected to be validated already.
type Options struct {
	// Field is the 1-based field to sum, 0 for the whole line.
	Field int
	// Hex parses every field in base 16, not only those with a 0x prefix.
	Hex bool
	// Delimiter splits lines into fields, runs of whitespace when nil.
	Delimiter *regexp.Regexp
}

// whitespacePattern matches runs of Unicode white space, the same set
// strings.TrimSpace removes. RE2's \s is ASCII only.
const whitespacePattern = `[\s\v\x{85}\p{Z}]+`

var defaultDelimiter = regexp.MustCompile(whitespacePattern)

// Result describes what a single line contributed.
type Result struct {
	// Raw is the selected field before cleaning.
	Raw string
	// Clean is the text handed to the parsers.
	Clean string
	Radix int
	// Value is what was added to the sum; Integer(0) when nothing parsed.
	Value Sum
	// Parsed reports whether the line contributed a number.
	Parsed bool
	// Err is the last parse error when Parsed is false.
	Err error
	// MaybeHex is set when the field failed to parse but would have in base 16.
	MaybeHex bool

	intErr error
}

// ParseField extracts the configured field from line and parses it. ok is
// false for blank lines, which contribute nothing.
func ParseField(line string, opts Options) (res Result, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Result{}, false
	}

	res.Raw = selectField(line, opts)

	// Commas are treated as thousands separators; this breaks numbers
	// localized with a decimal comma.
	clean := strings.ReplaceAll(strings.TrimSpace(res.Raw), ",", "")
	res.Radix = 10
	if rest, found := strings.CutPrefix(clean, "0x"); found {
		clean = rest
		res.Radix = 16
	} else if opts.Hex {
		res.Radix = 16
	}
	res.Clean = clean

	n, intErr := ParseInt128(clean, res.Radix)
	if intErr == nil {
		res.Value = Integer(n)
		res.Parsed = true
		return res, true
	}
	res.intErr = intErr

	f, floatErr := parseFloat(clean)
	if floatErr == nil {
		res.Value = Float(f)
		res.Parsed = true
		return res, true
	}
	res.Err = floatErr

	if _, err := ParseInt128(clean, 16); err == nil {
		res.MaybeHex = true
	}
	return res, true
}

func selectField(line string, opts Options) string {
	if opts.Field == 0 {
		return line
	}
	delim := opts.Delimiter
	if delim == nil {
		delim = defaultDelimiter
	}
	fields := delim.Split(line, opts.Field+1)
	if opts.Field > len(fields) {
		return ""
	}
	return fields[opts.Field-1]
}

// parseFloat parses decimal floats only. Values out of range are kept as
// ±Inf rather than rejected.
func parseFloat(s string) (float64, error) {
	if hasHexPrefix(s) {
		return 0, &strconv.NumError{Func: "ParseFloat", Num: s, Err: strconv.ErrSyntax}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return f, nil
		}
		return 0, err
	}
	return f, nil
}

// strconv.ParseFloat accepts hex floats and underscores after a base
// prefix; neither is a decimal float.
func hasHexPrefix(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

// ErrInvalidUTF8 is returned by Run for lines that are not valid UTF-8.
var ErrInvalidUTF8 = errors.New("stream did not contain valid UTF-8")

// Processor folds lines into a running Sum.
type Processor struct {
	opts   Options
	logger *slog.Logger

	sum   Sum
	count int
	lines int
	empty int
}

func NewProcessor(opts Options, logger *slog.Logger) *Processor {
	return &Processor{
		opts:   opts,
		logger: logger,
	}
}

// Line processes a single line. ok is false when the line was blank. The
// only error is ErrOverflow.
func (p *Processor) Line(line string) (Result, bool, error) {
	p.lines++
	p.logger.Debug("line", "i", p.lines, "line", line)

	res, ok := ParseField(line, p.opts)
	if !ok {
		p.empty++
		return res, false, nil
	}

	if res.intErr != nil {
		p.logger.Info("not integer", "err", res.intErr, "clean", res.Clean, "radix", res.Radix)
	}
	if res.Err != nil {
		p.logger.Info("not float", "err", res.Err, "clean", res.Clean)
	}
	if res.MaybeHex {
		p.logger.Warn(fmt.Sprintf("failed to parse %q, but it may be hex; consider using -x", res.Clean))
	}

	var err error
	if res.Value.IsFloat() {
		p.sum.AddFloat(res.Value.Float64())
	} else {
		err = p.sum.AddInteger(res.Value.Int())
	}
	if err != nil {
		return res, true, err
	}

	if res.Parsed {
		p.count++
	}
	return res, true, nil
}

type lineScanner interface {
	Scan() bool
	Text() string
	Err() error
}

// Run feeds every line of src through the processor, calling fn with the
// result of each non-blank line. fn may be nil. Invalid UTF-8 stops the
// run like a read error.
func (p *Processor) Run(src lineScanner, fn func(Result)) error {
	for src.Scan() {
		line := src.Text()
		if !utf8.ValidString(line) {
			return fmt.Errorf("line# %v: %w", p.lines+1, ErrInvalidUTF8)
		}
		res, ok, err := p.Line(line)
		if err != nil {
			return fmt.Errorf("line# %v: %w", p.lines, err)
		}
		if ok && fn != nil {
			fn(res)
		}
	}
	return src.Err()
}

func (p *Processor) Sum() Sum {
	return p.sum
}

// Count is the number of lines that contributed a number.
func (p *Processor) Count() int {
	return p.count
}

// Stats reports the total and blank line counts seen so far.
func (p *Processor) Stats() (lines, empty int) {
	return p.lines, p.empty
}
