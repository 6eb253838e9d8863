package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"

	"github.com/cespare/argf"
	"github.com/grafana/regexp"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
)

func main() {
	if err := realMain(
		context.Background(),
		os.Args,
		os.Stdin,
		os.Stdout,
		os.Stderr,
	); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func realMain(
	ctx context.Context,
	args []string,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
) error {
	fs := flag.NewFlagSet("sumcol", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		flagField     int
		flagHex       bool
		flagDelimiter string
		flagVerbose   bool
		flagVersion   bool
	)
	fs.IntVar(&flagField, "field", 0, "the field to sum; 0 uses the full line")
	fs.BoolVar(&flagHex, "hex", false, "treat all numbers as hex, not just those with a leading 0x")
	fs.StringVar(&flagDelimiter, "delimiter", whitespacePattern, "the regexp on which to split fields")
	fs.BoolVar(&flagVerbose, "verbose", false, "print each number being summed along with some metadata")
	fs.BoolVar(&flagVersion, "version", false, "print the version and exit")
	alias(fs, "f", "field")
	alias(fs, "x", "hex")
	alias(fs, "d", "delimiter")
	alias(fs, "v", "verbose")
	alias(fs, "V", "version")
	flagComma := fs.Bool("comma", false, "group digits of a decimal sum with commas")
	flagReport := fs.Bool("report", false, "print a summary table of the run to stderr")
	flagColor := fs.String("color", string(colorAuto), "colorize verbose output: auto, always or never")
	flagLogLevel := fs.String("log-level", "warn", "log level: debug, info, warn or error")
	_ = fs.String("config", "", "YAML file with flag values")

	rootCmd := &ffcli.Command{
		Name:       fs.Name(),
		ShortUsage: fmt.Sprintf("%v [flags] [files...]", fs.Name()),
		ShortHelp:  "Sum a column of numbers read from files, or stdin if none are given",
		FlagSet:    fs,
		Options: []ff.Option{
			ff.WithEnvVarPrefix("SUMCOL"),
			ff.WithConfigFileFlag("config"),
			ff.WithConfigFileParser(yamlParser),
		},
		Exec: func(_ context.Context, files []string) error {
			if flagVersion {
				fmt.Fprintln(stdout, fs.Name(), version())
				return nil
			}

			var level slog.Level
			if err := level.UnmarshalText([]byte(*flagLogLevel)); err != nil {
				return fmt.Errorf("invalid log level %q: %w", *flagLogLevel, err)
			}
			logger := slog.New(
				slog.NewTextHandler(
					stderr,
					&slog.HandlerOptions{Level: level},
				),
			)

			if flagField < 0 {
				return fmt.Errorf("invalid field %d: must not be negative", flagField)
			}
			delimiter, err := regexp.Compile(flagDelimiter)
			if err != nil {
				return fmt.Errorf("invalid delimiter: %w", err)
			}
			mode, err := parseColorMode(*flagColor)
			if err != nil {
				return err
			}

			logger.Debug("args",
				"field", flagField,
				"hex", flagHex,
				"delimiter", flagDelimiter,
				"verbose", flagVerbose,
				"files", files,
			)

			p := NewProcessor(
				Options{
					Field:     flagField,
					Hex:       flagHex,
					Delimiter: delimiter,
				},
				logger,
			)

			var onLine func(Result)
			var vp *verbosePrinter
			if flagVerbose {
				vp = newVerbosePrinter(stdout, flagHex, mode)
				onLine = func(res Result) {
					vp.line(res, p.Sum(), p.Count())
				}
			}

			src, err := openSource(stdin, files)
			if err != nil {
				return err
			}
			if err := p.Run(src, onLine); err != nil {
				return err
			}

			if vp != nil {
				vp.separator()
			}
			fmt.Fprintln(stdout, formatSum(p.Sum(), flagHex, *flagComma))

			if *flagReport {
				writeReport(stderr, p, len(files), flagHex)
			}

			return nil
		},
	}

	err := rootCmd.ParseAndRun(ctx, args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	return err
}

// version reports the module version stamped by go install, or "(devel)".
func version() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" {
		return "(devel)"
	}
	return info.Main.Version
}

// alias registers name as a shorthand for the target flag. Setting the alias
// sets the target, so ff sees the target as provided and does not override
// it from the environment or the config file.
func alias(fs *flag.FlagSet, name, target string) {
	fs.Var(
		&aliasValue{fs: fs, target: target, Value: fs.Lookup(target).Value},
		name,
		"shorthand for -"+target,
	)
}

type aliasValue struct {
	flag.Value
	fs     *flag.FlagSet
	target string
}

func (a *aliasValue) Set(s string) error {
	return a.fs.Set(a.target, s)
}

func (a *aliasValue) String() string {
	if a == nil || a.Value == nil {
		return ""
	}
	return a.Value.String()
}

func (a *aliasValue) IsBoolFlag() bool {
	b, ok := a.Value.(interface{ IsBoolFlag() bool })
	return ok && b.IsBoolFlag()
}

// openSource returns a line scanner over stdin, or over files in order. All
// files are checked up front so a missing one fails before anything is
// summed.
func openSource(stdin io.Reader, files []string) (lineScanner, error) {
	if len(files) == 0 {
		scanner := bufio.NewScanner(stdin)
		scanner.Buffer(nil, 1<<20)
		return scanner, nil
	}

	for _, name := range files {
		f, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		f.Close()
	}

	argf.Init(files)
	return argfScanner{}, nil
}

// argfScanner adapts the argf package level reader to lineScanner.
type argfScanner struct{}

func (argfScanner) Scan() bool   { return argf.Scan() }
func (argfScanner) Text() string { return argf.String() }
func (argfScanner) Err() error   { return argf.Error() }
