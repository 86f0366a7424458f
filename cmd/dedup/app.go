package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
	"github.com/weberc2/mono/dedup/pkg/dedup"
	"github.com/weberc2/mono/dedup/pkg/logger"
	"github.com/weberc2/mono/dedup/pkg/report"
)

func newApp(stdin io.Reader, stdout, stderr io.Writer) *cli.App {
	in := bufio.NewReader(stdin)

	verboseFlag := &cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "print each duplicate as it is found and enable debug logs",
	}
	reportFlag := &cli.StringFlag{
		Name:    "report",
		Aliases: []string{"r"},
		Usage:   "the report file (defaults to a file next to the binary)",
	}
	hashFlag := &cli.StringFlag{
		Name:  "hash",
		Usage: "the digest algorithm: sha1, sha256 or blake2b",
	}
	logFormatFlag := &cli.StringFlag{
		Name:  "log-format",
		Usage: "the log format: text or json",
	}
	interactiveFlag := &cli.BoolFlag{
		Name:    "interactive",
		Aliases: []string{"i"},
		Usage:   "ask what to do with a report left by a previous run",
	}
	deleteFlag := &cli.BoolFlag{
		Name:    "delete",
		Aliases: []string{"d"},
		Usage:   "delete the duplicates instead of only listing them",
	}
	softFlag := &cli.BoolFlag{
		Name:    "soft",
		Aliases: []string{"s"},
		Usage:   `only delete duplicates with a "(n)" in their name`,
	}
	yesFlag := &cli.BoolFlag{
		Name:    "yes",
		Aliases: []string{"y"},
		Usage:   "don't ask for confirmation before deleting",
	}
	dryRunFlag := &cli.BoolFlag{
		Name:  "dry-run",
		Usage: "check the listed duplicates without deleting them",
	}

	commonFlags := []cli.Flag{verboseFlag, reportFlag, logFormatFlag}
	withEnv := func(f func(*env, *cli.Context) error) cli.ActionFunc {
		return func(ctx *cli.Context) error {
			e, err := setup(ctx, in, stdout, stderr)
			if err != nil {
				return err
			}
			return f(e, ctx)
		}
	}

	return &cli.App{
		Name:      appName,
		Usage:     "find duplicate images and keep the likely originals",
		UsageText: appName + " [options] PATH...",
		Description: "scans PATH... for identical images and writes a " +
			"report of each original and its duplicates. When a report " +
			"from a previous run exists, its duplicates are deleted " +
			"instead (with --delete; otherwise they are only listed).",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: append(
			[]cli.Flag{hashFlag, interactiveFlag, deleteFlag, softFlag, yesFlag},
			commonFlags...,
		),
		Action: withEnv(func(e *env, ctx *cli.Context) error {
			return e.resume(ctx)
		}),
		Commands: []*cli.Command{{
			Name:      "scan",
			Usage:     "scan for duplicates, replacing any existing report",
			ArgsUsage: "PATH...",
			Flags: append(
				[]cli.Flag{hashFlag, deleteFlag, softFlag, yesFlag},
				commonFlags...,
			),
			Action: withEnv(func(e *env, ctx *cli.Context) error {
				return e.scan(ctx)
			}),
		}, {
			Name:   "print",
			Usage:  "print the report",
			Flags:  commonFlags,
			Action: withEnv(func(e *env, _ *cli.Context) error { return e.print() }),
		}, {
			Name:    "delete",
			Aliases: []string{"rm"},
			Usage:   "delete the duplicates listed in the report",
			Flags: append(
				[]cli.Flag{softFlag, yesFlag, dryRunFlag},
				commonFlags...,
			),
			Action: withEnv(func(e *env, ctx *cli.Context) error {
				return e.remove(
					dedup.DeleteOptions{
						DryRun: ctx.Bool(dryRunFlag.Name),
						Soft:   ctx.Bool(softFlag.Name),
					},
					ctx.Bool(yesFlag.Name),
				)
			}),
		}},
	}
}

// env is everything an action needs once configuration is settled.
type env struct {
	config *Config
	ctx    context.Context
	notify dedup.Notifier
	fs     billy.Filesystem
	store  report.Store
	in     *bufio.Reader
	out    io.Writer
}

func setup(
	ctx *cli.Context,
	in *bufio.Reader,
	stdout io.Writer,
	stderr io.Writer,
) (*env, error) {
	config, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	if ctx.IsSet("report") {
		config.ReportFile = ctx.String("report")
	}
	if ctx.IsSet("hash") {
		config.Hash = ctx.String("hash")
	}
	if ctx.IsSet("log-format") {
		config.LogFormat = ctx.String("log-format")
	}
	if ctx.IsSet("verbose") {
		config.Verbose = ctx.Bool("verbose")
	}
	if ctx.IsSet("interactive") {
		config.Interactive = ctx.Bool("interactive")
	}
	if err := config.Validate(); err != nil {
		return nil, cli.Exit(err.Error(), 1)
	}

	reportFile, err := filepath.Abs(config.ReportFile)
	if err != nil {
		return nil, fmt.Errorf("resolving report file: %w", err)
	}
	config.ReportFile = reportFile

	format, _ := logger.ParseFormat(config.LogFormat)
	log := logger.New(stderr, format, config.Verbose).
		With("run", uuid.NewString())

	fs := osfs.New("/")
	return &env{
		config: config,
		ctx:    logger.Set(ctx.Context, log),
		notify: dedup.NewNotifier(stdout),
		fs:     fs,
		store:  report.Store{FS: fs, Path: config.ReportFile},
		in:     in,
		out:    stdout,
	}, nil
}

// resume picks up a report left by a previous run, or scans when there is
// none.
func (e *env) resume(ctx *cli.Context) error {
	pending, err := e.store.Pending()
	if err != nil {
		return err
	}
	if !pending {
		return e.scan(ctx)
	}

	fmt.Fprintf(e.out, "report found at %s\n", e.store.Path)
	opts := dedup.DeleteOptions{Soft: ctx.Bool("soft")}
	if !e.config.Interactive {
		opts.DryRun = !ctx.Bool("delete")
		return e.remove(opts, ctx.Bool("yes"))
	}

	choice, err := e.prompt(
		"[p]rint it, [d]elete the duplicates it lists or [s]can again? ",
	)
	if err != nil {
		return err
	}
	switch choice {
	case "p", "print":
		return e.print()
	case "d", "delete":
		return e.remove(opts, ctx.Bool("yes"))
	case "s", "scan":
		return e.scan(ctx)
	}
	return cli.Exit(fmt.Sprintf("invalid choice `%s`", choice), 1)
}

func (e *env) scan(ctx *cli.Context) error {
	roots := ctx.Args().Slice()
	if err := validateRoots(roots); err != nil {
		return err
	}

	algorithm, err := dedup.ParseAlgorithm(e.config.Hash)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	rs, err := dedup.NewDetector(e.notify, algorithm).Detect(
		e.ctx,
		dedup.Options{Roots: roots, Verbose: e.config.Verbose},
	)
	if err != nil {
		return err
	}
	if rs.Len() < 1 {
		return nil
	}

	if err := e.store.Save(report.FromResultSet(rs)); err != nil {
		return err
	}
	fmt.Fprintf(e.out, "results written to %s\n", e.store.Path)

	if ctx.Bool("delete") {
		return e.remove(
			dedup.DeleteOptions{Soft: ctx.Bool("soft")},
			ctx.Bool("yes"),
		)
	}
	return nil
}

func (e *env) print() error {
	pairs, err := e.load()
	if err != nil {
		return err
	}
	return report.Write(e.out, pairs)
}

func (e *env) remove(opts dedup.DeleteOptions, confirmed bool) error {
	pairs, err := e.load()
	if err != nil {
		return err
	}

	if !opts.DryRun && !confirmed {
		answer, err := e.prompt(fmt.Sprintf(
			"delete the duplicates listed in %s? type `yes` to continue: ",
			e.store.Path,
		))
		if err != nil {
			return err
		}
		if answer != "yes" {
			return cli.Exit("aborted; nothing was deleted", 1)
		}
	}

	outcome := dedup.Delete(e.ctx, e.notify, e.fs, pairs, opts)
	return e.store.Settle(outcome)
}

func (e *env) load() ([]dedup.Pair, error) {
	pairs, err := e.store.Load()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, cli.Exit(
				fmt.Sprintf("no report found at %s", e.store.Path),
				1,
			)
		}
		return nil, err
	}
	return pairs, nil
}

func (e *env) prompt(question string) (string, error) {
	fmt.Fprint(e.out, question)
	answer, err := e.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading answer: %w", err)
	}
	return strings.ToLower(strings.TrimSpace(answer)), nil
}

func validateRoots(roots []string) error {
	if len(roots) < 1 {
		return cli.Exit("please pass the path(s) to check for duplicates", 1)
	}
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return cli.Exit(fmt.Sprintf("path `%s` does not exist", root), 1)
			}
			return cli.Exit(fmt.Sprintf("checking path `%s`: %v", root, err), 1)
		}
		if !info.IsDir() {
			return cli.Exit(fmt.Sprintf("path `%s` is not a directory", root), 1)
		}
	}
	return nil
}
