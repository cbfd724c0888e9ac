package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ochairo/lambda-build/internal/domain/entities"
	"github.com/ochairo/lambda-build/internal/external-adapters/console"
)

const appName = "lambda-build"

// CLI is the root command
type CLI struct {
	Quiet   bool `short:"q" help:"Suppress informational output."`
	Verbose bool `short:"v" help:"Enable verbose output."`
	Debug   bool `short:"d" help:"Enable debug output."`
	NoColor bool `help:"Disable colored output."`

	Build   BuildCmd   `cmd:"" help:"Compile functions and package them for AWS Lambda."`
	Package PackageCmd `cmd:"" help:"Zip a previously built bootstrap binary."`
	Verify  VerifyCmd  `cmd:"" help:"Verify the checksum and signature of a packaged function."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], newApp(os.Stdout))
	cancel()
	os.Exit(code)
}

// run parses args, configures logging and executes the selected command.
// The returned value is the process exit code.
func run(ctx context.Context, args []string, a *app) int {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name(appName),
		kong.Description("Build Rust functions for AWS Lambda.\n\nResolves the Lambda target, prepares the toolchain, runs cargo and packages each binary as bootstrap or bootstrap.zip."),
		kong.UsageOnError(),
		kong.Writers(a.stdout, os.Stderr),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		return 1
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: error: %v\n", appName, err)
		return 1
	}

	if a.logger == nil {
		a.logger = newLogger(cli, os.Stderr)
	}
	slog.SetDefault(a.logger)

	return exitCode(kctx.Run(a))
}

// exitCode maps a command error to the process status. A failed compiler
// run exits with the compiler's own status and prints nothing further.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var failed *entities.BuildFailedError
	if errors.As(err, &failed) {
		if failed.ExitCode > 0 {
			return failed.ExitCode
		}
		return 1
	}
	slog.Error(err.Error())
	return 1
}

// newLogger builds the process logger from the global flags
func newLogger(cli CLI, w io.Writer) *slog.Logger {
	useColor := !cli.NoColor && os.Getenv("NO_COLOR") == ""
	if f, ok := w.(*os.File); !ok || !console.IsTerminal(f) {
		useColor = false
	}
	return slog.New(console.NewHandler(w, console.Options{
		Level:   console.LevelFor(cli.Quiet, cli.Debug),
		Color:   useColor,
		Verbose: cli.Verbose,
	}))
}
