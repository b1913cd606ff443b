package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/erraggy/oastest"
	"github.com/erraggy/oastest/parser"
	"github.com/erraggy/oastest/scaffold"
)

// scaffoldFlags contains flags for the scaffold command
type scaffoldFlags struct {
	output    string
	pkg       string
	serverURL string
	quiet     bool
}

func setupScaffoldFlags() (*flag.FlagSet, *scaffoldFlags) {
	fs := flag.NewFlagSet("scaffold", flag.ContinueOnError)
	flags := &scaffoldFlags{}

	fs.StringVar(&flags.output, "o", ".", "directory the generated test file is written to")
	fs.StringVar(&flags.output, "output", ".", "directory the generated test file is written to")
	fs.StringVar(&flags.pkg, "pkg", "", "package clause for the generated file (default: apitest)")
	fs.StringVar(&flags.serverURL, "server", "", "base URL the generated tests send requests to (default: the document's first server)")
	fs.BoolVar(&flags.quiet, "q", false, "quiet mode: print only the output file path")
	fs.BoolVar(&flags.quiet, "quiet", false, "quiet mode: print only the output file path")

	fs.Usage = func() {
		writef(fs.Output(), "Usage: oastest scaffold [flags] <spec>\n\n")
		writef(fs.Output(), "Generate a Go test file with one subtest per documented operation, each\n")
		writef(fs.Output(), "sending a request to the configured server and asserting the response\n")
		writef(fs.Output(), "against the document.\n\n")
		writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		writef(fs.Output(), "\nExamples:\n")
		writef(fs.Output(), "  oastest scaffold openapi.yaml\n")
		writef(fs.Output(), "  oastest scaffold -o ./apitest -pkg apitest openapi.yaml\n")
		writef(fs.Output(), "  oastest scaffold -server http://localhost:3000 openapi.yaml\n")
		writef(fs.Output(), "\nExit Codes:\n")
		writef(fs.Output(), "  0    Scaffold written\n")
		writef(fs.Output(), "  1    Generation failed\n")
	}

	return fs, flags
}

func handleScaffold(args []string) error {
	fs, flags := setupScaffoldFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("scaffold command requires exactly one spec file path")
	}
	specPath := fs.Arg(0)

	parsed, err := parser.ParseWithOptions(
		parser.WithFilePath(specPath),
		parser.WithResolveRefs(true),
	)
	if err != nil {
		return fmt.Errorf("parsing specification: %w", err)
	}

	result, err := scaffold.Generate(parsed, scaffold.Config{
		PackageName: flags.pkg,
		ServerURL:   flags.serverURL,
		SpecPath:    specPath,
	})
	if err != nil {
		return fmt.Errorf("generating scaffold: %w", err)
	}

	outPath := filepath.Clean(filepath.Join(flags.output, result.File.Name))
	if err := rejectSymlinkOutput(outPath); err != nil {
		return err
	}
	if _, err := os.Stat(outPath); err == nil {
		writef(os.Stderr, "Warning: output file %s already exists and will be overwritten\n", outPath)
	}
	if err := result.File.WriteFile(outPath); err != nil {
		return fmt.Errorf("writing scaffold: %w", err)
	}

	if flags.quiet {
		writef(os.Stdout, "%s\n", outPath)
	} else {
		writef(os.Stdout, "oastest version: %s\n", oastest.Version())
		writef(os.Stdout, "Specification: %s\n", specPath)
		writef(os.Stdout, "OAS Version: %s\n", parsed.Version)
		writef(os.Stdout, "Package: %s\n", result.PackageName)
		writef(os.Stdout, "Server URL: %s\n", result.ServerURL)
		writef(os.Stdout, "Operations: %d\n", result.Operations)
		writef(os.Stdout, "Skipped: %d\n\n", result.Skipped)

		if len(result.Issues) > 0 {
			writef(os.Stdout, "Generation Notices (%d):\n", len(result.Issues))
			for _, issue := range result.Issues {
				writef(os.Stdout, "  %s\n", issue.String())
			}
			writef(os.Stdout, "\n")
		}

		writef(os.Stdout, "Wrote %s (%d bytes)\n\n", outPath, len(result.File.Content))

		if result.Success {
			writef(os.Stdout, "✓ Scaffold generated: %d operation(s)", result.Operations)
			if result.Skipped > 0 {
				writef(os.Stdout, " (%d skipped until values are filled in)", result.Skipped)
			}
			writef(os.Stdout, "\n")
		} else {
			writef(os.Stdout, "✗ Generation completed with issues\n")
		}
	}

	if !result.Success {
		return fmt.Errorf("generation failed")
	}
	return nil
}

// rejectSymlinkOutput refuses to write through a symlink, which could redirect
// output to an unintended location.
func rejectSymlinkOutput(cleanedPath string) error {
	info, err := os.Lstat(cleanedPath)
	if os.IsNotExist(err) {
		// File doesn't exist yet — safe to write.
		return nil
	}
	if err != nil {
		return fmt.Errorf("checking output path: %w", err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return fmt.Errorf("refusing to write to symlink: %s", cleanedPath)
	}
	return nil
}
