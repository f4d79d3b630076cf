package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ComedicChimera/olive"

	"irkit/clang"
	"irkit/config"
	"irkit/driver"
	"irkit/llvm"
	"irkit/report"
)

// Version is the irkit version.
const Version = "0.1.0"

// Execute runs the main `irkit` application and exits with its status.
func Execute() {
	os.Exit(run(os.Args))
}

// run runs the application on the command line args and returns the exit
// status: 0 on success, 1 if errors were reported and 2 on a usage error.
func run(args []string) int {
	// set up the argument parser and all its extended commands and arguments
	cli := olive.NewCLI("irkit", "irkit is a tool for building and checking LLVM IR", true)
	logLvlArg := cli.AddSelectorArg("loglevel", "ll", "the log level", false, report.LogLevelNames)
	logLvlArg.SetDefaultValue("verbose")

	buildCmd := cli.AddSubcommand("build", "build IR files into the format of a profile", true)
	buildCmd.AddPrimaryArg("path", "the IR file or directory to build", true)
	buildCmd.AddStringArg("profile", "p", "the path to the profile file", false)

	checkCmd := cli.AddSubcommand("check", "verify IR files and summarize their functions", true)
	checkCmd.AddPrimaryArg("path", "the IR file or directory to check", true)

	demoCmd := cli.AddSubcommand("demo", "build the example module", false)
	demoCmd.AddStringArg("output", "o", "the file to write the module to", false)

	ccCmd := cli.AddSubcommand("cc", "check a C source file with clang", true)
	ccCmd.AddPrimaryArg("file", "the C source file", true)
	ccCmd.AddStringArg("args", "a", "extra compiler arguments separated by spaces", false)

	profileCmd := cli.AddSubcommand("profile", "manage build profiles", true)
	profileInitCmd := profileCmd.AddSubcommand("init", "write a default profile", true)
	profileInitCmd.AddPrimaryArg("dir", "the build directory", true)

	cli.AddSubcommand("targets", "list the registered targets", false)
	cli.AddSubcommand("version", "print the irkit version", false)

	// run the argument parser
	result, err := olive.ParseArgs(cli, args)
	if err != nil {
		report.PrintErrorMessage("CLI Usage Error", err)
		return 2
	}

	report.InitReporter(report.ParseLogLevel(result.Arguments["loglevel"].(string)))

	// process the inputed command line
	subcmdName, subResult, _ := result.Subcommand()
	switch subcmdName {
	case "build":
		execBuildCommand(subResult)
	case "check":
		execCheckCommand(subResult)
	case "demo":
		execDemoCommand(subResult)
	case "cc":
		execCCCommand(subResult)
	case "profile":
		execProfileCommand(subResult)
	case "targets":
		execTargetsCommand()
	case "version":
		report.PrintInfoMessage("irkit Version", Version)
		report.PrintInfoMessage("Host Triple", llvm.HostTriple())
		report.PrintInfoMessage("Clang Version", clang.Version())
	}

	if !report.ShouldProceed() {
		return 1
	}

	return 0
}

// execBuildCommand executes the build subcommand and handles all errors
func execBuildCommand(result *olive.ArgParseResult) {
	relPath, _ := result.PrimaryArg()

	path, err := filepath.Abs(relPath)
	if err != nil {
		report.ReportError("Path Error", err)
		return
	}

	profPath := ""
	if profArgVal, ok := result.Arguments["profile"]; ok {
		profPath = profArgVal.(string)
	}

	prof, err := loadProfile(path, profPath)
	if err != nil {
		report.ReportError("Profile Error", err)
		return
	}

	inputs, err := driver.CollectInputs(path)
	if err != nil {
		report.ReportError("Input Error", err)
		return
	}

	rep := report.Global()

	d, err := driver.New(prof, rep)
	if err != nil {
		report.ReportError("Profile Error", err)
		return
	}

	rep.ReportHeader(Version, d.Triple(), prof.ShouldCache)

	outputs, err := d.Build(context.Background(), inputs)

	// the driver has already reported its errors
	if err == nil && len(outputs) == 1 {
		rep.ReportFinished(outputs[0])
	} else {
		rep.ReportFinished(prof.OutputPath)
	}
}

// loadProfile loads the profile file at profPath.  If no path is given, the
// profile file of the build directory is used if there is one and the default
// profile otherwise.
func loadProfile(buildPath, profPath string) (*config.Profile, error) {
	if profPath != "" {
		return config.Load(profPath)
	}

	dir := buildPath
	if finfo, err := os.Stat(buildPath); err == nil && !finfo.IsDir() {
		dir = filepath.Dir(buildPath)
	}

	defaultPath := filepath.Join(dir, config.ProfileFileName)
	if _, err := os.Stat(defaultPath); err == nil {
		return config.Load(defaultPath)
	}

	return config.Default(dir), nil
}

// execCheckCommand executes the check subcommand.  Every input is checked even
// if an earlier one is invalid.
func execCheckCommand(result *olive.ArgParseResult) {
	path, _ := result.PrimaryArg()

	inputs, err := driver.CollectInputs(path)
	if err != nil {
		report.ReportError("Input Error", err)
		return
	}

	for _, input := range inputs {
		res, err := driver.Check(input)
		if err != nil {
			report.ReportError("Invalid Module", err)
			continue
		}

		if res.Summary == nil {
			report.ReportWarning("Check", fmt.Sprintf("`%s` is valid but could not be inspected: %s", input, res.InspectErr))
			continue
		}

		for _, fn := range res.Summary.Functions {
			if fn.Declaration {
				report.ReportInfo(input, fmt.Sprintf("declare @%s", fn.Name))
			} else {
				report.ReportInfo(input, fmt.Sprintf("define @%s: %d blocks, %d instructions", fn.Name, len(fn.Blocks), fn.NumInstructions()))
			}
		}
	}

	report.Global().ReportFinished(path)
}

// execDemoCommand executes the demo subcommand.  The module is printed if no
// output file is given.
func execDemoCommand(result *olive.ArgParseResult) {
	lctx := llvm.NewContext()
	defer lctx.Dispose()

	mod, err := driver.BuildDemo(lctx)
	if err != nil {
		report.ReportError("Demo Error", err)
		return
	}

	outArgVal, ok := result.Arguments["output"]
	if !ok {
		fmt.Print(mod.String())
		return
	}

	outPath := outArgVal.(string)
	if filepath.Ext(outPath) == ".bc" {
		err = mod.WriteBitcodeToFile(outPath)
	} else {
		err = mod.WriteToFile(outPath)
	}

	if err != nil {
		report.ReportError("Output Error", err)
	}
}

// execCCCommand executes the cc subcommand: it parses a C file with clang and
// reports its diagnostics.
func execCCCommand(result *olive.ArgParseResult) {
	file, _ := result.PrimaryArg()

	var args []string
	if argsVal, ok := result.Arguments["args"]; ok {
		args = strings.Fields(argsVal.(string))
	}

	idx := clang.NewIndex(false, false)
	defer idx.Dispose()

	tu, err := idx.Parse(file, args, clang.ParseKeepGoing)
	if err != nil {
		report.ReportError("Clang Error", err)
		return
	}

	for _, d := range tu.Diagnostics() {
		report.ReportDiagnostic(report.Diagnostic{
			// the severities share their numbering
			Severity: report.Severity(d.Severity),
			File:     d.File,
			Line:     d.Line,
			Col:      d.Col,
			Message:  d.Message,
			Category: d.Category,
		})
	}

	report.Global().ReportFinished(file)
}

// execProfileCommand executes the `profile` subcommand and its subcommands.
func execProfileCommand(result *olive.ArgParseResult) {
	subcmdName, subResult, _ := result.Subcommand()

	switch subcmdName {
	case "init":
		dir, _ := subResult.PrimaryArg()
		path := filepath.Join(dir, config.ProfileFileName)

		if err := config.Init(path); err != nil {
			report.ReportError("Profile Init Error", err)
			return
		}

		report.ReportInfo("Profile", "wrote "+path)
	}
}

// execTargetsCommand lists the targets LLVM was built with.
func execTargetsCommand() {
	llvm.InitializeAllTargets()

	targets := llvm.Targets()
	if len(targets) == 0 {
		report.ReportError("Targets", errors.New("no targets are registered"))
		return
	}

	for _, t := range targets {
		report.PrintInfoMessage(t.Name(), t.Description())
	}
}
