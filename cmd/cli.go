package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fzft/go-resp3/deps/linenoise"
	"github.com/fzft/go-resp3/log"
	"github.com/fzft/go-resp3/resp"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

var (
	Resp3CliVersion = "1.0.0"

	Resp3CliHisFileEnv     = "RESP3CLI_HISTFILE"
	Resp3CliHisFileDefault = ".resp3cli_history"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

var errQuit = errors.New("quit")

type OutputMode uint8

const (
	OutputStandard OutputMode = iota
	OutputRaw
	OutputJson
	OutputYaml
)

var outputModeNames = map[OutputMode]string{
	OutputStandard: "standard",
	OutputRaw:      "raw",
	OutputJson:     "json",
	OutputYaml:     "yaml",
}

func (m OutputMode) String() string {
	return outputModeNames[m]
}

func parseOutputMode(s string) (OutputMode, error) {
	for m, name := range outputModeNames {
		if strings.EqualFold(s, name) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown output mode %q (want standard, raw, json or yaml)", s)
}

// BuildInfo is stamped into the binary at link time.
type BuildInfo struct {
	GitSHA1   string
	GitDirty  string
	BuildDate string
}

type CliConfig struct {
	output        OutputMode
	encode        bool
	interactive   bool
	noInteractive bool
	limits        resp.Limits
	logLevel      string
	prompt        string
}

func defaultConfig() *CliConfig {
	return &CliConfig{
		output:   OutputStandard,
		limits:   resp.DefaultLimits(),
		logLevel: "warn",
		prompt:   "resp3> ",
	}
}

// lineEditor is what the REPL needs from linenoise.
type lineEditor interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
	HistoryLoad(filepath string) error
	HistorySave(filepath string) error
	ClearScreen() error
	Close() error
}

// Cli is the resp3 inspector. Without --encode it decodes RESP3 input,
// falling back to an interactive session when stdin is a terminal.
type Cli struct {
	config  *CliConfig
	build   BuildInfo
	decoder *resp.Decoder

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	newLineEditor func() lineEditor
}

func NewCli(build BuildInfo) *Cli {
	return &Cli{
		config:        defaultConfig(),
		build:         build,
		decoder:       resp.NewDecoder(),
		newLineEditor: func() lineEditor { return linenoise.New() },
	}
}

func (cli *Cli) Version() string {
	version := "resp3 " + Resp3CliVersion
	// Add git commit and working tree status when available
	if sha1Int, err := strconv.ParseUint(cli.build.GitSHA1, 16, 64); err == nil && sha1Int != 0 {
		version = fmt.Sprintf("%s (git:%s", version, cli.build.GitSHA1)
		if dirtyInt, err := strconv.ParseInt(cli.build.GitDirty, 10, 64); err == nil && dirtyInt != 0 {
			version += "-dirty"
		}
		version += ")"
	}
	if cli.build.BuildDate != "" && cli.build.BuildDate != "unknown" {
		version += " built " + cli.build.BuildDate
	}
	return version
}

func (cli *Cli) Usage(out io.Writer, fs *pflag.FlagSet) {
	fmt.Fprintf(out, `%s

Usage: resp3 [OPTIONS] [file]
       resp3 --encode [OPTIONS] cmd [arg ...]

Decodes RESP3 from file (or stdin when file is "-" or missing) and prints each
value. With no input redirection an interactive session starts instead.

Options:
%s
History is kept in ~/%s unless %s points elsewhere
("/dev/null" disables it).
`, cli.Version(), fs.FlagUsages(), Resp3CliHisFileDefault, Resp3CliHisFileEnv)
}

// Run parses args, runs the selected mode and returns the exit status.
func (cli *Cli) Run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cli.stdin, cli.stdout, cli.stderr = stdin, stdout, stderr

	fs := pflag.NewFlagSet("resp3", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	def := resp.DefaultLimits()
	output := fs.StringP("output", "o", "", "output mode: standard, raw, json or yaml (default standard, raw when stdout is not a tty)")
	encode := fs.BoolP("encode", "e", false, "print the RESP3 encoding of the command given as arguments")
	maxDepth := fs.Int("max-depth", def.MaxDepth, "maximum nesting depth")
	maxBlobLen := fs.Int("max-blob-len", def.MaxBlobLen, "maximum blob length in bytes, 0 for no limit")
	maxElements := fs.Int("max-elements", def.MaxElements, "maximum aggregate element count, 0 for no limit")
	logLevel := fs.String("log-level", cli.config.logLevel, "log level written to stderr: debug, info, warn or error")
	noInteractive := fs.Bool("no-interactive", false, "read stdin even when it is a terminal")
	version := fs.BoolP("version", "v", false, "output version and exit")
	fs.Usage = func() { cli.Usage(stderr, fs) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	if *version {
		fmt.Fprintln(stdout, cli.Version())
		return exitOK
	}

	if err := log.InitLogger(*logLevel); err != nil {
		fmt.Fprintf(stderr, "Invalid log level: %s\n", err)
		return exitUsage
	}

	cli.config.output = OutputStandard
	if !isTerminal(stdout) {
		cli.config.output = OutputRaw
	}
	if *output != "" {
		mode, err := parseOutputMode(*output)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return exitUsage
		}
		cli.config.output = mode
	}
	cli.config.encode = *encode
	cli.config.noInteractive = *noInteractive
	cli.config.logLevel = *logLevel
	cli.config.limits = resp.Limits{MaxDepth: *maxDepth, MaxBlobLen: *maxBlobLen, MaxElements: *maxElements}
	cli.decoder = resp.NewDecoder(resp.WithLimits(cli.config.limits), resp.WithLogger(log.Logger))

	switch {
	case cli.config.encode:
		if fs.NArg() == 0 {
			fmt.Fprintln(stderr, "--encode needs a command")
			return exitUsage
		}
		if err := cli.printEncoded(resp.Command(fs.Arg(0), fs.Args()[1:]...)); err != nil {
			fmt.Fprintf(stderr, "(error) %s\n", err)
			return exitError
		}
		return exitOK
	case fs.NArg() > 1:
		cli.Usage(stderr, fs)
		return exitUsage
	case fs.NArg() == 0 && !cli.config.noInteractive && isTerminal(stdin):
		return cli.repl()
	}

	if err := cli.decode(fs.Arg(0)); err != nil {
		fmt.Fprintf(stderr, "(error) %s\n", err)
		return exitError
	}
	return exitOK
}

// decode parses the whole input at once and prints every value.
func (cli *Cli) decode(path string) error {
	var (
		data []byte
		err  error
	)
	if path == "" || path == "-" {
		data, err = io.ReadAll(cli.stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	values, err := cli.decoder.ParseAll(data)
	if err != nil {
		return err
	}
	log.Logger.Debug("decoded input", zap.Int("bytes", len(data)), zap.Int("values", len(values)))
	return cli.printValues(values)
}

func (cli *Cli) printValues(values []resp.Value) error {
	p := newPrinter(cli.stdout, cli.config.output)
	for _, v := range values {
		if err := p.print(v); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}
	return p.close()
}

// printEncoded shows the encoding of v: quoted in standard mode, as is in raw
// mode, as a tree otherwise.
func (cli *Cli) printEncoded(v resp.Value) error {
	switch cli.config.output {
	case OutputStandard:
		_, err := fmt.Fprintln(cli.stdout, strconv.Quote(string(resp.AppendValue(nil, v))))
		return err
	case OutputRaw:
		_, err := cli.stdout.Write(resp.AppendValue(nil, v))
		return err
	}
	return cli.printValues([]resp.Value{v})
}

func (cli *Cli) repl() int {
	ln := cli.newLineEditor()
	defer ln.Close()

	cli.config.interactive = true
	historyFile := getDotfilePath(Resp3CliHisFileEnv, Resp3CliHisFileDefault)
	if historyFile != "" {
		if err := ln.HistoryLoad(historyFile); err != nil {
			log.Logger.Warn("load history", zap.String("file", historyFile), zap.Error(err))
		}
	}

	for {
		line, err := ln.Prompt(cli.config.prompt)
		if err != nil {
			// EOF or Ctrl-C
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		ln.AppendHistory(line)
		if historyFile != "" {
			if err := ln.HistorySave(historyFile); err != nil {
				log.Logger.Warn("save history", zap.String("file", historyFile), zap.Error(err))
			}
		}

		if err := cli.evalLine(ln, line); err != nil {
			if errors.Is(err, errQuit) {
				break
			}
			fmt.Fprintf(cli.stdout, "(error) %s\n", err)
		}
	}
	return exitOK
}

// evalLine runs one REPL line. Lines starting with a type byte are RESP3 text
// with C-style escapes; anything else is a builtin or an inline command.
func (cli *Cli) evalLine(ln lineEditor, line string) error {
	if isRESP(line) {
		data := unescape(line)
		if !strings.HasSuffix(string(data), resp.CRLF) {
			data = append(data, resp.CRLF...)
		}
		values, err := cli.decoder.ParseAll(data)
		if err != nil {
			return err
		}
		return cli.printValues(values)
	}

	argv, err := splitArgs(line)
	if err != nil {
		return err
	}
	argc := len(argv)
	if argc == 0 {
		return nil
	}

	switch {
	case strings.EqualFold(argv[0], "quit") || strings.EqualFold(argv[0], "exit"):
		return errQuit
	case argc == 1 && strings.EqualFold(argv[0], "clear"):
		return ln.ClearScreen()
	case argc == 1 && strings.EqualFold(argv[0], "help"):
		cli.printHelp()
		return nil
	case argv[0][0] == ':':
		return cli.setPreference(argv)
	}
	return cli.printEncoded(resp.Command(argv[0], argv[1:]...))
}

// isRESP reports whether line starts with a type byte. ":output" and other
// preferences start with ':' followed by a letter, which no integer does.
func isRESP(line string) bool {
	switch line[0] {
	case resp.TypeNumber:
		return len(line) == 1 || line[1] == '-' || line[1] == '\\' || (line[1] >= '0' && line[1] <= '9')
	case resp.TypeArray, resp.TypeBigNumber, resp.TypeBlobError, resp.TypeBlobString,
		resp.TypeBoolean, resp.TypeDouble, resp.TypeMap, resp.TypeNull, resp.TypeSet,
		resp.TypeSimpleError, resp.TypeSimpleString, resp.TypeVerbatimString, resp.TypeAttribute:
		return true
	}
	return false
}

func (cli *Cli) setPreference(argv []string) error {
	switch {
	case len(argv) == 2 && strings.EqualFold(argv[0], ":output"):
		mode, err := parseOutputMode(argv[1])
		if err != nil {
			return err
		}
		cli.config.output = mode
		return nil
	}
	return fmt.Errorf("unknown preference %q", strings.Join(argv, " "))
}

func getDotfilePath(envOverride, dotFilename string) string {
	var dotPath string

	path := os.Getenv(envOverride)
	if path != "" {
		if path == "/dev/null" {
			return ""
		}
		dotPath = path
	} else {
		home := os.Getenv("HOME")
		if home != "" {
			dotPath = filepath.Join(home, dotFilename)
		}
	}
	return dotPath
}

func isTerminal(f any) bool {
	fd, ok := f.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(fd.Fd()) || isatty.IsCygwinTerminal(fd.Fd())
}
