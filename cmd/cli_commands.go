package cmd

import "fmt"

// cliCommand documents a REPL builtin for the help command.
type cliCommand struct {
	name    string
	params  string
	summary string
}

var cliCommands = []cliCommand{
	{name: "<resp>", summary: `decode RESP3 text, escapes allowed: %1\r\n+key\r\n:1`},
	{name: "<command>", params: "[arg ...]", summary: "show the RESP3 encoding of an inline command"},
	{name: ":output", params: "standard|raw|json|yaml", summary: "switch the output mode"},
	{name: "clear", summary: "clear the screen"},
	{name: "help", summary: "show this help"},
	{name: "quit", summary: "leave the session, also exit"},
}

func (cli *Cli) printHelp() {
	fmt.Fprintln(cli.stdout, cli.Version())
	fmt.Fprintln(cli.stdout)
	for _, c := range cliCommands {
		usage := c.name
		if c.params != "" {
			usage += " " + c.params
		}
		fmt.Fprintf(cli.stdout, "  %-32s %s\n", usage, c.summary)
	}
}
