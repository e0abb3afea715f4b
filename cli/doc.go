// Package cli contains the command line interface for minilang.
//
// # Usage
//
// The run command is the default, so a script may be named directly:
//
//	minilang hello.ml
//	minilang run -D greeting='"hi"' hello
//	echo 'println(1 + 2)' | minilang
//
// Bare script names are searched for in each --path directory and then in
// $MINILANG_PATH, with and without the ".ml" extension.
//
// # Commands
//
//   - run: parse and execute a script
//   - fmt: print a script as canonical source, an AST dump, JSON or YAML
//   - tokens: print the lexeme stream
//   - repl: interactive session with completion and history
//   - init: write the effective global flags to the configuration file
//
// # Configuration
//
// Global flag defaults are read from config.yaml in the user configuration
// directory, or from the file named by --config. See [resolve] for the
// file format.
//
// # Logging Options
//
//   - --log-level: minimum level (trace, debug, info, warn, error)
//   - --log-format: record encoding (text, json)
//   - --log-time-layout: timestamp layout name or Go layout string
//   - --[no-]log-caller: include caller information
//   - --[no-]log-pretty: colorize text output on terminals
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof .
//
// It adds --pprof-mode and --pprof-dir, which defaults to a pprof directory
// under the user cache directory.
package cli
