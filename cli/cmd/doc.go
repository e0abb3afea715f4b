// Package cmd implements the minilang subcommands: run, fmt, tokens, repl
// and init.
//
// Every command reads its script through [Source], which accepts a file
// path, "-" for standard input, or a bare name looked up along the script
// search path. The search path is the --path directories followed by the
// entries of $MINILANG_PATH.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file.
	ConfigIdentifier = "config"
)

// PathEnv names the environment variable holding additional script
// directories, separated by [os.PathListSeparator].
const PathEnv = "MINILANG_PATH"

// ScriptExt is tried as a suffix when a bare script name is not found.
const ScriptExt = ".ml"
