// cmd/textcore/main.go
package main

import (
	"flag"
	"fmt"
	stlog "log"
	"os"

	"github.com/bethropolis/textcore/internal/config"
	"github.com/bethropolis/textcore/internal/logger"
)

const usage = `usage: textcore [flags] <command> [command flags] FILE...

commands:
  highlight FILE             print FILE with syntax colors, or the theme as CSS with -css
  search FILE QUERY          list matches, or replace them with -replace
  stats FILE...              print line, word and byte counts
  convert FILE -eol EOL      rewrite FILE with unix, windows or mac line endings

flags:
`

func main() {
	os.Exit(realMain())
}

// realMain returns the exit code, so deferred cleanup runs before exiting.
func realMain() int {
	var flags config.Flags
	flags.DefineFlags(flag.CommandLine)
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		return 2
	}

	cfg, err := flags.LoadWithFlags()
	if err != nil {
		// The defaults are still usable.
		stlog.Printf("Warning: %v", err)
	}

	logOut := os.Stderr
	if path := cfg.Logger.File; path != "" && path != "-" {
		logFile, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			stlog.Printf("Failed to open log file '%s': %v", path, err)
			return 1
		}
		defer logFile.Close()
		logOut = logFile
	}
	logger.Init(cfg.Logger, logOut)
	logger.Debugf("textcore starting, command %q", flag.Arg(0))

	if err := run(cfg, os.Stdout, flag.Arg(0), flag.Args()[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "textcore: %v\n", err)
		logger.Errorf("command %s failed: %v", flag.Arg(0), err)
		return 1
	}
	return 0
}
