package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"goshell/internal/policy"
	"goshell/internal/shell"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var debugLog *log.Logger

func main() {
	policyPath := flag.String("policy", "", "path to TOML policy file (adds to the policy chain)")
	historyFile := flag.String("history", defaultHistoryFile(), "path to the history file")
	debugMode := flag.Bool("debug", false, "enable debug logging to stderr and $TMPDIR/goshell.log")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("goshell %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	if *debugMode {
		initDebugLog(filepath.Join(os.TempDir(), "goshell.log"))
	}

	chain, err := policy.LoadChain(*policyPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "goshell: loading policy: %v\n", err)
		os.Exit(1)
	}
	logDebugChain(chain)
	engine := policy.NewEngine(chain)

	repl, err := shell.New(shell.Config{
		HistoryFile: *historyFile,
		Policy:      engine,
		Debug:       logDebug,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "goshell: %v\n", err)
		os.Exit(1)
	}
	defer repl.Close()

	if err := repl.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "goshell: %v\n", err)
		os.Exit(1)
	}
}

// defaultHistoryFile honors $HISTFILE, matching spec.md §3's HistoryBuffer
// contract, falling back to history.txt in the current directory.
func defaultHistoryFile() string {
	if h := os.Getenv("HISTFILE"); h != "" {
		return h
	}
	return "history.txt"
}

type multiWriter struct {
	writers []io.Writer
}

func (mw *multiWriter) Write(p []byte) (n int, err error) {
	for _, w := range mw.writers {
		w.Write(p)
	}
	return len(p), nil
}

func initDebugLog(logPath string) {
	writers := []io.Writer{os.Stderr}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err == nil {
		writers = append(writers, f)
		fmt.Fprintf(os.Stderr, "[debug] Log file: %s\n", logPath)
	}
	debugLog = log.New(&multiWriter{writers}, "[goshell] ", log.Ltime)
}

func logDebug(format string, args ...any) {
	if debugLog != nil {
		debugLog.Printf(format, args...)
	}
}

func logDebugChain(chain *policy.Chain) {
	if debugLog == nil {
		return
	}
	logDebug("policy chain: %d layer(s)", len(chain.Configs))
	for i, cfg := range chain.Configs {
		logDebug("  [%d] path=%s default=%s rules=%d redirects=%d",
			i, cfg.Path, cfg.Policy.Default, len(cfg.Rules), len(cfg.Redirects))
	}
}
