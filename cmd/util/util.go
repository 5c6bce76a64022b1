package util

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/stowage-dev/stowage/pkg/analytics"
	"github.com/stowage-dev/stowage/pkg/api"
	"github.com/stowage-dev/stowage/pkg/config"
	"github.com/stowage-dev/stowage/pkg/errors"
)

// ClearProgress erases the progress dots printed by a ProgressPrinter so
// that the next print starts on a clean line.
const ClearProgress = "\r\033[K"

// Mocked for unit testing.
var stdin io.Reader = os.Stdin

// GetClient creates an API client according to the user's Stowage config.
func GetClient() (api.Client, error) {
	userConfig, err := config.ParseUser()
	if err != nil {
		return nil, errors.WithContext(err, "parse user config")
	}
	return api.New(userConfig), nil
}

// HandleFatalError prints a user-friendly version of the error, reports it to
// analytics, and exits.
func HandleFatalError(err error) {
	analytics.Log.WithError(err).Error("Fatal error")
	fmt.Fprintln(os.Stderr, errors.GetPrintableMessage(err))
	os.Exit(1)
}

// HandlePanic reports panics to analytics before crashing. It should be
// deferred at the top of each goroutine that doesn't have another recovery
// handler.
func HandlePanic() {
	if r := recover(); r != nil {
		analytics.Log.WithField("stack", string(debug.Stack())).
			Errorf("Panic: %v", r)
		fmt.Fprintf(os.Stderr, "panic: %v\n\n%s", r, debug.Stack())
		os.Exit(1)
	}
}

// PromptYesOrNo asks the user the given question, and repeats it until the
// user gives an intelligible answer.
func PromptYesOrNo(question string) (bool, error) {
	reader := bufio.NewReader(stdin)
	for {
		fmt.Printf("%s [y/n] ", question)
		resp, err := reader.ReadString('\n')
		if err != nil {
			return false, errors.WithContext(err, "read response")
		}

		switch strings.ToLower(strings.TrimSpace(resp)) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
	}
}

// ProgressPrinter prints a message followed by a dot every interval until
// it's stopped, to show that a slow operation is still making progress.
type ProgressPrinter struct {
	out      io.Writer
	msg      string
	interval time.Duration
	stop     chan struct{}
	stopped  chan struct{}
}

// NewProgressPrinter creates a ProgressPrinter that writes to out. Run must
// be called on its own goroutine for printing to start.
func NewProgressPrinter(out io.Writer, msg string) *ProgressPrinter {
	return &ProgressPrinter{
		out:      out,
		msg:      msg,
		interval: time.Second,
		stop:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

// Run prints the message and a trailing dot every interval until Stop is
// called.
func (pp *ProgressPrinter) Run() {
	defer close(pp.stopped)
	fmt.Fprint(pp.out, pp.msg)

	ticker := time.NewTicker(pp.interval)
	defer ticker.Stop()
	for {
		select {
		case <-pp.stop:
			return
		case <-ticker.C:
			fmt.Fprint(pp.out, ".")
		}
	}
}

// Stop terminates the printer and moves the cursor to a new line.
func (pp *ProgressPrinter) Stop() {
	pp.StopWithPrint("\n")
}

// StopWithPrint terminates the printer and writes the given string, which
// can be ClearProgress to erase the progress line entirely.
func (pp *ProgressPrinter) StopWithPrint(s string) {
	close(pp.stop)
	<-pp.stopped
	fmt.Fprint(pp.out, s)
}
