package analytics

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/stowage-dev/stowage/pkg/version"
)

var (
	// Log is the global analytics logger. Log events created via this object are
	// automatically pushed into our analytics system.
	Log = newAnalyticsLogger()

	// Optional values for automatically enriching the analytics metadata
	// that's sent to DataDog.
	source  string
	region  string
	account string

	// Mocked out for unit testing.
	httpPost = http.Post
)

func newAnalyticsLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(ioutil.Discard)

	// Don't actually publish analytics if we weren't compiled from `make`
	// (i.e. we're most likely being called from `go test`), or if we're
	// running a development copy of Stowage.
	if version.Version != version.EmptyValue || strings.HasSuffix(version.Version, "-dev") {
		logger.AddHook(&hook{logrus.AllLevels, analyticsStream})
	}

	return logger
}

const (
	// Documentation: https://docs.datadoghq.com/api/?lang=python#send-logs-over-http
	// https://docs.datadoghq.com/logs/log_collection/?tab=ussite#datadog-logs-endpoints
	ddEndpoint    = "https://http-intake.logs.datadoghq.com/v1/input/f81c3d2ea90be1f4eab85a157a4c9bfa"
	ddContentType = "application/json"

	analyticsStream = "analytics"
	loggingStream   = "logging"
)

// ddFormatter formats log entries according to DD's preferred format
var ddFormatter = &logrus.JSONFormatter{
	FieldMap: logrus.FieldMap{
		logrus.FieldKeyTime:  "timestamp",
		logrus.FieldKeyLevel: "status",
		logrus.FieldKeyMsg:   "message",
	},
}

// NewLogHook creates a new hook that forwards log messages to the Stowage
// analytics system.
func NewLogHook() logrus.Hook {
	levels := []logrus.Level{logrus.WarnLevel, logrus.ErrorLevel}
	return &hook{levels, loggingStream}
}

// Disable turns off analytics publishing entirely. It's called when the user
// config sets disableTelemetry.
func Disable() {
	Log = logrus.New()
	Log.SetOutput(ioutil.Discard)
}

// SetSource sets the source that is automatically added to analytics
// events.
func SetSource(s string) {
	source = s
}

// SetRegion sets the storage region that is automatically added to analytics
// events.
func SetRegion(r string) {
	region = r
}

// SetAccount sets the account name that is automatically added to analytics
// events.
func SetAccount(a string) {
	account = a
}

type hook struct {
	levels     []logrus.Level
	streamType string
}

func (h *hook) Levels() []logrus.Level {
	return h.levels
}

func (h *hook) Fire(entry *logrus.Entry) error {
	tags := []string{
		fmt.Sprintf("stream:%s", h.streamType),
		fmt.Sprintf("stowage-version:%s", version.Version),
	}
	if region != "" {
		tags = append(tags, fmt.Sprintf("region:%s", region))
	}
	if account != "" {
		tags = append(tags, fmt.Sprintf("account:%s", account))
	}

	dataCopy := map[string]interface{}{
		"ddsource": source,
		"ddtags":   strings.Join(tags, ","),
	}
	for k, v := range entry.Data {
		dataCopy[k] = v
	}

	// Copy the entry so that when we don't change it when we add
	// DataDog-specific values to Data.
	entryCopy := *entry
	entryCopy.Data = dataCopy

	// DataDog doesn't have a concept of "panic" level, so we treat panics as
	// fatal errors.
	if entry.Level == logrus.PanicLevel {
		entryCopy.Level = logrus.FatalLevel
	}

	jsonBytes, err := ddFormatter.Format(&entryCopy)
	if err != nil {
		logrus.WithError(err).Debug("Failed to marshal log entry for analytics")
		return nil
	}

	resp, err := httpPost(ddEndpoint, ddContentType, bytes.NewReader(jsonBytes))
	if err != nil {
		logrus.WithError(err).Debug("Failed to update analytics")
	} else {
		// Close the body to avoid leaking resources.
		resp.Body.Close()
	}

	// Never return an error because doing so causes the error to be printed
	// directly to `stderr`:
	// https://github.com/Sirupsen/logrus/issues/116
	return nil
}
