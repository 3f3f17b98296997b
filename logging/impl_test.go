package logging

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zapcore"
	"go.viam.com/test"
)

type BasicStruct struct {
	X int
	y string
}

type Waypoint struct {
	Time float64
	X    float64
}

type StructWithStruct struct {
	x int
	Y Waypoint
}

// assertLogMatches will fuzzy match log lines. Notably, this checks the time format, but ignores
// the exact time. And it expects a match on the filename, but the exact line number can be wrong.
func assertLogMatches(t *testing.T, actual *bytes.Buffer, expected string) {
	t.Helper()

	output, err := actual.ReadString('\n')
	test.That(t, err, test.ShouldBeNil)

	actualTrimmed := strings.TrimSuffix(output, "\n")
	actualParts := strings.Split(actualTrimmed, "\t")
	expectedParts := strings.Split(expected, "\t")
	_, err = time.Parse(DefaultTimeFormatStr, actualParts[0])
	test.That(t, err, test.ShouldBeNil)
	// Log level.
	test.That(t, actualParts[1], test.ShouldEqual, expectedParts[1])

	// Filename:line_number.
	actualFilename, actualLineNumber, found := strings.Cut(actualParts[2], ":")
	test.That(t, found, test.ShouldBeTrue)
	expectedFilename, _, found := strings.Cut(expectedParts[2], ":")
	test.That(t, found, test.ShouldBeTrue)
	test.That(t, actualFilename, test.ShouldEqual, expectedFilename)
	_, err = strconv.Atoi(actualLineNumber)
	test.That(t, err, test.ShouldBeNil)

	// Log message.
	test.That(t, actualParts[3], test.ShouldEqual, expectedParts[3])

	// Structured logging with the "w" API has an extra tab delimited output.
	test.That(t, len(actualParts), test.ShouldEqual, len(expectedParts))
	if len(actualParts) == 4 {
		return
	}

	expectedMap := make(map[string]any)
	err = json.Unmarshal([]byte(expectedParts[4]), &expectedMap)
	test.That(t, err, test.ShouldBeNil)

	actualMap := make(map[string]any)
	err = json.Unmarshal([]byte(actualParts[4]), &actualMap)
	test.That(t, err, test.ShouldBeNil)

	test.That(t, actualMap, test.ShouldResemble, expectedMap)
}

func newBufferLogger(buf *bytes.Buffer, level Level) *impl {
	return &impl{"", NewAtomicLevelAt(level), false, []Appender{NewWriterAppender(buf)}}
}

func TestConsoleOutputFormat(t *testing.T) {
	notStdout := &bytes.Buffer{}
	logger := newBufferLogger(notStdout, DEBUG)

	logger.Info("impl Info log")
	assertLogMatches(t, notStdout,
		`2023-10-30T09:12:09.459-0400	INFO	logging/impl_test.go:67	impl Info log`)

	logger.Infof("impl %s log", "infof")
	assertLogMatches(t, notStdout,
		`2023-10-30T09:45:20.764-0400	INFO	logging/impl_test.go:131	impl infof log`)

	logger.Infow("impl logw", "key", "value")
	assertLogMatches(t, notStdout,
		`2023-10-30T13:19:45.806-0400	INFO	logging/impl_test.go:132	impl logw	{"key":"value"}`)

	logger.Debugw("init", "segments", 3, "StructWithStruct", StructWithStruct{1, Waypoint{0.5, 2}})
	assertLogMatches(t, notStdout,
		`2023-10-30T13:20:47.129-0400	DEBUG	logging/impl_test.go:123	init	{"StructWithStruct":{"Y":{"Time":0.5,"X":2}},"segments":3}`)

	logger.Warnw("BasicStruct", "BasicStruct", BasicStruct{1, "private"})
	assertLogMatches(t, notStdout,
		`2023-10-30T13:20:47.129-0400	WARN	logging/impl_test.go:125	BasicStruct	{"BasicStruct":{"X":1}}`)

	// an unpaired key is kept with a placeholder and no extra fields
	logger.Errorw("unpaired", "lonely")
	assertLogMatches(t, notStdout,
		`2023-10-30T13:20:47.129-0400	ERROR	logging/impl_test.go:125	unpaired	{"lonely":"unpaired log key"}`)
}

func TestLevelFiltering(t *testing.T) {
	notStdout := &bytes.Buffer{}
	logger := newBufferLogger(notStdout, WARN)

	logger.Debug("dropped")
	logger.Info("dropped")
	test.That(t, notStdout.Len(), test.ShouldEqual, 0)

	logger.Warn("kept")
	assertLogMatches(t, notStdout, `2023-10-30T09:12:09.459-0400	WARN	logging/impl_test.go:1	kept`)

	logger.SetLevel(DEBUG)
	test.That(t, logger.GetLevel(), test.ShouldEqual, DEBUG)
	logger.Debugf("kept %d", 2)
	assertLogMatches(t, notStdout, `2023-10-30T09:12:09.459-0400	DEBUG	logging/impl_test.go:1	kept 2`)
}

func TestSubloggerAndObserver(t *testing.T) {
	logger, logs := NewObservedTestLogger(t)
	sub := logger.Sublogger("trajectory").Sublogger("spline")

	sub.Infow("solved", "segments", 4)
	logger.Debug("root")
	test.That(t, logger.Sync(), test.ShouldBeNil)

	entries := logs.All()
	test.That(t, entries, test.ShouldHaveLength, 2)
	test.That(t, entries[0].LoggerName, test.ShouldEqual, "trajectory.spline")
	test.That(t, entries[0].Level, test.ShouldEqual, zapcore.InfoLevel)
	test.That(t, entries[0].ContextMap()["segments"], test.ShouldEqual, int64(4))
	test.That(t, entries[1].LoggerName, test.ShouldEqual, "")
	test.That(t, logs.FilterMessage("solved").Len(), test.ShouldEqual, 1)

	// subloggers copy the level, they do not share it
	sub.SetLevel(ERROR)
	test.That(t, logger.GetLevel(), test.ShouldEqual, DEBUG)
}

func TestConstructorLevels(t *testing.T) {
	test.That(t, NewLogger("info").GetLevel(), test.ShouldEqual, INFO)
	test.That(t, NewDebugLogger("debug").GetLevel(), test.ShouldEqual, DEBUG)
	test.That(t, NewBlankLogger("blank").GetLevel(), test.ShouldEqual, DEBUG)

	// blank loggers have nowhere to write
	blank := NewBlankLogger("blank")
	blank.Info("dropped")
	test.That(t, blank.Sync(), test.ShouldBeNil)
}

func TestLevelFromString(t *testing.T) {
	for inp, expected := range map[string]Level{"debug": DEBUG, "INFO": INFO, "Warn": WARN, "warning": WARN, "error": ERROR} {
		level, err := LevelFromString(inp)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, level, test.ShouldEqual, expected)
	}
	_, err := LevelFromString("verbose")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, INFO.AsZap(), test.ShouldEqual, zapcore.InfoLevel)
	test.That(t, ERROR.String(), test.ShouldEqual, "Error")
}
