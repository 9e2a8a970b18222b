// 指示: miu200521358
package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerSuppressesDebugUntilEnabled(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	logger := NewLogger(buf)

	logger.Debug("hidden %d", 1)
	if strings.Contains(buf.String(), "hidden") {
		t.Fatalf("debug should be suppressed: %s", buf.String())
	}

	logger.SetDebug(true)
	logger.Debug("shown %d", 2)
	if !strings.Contains(buf.String(), "shown 2") {
		t.Fatalf("debug should be written: %s", buf.String())
	}
}

func TestLoggerVerboseRequiresChannel(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	logger := NewLogger(buf)

	logger.Verbose(VERBOSE_INDEX_SMOOTH, "pass %d", 1)
	if buf.Len() != 0 {
		t.Fatalf("verbose should be suppressed: %s", buf.String())
	}

	logger.EnableVerbose(VERBOSE_INDEX_SMOOTH)
	if !logger.IsVerboseEnabled(VERBOSE_INDEX_SMOOTH) {
		t.Fatalf("verbose channel should be enabled")
	}
	if logger.IsVerboseEnabled(VERBOSE_INDEX_MOTION) {
		t.Fatalf("other verbose channel should stay disabled")
	}
	logger.Verbose(VERBOSE_INDEX_SMOOTH, "pass %d", 3)
	if !strings.Contains(buf.String(), "pass 3") {
		t.Fatalf("verbose should be written: %s", buf.String())
	}
}

func TestSetDefaultLoggerIgnoresNil(t *testing.T) {
	before := DefaultLogger()
	SetDefaultLogger(nil)
	if DefaultLogger() != before {
		t.Fatalf("nil logger should not replace default")
	}
}
