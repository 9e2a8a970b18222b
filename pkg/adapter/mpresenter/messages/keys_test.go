// 指示: miu200521358
package messages

import (
	"fmt"
	"strings"
	"testing"
)

func TestLogFormatsAreUniqueAndFormattable(t *testing.T) {
	formats := map[string]int{
		LogStart:          4,
		LogModelLoaded:    2,
		LogPassStart:      2,
		LogBoneSkipped:    2,
		LogPassAborted:    3,
		LogOutcome:        3,
		LogChildExempt:    2,
		LogBoneDone:       5,
		LogSmoothSuccess:  3,
		LogBatchStart:     2,
		LogBatchFileDone:  2,
		LogBatchFileFail:  2,
		LogBatchCompleted: 2,

		LogCrashWriteFailed: 1,
	}

	for format, argCount := range formats {
		if format == "" {
			t.Fatalf("format should not be empty")
		}
		args := make([]any, argCount)
		for i := range args {
			args[i] = 1
		}
		if got := fmt.Sprintf(format, args...); strings.Contains(got, "%!(MISSING)") || strings.Contains(got, "%!(EXTRA") {
			t.Fatalf("format argument mismatch: %q -> %q", format, got)
		}
	}
}

func TestMessagesAreDefined(t *testing.T) {
	keys := []string{
		HelpUsage, LabelInputPath, LabelModelPath, LabelOutputPath,
		MessageLoadFailed, MessageSaveFailed, MessageSmoothFailed,
		MessageInputRequired, MessageOutputExtInvalid, MessageConfigFailed, MessageCause, MessageCrashBanner,
		LogModelSkipped, LogSpreadDone,
	}
	seen := map[string]struct{}{}
	for _, key := range keys {
		if key == "" {
			t.Fatalf("message should not be empty")
		}
		if _, exists := seen[key]; exists {
			t.Fatalf("message should be unique: %s", key)
		}
		seen[key] = struct{}{}
	}
}
