// 指示: miu200521358
package merr

import (
	"errors"
	"fmt"
	"testing"
)

func TestExtractErrorIDFromWrappedError(t *testing.T) {
	base := NewCommonError("21101", KindMissingNeighbor, "前キーがありません", nil)
	wrapped := fmt.Errorf("ボーン処理失敗: %w", base)

	if got := ExtractErrorID(wrapped); got != "21101" {
		t.Fatalf("expected error id 21101, got %s", got)
	}
	if ExtractErrorID(errors.New("plain")) != "" {
		t.Fatalf("plain error should not carry an id")
	}
}

func TestIsKindFollowsCauseChain(t *testing.T) {
	inner := NewCommonError("21105", KindInvalidFilterParameter, "freqが不正です", nil)
	outer := NewCommonError("21106", KindInvalidConfig, "設定が不正です", inner)

	if !IsKind(outer, KindInvalidConfig) {
		t.Fatalf("outer kind should match")
	}
	if !IsKind(outer, KindInvalidFilterParameter) {
		t.Fatalf("inner kind should match through cause")
	}
	if IsKind(outer, KindRejectedFit) {
		t.Fatalf("unrelated kind should not match")
	}
	if !errors.Is(outer, inner) {
		t.Fatalf("errors.Is should reach inner cause")
	}
}

func TestCommonErrorMessageIncludesCause(t *testing.T) {
	err := NewCommonError("14101", KindIo, "ファイルが見つかりません", errors.New("no such file"))
	if err.Error() != "[14101] ファイルが見つかりません: no such file" {
		t.Fatalf("unexpected message: %s", err.Error())
	}
}
