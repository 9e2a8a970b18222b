// 指示: miu200521358
package io_config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/miu200521358/mu_vmd_smooth/pkg/adapter/io_common"
	"github.com/miu200521358/mu_vmd_smooth/pkg/domain/smooth"
	"github.com/miu200521358/mu_vmd_smooth/pkg/shared/base/merr"
)

func TestConfigLoaderOverridesOnlyListedFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	text := "passes: 4\ncircular: true\nfilter:\n  beta: 0.25\nposition_tolerance: 0.1\n"
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	cfg, err := NewConfigLoader().Load(path, smooth.NewConfig())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	want := smooth.NewConfig()
	want.Passes = 4
	want.Circular = true
	want.Filter.Beta = 0.25
	want.PositionTolerance = 0.1
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestConfigLoaderEmptyFileKeepsBase(t *testing.T) {
	cfg, err := Decode(nil, smooth.NewConfig())
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if diff := cmp.Diff(smooth.NewConfig(), cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestConfigLoaderRejectsInvalidInput(t *testing.T) {
	base := smooth.NewConfig()

	if _, err := Decode([]byte("passes: [1\n"), base); merr.ExtractErrorID(err) != io_common.ErrorIDIoParseFailed {
		t.Fatalf("expected parse failed: %v", err)
	}
	if _, err := Decode([]byte("pases: 3\n"), base); merr.ExtractErrorID(err) != io_common.ErrorIDIoParseFailed {
		t.Fatalf("unknown field should fail: %v", err)
	}
	if _, err := Decode([]byte("passes: 0\n"), base); merr.ExtractErrorID(err) != smooth.ErrorIDInvalidConfig {
		t.Fatalf("expected invalid config: %v", err)
	}
	if _, err := Decode([]byte("filter:\n  frequency: -1\n"), base); !merr.IsKind(err, merr.KindInvalidFilterParameter) {
		t.Fatalf("expected invalid filter parameter in chain: %v", err)
	}

	loader := NewConfigLoader()
	if _, err := loader.Load("tuning.json", base); merr.ExtractErrorID(err) != io_common.ErrorIDIoExtInvalid {
		t.Fatalf("expected ext invalid: %v", err)
	}
	if _, err := loader.Load(filepath.Join(t.TempDir(), "missing.yml"), base); merr.ExtractErrorID(err) != io_common.ErrorIDIoFileNotFound {
		t.Fatalf("expected not found: %v", err)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := smooth.NewConfig()
	cfg.SeamSmoothing = true
	cfg.SeamHalfWindow = 5

	b, err := Encode(cfg)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	decoded, err := Decode(b, smooth.NewConfig())
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if diff := cmp.Diff(cfg, decoded); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}
