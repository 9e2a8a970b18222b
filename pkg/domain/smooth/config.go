// 指示: miu200521358
package smooth

import (
	"fmt"

	"github.com/miu200521358/mu_vmd_smooth/pkg/domain/mfilter"
)

const (
	// DEFAULT_PASSES は既定のパス数(打ち込み1回+結合1回)。
	DEFAULT_PASSES = 2
	// DEFAULT_SIMILARITY_THRESHOLD は連続サンプルをフィルタ対象とみなす内積の下限。
	DEFAULT_SIMILARITY_THRESHOLD = 0.99
	// DEFAULT_ZERO_RADIUS_PRECISION は半径ゼロ判定の丸め刻み。
	DEFAULT_ZERO_RADIUS_PRECISION = 0.1
	// DEFAULT_MAX_ARC_RADIUS_RATIO は弦の半分に対する円弧半径の上限比。超えると直線扱い。
	DEFAULT_MAX_ARC_RADIUS_RATIO = 1000.0
	// DEFAULT_SEAM_HALF_WINDOW は継ぎ目平滑化の片側フレーム数。
	DEFAULT_SEAM_HALF_WINDOW = 3
	// DEFAULT_POSITION_TOLERANCE は移動の曲線当てはめ許容誤差。
	DEFAULT_POSITION_TOLERANCE = 0.05
	// DEFAULT_ROTATION_TOLERANCE_DEGREE は回転の曲線当てはめ許容誤差(度)。
	DEFAULT_ROTATION_TOLERANCE_DEGREE = 0.5
	// DEFAULT_FIT_OFFSET_MARGIN は区間延長時に許容誤差へ加える変化量比。
	DEFAULT_FIT_OFFSET_MARGIN = 0.01
	// DEFAULT_TERMINATOR_POSITION_NUDGE は終端用仮フレームの移動ずらし量。
	DEFAULT_TERMINATOR_POSITION_NUDGE = 0.001
	// DEFAULT_TERMINATOR_ROTATION_SCALE は終端用仮フレームの回転延長倍率。
	DEFAULT_TERMINATOR_ROTATION_SCALE = 1.001

	// MIN_SMOOTH_KEY_COUNT は処理対象とするキー数の下限。
	MIN_SMOOTH_KEY_COUNT = 3
)

// Config は平滑化エンジンの設定を表す。
type Config struct {
	Passes                  int                   `yaml:"passes"`
	Circular                bool                  `yaml:"circular"`
	SeamSmoothing           bool                  `yaml:"seam_smoothing"`
	FilterPosition          bool                  `yaml:"filter_position"`
	FilterRotation          bool                  `yaml:"filter_rotation"`
	Filter                  mfilter.OneEuroParams `yaml:"filter"`
	SimilarityThreshold     float64               `yaml:"similarity_threshold"`
	ZeroRadiusPrecision     float64               `yaml:"zero_radius_precision"`
	MaxArcRadiusRatio       float64               `yaml:"max_arc_radius_ratio"`
	SeamHalfWindow          int                   `yaml:"seam_half_window"`
	PositionTolerance       float64               `yaml:"position_tolerance"`
	RotationToleranceDegree float64               `yaml:"rotation_tolerance_degree"`
	FitOffsetMargin         float64               `yaml:"fit_offset_margin"`
	TerminatorPositionNudge float64               `yaml:"terminator_position_nudge"`
	TerminatorRotationScale float64               `yaml:"terminator_rotation_scale"`
}

// NewConfig は既定値の設定を生成する。
func NewConfig() Config {
	return Config{
		Passes:                  DEFAULT_PASSES,
		FilterPosition:          true,
		FilterRotation:          true,
		Filter:                  mfilter.DefaultOneEuroParams(),
		SimilarityThreshold:     DEFAULT_SIMILARITY_THRESHOLD,
		ZeroRadiusPrecision:     DEFAULT_ZERO_RADIUS_PRECISION,
		MaxArcRadiusRatio:       DEFAULT_MAX_ARC_RADIUS_RATIO,
		SeamHalfWindow:          DEFAULT_SEAM_HALF_WINDOW,
		PositionTolerance:       DEFAULT_POSITION_TOLERANCE,
		RotationToleranceDegree: DEFAULT_ROTATION_TOLERANCE_DEGREE,
		FitOffsetMargin:         DEFAULT_FIT_OFFSET_MARGIN,
		TerminatorPositionNudge: DEFAULT_TERMINATOR_POSITION_NUDGE,
		TerminatorRotationScale: DEFAULT_TERMINATOR_ROTATION_SCALE,
	}
}

// Validate は設定値を検証する。
func (c Config) Validate() error {
	if c.Passes < 1 {
		return newInvalidConfig(fmt.Sprintf("パス数は1以上である必要があります: %d", c.Passes), nil)
	}
	if err := c.Filter.Validate(); err != nil {
		return newInvalidConfig("フィルタ設定が不正です", err)
	}
	if c.SimilarityThreshold < -1 || c.SimilarityThreshold > 1 {
		return newInvalidConfig(fmt.Sprintf("類似度閾値は-1～1である必要があります: %v", c.SimilarityThreshold), nil)
	}
	if c.ZeroRadiusPrecision <= 0 {
		return newInvalidConfig(fmt.Sprintf("半径丸め刻みは正の値である必要があります: %v", c.ZeroRadiusPrecision), nil)
	}
	if c.MaxArcRadiusRatio < 1 {
		return newInvalidConfig(fmt.Sprintf("円弧半径上限比は1以上である必要があります: %v", c.MaxArcRadiusRatio), nil)
	}
	if c.SeamHalfWindow < 1 {
		return newInvalidConfig(fmt.Sprintf("継ぎ目平滑化幅は1以上である必要があります: %d", c.SeamHalfWindow), nil)
	}
	if c.PositionTolerance <= 0 || c.RotationToleranceDegree <= 0 {
		return newInvalidConfig("曲線当てはめ許容誤差は正の値である必要があります", nil)
	}
	if c.FitOffsetMargin < 0 {
		return newInvalidConfig(fmt.Sprintf("区間延長マージンは0以上である必要があります: %v", c.FitOffsetMargin), nil)
	}
	if c.TerminatorPositionNudge <= 0 || c.TerminatorRotationScale <= 1 {
		return newInvalidConfig("終端用仮フレームのずらし量が不正です", nil)
	}
	return nil
}

// NeedsFilter は結合パスでフィルタをかけるか返す。
func (c Config) NeedsFilter() bool {
	return c.FilterPosition || c.FilterRotation
}
