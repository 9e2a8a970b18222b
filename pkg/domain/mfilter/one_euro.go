// 指示: miu200521358
// Package mfilter はモーション値の適応ローパスフィルタ(One Euro Filter)を提供する。
package mfilter

import (
	"fmt"
	"math"

	"github.com/miu200521358/mu_vmd_smooth/pkg/shared/base/merr"
)

// ErrorIDInvalidFilterParameter はフィルタ生成パラメータ不正のエラーID。
const ErrorIDInvalidFilterParameter = "21105"

// OneEuroParams はフィルタ生成パラメータを表す。
type OneEuroParams struct {
	Frequency float64 `yaml:"frequency"`
	MinCutoff float64 `yaml:"min_cutoff"`
	Beta      float64 `yaml:"beta"`
	DCutoff   float64 `yaml:"d_cutoff"`
}

// DefaultOneEuroParams は既定パラメータを返す。
func DefaultOneEuroParams() OneEuroParams {
	return OneEuroParams{Frequency: 30, MinCutoff: 0.1, Beta: 0.5, DCutoff: 0.8}
}

// Validate はパラメータを検証する。
func (p OneEuroParams) Validate() error {
	if p.Frequency <= 0 {
		return newInvalidFilterParameter("frequency", p.Frequency)
	}
	if p.MinCutoff <= 0 {
		return newInvalidFilterParameter("min_cutoff", p.MinCutoff)
	}
	if p.DCutoff <= 0 {
		return newInvalidFilterParameter("d_cutoff", p.DCutoff)
	}
	return nil
}

func newInvalidFilterParameter(name string, value float64) error {
	return merr.NewCommonError(
		ErrorIDInvalidFilterParameter,
		merr.KindInvalidFilterParameter,
		fmt.Sprintf("フィルタパラメータ %s は正の値である必要があります: %v", name, value),
		nil,
	)
}

// lowPass は一次ローパスフィルタを表す。
type lowPass struct {
	raw         float64
	smoothed    float64
	initialized bool
}

// filter はalphaで平滑化する。初回は入力値をそのまま返す。
func (lp *lowPass) filter(value, alpha float64) float64 {
	smoothed := value
	if lp.initialized {
		smoothed = alpha*value + (1-alpha)*lp.smoothed
	}
	lp.raw = value
	lp.smoothed = smoothed
	lp.initialized = true
	return smoothed
}

// reset は平滑化せずに状態を値へ揃える。
func (lp *lowPass) reset(value float64) {
	lp.raw = value
	lp.smoothed = value
	lp.initialized = true
}

// OneEuroFilter はスカラー値1本分のOne Euro Filterを表す。
// 時刻にはフレーム番号を用い、2回目以降はフレーム間隔からサンプリングレートを求める。
type OneEuroFilter struct {
	params       OneEuroParams
	rate         float64
	x            lowPass
	dx           lowPass
	lastFrame    int
	hasLastFrame bool
}

// NewOneEuroFilter はフィルタを生成する。
func NewOneEuroFilter(params OneEuroParams) (*OneEuroFilter, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &OneEuroFilter{params: params, rate: params.Frequency}, nil
}

// alpha はカットオフ周波数から平滑化係数を求める。
func (f *OneEuroFilter) alpha(cutoff float64) float64 {
	tau := 1.0 / (2 * math.Pi * cutoff)
	return 1.0 / (1.0 + tau*f.rate)
}

// updateRate はフレーム間隔からサンプリングレートを更新する。
func (f *OneEuroFilter) updateRate(frame int) {
	if f.hasLastFrame && frame > f.lastFrame {
		f.rate = 1.0 / float64(frame-f.lastFrame)
	}
	f.lastFrame = frame
	f.hasLastFrame = true
}

// Update は値を平滑化して返す。
func (f *OneEuroFilter) Update(value float64, frame int) float64 {
	f.updateRate(frame)

	derivative := 0.0
	if f.x.initialized {
		derivative = (value - f.x.smoothed) * f.rate
	}
	smoothedDerivative := f.dx.filter(derivative, f.alpha(f.params.DCutoff))
	cutoff := f.params.MinCutoff + f.params.Beta*math.Abs(smoothedDerivative)

	return f.x.filter(value, f.alpha(cutoff))
}

// Skip は平滑化せずに状態だけを値へ揃える。
func (f *OneEuroFilter) Skip(value float64, frame int) {
	f.updateRate(frame)
	f.dx.reset(0)
	f.x.reset(value)
}
