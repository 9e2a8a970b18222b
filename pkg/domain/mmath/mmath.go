// 指示: miu200521358
// Package mmath はモーション計算用のベクトル・クォータニオンを提供する。
package mmath

import "math"

// DegToRad は度をラジアンに変換する。
func DegToRad(degree float64) float64 {
	return degree * math.Pi / 180.0
}

// RadToDeg はラジアンを度に変換する。
func RadToDeg(radian float64) float64 {
	return radian * 180.0 / math.Pi
}

// Clamped はmin-maxで値をクランプする。
func Clamped(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// NearEquals は許容誤差内で一致するか判定する。
func NearEquals(a, b, epsilon float64) bool {
	return math.Abs(a-b) <= epsilon
}

// RoundTo は指定刻みに丸める。
func RoundTo(value, unit float64) float64 {
	if unit <= 0 {
		return value
	}
	return math.Round(value/unit) * unit
}
