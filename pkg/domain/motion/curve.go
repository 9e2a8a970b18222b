// 指示: miu200521358
package motion

import "math"

const (
	// CURVE_MAX は補間曲線制御点の最大値。
	CURVE_MAX = 127.0
	// CURVE_BLOCK_SIZE は補間曲線ブロックのバイト数。
	CURVE_BLOCK_SIZE = 64

	curveRowSize       = 16
	curveParamCount    = 4
	curveSolveMaxCount = 64
	curveSolveEpsilon  = 1e-12
)

// CurveChannel は補間曲線の対象チャネルを表す。
type CurveChannel int

const (
	// CURVE_TRANSLATE_X は移動X。
	CURVE_TRANSLATE_X CurveChannel = iota
	// CURVE_TRANSLATE_Y は移動Y。
	CURVE_TRANSLATE_Y
	// CURVE_TRANSLATE_Z は移動Z。
	CURVE_TRANSLATE_Z
	// CURVE_ROTATE は回転。
	CURVE_ROTATE
)

// CurveChannels は全チャネルを処理順で返す。
var CurveChannels = []CurveChannel{CURVE_TRANSLATE_X, CURVE_TRANSLATE_Y, CURVE_TRANSLATE_Z, CURVE_ROTATE}

// String はチャネル名を返す。
func (c CurveChannel) String() string {
	switch c {
	case CURVE_TRANSLATE_X:
		return "TranslateX"
	case CURVE_TRANSLATE_Y:
		return "TranslateY"
	case CURVE_TRANSLATE_Z:
		return "TranslateZ"
	case CURVE_ROTATE:
		return "Rotate"
	}
	return "Unknown"
}

// Curve は4点ベジェ曲線の中間2制御点(0-127空間)を表す。
type Curve struct {
	X1 float64
	Y1 float64
	X2 float64
	Y2 float64
}

// LINEAR_CURVE は線形補間となる既定曲線。
var LINEAR_CURVE = Curve{X1: 20, Y1: 20, X2: 107, Y2: 107}

// NewCurveFromNormalized は0-1空間の制御点から曲線を生成する。
func NewCurveFromNormalized(x1, y1, x2, y2 float64) Curve {
	return Curve{X1: x1 * CURVE_MAX, Y1: y1 * CURVE_MAX, X2: x2 * CURVE_MAX, Y2: y2 * CURVE_MAX}
}

// Normalized は0-1空間の制御点を返す。
func (c Curve) Normalized() (x1, y1, x2, y2 float64) {
	return c.X1 / CURVE_MAX, c.Y1 / CURVE_MAX, c.X2 / CURVE_MAX, c.Y2 / CURVE_MAX
}

// IsLinear は制御点が対角線上にあり線形補間となるか判定する。
func (c Curve) IsLinear() bool {
	return c.X1 == c.Y1 && c.X2 == c.Y2
}

// Rounded は制御点を0-127の整数に丸めた曲線を返す。
func (c Curve) Rounded() Curve {
	return Curve{
		X1: roundCurveValue(c.X1),
		Y1: roundCurveValue(c.Y1),
		X2: roundCurveValue(c.X2),
		Y2: roundCurveValue(c.Y2),
	}
}

// Evaluate はstart～endの区間でtargetフレームにおける補間率(0-1)を返す。
func (c Curve) Evaluate(start, end, target int) float64 {
	if end <= start || target >= end {
		return 1
	}
	if target <= start {
		return 0
	}
	x := float64(target-start) / float64(end-start)
	if c.IsLinear() {
		return x
	}
	x1, y1, x2, y2 := c.Normalized()
	s := SolveBezierParam(x, x1, x2)
	return BezierComponent(s, y1, y2)
}

// BezierComponent は端点(0,1)固定の3次ベジェの1成分をパラメータsで評価する。
func BezierComponent(s, p1, p2 float64) float64 {
	u := 1 - s
	return 3*u*u*s*p1 + 3*u*s*s*p2 + s*s*s
}

// SolveBezierParam はX成分がxとなるベジェパラメータsを二分法で求める。
// 制御点Xが[0,1]内ならX成分は単調増加なので解は一意。
func SolveBezierParam(x, x1, x2 float64) float64 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}
	lo, hi := 0.0, 1.0
	for i := 0; i < curveSolveMaxCount; i++ {
		mid := (lo + hi) / 2
		v := BezierComponent(mid, x1, x2)
		if math.Abs(v-x) < curveSolveEpsilon {
			return mid
		}
		if v < x {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}

// CurveBlock はVMDの64バイト補間曲線ブロックを表す。
// 行k(0-3)は先頭行をk個左へずらした複製で、チャネルcの正規位置は行cにある。
type CurveBlock [CURVE_BLOCK_SIZE]byte

// NewCurveBlock は全チャネル線形補間のブロックを生成する。
func NewCurveBlock() CurveBlock {
	var b CurveBlock
	for _, ch := range CurveChannels {
		b.Encode(ch, LINEAR_CURVE)
	}
	return b
}

// curveOffset は行rowにおけるチャネル・パラメータのオフセットを返す。
// 行内に収まらない場合は-1。
func curveOffset(ch CurveChannel, param int, row int) int {
	col := param*curveParamCount + int(ch) - row
	if col < 0 || col >= curveRowSize {
		return -1
	}
	return row*curveRowSize + col
}

// CanonicalOffsets はチャネルの x1,y1,x2,y2 正規オフセットを返す。
func CanonicalOffsets(ch CurveChannel) [4]int {
	var offsets [4]int
	for p := 0; p < curveParamCount; p++ {
		offsets[p] = curveOffset(ch, p, int(ch))
	}
	return offsets
}

// Decode はチャネルの補間曲線を読み出す。
func (b *CurveBlock) Decode(ch CurveChannel) Curve {
	o := CanonicalOffsets(ch)
	return Curve{
		X1: float64(b[o[0]]),
		Y1: float64(b[o[1]]),
		X2: float64(b[o[2]]),
		Y2: float64(b[o[3]]),
	}
}

// Encode はチャネルの補間曲線を複製スロットを含めて書き込む。
func (b *CurveBlock) Encode(ch CurveChannel, c Curve) {
	values := [curveParamCount]byte{
		byte(roundCurveValue(c.X1)),
		byte(roundCurveValue(c.Y1)),
		byte(roundCurveValue(c.X2)),
		byte(roundCurveValue(c.Y2)),
	}
	for p := 0; p < curveParamCount; p++ {
		for row := 0; row < curveParamCount; row++ {
			if offset := curveOffset(ch, p, row); offset >= 0 {
				b[offset] = values[p]
			}
		}
	}
}

func roundCurveValue(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(CURVE_MAX, math.Round(v)))
}
