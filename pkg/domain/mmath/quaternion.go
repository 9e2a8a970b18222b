// 指示: miu200521358
package mmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Quaternion は回転を表すクォータニオンを表す。
type Quaternion struct {
	quat.Number
}

// NewQuaternion は単位クォータニオンを生成する。
func NewQuaternion() Quaternion {
	return Quaternion{Number: quat.Number{Real: 1}}
}

// NewQuaternionByValues はXYZWを指定してクォータニオンを生成する。
func NewQuaternionByValues(x, y, z, w float64) Quaternion {
	return Quaternion{Number: quat.Number{Real: w, Imag: x, Jmag: y, Kmag: z}}
}

// NewQuaternionFromDegrees はオイラー角(度、YXZ順)からクォータニオンを生成する。
func NewQuaternionFromDegrees(xPitch, yHead, zRoll float64) Quaternion {
	return NewQuaternionFromRadians(DegToRad(xPitch), DegToRad(yHead), DegToRad(zRoll))
}

// NewQuaternionFromRadians はオイラー角(ラジアン、YXZ順)からクォータニオンを生成する。
func NewQuaternionFromRadians(xPitch, yHead, zRoll float64) Quaternion {
	c1, s1 := math.Cos(yHead/2), math.Sin(yHead/2)
	c2, s2 := math.Cos(zRoll/2), math.Sin(zRoll/2)
	c3, s3 := math.Cos(xPitch/2), math.Sin(xPitch/2)
	c1c2 := c1 * c2
	s1s2 := s1 * s2

	return NewQuaternionByValues(
		c1c2*s3+s1s2*c3,
		s1*c2*c3-c1*s2*s3,
		c1*s2*c3-s1*c2*s3,
		c1c2*c3+s1s2*s3,
	)
}

// NewQuaternionFromAxisAngle は軸と角度(ラジアン)からクォータニオンを生成する。
func NewQuaternionFromAxisAngle(axis Vec3, angle float64) Quaternion {
	if axis.IsZero() {
		return NewQuaternion()
	}
	n := axis.Normalized()
	return fromMgl(mgl64.QuatRotate(angle, mgl64.Vec3{n.X, n.Y, n.Z}))
}

// NewQuaternionRotate はfromからtoへ向ける最短回転を生成する。
func NewQuaternionRotate(from, to Vec3) Quaternion {
	if from.IsZero() || to.IsZero() {
		return NewQuaternion()
	}
	f := from.Normalized()
	t := to.Normalized()
	return fromMgl(mgl64.QuatBetweenVectors(mgl64.Vec3{f.X, f.Y, f.Z}, mgl64.Vec3{t.X, t.Y, t.Z})).Normalized()
}

// X はX成分を返す。
func (q Quaternion) X() float64 { return q.Imag }

// Y はY成分を返す。
func (q Quaternion) Y() float64 { return q.Jmag }

// Z はZ成分を返す。
func (q Quaternion) Z() float64 { return q.Kmag }

// W はW成分を返す。
func (q Quaternion) W() float64 { return q.Real }

// Vec3 は虚部をベクトルとして返す。
func (q Quaternion) Vec3() Vec3 {
	return NewVec3(q.Imag, q.Jmag, q.Kmag)
}

// Muled は積 q*other を返す。
func (q Quaternion) Muled(other Quaternion) Quaternion {
	return Quaternion{Number: quat.Mul(q.Number, other.Number)}
}

// Inverted は逆回転を返す。
func (q Quaternion) Inverted() Quaternion {
	if quat.Abs(q.Number) == 0 {
		return NewQuaternion()
	}
	return Quaternion{Number: quat.Inv(q.Number)}
}

// Length はノルムを返す。
func (q Quaternion) Length() float64 {
	return quat.Abs(q.Number)
}

// Normalized は正規化したクォータニオンを返す。
func (q Quaternion) Normalized() Quaternion {
	l := quat.Abs(q.Number)
	if l == 0 {
		return NewQuaternion()
	}
	return Quaternion{Number: quat.Scale(1/l, q.Number)}
}

// Negated は符号反転した(同じ回転を表す)クォータニオンを返す。
func (q Quaternion) Negated() Quaternion {
	return Quaternion{Number: quat.Scale(-1, q.Number)}
}

// Dot は4次元内積を返す。
func (q Quaternion) Dot(other Quaternion) float64 {
	return q.Real*other.Real + q.Imag*other.Imag + q.Jmag*other.Jmag + q.Kmag*other.Kmag
}

// AngleTo はotherまでの回転角(ラジアン)を返す。
func (q Quaternion) AngleTo(other Quaternion) float64 {
	d := math.Abs(q.Normalized().Dot(other.Normalized()))
	return 2 * math.Acos(Clamped(d, 0, 1))
}

// Slerp は球面線形補間を返す。符号の異なる表現は最短経路側へ揃える。
func (q Quaternion) Slerp(other Quaternion, t float64) Quaternion {
	if t <= 0 {
		return q
	}
	if t >= 1 {
		return other
	}
	to := other
	if q.Dot(other) < 0 {
		to = other.Negated()
	}
	return fromMgl(mgl64.QuatSlerp(q.toMgl(), to.toMgl(), t)).Normalized()
}

// MulVec3 はベクトルを回転させる。
func (q Quaternion) MulVec3(v Vec3) Vec3 {
	return Vec3{Vec: r3.Rotation(q.Normalized().Number).Rotate(v.Vec)}
}

// ToRadians はオイラー角(ラジアン、YXZ順)を返す。
func (q Quaternion) ToRadians() Vec3 {
	n := q.Normalized()
	x, y, z, w := n.Imag, n.Jmag, n.Kmag, n.Real
	xx, yy, zz := x*x, y*y, z*z
	xy, xz, xw := x*y, x*z, x*w
	yz, yw, zw := y*z, y*w, z*w

	sinp := -2 * (yz - xw)
	var pitch float64
	if math.Abs(sinp) >= 1 {
		pitch = math.Copysign(math.Pi/2, sinp)
	} else {
		pitch = math.Asin(sinp)
	}
	yaw := math.Atan2(2*(xz+yw), 1-2*(xx+yy))
	roll := math.Atan2(2*(xy+zw), 1-2*(xx+zz))

	return NewVec3(pitch, yaw, roll)
}

// ToDegrees はオイラー角(度、YXZ順)を返す。
func (q Quaternion) ToDegrees() Vec3 {
	r := q.ToRadians()
	return NewVec3(RadToDeg(r.X), RadToDeg(r.Y), RadToDeg(r.Z))
}

// TwistAngle は軸まわりのひねり成分の角度(ラジアン、符号付き)を返す。
func (q Quaternion) TwistAngle(axis Vec3) float64 {
	if axis.IsZero() {
		return 0
	}
	n := q.Normalized()
	if n.Real < 0 {
		n = n.Negated()
	}
	a := axis.Normalized()
	return 2 * math.Atan2(n.Vec3().Dot(a), n.Real)
}

// SwingTwist は軸まわりのひねりとそれ以外の振りに分解する(q = swing * twist)。
func (q Quaternion) SwingTwist(axis Vec3) (swing Quaternion, twist Quaternion) {
	twist = NewQuaternionFromAxisAngle(axis, q.TwistAngle(axis))
	swing = q.Normalized().Muled(twist.Inverted())
	return swing, twist
}

// IsIdent は単位回転か判定する。
func (q Quaternion) IsIdent() bool {
	return q.NearEquals(NewQuaternion(), 1e-10)
}

// NearEquals は同じ回転を表すか許容誤差付きで判定する。
func (q Quaternion) NearEquals(other Quaternion, epsilon float64) bool {
	return nearEqualsQuat(q, other, epsilon) || nearEqualsQuat(q, other.Negated(), epsilon)
}

func nearEqualsQuat(a, b Quaternion, epsilon float64) bool {
	return math.Abs(a.Real-b.Real) <= epsilon &&
		math.Abs(a.Imag-b.Imag) <= epsilon &&
		math.Abs(a.Jmag-b.Jmag) <= epsilon &&
		math.Abs(a.Kmag-b.Kmag) <= epsilon
}

func (q Quaternion) toMgl() mgl64.Quat {
	return mgl64.Quat{W: q.Real, V: mgl64.Vec3{q.Imag, q.Jmag, q.Kmag}}
}

func fromMgl(m mgl64.Quat) Quaternion {
	return NewQuaternionByValues(m.V[0], m.V[1], m.V[2], m.W)
}
