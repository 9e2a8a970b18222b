// 指示: miu200521358
package vmd

import (
	"fmt"
	"strings"

	"github.com/miu200521358/mu_vmd_smooth/pkg/adapter/io_common"
	"github.com/miu200521358/mu_vmd_smooth/pkg/domain/mmath"
	"github.com/miu200521358/mu_vmd_smooth/pkg/domain/motion"
)

const (
	vmdSignature           = "Vocaloid Motion Data 0002"
	vmdLegacySignature     = "Vocaloid Motion Data file"
	vmdHeaderSize          = 30
	vmdModelNameSize       = 20
	vmdLegacyModelNameSize = 10
	vmdBoneNameSize        = 15
	vmdMorphNameSize       = 15
	vmdIkNameSize          = 20
	vmdCameraCurveSize     = 24
)

// parseVmd はVMDバイト列をモーションに変換する。ボーン以降のセクションは途中終了を許容する。
func parseVmd(b []byte, path string) (*motion.Motion, error) {
	r := io_common.NewBinaryReader(b)
	m := motion.NewMotion(path)

	header, err := r.ReadBytes(vmdHeaderSize)
	if err != nil {
		return nil, fmt.Errorf("ヘッダの読み取りに失敗しました: %w", err)
	}
	signature := strings.TrimRight(string(header[:len(vmdSignature)]), "\x00")
	modelNameSize := vmdModelNameSize
	switch signature {
	case vmdSignature:
	case vmdLegacySignature:
		modelNameSize = vmdLegacyModelNameSize
	default:
		return nil, fmt.Errorf("VMDヘッダではありません: %q", signature)
	}

	modelName, err := r.ReadBytes(modelNameSize)
	if err != nil {
		return nil, fmt.Errorf("モデル名の読み取りに失敗しました: %w", err)
	}
	m.ModelName = decodeName(modelName)

	if err := readBoneFrames(r, m); err != nil {
		return nil, err
	}

	sections := []struct {
		name string
		read func(*io_common.BinaryReader, *motion.Motion) error
	}{
		{"モーフ", readMorphFrames},
		{"カメラ", readCameraFrames},
		{"照明", readLightFrames},
		{"セルフ影", readShadowFrames},
		{"IK", readIkFrames},
	}
	for _, section := range sections {
		// 古いファイルは途中のセクションで終わる
		if r.Remaining() == 0 {
			break
		}
		if err := section.read(r, m); err != nil {
			return nil, fmt.Errorf("%sフレームの読み取りに失敗しました: %w", section.name, err)
		}
	}
	return m, nil
}

func readBoneFrames(r *io_common.BinaryReader, m *motion.Motion) error {
	count, err := r.ReadUint32()
	if err != nil {
		return fmt.Errorf("ボーンフレーム数の読み取りに失敗しました: %w", err)
	}
	for i := uint32(0); i < count; i++ {
		name, bf, err := readBoneFrame(r)
		if err != nil {
			return fmt.Errorf("ボーンフレーム(%d件目)の読み取りに失敗しました: %w", i, err)
		}
		m.AppendBoneFrame(name, bf)
	}
	return nil
}

func readBoneFrame(r *io_common.BinaryReader) (string, *motion.BoneFrame, error) {
	nameBytes, err := r.ReadBytes(vmdBoneNameSize)
	if err != nil {
		return "", nil, err
	}
	index, err := r.ReadUint32()
	if err != nil {
		return "", nil, err
	}
	position, err := r.ReadVec3()
	if err != nil {
		return "", nil, err
	}
	var q [4]float64
	for i := range q {
		if q[i], err = r.ReadFloat32(); err != nil {
			return "", nil, err
		}
	}
	curves, err := r.ReadBytes(motion.CURVE_BLOCK_SIZE)
	if err != nil {
		return "", nil, err
	}

	bf := motion.NewBoneFrame(int(index))
	bf.Position = position
	bf.Rotation = mmath.NewQuaternionByValues(q[0], q[1], q[2], q[3])
	copy(bf.Curves[:], curves)
	bf.Key = true
	return decodeName(nameBytes), bf, nil
}

func readMorphFrames(r *io_common.BinaryReader, m *motion.Motion) error {
	count, err := r.ReadUint32()
	if err != nil {
		return err
	}
	m.MorphFrames = make([]motion.MorphFrame, 0, capacityHint(count, r, 23))
	for i := uint32(0); i < count; i++ {
		nameBytes, err := r.ReadBytes(vmdMorphNameSize)
		if err != nil {
			return err
		}
		index, err := r.ReadUint32()
		if err != nil {
			return err
		}
		ratio, err := r.ReadFloat32()
		if err != nil {
			return err
		}
		m.MorphFrames = append(m.MorphFrames, motion.MorphFrame{Name: decodeName(nameBytes), Index: int(index), Ratio: ratio})
	}
	return nil
}

func readCameraFrames(r *io_common.BinaryReader, m *motion.Motion) error {
	count, err := r.ReadUint32()
	if err != nil {
		return err
	}
	m.CameraFrames = make([]motion.CameraFrame, 0, capacityHint(count, r, 61))
	for i := uint32(0); i < count; i++ {
		var cf motion.CameraFrame
		index, err := r.ReadUint32()
		if err != nil {
			return err
		}
		cf.Index = int(index)
		if cf.Distance, err = r.ReadFloat32(); err != nil {
			return err
		}
		if cf.Position, err = r.ReadVec3(); err != nil {
			return err
		}
		if cf.Rotation, err = r.ReadVec3(); err != nil {
			return err
		}
		curves, err := r.ReadBytes(vmdCameraCurveSize)
		if err != nil {
			return err
		}
		copy(cf.Curves[:], curves)
		viewOfAngle, err := r.ReadUint32()
		if err != nil {
			return err
		}
		cf.ViewOfAngle = int(viewOfAngle)
		perspective, err := r.ReadUint8()
		if err != nil {
			return err
		}
		// ファイル上は0が透視
		cf.IsPerspective = perspective == 0
		m.CameraFrames = append(m.CameraFrames, cf)
	}
	return nil
}

func readLightFrames(r *io_common.BinaryReader, m *motion.Motion) error {
	count, err := r.ReadUint32()
	if err != nil {
		return err
	}
	m.LightFrames = make([]motion.LightFrame, 0, capacityHint(count, r, 28))
	for i := uint32(0); i < count; i++ {
		var lf motion.LightFrame
		index, err := r.ReadUint32()
		if err != nil {
			return err
		}
		lf.Index = int(index)
		if lf.Color, err = r.ReadVec3(); err != nil {
			return err
		}
		if lf.Position, err = r.ReadVec3(); err != nil {
			return err
		}
		m.LightFrames = append(m.LightFrames, lf)
	}
	return nil
}

func readShadowFrames(r *io_common.BinaryReader, m *motion.Motion) error {
	count, err := r.ReadUint32()
	if err != nil {
		return err
	}
	m.ShadowFrames = make([]motion.ShadowFrame, 0, capacityHint(count, r, 9))
	for i := uint32(0); i < count; i++ {
		index, err := r.ReadUint32()
		if err != nil {
			return err
		}
		mode, err := r.ReadUint8()
		if err != nil {
			return err
		}
		distance, err := r.ReadFloat32()
		if err != nil {
			return err
		}
		m.ShadowFrames = append(m.ShadowFrames, motion.ShadowFrame{Index: int(index), Mode: int(mode), Distance: distance})
	}
	return nil
}

func readIkFrames(r *io_common.BinaryReader, m *motion.Motion) error {
	count, err := r.ReadUint32()
	if err != nil {
		return err
	}
	m.IkFrames = make([]motion.IkFrame, 0, capacityHint(count, r, 9))
	for i := uint32(0); i < count; i++ {
		index, err := r.ReadUint32()
		if err != nil {
			return err
		}
		visible, err := r.ReadUint8()
		if err != nil {
			return err
		}
		ikCount, err := r.ReadUint32()
		if err != nil {
			return err
		}
		frame := motion.IkFrame{Index: int(index), Visible: visible != 0, Iks: make([]motion.IkEnabled, 0, capacityHint(ikCount, r, 21))}
		for j := uint32(0); j < ikCount; j++ {
			nameBytes, err := r.ReadBytes(vmdIkNameSize)
			if err != nil {
				return err
			}
			enabled, err := r.ReadUint8()
			if err != nil {
				return err
			}
			frame.Iks = append(frame.Iks, motion.IkEnabled{Name: decodeName(nameBytes), Enabled: enabled != 0})
		}
		m.IkFrames = append(m.IkFrames, frame)
	}
	return nil
}

// capacityHint は件数と残りバイト数から確保量を決める。壊れた件数で過大確保しない。
func capacityHint(count uint32, r *io_common.BinaryReader, recordSize int) int {
	limit := r.Remaining() / recordSize
	if int64(count) < int64(limit) {
		return int(count)
	}
	return limit
}
