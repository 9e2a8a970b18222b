// 指示: miu200521358
package vmd

import (
	"github.com/miu200521358/mu_vmd_smooth/pkg/adapter/io_common"
	"github.com/miu200521358/mu_vmd_smooth/pkg/domain/motion"
)

// buildVmd はモーションをVMD(0002)バイト列に変換する。ボーンはキーのみ出力する。
func buildVmd(m *motion.Motion) []byte {
	w := io_common.NewBinaryWriter()
	w.WriteFixedBytes([]byte(vmdSignature), vmdHeaderSize)
	w.WriteFixedBytes(encodeName(m.ModelName, vmdModelNameSize), vmdModelNameSize)

	boneFrames := m.KeyBoneFrames()
	w.WriteUint32(uint32(len(boneFrames)))
	for _, named := range boneFrames {
		bf := named.Frame
		w.WriteFixedBytes(encodeName(named.Name, vmdBoneNameSize), vmdBoneNameSize)
		w.WriteUint32(uint32(bf.Index))
		w.WriteVec3(bf.Position)
		w.WriteFloat32(bf.Rotation.X())
		w.WriteFloat32(bf.Rotation.Y())
		w.WriteFloat32(bf.Rotation.Z())
		w.WriteFloat32(bf.Rotation.W())
		w.WriteBytes(bf.Curves[:])
	}

	w.WriteUint32(uint32(len(m.MorphFrames)))
	for _, mf := range m.MorphFrames {
		w.WriteFixedBytes(encodeName(mf.Name, vmdMorphNameSize), vmdMorphNameSize)
		w.WriteUint32(uint32(mf.Index))
		w.WriteFloat32(mf.Ratio)
	}

	w.WriteUint32(uint32(len(m.CameraFrames)))
	for _, cf := range m.CameraFrames {
		w.WriteUint32(uint32(cf.Index))
		w.WriteFloat32(cf.Distance)
		w.WriteVec3(cf.Position)
		w.WriteVec3(cf.Rotation)
		w.WriteBytes(cf.Curves[:])
		w.WriteUint32(uint32(cf.ViewOfAngle))
		if cf.IsPerspective {
			w.WriteUint8(0)
		} else {
			w.WriteUint8(1)
		}
	}

	w.WriteUint32(uint32(len(m.LightFrames)))
	for _, lf := range m.LightFrames {
		w.WriteUint32(uint32(lf.Index))
		w.WriteVec3(lf.Color)
		w.WriteVec3(lf.Position)
	}

	w.WriteUint32(uint32(len(m.ShadowFrames)))
	for _, sf := range m.ShadowFrames {
		w.WriteUint32(uint32(sf.Index))
		w.WriteUint8(uint8(sf.Mode))
		w.WriteFloat32(sf.Distance)
	}

	w.WriteUint32(uint32(len(m.IkFrames)))
	for _, ikf := range m.IkFrames {
		w.WriteUint32(uint32(ikf.Index))
		w.WriteUint8(boolByte(ikf.Visible))
		w.WriteUint32(uint32(len(ikf.Iks)))
		for _, ik := range ikf.Iks {
			w.WriteFixedBytes(encodeName(ik.Name, vmdIkNameSize), vmdIkNameSize)
			w.WriteUint8(boolByte(ik.Enabled))
		}
	}
	return w.Bytes()
}

func boolByte(v bool) uint8 {
	if v {
		return 1
	}
	return 0
}
