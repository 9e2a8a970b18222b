// 指示: miu200521358
package pmx

import (
	"fmt"
	"math"

	"github.com/miu200521358/mu_vmd_smooth/pkg/adapter/io_common"
	"github.com/miu200521358/mu_vmd_smooth/pkg/domain/model"
)

const (
	pmxSignature = "PMX "

	boneFlagTailIndex     = 0x0001
	boneFlagIk            = 0x0020
	boneFlagEffectRotate  = 0x0100
	boneFlagEffectMove    = 0x0200
	boneFlagFixedAxis     = 0x0400
	boneFlagLocalAxes     = 0x0800
	boneFlagExternalKey   = 0x2000
	deformBdef1           = 0
	deformBdef2           = 1
	deformBdef4           = 2
	deformSdef            = 3
	deformQdef            = 4
	materialToonShared    = 1
	vec2Size              = 8
	vec3Size              = 12
	vec4Size              = 16
	floatSize             = 4
	materialFixedByteSize = vec4Size + vec3Size + floatSize + vec3Size + 1 + vec4Size + floatSize
)

// pmxHeader はPMXヘッダのうちボーン読込に必要な情報を表す。
type pmxHeader struct {
	version         float64
	encoding        uint8
	additionalUvs   int
	vertexIndexSize int
	textureIndex    int
	materialIndex   int
	boneIndexSize   int
}

// parsePmx はPMXバイト列からボーン階層を読み取る。ボーン以降のセクションは読まない。
func parsePmx(b []byte, path string) (*model.Model, error) {
	r := io_common.NewBinaryReader(b)
	header, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	m := model.NewModel(path)
	if m.Name, err = readText(r, header.encoding); err != nil {
		return nil, fmt.Errorf("モデル名の読み取りに失敗しました: %w", err)
	}
	for i := 0; i < 3; i++ {
		if err := skipText(r); err != nil {
			return nil, fmt.Errorf("モデル情報の読み取りに失敗しました: %w", err)
		}
	}
	if err := skipVertices(r, header); err != nil {
		return nil, fmt.Errorf("頂点の読み飛ばしに失敗しました: %w", err)
	}
	if err := skipFaces(r, header); err != nil {
		return nil, fmt.Errorf("面の読み飛ばしに失敗しました: %w", err)
	}
	if err := skipTextures(r); err != nil {
		return nil, fmt.Errorf("テクスチャの読み飛ばしに失敗しました: %w", err)
	}
	if err := skipMaterials(r, header); err != nil {
		return nil, fmt.Errorf("材質の読み飛ばしに失敗しました: %w", err)
	}
	if err := readBones(r, header, m.Bones); err != nil {
		return nil, err
	}
	return m, nil
}

func readHeader(r *io_common.BinaryReader) (*pmxHeader, error) {
	signature, err := r.ReadBytes(len(pmxSignature))
	if err != nil {
		return nil, fmt.Errorf("ヘッダの読み取りに失敗しました: %w", err)
	}
	if string(signature) != pmxSignature {
		return nil, fmt.Errorf("PMXヘッダではありません: %q", signature)
	}
	header := &pmxHeader{}
	if header.version, err = r.ReadFloat32(); err != nil {
		return nil, err
	}
	globalsCount, err := r.ReadUint8()
	if err != nil {
		return nil, err
	}
	globals, err := r.ReadBytes(int(globalsCount))
	if err != nil {
		return nil, err
	}
	if len(globals) < 6 {
		return nil, fmt.Errorf("ヘッダ情報が不足しています: %d", len(globals))
	}
	header.encoding = globals[0]
	header.additionalUvs = int(globals[1])
	header.vertexIndexSize = int(globals[2])
	header.textureIndex = int(globals[3])
	header.materialIndex = int(globals[4])
	header.boneIndexSize = int(globals[5])
	for _, size := range []int{header.vertexIndexSize, header.textureIndex, header.materialIndex, header.boneIndexSize} {
		if size != 1 && size != 2 && size != 4 {
			return nil, fmt.Errorf("インデックスサイズが不正です: %d", size)
		}
	}
	return header, nil
}

func readCount(r *io_common.BinaryReader) (int, error) {
	count, err := r.ReadInt32()
	if err != nil {
		return 0, err
	}
	if count < 0 {
		return 0, fmt.Errorf("件数が不正です: %d", count)
	}
	return int(count), nil
}

func skipVertices(r *io_common.BinaryReader, header *pmxHeader) error {
	count, err := readCount(r)
	if err != nil {
		return err
	}
	bone := header.boneIndexSize
	for i := 0; i < count; i++ {
		// 位置・法線・UV・追加UV
		if err := r.Skip(vec3Size*2 + vec2Size + vec4Size*header.additionalUvs); err != nil {
			return err
		}
		deform, err := r.ReadUint8()
		if err != nil {
			return err
		}
		var size int
		switch deform {
		case deformBdef1:
			size = bone
		case deformBdef2:
			size = bone*2 + floatSize
		case deformBdef4, deformQdef:
			size = bone*4 + floatSize*4
		case deformSdef:
			size = bone*2 + floatSize + vec3Size*3
		default:
			return fmt.Errorf("頂点(%d)の変形方式が不正です: %d", i, deform)
		}
		// エッジ倍率
		if err := r.Skip(size + floatSize); err != nil {
			return err
		}
	}
	return nil
}

func skipFaces(r *io_common.BinaryReader, header *pmxHeader) error {
	count, err := readCount(r)
	if err != nil {
		return err
	}
	return r.Skip(count * header.vertexIndexSize)
}

func skipTextures(r *io_common.BinaryReader) error {
	count, err := readCount(r)
	if err != nil {
		return err
	}
	for i := 0; i < count; i++ {
		if err := skipText(r); err != nil {
			return err
		}
	}
	return nil
}

func skipMaterials(r *io_common.BinaryReader, header *pmxHeader) error {
	count, err := readCount(r)
	if err != nil {
		return err
	}
	for i := 0; i < count; i++ {
		if err := skipText(r); err != nil {
			return err
		}
		if err := skipText(r); err != nil {
			return err
		}
		// 色・描画フラグ・エッジ・テクスチャ・スフィア・スフィアモード
		if err := r.Skip(materialFixedByteSize + header.textureIndex*2 + 1); err != nil {
			return err
		}
		toonShared, err := r.ReadUint8()
		if err != nil {
			return err
		}
		toonSize := header.textureIndex
		if toonShared == materialToonShared {
			toonSize = 1
		}
		if err := r.Skip(toonSize); err != nil {
			return err
		}
		if err := skipText(r); err != nil {
			return err
		}
		if err := r.Skip(floatSize); err != nil {
			return err
		}
	}
	return nil
}

func readBones(r *io_common.BinaryReader, header *pmxHeader, bones *model.Bones) error {
	count, err := readCount(r)
	if err != nil {
		return fmt.Errorf("ボーン数の読み取りに失敗しました: %w", err)
	}
	for i := 0; i < count; i++ {
		bone, err := readBone(r, header, i)
		if err != nil {
			return fmt.Errorf("ボーン(%d)の読み取りに失敗しました: %w", i, err)
		}
		bones.Append(bone)
	}
	return nil
}

func readBone(r *io_common.BinaryReader, header *pmxHeader, index int) (*model.Bone, error) {
	name, err := readText(r, header.encoding)
	if err != nil {
		return nil, err
	}
	englishName, err := readText(r, header.encoding)
	if err != nil {
		return nil, err
	}
	if err := r.Skip(vec3Size); err != nil {
		return nil, err
	}
	parentIndex, err := r.ReadIndex(header.boneIndexSize)
	if err != nil {
		return nil, err
	}
	layer, err := r.ReadInt32()
	if err != nil {
		return nil, err
	}
	flags, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}

	bone := model.NewBone(index, name, parentIndex)
	bone.EnglishName = englishName
	bone.Layer = int(layer)

	tailSize := vec3Size
	if flags&boneFlagTailIndex != 0 {
		tailSize = header.boneIndexSize
	}
	if err := r.Skip(tailSize); err != nil {
		return nil, err
	}
	if flags&(boneFlagEffectRotate|boneFlagEffectMove) != 0 {
		if err := r.Skip(header.boneIndexSize + floatSize); err != nil {
			return nil, err
		}
	}
	if flags&boneFlagFixedAxis != 0 {
		axis, err := r.ReadVec3()
		if err != nil {
			return nil, err
		}
		if length := axis.Length(); length > 0 && !math.IsNaN(length) {
			bone.FixedAxis = axis.Normalized()
		}
	}
	if flags&boneFlagLocalAxes != 0 {
		if err := r.Skip(vec3Size * 2); err != nil {
			return nil, err
		}
	}
	if flags&boneFlagExternalKey != 0 {
		if err := r.Skip(floatSize); err != nil {
			return nil, err
		}
	}
	if flags&boneFlagIk != 0 {
		if err := skipIk(r, header); err != nil {
			return nil, err
		}
	}
	return bone, nil
}

func skipIk(r *io_common.BinaryReader, header *pmxHeader) error {
	// ターゲット・ループ回数・制限角
	if err := r.Skip(header.boneIndexSize + 4 + floatSize); err != nil {
		return err
	}
	links, err := readCount(r)
	if err != nil {
		return err
	}
	for i := 0; i < links; i++ {
		if err := r.Skip(header.boneIndexSize); err != nil {
			return err
		}
		limited, err := r.ReadUint8()
		if err != nil {
			return err
		}
		if limited != 0 {
			if err := r.Skip(vec3Size * 2); err != nil {
				return err
			}
		}
	}
	return nil
}
