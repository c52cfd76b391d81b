package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"reflect"

	"themestore/pkg/types"

	"github.com/fxamacker/cbor/v2"
)

// 规范化 CBOR 编码选项
// 相同的 (value, metadata) 必须编码成完全相同的字节，方便比对和去重
var encOptions = cbor.EncOptions{
	// 1. 强制 Map Key 排序 (Canonical)
	Sort: cbor.SortCanonical,

	// 2. 浮点数必须使用64位表示
	ShortestFloat: cbor.ShortestFloatNone,

	// 3. 时间格式化为 Unix 整数
	Time:    cbor.TimeUnix,
	TimeTag: cbor.EncTagNone,

	// 4. 禁止不定长编码 (Indefinite Length)
	IndefLength: cbor.IndefLengthForbidden,

	BigIntConvert: cbor.BigIntConvertShortest,
}

// 全局复用的编码模式
var em, _ = encOptions.EncMode()

var decOptions = cbor.DecOptions{
	// --- 安全性配置 (防 DoS 攻击) ---
	MaxArrayElements: 10000,
	MaxMapPairs:      10000,
	MaxNestedLevels:  100,

	IndefLength: cbor.IndefLengthForbidden,
	DupMapKey:   cbor.DupMapKeyEnforcedAPF,
	BignumTag:   cbor.BignumTagForbidden,
	TimeTag:     cbor.DecTagIgnored,

	// metadata 是 map[string]any，嵌套 map 也解成 string key
	DefaultMapType: reflect.TypeOf(map[string]any(nil)),
}

var dm, _ = decOptions.DecMode()

// msgDM 用于 RPC 消息：一次请求的文件数只受 gRPC 消息大小约束，
// 数组长度放到 cbor 允许的上限，其余安全限制不变
var msgDM, _ = func() cbor.DecOptions {
	o := decOptions
	o.MaxArrayElements = math.MaxInt32
	return o
}().DecMode()

// CalculateBlobHash 计算原始文件内容的 Hash (内容寻址)
func CalculateBlobHash(data []byte) types.Hash {
	hashBytes := sha256.Sum256(data)
	return types.Hash(hex.EncodeToString(hashBytes[:]))
}

// Envelope 是不支持原生 metadata 的后端 (disk, badger) 的落盘格式
// Value 为空时编码为空 bytes，而不是 null
type Envelope struct {
	Value    []byte         `cbor:"v"`
	Metadata map[string]any `cbor:"m,omitempty"`
}

// EncodeEnvelope 将 value 和 metadata 打包为规范化 CBOR
func EncodeEnvelope(value []byte, metadata map[string]any) ([]byte, error) {
	if value == nil {
		value = []byte{}
	}
	data, err := em.Marshal(Envelope{Value: value, Metadata: metadata})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal envelope: %w", err)
	}
	return data, nil
}

// DecodeEnvelope 解包
func DecodeEnvelope(data []byte) (*Envelope, error) {
	var env Envelope
	if err := dm.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to decode envelope: %w", err)
	}
	if env.Value == nil {
		env.Value = []byte{}
	}
	return &env, nil
}

// Marshal / Unmarshal 供 RPC codec 使用，编码与落盘共用同一套规范化模式
func Marshal(v any) ([]byte, error) {
	return em.Marshal(v)
}

func Unmarshal(data []byte, v any) error {
	return msgDM.Unmarshal(data, v)
}
