package themerpcv1

import (
	"themestore/pkg/core"

	"google.golang.org/grpc/encoding"
)

// CodecName 客户端通过 grpc.CallContentSubtype(CodecName) 选择这个 codec
// 对应的 content-type 是 application/grpc+cbor
const CodecName = "cbor"

// Codec 用 core 里的规范化 CBOR 模式编解码消息
type Codec struct{}

func (Codec) Marshal(v any) ([]byte, error) { return core.Marshal(v) }

func (Codec) Unmarshal(data []byte, v any) error { return core.Unmarshal(data, v) }

func (Codec) Name() string { return CodecName }

func init() {
	encoding.RegisterCodec(Codec{})
}
