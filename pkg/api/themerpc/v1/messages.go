package themerpcv1

import "themestore/pkg/themefiles"

type GetFilesRequest struct {
	Files []themefiles.FileConfig `cbor:"files"`
}

// GetFilesResponse 与请求一一对应，顺序相同；未命中的 FileData 为 nil
type GetFilesResponse struct {
	Files []themefiles.FileConfig `cbor:"files"`
}

type PutFilesRequest struct {
	Files []themefiles.FileConfig `cbor:"files"`
}

type PutFilesResponse struct {
	Result *themefiles.PutFilesResult `cbor:"result"`
}
