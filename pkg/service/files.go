package service

import (
	"context"
	"errors"

	themerpc "themestore/pkg/api/themerpc/v1"
	"themestore/pkg/app"
	"themestore/pkg/themefiles"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FileService 把 themefiles.Storage 暴露为 gRPC 服务
type FileService struct {
	themerpc.UnimplementedThemeFilesServer
	files  *themefiles.Storage
	logger *zap.Logger
}

func NewFileService(application *app.App) *FileService {
	return &FileService{
		files:  application.Files,
		logger: application.Logger.Named("service"),
	}
}

func (s *FileService) GetFiles(ctx context.Context, req *themerpc.GetFilesRequest) (*themerpc.GetFilesResponse, error) {
	if err := validateHashes(req.Files); err != nil {
		return nil, err
	}

	files, err := s.files.GetFiles(ctx, req.Files)
	if err != nil {
		return nil, toStatus(err, "get files")
	}
	return &themerpc.GetFilesResponse{Files: files}, nil
}

func (s *FileService) PutFiles(ctx context.Context, req *themerpc.PutFilesRequest) (*themerpc.PutFilesResponse, error) {
	if err := validateHashes(req.Files); err != nil {
		return nil, err
	}

	res, err := s.files.PutFiles(ctx, req.Files)
	if err != nil {
		return nil, toStatus(err, "put files")
	}
	return &themerpc.PutFilesResponse{Result: res}, nil
}

// validateHashes 存储 key 由 hash 拼出来，空 hash 直接拒绝
// hash 来自上游平台，不要求一定是 sha256
func validateHashes(files []themefiles.FileConfig) error {
	for _, f := range files {
		if f.Hash.IsZero() {
			return status.Errorf(codes.InvalidArgument, "invalid hash %q for %s", f.Hash, f.FilePath)
		}
	}
	return nil
}

func toStatus(err error, op string) error {
	switch {
	case errors.Is(err, context.Canceled):
		return status.Errorf(codes.Canceled, "%s: %v", op, err)
	case errors.Is(err, context.DeadlineExceeded):
		return status.Errorf(codes.DeadlineExceeded, "%s: %v", op, err)
	default:
		return status.Errorf(codes.Internal, "%s failed: %v", op, err)
	}
}
