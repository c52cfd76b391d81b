package server

import (
	"context"
	"runtime/debug"
	"time"

	"themestore/pkg/metrics"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// MaxMsgSize 单个请求/响应上限
// 一次 PutFiles 可能带上几百个文件，默认的 4MB 不够
const MaxMsgSize = 512 << 20

// NewGRPCServer 创建带日志和 panic 恢复的 gRPC Server
func NewGRPCServer(logger *zap.Logger, opts ...grpc.ServerOption) *grpc.Server {
	base := []grpc.ServerOption{
		grpc.MaxRecvMsgSize(MaxMsgSize),
		grpc.MaxSendMsgSize(MaxMsgSize),
		// recovery 在最里层，这样 panic 转成的 Internal 也会被记录
		grpc.ChainUnaryInterceptor(
			UnaryLoggingInterceptor(logger),
			UnaryRecoveryInterceptor(logger),
		),
	}
	return grpc.NewServer(append(base, opts...)...)
}

// =============================================================================
// 1. Logging Interceptor (结构化日志)
// =============================================================================

func UnaryLoggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	logger = logger.Named("grpc")
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		duration := time.Since(start)

		code := status.Code(err)
		metrics.RecordRPC(info.FullMethod, code.String(), duration)

		logger.Log(levelFor(code), "gRPC Request",
			zap.String("method", info.FullMethod),
			zap.String("code", code.String()),
			zap.Duration("dur", duration),
			zap.Error(err),
		)
		return resp, err
	}
}

// levelFor 非 OK 才算警告，Internal/Unknown 算错误
func levelFor(code codes.Code) zapcore.Level {
	switch code {
	case codes.OK:
		return zapcore.InfoLevel
	case codes.Internal, codes.Unknown:
		return zapcore.ErrorLevel
	default:
		return zapcore.WarnLevel
	}
}

// =============================================================================
// 2. Recovery Interceptor
// =============================================================================

func UnaryRecoveryInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("🔥 PANIC RECOVERED",
					zap.String("method", info.FullMethod),
					zap.Any("panic", r),
					zap.String("stack", string(debug.Stack())),
				)
				// 返回 Internal 而不是直接断开连接
				err = status.Errorf(codes.Internal, "internal server error: panic recovered")
			}
		}()
		return handler(ctx, req)
	}
}
