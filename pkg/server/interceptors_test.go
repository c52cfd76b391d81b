package server

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var testInfo = &grpc.UnaryServerInfo{FullMethod: "/themestore.v1.ThemeFiles/GetFiles"}

func TestRecoveryInterceptor_ConvertsPanic(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	interceptor := UnaryRecoveryInterceptor(zap.New(core))

	resp, err := interceptor(context.Background(), nil, testInfo, func(ctx context.Context, req any) (any, error) {
		panic("boom")
	})
	assert.Nil(t, resp)
	assert.Equal(t, codes.Internal, status.Code(err))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, testInfo.FullMethod, logs.All()[0].ContextMap()["method"])
}

func TestLoggingInterceptor_Levels(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		level zapcore.Level
	}{
		{"ok", nil, zapcore.InfoLevel},
		{"invalid argument", status.Error(codes.InvalidArgument, "bad"), zapcore.WarnLevel},
		{"internal", status.Error(codes.Internal, "down"), zapcore.ErrorLevel},
		{"plain error", errors.New("unknown"), zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			interceptor := UnaryLoggingInterceptor(zap.New(core))

			_, err := interceptor(context.Background(), nil, testInfo, func(ctx context.Context, req any) (any, error) {
				return "resp", tt.err
			})
			assert.Equal(t, tt.err, err)
			require.Equal(t, 1, logs.Len())
			assert.Equal(t, tt.level, logs.All()[0].Level)
		})
	}
}
