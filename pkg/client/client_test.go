package client

import (
	"context"
	"net"
	"testing"

	themerpc "themestore/pkg/api/themerpc/v1"
	"themestore/pkg/app"
	"themestore/pkg/core"
	"themestore/pkg/server"
	"themestore/pkg/service"
	"themestore/pkg/storage"
	"themestore/pkg/themefiles"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"
)

func newTestClient(t *testing.T) *Client {
	logger := zaptest.NewLogger(t)
	application := &app.App{
		Files:  themefiles.New(nil, storage.FlavorMemory),
		Flavor: storage.FlavorMemory,
		Logger: logger,
	}

	lis := bufconn.Listen(1024 * 1024)
	grpcServer := server.NewGRPCServer(logger)
	themerpc.RegisterThemeFilesServer(grpcServer, service.NewFileService(application))
	go func() { _ = grpcServer.Serve(lis) }()
	t.Cleanup(grpcServer.Stop)

	c, err := NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) { return lis.Dial() }))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestClient_RoundTrip(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	data := []byte("h1 { font-size: 2em }")
	cfg := themefiles.FileConfig{
		Hash:     core.CalculateBlobHash(data),
		FilePath: "assets/type.css",
		File:     themefiles.FileInfo{Length: int64(len(data)), ContentType: "text/css"},
		FileData: data,
	}

	res, err := c.PutFiles(ctx, []themefiles.FileConfig{cfg})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Written)
	assert.NotNil(t, res.Warnings)

	cfg.FileData = nil
	out, err := c.GetFiles(ctx, []themefiles.FileConfig{cfg})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, data, out[0].FileData)
}

func TestClient_GetFilesEmpty(t *testing.T) {
	c := newTestClient(t)

	out, err := c.GetFiles(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}
