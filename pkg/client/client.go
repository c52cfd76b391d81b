package client

import (
	"context"
	"fmt"
	"time"

	themerpc "themestore/pkg/api/themerpc/v1"
	"themestore/pkg/themefiles"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"
)

// Client 封装了与 themestore-server 的连接
type Client struct {
	conn *grpc.ClientConn

	Files themerpc.ThemeFilesClient
}

// NewClient 创建客户端
// grpc.NewClient 立即返回，连接在后台建立，网络不通不会在这里报错
func NewClient(addr string, extra ...grpc.DialOption) (*Client, error) {
	opts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(
			grpc.CallContentSubtype(themerpc.CodecName),
			grpc.MaxCallRecvMsgSize(1024*1024*1024), // 1GB
			grpc.MaxCallSendMsgSize(1024*1024*1024), // 1GB
		),
		grpc.WithKeepaliveParams(keepalive.ClientParameters{
			Time:                10 * time.Second,
			Timeout:             20 * time.Second,
			PermitWithoutStream: true,
		}),
	}

	conn, err := grpc.NewClient(addr, append(opts, extra...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create grpc client for %s: %w", addr, err)
	}

	return &Client{
		conn:  conn,
		Files: themerpc.NewThemeFilesClient(conn),
	}, nil
}

// GetFiles 远端版本的 themefiles.Storage.GetFiles
func (c *Client) GetFiles(ctx context.Context, configs []themefiles.FileConfig) ([]themefiles.FileConfig, error) {
	resp, err := c.Files.GetFiles(ctx, &themerpc.GetFilesRequest{Files: configs})
	if err != nil {
		return nil, err
	}
	if resp.Files == nil {
		return []themefiles.FileConfig{}, nil
	}
	return resp.Files, nil
}

// PutFiles 远端版本的 themefiles.Storage.PutFiles
func (c *Client) PutFiles(ctx context.Context, configs []themefiles.FileConfig) (*themefiles.PutFilesResult, error) {
	resp, err := c.Files.PutFiles(ctx, &themerpc.PutFilesRequest{Files: configs})
	if err != nil {
		return nil, err
	}
	if resp.Result == nil {
		return nil, fmt.Errorf("server returned empty put result")
	}
	if resp.Result.Warnings == nil {
		resp.Result.Warnings = []themefiles.FileWarning{}
	}
	return resp.Result, nil
}

func (c *Client) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
