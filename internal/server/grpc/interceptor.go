package grpc

import (
	"context"
	"time"

	"github.com/dmitrijs2005/fanbox/internal/common"
	pb "github.com/dmitrijs2005/fanbox/internal/proto"
	"github.com/dmitrijs2005/fanbox/internal/server/gate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

var protectedMethods = map[string]bool{
	pb.FullMethod(pb.MethodMe):          true,
	pb.FullMethod(pb.MethodSendMessage): true,
	pb.FullMethod(pb.MethodGetMessages): true,
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if !protectedMethods[info.FullMethod] {
		return handler(ctx, req)
	}

	var accessToken string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(common.AccessTokenName); len(values) > 0 {
			accessToken = values[0]
		}
	}

	user, err := s.gate.Authenticate(ctx, "grpc", accessToken)
	if err != nil {
		return nil, toStatus(err)
	}

	return handler(gate.WithUser(ctx, user), req)
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	s.logger.Info(ctx, "request",
		"method", info.FullMethod,
		"code", status.Code(err).String(),
		"duration", time.Since(start),
	)
	return resp, err
}
