// Package grpc serves fanbox.v1.FanboxService. Protected methods are gated
// by the access-token metadata key.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/fanbox/internal/logging"
	pb "github.com/dmitrijs2005/fanbox/internal/proto"
	"github.com/dmitrijs2005/fanbox/internal/server/gate"
	"github.com/dmitrijs2005/fanbox/internal/server/services"
	"google.golang.org/grpc"
)

type GRPCServer struct {
	address  string
	users    *services.UserService
	messages *services.MessageService
	gate     *gate.Gate
	logger   logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, us *services.UserService, ms *services.MessageService, g *gate.Gate) *GRPCServer {
	return &GRPCServer{
		address:  a,
		logger:   l.With("module", "grpc_server"),
		users:    us,
		messages: ms,
		gate:     g,
	}
}

// NewServer returns a grpc.Server with the service and interceptors registered.
func (s *GRPCServer) NewServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	pb.RegisterFanboxServiceServer(srv, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := s.NewServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gPRC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", s.address)

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
