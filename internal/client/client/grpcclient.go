// Package client talks to the fanbox gRPC API and keeps the session token
// obtained at sign in.
package client

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/fanbox/internal/common"
	pb "github.com/dmitrijs2005/fanbox/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// Profile is the signed-in user as reported by the server.
type Profile struct {
	ID        string
	Email     string
	UserName  string
	Type      int
	State     int
	LastLogin string
}

type Message struct {
	ID        string
	From      string
	Body      string
	CreatedAt string
}

type GRPCClient struct {
	conn        *grpc.ClientConn
	client      *pb.FanboxServiceClient
	mu          sync.RWMutex
	accessToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if token := s.Token(); token != "" {
		ctx = withAccessToken(ctx, token)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewGRPCClient prepares a connection to endpointURL. Extra dial options are
// appended after the defaults.
func NewGRPCClient(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, dialOpts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = pb.NewFanboxServiceClient(conn)
	return c, nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *GRPCClient) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = token
}

func (s *GRPCClient) Register(ctx context.Context, email, username string, password []byte, streamer bool) error {
	userType := 0
	if streamer {
		userType = 1
	}

	req, err := structpb.NewStruct(map[string]any{
		"email":    email,
		"username": username,
		"password": string(password),
		"type":     userType,
	})
	if err != nil {
		return err
	}

	if _, err := s.client.SignUp(ctx, req); err != nil {
		return s.mapError(err)
	}
	return nil
}

// Login stores the issued token for subsequent calls.
func (s *GRPCClient) Login(ctx context.Context, email string, password []byte) error {
	req, err := structpb.NewStruct(map[string]any{
		"email":    email,
		"password": string(password),
	})
	if err != nil {
		return err
	}

	resp, err := s.client.SignIn(ctx, req)
	if err != nil {
		return s.mapError(err)
	}

	s.SetToken(resp.GetFields()["token"].GetStringValue())
	return nil
}

func (s *GRPCClient) Logout() {
	s.SetToken("")
}

func (s *GRPCClient) Me(ctx context.Context) (*Profile, error) {
	if s.Token() == "" {
		return nil, ErrNotLoggedIn
	}

	resp, err := s.client.Me(ctx, nil)
	if err != nil {
		return nil, s.mapError(err)
	}

	f := resp.GetFields()
	return &Profile{
		ID:        f["id"].GetStringValue(),
		Email:     f["email"].GetStringValue(),
		UserName:  f["username"].GetStringValue(),
		Type:      int(f["type"].GetNumberValue()),
		State:     int(f["state"].GetNumberValue()),
		LastLogin: f["last_login"].GetStringValue(),
	}, nil
}

func (s *GRPCClient) Send(ctx context.Context, to, body string) error {
	if s.Token() == "" {
		return ErrNotLoggedIn
	}

	req, err := structpb.NewStruct(map[string]any{"to": to, "message": body})
	if err != nil {
		return err
	}

	if _, err := s.client.SendMessage(ctx, req); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) Inbox(ctx context.Context) ([]Message, error) {
	if s.Token() == "" {
		return nil, ErrNotLoggedIn
	}

	resp, err := s.client.GetMessages(ctx, nil)
	if err != nil {
		return nil, s.mapError(err)
	}

	values := resp.GetFields()["messages"].GetListValue().GetValues()
	result := make([]Message, 0, len(values))
	for _, v := range values {
		f := v.GetStructValue().GetFields()
		result = append(result, Message{
			ID:        f["id"].GetStringValue(),
			From:      f["user_from"].GetStringValue(),
			Body:      f["message"].GetStringValue(),
			CreatedAt: f["created_at"].GetStringValue(),
		})
	}
	return result, nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return errors.New(st.Message())
	}
}
