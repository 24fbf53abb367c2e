package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/dmitrijs2005/fanbox/internal/common"
	"github.com/dmitrijs2005/fanbox/internal/logging"
	pb "github.com/dmitrijs2005/fanbox/internal/proto"
	"github.com/dmitrijs2005/fanbox/internal/server/auth"
	"github.com/dmitrijs2005/fanbox/internal/server/credentials"
	"github.com/dmitrijs2005/fanbox/internal/server/gate"
	"github.com/dmitrijs2005/fanbox/internal/server/models"
	"github.com/dmitrijs2005/fanbox/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/fanbox/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

type testEnv struct {
	srv    *GRPCServer
	client *pb.FanboxServiceClient
	rm     *repomanager.InMemoryRepositoryManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	rm := repomanager.NewInMemoryRepositoryManager()
	issuer, err := auth.NewIssuer("grpc-secret", time.Hour)
	require.NoError(t, err)

	l := logging.Nop()
	us := services.NewUserService(nil, rm, credentials.NewCodec(), issuer, l, time.Second)
	ms := services.NewMessageService(nil, rm, l, time.Second)
	s := NewGRPCServer("127.0.0.1:0", l, us, ms, gate.New(issuer, us, l))

	lis := bufconn.Listen(1 << 20)
	srv := s.NewServer()
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return &testEnv{srv: s, client: pb.NewFanboxServiceClient(conn), rm: rm}
}

func mustStruct(t *testing.T, m map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	require.NoError(t, err)
	return s
}

func withToken(token string) context.Context {
	return metadata.AppendToOutgoingContext(context.Background(), common.AccessTokenName, token)
}

func (e *testEnv) signUp(t *testing.T, email, username, password string) {
	t.Helper()
	_, err := e.client.SignUp(context.Background(), mustStruct(t, map[string]any{
		"email": email, "username": username, "password": password,
	}))
	require.NoError(t, err)
}

func (e *testEnv) signIn(t *testing.T, email, password string) string {
	t.Helper()
	resp, err := e.client.SignIn(context.Background(), mustStruct(t, map[string]any{
		"email": email, "password": password,
	}))
	require.NoError(t, err)
	return resp.GetFields()["token"].GetStringValue()
}

func TestEndToEnd_Alice(t *testing.T) {
	e := newTestEnv(t)

	e.signUp(t, "a@x.com", "alice", "Secret1")

	_, err := e.client.SignUp(context.Background(), mustStruct(t, map[string]any{
		"email": "a@x.com", "username": "alice", "password": "Secret1",
	}))
	assert.Equal(t, codes.AlreadyExists, status.Code(err))

	token := e.signIn(t, "a@x.com", "Secret1")
	require.NotEmpty(t, token)

	_, err = e.client.SignIn(context.Background(), mustStruct(t, map[string]any{
		"email": "a@x.com", "password": "wrong",
	}))
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
	assert.Equal(t, "password incorrect", status.Convert(err).Message())

	me, err := e.client.Me(withToken(token), nil)
	require.NoError(t, err)
	assert.Equal(t, "alice", me.GetFields()["username"].GetStringValue())
	assert.Equal(t, "a@x.com", me.GetFields()["email"].GetStringValue())
	assert.NotEmpty(t, me.GetFields()["last_login"].GetStringValue())

	_, err = e.client.Me(context.Background(), nil)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
	assert.Equal(t, "no token provided", status.Convert(err).Message())
}

func TestSignUp_InvalidArgument(t *testing.T) {
	e := newTestEnv(t)

	_, err := e.client.SignUp(context.Background(), mustStruct(t, map[string]any{
		"email": "a@x.com", "username": "alice", "password": "bad!",
	}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestSignUp_RejectsNonIntegralType(t *testing.T) {
	e := newTestEnv(t)

	for _, typ := range []any{1.7, 0.5, "1", true} {
		_, err := e.client.SignUp(context.Background(), mustStruct(t, map[string]any{
			"email": "a@x.com", "username": "alice", "password": "Secret1", "type": typ,
		}))
		assert.Equal(t, codes.InvalidArgument, status.Code(err), "type %v", typ)
	}

	_, err := e.client.SignUp(context.Background(), mustStruct(t, map[string]any{
		"email": "a@x.com", "username": "alice", "password": "Secret1", "type": 1,
	}))
	require.NoError(t, err)

	u, err := e.rm.Users(nil).GetUserByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, models.UserTypeStreamer, u.Type)
}

func TestSignIn_NotFound(t *testing.T) {
	e := newTestEnv(t)

	_, err := e.client.SignIn(context.Background(), mustStruct(t, map[string]any{
		"email": "nobody@x.com", "password": "Secret1",
	}))
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestProtected_InvalidAndUnknown(t *testing.T) {
	e := newTestEnv(t)
	e.signUp(t, "a@x.com", "alice", "Secret1")
	token := e.signIn(t, "a@x.com", "Secret1")

	_, err := e.client.GetMessages(withToken(token+"x"), nil)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
	assert.Equal(t, "invalid token", status.Convert(err).Message())

	u, err := e.rm.Users(nil).GetUserByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	e.rm.DeleteUser(u.ID)

	_, err = e.client.Me(withToken(token), nil)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
	assert.Equal(t, "unknown user", status.Convert(err).Message())
}

func TestMessages(t *testing.T) {
	e := newTestEnv(t)
	e.signUp(t, "a@x.com", "alice", "Secret1")
	e.signUp(t, "b@x.com", "bob", "Secret2")
	aliceTok := e.signIn(t, "a@x.com", "Secret1")
	bobTok := e.signIn(t, "b@x.com", "Secret2")

	bob, err := e.rm.Users(nil).GetUserByEmail(context.Background(), "b@x.com")
	require.NoError(t, err)

	_, err = e.client.SendMessage(withToken(aliceTok), mustStruct(t, map[string]any{"to": bob.ID, "message": "hey"}))
	require.NoError(t, err)

	_, err = e.client.SendMessage(withToken(aliceTok), mustStruct(t, map[string]any{"to": "ghost", "message": "hey"}))
	assert.Equal(t, codes.NotFound, status.Code(err))

	resp, err := e.client.GetMessages(withToken(bobTok), nil)
	require.NoError(t, err)
	list := resp.GetFields()["messages"].GetListValue().GetValues()
	require.Len(t, list, 1)
	assert.Equal(t, "hey", list[0].GetStructValue().GetFields()["message"].GetStringValue())
}

func TestToStatus(t *testing.T) {
	tests := []struct {
		err  error
		code codes.Code
	}{
		{common.ErrValidationFailed, codes.InvalidArgument},
		{common.ErrEmailInUse, codes.AlreadyExists},
		{common.ErrConflict, codes.AlreadyExists},
		{common.ErrUserNotFound, codes.NotFound},
		{common.ErrPasswordIncorrect, codes.Unauthenticated},
		{common.ErrTokenExpired, codes.Unauthenticated},
		{common.ErrStoreUnavailable, codes.Unavailable},
		{common.ErrCanceled, codes.Canceled},
		{common.ErrorInternal, codes.Internal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.code, status.Code(toStatus(tt.err)), tt.err.Error())
	}
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	e := newTestEnv(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- e.srv.Run(ctx) }()

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	l := logging.Nop()
	s := NewGRPCServer("127.0.0.1:99999", l, nil, nil, nil)
	require.Error(t, s.Run(context.Background()))
}
