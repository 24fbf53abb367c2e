package grpc

import (
	"context"
	"math"
	"time"

	"github.com/dmitrijs2005/fanbox/internal/common"
	"github.com/dmitrijs2005/fanbox/internal/server/gate"
	"github.com/dmitrijs2005/fanbox/internal/server/models"
	"github.com/dmitrijs2005/fanbox/internal/server/validation"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func (s *GRPCServer) SignUp(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	f := req.GetFields()

	userType, err := parseUserType(f["type"])
	if err != nil {
		return nil, toStatus(err)
	}

	_, err = s.users.Register(ctx, validation.SignUp{
		Email:    f["email"].GetStringValue(),
		UserName: f["username"].GetStringValue(),
		Password: f["password"].GetStringValue(),
		Type:     userType,
	})
	if err != nil {
		return nil, toStatus(err)
	}

	return structpb.NewStruct(map[string]any{"message": "Done"})
}

// parseUserType accepts a missing or null value (fan) or an integral number.
func parseUserType(v *structpb.Value) (models.UserType, error) {
	switch k := v.GetKind().(type) {
	case nil, *structpb.Value_NullValue:
		return models.UserTypeFan, nil
	case *structpb.Value_NumberValue:
		n := k.NumberValue
		if math.IsInf(n, 0) || math.Trunc(n) != n {
			return 0, common.ErrValidationFailed
		}
		return models.UserType(int(n)), nil
	default:
		return 0, common.ErrValidationFailed
	}
}

func (s *GRPCServer) SignIn(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	f := req.GetFields()

	token, err := s.users.Login(ctx, validation.SignIn{
		Email:    f["email"].GetStringValue(),
		Password: f["password"].GetStringValue(),
	})
	if err != nil {
		return nil, toStatus(err)
	}

	return structpb.NewStruct(map[string]any{"message": "authentication done", "token": token})
}

func (s *GRPCServer) Me(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	user, ok := gate.UserFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "no token provided")
	}
	return structpb.NewStruct(profileFields(user.Profile()))
}

func (s *GRPCServer) SendMessage(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	user, ok := gate.UserFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "no token provided")
	}

	f := req.GetFields()
	if _, err := s.messages.Send(ctx, user, validation.Message{
		To:   f["to"].GetStringValue(),
		Body: f["message"].GetStringValue(),
	}); err != nil {
		return nil, toStatus(err)
	}

	return structpb.NewStruct(map[string]any{"message": "Done"})
}

func (s *GRPCServer) GetMessages(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	user, ok := gate.UserFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "no token provided")
	}

	msgs, err := s.messages.Inbox(ctx, user)
	if err != nil {
		return nil, toStatus(err)
	}

	list := make([]any, 0, len(msgs))
	for _, m := range msgs {
		list = append(list, map[string]any{
			"id":         m.ID,
			"user_to":    m.UserTo,
			"user_from":  m.UserFrom,
			"message":    m.Body,
			"state":      int(m.State),
			"created_at": m.CreatedAt.Format(time.RFC3339Nano),
		})
	}

	return structpb.NewStruct(map[string]any{"messages": list})
}

func profileFields(p models.Profile) map[string]any {
	fields := map[string]any{
		"id":         p.ID,
		"email":      p.Email,
		"username":   p.UserName,
		"type":       int(p.Type),
		"state":      int(p.State),
		"created_on": p.CreatedAt.Format(time.RFC3339Nano),
		"last_login": nil,
	}
	if p.LastLoginAt != nil {
		fields["last_login"] = p.LastLoginAt.Format(time.RFC3339Nano)
	}
	return fields
}
