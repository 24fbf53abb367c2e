package grpc

import (
	"errors"

	"github.com/dmitrijs2005/fanbox/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps a service error to a gRPC status with a client-safe message.
func toStatus(err error) error {
	switch {
	case errors.Is(err, common.ErrValidationFailed):
		return status.Error(codes.InvalidArgument, common.ErrValidationFailed.Error())
	case errors.Is(err, common.ErrEmailInUse):
		return status.Error(codes.AlreadyExists, "email is already in use")
	case errors.Is(err, common.ErrConflict):
		return status.Error(codes.AlreadyExists, "email or username is already in use")
	case errors.Is(err, common.ErrUserNotFound):
		return status.Error(codes.NotFound, "user not found")
	case errors.Is(err, common.ErrPasswordIncorrect):
		return status.Error(codes.Unauthenticated, "password incorrect")
	case errors.Is(err, common.ErrNoToken):
		return status.Error(codes.Unauthenticated, "no token provided")
	case errors.Is(err, common.ErrInvalidToken):
		return status.Error(codes.Unauthenticated, "invalid token")
	case errors.Is(err, common.ErrUnknownSubject):
		return status.Error(codes.Unauthenticated, "unknown user")
	case errors.Is(err, common.ErrCanceled):
		return status.Error(codes.Canceled, "request canceled")
	case errors.Is(err, common.ErrStoreUnavailable):
		return status.Error(codes.Unavailable, "service unavailable")
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
