// Package validation holds the input policy for registration and login.
// Every violation is reported as common.ErrValidationFailed without field
// detail.
package validation

import (
	"regexp"
	"strings"
	"sync"

	"github.com/dmitrijs2005/fanbox/internal/common"
	"github.com/dmitrijs2005/fanbox/internal/server/models"
	"github.com/go-playground/validator/v10"
)

var passwordRe = regexp.MustCompile(`^[A-Za-z0-9]{6,30}$`)

var (
	validate *validator.Validate
	once     sync.Once
)

func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("password", func(fl validator.FieldLevel) bool {
			return passwordRe.MatchString(fl.Field().String())
		})
	})
	return validate
}

// SignUp is a registration request.
type SignUp struct {
	Email    string          `validate:"required,email,max=255"`
	UserName string          `validate:"required,max=50"`
	Password string          `validate:"password"`
	Type     models.UserType `validate:"oneof=0 1"`
}

// SignIn is a login request. The password policy is not applied here so a
// wrong password is reported as such rather than as invalid input.
type SignIn struct {
	Email    string `validate:"required,email,max=255"`
	Password string `validate:"required"`
}

// NormalizeEmail trims and lowercases an address so lookups and the unique
// constraint agree on a single spelling.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Normalize trims identity fields in place. Passwords are left untouched.
func (s *SignUp) Normalize() {
	s.Email = NormalizeEmail(s.Email)
	s.UserName = strings.TrimSpace(s.UserName)
}

func (s *SignIn) Normalize() {
	s.Email = NormalizeEmail(s.Email)
}

// Validate checks v against its struct tags.
func Validate(v any) error {
	if err := getValidator().Struct(v); err != nil {
		return common.ErrValidationFailed
	}
	return nil
}

// Message is a message send request. To is the recipient's user id.
type Message struct {
	To   string `validate:"required"`
	Body string `validate:"required,max=255"`
}
