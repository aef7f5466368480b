package serverutils

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"counseling-chat-be/internal/apperror"
)

type ApiResponse[T any] struct {
	Message string `json:"message"`
	Data    T      `json:"data"`
}

func SuccessResponse[T any](message string, data T) ApiResponse[T] {
	return ApiResponse[T]{Message: message, Data: data}
}

var validate = validator.New()

// ValidateRequest runs struct tag validation and folds violations into a
// single validation error.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if ok := errors.As(err, &verrs); !ok {
		return apperror.Validation("invalid request body")
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field()+" "+fe.Tag())
	}
	return apperror.Validation("invalid request: %s", strings.Join(fields, ", "))
}
