package handler

import (
	stderrors "errors"

	"github.com/go-playground/validator/v10"
	"github.com/places-service/internal/pkg/errors"
)

// invalidRequest переводит ошибку валидатора в INVALID_REQUEST с полями в details
func invalidRequest(err error) error {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return errors.ErrInvalidRequest.WithMessage("%s", err.Error())
	}

	details := make(map[string]interface{}, len(verrs))
	for _, fe := range verrs {
		details[fe.Namespace()] = fe.Tag()
	}
	return errors.ErrInvalidRequest.WithDetails(details)
}
