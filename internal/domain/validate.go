package domain

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	apperrors "github.com/orgball2608/stories-telegram-bot/pkg/errors"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("category", func(fl validator.FieldLevel) bool {
			return IsCategory(fl.Field().String())
		})
	})
	return validate
}

// ValidateNewStory checks a story form before it is sent to the API. The
// server stays authoritative; this only catches obvious mistakes early.
func ValidateNewStory(story NewStory) error {
	if len(story.Slides) < MinSlides || len(story.Slides) > MaxSlides {
		return apperrors.WrapWithCode(apperrors.ErrInvalidInput, "slides",
			fmt.Sprintf("A story must have between %d and %d slides.", MinSlides, MaxSlides))
	}
	return validationError(validatorInstance().Struct(story))
}

// ValidateSlides checks the slides of an edited story.
func ValidateSlides(slides []Slide) error {
	return ValidateNewStory(NewStory{Slides: slides})
}

func validationError(err error) error {
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !apperrors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
	}

	fe := fieldErrs[0]
	var msg string
	switch fe.Tag() {
	case "required":
		msg = fmt.Sprintf("%s is required (%s).", fe.Field(), fe.Namespace())
	case "category":
		msg = fmt.Sprintf("Unknown category %q.", fe.Value())
	case "max":
		msg = fmt.Sprintf("%s is too long (%s).", fe.Field(), fe.Namespace())
	default:
		msg = fmt.Sprintf("%s is invalid (%s).", fe.Field(), fe.Namespace())
	}
	return apperrors.WrapWithCode(apperrors.ErrInvalidInput, fe.Tag(), msg)
}
