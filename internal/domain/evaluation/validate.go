package evaluation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

var fieldMessages = map[string]string{
	"title":          "Title is required",
	"name":           "Name is required",
	"description":    "Description is required",
	"target":         "Target must be between 1-10",
	"achieved":       "Achieved must be between 1-10",
	"required_level": "Required level must be between 1-10",
	"actual_level":   "Actual level must be between 1-10",
	"weight":         "Weight must be between 1-100%",
	"status":         "Status must be one of not-started, in-progress, completed",
	"category":       "Category must be one of Core, Leadership, Functional",
}

// checkDraft runs the struct tags and reports every offending field at once.
func checkDraft(draft any) error {
	err := validate.Struct(draft)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate draft: %w", err)
	}
	verr := &ValidationError{}
	for _, fe := range fieldErrs {
		message, ok := fieldMessages[fe.Field()]
		if !ok {
			message = fmt.Sprintf("failed %s check", fe.Tag())
		}
		verr.Add(fe.Field(), message)
	}
	return verr.errOrNil()
}

// checkComplete is the gate every status change passes before the
// transition table is consulted.
func checkComplete(e Evaluation) error {
	verr := &ValidationError{}
	if strings.TrimSpace(e.Type) == "" {
		verr.Add("type", "Type is required")
	}
	if strings.TrimSpace(e.Period) == "" {
		verr.Add("period", "Period is required")
	}
	if strings.TrimSpace(e.ReviewerID) == "" {
		verr.Add("reviewer_id", "Reviewer is required")
	}
	if e.Date.IsZero() {
		verr.Add("date", "Date is required")
	}
	return verr.errOrNil()
}
