package event

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/vibra-events/vibra-backend/utils"
)

var (
	ErrEventNotFound              = errors.New("Event not found")
	ErrCapacityBelowRegistrations = errors.New("maxParticipants cannot be less than the current number of registrations")
)

var timePattern = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)

// Rules applied to trimmed field values.
var (
	ruleTitle       = "required,max=200"
	ruleDescription = "required,max=1000"
	ruleLocation    = "required,max=200"
	ruleCategory    = "required,oneof=" + strings.Join(Categories, " ")
	ruleDate        = "required,eventdate"
	ruleClock       = "required,hhmm"
	ruleCapacity    = "min=1"
)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return timePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("eventdate", func(fl validator.FieldLevel) bool {
		_, err := ParseDate(fl.Field().String())
		return err == nil
	})
	return v
}

// ValidationError carries one message per invalid field.
type ValidationError struct {
	Fields []utils.FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// checker collects field failures across one request.
type checker struct {
	fields []utils.FieldError
}

func (c *checker) check(field string, value interface{}, rule string) {
	err := validate.Var(value, rule)
	if err == nil {
		return
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		c.fields = append(c.fields, utils.FieldError{Field: field, Message: utils.Describe(field, verrs[0])})
		return
	}
	c.fields = append(c.fields, utils.FieldError{Field: field, Message: field + " is invalid"})
}

func (c *checker) text(field, value, rule string) string {
	value = strings.TrimSpace(value)
	c.check(field, value, rule)
	return value
}

func (c *checker) category(value string) string {
	return c.text("category", strings.ToLower(value), ruleCategory)
}

func (c *checker) date(value string) time.Time {
	value = c.text("date", value, ruleDate)
	d, _ := ParseDate(value)
	return d
}

func (c *checker) capacity(value int) int {
	c.check("maxParticipants", value, ruleCapacity)
	return value
}

func (c *checker) err() error {
	if len(c.fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: c.fields}
}

// ParseDate accepts "2006-01-02" or RFC3339 and returns UTC.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if d, err := time.Parse("2006-01-02", value); err == nil {
		return d.UTC(), nil
	}
	d, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	return d.UTC(), nil
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := map[string]bool{}
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
