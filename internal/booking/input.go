package booking

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// MaxTextLen bounds subject, location and comments.
const MaxTextLen = 512

var validate = newValidator()

// newValidator registers "text": valid UTF-8 of at most MaxTextLen runes.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("utf8", func(fl validator.FieldLevel) bool {
		return utf8.ValidString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	v.RegisterAlias("text", fmt.Sprintf("utf8,max=%d", MaxTextLen))
	return v
}

type NewBooking struct {
	SlotID   int64 `validate:"gt=0"`
	UserID   string
	Subject  string `validate:"text"`
	Location string `validate:"text"`
	Comments string `validate:"text"`
}

type JoinBooking struct {
	SlotID           int64 `validate:"gt=0"`
	UserID           string
	Comments         string `validate:"text"`
	ConfirmationCode string
}

type NewSlot struct {
	Date     time.Time `validate:"required"`
	Hour     int       `validate:"min=0,max=23"`
	Capacity int       `validate:"min=1"`
}

// DateRange is half-open: From inclusive, To exclusive.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Day returns the range covering the single date d.
func Day(d time.Time) DateRange {
	return DateRange{From: d, To: d.AddDate(0, 0, 1)}
}

func (r DateRange) check() error {
	if r.From.IsZero() || r.To.IsZero() {
		return invalidArgument("date range requires both ends")
	}
	if !r.To.After(r.From) {
		return invalidArgument("end date must be after start date")
	}
	return nil
}

func (in NewBooking) check() error {
	if in.UserID == "" {
		return unauthorized("no authenticated user")
	}
	return checkStruct(in)
}

func (in JoinBooking) check() error {
	if in.UserID == "" {
		return unauthorized("no authenticated user")
	}
	return checkStruct(in)
}

func (in NewSlot) check() error { return checkStruct(in) }

func checkStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		fe := ve[0]
		msg := fmt.Sprintf("%s fails %s", strings.ToLower(fe.Field()), fe.ActualTag())
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
		return invalidArgument(msg)
	}
	return invalidArgument(err.Error())
}
