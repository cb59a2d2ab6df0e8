package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/mindtrack-backend/internal/platform/apierr"
	"github.com/yungbote/mindtrack-backend/internal/wellness"
)

// Error maps err through apierr and writes the envelope. Server-side
// failures are reported without their internal message.
func Error(c *gin.Context, err error, fallbackCode string) {
	ae := apierr.From(err, fallbackCode)
	if ae == nil {
		ae = apierr.New(http.StatusInternalServerError, fallbackCode, nil)
	}
	_ = c.Error(err)

	msg := "unknown error"
	if ae.Err != nil {
		msg = ae.Err.Error()
	}
	if ae.Status >= http.StatusInternalServerError {
		msg = http.StatusText(ae.Status)
	}
	c.AbortWithStatusJSON(ae.Status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    ae.Code,
			Detail:  validationDetail(err),
		},
	})
}

type fieldDetail struct {
	Field string          `json:"field"`
	Value string          `json:"value,omitempty"`
	Bound *wellness.Bound `json:"bound,omitempty"`
}

func validationDetail(err error) any {
	var rangeErr *wellness.OutOfRangeError
	if errors.As(err, &rangeErr) {
		b := rangeErr.Bound
		return fieldDetail{Field: rangeErr.Field, Value: rangeErr.Value, Bound: &b}
	}
	var tsErr *wellness.InvalidTimestampError
	if errors.As(err, &tsErr) {
		return fieldDetail{Field: "timestamp", Value: tsErr.Value}
	}
	return nil
}
