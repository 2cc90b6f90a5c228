package errcodes

import (
	"context"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/errutils"
	"github.com/robinjoseph08/golib/logger"
)

const codeInternal = "internal_error"

// Describe returns the code and the user-facing message for err. Anything that
// isn't an *Error is reported as an internal error.
func Describe(err error) (string, string) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, e.Error()
	}
	return codeInternal, err.Error()
}

// Report writes a one-line failure message for the operation to w and logs
// it. Known failure kinds are expected during normal use and only logged at
// info; anything else is an internal error.
func Report(ctx context.Context, w io.Writer, op string, err error) {
	log := logger.FromContext(ctx)
	if errutils.IsIgnorableErr(err) {
		log.Err(err).Warn("broken pipe")
		return
	}

	code, msg := Describe(err)
	if code == codeInternal {
		log.Err(err).Error(op+" failed", logger.Data{"code": code})
	} else {
		log.Info(op+" failed", logger.Data{"code": code, "error": msg})
	}

	_, _ = fmt.Fprintf(w, "[error]: %s: %s\n", op, msg)
}
