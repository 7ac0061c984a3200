package disc

import (
	"io"

	"github.com/sirupsen/logrus"
)

// discardLogger is used when no logger is supplied.
var discardLogger logrus.FieldLogger = func() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}()
