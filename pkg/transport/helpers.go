package transport

import (
	"io"

	"github.com/sirupsen/logrus"
)

// ReadBodyLimited reads response body up to maxBytes.
func ReadBodyLimited(reader io.Reader, maxBytes int64) ([]byte, error) {
	if maxBytes <= 0 {
		return io.ReadAll(reader)
	}

	limited := &io.LimitedReader{R: reader, N: maxBytes}
	return io.ReadAll(limited)
}

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *logrus.Logger {
	log := logrus.New()
	log.Out = io.Discard
	return log
}

func drainAndClose(body io.ReadCloser) {
	if body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()
}
