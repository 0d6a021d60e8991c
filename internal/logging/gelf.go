package logging

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/Graylog2/go-gelf/gelf"
)

// NewGELFHandler returns a JSON handler that ships records to a Graylog
// GELF UDP input. The closer releases the UDP socket.
func NewGELFHandler(address, level string) (slog.Handler, io.Closer, error) {
	w, err := gelf.NewWriter(address)
	if err != nil {
		return nil, nil, fmt.Errorf("connect graylog %s: %w", address, err)
	}
	w.Facility = instrumentationScope
	return slog.NewJSONHandler(w, handlerOptions(parseLevel(level))), w, nil
}
