package adr

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/brocaar/chirpstack-region/adr"
	"github.com/brocaar/chirpstack-region/internal/region"
)

var (
	handlers       map[string]adr.Handler
	defaultHandler adr.Handler
)

// Setup configures the ADR handlers for the given region state.
func Setup(s *region.State) error {
	if s == nil {
		return errors.New("region state must not be nil")
	}

	defaultHandler = NewDefaultHandler(s)
	handlers = make(map[string]adr.Handler)

	for _, h := range []adr.Handler{defaultHandler} {
		id, err := h.ID()
		if err != nil {
			return errors.Wrap(err, "get adr handler id error")
		}
		name, err := h.Name()
		if err != nil {
			return errors.Wrap(err, "get adr handler name error")
		}

		handlers[id] = h

		log.WithFields(log.Fields{
			"id":   id,
			"name": name,
		}).Debug("adr: adr handler registered")
	}

	return nil
}

// GetHandler returns the handler for the given id. When the id is unknown,
// the default handler is returned.
func GetHandler(id string) adr.Handler {
	if h, ok := handlers[id]; ok {
		return h
	}
	return defaultHandler
}
