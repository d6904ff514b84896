package httpapi

import (
	"strconv"

	"github.com/dmitrijs2005/ringkeeper/internal/common"
	"github.com/gin-gonic/gin"
)

// ringCall is the state one ring request carries from step to step.
type ringCall struct {
	userID string
	id     int64
	create *createRingRequest
	update *updateRingRequest
}

// step is one fallible stage of a ring request. The first error ends the
// request and is handed to the normalizer.
type step func(c *gin.Context, rc *ringCall) error

// pipeline runs steps in order. Identity has already been resolved by
// authGuard, so no step ever runs for an unauthenticated caller.
func (s *Server) pipeline(steps ...step) gin.HandlerFunc {
	return func(c *gin.Context) {
		rc := &ringCall{userID: c.GetString(userIDKey)}
		for _, st := range steps {
			if err := st(c, rc); err != nil {
				s.writeError(c, err)
				return
			}
		}
	}
}

// parseRingID reads :id. An id that is not a positive integer cannot name a
// ring, so it is reported as not found.
func parseRingID(c *gin.Context, rc *ringCall) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return common.ErrorNotFound
	}
	rc.id = id
	return nil
}

// ringExists fails with common.ErrorNotFound when rc.id names no ring.
func (s *Server) ringExists(c *gin.Context, rc *ringCall) error {
	_, err := s.rings.Get(c.Request.Context(), rc.id)
	return err
}

func (s *Server) validateCreate(c *gin.Context, rc *ringCall) error {
	req, err := decode[createRingRequest](c, s.validator)
	if err != nil {
		return err
	}
	rc.create = req
	return nil
}

func (s *Server) validateUpdate(c *gin.Context, rc *ringCall) error {
	req, err := decode[updateRingRequest](c, s.validator)
	if err != nil {
		return err
	}
	rc.update = req
	return nil
}
