package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) createRing() gin.HandlerFunc {
	return s.pipeline(s.validateCreate, func(c *gin.Context, rc *ringCall) error {
		ring, err := s.rings.Create(c.Request.Context(), rc.userID, rc.create.ring())
		if err != nil {
			return err
		}
		c.JSON(http.StatusCreated, ring)
		return nil
	})
}

func (s *Server) listRings() gin.HandlerFunc {
	return s.pipeline(func(c *gin.Context, rc *ringCall) error {
		rings, err := s.rings.List(c.Request.Context())
		if err != nil {
			return err
		}
		c.JSON(http.StatusOK, rings)
		return nil
	})
}

func (s *Server) getRing() gin.HandlerFunc {
	return s.pipeline(parseRingID, func(c *gin.Context, rc *ringCall) error {
		ring, err := s.rings.Get(c.Request.Context(), rc.id)
		if err != nil {
			return err
		}
		c.JSON(http.StatusOK, ring)
		return nil
	})
}

// updateRing checks existence before validation so a missing ring is a 404
// whatever the body holds.
func (s *Server) updateRing() gin.HandlerFunc {
	return s.pipeline(parseRingID, s.ringExists, s.validateUpdate, func(c *gin.Context, rc *ringCall) error {
		ring, err := s.rings.Update(c.Request.Context(), rc.id, rc.update.changes())
		if err != nil {
			return err
		}
		c.JSON(http.StatusOK, ring)
		return nil
	})
}

func (s *Server) deleteRing() gin.HandlerFunc {
	return s.pipeline(parseRingID, func(c *gin.Context, rc *ringCall) error {
		if err := s.rings.Delete(c.Request.Context(), rc.id); err != nil {
			return err
		}
		c.Status(http.StatusNoContent)
		return nil
	})
}

func (s *Server) presignImage(c *gin.Context) {
	upload, err := s.images.PresignUpload(c.Request.Context(), c.GetString(userIDKey))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, upload)
}
