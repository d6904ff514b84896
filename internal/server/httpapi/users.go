package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/ringkeeper/internal/server/models"
	"github.com/gin-gonic/gin"
)

func (s *Server) register(c *gin.Context) {
	req, err := decode[registerRequest](c, s.validator)
	if err != nil {
		s.writeError(c, err)
		return
	}

	user, token, err := s.users.Register(c.Request.Context(), &models.User{
		Username: *req.Username,
		Email:    *req.Email,
		Class:    *req.Class,
	}, *req.Password)
	if err != nil {
		s.writeError(c, err)
		return
	}

	s.logger.Info(c.Request.Context(), "Registered", "user_id", user.ID)
	c.JSON(http.StatusCreated, registerResponse{User: user, Token: token})
}

func (s *Server) login(c *gin.Context) {
	req, err := decode[loginRequest](c, s.validator)
	if err != nil {
		s.writeError(c, err)
		return
	}

	token, err := s.users.Login(c.Request.Context(), *req.Email, *req.Password)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokenResponse{Token: token})
}
