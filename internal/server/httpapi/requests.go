package httpapi

import (
	"fmt"

	"github.com/dmitrijs2005/ringkeeper/internal/server/models"
	"github.com/dmitrijs2005/ringkeeper/internal/server/validation"
	"github.com/gin-gonic/gin"
)

// Payload fields are pointers so an absent field reports "Required" while an
// empty one reports its own rule.

type createRingRequest struct {
	Name     *string `json:"name" validate:"required,min=1"`
	Power    *string `json:"power" validate:"required,min=1"`
	Bearer   *string `json:"bearer" validate:"required,uuid"`
	ForgedBy *string `json:"forgedBy" validate:"required,uuid"`
	Image    *string `json:"image" validate:"required,url"`
}

// ring drops ForgedBy: authorship is assigned from the caller's identity.
func (r *createRingRequest) ring() *models.Ring {
	return &models.Ring{
		Name:   *r.Name,
		Power:  *r.Power,
		Bearer: *r.Bearer,
		Image:  *r.Image,
	}
}

// updateRingRequest has no forgedBy; one sent anyway is ignored.
type updateRingRequest struct {
	Name   *string `json:"name" validate:"required,min=1"`
	Power  *string `json:"power" validate:"required,min=1"`
	Bearer *string `json:"bearer" validate:"required,uuid"`
	Image  *string `json:"image" validate:"required,url"`
}

func (r *updateRingRequest) changes() models.RingChanges {
	return models.RingChanges{
		Name:   *r.Name,
		Power:  *r.Power,
		Bearer: *r.Bearer,
		Image:  *r.Image,
	}
}

type registerRequest struct {
	Username *string `json:"username" validate:"required,min=1,max=100"`
	Email    *string `json:"email" validate:"required,email"`
	Password *string `json:"password" validate:"required,min=6,max=72"`
	Class    *string `json:"class" validate:"required,min=1"`
}

type loginRequest struct {
	Email    *string `json:"email" validate:"required,email"`
	Password *string `json:"password" validate:"required"`
}

type registerResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// decode reads the request body and validates it as a T.
func decode[T any](c *gin.Context, v *validation.Validator) (*T, error) {
	body, err := c.GetRawData()
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return validation.Decode[T](v, body).Result()
}
