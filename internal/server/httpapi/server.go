// Package httpapi is the HTTP transport of the ring keeper server. Every
// request passes the same ordered chain: identity, validation, existence,
// execution. Any failure along the way is turned into a response by the
// error normalizer in errors.go.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/ringkeeper/internal/logging"
	"github.com/dmitrijs2005/ringkeeper/internal/server/models"
	"github.com/dmitrijs2005/ringkeeper/internal/server/validation"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 5 * time.Second

type UserService interface {
	Register(ctx context.Context, user *models.User, password string) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (string, error)
}

type RingService interface {
	Create(ctx context.Context, forgerID string, ring *models.Ring) (*models.Ring, error)
	Get(ctx context.Context, id int64) (*models.Ring, error)
	List(ctx context.Context) ([]*models.Ring, error)
	Update(ctx context.Context, id int64, changes models.RingChanges) (*models.Ring, error)
	Delete(ctx context.Context, id int64) error
}

type ImageService interface {
	PresignUpload(ctx context.Context, userID string) (*models.ImageUpload, error)
}

// TokenVerifier resolves a bearer token to the user id it was issued for.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

type Server struct {
	address   string
	logger    logging.Logger
	users     UserService
	rings     RingService
	images    ImageService
	tokens    TokenVerifier
	validator *validation.Validator
	timeout   time.Duration
}

// NewServer wires the handlers. A non-positive requestTimeout leaves request
// contexts unbounded.
func NewServer(address string, l logging.Logger, us UserService, rs RingService, is ImageService, tv TokenVerifier, requestTimeout time.Duration) *Server {
	return &Server{
		address:   address,
		logger:    l.With("module", "http_server"),
		users:     us,
		rings:     rs,
		images:    is,
		tokens:    tv,
		validator: validation.New(),
		timeout:   requestTimeout,
	}
}

// Router builds the gin engine serving every route.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.CustomRecovery(s.recoverPanic), s.requestLogger, s.requestTimeout)

	r.GET("/ping", s.ping)
	r.POST("/users", s.register)
	r.POST("/login", s.login)

	rings := r.Group("/rings", s.authGuard)
	{
		rings.POST("", s.createRing())
		rings.GET("", s.listRings())
		rings.POST("/images", s.presignImage)
		rings.GET("/:id", s.getRing())
		rings.PUT("/:id", s.updateRing())
		rings.DELETE("/:id", s.deleteRing())
	}

	return r
}

func (s *Server) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: shutdownTimeout,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) recoverPanic(c *gin.Context, rec any) {
	s.writeError(c, fmt.Errorf("panic: %v", rec))
	c.Abort()
}

func (s *Server) ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}
