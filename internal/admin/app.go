// Package admin implements the operator command line: registering users and
// minting tokens for them without going through the HTTP API.
package admin

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dmitrijs2005/ringkeeper/internal/flagx"
	"github.com/dmitrijs2005/ringkeeper/internal/netx"
	"github.com/dmitrijs2005/ringkeeper/internal/server/models"
	"github.com/dmitrijs2005/ringkeeper/internal/server/validation"
)

var ErrUsage = errors.New("usage: cli register -username U -email E -class C | cli token -email E | cli image -owner ID -file F")

var uploadImage = netx.UploadImage

type UserService interface {
	Register(ctx context.Context, user *models.User, password string) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (string, error)
}

type ImageService interface {
	PresignUpload(ctx context.Context, userID string) (*models.ImageUpload, error)
}

type App struct {
	users     UserService
	images    ImageService
	client    *http.Client
	reader    *bufio.Reader
	fd        int
	out       io.Writer
	validator *validation.Validator
}

// NewApp reads answers from in and prints to out. Passwords are read without
// echo when in is a terminal.
func NewApp(us UserService, is ImageService, in io.Reader, out io.Writer) *App {
	fd := -1
	if f, ok := in.(*os.File); ok {
		fd = int(f.Fd())
	}
	return &App{
		users:     us,
		images:    is,
		client:    http.DefaultClient,
		reader:    bufio.NewReader(in),
		fd:        fd,
		out:       out,
		validator: validation.New(),
	}
}

// Run executes the subcommand named by args[0]. Flags it does not own are
// ignored, so server flags such as -d may appear on the same command line.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return ErrUsage
	}

	switch args[0] {
	case "register":
		return a.register(ctx, args[1:])
	case "token":
		return a.token(ctx, args[1:])
	case "image":
		return a.image(ctx, args[1:])
	default:
		return fmt.Errorf("unknown command %q: %w", args[0], ErrUsage)
	}
}

type registration struct {
	Username string `json:"username" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Class    string `json:"class" validate:"required"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

func (a *App) register(ctx context.Context, args []string) error {
	var r registration

	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&r.Username, "username", "", "user name")
	fs.StringVar(&r.Email, "email", "", "email")
	fs.StringVar(&r.Class, "class", "", "class, e.g. Hobbit")
	if err := fs.Parse(flagx.FilterArgs(args, []string{"-username", "-email", "-class"})); err != nil {
		return err
	}

	password, err := getPassword(a.reader, a.fd, a.out)
	if err != nil {
		return fmt.Errorf("error reading password: %w", err)
	}
	r.Password = password

	if _, err := validation.Check(a.validator, &r).Result(); err != nil {
		return describe(err)
	}

	user, token, err := a.users.Register(ctx, &models.User{
		Username: r.Username,
		Email:    r.Email,
		Class:    r.Class,
	}, r.Password)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Registered user %s\n%s\n", user.ID, token)
	return nil
}

func (a *App) token(ctx context.Context, args []string) error {
	var email string

	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&email, "email", "", "email")
	if err := fs.Parse(flagx.FilterArgs(args, []string{"-email"})); err != nil {
		return err
	}
	if email == "" {
		return ErrUsage
	}

	password, err := getPassword(a.reader, a.fd, a.out)
	if err != nil {
		return fmt.Errorf("error reading password: %w", err)
	}

	token, err := a.users.Login(ctx, email, password)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, token)
	return nil
}

type imageUpload struct {
	Owner string `json:"owner" validate:"required,uuid"`
	File  string `json:"file" validate:"required"`
}

// image uploads a file as a ring image owned by -owner and prints the URL to
// use as the ring's image.
func (a *App) image(ctx context.Context, args []string) error {
	var u imageUpload

	fs := flag.NewFlagSet("image", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&u.Owner, "owner", "", "owner user id")
	fs.StringVar(&u.File, "file", "", "image file")
	if err := fs.Parse(flagx.FilterArgs(args, []string{"-owner", "-file"})); err != nil {
		return err
	}

	if _, err := validation.Check(a.validator, &u).Result(); err != nil {
		return describe(err)
	}

	f, err := os.Open(u.File)
	if err != nil {
		return fmt.Errorf("error opening image: %w", err)
	}
	defer f.Close()

	upload, err := a.images.PresignUpload(ctx, u.Owner)
	if err != nil {
		return err
	}

	contentType := mime.TypeByExtension(filepath.Ext(u.File))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if err := uploadImage(ctx, a.client, upload.UploadURL, contentType, f); err != nil {
		return fmt.Errorf("error uploading image: %w", err)
	}

	fmt.Fprintln(a.out, upload.ImageURL)
	return nil
}

// describe flattens a validation failure into one line per field.
func describe(err error) error {
	var valErr *validation.Error
	if !errors.As(err, &valErr) {
		return err
	}

	fields := make([]string, 0, len(valErr.Report))
	for f := range valErr.Report {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		lines = append(lines, f+": "+strings.Join(valErr.Report[f], ", "))
	}
	return fmt.Errorf("invalid input\n%s", strings.Join(lines, "\n"))
}
