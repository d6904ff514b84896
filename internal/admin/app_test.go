package admin

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dmitrijs2005/ringkeeper/internal/common"
	"github.com/dmitrijs2005/ringkeeper/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers struct {
	registered *models.User
	password   string
	err        error
}

func (f *fakeUsers) Register(ctx context.Context, user *models.User, password string) (*models.User, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	user.ID = "u-1"
	f.registered, f.password = user, password
	return user, "tok-u-1", nil
}

func (f *fakeUsers) Login(ctx context.Context, email, password string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if email != "frodo@shire.me" || password != "password123" {
		return "", common.ErrorUnauthorized
	}
	return "tok-u-1", nil
}

type fakeImages struct {
	uploadURL string
	err       error
	owner     string
}

func (f *fakeImages) PresignUpload(ctx context.Context, userID string) (*models.ImageUpload, error) {
	f.owner = userID
	if f.err != nil {
		return nil, f.err
	}
	return &models.ImageUpload{
		Key:       "rings/" + userID + "/k",
		UploadURL: f.uploadURL,
		ImageURL:  "http://127.0.0.1:9000/rings/rings/" + userID + "/k",
	}, nil
}

func newTestApp(users *fakeUsers, input string) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	return NewApp(users, &fakeImages{}, strings.NewReader(input), &out), &out
}

func TestRun_Register(t *testing.T) {
	users := &fakeUsers{}
	app, out := newTestApp(users, "password123\n")

	err := app.Run(context.Background(), []string{
		"register", "-username", "frodo", "-email", "frodo@shire.me", "-class", "Hobbit", "-d", "postgres://db",
	})
	require.NoError(t, err)

	assert.Equal(t, "frodo", users.registered.Username)
	assert.Equal(t, "frodo@shire.me", users.registered.Email)
	assert.Equal(t, "Hobbit", users.registered.Class)
	assert.Equal(t, "password123", users.password)
	assert.Contains(t, out.String(), "Enter password: ")
	assert.Contains(t, out.String(), "Registered user u-1\ntok-u-1\n")
}

func TestRun_RegisterInvalid(t *testing.T) {
	users := &fakeUsers{}
	app, _ := newTestApp(users, "123")

	err := app.Run(context.Background(), []string{"register", "-username", "frodo", "-email", "shire"})

	require.Error(t, err)
	assert.Equal(t, "invalid input\nclass: Required\nemail: Invalid email\npassword: Must be at least 6 characters", err.Error())
	assert.Nil(t, users.registered)
}

func TestRun_RegisterServiceError(t *testing.T) {
	app, _ := newTestApp(&fakeUsers{err: common.ErrorAlreadyExists}, "password123\n")

	err := app.Run(context.Background(), []string{"register", "-username", "frodo", "-email", "frodo@shire.me", "-class", "Hobbit"})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestRun_Token(t *testing.T) {
	app, out := newTestApp(&fakeUsers{}, "password123")

	require.NoError(t, app.Run(context.Background(), []string{"token", "-email", "frodo@shire.me"}))
	assert.True(t, strings.HasSuffix(out.String(), "tok-u-1\n"))

	app, _ = newTestApp(&fakeUsers{}, "wrong\n")
	err := app.Run(context.Background(), []string{"token", "-email", "frodo@shire.me"})
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestRun_Usage(t *testing.T) {
	app, _ := newTestApp(&fakeUsers{}, "")

	assert.ErrorIs(t, app.Run(context.Background(), nil), ErrUsage)
	assert.ErrorIs(t, app.Run(context.Background(), []string{"forge"}), ErrUsage)
	assert.ErrorIs(t, app.Run(context.Background(), []string{"token"}), ErrUsage)
}

func TestRun_PasswordReadError(t *testing.T) {
	app, _ := newTestApp(&fakeUsers{}, "")

	err := app.Run(context.Background(), []string{"token", "-email", "frodo@shire.me"})
	assert.ErrorContains(t, err, "error reading password")
}

func TestGetPassword_Terminal(t *testing.T) {
	oldRead, oldIsTerm := readPassword, isTerminal
	t.Cleanup(func() { readPassword, isTerminal = oldRead, oldIsTerm })

	isTerminal = func(int) bool { return true }
	readPassword = func(int) ([]byte, error) { return []byte("s3cret!"), nil }

	var out bytes.Buffer
	pw, err := getPassword(nil, 0, &out)
	require.NoError(t, err)
	assert.Equal(t, "s3cret!", pw)
	assert.Equal(t, "Enter password: \n", out.String())

	readPassword = func(int) ([]byte, error) { return nil, errors.New("boom") }
	_, err = getPassword(nil, 0, &out)
	assert.Error(t, err)
}

const ownerID = "7c9e6679-7425-40de-944b-e07fc1f90ae7"

func TestRun_Image(t *testing.T) {
	var gotCT, gotBody string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCT = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
	}))
	defer ts.Close()

	path := filepath.Join(t.TempDir(), "one.png")
	require.NoError(t, os.WriteFile(path, []byte("png-bytes"), 0o600))

	images := &fakeImages{uploadURL: ts.URL + "/upload?X-Amz-Signature=abc"}
	var out bytes.Buffer
	app := NewApp(&fakeUsers{}, images, strings.NewReader(""), &out)

	require.NoError(t, app.Run(context.Background(), []string{"image", "-owner", ownerID, "-file", path}))

	assert.Equal(t, ownerID, images.owner)
	assert.Equal(t, "image/png", gotCT)
	assert.Equal(t, "png-bytes", gotBody)
	assert.Equal(t, "http://127.0.0.1:9000/rings/rings/"+ownerID+"/k\n", out.String())
}

func TestRun_ImageErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "one.png")
	require.NoError(t, os.WriteFile(path, []byte("png-bytes"), 0o600))

	t.Run("invalid flags", func(t *testing.T) {
		app, _ := newTestApp(&fakeUsers{}, "")
		err := app.Run(context.Background(), []string{"image", "-owner", "frodo"})
		assert.EqualError(t, err, "invalid input\nfile: Required\nowner: Invalid uuid")
	})

	t.Run("missing file", func(t *testing.T) {
		app, _ := newTestApp(&fakeUsers{}, "")
		err := app.Run(context.Background(), []string{"image", "-owner", ownerID, "-file", path + ".missing"})
		assert.ErrorContains(t, err, "error opening image")
	})

	t.Run("presign failure", func(t *testing.T) {
		boom := errors.New("boom")
		app := NewApp(&fakeUsers{}, &fakeImages{err: boom}, strings.NewReader(""), io.Discard)
		err := app.Run(context.Background(), []string{"image", "-owner", ownerID, "-file", path})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("upload failure", func(t *testing.T) {
		old := uploadImage
		t.Cleanup(func() { uploadImage = old })
		uploadImage = func(context.Context, *http.Client, string, string, io.Reader) error {
			return errors.New("upload failed: 403 Forbidden")
		}

		app, _ := newTestApp(&fakeUsers{}, "")
		err := app.Run(context.Background(), []string{"image", "-owner", ownerID, "-file", path})
		assert.ErrorContains(t, err, "error uploading image")
	})
}
