package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/ringkeeper/internal/common"
	"github.com/dmitrijs2005/ringkeeper/internal/dbx"
	"github.com/dmitrijs2005/ringkeeper/internal/server/models"
	"github.com/dmitrijs2005/ringkeeper/internal/server/repositories/rings"
	"github.com/dmitrijs2005/ringkeeper/internal/server/repositories/users"
)

var errBoom = errors.New("boom")

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

type fakeUsersRepo struct {
	created   *models.User
	createID  string
	createErr error

	byEmail map[string]*models.User
	getErr  error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	u.ID = f.createID
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	f.created = u
	return u, nil
}

func (f *fakeUsersRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

// memRings is an in-memory rings.Repository.
type memRings struct {
	rows    map[int64]*models.Ring
	nextID  int64
	lockErr error
	updErr  error
	locked  []int64
}

func newMemRings(seed ...*models.Ring) *memRings {
	m := &memRings{rows: map[int64]*models.Ring{}}
	for _, r := range seed {
		m.nextID++
		r.ID = m.nextID
		m.rows[r.ID] = r
	}
	return m
}

func (m *memRings) Create(ctx context.Context, r *models.Ring) (*models.Ring, error) {
	m.nextID++
	c := *r
	c.ID = m.nextID
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	m.rows[c.ID] = &c
	return &c, nil
}

func (m *memRings) GetByID(ctx context.Context, id int64) (*models.Ring, error) {
	r, ok := m.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *r
	return &c, nil
}

func (m *memRings) LockByID(ctx context.Context, id int64) (*models.Ring, error) {
	if m.lockErr != nil {
		return nil, m.lockErr
	}
	m.locked = append(m.locked, id)
	return m.GetByID(ctx, id)
}

func (m *memRings) List(ctx context.Context) ([]*models.Ring, error) {
	out := make([]*models.Ring, 0, len(m.rows))
	for id := int64(1); id <= m.nextID; id++ {
		if r, ok := m.rows[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memRings) Update(ctx context.Context, r *models.Ring) (*models.Ring, error) {
	if m.updErr != nil {
		return nil, m.updErr
	}
	stored, ok := m.rows[r.ID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	stored.Name, stored.Power, stored.Bearer, stored.Image = r.Name, r.Power, r.Bearer, r.Image
	stored.UpdatedAt = time.Now()
	c := *stored
	return &c, nil
}

func (m *memRings) Delete(ctx context.Context, id int64) error {
	if _, ok := m.rows[id]; !ok {
		return common.ErrorNotFound
	}
	delete(m.rows, id)
	return nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	r *memRings
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository { return m.u }
func (m *fakeRepoManager) Rings(db dbx.DBTX) rings.Repository { return m.r }

type fakeIssuer struct {
	err error
}

func (f fakeIssuer) Issue(userID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "token-for-" + userID, nil
}
