package storage

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("storage: not found")
	ErrConstraint   = errors.New("storage: constraint violation")
	ErrSchemaTooNew = errors.New("storage: schema version newer than code")
)

// User is a credential holder. Only the seed administrator is created by the
// system itself; the password column is stored and compared verbatim.
type User struct {
	ID       int64
	Username string
	Password string
	FullName string
}

// Asset is one inventory record. Category and Condition are free-form at this
// layer; the service layer restricts them to the UI vocabularies.
type Asset struct {
	ID           int64
	Name         string
	Category     string
	Location     string
	Quantity     int64
	Condition    string
	PurchaseDate string
	Description  string
}

type AuditEvent struct {
	ID        string
	Action    string
	Actor     string
	TargetID  string
	Details   string
	CreatedAt time.Time
}

type AuditFilter struct {
	Action string
	Since  *time.Time
	Limit  int
}

type UserRepository interface {
	Authenticate(ctx context.Context, username, password string) (*User, error)
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
}

// AssetRepository is the contract the UI layer consumes. Update and Delete
// report a missing row through a zero affected-row count rather than an
// error; callers branch on the count.
type AssetRepository interface {
	Insert(ctx context.Context, asset *Asset) (int64, error)
	Update(ctx context.Context, asset *Asset) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
	Get(ctx context.Context, id int64) (*Asset, error)
	List(ctx context.Context) ([]Asset, error)
	Search(ctx context.Context, query string) ([]Asset, error)
}

type AuditRepository interface {
	Append(ctx context.Context, event *AuditEvent) error
	List(ctx context.Context, filter AuditFilter) ([]AuditEvent, error)
}
