// Package store persists named tree snapshots.
//
// Two backends implement [Store]:
//   - [FileStore]: one JSON file per snapshot, for the CLI
//   - [MongoStore]: a MongoDB collection, for shared deployments of the server
//
// Snapshot names are validated with [errors.ValidateSnapshotName] by every
// backend, so a name that works with one works with the other.
package store

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/guptarut/treemap/pkg/errors"
	"github.com/guptarut/treemap/pkg/snapshot"
)

// ErrNotFound is returned when a snapshot name does not exist.
var ErrNotFound = stderrors.New("snapshot not found")

// Store is the interface for snapshot storage backends.
type Store interface {
	// Save creates or replaces the snapshot called name.
	Save(ctx context.Context, name string, t snapshot.Tree) error

	// Load returns the snapshot called name, or an error wrapping ErrNotFound.
	Load(ctx context.Context, name string) (snapshot.Tree, error)

	// List returns every stored snapshot sorted by name.
	List(ctx context.Context) ([]Info, error)

	// Delete removes a snapshot. Deleting a missing name is not an error.
	Delete(ctx context.Context, name string) error

	Close() error
}

// Info describes a stored snapshot.
type Info struct {
	Name      string    `json:"name" bson:"_id"`
	Nodes     int       `json:"nodes" bson:"nodes"`
	Size      int64     `json:"size" bson:"size"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// record is the stored form shared by the backends.
type record struct {
	Info `bson:",inline"`
	Tree snapshot.Tree `json:"tree" bson:"tree"`
}

func newRecord(name string, t snapshot.Tree) record {
	return record{
		Info: Info{
			Name:      name,
			Nodes:     t.Count(),
			Size:      t.Root.Size,
			UpdatedAt: time.Now().UTC(),
		},
		Tree: t,
	}
}

func notFound(name string) error {
	return errors.Wrap(errors.ErrCodeSnapshotNotFound, ErrNotFound, "snapshot %q", name)
}

// Backend names accepted by Open.
const (
	BackendFile  = "file"
	BackendMongo = "mongo"
)

// Config selects and configures a backend.
type Config struct {
	Backend string // "file" (default) or "mongo"
	Dir     string
	Mongo   MongoConfig
}

// Open returns the backend named by cfg.Backend.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case BackendFile, "":
		s, err := NewFileStore(cfg.Dir)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendMongo:
		s, err := NewMongoStore(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidArgument, "unknown store backend %q", cfg.Backend)
	}
}
