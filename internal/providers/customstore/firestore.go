package customstore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/cockroachdb/errors"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// FirestoreSource reads collections from a Firestore project.
type FirestoreSource struct {
	client *firestore.Client
}

// NewFirestoreSource connects to projectID. An empty credentialsFile uses
// application default credentials.
func NewFirestoreSource(ctx context.Context, projectID, credentialsFile string) (*FirestoreSource, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "firestore: connect to project %s", projectID)
	}
	return &FirestoreSource{client: client}, nil
}

func (f *FirestoreSource) Documents(ctx context.Context, collection string) ([]Document, error) {
	snaps, err := f.client.Collection(collection).Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Wrapf(err, "firestore: read %s", collection)
	}
	out := make([]Document, 0, len(snaps))
	for _, s := range snaps {
		out = append(out, Document{ID: s.Ref.ID, Data: s.Data()})
	}
	return out, nil
}

// Watch listens to collection snapshots. The initial snapshot is skipped;
// every later one calls onChange.
func (f *FirestoreSource) Watch(ctx context.Context, collection string, onChange func()) error {
	it := f.client.Collection(collection).Snapshots(ctx)
	defer it.Stop()

	first := true
	for {
		_, err := it.Next()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, iterator.Done) {
				return nil
			}
			return errors.Wrapf(err, "firestore: watch %s", collection)
		}
		if first {
			first = false
			continue
		}
		onChange()
	}
}

func (f *FirestoreSource) Close() error {
	return f.client.Close()
}
