package gcp

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/playfinity/playfinity-backend/internal/pkg/ctxutil"
	"github.com/playfinity/playfinity-backend/internal/pkg/logger"
)

// Document is one stored document with its collection-local id.
type Document struct {
	ID   string
	Data map[string]any
}

// DocumentStore abstracts the document database behind slash paths, so
// services address records as "topics/dog/agegrps/2/games/quiz" without
// holding Firestore handles themselves.
type DocumentStore interface {
	// Get returns the document at path, reporting absence without error.
	Get(ctx context.Context, path string) (map[string]any, bool, error)
	// Set writes the full document at path, creating or replacing it.
	Set(ctx context.Context, path string, data map[string]any) error
	// UpdateFields patches individual fields on an existing document.
	UpdateFields(ctx context.Context, path string, fields map[string]any) error
	// List streams every document directly under a collection path.
	List(ctx context.Context, collectionPath string) ([]Document, error)
	// Delete removes the document at path; deleting a missing doc is not
	// an error.
	Delete(ctx context.Context, path string) error
	Close() error
}

// Increment wraps the store's server-side counter transform for use in
// UpdateFields values.
func Increment(n int64) any {
	return firestore.Increment(n)
}

type firestoreStore struct {
	log    *logger.Logger
	client *firestore.Client
}

func NewDocumentStore(log *logger.Logger) (DocumentStore, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	slog := log.With("service", "gcp.DocumentStore")

	projectID := strings.TrimSpace(os.Getenv("GCP_PROJECT_ID"))
	if projectID == "" {
		projectID = strings.TrimSpace(os.Getenv("GOOGLE_CLOUD_PROJECT"))
	}
	if projectID == "" {
		return nil, fmt.Errorf("missing env var GCP_PROJECT_ID")
	}

	ctx := context.Background()
	client, err := firestore.NewClient(ctx, projectID, ClientOptionsFromEnv()...)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}

	slog.Info("Document store initialized", "project_id", projectID)
	return &firestoreStore{log: slog, client: client}, nil
}

func (fs *firestoreStore) Close() error {
	if fs == nil || fs.client == nil {
		return nil
	}
	return fs.client.Close()
}

func (fs *firestoreStore) Get(ctx context.Context, path string) (map[string]any, bool, error) {
	ctx, cancel := context.WithTimeout(ctxutil.Default(ctx), 30*time.Second)
	defer cancel()

	snap, err := fs.client.Doc(path).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("firestore get %s: %w", path, err)
	}
	return snap.Data(), true, nil
}

func (fs *firestoreStore) Set(ctx context.Context, path string, data map[string]any) error {
	ctx, cancel := context.WithTimeout(ctxutil.Default(ctx), 30*time.Second)
	defer cancel()

	if _, err := fs.client.Doc(path).Set(ctx, data); err != nil {
		return fmt.Errorf("firestore set %s: %w", path, err)
	}
	return nil
}

func (fs *firestoreStore) UpdateFields(ctx context.Context, path string, fields map[string]any) error {
	ctx, cancel := context.WithTimeout(ctxutil.Default(ctx), 30*time.Second)
	defer cancel()

	updates := make([]firestore.Update, 0, len(fields))
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		updates = append(updates, firestore.Update{Path: k, Value: fields[k]})
	}

	if _, err := fs.client.Doc(path).Update(ctx, updates); err != nil {
		return fmt.Errorf("firestore update %s: %w", path, err)
	}
	return nil
}

func (fs *firestoreStore) List(ctx context.Context, collectionPath string) ([]Document, error) {
	ctx, cancel := context.WithTimeout(ctxutil.Default(ctx), 60*time.Second)
	defer cancel()

	it := fs.client.Collection(collectionPath).Documents(ctx)
	defer it.Stop()

	out := []Document{}
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("firestore list %s: %w", collectionPath, err)
		}
		out = append(out, Document{ID: snap.Ref.ID, Data: snap.Data()})
	}
	return out, nil
}

func (fs *firestoreStore) Delete(ctx context.Context, path string) error {
	ctx, cancel := context.WithTimeout(ctxutil.Default(ctx), 30*time.Second)
	defer cancel()

	if _, err := fs.client.Doc(path).Delete(ctx); err != nil {
		return fmt.Errorf("firestore delete %s: %w", path, err)
	}
	return nil
}
