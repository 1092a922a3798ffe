package docstore

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"phonemart/pkg/errors"
)

type firestoreClient struct {
	client *firestore.Client
}

// NewFirestoreClient wraps a Firestore client as a docstore backend.
func NewFirestoreClient(client *firestore.Client) Client {
	return &firestoreClient{client: client}
}

func (f *firestoreClient) GetByID(ctx context.Context, collection, id string) (Document, error) {
	doc, err := f.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		return Document{}, classify("get document", err)
	}

	return Document{ID: doc.Ref.ID, Data: doc.Data()}, nil
}

func (f *firestoreClient) Query(ctx context.Context, collection string, q Query) ([]Document, error) {
	query := f.client.Collection(collection).Query

	for _, filter := range q.Filters {
		query = query.Where(filter.Field, "==", filter.Value)
	}

	if q.Order != nil {
		dir := firestore.Asc
		if q.Order.Desc {
			dir = firestore.Desc
		}
		query = query.OrderBy(q.Order.Field, dir)
	}

	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	snaps, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, classify("query collection", err)
	}

	docs := make([]Document, 0, len(snaps))
	for _, snap := range snaps {
		docs = append(docs, Document{ID: snap.Ref.ID, Data: snap.Data()})
	}

	return docs, nil
}

func (f *firestoreClient) Insert(ctx context.Context, collection string, data map[string]interface{}) (string, error) {
	doc := f.client.Collection(collection).NewDoc()
	if _, err := doc.Set(ctx, data); err != nil {
		return "", classify("insert document", err)
	}

	return doc.ID, nil
}

func (f *firestoreClient) InsertAt(ctx context.Context, collection, id string, data map[string]interface{}) error {
	if _, err := f.client.Collection(collection).Doc(id).Set(ctx, data); err != nil {
		return classify("insert document", err)
	}

	return nil
}

func (f *firestoreClient) Update(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	_, err := f.client.Collection(collection).Doc(id).Set(ctx, fields, firestore.MergeAll)
	if err != nil {
		return classify("update document", err)
	}

	return nil
}

func (f *firestoreClient) Delete(ctx context.Context, collection, id string) error {
	if _, err := f.client.Collection(collection).Doc(id).Delete(ctx); err != nil {
		return classify("delete document", err)
	}

	return nil
}

// classify maps a Firestore RPC failure onto the application error
// taxonomy so upper layers never inspect grpc codes themselves.
func classify(op string, err error) error {
	switch status.Code(err) {
	case codes.NotFound:
		return errors.NotFound("Document", err)
	case codes.Unavailable:
		return errors.Unreachable("Store did not answer: "+op, err)
	case codes.DeadlineExceeded, codes.Canceled:
		return errors.Offline("Store call did not complete: "+op, err)
	case codes.PermissionDenied:
		return errors.PermissionDenied("Store denied "+op, err)
	case codes.FailedPrecondition:
		return errors.PreconditionFailed("Store rejected "+op, err)
	default:
		return errors.Internal("Failed to "+op, err)
	}
}
