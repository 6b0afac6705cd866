package database

import (
	"context"
	"fmt"

	"cloud.google.com/go/datastore"
)

// NewDatastoreClient creates a Cloud Datastore client. The emulator is used
// when DATASTORE_EMULATOR_HOST is set in the environment. The list and skill
// queries need the composite indexes in index.yaml.
func NewDatastoreClient(ctx context.Context, projectID string) (*datastore.Client, error) {
	if projectID == "" {
		return nil, fmt.Errorf("datastore project id is required")
	}
	client, err := datastore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create datastore client: %w", err)
	}
	return client, nil
}
