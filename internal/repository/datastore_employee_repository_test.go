package repository

import (
	"fmt"
	"testing"

	"cloud.google.com/go/datastore"
	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestIsAlreadyExists(t *testing.T) {
	exists := status.Error(codes.AlreadyExists, "entity already exists")

	assert.True(t, isAlreadyExists(exists))
	assert.True(t, isAlreadyExists(datastore.MultiError{nil, exists}))
	assert.False(t, isAlreadyExists(datastore.MultiError{nil, nil}))
	assert.False(t, isAlreadyExists(status.Error(codes.Unavailable, "try again")))
	assert.False(t, isAlreadyExists(fmt.Errorf("boom")))
}
