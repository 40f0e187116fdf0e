package store

import (
	"context"
	"testing"

	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/googleapis/gax-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/viz-backend/internal/errs"
	"github.com/GregMSThompson/viz-backend/pkg/helpers"
)

type fakeSecretAccessor struct {
	data     string
	err      error
	lastName string
}

func (f *fakeSecretAccessor) AccessSecretVersion(_ context.Context, req *secretmanagerpb.AccessSecretVersionRequest, _ ...gax.CallOption) (*secretmanagerpb.AccessSecretVersionResponse, error) {
	f.lastName = req.GetName()
	if f.err != nil {
		return nil, f.err
	}
	return &secretmanagerpb.AccessSecretVersionResponse{
		Payload: &secretmanagerpb.SecretPayload{Data: []byte(f.data)},
	}, nil
}

func TestSecretsStoreVersionName(t *testing.T) {
	s := NewSecretsStore(nil, "viz-project")

	assert.Equal(t, "projects/viz-project/secrets/gemini-api-key/versions/latest", s.versionName("gemini-api-key"))
	assert.Equal(t, "projects/other/secrets/k/versions/latest", s.versionName("projects/other/secrets/k"))
	assert.Equal(t, "projects/other/secrets/k/versions/3", s.versionName("projects/other/secrets/k/versions/3"))
}

func TestSecretsStoreGetSecret(t *testing.T) {
	ctx := helpers.TestCtx()
	fake := &fakeSecretAccessor{data: "api-key-123\n"}
	s := NewSecretsStore(fake, "viz-project")

	value, err := s.GetSecret(ctx, "gemini-api-key")

	require.NoError(t, err)
	assert.Equal(t, "api-key-123", value)
	assert.Equal(t, "projects/viz-project/secrets/gemini-api-key/versions/latest", fake.lastName)
}

func TestSecretsStoreGetSecretNotFound(t *testing.T) {
	s := NewSecretsStore(&fakeSecretAccessor{err: status.Error(codes.NotFound, "missing")}, "viz-project")

	_, err := s.GetSecret(helpers.TestCtx(), "gemini-api-key")

	var nf *errs.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestSecretsStoreGetSecretEmpty(t *testing.T) {
	s := NewSecretsStore(&fakeSecretAccessor{data: "  "}, "viz-project")

	_, err := s.GetSecret(helpers.TestCtx(), "gemini-api-key")

	var ve *errs.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestSecretsStoreGetSecretPermissionDenied(t *testing.T) {
	s := NewSecretsStore(&fakeSecretAccessor{err: status.Error(codes.PermissionDenied, "denied")}, "viz-project")

	_, err := s.GetSecret(helpers.TestCtx(), "gemini-api-key")

	require.Error(t, err)
	assert.Equal(t, codes.PermissionDenied, status.Code(err))
}
