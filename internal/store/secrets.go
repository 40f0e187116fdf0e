package store

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/viz-backend/internal/errs"
)

// Secret path
// projects/{project}/secrets/{secretID}/versions/latest

type secretAccessor interface {
	AccessSecretVersion(ctx context.Context, req *secretmanagerpb.AccessSecretVersionRequest, opts ...gax.CallOption) (*secretmanagerpb.AccessSecretVersionResponse, error)
}

type secretsStore struct {
	client    secretAccessor
	projectID string
}

// NewSecretsStore reads secrets through a *secretmanager.Client or anything shaped like it.
func NewSecretsStore(client secretAccessor, projectID string) *secretsStore {
	return &secretsStore{client: client, projectID: projectID}
}

// versionName accepts a bare secret id, a full secret name or a full version name.
func (s *secretsStore) versionName(secret string) string {
	name := secret
	if !strings.HasPrefix(name, "projects/") {
		name = fmt.Sprintf("projects/%s/secrets/%s", s.projectID, secret)
	}
	if !strings.Contains(name, "/versions/") {
		name += "/versions/latest"
	}
	return name
}

func (s *secretsStore) GetSecret(ctx context.Context, secret string) (string, error) {
	name := s.versionName(secret)
	res, err := s.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if status.Code(err) == codes.NotFound {
		return "", errs.NewNotFoundError(fmt.Sprintf("secret %s not found", name))
	}
	if err != nil {
		return "", fmt.Errorf("access secret %s: %w", name, err)
	}
	value := strings.TrimSpace(string(res.GetPayload().GetData()))
	if value == "" {
		return "", errs.NewValidationError(fmt.Sprintf("secret %s is empty", name))
	}
	return value, nil
}
