package secretsource

import (
	"context"
	"fmt"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	secretmanagerpb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

// gcpSSMSource reads the latest version of each secret from Google Cloud
// Secret Manager, under cfg.ProjectID.
type gcpSSMSource struct {
	client    *secretmanager.Client
	projectID string
}

func newGCPSSMSource(cfg Config) (Source, error) {
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("secretsource: gcpssm backend requires ProjectID")
	}

	client, err := secretmanager.NewClient(context.Background())
	if err != nil {
		return nil, fmt.Errorf("secretsource: gcp client: %w", err)
	}

	return &gcpSSMSource{client: client, projectID: cfg.ProjectID}, nil
}

func (g *gcpSSMSource) GetSecret(name string) ([]byte, error) {
	req := &secretmanagerpb.AccessSecretVersionRequest{
		Name: fmt.Sprintf("projects/%s/secrets/%s/versions/latest", g.projectID, name),
	}
	resp, err := g.client.AccessSecretVersion(context.Background(), req)
	if err != nil {
		return nil, fmt.Errorf("secretsource: gcpssm access %s: %w", name, err)
	}
	return resp.Payload.Data, nil
}
