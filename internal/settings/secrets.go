package settings

import (
	"context"
	"fmt"
	"log/slog"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

// Secret names looked up per provider in hosted deployments.
var secretNames = map[Provider]string{
	ProviderGemini: "gemini-api-key",
	ProviderOpenAI: "openai-api-key",
}

// SeedFromSecretManager seeds store with provider keys held in GCP Secret
// Manager under projects/<project>. Providers whose secret is missing are
// skipped; stored and environment keys keep precedence over seeds that are
// installed here.
func SeedFromSecretManager(ctx context.Context, store Store, project string) error {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("create secret manager client: %w", err)
	}
	defer func() { _ = client.Close() }()

	for provider, name := range secretNames {
		resp, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
			Name: fmt.Sprintf("projects/%s/secrets/%s/versions/latest", project, name),
		})
		if err != nil {
			slog.Debug("No managed secret for provider", "provider", provider, "error", err)
			continue
		}
		store.SeedAPIKey(provider, string(resp.GetPayload().GetData()))
		slog.Info("Seeded provider key from Secret Manager", "provider", provider)
	}

	return nil
}
