package main

import (
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/GregMSThompson/viz-backend/infra/cloudrun"
	"github.com/GregMSThompson/viz-backend/infra/docker"
	"github.com/GregMSThompson/viz-backend/infra/provider"
	"github.com/GregMSThompson/viz-backend/infra/secret"
	"github.com/GregMSThompson/viz-backend/infra/vertex"
)

func main() {
	pulumi.Run(func(ctx *pulumi.Context) error {
		// set default provider with the correct project
		prov, err := provider.SetupDefaultProvider(ctx)
		if err != nil {
			return err
		}

		apiSA, err := cloudrun.CreateServiceAccount(ctx, prov)
		if err != nil {
			return err
		}

		// enable vertex and let the api call it
		vertexSrv, err := vertex.SetupVertex(ctx, prov, apiSA)
		if err != nil {
			return err
		}

		// secret manager holds the optional gemini api key
		secretSrv, err := secret.SetupSecretManager(ctx, prov, apiSA)
		if err != nil {
			return err
		}

		// create docker repo
		repo, err := docker.CreateCloudrunRepo(ctx)
		if err != nil {
			return err
		}

		return cloudrun.SetupCloudRun(ctx, prov, apiSA, repo, vertexSrv, secretSrv)
	})
}
