package cloudrun

import (
	"fmt"
	"strconv"

	"github.com/pulumi/pulumi-docker/sdk/v4/go/docker"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/cloudrun"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/projects"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/serviceaccount"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"

	"github.com/GregMSThompson/viz-backend/infra/common"
	"github.com/GregMSThompson/viz-backend/infra/secret"
)

const geminiKeySecretID = "gemini-api-key"

func SetupCloudRun(ctx *pulumi.Context, prov *gcp.Provider, apiSA *serviceaccount.Account, res ...pulumi.Resource) error {
	img, err := buildApiImage(ctx, res...)
	if err != nil {
		return err
	}

	envs, err := generatorEnvs(ctx, res...)
	if err != nil {
		return err
	}

	srv, err := enableCloudRun(ctx, prov)
	if err != nil {
		return err
	}

	svc, err := createCloudRunService(ctx, img, apiSA, envs, prov, append(res, srv)...)
	if err != nil {
		return err
	}

	err = setIAMAccessPolicy(ctx, svc, prov)
	if err != nil {
		return err
	}

	ctx.Export("apiUrl", svc.Statuses.Index(pulumi.Int(0)).Url())
	return nil
}

func buildApiImage(ctx *pulumi.Context, res ...pulumi.Resource) (*docker.Image, error) {
	gcpCfg := config.New(ctx, "gcp")
	projectID := gcpCfg.Require("project")
	region := gcpCfg.Require("region")

	hash, err := common.GenerateHash("../", "infra", ".git")
	if err != nil {
		return nil, err
	}

	return docker.NewImage(ctx, "apiImage", &docker.ImageArgs{
		Build: docker.DockerBuildArgs{
			Platform:   pulumi.String("linux/amd64"),
			Context:    pulumi.String(".."),                    // build from repo root
			Dockerfile: pulumi.String("../cmd/api/Dockerfile"), // Dockerfile path relative to repo root
		},
		ImageName: pulumi.String(fmt.Sprintf("%s-docker.pkg.dev/%s/api/viz-api:%s", region, projectID, hash)),
	},
		pulumi.DependsOn(res),
	)
}

func enableCloudRun(ctx *pulumi.Context, prov *gcp.Provider) (*projects.Service, error) {
	return projects.NewService(ctx, "cloudRunService", &projects.ServiceArgs{
		Service: pulumi.String("run.googleapis.com"),
	},
		pulumi.Provider(prov),
	)
}

func CreateServiceAccount(ctx *pulumi.Context, prov *gcp.Provider) (*serviceaccount.Account, error) {
	return serviceaccount.NewAccount(ctx, "apiServiceAccount", &serviceaccount.AccountArgs{
		AccountId:   pulumi.String("viz-api-service"),
		DisplayName: pulumi.String("Visualization API Service Account"),
	},
		pulumi.Provider(prov),
	)
}

// generatorEnvs selects the generation backend. The gemini backend reads its
// key from Secret Manager at startup; the vertex backend uses the service account.
func generatorEnvs(ctx *pulumi.Context, res ...pulumi.Resource) (cloudrun.ServiceTemplateSpecContainerEnvArray, error) {
	gcpCfg := config.New(ctx, "gcp")
	genCfg := config.New(ctx, "generator")

	backend := genCfg.Get("backend")
	if backend == "" {
		backend = "vertex"
	}

	envs := cloudrun.ServiceTemplateSpecContainerEnvArray{
		env("GENERATOR", pulumi.String(backend)),
		env("REGION", pulumi.String(gcpCfg.Require("region"))),
	}
	if model := genCfg.Get("model"); model != "" {
		name := "VERTEXMODEL"
		if backend == "gemini" {
			name = "GEMINIMODEL"
		}
		envs = append(envs, env(name, pulumi.String(model)))
	}
	if t := genCfg.Get("timeout"); t != "" {
		envs = append(envs, env("GENERATIONTIMEOUT", pulumi.String(t)))
	}
	if t := genCfg.Get("temperature"); t != "" {
		envs = append(envs, env("TEMPERATURE", pulumi.String(t)))
	}

	if backend != "gemini" {
		return envs, nil
	}

	secretID, err := secret.AddSecret(ctx, "geminiApiKeySecret", geminiKeySecretID, genCfg.RequireSecret("geminiApiKey"))
	if err != nil {
		return nil, err
	}
	envs = append(envs, env("GEMINIAPIKEYSECRET", secretID))
	return envs, nil
}

func env(name string, value pulumi.StringPtrInput) *cloudrun.ServiceTemplateSpecContainerEnvArgs {
	return &cloudrun.ServiceTemplateSpecContainerEnvArgs{
		Name:  pulumi.String(name),
		Value: value,
	}
}

func createCloudRunService(ctx *pulumi.Context,
	img *docker.Image,
	apiSA *serviceaccount.Account,
	generatorEnvs cloudrun.ServiceTemplateSpecContainerEnvArray,
	prov *gcp.Provider,
	res ...pulumi.Resource) (*cloudrun.Service, error) {
	gcpCfg := config.New(ctx, "gcp")
	crCfg := config.New(ctx, "cloudrun")

	projectID := gcpCfg.Require("project")
	region := gcpCfg.Require("region")
	minScale := crCfg.Require("minScale")
	maxScale := crCfg.Require("maxScale")
	cpu := crCfg.Require("cpu")
	memory := crCfg.Require("memory")
	concurrency := crCfg.Require("concurrency")
	logLevel := crCfg.Require("logLevel")
	timeout, _ := strconv.Atoi(crCfg.Require("timeout"))

	envs := cloudrun.ServiceTemplateSpecContainerEnvArray{
		env("PROJECTID", pulumi.String(projectID)),
		env("LOGLEVEL", pulumi.String(logLevel)),
	}
	envs = append(envs, generatorEnvs...)

	return cloudrun.NewService(ctx, "apiService", &cloudrun.ServiceArgs{
		Location: pulumi.String(region),

		Template: &cloudrun.ServiceTemplateArgs{

			Metadata: &cloudrun.ServiceTemplateMetadataArgs{
				Annotations: pulumi.StringMap{
					// Autoscaling bounds
					"autoscaling.knative.dev/minScale": pulumi.String(minScale),
					"autoscaling.knative.dev/maxScale": pulumi.String(maxScale),

					// Instance sizing
					"run.googleapis.com/cpu":    pulumi.String(cpu),
					"run.googleapis.com/memory": pulumi.String(memory),

					// The collection lives in memory; keep the CPU allocated between requests
					"run.googleapis.com/cpu-throttling": pulumi.String("false"),

					"run.googleapis.com/container-concurrency": pulumi.String(concurrency),
				},
			},

			Spec: &cloudrun.ServiceTemplateSpecArgs{
				ServiceAccountName: apiSA.Email,
				TimeoutSeconds:     pulumi.Int(timeout),

				Containers: cloudrun.ServiceTemplateSpecContainerArray{
					&cloudrun.ServiceTemplateSpecContainerArgs{
						Image: img.ImageName,
						Ports: cloudrun.ServiceTemplateSpecContainerPortArray{
							&cloudrun.ServiceTemplateSpecContainerPortArgs{
								ContainerPort: pulumi.Int(8080),
							},
						},
						Envs: envs,
					},
				},
			},
		},
	},
		pulumi.Provider(prov),
		pulumi.DependsOn(res),
	)
}

func setIAMAccessPolicy(ctx *pulumi.Context, svc *cloudrun.Service, prov *gcp.Provider) error {
	gcpCfg := config.New(ctx, "gcp")
	crCfg := config.New(ctx, "cloudrun")
	region := gcpCfg.Require("region")

	member := crCfg.Get("invoker")
	if member == "" {
		// no built-in auth; restrict with cloudrun:invoker outside local demos
		member = "allUsers"
	}

	_, err := cloudrun.NewIamMember(ctx, "apiInvoker", &cloudrun.IamMemberArgs{
		Service:  svc.Name,
		Location: pulumi.String(region),
		Role:     pulumi.String("roles/run.invoker"),
		Member:   pulumi.String(member),
	},
		pulumi.Provider(prov),
	)
	return err
}
