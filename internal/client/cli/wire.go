package cli

import (
	"context"
	"fmt"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"

	"github.com/dmitrijs2005/comparehub/internal/client/challenge"
	"github.com/dmitrijs2005/comparehub/internal/client/client"
	"github.com/dmitrijs2005/comparehub/internal/client/config"
	"github.com/dmitrijs2005/comparehub/internal/client/share"
	"github.com/dmitrijs2005/comparehub/internal/logging"
)

// loadAWSConfig is a seam for tests.
var loadAWSConfig = awsconfig.LoadDefaultConfig

func newAPIClient(ctx context.Context, c *config.Config, logger logging.Logger) (*client.HTTPClient, error) {
	opts := []client.Option{
		client.WithTimeout(c.RequestTimeout),
		client.WithLogger(logger),
	}

	if c.Signing.Enabled {
		awsCfg, err := loadAWSConfig(ctx, awsconfig.WithRegion(c.Signing.Region))
		if err != nil {
			return nil, fmt.Errorf("aws config: %w", err)
		}
		opts = append(opts, client.WithTransport(client.NewSigV4(awsCfg.Credentials, c.Signing.Region)))
	}

	return client.NewHTTPClient(c.AuthURL, c.CatalogURL, opts...), nil
}

func (a *App) newProvider(c config.Challenge) challenge.Provider {
	switch strings.ToLower(c.Mode) {
	case challenge.ModeBrowser:
		return challenge.NewBrowserProvider(challenge.BrowserConfig{
			PageURL:      c.PageURL,
			SiteKey:      c.SiteKey,
			ControlURL:   c.ControlURL,
			Bin:          c.BrowserBin,
			Headless:     c.Headless,
			PollInterval: c.PollInterval,
			Timeout:      c.Timeout,
		}, a.log)
	case challenge.ModeStatic:
		return &challenge.StaticProvider{Token: c.Token, Passive: c.Passive}
	case challenge.ModePrompt:
		return &challenge.PromptProvider{
			PageURL: c.PageURL,
			Out:     a.out,
			ReadLine: func(prompt string) (string, error) {
				return GetSimpleText(a.reader, prompt, a.out)
			},
		}
	default:
		return challenge.NoneProvider{}
	}
}

func newStore(c *config.Config) share.Store {
	if c.Share.Target == "s3" {
		return share.NewS3Store(share.S3Config{
			Bucket:    c.Share.S3Bucket,
			Region:    c.Share.S3Region,
			Endpoint:  c.Share.S3Endpoint,
			AccessKey: c.Share.S3AccessKey,
			SecretKey: c.Share.S3SecretKey,
		}, nil)
	}
	return share.NewFileStore(c.ExportsDir)
}
