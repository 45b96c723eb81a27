package client

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
)

// apiGatewayService is the SigV4 service name for API Gateway invocations.
const apiGatewayService = "execute-api"

// SigV4Transport signs every request with AWS Signature Version 4.
type SigV4Transport struct {
	Base        http.RoundTripper
	Credentials aws.CredentialsProvider
	Region      string
	Service     string

	signer *v4.Signer
	now    func() time.Time
}

// NewSigV4 returns a wrapper suitable for WithTransport.
func NewSigV4(creds aws.CredentialsProvider, region string) func(http.RoundTripper) http.RoundTripper {
	return func(base http.RoundTripper) http.RoundTripper {
		return &SigV4Transport{
			Base:        base,
			Credentials: creds,
			Region:      region,
			Service:     apiGatewayService,
			signer:      v4.NewSigner(),
			now:         time.Now,
		}
	}
}

func (t *SigV4Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	var payload []byte
	if req.Body != nil {
		b, err := io.ReadAll(req.Body)
		_ = req.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("sigv4: read body: %w", err)
		}
		payload = b
	}

	signed := req.Clone(ctx)
	if payload != nil {
		signed.Body = io.NopCloser(bytes.NewReader(payload))
		signed.ContentLength = int64(len(payload))
	}

	sum := sha256.Sum256(payload)

	creds, err := t.Credentials.Retrieve(ctx)
	if err != nil {
		return nil, fmt.Errorf("sigv4: credentials: %w", err)
	}

	signer, now := t.signer, t.now
	if signer == nil {
		signer = v4.NewSigner()
	}
	if now == nil {
		now = time.Now
	}

	if err := signer.SignHTTP(ctx, creds, signed, hex.EncodeToString(sum[:]), t.Service, t.Region, now()); err != nil {
		return nil, fmt.Errorf("sigv4: sign: %w", err)
	}

	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(signed)
}
