package main

import (
	"context"
	"fmt"

	adapters "github.com/ochairo/lambda-build/internal/domain-adapters/gateways"
	"github.com/ochairo/lambda-build/internal/domain/services"
	"github.com/ochairo/lambda-build/internal/external-adapters/gpg"
)

// VerifyCmd checks a packaged function against its recorded checksum and
// detached signature
type VerifyCmd struct {
	Artifact  string `arg:"" help:"Packaged artifact (bootstrap or bootstrap.zip)."`
	Key       string `help:"OpenPGP public key used to check the signature." placeholder:"FILE"`
	Signature string `help:"Detached signature (default <artifact>.asc)." placeholder:"FILE"`
	SHA256    string `name:"sha256" help:"Expected SHA-256 checksum." placeholder:"HEX"`
	Report    string `help:"Build report to read the expected checksum from." placeholder:"FILE"`
}

// Run executes the verify command
func (c *VerifyCmd) Run(_ context.Context, a *app) error {
	expected, err := c.expectedChecksum()
	if err != nil {
		return err
	}
	if expected == "" && c.Key == "" {
		return fmt.Errorf("nothing to verify: pass --sha256, --report or --key")
	}

	fmt.Fprintf(a.stdout, "🔍 Verifying %s\n", c.Artifact)

	if expected != "" {
		if err := adapters.NewChecksummer().VerifyChecksum(c.Artifact, expected); err != nil {
			return err
		}
		fmt.Fprintln(a.stdout, "✅ Checksum verified")
	}

	if c.Key != "" {
		verifier := gpg.NewVerifier()
		if err := verifier.ImportKeyFromFile(c.Key); err != nil {
			return err
		}
		sig := firstNonEmpty(c.Signature, c.Artifact+gpg.SignatureSuffix)
		if err := verifier.VerifySignatureFromFile(c.Artifact, sig); err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "✅ Signature verified against %d key(s)\n", verifier.GetKeyringSize())
	}

	return nil
}

func (c *VerifyCmd) expectedChecksum() (string, error) {
	if c.SHA256 != "" || c.Report == "" {
		return c.SHA256, nil
	}
	report, err := services.NewReportService().ReadReport(c.Report)
	if err != nil {
		return "", err
	}
	entry, ok := report.Find(c.Artifact)
	if !ok {
		return "", fmt.Errorf("%s is not listed in build report %s", c.Artifact, c.Report)
	}
	return entry.SHA256, nil
}
