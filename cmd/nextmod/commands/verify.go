package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"gitlab.com/nextmod/nextmod/internal/config"
	"gitlab.com/nextmod/nextmod/internal/foundation/errors"
	"gitlab.com/nextmod/nextmod/internal/linkverify"
)

// VerifyCmd implements the 'verify' command.
type VerifyCmd struct {
	Output string `short:"o" help:"Override output.directory"`
}

func (v *VerifyCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root, overrides{Output: v.Output})
	if err != nil {
		return err
	}
	ctx, err := setupLogging(context.Background(), g, cfg, root.Verbose)
	if err != nil {
		return err
	}
	return RunVerify(ctx, cfg, os.Stdout)
}

// RunVerify checks every page under the output directory. Broken links are
// printed to w and reported as a validation error.
func RunVerify(ctx context.Context, cfg *config.Config, w io.Writer) error {
	report, err := linkverify.NewVerifier(cfg.Output.Directory, cfg.Source.Concurrency).Verify(ctx)
	if err != nil {
		return err
	}

	for _, b := range report.Broken {
		_, _ = fmt.Fprintf(w, "%s:%d: <%s %s=%q> %s\n", b.Page, b.Line, b.Tag, b.Attribute, b.URL, b.Reason)
	}
	_, _ = fmt.Fprintf(w, "Checked %d links on %d pages\n", report.Links, report.Pages)

	if !report.OK() {
		return errors.ValidationError(fmt.Sprintf("%d broken links", len(report.Broken))).
			WithContext("output", cfg.Output.Directory).
			Build()
	}
	return nil
}
