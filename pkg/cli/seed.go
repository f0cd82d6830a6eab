package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/cli/config"
	"github.com/secmon-lab/themis/pkg/service/catalogue"
	"github.com/secmon-lab/themis/pkg/usecase"
	"github.com/secmon-lab/themis/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdSeed() *cli.Command {
	var repoCfg config.Repository

	return &cli.Command{
		Name:  "seed",
		Usage: "Seed the ISO/IEC 27001:2022 Annex A control catalogue into the SoA",
		Flags: repoCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			annexA, err := catalogue.AnnexA()
			if err != nil {
				return goerr.Wrap(err, "failed to load control catalogue")
			}
			controls, err := annexA.Controls()
			if err != nil {
				return goerr.Wrap(err, "failed to build catalogue controls")
			}

			uc := usecase.New(repo)
			created, err := uc.SoA.SeedControls(ctx, controls)
			if err != nil {
				return goerr.Wrap(err, "failed to seed controls")
			}

			skipped := len(controls) - created
			fmt.Printf("%s %s\n",
				color.GreenString("✓"),
				fmt.Sprintf("seeded %d controls (%d already present)", created, skipped))
			for _, set := range annexA.Sets {
				fmt.Printf("  %s %s: %d controls\n",
					color.CyanString(set.ID), set.Title, len(set.Controls))
			}

			return nil
		},
	}
}
