package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/repository/firestore"
	"github.com/secmon-lab/themis/pkg/service/catalogue"
	"github.com/secmon-lab/themis/pkg/usecase"
	"github.com/secmon-lab/themis/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdValidate() *cli.Command {
	var controlsFile string
	var firestoreProjectID string
	var firestoreDatabaseID string

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "controls-file",
			Usage:       "Legacy SoA control JSON file to validate (upgrade is checked, nothing is written)",
			Sources:     cli.EnvVars("THEMIS_CONTROLS_FILE"),
			Destination: &controlsFile,
		},
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Usage:       "Firestore Project ID (if specified, DB consistency check is performed)",
			Sources:     cli.EnvVars("THEMIS_FIRESTORE_PROJECT_ID"),
			Destination: &firestoreProjectID,
		},
		&cli.StringFlag{
			Name:        "firestore-database-id",
			Usage:       "Firestore Database ID",
			Sources:     cli.EnvVars("THEMIS_FIRESTORE_DATABASE_ID"),
			Destination: &firestoreDatabaseID,
		},
	}

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate the control catalogue and optionally check DB consistency",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			// Step 1: the embedded catalogue must parse and every control
			// must be structurally valid.
			annexA, err := catalogue.AnnexA()
			if err != nil {
				return goerr.Wrap(err, "catalogue validation failed")
			}
			controls, err := annexA.Controls()
			if err != nil {
				return goerr.Wrap(err, "catalogue validation failed")
			}
			for _, control := range controls {
				if err := control.Validate(); err != nil {
					return goerr.Wrap(err, "catalogue control is invalid", goerr.V("id", control.ID))
				}
			}
			logger.Info("Catalogue validation passed",
				"control_count", len(controls),
				"set_count", len(annexA.Sets),
			)

			// Step 2: if a legacy control file is given, every document must
			// upgrade cleanly.
			if controlsFile != "" {
				if err := validateLegacyControls(controlsFile); err != nil {
					return err
				}
				logger.Info("Legacy control file validation passed", "file", controlsFile)
			}

			// Step 3: if a Firestore project ID is specified, run the DB
			// consistency check.
			if firestoreProjectID == "" {
				logger.Info("No Firestore project ID specified, skipping DB consistency check")
				return nil
			}

			repo, err := firestore.New(ctx, firestoreProjectID, firestoreDatabaseID)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize Firestore repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logger.Error("failed to close repository", "error", err.Error())
				}
			}()

			uc := usecase.New(repo)
			result, err := uc.SoA.ValidateControls(ctx, controls)
			if err != nil {
				return goerr.Wrap(err, "DB consistency check failed")
			}

			if result.HasIssues() {
				for _, issue := range result.Issues {
					logger.Warn("DB consistency issue found",
						"control_id", issue.ControlID,
						"message", issue.Message,
					)
				}
				return fmt.Errorf("DB consistency check found %d issue(s)", len(result.Issues))
			}

			logger.Info("DB consistency check passed", "checked", result.Checked)
			return nil
		},
	}
}

func validateLegacyControls(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return goerr.Wrap(err, "failed to read control file", goerr.V("file", path))
	}
	var docs []*model.LegacyControlDocument
	if err := json.Unmarshal(raw, &docs); err != nil {
		return goerr.Wrap(err, "control file is not a JSON control array", goerr.V("file", path))
	}
	for _, doc := range docs {
		if _, err := doc.Upgrade(); err != nil {
			return goerr.Wrap(err, "legacy control cannot be upgraded", goerr.V("id", doc.ID))
		}
	}
	return nil
}
