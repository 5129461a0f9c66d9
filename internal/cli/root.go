// Package cli implements the registrarctl operator commands
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/app/services"
	"github.com/yigit/registrar/internal/bootstrap"
	"github.com/yigit/registrar/internal/pkg/apperrors"
	"github.com/yigit/registrar/internal/server"
)

// app carries the services opened for one command invocation
type app struct {
	configPath string
	dataDir    string

	registration *services.RegistrationService
	access       *services.AccessService
	closeStore   func()
	logger       zerolog.Logger
}

// NewRootCmd builds the registrarctl command tree
func NewRootCmd() *cobra.Command {
	a := &app{closeStore: func() {}}

	root := &cobra.Command{
		Use:           "registrarctl",
		Short:         "Operate the registrar data store from the command line",
		Long:          `registrarctl runs catalog, registration and grading operations directly against the configured store.`,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd.Context())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.closeStore()
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "",
		"config file (default: $REGISTRAR_CONFIG or configs/config.yaml)")
	root.PersistentFlags().StringVar(&a.dataDir, "data-dir", "",
		"override storage.data_dir for the csv driver")

	root.AddCommand(
		newSubjectsCmd(a),
		newStudentsCmd(a),
		newEligibilityCmd(a),
		newRegisterCmd(a),
		newGradeCmd(a),
		newProfileCmd(a),
		newServeCmd(a),
	)

	return root
}

func (a *app) open(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(a.configPath)
	if err != nil {
		return err
	}
	if a.dataDir != "" {
		cfg.Storage.DataDir = a.dataDir
	}

	store, closeStore, err := bootstrap.SetupStore(ctx, cfg, lgr)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	registration, access, err := bootstrap.BuildServices(ctx, cfg, store, nil, lgr)
	if err != nil {
		closeStore()
		return err
	}

	a.registration = registration
	a.access = access
	a.closeStore = closeStore
	a.logger = lgr
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outcomeError turns a failed outcome into a command error after printing it
func outcomeError(w io.Writer, outcome models.Outcome) error {
	if err := writeJSON(w, outcome); err != nil {
		return err
	}
	if !outcome.Success {
		return fmt.Errorf("%s", outcome.Message)
	}
	return nil
}

func newEligibilityCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "eligibility <student-id> <subject-id>",
		Short: "Check whether a student may register for a subject",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			outcome := a.registration.IsEligibleForRegistration(cmd.Context(), models.NewID(args[0]), models.NewID(args[1]))
			return outcomeError(cmd.OutOrStdout(), outcome)
		},
	}
}

func newRegisterCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "register <student-id> <subject-id>",
		Short: "Register a student for a subject",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := a.access.Login(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("student %s: %w", args[0], err)
			}
			student, err := session.Student()
			if err != nil {
				return err
			}

			outcome, err := a.access.Register(cmd.Context(), student, models.NewID(args[1]))
			if err != nil {
				return err
			}
			return outcomeError(cmd.OutOrStdout(), outcome)
		},
	}
}

func newGradeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "grade <student-id> <subject-id> <grade>",
		Short: "Record a grade for a student's enrollment",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			outcome, err := a.access.AddGrade(cmd.Context(), models.NewID(args[0]), models.NewID(args[1]), args[2])
			if err != nil {
				return err
			}
			return outcomeError(cmd.OutOrStdout(), outcome)
		},
	}
}

func newProfileCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "profile <student-id>",
		Short: "Show a student with all enrollments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, ok := a.registration.GetStudentProfile(cmd.Context(), models.NewID(args[0]))
			if !ok {
				return fmt.Errorf("student %s: %w", args[0], apperrors.ErrStudentNotFound)
			}
			return writeJSON(cmd.OutOrStdout(), profile)
		},
	}
}

// newServeCmd runs the HTTP API, which opens its own store
func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:               "serve",
		Short:             "Run the HTTP API and event stream",
		Args:              cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		PersistentPostRun: func(cmd *cobra.Command, args []string) {},
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.dataDir != "" {
				if err := os.Setenv("STORAGE_DATA_DIR", a.dataDir); err != nil {
					return err
				}
			}
			srv, err := server.NewServer(a.configPath)
			if err != nil {
				return err
			}
			return srv.Run()
		},
	}
}
