package cli

import (
	"context"
	"errors"
	"io"

	"github.com/spf13/cobra"

	"tfi/obras-sociales-api/internal/core/obrasocial"
)

// Exit codes returned by ExitCode.
const (
	ExitOK         = 0
	ExitFailure    = 1
	ExitValidation = 2
	ExitNotFound   = 3
)

// Directory is the part of the directory service the one-shot commands use.
type Directory interface {
	ListObrasSociales(ctx context.Context) ([]obrasocial.ObraSocial, error)
	VerificarAfiliacion(ctx context.Context, obraSocialID int64, numeroAfiliado string) (*obrasocial.VerificacionAfiliacion, error)
}

// DirectoryFactory opens a Directory and returns the function releasing it.
type DirectoryFactory func(ctx context.Context, logOut io.Writer) (Directory, func() error, error)

// Options configures the command tree.
type Options struct {
	Version string

	// OpenDirectory overrides how listar and verificar reach the store.
	// Nil means the configured database.
	OpenDirectory DirectoryFactory
}

// NewRootCommand builds the obrassociales command tree. Running it without a
// subcommand starts the HTTP server.
func NewRootCommand(opts Options) *cobra.Command {
	if opts.OpenDirectory == nil {
		opts.OpenDirectory = openDatabaseDirectory
	}

	serve := newServeCommand(opts.Version)

	root := &cobra.Command{
		Use:           "obrassociales",
		Short:         "API de Obras Sociales",
		Long:          "Read-only directory of obras sociales and affiliate verification over PostgreSQL.",
		Version:       opts.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}

	root.AddCommand(
		serve,
		newListarCommand(opts.OpenDirectory),
		newVerificarCommand(opts.OpenDirectory),
	)

	return root
}

// ExitCode maps a command error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, obrasocial.ErrObraSocialNoEncontrada):
		return ExitNotFound
	case errors.Is(err, obrasocial.ErrValidacion):
		return ExitValidation
	default:
		return ExitFailure
	}
}

func openDatabaseDirectory(ctx context.Context, logOut io.Writer) (Directory, func() error, error) {
	rt, err := openRuntime(ctx, logOut)
	if err != nil {
		return nil, nil, err
	}
	return rt.service, rt.Close, nil
}
