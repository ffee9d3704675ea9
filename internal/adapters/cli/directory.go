package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"tfi/obras-sociales-api/internal/core/obrasocial"
)

func newListarCommand(open DirectoryFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "listar",
		Short: "List every obra social as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, closeFn, err := open(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closeFn()

			obras, err := dir.ListObrasSociales(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, obras)
		},
	}
}

func newVerificarCommand(open DirectoryFactory) *cobra.Command {
	var (
		obraSocialID   int64
		numeroAfiliado string
	)

	cmd := &cobra.Command{
		Use:   "verificar",
		Short: "Verify an affiliate number against an obra social",
		Long: `Checks whether an affiliate number is registered under the given obra social
and prints the verification result as JSON. Exits with status 3 when the
obra social does not exist.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if numeroAfiliado == "" {
				return fmt.Errorf("%w: numero_afiliado es requerido", obrasocial.ErrValidacion)
			}

			dir, closeFn, err := open(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closeFn()

			result, err := dir.VerificarAfiliacion(cmd.Context(), obraSocialID, numeroAfiliado)
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		},
	}

	cmd.Flags().Int64Var(&obraSocialID, "obra-social-id", 0, "obra social id")
	cmd.Flags().StringVar(&numeroAfiliado, "numero-afiliado", "", "affiliate number")
	_ = cmd.MarkFlagRequired("obra-social-id")
	_ = cmd.MarkFlagRequired("numero-afiliado")

	return cmd
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
