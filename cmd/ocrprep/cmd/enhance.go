package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// enhanceCmd produces enhancement variants without running OCR.
var enhanceCmd = &cobra.Command{
	Use:   "enhance <image>",
	Short: "Produce enhancement variants of an image",
	Long: `Generate an enhancement plan from the prompt via the remote
planning backend and store one enhanced variant per plan entry.

Examples:
  ocrprep enhance scan.png --prompt "make it readable"
  ocrprep enhance scan.png --prompt "binarize aggressively"`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		prompt, _ := cmd.Flags().GetString("prompt")

		comps, err := buildComponents(GetConfig())
		if err != nil {
			return err
		}
		ref, err := resolveRef(comps.store, args[0])
		if err != nil {
			return err
		}

		refs, err := comps.enhancer.Enhance(cmd.Context(), ref, prompt)
		if err != nil {
			return err
		}
		for _, r := range refs {
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), r); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	enhanceCmd.Flags().String("prompt", "", "free-form enhancement instruction")
	rootCmd.AddCommand(enhanceCmd)
}
