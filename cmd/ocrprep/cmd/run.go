package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// runCmd executes the full pipeline: resolve options from the prompt,
// enhance when asked for, and extract text from every produced image.
var runCmd = &cobra.Command{
	Use:   "run <image>",
	Short: "Resolve options from a prompt, enhance and extract text",
	Long: `Run the full pipeline over an image. The prompt decides whether
enhancement runs and which artifact files are written; without local
keyword matches the remote planning backend is consulted.

Examples:
  ocrprep run scan.png --prompt "improve contrast and binarize"
  ocrprep run scan.png --prompt "ocr only, return only json"`,
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

		artifacts, err := comps.pipeline.Run(cmd.Context(), ref, prompt)
		if err != nil {
			return err
		}
		if len(artifacts) == 0 {
			return errors.New("pipeline produced no artifacts")
		}

		encoded, err := json.MarshalIndent(artifacts, "", "  ")
		if err != nil {
			return fmt.Errorf("encode artifacts: %w", err)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
		return err
	},
}

func init() {
	runCmd.Flags().String("prompt", "", "free-form instruction for this run")
	rootCmd.AddCommand(runCmd)
}
