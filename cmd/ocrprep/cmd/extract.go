package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/steplab/ocrprep/internal/plan"
)

// extractCmd runs OCR over a single image without enhancement.
var extractCmd = &cobra.Command{
	Use:   "extract <image>",
	Short: "Extract text from an image without enhancement",
	Long: `Run OCR over one stored image or file and persist the requested
artifact files.

Examples:
  ocrprep extract scan.png
  ocrprep extract scan.png --language deu --no-json`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		language, _ := cmd.Flags().GetString("language")
		noText, _ := cmd.Flags().GetBool("no-text")
		noJSON, _ := cmd.Flags().GetBool("no-json")
		if language == "" {
			language = cfg.OCR.Language
		}

		comps, err := buildComponents(cfg)
		if err != nil {
			return err
		}
		ref, err := resolveRef(comps.store, args[0])
		if err != nil {
			return err
		}

		opts := plan.DefaultRunOptions()
		opts.RunEnhancement = false
		opts.SaveText = !noText
		opts.SaveJSON = !noJSON
		opts.Language = language

		artifact, err := comps.extractor.ExtractOne(cmd.Context(), ref, opts)
		if err != nil {
			return err
		}

		encoded, err := json.MarshalIndent(artifact, "", "  ")
		if err != nil {
			return fmt.Errorf("encode artifact: %w", err)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
		return err
	},
}

func init() {
	extractCmd.Flags().String("language", "", "OCR language code (default from config)")
	extractCmd.Flags().Bool("no-text", false, "skip writing the .ocr.txt artifact")
	extractCmd.Flags().Bool("no-json", false, "skip writing the .ocr.json artifact")
	rootCmd.AddCommand(extractCmd)
}
