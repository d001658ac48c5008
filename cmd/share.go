package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/gradwatch/internal/clierr"
	"github.com/twiced-technology-gmbh/gradwatch/internal/output"
	"github.com/twiced-technology-gmbh/gradwatch/internal/share"
)

var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Print today's countdown update",
	Long: `Renders share.template with today's date and the days, months, years and
hours left until graduation. With --copy the text is also put on the clipboard.`,
	Args: cobra.NoArgs,
	RunE: runShare,
}

// copyText is swapped in tests.
var copyText = share.Copy

func init() {
	shareCmd.Flags().Bool("copy", false, "copy the text to the clipboard")
	shareCmd.Flags().String("at", "", "render for this instant instead of now (YYYY-MM-DD or RFC 3339)")
	rootCmd.AddCommand(shareCmd)
}

func runShare(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	now, err := referenceTime(cmd, cfg)
	if err != nil {
		return err
	}

	text, err := share.Render(cfg.Share.Template, share.NewData(cfg.GraduationTime(), now, cfg.Location()))
	if err != nil {
		return clierr.New(clierr.InvalidConfig, err.Error())
	}

	copied := false
	if doCopy, _ := cmd.Flags().GetBool("copy"); doCopy {
		if err := copyText(text); err != nil {
			if errors.Is(err, share.ErrClipboardUnavailable) {
				return clierr.New(clierr.ClipboardUnavailable, err.Error())
			}
			return err
		}
		copied = true
	}

	w := cmd.OutOrStdout()
	if outputFormat() == output.FormatJSON {
		return output.JSON(w, map[string]any{"text": text, "copied": copied})
	}
	fmt.Fprintln(w, text)
	if copied {
		fmt.Fprintln(cmd.ErrOrStderr(), "Copied to clipboard.")
	}
	return nil
}
