package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/edisort/internal/core/domain"
)

var partnersCmd = &cobra.Command{
	Use:   "partners",
	Short: "Inspect the trading partner table",
	RunE:  runPartnersList,
}

var partnersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the active partners",
	Args:  cobra.NoArgs,
	RunE:  runPartnersList,
}

var partnersCheckCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Validate a partner file",
	Long: `Loads a TOML or YAML partner file and validates it without activating
it. Duplicate sender ids and incomplete rules are reported.`,
	Args: cobra.ExactArgs(1),
	RunE: runPartnersCheck,
}

func init() {
	partnersCmd.AddCommand(partnersListCmd)
	partnersCmd.AddCommand(partnersCheckCmd)
	rootCmd.AddCommand(partnersCmd)
}

func runPartnersList(cmd *cobra.Command, _ []string) error {
	if partnerService == nil {
		return unavailable("partner")
	}

	profiles := partnerService.Profiles()
	if len(profiles) == 0 {
		cmd.Println("No partners configured.")
		return nil
	}

	cmd.Println(titleStyle.Render(fmt.Sprintf("%d partners", len(profiles))))
	for _, p := range profiles {
		cmd.Printf("  %-16s %-16s %-8s %s\n", p.Prefix, p.SenderID, p.Dialect, p.DisplayName())
		if p.Disambiguation != nil {
			cmd.Printf("  %s\n", mutedStyle.Render(describeRule(p.Disambiguation)))
		}
	}
	return nil
}

// describeRule summarises a disambiguation rule on one line.
func describeRule(r *domain.DisambiguationRule) string {
	codes := make([]string, len(r.Codes))
	for i, c := range r.Codes {
		codes[i] = fmt.Sprintf("%s=%s", c.Code, c.Value)
	}
	return fmt.Sprintf("%16s types %s: value %d after %q, codes %s",
		"", strings.Join(r.Types, ","), r.Offset, r.Locator, strings.Join(codes, "; "))
}

func runPartnersCheck(cmd *cobra.Command, args []string) error {
	if partnerService == nil {
		return unavailable("partner")
	}

	n, err := partnerService.Check(args[0])
	if err != nil {
		return fmt.Errorf("partner file invalid: %w", err)
	}

	cmd.Printf("%s: %d partners OK\n", args[0], n)
	return nil
}
