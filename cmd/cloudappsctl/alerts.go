package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	cloudapps "github.com/cd1zz/defender-for-cloud-apps-api-client"
)

var (
	alertSeverity string
	alertOpenOnly bool
	alertLimit    int
)

var severityNames = map[string]int{
	"low":           cloudapps.AlertSeverityLow,
	"medium":        cloudapps.AlertSeverityMedium,
	"high":          cloudapps.AlertSeverityHigh,
	"informational": cloudapps.AlertSeverityInformational,
}

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "List security alerts",
	RunE:  runAlerts,
}

func init() {
	alertsCmd.Flags().StringVarP(&alertSeverity, "severity", "s", "", "minimum severity (low, medium, high)")
	alertsCmd.Flags().BoolVar(&alertOpenOnly, "open", false, "only open alerts")
	alertsCmd.Flags().IntVarP(&alertLimit, "limit", "n", 25, "maximum alerts to show")
}

func runAlerts(cmd *cobra.Command, args []string) error {
	builder := cloudapps.NewFilterBuilder()
	if alertSeverity != "" {
		severity, ok := severityNames[strings.ToLower(alertSeverity)]
		if !ok {
			return fmt.Errorf("unknown severity %q", alertSeverity)
		}
		builder.GreaterThanOrEqual("severity", severity)
	}
	if alertOpenOnly {
		builder.Equals("alertOpen", true)
	}

	logger.Debug().Int("limit", alertLimit).Msg("listing alerts")

	alerts, err := cloudapps.CollectN(
		cloudapps.Take(client.Alerts.All(cmd.Context(), builder.Build(), 100), alertLimit),
		alertLimit,
	)
	if err != nil {
		return err
	}

	if len(alerts) == 0 {
		fmt.Println("No alerts found.")
		return nil
	}

	fmt.Printf("Found %d alerts:\n", len(alerts))
	fmt.Println(strings.Repeat("-", 80))
	for _, alert := range alerts {
		state := "closed"
		if alert.IsOpen {
			state = "open"
		}
		fmt.Printf("• [%s] %s (severity %d, %s)\n",
			alert.ID, alert.Title, alert.SeverityValue, state)
		fmt.Printf("  %s\n", cloudapps.FromMillis(alert.Timestamp).Format("2006-01-02 15:04:05"))
	}

	return nil
}
