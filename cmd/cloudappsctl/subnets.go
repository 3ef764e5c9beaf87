package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var subnetsCmd = &cobra.Command{
	Use:   "subnets",
	Short: "Manage IP subnet enrichment data",
	RunE:  runSubnetsList,
}

var subnetsReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print a subnet report grouped by organization",
	RunE:  runSubnetsReport,
}

func init() {
	subnetsCmd.AddCommand(subnetsReportCmd)
}

func runSubnetsList(cmd *cobra.Command, args []string) error {
	subnets, err := client.Subnets.ListAll(cmd.Context(), nil, nil)
	if err != nil {
		return err
	}

	if len(subnets) == 0 {
		fmt.Println("No subnets configured.")
		return nil
	}

	fmt.Printf("Found %d subnets:\n", len(subnets))
	fmt.Println(strings.Repeat("-", 80))
	for _, subnet := range subnets {
		fmt.Printf("• %s  %s", subnet.Name, subnet.OriginalRange)
		if subnet.Organization != "" {
			fmt.Printf("  [%s]", subnet.Organization)
		}
		fmt.Println()
	}

	return nil
}

func runSubnetsReport(cmd *cobra.Command, args []string) error {
	report, err := client.Subnets.Report(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Print(report)
	return nil
}
