package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	cloudapps "github.com/cd1zz/defender-for-cloud-apps-api-client"
)

var (
	fileSharing string
	fileType    string
	fileLimit   int
)

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "List files across connected cloud apps",
	RunE:  runFiles,
}

func init() {
	filesCmd.Flags().StringVar(&fileSharing, "sharing", "", "filter by sharing level (Public, External, Internal, Private)")
	filesCmd.Flags().StringVar(&fileType, "type", "", "filter by file type (Document, Spreadsheet, ...)")
	filesCmd.Flags().IntVarP(&fileLimit, "limit", "n", 25, "maximum files to show")
}

func runFiles(cmd *cobra.Command, args []string) error {
	builder := cloudapps.NewFilterBuilder()
	if fileSharing != "" {
		builder.Equals("sharing", fileSharing)
	}
	if fileType != "" {
		builder.Equals("fileType", fileType)
	}

	files, err := client.Files.List(cmd.Context(), builder.Build(), &cloudapps.ListOptions{Limit: fileLimit})
	if err != nil {
		return err
	}

	if len(files) == 0 {
		fmt.Println("No files found.")
		return nil
	}

	fmt.Printf("Found %d files:\n", len(files))
	fmt.Println(strings.Repeat("-", 80))
	for _, file := range files {
		fmt.Printf("• %s (%s, %s)\n", file.Name, file.FileType, file.Sharing)
		if file.OwnerName != "" {
			fmt.Printf("  Owner: %s\n", file.OwnerName)
		}
	}

	return nil
}
