package main

import (
	"os"

	"github.com/go-kit/kit/log"
	"github.com/spf13/cobra"
)

const serviceName = "contract-generator"

// set with -ldflags "-X main.version=..."
var version = "dev"

var logger log.Logger

var rootCmd = &cobra.Command{
	Use:   "contract-generator",
	Short: "Batch contract document generator",
	Long: `contract-generator reads contract records from a spreadsheet and produces
one populated docx per record by substituting {{field}} tokens in a template.
When a detail workbook or directory is configured, matching line items are
appended to the document as a table.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	logger = log.NewJSONLogger(log.NewSyncWriter(os.Stdout))
	logger = log.WithPrefix(logger, "service", serviceName)
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)

	if err := rootCmd.Execute(); err != nil {
		rootCmd.PrintErrln("Error:", err)
		os.Exit(1)
	}
}
