package main

import (
	"runtime"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/taotao21503/contract-generator/internal/config"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Print version and default generation settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.Printf("%s %s (%s %s/%s)\n", serviceName, version, runtime.Version(), runtime.GOOS, runtime.GOARCH)

		defaults, err := yaml.Marshal(config.Default())
		if err != nil {
			return err
		}
		cmd.Println("default settings:")
		cmd.Print(string(defaults))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
