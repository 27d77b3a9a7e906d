package main

import (
	"fmt"

	"github.com/go-kit/kit/log/level"
	"github.com/spf13/cobra"

	"github.com/taotao21503/contract-generator/internal/config"
	"github.com/taotao21503/contract-generator/internal/detail"
	"github.com/taotao21503/contract-generator/internal/generator"
	"github.com/taotao21503/contract-generator/internal/merge"
	"github.com/taotao21503/contract-generator/internal/parser"
	"github.com/taotao21503/contract-generator/internal/placeholder"
	"github.com/taotao21503/contract-generator/internal/xlsx"
)

var generateFlags struct {
	excel          string
	template       string
	output         string
	configFile     string
	detailWorkbook string
	detailDir      string
	headerRow      int
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one document per spreadsheet row",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(generateFlags.configFile)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("header-row") {
			cfg.HeaderRow = generateFlags.headerRow
		}
		if generateFlags.detailWorkbook != "" {
			cfg.Detail.Workbook = generateFlags.detailWorkbook
		}
		if generateFlags.detailDir != "" {
			cfg.Detail.Dir = generateFlags.detailDir
		}

		p, err := parser.New()
		if err != nil {
			return err
		}
		if err := p.Check(generateFlags.excel, "xlsx"); err != nil {
			return fmt.Errorf("excel %s: %w", generateFlags.excel, err)
		}
		if err := p.Check(generateFlags.template, "docx"); err != nil {
			return fmt.Errorf("template %s: %w", generateFlags.template, err)
		}

		svc, err := buildService(cfg)
		if err != nil {
			return err
		}

		res, err := svc.Generate(cmd.Context(), generator.Request{
			Excel:     generateFlags.excel,
			Template:  generateFlags.template,
			OutputDir: generateFlags.output,
			HeaderRow: cfg.HeaderRow,
		})
		if err != nil {
			return err
		}

		level.Info(logger).Log(
			"msg", "batch finished",
			"processed", res.Processed,
			"succeeded", res.Succeeded,
			"failed", res.Failed,
		)
		for _, e := range res.Errors {
			cmd.PrintErrln(e)
		}
		if res.Failed > 0 {
			return fmt.Errorf("%d of %d records failed", res.Failed, res.Processed)
		}
		return nil
	},
}

func buildService(cfg config.Config) (generator.Service, error) {
	engine, err := placeholder.New()
	if err != nil {
		return nil, err
	}

	reader := xlsx.NewReader()
	locator := detail.NewLocator(
		reader,
		cfg.Detail.Workbook,
		cfg.Detail.Dir,
		cfg.Detail.KeyFields,
		cfg.Detail.NameFields,
		cfg.Detail.StartRow,
	)
	renderer := merge.NewRenderer(merge.NumericPolicy{
		ThousandsSeparators: cfg.Numeric.ThousandsSeparators,
		CurrencySymbols:     cfg.Numeric.CurrencySymbols,
	})

	return generator.NewService(
		reader,
		engine,
		locator,
		renderer,
		cfg.FilenameFields,
		cfg.Detail.Title,
		logger,
	), nil
}

func init() {
	generateCmd.Flags().StringVarP(&generateFlags.excel, "excel", "e", "", "contract spreadsheet (xlsx)")
	generateCmd.Flags().StringVarP(&generateFlags.template, "template", "t", "", "document template (docx)")
	generateCmd.Flags().StringVarP(&generateFlags.output, "output", "o", "output", "output directory")
	generateCmd.Flags().StringVarP(&generateFlags.configFile, "config", "c", "", "generation settings (yaml)")
	generateCmd.Flags().StringVar(&generateFlags.detailWorkbook, "detail-workbook", "", "shared detail workbook (xlsx)")
	generateCmd.Flags().StringVar(&generateFlags.detailDir, "detail-dir", "", "directory of per-contract detail files")
	generateCmd.Flags().IntVar(&generateFlags.headerRow, "header-row", 1, "one-based header row of the contract sheet")
	generateCmd.MarkFlagRequired("excel")
	generateCmd.MarkFlagRequired("template")

	rootCmd.AddCommand(generateCmd)
}
