package generator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"

	"github.com/taotao21503/contract-generator/internal/detail"
	"github.com/taotao21503/contract-generator/internal/docx"
	"github.com/taotao21503/contract-generator/internal/path"
	"github.com/taotao21503/contract-generator/internal/xlsx"
)

type records interface {
	Records(path string, headerRow int) ([]xlsx.Record, error)
}

type substituter interface {
	SubstituteDocument(t *docx.Template, rec xlsx.Record)
}

type locator interface {
	Locate(rec xlsx.Record) (detail.Source, error)
	Rows(src detail.Source) ([][]string, error)
}

type renderer interface {
	Append(t *docx.Template, rows [][]string, title string)
}

var filenameFallbacks = map[string]string{
	"合同号":  "未知合同号",
	"客户名称": "未知客户",
	"BU名称": "未知BU",
}

type service struct {
	records     records
	substituter substituter
	locator     locator
	renderer    renderer

	filenameFields []string
	detailTitle    string

	logger log.Logger
}

func NewService(
	records records,
	substituter substituter,
	locator locator,
	renderer renderer,

	filenameFields []string,
	detailTitle string,

	logger log.Logger,
) Service {
	if len(filenameFields) == 0 {
		filenameFields = []string{"合同号", "客户名称", "BU名称"}
	}
	return &service{
		records:     records,
		substituter: substituter,
		locator:     locator,
		renderer:    renderer,

		filenameFields: filenameFields,
		detailTitle:    detailTitle,

		logger: logger,
	}
}

// Generate runs the batch: one document per data row. A failing record is
// counted and logged, the batch moves on.
func (s *service) Generate(ctx context.Context, req Request) (res Result, err error) {
	logger := log.WithPrefix(s.logger, "method", "Generate", "excel", req.Excel)

	if _, err = os.Stat(req.Template); err != nil {
		level.Error(logger).Log("msg", "template", "err", err)
		err = fmt.Errorf("template %s: %w", req.Template, err)
		return
	}

	recs, err := s.records.Records(req.Excel, req.HeaderRow)
	if err != nil {
		level.Error(logger).Log("msg", "read records", "err", err)
		return
	}
	if len(recs) == 0 {
		level.Error(logger).Log("msg", "no data rows")
		err = ErrNoData
		return
	}

	if err = os.MkdirAll(req.OutputDir, 0o755); err != nil {
		level.Error(logger).Log("msg", "output dir", "err", err)
		return
	}

	for i, rec := range recs {
		if ctx.Err() != nil {
			err = ctx.Err()
			return
		}
		res.Processed++
		if genErr := s.generateOne(logger, req, rec); genErr != nil {
			res.Failed++
			res.Errors = append(res.Errors, fmt.Sprintf("record %d: %v", i+1, genErr))
			level.Error(logger).Log("msg", "generate document", "record", i+1, "err", genErr)
			continue
		}
		res.Succeeded++
	}
	return
}

func (s *service) generateOne(logger log.Logger, req Request, rec xlsx.Record) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	tpl, err := docx.Open(req.Template)
	if err != nil {
		return fmt.Errorf("open template: %w", err)
	}

	s.substituter.SubstituteDocument(tpl, rec)

	src, err := s.locator.Locate(rec)
	if err != nil {
		level.Warn(logger).Log("msg", "detail lookup", "err", err)
		err = nil
	} else if src.Kind != detail.SourceNotFound {
		var rows [][]string
		if rows, err = s.locator.Rows(src); err != nil {
			level.Warn(logger).Log("msg", "detail rows", "source", src.Path, "err", err)
			err = nil
		} else {
			s.renderer.Append(tpl, rows, s.detailTitle)
		}
	}

	out := filepath.Join(req.OutputDir, path.Sanitize(s.filename(rec)))
	if err = tpl.Save(out); err != nil {
		return fmt.Errorf("save %s: %w", out, err)
	}
	return
}

func (s *service) filename(rec xlsx.Record) string {
	parts := make([]string, 0, len(s.filenameFields))
	for _, field := range s.filenameFields {
		value := strings.TrimSpace(rec[field])
		if value == "" {
			if fallback, ok := filenameFallbacks[field]; ok {
				value = fallback
			} else {
				value = "未知" + field
			}
		}
		parts = append(parts, value)
	}
	return strings.Join(parts, "-") + ".docx"
}
