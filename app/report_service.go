package app

import (
	"context"
	stderrors "errors"
	"fmt"

	"jailreport/adapters/excel"
	"jailreport/domain/core"
	"jailreport/domain/run"
	"jailreport/internal"
	"jailreport/internal/cleaning"
	"jailreport/internal/errors"

	"golang.org/x/sync/errgroup"
)

// ReportService cleans report files end to end: load, clean, write
type ReportService struct {
	reader      *excel.DataReader
	writer      *excel.CSVWriter
	pipeline    *cleaning.Pipeline
	logger      *internal.Logger
	parallelism int
}

// NewReportService wires the service. parallelism below 1 means sequential.
func NewReportService(reader *excel.DataReader, writer *excel.CSVWriter, pipeline *cleaning.Pipeline, logger *internal.Logger, parallelism int) *ReportService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if parallelism < 1 {
		parallelism = 1
	}
	return &ReportService{
		reader:      reader,
		writer:      writer,
		pipeline:    pipeline,
		logger:      logger,
		parallelism: parallelism,
	}
}

// CleanFile loads and cleans one file without writing output
func (s *ReportService) CleanFile(path string) (*cleaning.Result, error) {
	t, err := s.reader.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ReadError(path, err), "processing %s", path)
	}

	result, err := s.pipeline.Run(t)
	if err != nil {
		return nil, errors.Wrapf(errors.WithCode(codeFor(err), err), "processing %s", path)
	}
	return result, nil
}

// ProcessFile cleans path and writes processed_<basename>.csv. The returned
// FileResult is filled in on failure too.
func (s *ReportService) ProcessFile(path string) (*run.FileResult, error) {
	res := &run.FileResult{Input: path}
	fail := func(err error) (*run.FileResult, error) {
		res.Status = run.StatusFailed
		res.ErrorCode = errors.GetCode(err)
		res.Error = err.Error()
		var stageErr *cleaning.StageError
		if stderrors.As(err, &stageErr) {
			res.Stage = string(stageErr.Stage)
		}
		res.FinishedAt = core.Now()
		return res, err
	}

	result, err := s.CleanFile(path)
	if err != nil {
		return fail(err)
	}

	outPath, data, err := s.writer.Write(path, result.Table)
	if err != nil {
		return fail(errors.Wrapf(errors.WriteError(excel.OutputName(path), err), "processing %s", path))
	}

	res.Status = run.StatusProcessed
	res.Output = outPath
	res.Rows = result.Table.Rows()
	res.Columns = result.Table.Names()
	res.Fingerprint = core.NewHash(data)
	res.FinishedAt = core.Now()
	s.logger.Info("Wrote %s (%d rows, %d columns)", outPath, res.Rows, len(res.Columns))
	return res, nil
}

// ProcessAll processes every path. A failing file is logged and recorded in
// the manifest but does not stop the others. The returned error is only set
// when there is nothing to process or ctx is cancelled.
func (s *ReportService) ProcessAll(ctx context.Context, paths []string) (*run.Manifest, error) {
	if len(paths) == 0 {
		return nil, errors.InvalidInput("no input files")
	}
	manifest := run.NewManifest()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelism)
	for _, path := range paths {
		if gctx.Err() != nil {
			break
		}
		path := path
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			res, err := s.ProcessFile(path)
			if err != nil {
				s.logger.Error("%v", err)
			}
			manifest.Add(res)
			return nil
		})
	}

	err := g.Wait()
	manifest.Sort()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		return manifest, fmt.Errorf("batch interrupted: %w", err)
	}
	return manifest, nil
}

// codeFor maps pipeline failures onto application error codes
func codeFor(err error) string {
	switch {
	case stderrors.Is(err, core.ErrMissingColumn):
		return errors.CodeMissingColumn
	case stderrors.Is(err, core.ErrDuplicateColumn):
		return errors.CodeDuplicateColumn
	case stderrors.Is(err, core.ErrParse):
		return errors.CodeParseError
	case stderrors.Is(err, core.ErrUnrecognizedJurisdiction):
		return errors.CodeUnrecognizedJurisdiction
	default:
		return errors.CodeInternalError
	}
}
