// internal/app/locker/importer.go
package locker

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	employeestore "github.com/plantdesk/plantdesk/internal/app/store/employees"
	"github.com/plantdesk/plantdesk/internal/app/system/importutil"
	"github.com/plantdesk/plantdesk/internal/app/system/matching"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// importWorkers bounds the concurrent per-row assigns of one batch.
const importWorkers = 8

// ImportFailure records one row that could not be applied.
type ImportFailure struct {
	Line         int    `json:"line"`
	EmployeeCode string `json:"employee_code,omitempty"`
	EmployeeName string `json:"employee_name,omitempty"`
	Reason       string `json:"reason"`
}

// ImportReport summarizes one bulk import batch.
type ImportReport struct {
	BatchID      string               `json:"batch_id"`
	Total        int                  `json:"total"`
	Succeeded    int                  `json:"succeeded"`
	SyncWarnings int                  `json:"sync_warnings"`
	Failures     []ImportFailure      `json:"failures,omitempty"`
	RowErrors    []importutil.RowError `json:"row_errors,omitempty"`
}

// Importer applies a batch of locker import rows: each row is resolved to
// an employee and handed to the Writer, with failures collected into the
// report instead of aborting the batch.
type Importer struct {
	employees *employeestore.Store
	writer    *Writer
	log       *zap.Logger
}

// NewImporter constructs an Importer sharing the given Writer.
func NewImporter(db *mongo.Database, writer *Writer, logger *zap.Logger) *Importer {
	return &Importer{
		employees: employeestore.New(db),
		writer:    writer,
		log:       logger,
	}
}

// Run applies the rows. Rows execute concurrently with no ordering
// guarantee between them; two rows targeting the same locker may both
// land and then surface as a duplicate cluster in the next audit pass.
func (i *Importer) Run(ctx context.Context, rows []importutil.LockerRow, rowErrs []importutil.RowError, reason string) ImportReport {
	report := ImportReport{
		BatchID:   uuid.NewString(),
		Total:     len(rows) + len(rowErrs),
		RowErrors: rowErrs,
	}

	all, err := i.employees.List(ctx)
	if err != nil {
		i.log.Error("import aborted: employee list failed", zap.Error(err))
		for _, row := range rows {
			report.Failures = append(report.Failures, ImportFailure{
				Line: row.Line, EmployeeCode: row.EmployeeCode, EmployeeName: row.EmployeeName,
				Reason: "employee directory unavailable",
			})
		}
		return report
	}
	resolver := matching.NewResolver(all)

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, importWorkers)
	)

	for _, row := range rows {
		wg.Add(1)
		sem <- struct{}{}
		go func(row importutil.LockerRow) {
			defer wg.Done()
			defer func() { <-sem }()

			failure, warned := i.applyRow(ctx, resolver, row, reason)
			mu.Lock()
			if failure == nil {
				report.Succeeded++
			} else {
				report.Failures = append(report.Failures, *failure)
			}
			if warned {
				report.SyncWarnings++
			}
			mu.Unlock()
		}(row)
	}
	wg.Wait()

	i.log.Info("locker import finished",
		zap.String("batch_id", report.BatchID),
		zap.Int("total", report.Total),
		zap.Int("succeeded", report.Succeeded),
		zap.Int("failed", len(report.Failures)+len(report.RowErrors)))
	return report
}

func (i *Importer) applyRow(ctx context.Context, resolver *matching.Resolver, row importutil.LockerRow, reason string) (failure *ImportFailure, warned bool) {
	fail := func(why string) *ImportFailure {
		return &ImportFailure{
			Line:         row.Line,
			EmployeeCode: row.EmployeeCode,
			EmployeeName: row.EmployeeName,
			Reason:       why,
		}
	}

	emp, err := resolver.Resolve(row.EmployeeCode, row.EmployeeName)
	if err != nil {
		return fail(err.Error()), false
	}

	_, warn, err := i.writer.Assign(ctx, emp.ID, row.Room, row.Identifier, reason)
	if err != nil {
		var dup *DuplicateError
		switch {
		case errors.As(err, &dup):
			return fail("locker " + dup.Identifier + " already assigned to employee " + dup.Holder.Hex()), false
		case errors.Is(err, ErrInvalidIdentifier):
			return fail("identifier not in room configuration"), false
		case errors.Is(err, ErrUnknownRoom):
			return fail("unknown room " + row.Room), false
		default:
			return fail(err.Error()), false
		}
	}
	return nil, warn != nil
}
