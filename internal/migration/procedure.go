package migration

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"gymdesk/internal/db"
	"gymdesk/internal/metrics"
)

// Endpoint names one side of the migration.
type Endpoint struct {
	Driver string
	DSN    string
}

type Opener func(driver, dsn string) (*sqlx.DB, error)

type SchemaFunc func(conn *sqlx.DB, driver string) error

type Option func(*Procedure)

// WithForce replaces existing destination data instead of aborting.
func WithForce(force bool) Option {
	return func(p *Procedure) { p.force = force }
}

func WithOpener(open Opener) Option {
	return func(p *Procedure) { p.open = open }
}

func WithSchema(prepare SchemaFunc) Option {
	return func(p *Procedure) { p.prepareSchema = prepare }
}

func WithClock(now func() time.Time) Option {
	return func(p *Procedure) { p.now = now }
}

// Procedure copies every table from the source store into the destination
// store. It is single use: build a new one for each run.
type Procedure struct {
	source        Endpoint
	dest          Endpoint
	force         bool
	open          Opener
	prepareSchema SchemaFunc
	now           func() time.Time
	log           *slog.Logger

	phase  Phase
	report *Report
}

func New(source, dest Endpoint, log *slog.Logger, opts ...Option) *Procedure {
	if log == nil {
		log = slog.Default()
	}
	p := &Procedure{
		source:        source,
		dest:          dest,
		open:          db.Connect,
		prepareSchema: db.RunMigrations,
		now:           time.Now,
		log:           log,
		phase:         PhaseNotStarted,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Procedure) Phase() Phase {
	return p.phase
}

// Run executes the procedure. The report is always returned; the error is
// nil for Completed runs, including the nothing-to-migrate case.
func (p *Procedure) Run(ctx context.Context) (*Report, error) {
	started := p.now()
	p.report = &Report{Forced: p.force, StartedAt: started}
	defer func() {
		p.report.Phase = p.phase
		p.report.Duration = p.now().Sub(started)
	}()

	p.enter(PhaseConnectingSource)
	srcDialect, err := db.DialectFor(p.source.Driver)
	if err != nil {
		return p.report, p.fail(ErrConnectivity, err)
	}
	src, err := p.openSource()
	if err != nil {
		p.log.Info("no source database, nothing to migrate", "dsn", p.source.DSN, "reason", err)
		p.report.NothingToMigrate = true
		p.enter(PhaseCompleted)
		return p.report, nil
	}
	defer src.Close()

	p.enter(PhaseConnectingDestination)
	dst, err := p.open(p.dest.Driver, p.dest.DSN)
	if err != nil {
		return p.report, p.fail(ErrConnectivity, err)
	}
	defer dst.Close()

	dstDialect, err := db.DialectFor(p.dest.Driver)
	if err != nil {
		return p.report, p.fail(ErrConnectivity, err)
	}

	p.enter(PhasePreparingSchema)
	if err := p.prepareSchema(dst, p.dest.Driver); err != nil {
		return p.report, p.fail(ErrSchema, err)
	}

	p.enter(PhaseCheckingExistingData)
	nonEmpty, err := probe(ctx, dst, dstDialect)
	if err != nil {
		return p.report, p.fail(ErrMigration, err)
	}
	p.report.NonEmptyTables = nonEmpty
	if len(nonEmpty) > 0 && !p.force {
		p.enter(PhaseAborted)
		err := fmt.Errorf("%w: %s already hold rows", ErrDestinationNotEmpty, strings.Join(nonEmpty, ", "))
		p.report.Error = err.Error()
		p.log.Warn("destination is not empty, aborting", "tables", nonEmpty)
		return p.report, err
	}

	if err := p.transfer(ctx, src, srcDialect, dst, dstDialect, p.force); err != nil {
		return p.report, p.fail(ErrMigration, err)
	}

	p.enter(PhaseVerifyingIntegrity)
	p.verify(ctx, src, srcDialect, dst, dstDialect)

	p.enter(PhaseCompleted)
	p.log.Info("migration completed", "rows", p.report.Total, "warnings", len(p.report.Warnings))
	return p.report, nil
}

// openSource reports ErrSourceUnavailable when there is no source store to
// read. Opening a missing SQLite file would otherwise create an empty one.
// An unknown driver is rejected before this in Run.
func (p *Procedure) openSource() (*sqlx.DB, error) {
	if p.source.Driver == db.DriverSQLite {
		path := sqlitePath(p.source.DSN)
		if path != ":memory:" {
			if _, err := os.Stat(path); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
			}
		}
	}

	conn, err := p.open(p.source.Driver, p.source.DSN)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	return conn, nil
}

// transfer copies every table in one destination transaction. A forced run
// empties every table first, including ones outside the probe set that an
// earlier failed or partial run may have filled.
func (p *Procedure) transfer(ctx context.Context, src *sqlx.DB, srcDialect db.Dialect, dst *sqlx.DB, dstDialect db.Dialect, truncate bool) error {
	tx, err := dst.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if truncate {
		p.enter(PhaseTruncating)
		if err := truncateAll(ctx, tx, dstDialect); err != nil {
			return fmt.Errorf("truncate: %w", err)
		}
	}

	p.enter(PhaseMigratingTables)
	counts := make([]TableCount, 0, len(Tables))
	var total int64
	for _, table := range Tables {
		n, err := copyTable(ctx, src, srcDialect, tx, dstDialect, table)
		if err != nil {
			return fmt.Errorf("table %s: %w", table, err)
		}
		p.log.Info("table migrated", "table", table, "rows", n)
		counts = append(counts, TableCount{Table: table, Rows: n})
		total += n
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	p.report.Tables = counts
	p.report.Total = total
	for _, c := range counts {
		metrics.RecordMigratedRows(c.Table, c.Rows)
	}
	return nil
}

func (p *Procedure) verify(ctx context.Context, src *sqlx.DB, srcDialect db.Dialect, dst *sqlx.DB, dstDialect db.Dialect) {
	for _, table := range verifyTables {
		srcCount, err := countRows(ctx, src, srcDialect, table)
		if err != nil {
			p.warn(fmt.Sprintf("could not count source %s: %v", table, err))
			continue
		}
		dstCount, err := countRows(ctx, dst, dstDialect, table)
		if err != nil {
			p.warn(fmt.Sprintf("could not count destination %s: %v", table, err))
			continue
		}

		check := Check{Table: table, Source: srcCount, Destination: dstCount}
		p.report.Checks = append(p.report.Checks, check)
		if !check.OK() {
			p.warn(fmt.Sprintf("%s: source has %d rows, destination has %d", table, srcCount, dstCount))
		}
	}
}

func (p *Procedure) enter(phase Phase) {
	p.phase = phase
	p.log.Debug("migration phase", "phase", string(phase))
}

func (p *Procedure) warn(msg string) {
	p.report.Warnings = append(p.report.Warnings, msg)
	p.log.Warn("integrity check", "detail", msg)
}

func (p *Procedure) fail(kind, err error) error {
	failedIn := p.phase
	p.enter(PhaseFailed)
	wrapped := fmt.Errorf("%w during %s: %w", kind, failedIn, err)
	p.report.Error = wrapped.Error()
	p.log.Error("migration failed", "phase", string(failedIn), "error", err)
	return wrapped
}

func sqlitePath(dsn string) string {
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	return path
}
