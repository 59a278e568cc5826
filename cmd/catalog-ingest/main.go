// Command catalog-ingest loads supplier price dumps into the items table.
// Dumps are gzip-compressed JSON lines files ({"id","price","currency"} per
// line), processed concurrently. Later files override earlier ones, so dumps
// should be passed oldest first.
package main

import (
	"bufio"
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/mkarpis/palette-pricing/internal/storage/postgres"
)

const (
	bloomCapacity = 10_000_000
	bloomFPR      = 0.001
	progressEvery = 1_000_000
	batchSize     = 1000
)

// item is one parsed dump line.
type item struct {
	id       string
	price    decimal.Decimal
	currency string
}

// fileResult holds the items parsed from one dump file in line order.
// Duplicate ids are resolved during the merge, not here.
type fileResult struct {
	items []item
}

func main() {
	var databaseURL string

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.Parse()

	files := flag.Args()
	if len(files) == 0 {
		slog.Error("no dump files given: pass one or more .gz paths")
		os.Exit(1)
	}

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, files, databaseURL); err != nil {
		slog.Error("catalog ingest failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("catalog ingest completed successfully")
}

func run(ctx context.Context, files []string, databaseURL string) error {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			return errors.Wrapf(err, "check file %s", f)
		}
	}

	slog.Info("parsing dump files", slog.Int("files", len(files)))

	results, err := parseFiles(ctx, files)
	if err != nil {
		return errors.Wrap(err, "parse dump files")
	}

	merged := mergeResults(results)
	slog.Info("merged items", slog.Int("count", len(merged)))

	if len(merged) == 0 {
		slog.Info("no items to upsert")
		return nil
	}

	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := writeItems(ctx, pool, merged); err != nil {
		return errors.Wrap(err, "write items to database")
	}

	return nil
}

// parseFiles parses every dump file concurrently.
func parseFiles(ctx context.Context, files []string) ([]fileResult, error) {
	results := make([]fileResult, len(files))

	g, ctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(parseFile(ctx, i, f, results))
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func parseFile(ctx context.Context, idx int, path string, results []fileResult) func() error {
	return func() error {
		var res fileResult
		var count uint64

		if err := streamGzFile(ctx, path, func(line []byte) error {
			it, err := parseLine(line)
			if err != nil {
				return errors.Wrapf(err, "line %d", count+1)
			}
			res.items = append(res.items, it)

			count++
			if count%progressEvery == 0 {
				slog.Info("parse progress",
					slog.Int("file", idx+1),
					slog.Uint64("lines", count),
				)
			}
			return nil
		}); err != nil {
			return errors.Wrapf(err, "parse file %s", path)
		}

		slog.Info("parse complete",
			slog.Int("file", idx+1),
			slog.Uint64("lines", count),
			slog.Int("items", len(res.items)),
		)

		results[idx] = res
		return nil
	}
}

// parseLine decodes a single {"id","price","currency"} dump line.
func parseLine(line []byte) (item, error) {
	var it item
	d := jx.DecodeBytes(line)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "id":
			v, err := d.Str()
			if err != nil {
				return err
			}
			it.id = v
		case "price":
			raw, err := d.Num()
			if err != nil {
				return err
			}
			v, err := decimal.NewFromString(raw.String())
			if err != nil {
				return err
			}
			it.price = v
		case "currency":
			v, err := d.Str()
			if err != nil {
				return err
			}
			it.currency = v
		default:
			return d.Skip()
		}
		return nil
	}); err != nil {
		return item{}, errors.Wrap(err, "decode")
	}

	if it.id == "" {
		return item{}, errors.New("missing id")
	}
	if it.currency == "" {
		return item{}, errors.Errorf("item %s: missing currency", it.id)
	}
	if it.price.IsNegative() {
		return item{}, errors.Errorf("item %s: negative price", it.id)
	}

	return it, nil
}

// mergeResults combines per-file results in argument order, later lines
// overriding earlier ones. A bloom filter over seen ids fast-paths the common
// case of a brand new id so the exact index is only consulted on probable
// duplicates.
func mergeResults(results []fileResult) []item {
	merged := make([]item, 0)
	index := make(map[string]int)
	seen := bloom.NewWithEstimates(bloomCapacity, bloomFPR)
	var overrides uint64

	for _, res := range results {
		for _, it := range res.items {
			if seen.TestString(it.id) {
				if pos, ok := index[it.id]; ok {
					merged[pos] = it
					overrides++
					continue
				}
			} else {
				seen.AddString(it.id)
			}
			index[it.id] = len(merged)
			merged = append(merged, it)
		}
	}

	if overrides > 0 {
		slog.Info("duplicate ids overridden", slog.Uint64("count", overrides))
	}

	return merged
}

const upsertItemSQL = `
INSERT INTO items (id, price, currency)
VALUES ($1, $2, $3)
ON CONFLICT (id) DO UPDATE SET price = EXCLUDED.price, currency = EXCLUDED.currency
`

// writeItems upserts all merged items in batches.
func writeItems(ctx context.Context, pool *pgxpool.Pool, items []item) error {
	slog.Info("writing items to database", slog.Int("count", len(items)))

	for start := 0; start < len(items); start += batchSize {
		end := min(start+batchSize, len(items))

		batch := &pgx.Batch{}
		for _, it := range items[start:end] {
			batch.Queue(upsertItemSQL, it.id, it.price, it.currency)
		}

		if err := pool.SendBatch(ctx, batch).Close(); err != nil {
			return errors.Wrapf(err, "upsert batch at %d", start)
		}

		slog.Info("write progress", slog.Int("written", end), slog.Int("total", len(items)))
	}

	return nil
}

// streamGzFile opens a gzip-compressed file and calls fn for each line.
func streamGzFile(ctx context.Context, path string, fn func(line []byte) error) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return errors.Wrapf(err, "create gzip reader for %s", path)
	}
	defer func() { _ = gz.Close() }()

	scanner := bufio.NewScanner(gz)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if err := fn(line); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "scan %s", path)
	}

	return nil
}
