package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/JonMunkholm/datamine/internal/export"
	"github.com/JonMunkholm/datamine/internal/fetch"
	"github.com/JonMunkholm/datamine/internal/sheet"
	"github.com/JonMunkholm/datamine/internal/table"
	"github.com/JonMunkholm/datamine/internal/web"
)

var errUsage = errors.New("usage")

// stdout is swapped in tests.
var stdout io.Writer = os.Stdout

func newFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	return nil
}

// kvFlag collects repeated key=value flags.
type kvFlag map[string]string

func (f kvFlag) String() string {
	parts := make([]string, 0, len(f))
	for k, v := range f {
		parts = append(parts, k+"="+v)
	}
	return strings.Join(parts, ",")
}

func (f kvFlag) Set(s string) error {
	k, v, ok := strings.Cut(s, "=")
	if !ok || k == "" {
		return fmt.Errorf("expected key=value, got %q", s)
	}
	f[k] = v
	return nil
}

func writeJSON(v any) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runRead(ctx context.Context, a *app, args []string) error {
	fs := newFlags("read")
	asJSON := fs.Bool("json", false, "print a JSON summary instead of the normalized CSV")
	if err := parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errUsage
	}

	res, err := a.service.Read(ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	if *asJSON {
		return writeJSON(map[string]any{
			"path":     res.Path,
			"encoding": res.Encoding,
			"columns":  res.Table.Columns,
			"rows":     res.Table.Len(),
		})
	}
	return table.WriteCSV(stdout, res.Table)
}

func runMerge(ctx context.Context, a *app, args []string) error {
	fs := newFlags("merge")
	dir := fs.String("dir", ".", "directory holding the exports")
	suffix := fs.String("suffix", a.cfg.Merge.Suffix, "merge files named *<suffix>.csv")
	out := fs.String("out", "", "output path (default <dir>/merged.csv)")
	if err := parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 0 {
		return errUsage
	}
	if *out == "" {
		*out = filepath.Join(*dir, "merged.csv")
	}

	res, err := a.service.Merge(ctx, *dir, *suffix, *out)
	if err != nil {
		return err
	}
	return writeJSON(res)
}

func runSheet(ctx context.Context, a *app, args []string) error {
	fs := newFlags("sheet")
	ref := fs.String("sheet", "0", "sheet name or zero-based index")
	out := fs.String("out", "", "write CSV here instead of stdout")
	if err := parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errUsage
	}

	t, err := sheet.Read(fs.Arg(0), sheet.ParseRef(*ref), a.logger)
	if err != nil {
		return err
	}
	if *out == "" {
		return table.WriteCSV(stdout, t)
	}

	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	if err := table.WriteCSV(f, t); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func runFetch(ctx context.Context, a *app, args []string) error {
	fs := newFlags("fetch")
	params := kvFlag{}
	headers := kvFlag{}
	fs.Var(params, "param", "query parameter key=value (repeatable)")
	fs.Var(headers, "header", "request header key=value (repeatable)")
	if err := parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errUsage
	}

	client := fetch.New(a.cfg.Fetch.Timeout, a.cfg.Fetch.UserAgent, a.logger)
	return writeJSON(client.JSON(ctx, fs.Arg(0), params, headers))
}

func runExport(ctx context.Context, a *app, args []string) error {
	fs := newFlags("export")
	in := fs.String("in", "", "CSV file to load")
	name := fs.String("table", "", "destination table name")
	sinkName := fs.String("sink", "sqlite", "sqlite or postgres")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *in == "" || *name == "" || fs.NArg() != 0 {
		return errUsage
	}

	res, err := a.service.Read(ctx, *in)
	if err != nil {
		return err
	}

	var sink export.Sink
	switch *sinkName {
	case "sqlite":
		db, err := export.OpenSQLite(a.cfg.Export.SQLitePath)
		if err != nil {
			return err
		}
		defer db.Close()
		sink = &export.SQLiteSink{DB: db, BatchSize: a.cfg.Export.BatchSize}
	case "postgres":
		pool, err := export.ConnectPostgres(ctx, a.cfg.Export.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()
		sink = &export.PostgresSink{Pool: pool}
	default:
		return errUsage
	}

	start := time.Now()
	n, err := sink.Write(ctx, *name, res.Table)
	if err != nil {
		return err
	}
	a.logger.Info("exported table",
		"in", *in,
		"table", export.Identifier(*name),
		"sink", *sinkName,
		"rows", n,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func runServe(ctx context.Context, a *app, args []string) error {
	if len(args) != 0 {
		return errUsage
	}

	server, err := web.NewServer(a.service, a.cfg.Server)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("shutdown error", "error", err)
		return err
	}
	a.logger.Info("server stopped")
	return nil
}
