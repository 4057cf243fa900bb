package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"distritoeldorado/internal/config"
	"distritoeldorado/internal/formatter"
	"distritoeldorado/internal/importer"
	"distritoeldorado/internal/model"
	"distritoeldorado/internal/parser"
	"distritoeldorado/internal/service/calculator"
	"distritoeldorado/internal/service/excel"
	"distritoeldorado/internal/service/filter"
	"distritoeldorado/internal/service/store"
)

// fileFlags -file name=path，可重复
type fileFlags []string

func (f *fileFlags) String() string { return strings.Join(*f, ",") }

func (f *fileFlags) Set(v string) error {
	if !strings.Contains(v, "=") {
		return fmt.Errorf("formato esperado nome=caminho: %q", v)
	}
	*f = append(*f, v)
	return nil
}

type options struct {
	configPath string
	files      fileFlags
	facets     map[model.Facet]*string
	search     string
	xlsxPath   string
	asOf       string
	limit      int
}

func main() {
	log.SetOutput(os.Stderr)
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func parseFlags(args []string) (*options, error) {
	opts := &options{facets: make(map[model.Facet]*string)}
	fs := flag.NewFlagSet("eldorado-report", flag.ContinueOnError)
	fs.StringVar(&opts.configPath, "config", "", "caminho do config.toml")
	fs.Var(&opts.files, "file", "aba local em CSV: nome=caminho (repetível; substitui as abas configuradas)")
	for _, facet := range model.Facets() {
		opts.facets[facet] = fs.String(string(facet), "", "filtro "+string(facet)+" (valores separados por vírgula)")
	}
	fs.StringVar(&opts.search, "search", "", "busca na tabela (não altera indicadores nem exportação)")
	fs.StringVar(&opts.xlsxPath, "xlsx", "", "exporta a visão filtrada para este arquivo .xlsx (diretório gera nome padrão)")
	fs.StringVar(&opts.asOf, "as-of", "", "data de referência YYYY-MM-DD para o envelhecimento")
	fs.IntVar(&opts.limit, "limit", 50, "máximo de linhas impressas (0 = todas)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return opts, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// localSources 将 -file 参数转换为来源；类型沿用同名配置，否则按名称推断
func localSources(files []string, configured []model.Source) []model.Source {
	kinds := make(map[string]model.SourceKind, len(configured))
	for _, s := range configured {
		kinds[s.Name] = s.Kind
	}

	out := make([]model.Source, 0, len(files))
	for _, f := range files {
		name, path, _ := strings.Cut(f, "=")
		kind, ok := kinds[name]
		if !ok {
			kind = model.SourceKindPending
			if strings.Contains(strings.ToUpper(name), "RESOLVID") {
				kind = model.SourceKindResolved
			}
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		out = append(out, model.Source{Name: name, URL: "file://" + abs, Kind: kind})
	}
	return out
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	cfg, _, err := config.LoadConfigWithInfo(opts.configPath)
	if err != nil {
		return fmt.Errorf("configuração: %w", err)
	}

	now := time.Now
	if opts.asOf != "" {
		asOf, err := parser.ParseISODate(opts.asOf)
		if err != nil {
			return fmt.Errorf("-as-of inválido: %w", err)
		}
		now = func() time.Time { return asOf }
	}

	mapper, err := parser.LoadFieldMapper(cfg.Fields.AliasesPath)
	if err != nil {
		return fmt.Errorf("tabela de aliases: %w", err)
	}

	sources := cfg.ModelSources()
	if len(opts.files) > 0 {
		sources = localSources(opts.files, sources)
	}

	engine := filter.NewEngine(mapper)
	st := store.NewMemoryStore(engine)
	coordinator := importer.NewCoordinator(st, sources, importer.Options{
		Timeout:   cfg.Timeout(),
		UserAgent: cfg.Fetch.UserAgent,
		Now:       now,
	})
	if _, err := coordinator.Reload(ctx); err != nil {
		return errors.New(importer.LoadMessage(err))
	}

	for _, facet := range model.Facets() {
		if values := splitList(*opts.facets[facet]); len(values) > 0 {
			st.SetFacet(facet, values)
		}
	}

	view := st.Snapshot()
	calc := calculator.NewEngine(mapper, calculator.WithClock(now))
	metrics := calc.Calculate(len(view.Dataset), view.Active)

	if err := formatter.RenderMetrics(stdout, metrics); err != nil {
		return err
	}
	fmt.Fprintln(stdout)
	if err := formatter.RenderBuckets(stdout, "Pendências por unidade", calc.PendingBy(view.Active, model.FieldRequestingUnit)); err != nil {
		return err
	}
	fmt.Fprintln(stdout)

	shown := engine.Search(view.Active, opts.search)
	if err := renderRecords(stdout, engine, shown, len(view.Active), opts.limit); err != nil {
		return err
	}

	if opts.xlsxPath != "" {
		exporter := excel.NewExporter(mapper, cfg.Export.SheetName, cfg.Export.FilePrefix)
		path := opts.xlsxPath
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			path = filepath.Join(path, exporter.FileName(now()))
		}
		if err := writeWorkbook(exporter, path, view.Active, &metrics); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "\nExportado: %s (%d registros)\n", path, len(view.Active))
	}
	return nil
}

// renderRecords 打印搜索结果；页脚为显示条数 / 当前视图总数
func renderRecords(w io.Writer, engine *filter.Engine, records []*model.Record, total, limit int) error {
	columns := filter.Columns()
	headers := make([]string, len(columns))
	for i, col := range columns {
		headers[i] = col.Title
	}

	shown := records
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}
	rows := make([][]string, 0, len(shown))
	for _, rec := range shown {
		rows = append(rows, engine.DisplayRow(rec))
	}

	if err := (formatter.Table{Headers: headers, Rows: rows}).Render(w); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Mostrando %d de %d registros\n", len(shown), total)
	return err
}

func writeWorkbook(exporter *excel.Exporter, path string, records []*model.Record, metrics *model.Metrics) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := exporter.WriteTo(f, records, metrics); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("erro ao exportar: %w", err)
	}
	return f.Close()
}
