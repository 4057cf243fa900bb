package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"distritoeldorado/internal/model"
	"distritoeldorado/internal/parser"
	"distritoeldorado/internal/service/filter"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}

func setupFiles(t *testing.T) (pending, resolved string) {
	t.Helper()
	t.Setenv("ELDORADO_CONFIG", filepath.Join(t.TempDir(), "absent.toml"))
	t.Setenv("ELDORADO_SHEET_ID", "")
	t.Setenv("ELDORADO_RELOAD_SCHEDULE", "")

	dir := t.TempDir()
	pending = writeFile(t, dir, "pendentes.csv",
		"Status,Unidade Solicitante,Data Início da Pendência,Usuário\n"+
			"Aberto,UBS Eldorado,05/01/2024,maria\n"+
			"Aberto,UBS Jardim,01/12/2023,joão\n"+
			"Em análise,UBS Eldorado,10/01/2024,\n")
	resolved = writeFile(t, dir, "resolvidos.csv",
		"Status,Unidade Solicitante\n"+
			"Resolvido,UBS Eldorado\n"+
			"Resolvido,UBS Jardim\n")
	return pending, resolved
}

func TestRun_FiltersAndMetrics(t *testing.T) {
	pending, resolved := setupFiles(t)

	var out bytes.Buffer
	err := run(context.Background(), []string{
		"-file", "PENDÊNCIAS ELDORADO=" + pending,
		"-file", "RESOLVIDOS ELDORADO=" + resolved,
		"-status", "Aberto",
		"-as-of", "2024-01-20",
	}, &out)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}

	text := out.String()
	for _, want := range []string{"40.0%", "Mostrando 2 de 2 registros", "UBS Jardim"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
}

func TestRun_SearchAndExport(t *testing.T) {
	pending, resolved := setupFiles(t)
	outDir := t.TempDir()

	var out bytes.Buffer
	err := run(context.Background(), []string{
		"-file", "PENDÊNCIAS ELDORADO=" + pending,
		"-file", "RESOLVIDOS ELDORADO=" + resolved,
		"-search", "jardim",
		"-xlsx", outDir,
		"-as-of", "2024-01-20",
	}, &out)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	if !strings.Contains(out.String(), "Mostrando 2 de 5 registros") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}

	path := filepath.Join(outDir, "Dados_Eldorado_2024-01-20.xlsx")
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open export: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows("Dados Completos")
	if err != nil {
		t.Fatalf("get rows: %v", err)
	}
	// 搜索不影响导出
	if len(rows) != 6 {
		t.Fatalf("expected header + 5 rows, got %d", len(rows))
	}
}

func TestRun_BadFlags(t *testing.T) {
	setupFiles(t)
	if err := run(context.Background(), []string{"-file", "sem-igual"}, &bytes.Buffer{}); err == nil {
		t.Fatalf("expected error for malformed -file")
	}
	if err := run(context.Background(), []string{"-as-of", "20/01/2024"}, &bytes.Buffer{}); err == nil {
		t.Fatalf("expected error for malformed -as-of")
	}
}

func TestLocalSources(t *testing.T) {
	configured := []model.Source{{Name: "ABA X", Kind: model.SourceKindResolved}}
	got := localSources([]string{"ABA X=/tmp/a.csv", "RESOLVIDOS=/tmp/b.csv", "OUTRA=/tmp/c.csv"}, configured)
	if len(got) != 3 {
		t.Fatalf("expected 3 sources, got %d", len(got))
	}
	if got[0].Kind != model.SourceKindResolved || got[1].Kind != model.SourceKindResolved || got[2].Kind != model.SourceKindPending {
		t.Fatalf("unexpected kinds: %+v", got)
	}
	if got[0].URL != "file:///tmp/a.csv" {
		t.Fatalf("unexpected url: %s", got[0].URL)
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" Aberto, ,Em análise ")
	if len(got) != 2 || got[0] != "Aberto" || got[1] != "Em análise" {
		t.Fatalf("unexpected: %v", got)
	}
}

func TestRenderRecords_FooterCountsActiveView(t *testing.T) {
	records := make([]*model.Record, 0, 3)
	for _, unit := range []string{"UBS Eldorado", "UBS Jardim", "UBS Centro"} {
		records = append(records, model.NewRecord("PENDÊNCIAS", map[string]string{"Unidade Solicitante": unit}))
	}
	engine := filter.NewEngine(parser.DefaultFieldMapper())

	tests := []struct {
		name  string
		limit int
		want  string
	}{
		{"all shown", 0, "Mostrando 3 de 7 registros"},
		{"limited", 2, "Mostrando 2 de 7 registros"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			if err := renderRecords(&out, engine, records, 7, tt.limit); err != nil {
				t.Fatalf("renderRecords error: %v", err)
			}
			if !strings.Contains(out.String(), tt.want) {
				t.Fatalf("footer missing %q:\n%s", tt.want, out.String())
			}
		})
	}
}
