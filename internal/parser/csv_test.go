package parser

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseCSV_QuotedFields(t *testing.T) {
	t.Parallel()

	text := "Nome,Obs\r\n\"Silva, Ana\",\"disse \"\"oi\"\"\"\n\"linha1\nlinha2\",x"
	got := ParseCSV(text)
	want := [][]string{
		{"Nome", "Obs"},
		{"Silva, Ana", `disse "oi"`},
		{"linha1\nlinha2", "x"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("want=%q got=%q", want, got)
	}
}

func TestParseCSV_TrimsAndSkipsBlankLines(t *testing.T) {
	t.Parallel()

	got := ParseCSV("  a , b \n\n\r\nc,d")
	want := [][]string{{"a", "b"}, {"c", "d"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("want=%q got=%q", want, got)
	}
}

func TestParseCSV_CRLFIsSingleTerminator(t *testing.T) {
	t.Parallel()

	got := ParseCSV("a,b\r\nc,d\r\n")
	if len(got) != 2 {
		t.Fatalf("unexpected rows: %q", got)
	}
}

func TestParseCSV_UnterminatedQuoteClosesAtEOF(t *testing.T) {
	t.Parallel()

	got := ParseCSV("a,\"b,c\nd")
	want := [][]string{{"a", "b,c\nd"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("want=%q got=%q", want, got)
	}
}

func TestParseCSV_RaggedRows(t *testing.T) {
	t.Parallel()

	got := ParseCSV("a,b,c\n1\n1,2,3,4")
	if len(got[1]) != 1 || len(got[2]) != 4 {
		t.Fatalf("ragged rows should pass through: %q", got)
	}
}

func TestParseCSV_RoundTrip(t *testing.T) {
	t.Parallel()

	rows := [][]string{
		{"simples", "com, vírgula", `com "aspas"`},
		{"quebra\nde linha", "crlf\r\ndentro", `""`},
		{"Início", "", "fim"},
	}

	var lines []string
	for _, r := range rows {
		lines = append(lines, FormatRow(r))
	}
	got := ParseCSV(strings.Join(lines, "\r\n"))
	if !reflect.DeepEqual(got, rows) {
		t.Fatalf("round trip mismatch\nwant=%q\n got=%q", rows, got)
	}
}
