// seed_catalog genera el script SQL que carga el catálogo inicial de productos (con su fila de stock en 0)
// a partir de un CSV separado por ';' exportado de la hoja de cálculo del almacén.
//
// Uso: go run ./cmd/seed_catalog [ruta/catalogo.csv]
// Por defecto busca catalogo.csv en el directorio actual. Acepta UTF-8 o ISO-8859-1.
// Columnas: product_name;unit;import_price;export_price;minimum
// Escribe: internal/infrastructure/postgres/migrations/002_seed_catalog.sql
package main

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// catalogNamespace espacio de nombres de los UUID deterministas: volver a generar el script no duplica productos.
var catalogNamespace = uuid.MustParse("6f1c3f7e-2b1a-4f0e-9a57-3c1d0b8e4a21")

type catalogRow struct {
	ID          uuid.UUID
	StockID     uuid.UUID
	Name        string
	Unit        string
	ImportPrice decimal.Decimal
	ExportPrice decimal.Decimal
	Minimum     int64
}

func main() {
	csvPath := "catalogo.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	data, err := os.ReadFile(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}

	rows, err := parseCatalog(decodeReader(data))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	outPath := filepath.Join(findModuleRoot(), "internal", "infrastructure", "postgres", "migrations", "002_seed_catalog.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := writeSQL(out, rows); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d productos\n", outPath, len(rows))
}

// decodeReader devuelve el contenido tal cual si es UTF-8 válido; si no, lo decodifica como ISO-8859-1.
func decodeReader(data []byte) io.Reader {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if utf8.Valid(data) {
		return bytes.NewReader(data)
	}
	return transform.NewReader(bytes.NewReader(data), charmap.ISO8859_1.NewDecoder())
}

// parseCatalog lee el CSV; la primera fila es la cabecera. Los nombres repetidos (sin distinguir mayúsculas) se ignoran.
func parseCatalog(r io.Reader) ([]catalogRow, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = 5

	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("CSV vacío")
		}
		return nil, fmt.Errorf("cabecera: %w", err)
	}

	var rows []catalogRow
	seen := make(map[string]bool)
	for line := 2; ; line++ {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		row, err := parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		key := strings.ToLower(row.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRow(rec []string) (catalogRow, error) {
	name := strings.TrimSpace(rec[0])
	unit := strings.TrimSpace(rec[1])
	if name == "" || unit == "" {
		return catalogRow{}, errors.New("product_name y unit son obligatorios")
	}
	importPrice, err := parsePrice(rec[2])
	if err != nil {
		return catalogRow{}, fmt.Errorf("import_price: %w", err)
	}
	exportPrice, err := parsePrice(rec[3])
	if err != nil {
		return catalogRow{}, fmt.Errorf("export_price: %w", err)
	}
	minimum, err := strconv.ParseInt(strings.TrimSpace(rec[4]), 10, 64)
	if err != nil || minimum < 0 {
		return catalogRow{}, fmt.Errorf("minimum inválido: %q", rec[4])
	}
	id := uuid.NewSHA1(catalogNamespace, []byte("product:"+strings.ToLower(name)))
	return catalogRow{
		ID:          id,
		StockID:     uuid.NewSHA1(catalogNamespace, []byte("stock:"+id.String())),
		Name:        name,
		Unit:        unit,
		ImportPrice: importPrice,
		ExportPrice: exportPrice,
		Minimum:     minimum,
	}, nil
}

// parsePrice acepta "1500.50" o "1500,50"; vacío = 0. Nunca negativo.
func parsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("precio negativo: %s", s)
	}
	return d.Round(2), nil
}

func writeSQL(w io.Writer, rows []catalogRow) error {
	var b strings.Builder
	b.WriteString("-- Catálogo inicial de productos\n")
	b.WriteString("-- Generado por cmd/seed_catalog; cada producto nace con stock 0 (warning = minimum > 0)\n\n")
	if len(rows) == 0 {
		b.WriteString("-- (sin productos)\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	b.WriteString("INSERT INTO products (id, product_name, unit, import_price, export_price, minimum, status) VALUES\n")
	for i, r := range rows {
		fmt.Fprintf(&b, "  ('%s', '%s', '%s', %s, %s, %d, 'available')",
			r.ID, escapeSQL(r.Name), escapeSQL(r.Unit), r.ImportPrice.StringFixed(2), r.ExportPrice.StringFixed(2), r.Minimum)
		b.WriteString(separator(i, len(rows)))
	}
	b.WriteString("ON CONFLICT (id) DO NOTHING;\n\n")

	b.WriteString("INSERT INTO stocks (id, product_id, quantity, warning) VALUES\n")
	for i, r := range rows {
		fmt.Fprintf(&b, "  ('%s', '%s', 0, %t)", r.StockID, r.ID, r.Minimum > 0)
		b.WriteString(separator(i, len(rows)))
	}
	b.WriteString("ON CONFLICT (product_id) DO NOTHING;\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func separator(i, n int) string {
	if i < n-1 {
		return ",\n"
	}
	return "\n"
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
