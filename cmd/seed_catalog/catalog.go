package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// seedNamespace base de los ids deterministas: volver a generar el script produce los mismos ids.
var seedNamespace = uuid.MustParse("6f1d3c0a-9b7e-4c55-8a0e-2f4b9d1e7c31")

type catalogSub struct {
	name string
	rate decimal.Decimal
}

type catalogCategory struct {
	name string
	code string
	rate *decimal.Decimal // solo si no tiene subcategorías
	subs []catalogSub
}

// decoderFor envuelve r según el charset del archivo exportado.
func decoderFor(r io.Reader, charset string) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(charset)) {
	case "", "utf-8", "utf8":
		return r, nil
	case "iso-8859-1", "iso8859-1", "latin1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	case "windows-1252", "cp1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("charset no soportado: %s", charset)
	}
}

// parseCatalog lee filas category,code,subcategory,rate. La cabecera es opcional.
// Una fila sin subcategoría fija la tasa directa; con subcategoría, la tasa es de la subcategoría.
func parseCatalog(r io.Reader) ([]catalogCategory, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 4
	cr.TrimLeadingSpace = true

	byName := make(map[string]*catalogCategory)
	line := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if line == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "category") {
			continue
		}

		name := strings.TrimSpace(rec[0])
		if name == "" {
			return nil, fmt.Errorf("línea %d: categoría vacía", line)
		}
		rate, err := parseRate(rec[3])
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}

		key := strings.ToLower(name)
		cat, ok := byName[key]
		if !ok {
			cat = &catalogCategory{name: name}
			byName[key] = cat
		}
		if code := strings.TrimSpace(rec[1]); code != "" {
			cat.code = code
		}

		sub := strings.TrimSpace(rec[2])
		if sub == "" {
			if rate == nil {
				continue
			}
			cat.rate = rate
			continue
		}
		if rate == nil {
			return nil, fmt.Errorf("línea %d: la subcategoría %q requiere tasa", line, sub)
		}
		if hasSub(cat, sub) {
			return nil, fmt.Errorf("línea %d: subcategoría duplicada %q en %q", line, sub, name)
		}
		cat.subs = append(cat.subs, catalogSub{name: sub, rate: *rate})
	}

	out := make([]catalogCategory, 0, len(byName))
	for _, c := range byName {
		if len(c.subs) > 0 {
			c.rate = nil
		}
		sort.Slice(c.subs, func(i, j int) bool { return strings.ToLower(c.subs[i].name) < strings.ToLower(c.subs[j].name) })
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return strings.ToLower(out[i].name) < strings.ToLower(out[j].name) })
	return out, nil
}

// parseRate acepta fracción (0.05) o porcentaje (5%). Vacío = sin tasa.
func parseRate(s string) (*decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	pct := strings.HasSuffix(s, "%")
	d, err := decimal.NewFromString(strings.TrimSpace(strings.TrimSuffix(s, "%")))
	if err != nil {
		return nil, fmt.Errorf("tasa inválida %q", s)
	}
	if pct {
		d = d.Div(decimal.NewFromInt(100))
	}
	if !d.IsPositive() || d.GreaterThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("tasa fuera de rango %q", s)
	}
	return &d, nil
}

func hasSub(c *catalogCategory, name string) bool {
	for _, s := range c.subs {
		if strings.EqualFold(s.name, name) {
			return true
		}
	}
	return false
}

// writeSeed escribe el script SQL idempotente. Los ids son deterministas por nombre.
func writeSeed(w io.Writer, cats []catalogCategory, source string) error {
	var b strings.Builder
	b.WriteString("-- Catálogo de categorías y subcategorías comisionables\n")
	fmt.Fprintf(&b, "-- Generado desde %s\n\n", source)

	for _, c := range cats {
		catID := uuid.NewSHA1(seedNamespace, []byte("category:"+strings.ToLower(c.name))).String()
		rate := "NULL"
		if c.rate != nil {
			rate = c.rate.String()
		}
		b.WriteString("INSERT INTO categories (id, code, name, commission_rate)\n")
		fmt.Fprintf(&b, "VALUES ('%s', '%s', '%s', %s)\n", catID, escapeSQL(c.code), escapeSQL(c.name), rate)
		b.WriteString("ON CONFLICT DO NOTHING;\n")

		for _, s := range c.subs {
			subID := uuid.NewSHA1(seedNamespace, []byte("subcategory:"+strings.ToLower(c.name)+"/"+strings.ToLower(s.name))).String()
			b.WriteString("INSERT INTO subcategories (id, category_id, name, commission_rate)\n")
			fmt.Fprintf(&b, "SELECT '%s', id, '%s', %s FROM categories WHERE lower(name) = lower('%s')\n",
				subID, escapeSQL(s.name), s.rate.String(), escapeSQL(c.name))
			b.WriteString("ON CONFLICT DO NOTHING;\n")
		}
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
