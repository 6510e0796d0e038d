// seed_catalog genera un script SQL para poblar categorías y subcategorías comisionables
// a partir de un CSV exportado de hoja de cálculo (category,code,subcategory,rate).
//
// Uso: go run ./cmd/seed_catalog [--charset windows-1252] [--out archivo.sql] [ruta/catalogo.csv]
// Por defecto lee catalog.csv en el directorio actual.
// Escribe: internal/infrastructure/postgres/migrations/002_seed_catalog.sql
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
)

func main() {
	charset := flag.String("charset", "utf-8", "codificación del CSV: utf-8, iso-8859-1, windows-1252")
	outFlag := flag.String("out", "", "ruta del script (por defecto en migrations/)")
	flag.Parse()

	csvPath := "catalog.csv"
	if flag.NArg() > 0 {
		csvPath = flag.Arg(0)
	}
	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	r, err := decoderFor(f, *charset)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	cats, err := parseCatalog(r)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer catálogo: %v\n", err)
		os.Exit(1)
	}

	outPath := *outFlag
	if outPath == "" {
		outPath = filepath.Join(findModuleRoot(), "internal", "infrastructure", "postgres", "migrations", "002_seed_catalog.sql")
	}
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := writeSeed(out, cats, filepath.Base(csvPath)); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir script: %v\n", err)
		os.Exit(1)
	}

	subs := 0
	for _, c := range cats {
		subs += len(c.subs)
	}
	fmt.Printf("Generado %s: %d categorías, %d subcategorías\n", outPath, len(cats), subs)
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
