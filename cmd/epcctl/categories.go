package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/shayar/CommissionApp/internal/application/dto"
)

func categoriesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Gestionar categorías",
		Long:  `Lista, crea y actualiza categorías y su tasa de comisión directa.`,
	}
	cmd.AddCommand(listCategoriesCmd(a))
	cmd.AddCommand(addCategoryCmd(a))
	cmd.AddCommand(updateCategoryCmd(a))
	return cmd
}

func listCategoriesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Listar categorías con sus subcategorías",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := a.c.Resolver.ListCategories(cmd.Context())
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No hay categorías. Use 'epcctl categories add' para crear una.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "CATEGORY\tSUBCATEGORY\tRATE\tID")
			for _, c := range list {
				fmt.Fprintf(w, "%s\t\t%s\t%s\n", c.Name, a.c.Formatter.Percent(c.CommissionRate), c.ID)
				for _, s := range c.SubCategories {
					rate := s.CommissionRate
					fmt.Fprintf(w, "\t%s\t%s\t%s\n", s.Name, a.c.Formatter.Percent(&rate), s.ID)
				}
			}
			return w.Flush()
		},
	}
}

func addCategoryCmd(a *app) *cobra.Command {
	var code, rate string
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Crear categoría",
		Long:  `Crea una categoría. --rate es opcional: sin tasa, la categoría solo comisiona por sus subcategorías.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := parseRateFlag(rate)
			if err != nil {
				return err
			}
			out, err := a.c.Resolver.AddCategory(cmd.Context(), dto.CategoryRequest{Name: args[0], Code: code, CommissionRate: r}, a.actor)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Categoría creada: %s (%s) id=%s\n", out.Name, a.c.Formatter.Percent(out.CommissionRate), out.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&code, "code", "", "código externo")
	cmd.Flags().StringVar(&rate, "rate", "", "tasa directa: 0.05 o 5%")
	return cmd
}

func updateCategoryCmd(a *app) *cobra.Command {
	var name, code, rate string
	var clearRate bool
	cmd := &cobra.Command{
		Use:   "update <name>",
		Short: "Actualizar categoría",
		Long:  `Cambia nombre, código o tasa directa. Los campos no indicados se conservan.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			current, err := findCategory(ctx, a, args[0])
			if err != nil {
				return err
			}
			in := dto.CategoryRequest{Name: current.Name, Code: current.Code, CommissionRate: current.CommissionRate}
			if cmd.Flags().Changed("name") {
				in.Name = name
			}
			if cmd.Flags().Changed("code") {
				in.Code = code
			}
			switch {
			case clearRate:
				in.CommissionRate = nil
			case cmd.Flags().Changed("rate"):
				if in.CommissionRate, err = parseRateFlag(rate); err != nil {
					return err
				}
			}
			out, err := a.c.Resolver.UpdateCategory(ctx, current.ID, in, a.actor)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Categoría actualizada: %s (%s)\n", out.Name, a.c.Formatter.Percent(out.CommissionRate))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "nuevo nombre")
	cmd.Flags().StringVar(&code, "code", "", "nuevo código")
	cmd.Flags().StringVar(&rate, "rate", "", "nueva tasa directa: 0.05 o 5%")
	cmd.Flags().BoolVar(&clearRate, "clear-rate", false, "quitar la tasa directa")
	cmd.MarkFlagsMutuallyExclusive("rate", "clear-rate")
	return cmd
}

func subCategoriesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "subcategories",
		Aliases: []string{"subs"},
		Short:   "Gestionar subcategorías",
	}
	cmd.AddCommand(addSubCategoryCmd(a))
	cmd.AddCommand(updateSubCategoryCmd(a))
	return cmd
}

func addSubCategoryCmd(a *app) *cobra.Command {
	var category, rate string
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Crear subcategoría",
		Long:  `Crea una subcategoría con tasa obligatoria. La primera subcategoría quita la tasa directa de la categoría.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			parent, err := findCategory(ctx, a, category)
			if err != nil {
				return err
			}
			r, err := parseRateFlag(rate)
			if err != nil {
				return err
			}
			if r == nil {
				return fmt.Errorf("--rate es requerido")
			}
			out, err := a.c.Resolver.AddSubCategory(ctx, parent.ID, dto.SubCategoryRequest{Name: args[0], CommissionRate: *r}, a.actor)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Subcategoría creada: %s - %s (%s) id=%s\n", parent.Name, out.Name, a.c.Formatter.Percent(&out.CommissionRate), out.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "categoría padre (nombre o id)")
	cmd.Flags().StringVar(&rate, "rate", "", "tasa: 0.10 o 10%")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("rate")
	return cmd
}

func updateSubCategoryCmd(a *app) *cobra.Command {
	var category, name, rate string
	cmd := &cobra.Command{
		Use:   "update <name>",
		Short: "Actualizar subcategoría",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			parent, err := findCategory(ctx, a, category)
			if err != nil {
				return err
			}
			sub, ok := findSub(parent, args[0])
			if !ok {
				return fmt.Errorf("subcategoría %q no existe en %q", args[0], parent.Name)
			}
			in := dto.SubCategoryRequest{Name: sub.Name, CommissionRate: sub.CommissionRate}
			if cmd.Flags().Changed("name") {
				in.Name = name
			}
			if cmd.Flags().Changed("rate") {
				r, err := parseRateFlag(rate)
				if err != nil {
					return err
				}
				if r == nil {
					return fmt.Errorf("--rate no puede quedar vacío")
				}
				in.CommissionRate = *r
			}
			out, err := a.c.Resolver.UpdateSubCategory(ctx, sub.ID, in, a.actor)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Subcategoría actualizada: %s (%s)\n", out.Name, a.c.Formatter.Percent(&out.CommissionRate))
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "categoría padre (nombre o id)")
	cmd.Flags().StringVar(&name, "name", "", "nuevo nombre")
	cmd.Flags().StringVar(&rate, "rate", "", "nueva tasa: 0.10 o 10%")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// findCategory busca por id o por nombre sin distinguir mayúsculas.
func findCategory(ctx context.Context, a *app, ref string) (*dto.CategoryResponse, error) {
	ref = strings.TrimSpace(ref)
	list, err := a.c.Resolver.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ID == ref || strings.EqualFold(list[i].Name, ref) {
			return &list[i], nil
		}
	}
	return nil, fmt.Errorf("categoría %q no existe", ref)
}

func findSub(parent *dto.CategoryResponse, ref string) (dto.SubCategoryResponse, bool) {
	ref = strings.TrimSpace(ref)
	for _, s := range parent.SubCategories {
		if s.ID == ref || strings.EqualFold(s.Name, ref) {
			return s, true
		}
	}
	return dto.SubCategoryResponse{}, false
}

// parseRateFlag acepta fracción (0.05) o porcentaje (5%). Vacío = sin tasa.
func parseRateFlag(s string) (*decimal.Decimal, error) {
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
	return &d, nil
}
