package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/shayar/CommissionApp/internal/application/dto"
	"github.com/shayar/CommissionApp/internal/application/reports"
)

const dateLayout = "2006-01-02"

func reportsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Historial, reporte administrativo y rankings",
	}
	cmd.AddCommand(historyCmd(a))
	cmd.AddCommand(adminReportCmd(a))
	cmd.AddCommand(rankingCmd(a))
	return cmd
}

// dateFlags --from/--to inclusivos en formato YYYY-MM-DD.
type dateFlags struct{ from, to string }

func (d *dateFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&d.from, "from", "", "desde (YYYY-MM-DD, inclusivo)")
	cmd.Flags().StringVar(&d.to, "to", "", "hasta (YYYY-MM-DD, inclusivo)")
}

func (d *dateFlags) rangeOf() (dto.DateRange, error) {
	var rng dto.DateRange
	if d.from != "" {
		t, err := time.Parse(dateLayout, d.from)
		if err != nil {
			return rng, fmt.Errorf("--from inválido: %w", err)
		}
		rng.Start = &t
	}
	if d.to != "" {
		t, err := time.Parse(dateLayout, d.to)
		if err != nil {
			return rng, fmt.Errorf("--to inválido: %w", err)
		}
		rng.End = &t
	}
	return rng, nil
}

func historyCmd(a *app) *cobra.Command {
	var email, category, sub string
	var dates dateFlags
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Historial de ventas de un empleado con totales",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			user, err := userByEmail(ctx, a, email)
			if err != nil {
				return err
			}
			rng, err := dates.rangeOf()
			if err != nil {
				return err
			}
			f := dto.HistoryFilter{Range: rng}
			if category != "" {
				parent, err := findCategory(ctx, a, category)
				if err != nil {
					return err
				}
				f.CategoryID = parent.ID
				if sub != "" {
					s, ok := findSub(parent, sub)
					if !ok {
						return fmt.Errorf("subcategoría %q no existe en %q", sub, parent.Name)
					}
					f.SubCategoryID = s.ID
				}
			}

			out, err := a.c.Aggregator.EmployeeHistory(ctx, user.ID, f)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "DATE\tCATEGORY\tSUBCATEGORY\tAMOUNT\tCOMMISSION\tPAYMENT\tTRACKING")
			for _, s := range out.Sales {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					s.Date.Format(dateLayout), s.CategoryName, s.SubCategoryName,
					a.c.Formatter.Amount(s.Amount), a.c.Formatter.Amount(s.CommissionEarned),
					s.PaymentType, s.TrackingNumber)
			}
			fmt.Fprintf(w, "TOTAL\t\t\t%s\t%s\t\t\n",
				a.c.Formatter.Amount(out.TotalSalesAmount), a.c.Formatter.Amount(out.TotalCommissionAmount))
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email del empleado")
	cmd.Flags().StringVar(&category, "category", "", "categoría (incluye subcategorías y ventas directas)")
	cmd.Flags().StringVar(&sub, "subcategory", "", "subcategoría (requiere --category)")
	dates.bind(cmd)
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func adminReportCmd(a *app) *cobra.Command {
	var email, search string
	var asCSV bool
	var dates dateFlags
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Reporte administrativo (tabla o CSV)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			rng, err := dates.rangeOf()
			if err != nil {
				return err
			}
			f := dto.AdminReportFilter{Range: rng, SearchTerm: search}
			if email != "" {
				user, err := userByEmail(ctx, a, email)
				if err != nil {
					return err
				}
				f.UserID = user.ID
			}
			out, err := a.c.Aggregator.AdminReport(ctx, f)
			if err != nil {
				return err
			}
			if asCSV {
				return reports.WriteAdminCSV(cmd.OutOrStdout(), out)
			}
			return printAdminTable(cmd.OutOrStdout(), a, out)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "filtrar por empleado")
	cmd.Flags().StringVar(&search, "search", "", "buscar en subcategoría, categoría o descripción")
	cmd.Flags().BoolVar(&asCSV, "csv", false, "salida CSV")
	dates.bind(cmd)
	return cmd
}

func printAdminTable(out io.Writer, a *app, r *dto.SalesReportDTO) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tEMPLOYEE\tCATEGORY\tSUBCATEGORY\tAMOUNT\tCOMMISSION\tPAYMENT")
	for _, s := range r.SalesDetails {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			s.Date.Format(dateLayout), s.EmployeeName, s.CategoryName, s.SubCategoryName,
			a.c.Formatter.Amount(s.Amount), a.c.Formatter.Amount(s.CommissionEarned), s.PaymentType)
	}
	fmt.Fprintf(w, "TOTAL\t\t\t\t%s\t%s\t\n",
		a.c.Formatter.Amount(r.GrandTotalSales), a.c.Formatter.Amount(r.GrandTotalCommission))
	return w.Flush()
}

func rankingCmd(a *app) *cobra.Command {
	var since string
	var top int
	cmd := &cobra.Command{
		Use:   "ranking",
		Short: "Ranking de empleados y ventas por categoría",
		Long:  `Sin --since usa el inicio del mes en curso (UTC).`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			now := time.Now().UTC()
			from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
			if since != "" {
				t, err := time.Parse(dateLayout, since)
				if err != nil {
					return fmt.Errorf("--since inválido: %w", err)
				}
				from = t
			}

			employees, err := a.c.Aggregator.PerformanceRanking(ctx, from, top)
			if err != nil {
				return err
			}
			categories, err := a.c.Aggregator.CategoryRanking(ctx, from)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Desde %s\n\n", from.Format(dateLayout))
			fmt.Fprintln(w, "#\tEMPLOYEE\tSALES\tCOMMISSION")
			for i, e := range employees {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", i+1, e.EmployeeFullName,
					a.c.Formatter.Amount(e.TotalSales), a.c.Formatter.Amount(e.TotalCommission))
			}
			fmt.Fprintln(w)
			fmt.Fprintln(w, "CATEGORY\tSALES")
			for _, c := range categories {
				fmt.Fprintf(w, "%s\t%s\n", c.CategoryName, a.c.Formatter.Amount(c.TotalSales))
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&since, "since", "", "desde (YYYY-MM-DD)")
	cmd.Flags().IntVar(&top, "top", reports.DefaultTopN, "cantidad de empleados")
	return cmd
}
