package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/shayar/CommissionApp/internal/application/dto"
	"github.com/shayar/CommissionApp/internal/domain/entity"
)

func salesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sales",
		Short: "Registrar ventas",
	}
	cmd.AddCommand(logSaleCmd(a))
	return cmd
}

func logSaleCmd(a *app) *cobra.Command {
	var email, category, sub, amount, payment, tracking, description string
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Registrar una venta a nombre de un empleado",
		Long: `Registra una venta contra una subcategoría (--category y --subcategory) o directamente
contra una categoría con tasa propia (solo --category). La comisión queda congelada con la tasa vigente.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			user, err := userByEmail(ctx, a, email)
			if err != nil {
				return err
			}
			parent, err := findCategory(ctx, a, category)
			if err != nil {
				return err
			}
			amt, err := decimal.NewFromString(strings.TrimSpace(amount))
			if err != nil {
				return fmt.Errorf("monto inválido %q", amount)
			}

			in := dto.LogSaleRequest{
				TargetKind:     string(entity.TargetCategory),
				TargetID:       parent.ID,
				Amount:         amt,
				PaymentType:    payment,
				TrackingNumber: tracking,
				Description:    description,
			}
			if sub != "" {
				s, ok := findSub(parent, sub)
				if !ok {
					return fmt.Errorf("subcategoría %q no existe en %q", sub, parent.Name)
				}
				in.TargetKind, in.TargetID = string(entity.TargetSubCategory), s.ID
			}

			out, err := a.c.Recorder.LogSale(ctx, user.ID, in)
			if err != nil {
				return err
			}
			target := out.CategoryName
			if out.SubCategoryName != "" {
				target += " - " + out.SubCategoryName
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Venta registrada: %s %s, comisión %s (%s) id=%s\n",
				target,
				a.c.Formatter.Amount(out.Amount),
				a.c.Formatter.Amount(out.Commission),
				a.c.Formatter.Percent(&out.CommissionRate),
				out.ID,
			)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&email, "email", "", "email del empleado")
	f.StringVar(&category, "category", "", "categoría (nombre o id)")
	f.StringVar(&sub, "subcategory", "", "subcategoría (nombre o id)")
	f.StringVar(&amount, "amount", "", "monto de la venta")
	f.StringVar(&payment, "payment", "Cash", "medio de pago")
	f.StringVar(&tracking, "tracking", "", "número de guía")
	f.StringVar(&description, "description", "", "descripción")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func userByEmail(ctx context.Context, a *app, email string) (*entity.User, error) {
	u, err := a.c.Users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("usuario %q no existe", email)
	}
	return u, nil
}
