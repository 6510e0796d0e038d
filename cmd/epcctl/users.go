package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shayar/CommissionApp/internal/application/dto"
	"github.com/shayar/CommissionApp/internal/domain/entity"
)

func usersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Gestionar usuarios",
	}
	cmd.AddCommand(addUserCmd(a))
	cmd.AddCommand(listUsersCmd(a))
	return cmd
}

func listUsersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Listar usuarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			users, err := a.c.UserQuery.List(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tEMAIL\tEMPLOYEE\tROLE\tSTATUS")
			for _, u := range users {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", u.FullName, u.Email, u.EmployeeID, u.Role, u.Status)
			}
			return w.Flush()
		},
	}
}

func addUserCmd(a *app) *cobra.Command {
	var in dto.RegisterRequest
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Crear usuario (el primer admin se crea por aquí)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := a.c.Auth.RegisterUser(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Usuario creado: %s (%s) id=%s\n", out.Email, out.Role, out.ID)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Email, "email", "", "email")
	f.StringVar(&in.Password, "password", "", "password (mínimo 8 caracteres)")
	f.StringVar(&in.FullName, "name", "", "nombre completo")
	f.StringVar(&in.EmployeeID, "employee-id", "", "código de empleado")
	f.StringVar(&in.Role, "role", entity.RoleEmployee, "rol: admin o employee")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
