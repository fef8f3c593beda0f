package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"wallet_dashboard_back/pkg/repository"
	"wallet_dashboard_back/pkg/service"
)

var (
	adminRole        string
	adminPermissions []string
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Provision admin wallets",
}

var adminAddCmd = &cobra.Command{
	Use:   "add <address>",
	Short: "Create or re-activate an admin",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(func(svc *service.Service) error {
			admin, err := svc.Identity.ProvisionAdmin(cmd.Context(), args[0], adminRole, adminPermissions)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "admin %d %s role=%s\n", admin.ID, admin.WalletAddress, admin.Role)
			return nil
		})
	},
}

var adminDeactivateCmd = &cobra.Command{
	Use:   "deactivate <address>",
	Short: "Deactivate an admin; its authorizations stop being effective",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(func(svc *service.Service) error {
			return svc.Identity.DeactivateAdmin(cmd.Context(), args[0])
		})
	},
}

var adminListCmd = &cobra.Command{
	Use:   "list",
	Short: "List admins",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withService(func(svc *service.Service) error {
			admins, err := svc.Identity.ListAdmins(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tADDRESS\tROLE\tACTIVE\tPERMISSIONS")
			for _, a := range admins {
				fmt.Fprintf(w, "%d\t%s\t%s\t%t\t%s\n", a.ID, a.WalletAddress, a.Role, a.IsActive, strings.Join(a.Permissions, ","))
			}
			return w.Flush()
		})
	},
}

func init() {
	adminAddCmd.Flags().StringVar(&adminRole, "role", "admin", "admin role")
	adminAddCmd.Flags().StringSliceVar(&adminPermissions, "permissions", []string{"request_transfer"}, "comma separated permissions")
	adminCmd.AddCommand(adminAddCmd, adminDeactivateCmd, adminListCmd)
}

// withService runs fn against a service without chain, price or mail
// collaborators.
func withService(fn func(*service.Service) error) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	return fn(service.NewService(repository.NewRepository(db), service.Deps{}, service.Config{}))
}
