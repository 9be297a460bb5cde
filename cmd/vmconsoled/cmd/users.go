package cmd

import (
	"context"
	"fmt"

	"github.com/apex/log"
	"github.com/spf13/cobra"
	"github.com/vendingops/vmconsole/pkg/auth"
	"github.com/vendingops/vmconsole/pkg/docstore"
	"github.com/vendingops/vmconsole/pkg/vmdb"
	"github.com/vendingops/vmconsole/pkg/vmmodel"
)

var (
	userName  string
	userEmail string
	userRole  string
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage console operators",
}

var usersAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an operator and print their new API key",
	Run: func(cmd *cobra.Command, args []string) {
		c := loadConfig()
		docs, err := vmdb.OpenDocumentStore(c)
		if err != nil {
			log.Fatalf("Unable to open document store: %s", err)
		}

		key, err := auth.NewAPIKey()
		if err != nil {
			log.Fatalf("Unable to generate api key: %s", err)
		}

		u, err := auth.AddUser(cmd.Context(), docs, vmmodel.User{Name: userName, Email: userEmail, Role: userRole}, key)
		if err != nil {
			log.Fatalf("Unable to add user: %s", err)
		}

		fmt.Printf("id:      %s\nrole:    %s\napi key: %s\n", u.ID, u.Role, key)
	},
}

func init() {
	usersAddCmd.Flags().StringVar(&userName, "name", "", "operator name")
	usersAddCmd.Flags().StringVar(&userEmail, "email", "", "operator email")
	usersAddCmd.Flags().StringVar(&userRole, "role", vmmodel.RoleAdmin, "operator role")
	usersCmd.AddCommand(usersAddCmd)
	rootCmd.AddCommand(usersCmd)
}

// ensureAdmin makes key usable on a fresh store, which the memory driver
// always is.
func ensureAdmin(ctx context.Context, docs docstore.Store, key string) error {
	u, added, err := auth.EnsureUser(ctx, docs, vmmodel.User{Name: "admin", Role: vmmodel.RoleAdmin}, key)
	if err != nil {
		return err
	}

	if added {
		log.Infof("Seeded admin user %s", u.ID)
	}
	return nil
}
