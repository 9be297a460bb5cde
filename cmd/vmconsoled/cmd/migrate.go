package cmd

import (
	"github.com/apex/log"
	"github.com/spf13/cobra"
	"github.com/vendingops/vmconsole/pkg/vmdb"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the document tables",
	Run: func(cmd *cobra.Command, args []string) {
		c := loadConfig()
		driver := c.GetKeyWithDefault("VMC_DB_DRIVER", vmdb.DriverSQLite)
		if driver == vmdb.DriverMemory {
			log.Infof("Memory driver has nothing to migrate")
			return
		}

		dsn := vmdb.DSN(c, driver)
		if dsn == "" && driver == vmdb.DriverSQLite {
			dsn = "vmconsole.db"
		}

		db := vmdb.MustConnectToDB(driver, dsn)
		if err := vmdb.RunMigrations(db); err != nil {
			log.Fatalf("Migrations failed: %s", err)
		}
		log.Infof("Migrations complete for %s", driver)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
