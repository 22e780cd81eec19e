package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "excellense",
	Short: "Excellense backend",
	Long: `Excellense backend. Usage:

	excellense server
	excellense seed-superadmin --username root --email root@example.com
`,
	SilenceUsage: true,
}
