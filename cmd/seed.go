package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theapemachine/shopchat/pkg/catalog"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the demo catalog into the configured store",
	Long:  longSeed,
	RunE: func(cmd *cobra.Command, args []string) error {
		products, users, _, cleanup, err := openStores()
		if err != nil {
			return err
		}
		defer cleanup()

		if err := catalog.NewSeeder(products, users).Seed(cmd.Context()); err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

var longSeed = `
Load the embedded demo catalog and sample accounts into the configured
store. Seeding an in-memory store only makes sense together with serve
--seed; this command exists for sqlite databases.

Examples:
  # Populate the configured sqlite database
  shopchat seed
`
