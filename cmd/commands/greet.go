package commands

// greet prints "<greeting> <thing>"
// With --seed the record store is seeded first; a seed failure aborts before printing

import (
	"dtimelog/internal/features/greeter"
	"dtimelog/internal/infra/log"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var greetSeed bool

var greetCmd = &cobra.Command{
	Use:   "greet [thing]",
	Short: "Print a greeting",
	Long:  `Print "<greeting> <thing>". Defaults come from greeter.greeting and greeter.thing ("Hello" and "David").`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runGreet,
}

func init() {
	greetCmd.Flags().String("greeting", "", "Greeting text (default \"Hello\")")
	greetCmd.Flags().BoolVar(&greetSeed, "seed", false, "Seed the record store before greeting")
	addStoreFlags(greetCmd)
}

func runGreet(cmd *cobra.Command, args []string) error {
	thing := cfg.Greeter.Thing
	if len(args) == 1 {
		thing = args[0]
	}

	if greetSeed {
		if err := seedStore(cmd.Context()); err != nil {
			return err
		}
	}

	g := greeter.New(cfg.Greeter.Greeting)
	if err := g.Greet(cmd.OutOrStdout(), thing); err != nil {
		log.LogError("Failed to print greeting", zap.Error(err))
		return err
	}
	log.LogInfo("Greeted", zap.String("thing", thing))
	return nil
}
