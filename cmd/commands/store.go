package commands

// Record store commands
// seed creates the users table with its two fixed rows (fails if it already exists)
// users lists the rows

import (
	"context"
	"fmt"
	"text/tabwriter"

	"dtimelog/internal/features/records"
	"dtimelog/internal/infra/log"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Record store commands",
	Long:  `Manage the local SQLite record store (store.path, default dtimelog.db).`,
}

var storeSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the users table with Alice and Bob",
	Long:  `Create users(name TEXT, age INTEGER) and insert ('Alice', 42), ('Bob', 69). Fails if the table exists.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := seedStore(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Seeded %s\n", cfg.Store.Path)
		return nil
	},
}

var storeUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "List the users table",
	Args:  cobra.NoArgs,
	RunE:  runStoreUsers,
}

func init() {
	addStoreFlags(storeCmd)
	storeCmd.AddCommand(storeSeedCmd)
	storeCmd.AddCommand(storeUsersCmd)
}

func addStoreFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("db", "", "Record store file (env: SQLITE_PATH, default dtimelog.db)")
	cmd.PersistentFlags().String("driver", "", "SQL driver: sqlite (pure Go) or sqlite3 (cgo)")
}

func openStore(ctx context.Context) (*records.Store, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	return records.Open(ctx, cfg.Store.Driver, cfg.Store.Path)
}

type pathCloser interface {
	Path() string
	Close() error
}

// closeStore closes st and reports its error unless *errp already holds one.
func closeStore(st pathCloser, errp *error) {
	if err := st.Close(); err != nil {
		log.LogError("Failed to close record store", zap.String("path", st.Path()), zap.Error(err))
		if *errp == nil {
			*errp = err
		}
	}
}

func seedStore(ctx context.Context) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	st, err := openStore(ctx)
	if err != nil {
		log.LogError("Failed to open record store", zap.Error(err))
		return err
	}
	defer closeStore(st, &err)

	if err := st.Seed(ctx); err != nil {
		log.LogError("Failed to seed record store", zap.String("path", st.Path()), zap.Error(err))
		return err
	}
	log.LogSuccess("Record store seeded", zap.String("path", st.Path()))
	return nil
}

func runStoreUsers(cmd *cobra.Command, args []string) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore(st, &err)

	users, err := st.Users(ctx)
	if err != nil {
		log.LogError("Failed to list users", zap.Error(err))
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tAGE")
	for _, u := range users {
		fmt.Fprintf(w, "%s\t%d\n", u.Name, u.Age)
	}
	return w.Flush()
}
