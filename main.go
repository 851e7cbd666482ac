package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bookdesk/library"
	"bookdesk/ui"
)

var rootCmd = &cobra.Command{
	Use:   "bookdesk",
	Short: "Terminal library management",
	Long: `Bookdesk is a terminal library-management application. Students sign up,
reserve and return books and see their overdue penalties; managers maintain
the catalog of books, authors and publishers.

Configuration comes from the environment: LIBRARY_DB_PATH, LIBRARY_LOG_FILE,
MAX_RESERVATIONS_LIMIT, PENALTY_RATE_PER_DAY and LOAN_PERIOD_DAYS.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := library.LoadConfig()
		log := library.NewLogger(cfg.LogFile)

		store, err := library.Open(cfg, log)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer store.Close()

		return ui.NewSession(store, log).Run()
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the database schema and optionally a manager account",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := library.LoadConfig()
		log := library.NewLogger(cfg.LogFile)

		store, err := library.Open(cfg, log)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer store.Close()

		if managerID != 0 {
			if managerEmail == "" || managerFirst == "" || managerLast == "" {
				return fmt.Errorf("manager account needs --manager-email, --manager-first and --manager-last")
			}
			user, err := store.CreateUser(managerID, managerEmail, managerFirst, managerLast, library.RoleManager)
			if err != nil {
				return fmt.Errorf("create manager: %w", err)
			}
			fmt.Printf("Manager account ready: %s <%s> (initial password is the id)\n", user.FullName(), user.Email)
		}

		fmt.Printf("Database ready at %s.\n", cfg.DBPath)
		return nil
	},
}

var (
	managerID    int64
	managerEmail string
	managerFirst string
	managerLast  string
)

func init() {
	initCmd.Flags().Int64Var(&managerID, "manager-id", 0, "Create a manager account with this id")
	initCmd.Flags().StringVar(&managerEmail, "manager-email", "", "Manager email address")
	initCmd.Flags().StringVar(&managerFirst, "manager-first", "", "Manager first name")
	initCmd.Flags().StringVar(&managerLast, "manager-last", "", "Manager last name")

	rootCmd.AddCommand(initCmd, importCmd, exportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
