package main

import (
	"encoding/json"
	"fmt"
	"os"

	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/verdanta/greenflow/internal/config"
	redisAdapter "github.com/verdanta/greenflow/pkg/adapters/redis"
	"github.com/verdanta/greenflow/pkg/ports"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage persistent sessions",
	Long:  `List, inspect, and remove sessions stored in the configured Redis backend.`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all active sessions",
	Run: func(cmd *cobra.Command, args []string) {
		store := getStore()
		sessions, err := store.List(cmd.Context())
		if err != nil {
			fmt.Printf("Error listing sessions: %v\n", err)
			os.Exit(1)
		}

		if len(sessions) == 0 {
			fmt.Println("No active sessions found.")
			return
		}

		fmt.Println("Active sessions:")
		for _, s := range sessions {
			fmt.Println("- " + s)
		}
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <session-id>",
	Short: "Inspect the state of a session",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := getStore()
		state, err := store.Load(cmd.Context(), args[0])
		if err != nil {
			fmt.Printf("Error loading session %q: %v\n", args[0], err)
			os.Exit(1)
		}

		data, err := json.MarshalIndent(state, "", "  ")
		if err != nil {
			fmt.Printf("Error marshaling state: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <session-id>",
	Short: "Remove a session",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := getStore()
		if err := store.Delete(cmd.Context(), args[0]); err != nil {
			fmt.Printf("Error removing session %q: %v\n", args[0], err)
			os.Exit(1)
		}
		fmt.Printf("Session %q removed.\n", args[0])
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionInspectCmd)
	sessionCmd.AddCommand(sessionRmCmd)
}

// getStore connects to the Redis session store from the environment
// configuration. Memory-backed deployments have no persistent sessions
// to manage.
func getStore() ports.StateStore {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	if cfg.RedisAddr == "" {
		fmt.Println("GREENFLOW_REDIS_ADDR is not set; only Redis-backed sessions can be managed.")
		os.Exit(1)
	}
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	return redisAdapter.NewStore(client)
}
