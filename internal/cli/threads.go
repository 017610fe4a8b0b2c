package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soyeahso/pocketfi/internal/store"
)

func newThreadsCmd() *cobra.Command {
	var storePath string

	cmd := &cobra.Command{
		Use:   "threads",
		Short: "Inspect and manage conversation threads",
	}
	cmd.PersistentFlags().StringVar(&storePath, "store", "", "override thread database path")

	openStore := func() (*store.ThreadStore, func(), error) {
		path := storePath
		if path == "" {
			cfg, err := loadConfig()
			if err != nil {
				return nil, nil, err
			}
			path = cfg.Store.Path
		}
		if path == "" {
			if err := paths.EnsureDirs(); err != nil {
				return nil, nil, err
			}
			path = paths.DefaultStorePath()
		}
		db, err := store.Open(path, log)
		if err != nil {
			return nil, nil, err
		}
		return store.NewThreadStore(db), func() { db.Close() }, nil
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all threads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, done, err := openStore()
			if err != nil {
				return err
			}
			defer done()

			list, err := s.ListThreads()
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Println("no threads")
				return nil
			}
			for _, t := range list {
				fmt.Printf("%s  %-30q  %d messages  created %s\n",
					t.ID, t.Title, t.MessageCount, t.CreatedAt.Format("2006-01-02 15:04"))
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear <thread-id>",
		Short: "Remove a thread's messages but keep the thread",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, done, err := openStore()
			if err != nil {
				return err
			}
			defer done()
			if err := s.ClearThread(args[0]); err != nil {
				return err
			}
			fmt.Printf("cleared %s\n", args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <thread-id>",
		Short: "Delete a thread and all its messages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, done, err := openStore()
			if err != nil {
				return err
			}
			defer done()
			if err := s.DeleteThread(args[0]); err != nil {
				return err
			}
			fmt.Printf("deleted %s\n", args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "history <thread-id>",
		Short: "Print a thread's messages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, done, err := openStore()
			if err != nil {
				return err
			}
			defer done()
			msgs, err := s.History(args[0])
			if err != nil {
				return err
			}
			for _, m := range msgs {
				fmt.Printf("[%s] %s: %s\n", m.Timestamp.Format("15:04:05"), m.Role, m.Content)
			}
			return nil
		},
	})

	return cmd
}
