package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/theapemachine/shopchat/pkg/auth"
	"github.com/theapemachine/shopchat/pkg/catalog"
	"github.com/theapemachine/shopchat/pkg/chatbot"
	"github.com/theapemachine/shopchat/pkg/service"
	"github.com/theapemachine/shopchat/pkg/stores"
	"github.com/theapemachine/shopchat/pkg/stores/sqlite"
)

var (
	portFlag int
	hostFlag string
	seedFlag bool

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve the shopchat API",
		Long:  longServe,
		RunE: func(cmd *cobra.Command, args []string) error {
			products, users, conversations, cleanup, err := openStores()
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := cmd.Context()
			if seedFlag {
				if err := catalog.NewSeeder(products, users).Seed(ctx); err != nil {
					return fmt.Errorf("seed catalog: %w", err)
				}
			}

			authService := auth.NewService(
				users,
				[]byte(viper.GetString("auth.secret")),
				viper.GetInt("auth.bcrypt_cost"),
			)

			engine := chatbot.NewEngine(products, conversations, stores.NewSessionToken, nil)

			srv := service.New(service.Config{
				Addr:     fmt.Sprintf("%s:%d", hostFlag, portFlag),
				Auth:     authService,
				Engine:   engine,
				Products: products,
				Origins:  viper.GetStringSlice("server.origins"),
			})

			go func() {
				quit := make(chan os.Signal, 1)
				signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
				<-quit

				log.Info("shutting down")
				if err := srv.Shutdown(); err != nil {
					log.Error("shutdown failed", "error", err)
				}
			}()

			log.Info("serving shopchat API", "host", hostFlag, "port", portFlag)
			return srv.Start()
		},
	}
)

/*
openStores builds the product, user and conversation stores from config:
in-memory for development, sqlite for anything that should survive a
restart.
*/
func openStores() (
	stores.ProductStore, stores.UserStore, stores.ConversationStore, func(), error,
) {
	switch driver := viper.GetString("store.driver"); driver {
	case "", "memory":
		return stores.NewInMemoryProductStore(),
			stores.NewInMemoryUserStore(),
			stores.NewInMemoryConversationStore(),
			func() {}, nil
	case "sqlite":
		db, err := sqlite.Open(sqlite.DSNForFile(viper.GetString("store.dsn")))
		if err != nil {
			return nil, nil, nil, nil, err
		}
		cleanup := func() {
			if err := db.Close(); err != nil {
				log.Error("closing database failed", "error", err)
			}
		}
		return sqlite.NewProductStore(db),
			sqlite.NewUserStore(db),
			sqlite.NewConversationStore(db),
			cleanup, nil
	default:
		return nil, nil, nil, nil, fmt.Errorf("unknown store driver: %s", driver)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVarP(&portFlag, "port", "p", 8080, "Port to serve on")
	serveCmd.Flags().StringVarP(&hostFlag, "host", "H", "0.0.0.0", "Host address to bind to")
	serveCmd.Flags().BoolVar(&seedFlag, "seed", false, "Seed the demo catalog before serving")
}

var longServe = `
Serve the shopchat REST API.

Examples:
  # Serve on the default port with an in-memory store and demo data
  shopchat serve --seed

  # Serve on port 3000 against the configured sqlite database
  shopchat serve --port 3000
`
