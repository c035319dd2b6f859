package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/theapemachine/shopchat/pkg/client"
	"github.com/theapemachine/shopchat/pkg/ui"
)

var (
	loginFlag    string
	registerFlag bool
	emailFlag    string

	chatCmd = &cobra.Command{
		Use:   "chat",
		Short: "Chat with the shopping assistant from the terminal",
		Long:  longChat,
		RunE: func(cmd *cobra.Command, args []string) error {
			api := client.New(viper.GetString("client.endpoint"))

			if err := authenticate(cmd, api); err != nil {
				return err
			}

			path := os.Getenv("TEA_LOGFILE")
			if path != "" {
				f, err := tea.LogToFile(path, "shopchat")
				if err != nil {
					log.Error("could not open logfile:", "error", err)
					os.Exit(1)
				}
				defer f.Close()
			}

			if _, err := tea.NewProgram(ui.New(api), tea.WithAltScreen()).Run(); err != nil {
				log.Error("Error while running program:", "error", err)
				os.Exit(1)
			}

			return nil
		},
	}
)

func authenticate(cmd *cobra.Command, api *client.Client) error {
	if loginFlag == "" {
		return fmt.Errorf("a username is required, pass --login")
	}

	fmt.Fprint(cmd.OutOrStdout(), "Password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(cmd.OutOrStdout())
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	ctx := cmd.Context()

	if registerFlag {
		if emailFlag == "" {
			return fmt.Errorf("an email address is required, pass --email")
		}
		user, err := api.Register(ctx, loginFlag, emailFlag, string(password))
		if err != nil {
			return err
		}
		log.Info("registered", "username", user.Username)
		return nil
	}

	user, err := api.Login(ctx, loginFlag, string(password))
	if err != nil {
		return err
	}
	log.Info("logged in", "username", user.Username)

	return nil
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().StringVarP(&loginFlag, "login", "l", "", "Username or email to log in with")
	chatCmd.Flags().BoolVar(&registerFlag, "register", false, "Register a new account instead of logging in")
	chatCmd.Flags().StringVar(&emailFlag, "email", "", "Email address when registering")
}

var longChat = `
Chat with the shopping assistant through a running shopchat server.

Examples:
  # Log in and chat
  shopchat chat --login adi

  # Register a new account first
  shopchat chat --login adi --email adi@example.com --register
`
