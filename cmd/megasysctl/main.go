// megasysctl is the terminal companion to the Megasys API: it drives the
// same session lifecycle as the web front end (login via the identity
// provider, cached credentials, startup verification) and answers permission
// questions from the shared capability table.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/lord-einar/megasys/client"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

type cliState struct {
	apiURL  string
	manager *client.Manager
}

func newRootCmd() *cobra.Command {
	state := &cliState{}

	root := &cobra.Command{
		Use:           "megasysctl",
		Short:         "Megasys session and permission tool",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if env := os.Getenv("MEGASYS_API_URL"); env != "" && !cmd.Flags().Changed("api") {
				state.apiURL = env
			}
			m, err := client.NewManager(client.Config{
				BaseURL: state.apiURL,
				Logger:  zerolog.Nop(),
			})
			if err != nil {
				return err
			}
			state.manager = m
			return nil
		},
	}
	root.PersistentFlags().StringVar(&state.apiURL, "api", "http://127.0.0.1:8080", "base URL of the Megasys API")

	root.AddCommand(
		newLoginCmd(state),
		newCallbackCmd(state),
		newWhoamiCmd(state),
		newRefreshCmd(state),
		newLogoutCmd(state),
		newCanCmd(state),
	)
	return root
}

func newLoginCmd(state *cliState) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Start a session",
		Long: "Without flags, prints the identity-provider URL to open in a browser;\n" +
			"finish with 'megasysctl callback'. With --email/--password, uses the\n" +
			"development-only local login if the server has it enabled.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if email == "" {
				loginURL, err := state.manager.LoginURL(ctx)
				if err != nil {
					return err
				}
				fmt.Println("Open this URL in a browser to sign in:")
				fmt.Println("  " + loginURL)
				fmt.Println("Then run: megasysctl callback '<redirect url>'")
				return nil
			}

			if password == "" {
				return errors.New("--password is required with --email")
			}
			return localLogin(ctx, state, email, password)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "local login email (development servers only)")
	cmd.Flags().StringVar(&password, "password", "", "local login password")
	return cmd
}

func localLogin(ctx context.Context, state *cliState, email, password string) error {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, state.apiURL+"/api/v1/auth/login/local", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return errors.New("local login is disabled on this server")
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("login rejected with status %d", resp.StatusCode)
	}

	var result struct {
		User         map[string]any `json:"user"`
		Token        string         `json:"token"`
		RefreshToken string         `json:"refreshToken"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return err
	}

	if err := state.manager.Login(result.User, result.Token, result.RefreshToken, ""); err != nil {
		return err
	}
	printUser(state.manager.Sessions().Current().User)
	return nil
}

func newCallbackCmd(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "callback <redirect url>",
		Short: "Complete a browser login from the redirect URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := url.Parse(args[0])
			if err != nil {
				return fmt.Errorf("parse redirect url: %w", err)
			}

			if err := state.manager.HandleCallback(parsed.Query()); err != nil {
				return err
			}
			printUser(state.manager.Sessions().Current().User)
			return nil
		},
	}
}

func newWhoamiCmd(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session, verifying it against the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			validator := client.NewValidator(state.manager)
			verdict := validator.Run(cmd.Context())

			session := state.manager.Sessions().Current()
			switch verdict {
			case client.StateIdle:
				fmt.Println("not logged in")
				return nil
			case client.StateInvalid:
				fmt.Println("session expired; run 'megasysctl login'")
				return nil
			case client.StateUnknown:
				fmt.Println("server unreachable, showing cached session:")
			}

			printUser(session.User)
			return nil
		},
	}
}

func newRefreshCmd(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Rotate the session tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := state.manager.Refresh(cmd.Context()); err != nil {
				return fmt.Errorf("refresh failed, logged out: %w", err)
			}
			fmt.Println("session refreshed")
			return nil
		},
	}
}

func newLogoutCmd(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and clear cached credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			state.manager.Logout(cmd.Context())
			fmt.Println("logged out")
			return nil
		},
	}
}

func newCanCmd(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "can <resource> <action>",
		Short: "Check whether the current role allows an operation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			session := state.manager.Sessions().Current()
			if session.User == nil {
				// Fall back to whatever is cached on disk.
				if verdict := client.NewValidator(state.manager).Run(cmd.Context()); verdict == client.StateIdle {
					return errors.New("not logged in")
				}
				session = state.manager.Sessions().Current()
			}
			if session.User == nil {
				return errors.New("not logged in")
			}

			resource, action := args[0], args[1]
			if session.User.Can(resource, action) {
				fmt.Printf("yes: %s may %s %s\n", session.User.Role, action, resource)
				return nil
			}
			fmt.Printf("no: %s may not %s %s\n", session.User.Role, action, resource)
			return nil
		},
	}
}

func printUser(u *client.User) {
	if u == nil {
		fmt.Println("not logged in")
		return
	}
	fmt.Printf("%s <%s>\n", u.DisplayName(), u.Email)
	fmt.Printf("role: %s\n", u.Role)
	if len(u.GroupAnalysis.MatchedGroups) > 0 {
		fmt.Printf("groups: %v\n", u.GroupAnalysis.MatchedGroups)
	}
}
