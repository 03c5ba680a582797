package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/JonMunkholm/painel/internal/authclient"
	"github.com/JonMunkholm/painel/internal/core"
	"github.com/JonMunkholm/painel/internal/logging"
	"github.com/JonMunkholm/painel/internal/mask"
	"github.com/spf13/cobra"
)

type options struct {
	server    string
	tokenFile string
	logLevel  string
	timeout   time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "painelctl",
		Short:         "Format CPF/RG/CNPJ values and manage a panel login",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			slog.SetDefault(logging.New(cmd.ErrOrStderr(), opts.logLevel, "text"))
		},
	}

	root.PersistentFlags().StringVar(&opts.server, "server", envOr("PAINEL_SERVER", "http://localhost:8080"), "Panel server URL (or set PAINEL_SERVER)")
	root.PersistentFlags().StringVar(&opts.tokenFile, "token-file", "", "Where the session token is kept (default: user config dir)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")

	root.AddCommand(
		newMaskCmd(),
		newKindsCmd(),
		newLoginCmd(opts),
		newVerifyCmd(opts),
		newLogoutCmd(opts),
	)
	return root
}

func newMaskCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "mask <kind> <value>...",
		Short: "Format document values",
		Long: `Format one or more values as CPF, RG or CNPJ.

Non-digits are ignored and extra digits are dropped, so already formatted
input is accepted:

  painelctl mask cnpj 12345678000123
  painelctl mask cpf 123.456.789-01 98765432100`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := mask.ParseKind(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, v := range args[1:] {
				if asJSON {
					res := core.DocumentResult{
						Value:     v,
						Kind:      kind,
						Formatted: mask.Format(v, kind),
						Complete:  mask.Complete(v, kind),
					}
					if err := json.NewEncoder(out).Encode(res); err != nil {
						return err
					}
					continue
				}
				fmt.Fprintln(out, mask.Format(v, kind))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print one JSON object per value")
	return cmd
}

func newKindsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List document kinds and their templates",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			for _, l := range mask.Layouts() {
				fmt.Fprintf(out, "%-5s %2d  %s\n", l.Kind, l.MaxDigits(), l.Template())
			}
		},
	}
}

func newLoginCmd(opts *options) *cobra.Command {
	var email, senha string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and keep the session token",
		Long: `Log in to the panel server. The password is read from --senha,
then PAINEL_SENHA, then the first line of standard input.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if senha == "" {
				senha = os.Getenv("PAINEL_SENHA")
			}
			if senha == "" {
				line, err := readLine(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read senha: %w", err)
				}
				senha = line
			}

			store, err := opts.tokenStore()
			if err != nil {
				return err
			}

			ctx, cancel := opts.context()
			defer cancel()

			sess, err := authclient.New(opts.server).Login(ctx, email, senha)
			if err != nil {
				return err
			}
			if err := store.Save(sess.Token); err != nil {
				return err
			}

			slog.Debug("token saved", "path", store.Path())
			fmt.Fprintf(cmd.OutOrStdout(), "Conectado como %s <%s> até %s\n",
				sess.Usuario.Nome, sess.Usuario.Email, sess.ExpiresAt.Local().Format(time.DateTime))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account e-mail")
	cmd.Flags().StringVar(&senha, "senha", "", "Account password")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newVerifyCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Show the account of the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, token, err := opts.savedToken()
			if err != nil {
				return err
			}

			ctx, cancel := opts.context()
			defer cancel()

			u, err := authclient.New(opts.server).Verify(ctx, token)
			if err != nil {
				if errors.Is(err, authclient.ErrRejected) {
					_ = store.Clear()
				}
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Nome:      %s\n", u.Nome)
			fmt.Fprintf(out, "E-mail:    %s\n", u.Email)
			if u.Documento != "" {
				fmt.Fprintf(out, "Documento: %s\n", u.Documento)
			}
			return nil
		},
	}
}

func newLogoutCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke and forget the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, token, err := opts.savedToken()
			if err != nil {
				return err
			}

			ctx, cancel := opts.context()
			defer cancel()

			err = authclient.New(opts.server).Logout(ctx, token)
			if err != nil && !errors.Is(err, authclient.ErrRejected) {
				return err
			}
			if err := store.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Sessão encerrada")
			return nil
		},
	}
}

func (o *options) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), o.timeout)
}

func (o *options) tokenStore() (*authclient.FileTokenStore, error) {
	path := o.tokenFile
	if path == "" {
		p, err := authclient.DefaultTokenPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return authclient.NewFileTokenStore(path), nil
}

func (o *options) savedToken() (*authclient.FileTokenStore, string, error) {
	store, err := o.tokenStore()
	if err != nil {
		return nil, "", err
	}
	token, err := store.Load()
	if err != nil {
		if errors.Is(err, authclient.ErrNoToken) {
			return nil, "", errors.New("não há sessão salva; use painelctl login")
		}
		return nil, "", err
	}
	return store, token, nil
}

// describe renders err for the terminal.
func describe(err error) string {
	var rej *authclient.RejectedError
	if errors.As(err, &rej) && rej.Message != "" {
		return fmt.Sprintf("%s (Código: %s)", rej.Message, rej.Code)
	}
	if !core.IsUserFacing(err) {
		return err.Error()
	}
	return core.NewUserError(err).Display()
}

func readLine(r io.Reader) (string, error) {
	var b strings.Builder
	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if buf[0] == '\n' {
				break
			}
			b.WriteByte(buf[0])
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return "", err
		}
	}
	return strings.TrimRight(b.String(), "\r"), nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
