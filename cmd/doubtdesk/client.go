package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tbourn/go-doubts-backend/internal/sysutil"
	"github.com/tbourn/go-doubts-backend/pkg/client"
)

// clientFlags are shared by every client subcommand.
type clientFlags struct {
	server  string
	session string
	json    bool
}

func (f *clientFlags) connect() (*client.Client, error) {
	path := sysutil.FirstNonEmpty(f.session, os.Getenv("DOUBTDESK_SESSION"))
	if path == "" {
		p, err := client.DefaultSessionPath()
		if err != nil {
			return nil, fmt.Errorf("session path: %w", err)
		}
		path = p
	}
	sess, err := client.NewSession(client.FileStore{Path: path})
	if err != nil {
		return nil, err
	}
	base := sysutil.FirstNonEmpty(f.server, os.Getenv("DOUBTDESK_SERVER"), client.DefaultBaseURL)
	return client.New(base, client.WithSession(sess), client.WithUserAgent("doubtdesk/"+version)), nil
}

// print writes v as JSON when --json is set, otherwise through text.
func (f *clientFlags) print(w io.Writer, v any, text func(io.Writer)) error {
	if f.json {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(w)
	return nil
}

func newClientCommand() *cobra.Command {
	f := &clientFlags{}
	cmd := &cobra.Command{
		Use:   "client",
		Short: "Use a doubtdesk server from the terminal",
		Long: `client talks to a running doubtdesk server. The session is kept in
$HOME/.doubtdesk/session.json unless --session or DOUBTDESK_SESSION says
otherwise; the server URL comes from --server, DOUBTDESK_SERVER, or the
local default.`,
	}
	cmd.PersistentFlags().StringVar(&f.server, "server", "", "API base URL (default "+client.DefaultBaseURL+")")
	cmd.PersistentFlags().StringVar(&f.session, "session", "", "session file path")
	cmd.PersistentFlags().BoolVar(&f.json, "json", false, "print raw JSON")

	cmd.AddCommand(
		registerCmd(f), loginCmd(f), logoutCmd(f), whoamiCmd(f),
		askCmd(f), feedCmd(f), mineCmd(f),
		respondCmd(f), responsesCmd(f),
		notificationsCmd(f), readCmd(f), readAllCmd(f),
		forgotPasswordCmd(f), resetPasswordCmd(f),
	)
	return cmd
}

func registerCmd(f *clientFlags) *cobra.Command {
	var in client.RegisterInput
	var branch string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := f.connect()
			if err != nil {
				return err
			}
			if branch != "" {
				in.Branch = &branch
			}
			res, err := c.Register(cmd.Context(), in)
			if err != nil {
				return err
			}
			return f.print(cmd.OutOrStdout(), res, func(w io.Writer) {
				fmt.Fprintf(w, "Registered and logged in as %s\n", res.User.UserID)
			})
		},
	}
	cmd.Flags().StringVar(&in.Username, "username", "", "username")
	cmd.Flags().StringVar(&in.Password, "password", "", "password")
	cmd.Flags().StringVar(&in.Email, "email", "", "email address")
	cmd.Flags().StringVar(&branch, "branch", "", "academic branch")
	return cmd
}

func loginCmd(f *clientFlags) *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and save the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := f.connect()
			if err != nil {
				return err
			}
			password = sysutil.FirstNonEmpty(password, os.Getenv("DOUBTDESK_PASSWORD"))
			res, err := c.Login(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			return f.print(cmd.OutOrStdout(), res, func(w io.Writer) {
				fmt.Fprintf(w, "Logged in as %s\n", res.User.UserID)
			})
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "username")
	cmd.Flags().StringVar(&password, "password", "", "password (or DOUBTDESK_PASSWORD)")
	return cmd
}

func logoutCmd(f *clientFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := f.connect()
			if err != nil {
				return err
			}
			if err := c.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func whoamiCmd(f *clientFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := f.connect()
			if err != nil {
				return err
			}
			u, ok := c.Session().User()
			if !ok {
				return client.ErrNotLoggedIn
			}
			return f.print(cmd.OutOrStdout(), u, func(w io.Writer) {
				fmt.Fprintf(w, "%s <%s>", u.UserID, u.Email)
				if u.Branch != nil && *u.Branch != "" {
					fmt.Fprintf(w, " [%s]", *u.Branch)
				}
				fmt.Fprintln(w)
			})
		},
	}
}

func askCmd(f *clientFlags) *cobra.Command {
	var in client.DoubtInput
	var branch, location, key string
	cmd := &cobra.Command{
		Use:   "ask",
		Short: "Post a doubt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := f.connect()
			if err != nil {
				return err
			}
			if branch != "" {
				in.Branch = &branch
			}
			if location != "" {
				in.Location = &location
			}
			var opts []client.CallOption
			if key != "" {
				opts = append(opts, client.WithIdempotencyKey(key))
			}
			d, err := c.PostDoubt(cmd.Context(), in, opts...)
			if err != nil {
				return err
			}
			return f.print(cmd.OutOrStdout(), d, func(w io.Writer) {
				fmt.Fprintf(w, "Posted doubt #%d\n", d.ID)
			})
		},
	}
	cmd.Flags().StringVar(&in.Subject, "subject", "", "subject")
	cmd.Flags().StringVar(&in.Description, "description", "", "description")
	cmd.Flags().StringVar(&branch, "branch", "", "academic branch")
	cmd.Flags().StringVar(&location, "location", "", "where to meet")
	cmd.Flags().StringVar(&key, "idempotency-key", "", "retry-safe request key")
	return cmd
}

func feedCmd(f *clientFlags) *cobra.Command {
	var id uint
	cmd := &cobra.Command{
		Use:   "feed",
		Short: "List other students' doubts, or show one with --id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := f.connect()
			if err != nil {
				return err
			}
			if id != 0 {
				d, err := c.GetDoubt(cmd.Context(), id)
				if err != nil {
					return err
				}
				return f.print(cmd.OutOrStdout(), d, func(w io.Writer) { printDoubt(w, *d, -1) })
			}
			ds, err := c.GetDoubts(cmd.Context())
			if err != nil {
				return err
			}
			return f.print(cmd.OutOrStdout(), ds, func(w io.Writer) {
				if len(ds) == 0 {
					fmt.Fprintln(w, "No doubts yet")
				}
				for _, d := range ds {
					printDoubt(w, d, -1)
				}
			})
		},
	}
	cmd.Flags().UintVar(&id, "id", 0, "show a single doubt")
	return cmd
}

func mineCmd(f *clientFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "mine",
		Short: "List your doubts with response counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := f.connect()
			if err != nil {
				return err
			}
			ds, err := c.GetMyDoubts(cmd.Context())
			if err != nil {
				return err
			}
			return f.print(cmd.OutOrStdout(), ds, func(w io.Writer) {
				if len(ds) == 0 {
					fmt.Fprintln(w, "You have not posted any doubts")
				}
				for _, d := range ds {
					printDoubt(w, d.Doubt, d.ResponseCount)
				}
			})
		},
	}
}

func respondCmd(f *clientFlags) *cobra.Command {
	var in client.ResponseInput
	var contact, key string
	cmd := &cobra.Command{
		Use:   "respond <doubt-id>",
		Short: "Answer a doubt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseUint(args[0])
			if err != nil {
				return err
			}
			c, err := f.connect()
			if err != nil {
				return err
			}
			if contact != "" {
				in.ContactInfo = &contact
			}
			var opts []client.CallOption
			if key != "" {
				opts = append(opts, client.WithIdempotencyKey(key))
			}
			r, err := c.PostDoubtResponse(cmd.Context(), id, in, opts...)
			if err != nil {
				return err
			}
			return f.print(cmd.OutOrStdout(), r, func(w io.Writer) {
				fmt.Fprintf(w, "Posted response #%d to doubt #%d\n", r.ID, r.DoubtID)
			})
		},
	}
	cmd.Flags().StringVar(&in.Message, "message", "", "answer text")
	cmd.Flags().StringVar(&contact, "contact", "", "how to reach you")
	cmd.Flags().StringVar(&key, "idempotency-key", "", "retry-safe request key")
	return cmd
}

func responsesCmd(f *clientFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "responses <doubt-id>",
		Short: "List answers to a doubt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseUint(args[0])
			if err != nil {
				return err
			}
			c, err := f.connect()
			if err != nil {
				return err
			}
			rs, err := c.GetResponses(cmd.Context(), id)
			if err != nil {
				return err
			}
			return f.print(cmd.OutOrStdout(), rs, func(w io.Writer) {
				if len(rs) == 0 {
					fmt.Fprintln(w, "No responses yet")
				}
				for _, r := range rs {
					fmt.Fprintf(w, "#%d  %s  %s\n    %s\n", r.ID, r.ResponderName, stamp(r.CreatedAt), r.Message)
					if r.ContactInfo != nil && *r.ContactInfo != "" {
						fmt.Fprintf(w, "    contact: %s\n", *r.ContactInfo)
					}
				}
			})
		},
	}
}

func notificationsCmd(f *clientFlags) *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "List notifications, or follow them live with --watch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := f.connect()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if watch {
				events, err := c.StreamNotifications(cmd.Context())
				if err != nil {
					return err
				}
				for ev := range events {
					if err := f.print(out, ev, func(w io.Writer) { printEvent(w, ev) }); err != nil {
						return err
					}
				}
				return nil
			}

			ns, err := c.GetNotifications(cmd.Context())
			if err != nil {
				return err
			}
			return f.print(out, ns, func(w io.Writer) {
				if len(ns) == 0 {
					fmt.Fprintln(w, "No notifications")
				}
				for _, n := range ns {
					printNotification(w, n)
				}
			})
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "stream new notifications until interrupted")
	return cmd
}

func readCmd(f *clientFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "read <notification-id>",
		Short: "Mark a notification read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseUint(args[0])
			if err != nil {
				return err
			}
			c, err := f.connect()
			if err != nil {
				return err
			}
			n, err := c.MarkNotificationRead(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %d notification(s)\n", n)
			return nil
		},
	}
}

func readAllCmd(f *clientFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "read-all",
		Short: "Mark every notification read",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := f.connect()
			if err != nil {
				return err
			}
			n, err := c.MarkAllNotificationsRead(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %d notification(s)\n", n)
			return nil
		},
	}
}

func forgotPasswordCmd(f *clientFlags) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "forgot-password",
		Short: "Request a password reset link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := f.connect()
			if err != nil {
				return err
			}
			res, err := c.ForgotPassword(cmd.Context(), email)
			if err != nil {
				return err
			}
			return f.print(cmd.OutOrStdout(), res, func(w io.Writer) {
				fmt.Fprintln(w, res.Message)
				fmt.Fprintln(w, res.ResetLink)
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	return cmd
}

func resetPasswordCmd(f *clientFlags) *cobra.Command {
	var token, password string
	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Set a new password with a reset token or link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tok, err := client.TokenFromLink(token)
			if err != nil {
				return err
			}
			c, err := f.connect()
			if err != nil {
				return err
			}
			msg, err := c.ResetPassword(cmd.Context(), tok, password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "reset token or the full reset link")
	cmd.Flags().StringVar(&password, "password", "", "new password")
	return cmd
}

func parseUint(s string) (uint, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil || n == 0 {
		return 0, errors.New("id must be a positive integer")
	}
	return uint(n), nil
}

func stamp(t time.Time) string { return t.Local().Format("2006-01-02 15:04") }

// printDoubt prints one doubt; count < 0 omits the response count.
func printDoubt(w io.Writer, d client.Doubt, count int64) {
	fmt.Fprintf(w, "#%d  %s", d.ID, d.Subject)
	if d.Name != "" {
		fmt.Fprintf(w, "  by %s", d.Name)
	}
	fmt.Fprintf(w, "  %s", stamp(d.CreatedAt))
	if count >= 0 {
		fmt.Fprintf(w, "  (%d responses)", count)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "    %s\n", d.Description)
	var meta []string
	if d.Branch != nil && *d.Branch != "" {
		meta = append(meta, "branch: "+*d.Branch)
	}
	if d.Location != nil && *d.Location != "" {
		meta = append(meta, "location: "+*d.Location)
	}
	if len(meta) > 0 {
		fmt.Fprintf(w, "    %s\n", strings.Join(meta, ", "))
	}
}

func printNotification(w io.Writer, n client.Notification) {
	mark := "*"
	if n.IsRead {
		mark = " "
	}
	fmt.Fprintf(w, "%s #%d  %s  %s  (doubt #%d)\n", mark, n.ID, stamp(n.CreatedAt), n.Message, n.DoubtID)
}

func printEvent(w io.Writer, ev client.StreamEvent) {
	switch {
	case ev.Type == "connected" && ev.Unread != nil:
		fmt.Fprintf(w, "Watching notifications (%d unread)\n", *ev.Unread)
	case ev.Notification != nil:
		printNotification(w, *ev.Notification)
	}
}
