package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/redis/go-redis/v9"

	redisadapter "github.com/financehub/financehub-web/internal/adapters/redis"
	domainauth "github.com/financehub/financehub-web/internal/domain/auth"
	"github.com/financehub/financehub-web/internal/domain/shell"
	"github.com/financehub/financehub-web/internal/service"
)

const scanBatch = 100

func runPing(cmdCtx *commandContext, _ []string) error {
	client, err := cmdCtx.redisClient()
	if err != nil {
		return err
	}
	defer closeRedis(cmdCtx, client)

	start := time.Now()
	if err := client.Ping(cmdCtx.Ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	return writef(cmdCtx.Out, "redis ok (%s)\n", time.Since(start).Round(time.Microsecond))
}

type listSessionsOptions struct {
	UserID  string
	Limit   int
	RawJSON bool
}

func parseListSessionsOptions(args []string) (listSessionsOptions, error) {
	var opts listSessionsOptions
	fs := flag.NewFlagSet("list-sessions", flag.ContinueOnError)
	fs.StringVar(&opts.UserID, "user", "", "Only show sessions for this user ID")
	fs.IntVar(&opts.Limit, "limit", 50, "Maximum sessions to print (0 for all)")
	fs.BoolVar(&opts.RawJSON, "json", false, "Print sessions as JSON")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.Limit < 0 {
		return opts, errors.New("--limit must be zero or positive")
	}
	return opts, nil
}

func runListSessions(cmdCtx *commandContext, args []string) error {
	opts, err := parseListSessionsOptions(args)
	if err != nil {
		return err
	}
	client, err := cmdCtx.redisClient()
	if err != nil {
		return err
	}
	defer closeRedis(cmdCtx, client)

	sessions, err := loadSessions(cmdCtx, client, opts.UserID)
	if err != nil {
		return err
	}
	if opts.Limit > 0 && len(sessions) > opts.Limit {
		sessions = sessions[:opts.Limit]
	}

	if opts.RawJSON {
		enc := json.NewEncoder(cmdCtx.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(sessions)
	}
	return printSessions(cmdCtx, sessions)
}

func printSessions(cmdCtx *commandContext, sessions []domainauth.Session) error {
	if len(sessions) == 0 {
		return writeln(cmdCtx.Out, "No live sessions.")
	}
	tw := tabwriter.NewWriter(cmdCtx.Out, 0, 0, 2, ' ', 0)
	if err := writeln(tw, "SESSION\tUSER\tNAME\tEMAIL\tROLE\tEXPIRES"); err != nil {
		return fmt.Errorf("print sessions: %w", err)
	}
	for _, s := range sessions {
		user := s.CurrentUser()
		if err := writef(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			s.ID, s.UserID, shell.DisplayName(&user), dashIfEmpty(s.Email), s.Role,
			s.ExpiresAt.UTC().Format(time.RFC3339),
		); err != nil {
			return fmt.Errorf("print sessions: %w", err)
		}
	}
	return tw.Flush()
}

// loadSessions scans the session keyspace and returns live sessions ordered by expiry.
// Records that fail to decode are logged and skipped.
func loadSessions(cmdCtx *commandContext, client redis.UniversalClient, userID string) ([]domainauth.Session, error) {
	prefix := sessionPrefix(cmdCtx)
	iter := client.Scan(cmdCtx.Ctx, 0, prefix+"*", scanBatch).Iterator()
	keys := make([]string, 0)
	for iter.Next(cmdCtx.Ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan sessions: %w", err)
	}

	sessions := make([]domainauth.Session, 0, len(keys))
	for start := 0; start < len(keys); start += scanBatch {
		end := min(start+scanBatch, len(keys))
		vals, err := client.MGet(cmdCtx.Ctx, keys[start:end]...).Result()
		if err != nil {
			return nil, fmt.Errorf("read sessions: %w", err)
		}
		for i, v := range vals {
			raw, ok := v.(string)
			if !ok {
				continue // expired between SCAN and MGET
			}
			var s domainauth.Session
			if err := json.Unmarshal([]byte(raw), &s); err != nil {
				cmdCtx.Logger.Warn("skipping undecodable session", "key", keys[start+i], "error", err)
				continue
			}
			if userID != "" && s.UserID != userID {
				continue
			}
			sessions = append(sessions, s)
		}
	}

	sort.Slice(sessions, func(i, j int) bool { return sessions[i].ExpiresAt.Before(sessions[j].ExpiresAt) })
	return sessions, nil
}

func runShowUser(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("show-user", flag.ContinueOnError)
	sessionID := fs.String("session", "", "Session ID to resolve")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*sessionID) == "" {
		return errors.New("--session is required")
	}

	client, err := cmdCtx.redisClient()
	if err != nil {
		return err
	}
	defer closeRedis(cmdCtx, client)

	users := service.NewCurrentUserService(service.CurrentUserServiceOptions{
		Sessions: newAuthService(cmdCtx, client),
		Cache:    redisadapter.NewUserCache(client),
		TTL:      cmdCtx.Config.Session.UserCacheTTL,
		Logger:   cmdCtx.Logger,
	})
	user, err := users.FetchCurrentUser(cmdCtx.Ctx, *sessionID)
	if err != nil {
		return fmt.Errorf("resolve user: %w", err)
	}

	panel := shell.NewSessionPanel(user)
	if !panel.Loaded {
		if err := writeln(cmdCtx.Out, "No live session; the panel shows the fallback user."); err != nil {
			return err
		}
	}
	return writef(cmdCtx.Out, "Name:    %s\nInitial: %s\nEmail:   %s\n",
		panel.DisplayName, panel.DisplayInitial, dashIfEmpty(panel.Email))
}

type revokeOptions struct {
	SessionID string
	UserID    string
	DryRun    bool
	Yes       bool
}

func parseRevokeOptions(args []string) (revokeOptions, error) {
	var opts revokeOptions
	fs := flag.NewFlagSet("revoke-session", flag.ContinueOnError)
	fs.StringVar(&opts.SessionID, "session", "", "Session ID to end")
	fs.StringVar(&opts.UserID, "user", "", "End every session for this user ID")
	fs.BoolVar(&opts.DryRun, "dry-run", false, "Print what would be revoked without deleting")
	fs.BoolVar(&opts.Yes, "yes", false, "Skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	switch {
	case opts.SessionID == "" && opts.UserID == "":
		return opts, errors.New("one of --session or --user is required")
	case opts.SessionID != "" && opts.UserID != "":
		return opts, errors.New("--session and --user are mutually exclusive")
	}
	return opts, nil
}

func runRevokeSession(cmdCtx *commandContext, args []string) error {
	opts, err := parseRevokeOptions(args)
	if err != nil {
		return err
	}
	client, err := cmdCtx.redisClient()
	if err != nil {
		return err
	}
	defer closeRedis(cmdCtx, client)

	ids := []string{opts.SessionID}
	target := "session " + opts.SessionID
	if opts.UserID != "" {
		sessions, loadErr := loadSessions(cmdCtx, client, opts.UserID)
		if loadErr != nil {
			return loadErr
		}
		ids = ids[:0]
		for _, s := range sessions {
			ids = append(ids, s.ID)
		}
		target = fmt.Sprintf("%d session(s) for user %s", len(ids), opts.UserID)
	}
	if len(ids) == 0 {
		return writeln(cmdCtx.Out, "No sessions to revoke.")
	}

	if err := confirmAction(cmdCtx.Out, cmdCtx.In, "revoke "+target, opts.Yes, opts.DryRun); err != nil {
		return err
	}
	if opts.DryRun {
		return writef(cmdCtx.Out, "Would revoke %s.\n", target)
	}

	auth := newAuthService(cmdCtx, client)
	var errs []error
	for _, id := range ids {
		if err := auth.Logout(cmdCtx.Ctx, id); err != nil {
			errs = append(errs, fmt.Errorf("revoke %s: %w", id, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}
	return writef(cmdCtx.Out, "Revoked %s.\n", target)
}

// newAuthService builds the session half of AuthService; login is never used here.
func newAuthService(cmdCtx *commandContext, client redis.UniversalClient) *service.AuthService {
	return service.NewAuthService(service.AuthServiceOptions{
		Sessions: redisadapter.NewSessionStoreWithPrefix(client, sessionPrefix(cmdCtx)),
		Users:    redisadapter.NewUserCache(client),
	})
}

func sessionPrefix(cmdCtx *commandContext) string {
	if p := cmdCtx.Config.Session.KeyPrefix; p != "" {
		return p
	}
	return "session:"
}

func closeRedis(cmdCtx *commandContext, client redis.UniversalClient) {
	if err := client.Close(); err != nil {
		cmdCtx.Logger.Warn("close redis failed", "error", err)
	}
}

func dashIfEmpty(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
