// Command admintoken prints a bearer token for an admin account, creating
// the account first when asked to.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"ubersystem/internal/accounts/models"
	"ubersystem/internal/accounts/secrets"
	accountservice "ubersystem/internal/accounts/service"
	accountstore "ubersystem/internal/accounts/store"
	"ubersystem/internal/admintoken"
	"ubersystem/internal/platform/config"
	"ubersystem/internal/platform/logger"
	"ubersystem/internal/platform/postgres"
	trackingservice "ubersystem/internal/tracking/service"
	trackingstore "ubersystem/internal/tracking/store"
	dErrors "ubersystem/pkg/domain-errors"
	"ubersystem/pkg/email"
	"ubersystem/pkg/enumset"
	platformstrings "ubersystem/pkg/platform/strings"
	"ubersystem/pkg/requestcontext"
)

const workerName = "admintoken"

type options struct {
	email  string
	name   string
	create bool
	access string
	ttl    time.Duration
}

func main() {
	var opts options
	flag.StringVar(&opts.email, "email", "", "account email (required)")
	flag.StringVar(&opts.name, "name", "", "display name for a new account")
	flag.BoolVar(&opts.create, "create", false, "create the account when it does not exist")
	flag.StringVar(&opts.access, "access", "accounts", "comma separated access areas for a new account")
	flag.DurationVar(&opts.ttl, "ttl", 0, "token lifetime (defaults to ADMIN_TOKEN_TTL)")
	flag.Parse()

	if err := run(context.Background(), opts, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "admintoken:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, out io.Writer) error {
	if opts.email == "" {
		return errors.New("-email is required")
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Database.URL == "" {
		return errors.New("DATABASE_URL is required; in-memory servers keep accounts to themselves")
	}
	if opts.ttl == 0 {
		opts.ttl = cfg.Server.AdminTokenTTL
	}
	log := logger.New(config.LogConfig{Level: "warn", Format: cfg.Log.Format})

	db, err := postgres.Open(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		return err
	}

	store := accountstore.NewPostgres(db)
	tracker, err := trackingservice.New(trackingstore.NewPostgres(db),
		trackingservice.WithLogger(log),
		trackingservice.WithActorResolver(accountservice.NewNames(store)),
	)
	if err != nil {
		return err
	}
	accounts, err := accountservice.New(postgres.NewTxManager(db), store, tracker, accountservice.WithLogger(log))
	if err != nil {
		return err
	}
	tokens, err := admintoken.NewService(cfg.Server.AdminJWTSecret, admintoken.DefaultIssuer, admintoken.DefaultAudience)
	if err != nil {
		return err
	}

	ctx = requestcontext.WithWorker(ctx, workerName)
	account, err := accounts.GetByEmail(ctx, opts.email)
	if dErrors.HasCode(err, dErrors.CodeNotFound) && opts.create {
		account, err = createAccount(ctx, accounts, opts, out)
	}
	if err != nil {
		return err
	}

	token, err := tokens.Issue(account.ID, opts.ttl)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "token for %s (expires in %s):\n%s\n", account.Email, opts.ttl, token)
	return nil
}

func createAccount(ctx context.Context, accounts *accountservice.Service, opts options, out io.Writer) (*models.Account, error) {
	access, err := parseAccess(opts.access)
	if err != nil {
		return nil, err
	}
	name := opts.name
	if name == "" {
		name = email.DisplayName(opts.email)
	}
	password, err := secrets.Generate()
	if err != nil {
		return nil, err
	}
	account, err := accounts.Create(ctx, name, opts.email, password, access)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(out, "created account %s <%s> with password %s\n", account.Name, account.Email, password)
	return account, nil
}

// parseAccess reads area keys such as "accounts,people".
func parseAccess(s string) (models.AccessSet, error) {
	var levels []models.AccessLevel
	for _, key := range platformstrings.DedupeAndTrim(strings.Split(s, ",")) {
		var level models.AccessLevel
		if err := level.UnmarshalText([]byte(key)); err != nil {
			return nil, err
		}
		levels = append(levels, level)
	}
	return enumset.Of(levels...), nil
}
