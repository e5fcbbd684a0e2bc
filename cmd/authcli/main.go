// Command authcli is a terminal demonstration of the auth client: it
// restores a session from the configured store, logs in, prints the current
// identity, and lists users when the role policy allows it.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-auth-client/authz"
	"github.com/jrsteele09/go-auth-client/credentials"
	fakecredentialstore "github.com/jrsteele09/go-auth-client/credentials/repofake"
	"github.com/jrsteele09/go-auth-client/credentials/redisrepo"
	"github.com/jrsteele09/go-auth-client/credentials/sqliterepo"
	"github.com/jrsteele09/go-auth-client/gateway"
	"github.com/jrsteele09/go-auth-client/internal/config"
	"github.com/jrsteele09/go-auth-client/refresh"
	"github.com/jrsteele09/go-auth-client/session"
	"github.com/jrsteele09/go-auth-client/users"
	remoteuserrepo "github.com/jrsteele09/go-auth-client/users/remoterepo"
)

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "", "path to YAML config (optional, env vars otherwise)")
	flag.Parse()

	if err := run(*configPath, flag.Args()); err != nil {
		log.Fatal().Err(err).Msg("authcli failed")
	}
}

func run(configPath string, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	setupLogging(cfg.Logging)
	displayAppname("Auth Client")

	store, cleanup, err := buildStore(cfg.Store)
	if err != nil {
		return err
	}
	defer cleanup()

	coordinator := refresh.NewCoordinator(cfg.API.BaseURL, nil, store)
	gw := gateway.New(cfg.API.BaseURL, store, coordinator,
		gateway.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}))
	manager := session.NewManager(gw, store, coordinator,
		session.WithAllowedRoles(users.RolesFromStrings(cfg.AllowedRoles)...),
		session.WithExpiredHandler(func() {
			fmt.Println("session expired, please log in again")
		}))

	ctx := context.Background()
	if err := manager.Bootstrap(ctx); err != nil {
		return err
	}

	command := "whoami"
	if len(args) > 0 {
		command = args[0]
	}

	switch command {
	case "login":
		return login(ctx, manager, args[1:])
	case "whoami":
		return whoami(manager)
	case "users":
		return listUsers(ctx, manager, gw)
	case "logout":
		manager.Logout(ctx)
		fmt.Println("logged out")
		return nil
	default:
		return fmt.Errorf("unknown command %q (expected login, whoami, users, or logout)", command)
	}
}

func login(ctx context.Context, manager *session.Manager, args []string) error {
	reader := bufio.NewReader(os.Stdin)

	nik := ""
	if len(args) > 0 {
		nik = args[0]
	} else {
		fmt.Print("nik: ")
		line, _ := reader.ReadString('\n')
		nik = strings.TrimSpace(line)
	}

	password := os.Getenv("AUTH_PASSWORD")
	if password == "" {
		fmt.Print("password: ")
		line, _ := reader.ReadString('\n')
		password = strings.TrimSpace(line)
	}

	user, err := manager.Login(ctx, nik, password)
	if err != nil {
		return err
	}
	fmt.Printf("welcome %s (%s)\n", user.Name, user.Role)
	return nil
}

func whoami(manager *session.Manager) error {
	snap := manager.State().Snapshot()
	if !snap.Authenticated() {
		fmt.Println("not logged in")
		return nil
	}
	u := snap.Identity
	fmt.Printf("%s\t%s\t%s", u.NIK, u.Name, u.Role)
	if u.Specialization != "" {
		fmt.Printf("\t%s", u.Specialization)
	}
	fmt.Println()
	return nil
}

func listUsers(ctx context.Context, manager *session.Manager, gw *gateway.Client) error {
	policy := authz.DefaultPolicy()
	decision := policy.Authorize(manager.State().Snapshot(), authz.RouteUsersManagement)
	switch {
	case decision.Pending:
		return fmt.Errorf("session still loading")
	case decision.Redirect == authz.TargetLogin:
		return fmt.Errorf("not logged in")
	case decision.Redirect == authz.TargetForbidden:
		return fmt.Errorf("your role may not manage users")
	}

	repo := remoteuserrepo.New(gw)
	list, err := repo.List(ctx)
	if err != nil {
		return err
	}
	for _, u := range list {
		active := "active"
		if !u.IsActive {
			active = "inactive"
		}
		fmt.Printf("%s\t%s\t%s\t%s\t%s\n", u.ID, u.NIK, u.Name, u.Role, active)
	}
	return nil
}

func buildStore(cfg config.StoreConfig) (credentials.Store, func(), error) {
	switch cfg.Driver {
	case "sqlite":
		store, err := sqliterepo.Open(cfg.Path, cfg.Namespace)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return redisrepo.New(client, cfg.Namespace), func() { _ = client.Close() }, nil
	default:
		return fakecredentialstore.NewFakeCredentialStore(), func() {}, nil
	}
}

func setupLogging(cfg config.LoggingConfig) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level)
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
