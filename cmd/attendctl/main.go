package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"classtrack/internal/apiclient"
	"classtrack/internal/auth"
	"classtrack/internal/cache"
	"classtrack/internal/config"
	"classtrack/internal/notify"
	"classtrack/internal/profile"
	"classtrack/internal/query"
)

var errHelp = errors.New("help provided")

// commandLine carries the wired client stack for one invocation.
type commandLine struct {
	cfg  config.App
	api  *apiclient.Client
	data *query.Service

	// claims is zero when no token is configured.
	claims   auth.Claims
	signedIn bool
}

func main() {
	cfg := config.Load()

	api := apiclient.New(cfg.APIBaseURL)
	cacheStore := cache.NewMemory(cfg.CacheTTL)
	defer cacheStore.Close()

	cli := &commandLine{
		cfg:  cfg,
		api:  api,
		data: query.NewService(api, cacheStore, notify.Log{}),
	}

	if token := os.Getenv("CLASSTRACK_TOKEN"); token != "" {
		claims, err := auth.Parse(token, cfg.JWTSigningKey, cfg.JWTIssuer)
		if err != nil {
			log.Fatalf("CLASSTRACK_TOKEN invalid: %v", err)
		}
		api.SetToken(token)
		cli.claims = claims
		cli.signedIn = true
	}

	if err := cli.run(os.Args); err != nil && err != errHelp {
		log.Fatal(err)
	}
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  login -email EMAIL -password PASSWORD      - sign in, print a token for CLASSTRACK_TOKEN")
	fmt.Println("  profile [-name NAME] [-dept DEPT] [-phone PHONE] - show profile; flags enter edit mode")
	fmt.Println("  passwd -current PWD -new PWD -confirm PWD  - change password")
	fmt.Println("  attendance -date YYYY-MM-DD                - list attendance records for a day")
	fmt.Println("  checkin -user USER_ID -session SESSION_ID  - record a check-in")
	fmt.Println("  courses [-instructor ID]                   - list courses")
	fmt.Println("  sessions [-date YYYY-MM-DD] [-course ID]   - list class sessions")
	fmt.Println("  beacons                                    - list beacons and assignments")
}

// requireAuth builds the profile service; most commands need a signed-in
// user.
func (cli *commandLine) requireAuth() (*profile.Service, error) {
	if !cli.signedIn {
		return nil, errors.New("set CLASSTRACK_TOKEN first (see the login command)")
	}
	return profile.NewService(cli.claims, cli.api.Users, cli.data, notify.Log{}), nil
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	ctx := context.Background()
	switch args[1] {
	case "login":
		return cli.login(ctx, args[2:])
	case "profile":
		return cli.profile(ctx, args[2:])
	case "passwd":
		return cli.passwd(ctx, args[2:])
	case "attendance":
		return cli.attendance(ctx, args[2:])
	case "checkin":
		return cli.checkin(ctx, args[2:])
	case "courses":
		return cli.courses(ctx, args[2:])
	case "sessions":
		return cli.sessions(ctx, args[2:])
	case "beacons":
		return cli.beacons(ctx, args[2:])
	default:
		cli.printUsage()
		return errHelp
	}
}
