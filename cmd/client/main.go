package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mizulegendsstudios/mizu-notes-sub000/internal/client"
	"github.com/mizulegendsstudios/mizu-notes-sub000/internal/config"
	"github.com/mizulegendsstudios/mizu-notes-sub000/internal/logger"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

var (
	loginFlag    = flag.String("login", "", "account login")
	passwordFlag = flag.String("password", "", "account password")
	nameFlag     = flag.String("name", "", "display name (registration only)")
	registerFlag = flag.Bool("register", false, "create a new account instead of logging in")
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("mizu-notes-client")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	app, err := client.NewApp(cfg.Client, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init client app error")
	}
	defer func() { _ = app.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	login := valueOrEnv(*loginFlag, "NOTES_LOGIN")
	password := valueOrEnv(*passwordFlag, "NOTES_PASSWORD")
	if login == "" || password == "" {
		log.Fatal().Msg("login and password are required (flags -login/-password or NOTES_LOGIN/NOTES_PASSWORD)")
	}

	if *registerFlag {
		err = app.Register(ctx, login, password, *nameFlag)
	} else {
		err = app.Login(ctx, login, password)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("authentication failed")
	}

	if err = app.Run(ctx); err != nil {
		if errors.Is(err, client.ErrServerGaveUp) {
			printLocalNotes(ctx, app, log)
			return
		}
		log.Fatal().Err(err).Msg("client run error")
	}
}

func printLocalNotes(ctx context.Context, app *client.App, log *logger.Logger) {
	notes, err := app.Notes(ctx)
	if err != nil {
		log.Err(err).Msg("error reading local notes")
		return
	}

	fmt.Printf("server unreachable, %d notes available locally:\n", len(notes))
	for _, note := range notes {
		fmt.Printf("  [%s] v%d %s\n", note.NoteID, note.Version, note.Title)
	}
}

func valueOrEnv(value, envKey string) string {
	if value != "" {
		return value
	}
	return os.Getenv(envKey)
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
